package simulator

import (
	"sort"

	"github.com/stitts-dev/draft-sim/internal/draft"
)

// PlayerFrequency is one row of the ranked pick report
type PlayerFrequency struct {
	Name       string  `json:"name" yaml:"name"`
	Position   string  `json:"position,omitempty" yaml:"position,omitempty"`
	Count      int     `json:"count" yaml:"count"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// Aggregator sums hero pick counts over qualifying trials. Merging is a plain
// per-player sum, so the order trials arrive in never changes the result.
type Aggregator struct {
	counts     map[string]int
	completed  int
	qualifying int
	dropped    int
}

func NewAggregator() *Aggregator {
	return &Aggregator{counts: make(map[string]int)}
}

// Add records a completed trial; only qualifying trials contribute picks
func (a *Aggregator) Add(result *draft.TrialResult) {
	a.completed++
	if !result.Qualifies {
		return
	}
	a.qualifying++
	for name, count := range result.Hero.PickCount {
		a.counts[name] += count
	}
}

// AddDropped records a trial that failed before completing
func (a *Aggregator) AddDropped() {
	a.dropped++
}

func (a *Aggregator) Merge(other *Aggregator) {
	for name, count := range other.counts {
		a.counts[name] += count
	}
	a.completed += other.completed
	a.qualifying += other.qualifying
	a.dropped += other.dropped
}

// Counts returns a copy of the per-player totals
func (a *Aggregator) Counts() map[string]int {
	counts := make(map[string]int, len(a.counts))
	for name, count := range a.counts {
		counts[name] = count
	}
	return counts
}

func (a *Aggregator) Completed() int  { return a.completed }
func (a *Aggregator) Qualifying() int { return a.qualifying }
func (a *Aggregator) Dropped() int    { return a.dropped }

// Ranked divides each count by total and returns the topK highest
// percentages, ties broken by name. topK <= 0 returns every player.
func (a *Aggregator) Ranked(total, topK int) []PlayerFrequency {
	return rank(a.counts, total, topK)
}

func rank(counts map[string]int, total, topK int) []PlayerFrequency {
	ranked := make([]PlayerFrequency, 0, len(counts))
	for name, count := range counts {
		pct := 0.0
		if total > 0 {
			pct = float64(count) / float64(total)
		}
		ranked = append(ranked, PlayerFrequency{Name: name, Count: count, Percentage: pct})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Name < ranked[j].Name
	})

	if topK > 0 && len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}
