package simulator

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/stitts-dev/draft-sim/internal/draft"
)

// Distribution summarizes one hero total across completed trials
type Distribution struct {
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
}

func describe(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	d := Distribution{
		Min: floats.Min(values),
		Max: floats.Max(values),
	}
	if len(values) < 2 {
		d.Mean = values[0]
		return d
	}
	d.Mean, d.StdDev = stat.MeanStdDev(values, nil)
	return d
}

// Summary is the result of a simulation batch
type Summary struct {
	ID                string         `json:"id" yaml:"id"`
	Trials            int            `json:"trials" yaml:"trials"`
	Completed         int            `json:"completed" yaml:"completed"`
	Qualifying        int            `json:"qualifying" yaml:"qualifying"`
	Dropped           int            `json:"dropped" yaml:"dropped"`
	QualificationRate float64        `json:"qualification_rate" yaml:"qualification_rate"`
	HeroValue         Distribution   `json:"hero_value" yaml:"hero_value"`
	HeroPoints        Distribution   `json:"hero_points" yaml:"hero_points"`
	Counts            map[string]int `json:"counts" yaml:"counts"`
	ExecutionTime     time.Duration  `json:"execution_time" yaml:"execution_time"`

	pool *draft.PlayerPool
}

func newSummary(id string, trials int, agg *Aggregator, heroValues, heroPoints []float64, pool *draft.PlayerPool) *Summary {
	s := &Summary{
		ID:         id,
		Trials:     trials,
		Completed:  agg.Completed(),
		Qualifying: agg.Qualifying(),
		Dropped:    agg.Dropped(),
		HeroValue:  describe(heroValues),
		HeroPoints: describe(heroPoints),
		Counts:     agg.Counts(),
		pool:       pool,
	}
	if s.Completed > 0 {
		s.QualificationRate = float64(s.Qualifying) / float64(s.Completed)
	}
	return s
}

// Ranked returns the topK players by pick percentage, where percentage is
// the qualifying pick count over all requested trials
func (s *Summary) Ranked(topK int) []PlayerFrequency {
	ranked := rank(s.Counts, s.Trials, topK)
	if s.pool != nil {
		for i := range ranked {
			if p, ok := s.pool.Lookup(ranked[i].Name); ok {
				ranked[i].Position = string(p.Position)
			}
		}
	}
	return ranked
}
