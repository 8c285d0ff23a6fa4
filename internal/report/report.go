package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stitts-dev/draft-sim/internal/simulator"
	"github.com/stitts-dev/draft-sim/pkg/utils"
)

// Output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

var Formats = []string{FormatTable, FormatJSON, FormatYAML}

// Report is the rendered view of one simulation batch
type Report struct {
	SimulationID      string                      `json:"simulation_id" yaml:"simulation_id"`
	Trials            int                         `json:"trials" yaml:"trials"`
	Completed         int                         `json:"completed" yaml:"completed"`
	Qualifying        int                         `json:"qualifying" yaml:"qualifying"`
	Dropped           int                         `json:"dropped" yaml:"dropped"`
	QualificationRate float64                     `json:"qualification_rate" yaml:"qualification_rate"`
	Randomness        int                         `json:"randomness" yaml:"randomness"`
	HeroValue         simulator.Distribution      `json:"hero_value" yaml:"hero_value"`
	HeroPoints        simulator.Distribution      `json:"hero_points" yaml:"hero_points"`
	ExecutionTime     string                      `json:"execution_time" yaml:"execution_time"`
	Players           []simulator.PlayerFrequency `json:"players" yaml:"players"`
}

// New builds a report of the topK most picked players
func New(summary *simulator.Summary, randomness, topK int) *Report {
	return &Report{
		SimulationID:      summary.ID,
		Trials:            summary.Trials,
		Completed:         summary.Completed,
		Qualifying:        summary.Qualifying,
		Dropped:           summary.Dropped,
		QualificationRate: summary.QualificationRate,
		Randomness:        randomness,
		HeroValue:         summary.HeroValue,
		HeroPoints:        summary.HeroPoints,
		ExecutionTime:     summary.ExecutionTime.Round(time.Millisecond).String(),
		Players:           summary.Ranked(topK),
	}
}

// Title matches the chart heading
func (r *Report) Title() string {
	return fmt.Sprintf("Player Pick Percentages for %d Simulations using %d pick deviation", r.Trials, r.Randomness)
}

// Write renders the report in the given format
func (r *Report) Write(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case FormatTable, "":
		return r.WriteTable(w)
	case FormatJSON:
		return r.WriteJSON(w)
	case FormatYAML:
		return r.WriteYAML(w)
	default:
		return fmt.Errorf("%w: unknown output format %q (want one of %s)",
			utils.ErrInvalidInput, format, strings.Join(Formats, ", "))
	}
}

func (r *Report) WriteTable(w io.Writer) error {
	fmt.Fprintln(w, r.Title())
	fmt.Fprintf(w, "qualifying %d of %d completed (%.1f%%), %d dropped, took %s\n\n",
		r.Qualifying, r.Completed, r.QualificationRate*100, r.Dropped, r.ExecutionTime)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPlayer\tPos\tPicks\tPct")
	for i, p := range r.Players {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%.2f%%\n", i+1, p.Name, p.Position, p.Count, p.Percentage*100)
	}
	return tw.Flush()
}

func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return enc.Close()
}
