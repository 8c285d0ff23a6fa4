package report

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ChartConfig holds the page size and palette for the pick chart
type ChartConfig struct {
	Width  string
	Height string
	Theme  string
	Color  string
}

func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:  "1000px",
		Height: "700px",
		Theme:  "light",
		Color:  "#5470C6",
	}
}

// RenderPickChart writes a horizontal bar chart of pick percentages, most
// picked player on top
func (r *Report) RenderPickChart(w io.Writer, config ChartConfig) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Draft Simulation",
			Width:     config.Width,
			Height:    config.Height,
			Theme:     config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    r.Title(),
			Subtitle: fmt.Sprintf("%d qualifying drafts", r.Qualifying),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithColorsOpts(opts.Colors{config.Color}),
		charts.WithGridOpts(opts.Grid{
			ContainLabel: opts.Bool(true),
		}),
	)

	// the y axis draws bottom-up, so reverse to put the top pick first
	n := len(r.Players)
	labels := make([]string, n)
	values := make([]opts.BarData, n)
	for i, p := range r.Players {
		labels[n-1-i] = p.Name
		values[n-1-i] = opts.BarData{Value: roundPct(p.Percentage)}
	}

	bar.SetXAxis(labels).
		AddSeries("Pick %", values).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:     opts.Bool(true),
				Position: "right",
			}),
		)
	bar.XYReversal()

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// RenderPickChartFile writes the chart to an HTML file
func (r *Report) RenderPickChartFile(path string, config ChartConfig) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	return r.RenderPickChart(f, config)
}

func roundPct(p float64) float64 {
	return math.Round(p*10000) / 100
}
