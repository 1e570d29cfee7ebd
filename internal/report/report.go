// Package report renders an HTML band-occupancy report for a run: per band,
// the number of accepted QSOs and the number of validated calls, one series
// pair per contest directory.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/N7DR/drscp/internal/pipeline"
	"github.com/N7DR/drscp/internal/qso"
)

// Write renders the report for all processed contests to path.
func Write(path string, stats []*pipeline.Stats) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "900px",
			Height: "500px",
			Theme:  "light",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Band occupancy",
			Subtitle: "accepted QSOs and validated calls per band",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
	)

	labels := make([]string, 0, 6)
	for _, b := range qso.Bands() {
		labels = append(labels, b.String())
	}
	bar.SetXAxis(labels)

	for _, st := range stats {
		if st == nil {
			continue
		}

		qsos := make([]opts.BarData, 0, 6)
		calls := make([]opts.BarData, 0, 6)
		for _, b := range qso.Bands() {
			counts := st.PerBand[b]
			qsos = append(qsos, opts.BarData{Value: counts.AllQSOs})
			calls = append(calls, opts.BarData{Value: counts.ValidatedCalls})
		}

		name := filepath.Base(st.Dir)
		bar.AddSeries(fmt.Sprintf("%s QSOs", name), qsos)
		bar.AddSeries(fmt.Sprintf("%s calls", name), calls)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report %s: %w", path, err)
	}
	if err := bar.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("rendering report: %w", err)
	}
	return f.Close()
}
