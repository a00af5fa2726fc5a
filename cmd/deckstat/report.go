package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"spider-cipher/deck"
	"spider-cipher/internal/uniformity"
	"spider-cipher/prof"
)

// report is the JSON document written by deckstat.
type report struct {
	Source     string             `json:"source"`
	Width      int                `json:"width"`
	Runs       int                `json:"runs"`
	Critical   float64            `json:"critical"` // chi-square bound at z=3.09, 39 dof
	ChiSquares []float64          `json:"chi_squares"`
	ChiSummary uniformity.Summary `json:"chi_summary"`
	Exceeding  []int              `json:"exceeding,omitempty"` // positions above Critical
	Timings    []prof.Stat        `json:"timings"`
	Table      *uniformity.Table  `json:"table"`
}

const criticalZ = 3.0902 // upper 0.1%

func newReport(source string, width int, tab *uniformity.Table, timings []prof.Stat) *report {
	chis := tab.ChiSquares()
	r := &report{
		Source:     source,
		Width:      width,
		Runs:       tab.Runs,
		Critical:   uniformity.Critical(deck.Cards-1, criticalZ),
		ChiSquares: chis,
		ChiSummary: uniformity.Summarize(chis),
		Timings:    timings,
		Table:      tab,
	}
	for at, chi := range chis {
		if chi > r.Critical {
			r.Exceeding = append(r.Exceeding, at)
		}
	}
	return r
}

func saveJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// ------------------------- plotting: go-echarts HTML -------------------------

func toBarItems(vals []int) []opts.BarData {
	out := make([]opts.BarData, len(vals))
	for i, v := range vals {
		out[i] = opts.BarData{Value: v}
	}
	return out
}

func cardLabels() []string {
	out := make([]string, deck.Cards)
	for i := range out {
		out[i] = strconv.Itoa(i)
	}
	return out
}

func newPositionChart(r *report, at int) *charts.Bar {
	title := fmt.Sprintf("cards at position %d", at)
	subtitle := fmt.Sprintf("runs=%d, chi-square=%.2f (bound %.2f)", r.Runs, r.ChiSquares[at], r.Critical)
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "500px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(cardLabels()).
		AddSeries("count", toBarItems(r.Table.Position(at))).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))
	return bar
}

func newChiChart(r *report) *charts.Line {
	s := r.ChiSummary
	subtitle := fmt.Sprintf("mean=%.2f, median=%.2f, max=%.2f, bound=%.2f, exceeding=%d", s.Mean, s.Median, s.Max, r.Critical, len(r.Exceeding))
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "chi-square per position", Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "chi-square per position", Width: "1200px", Height: "500px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	chis := make([]opts.LineData, len(r.ChiSquares))
	bound := make([]opts.LineData, len(r.ChiSquares))
	for i, v := range r.ChiSquares {
		chis[i] = opts.LineData{Value: v}
		bound[i] = opts.LineData{Value: r.Critical}
	}
	line.SetXAxis(cardLabels()).
		AddSeries("chi-square", chis).
		AddSeries("bound", bound)
	return line
}

func renderPage(w io.Writer, r *report) error {
	page := components.NewPage()
	page.AddCharts(newChiChart(r))
	for _, at := range []int{0, spiderTagPosition, deck.Cards - 1} {
		page.AddCharts(newPositionChart(r, at))
	}
	return page.Render(w)
}
