package export

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"go-xhs-note-automation/internal/collector"
)

// writeChart renders a standalone HTML bar chart of per-note metrics
// for a quick visual review of the run.
func (w *Writer) writeChart(path string, records []collector.NoteRecord) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "热门笔记互动数据"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
	)

	var titles []string
	var impressions, engages []opts.BarData
	for _, r := range records {
		titles = append(titles, r.Title)
		impressions = append(impressions, opts.BarData{Value: r.Impression})
		engages = append(engages, opts.BarData{Value: r.Engage})
	}

	bar.SetXAxis(titles).
		AddSeries("曝光量", impressions).
		AddSeries("互动量", engages)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()

	return bar.Render(f)
}
