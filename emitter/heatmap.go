package emitter

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/stitcherio/urlvisits/aggregate"
	"github.com/stitcherio/urlvisits/catalog"
)

// PlotHeatmap renders a path×day visit-count heatmap to filename.
func PlotHeatmap(agg *aggregate.Aggregate, cat *catalog.Catalog, filename string) error {
	days := make([]int, len(agg.Days))
	for i := range days {
		days[i] = i
	}
	sort.Slice(days, func(i, j int) bool { return agg.Days[days[i]] < agg.Days[days[j]] })
	dayLabel := make([]string, len(agg.Days))
	for rank, dayID := range days {
		dayLabel[rank] = agg.Days[dayID]
	}
	dayRank := make(map[int]int, len(days))
	for rank, dayID := range days {
		dayRank[dayID] = rank
	}

	pathLabel := make([]string, 0, len(agg.Order))
	var heatmapData []opts.HeatMapData
	var maxCount int64
	for _, pid := range agg.Order {
		if pid < 0 || pid >= cat.P() {
			continue
		}
		pathRank := len(pathLabel)
		pathLabel = append(pathLabel, cat.EscapedByID[pid])
		for dayID, count := range agg.Matrix[pid] {
			if count > maxCount {
				maxCount = count
			}
			heatmapData = append(heatmapData, opts.HeatMapData{
				Value: [3]interface{}{dayRank[dayID], pathRank, count},
				Name:  fmt.Sprintf("%s on %s", cat.EscapedByID[pid], agg.Days[dayID]),
			})
		}
	}

	heatmap := charts.NewHeatMap()
	heatmap.SetGlobalOptions(
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       "URL Visit Heatmap",
			Width:           "180vh",
			Height:          "100vh",
			Theme:           types.ThemeVintage,
			BackgroundColor: "transparent",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Visit Counts by Path and Day",
			Left:  "center",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Trigger: "item",
			Formatter: opts.FuncOpts(`function (params) {
		return params.name + '<br />Count: ' + params.value[2];
	}`),
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show: opts.Bool(true),
			Min:  0,
			Max:  float32(maxCount),
			InRange: &opts.VisualMapInRange{
				Color: []string{"#ffff8f", "#ff0000", "#000000"},
			},
			Orient: "vertical",
			Right:  "5%",
			Top:    "middle",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Day",
			Type: "category",
			Data: dayLabel,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Path",
			Type: "category",
			Data: pathLabel,
		}),
	)

	heatmap.AddSeries("Visits", heatmapData)

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(heatmap)

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create heatmap file %s: %w", filename, err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("rendering heatmap: %w", err)
	}

	return nil
}
