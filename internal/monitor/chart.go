package monitor

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const echartsAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

func scatterPoints(sp ScanPlot, keep func(i int) bool) []opts.ScatterData {
	pts := make([]opts.ScatterData, 0, len(sp.Scan))
	for i, r := range sp.Scan {
		if keep(i) {
			pts = append(pts, opts.ScatterData{Value: []interface{}{i, r}})
		}
	}
	return pts
}

// RenderScanChart writes an HTML scatter chart of sp: the raw scan, the
// samples inside each detected opening, and the chosen opening.
func RenderScanChart(w io.Writer, sp ScanPlot) error {
	n := len(sp.Scan)
	if n == 0 {
		return ErrNoScan
	}

	inOpening := func(i int) bool {
		for _, a := range sp.Arcs {
			if a.Valid(n) && a.Contains(i) && !(sp.HasChosen && a == sp.Chosen) {
				return true
			}
		}
		return false
	}
	inChosen := func(i int) bool {
		return sp.HasChosen && sp.Chosen.Valid(n) && sp.Chosen.Contains(i)
	}

	subtitle := fmt.Sprintf("bins=%d openings=%d", n, len(sp.Arcs))
	if sp.HasChosen {
		subtitle += fmt.Sprintf(" chosen=%v", sp.Chosen)
	}
	title := sp.Title
	if title == "" {
		title = "Range scan"
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Navigator Scan", Theme: "dark", Width: "1200px", Height: "600px", AssetsHost: echartsAssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: 0, Max: n - 1, Name: "Index", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Name: "Distance (m)", NameLocation: "middle", NameGap: 30}),
	)

	scatter.AddSeries("scan", scatterPoints(sp, func(int) bool { return true }),
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#9e9e9e"}))
	scatter.AddSeries("openings", scatterPoints(sp, inOpening),
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 5}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#26828e"}))
	scatter.AddSeries("chosen", scatterPoints(sp, inChosen),
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#ff5252"}))

	return scatter.Render(w)
}
