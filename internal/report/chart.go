package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/yyyoichi/gengroups"
)

// writeHTML renders group sizes as bars and group compactness on a second
// axis as a standalone HTML page.
func writeHTML(w io.Writer, r *gengroups.Result) error {
	var (
		labels  = make([]string, len(r.Sizes))
		sizes   = make([]opts.BarData, len(r.Sizes))
		compact = make([]opts.BarData, len(r.Sizes))
	)
	for g, size := range r.Sizes {
		labels[g] = strconv.Itoa(g)
		sizes[g] = opts.BarData{Value: size}
		compact[g] = opts.BarData{
			Value: r.Compactness[g],
			Name:  fmt.Sprintf("group %d: %.4f", g, r.Compactness[g]),
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Group size and compactness",
			Subtitle: fmt.Sprintf("%d iterations, %s", r.Iterations, r.State),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "group",
			Type: "category",
			Data: labels,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "size",
			Type: "value",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
			Top:  "5%",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:  "slider",
			Start: 0,
			End:   100,
		}),
	)
	bar.SetXAxis(labels).AddSeries("size", sizes)

	bar.ExtendYAxis(opts.YAxis{
		Name: "compactness",
		Type: "value",
	})
	bar.AddSeries("compactness", compact,
		charts.WithBarChartOpts(opts.BarChart{
			YAxisIndex: 1,
		}),
	)
	return bar.Render(w)
}
