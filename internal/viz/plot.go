package viz

import (
	"math"

	"github.com/guptarohit/asciigraph"
)

const (
	DefaultPlotHeight = 12
	DefaultPlotWidth  = 72
)

// Plot draws ys as a line chart. Non-finite samples are dropped since
// asciigraph cannot place them.
func Plot(ys []float64, caption string) string {
	return PlotSize(ys, caption, DefaultPlotHeight, DefaultPlotWidth)
}

func PlotSize(ys []float64, caption string, height, width int) string {
	data := make([]float64, 0, len(ys))
	for _, y := range ys {
		if !math.IsNaN(y) && !math.IsInf(y, 0) {
			data = append(data, y)
		}
	}
	if len(data) == 0 {
		return Subtle.Render("(no finite samples)")
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// PlotSeries overlays several equally long series, coloured in order.
func PlotSeries(series [][]float64, caption string) string {
	if len(series) == 0 {
		return Subtle.Render("(no data)")
	}
	colors := []asciigraph.AnsiColor{asciigraph.Cyan, asciigraph.Magenta, asciigraph.Yellow, asciigraph.Green}
	opts := []asciigraph.Option{
		asciigraph.Height(DefaultPlotHeight),
		asciigraph.Width(DefaultPlotWidth),
		asciigraph.Caption(caption),
	}
	used := make([]asciigraph.AnsiColor, len(series))
	for i := range series {
		used[i] = colors[i%len(colors)]
	}
	opts = append(opts, asciigraph.SeriesColors(used...))
	return asciigraph.PlotMany(series, opts...)
}
