package server

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/0x0FACED/go-trapmap/internal/scene"
	"github.com/0x0FACED/go-trapmap/pkg/geom"
	"github.com/0x0FACED/go-trapmap/pkg/trapmap"
)

func prepareScatter(scatter *charts.Scatter, title, subtitle string) {
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Height: "640px",
			Width:  "960px",
		}),
		charts.WithLegendOpts(opts.Legend{
			TextStyle: &opts.TextStyle{
				Color: "white",
			},
			Right: "10%",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:                title,
			Subtitle:             subtitle,
			TitleBackgroundColor: "white",
			Left:                 "10%",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "value",
			Name: "x",
			AxisLabel: &opts.AxisLabel{
				Color: "white",
			},
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(false),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value",
			Name: "y",
			AxisLabel: &opts.AxisLabel{
				Color: "white",
			},
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(false),
			},
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			FilterMode: "none",
			Orient:     "horizontal",
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			FilterMode: "none",
			Orient:     "vertical",
		}),
	)
}

func overlapLine(scatter *charts.Scatter, series string, a, b geom.Point, style opts.LineStyle) {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithXAxisOpts(opts.XAxis{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Show: opts.Bool(true)}),
	)
	line.AddSeries(series, []opts.LineData{
		{Value: []float64{a.X, a.Y}},
		{Value: []float64{b.X, b.Y}},
	}).SetSeriesOptions(charts.WithLineStyleOpts(style))
	scatter.Overlap(line)
}

// sceneChart draws the subdivision edges, the walls of every trapezoid and,
// when hit is set, the query point with the trapezoid containing it.
func sceneChart(sc *scene.Scene, query *geom.Point, hit *trapmap.Trapezoid) *charts.Scatter {
	scatter := charts.NewScatter()

	subtitle := fmt.Sprintf("%d segments, %d trapezoids", len(sc.Segments), sc.Structure.Stats().Trapezoids)
	prepareScatter(scatter, sc.Name, subtitle)

	vertices := make([]opts.ScatterData, 0, len(sc.Subdivision.Vertices))
	for _, v := range sc.Subdivision.Vertices {
		vertices = append(vertices, opts.ScatterData{
			Value: []float64{v.Point.X, v.Point.Y},
		})
	}
	scatter.AddSeries("Vertices", vertices).
		SetSeriesOptions(
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color: "lightgreen",
			}),
		)

	if query != nil {
		scatter.AddSeries("Query", []opts.ScatterData{{Value: []float64{query.X, query.Y}}}).
			SetSeriesOptions(
				charts.WithItemStyleOpts(opts.ItemStyle{
					Color: "orange",
				}),
			)
	}

	for _, s := range sc.Structure.Boundary().Segments() {
		overlapLine(scatter, "Frame", s.Origin, s.Destination, opts.LineStyle{Width: 1, Color: "#757575"})
	}
	for _, t := range sc.Structure.Trapezoids() {
		c := t.Corners()
		if c[0] != c[3] {
			overlapLine(scatter, "Walls", c[0], c[3], opts.LineStyle{Width: 1, Color: "#4f6d8f", Type: "dashed"})
		}
	}
	for _, s := range sc.Segments {
		overlapLine(scatter, "Segments", s.Origin, s.Destination, opts.LineStyle{Width: 2, Color: "#d3d3d3"})
	}

	if hit != nil {
		c := hit.Corners()
		for i := range c {
			a, b := c[i], c[(i+1)%len(c)]
			if a != b {
				overlapLine(scatter, "Located", a, b, opts.LineStyle{Width: 3, Color: "orange"})
			}
		}
	}

	return scatter
}
