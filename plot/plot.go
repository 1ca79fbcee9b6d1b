// Package plot renders learned value functions and training curves as
// HTML charts. Charts are display-only artifacts written alongside agent
// checkpoints; they are not required for correctness.
package plot

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"

	easy21 "github.com/easy21-rl/go-easy21"
	"github.com/easy21-rl/go-easy21/internal/f32"
)

// Point is one sample of a training curve.
type Point struct {
	Episode    int
	MeanReward float32
}

// ValueSurface plots V(s) = max over actions of Q[s, a] as a 3D surface
// over dealer showing 1-10 and player sum 1-21.
func ValueSurface(agent *easy21.TDAgent, title string) *charts.Surface3D {
	values := agent.ActionValues()
	return surface(title, -1, 1, func(s easy21.State) float32 {
		return f32.Max(values[s.Dealer][s.Player])
	})
}

// VisitSurface plots the total visit count per state as a 3D surface.
func VisitSurface(agent *easy21.TDAgent, title string) *charts.Surface3D {
	visits := agent.Visits()
	var maxVisits float32
	for d := 1; d <= easy21.MaxDealer; d++ {
		for p := 1; p <= easy21.MaxPlayer; p++ {
			if total := f32.Sum(visits[d][p]); total > maxVisits {
				maxVisits = total
			}
		}
	}

	return surface(title, 0, maxVisits, func(s easy21.State) float32 {
		return f32.Sum(visits[s.Dealer][s.Player])
	})
}

func surface(title string, min, max float32, value func(easy21.State) float32) *charts.Surface3D {
	chart := charts.NewSurface3D()
	chart.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "Dealer Showing"}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "Player Sum"}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "Value"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Min: min,
			Max: max,
			InRange: &opts.VisualMapInRange{
				Color: []string{"#313695", "#ffffbf", "#a50026"},
			},
		}),
	)

	data := make([]opts.Chart3DData, 0, easy21.MaxDealer*easy21.MaxPlayer)
	for d := 1; d <= easy21.MaxDealer; d++ {
		for p := 1; p <= easy21.MaxPlayer; p++ {
			s := easy21.State{Dealer: d, Player: p}
			data = append(data, opts.Chart3DData{
				Value: []interface{}{d, p, value(s)},
			})
		}
	}

	chart.AddSeries(title, data)
	return chart
}

// TrainingCurve plots mean per-episode reward against training episodes.
func TrainingCurve(points []Point, title string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
	)

	episodes := make([]string, len(points))
	items := make([]opts.LineData, len(points))
	for i, p := range points {
		episodes[i] = fmt.Sprintf("%d", p.Episode)
		items[i] = opts.LineData{Value: p.MeanReward}
	}

	line.SetXAxis(episodes).AddSeries("mean reward", items)
	return line
}

// WritePage renders the given charts as a single HTML page at path.
func WritePage(path string, cs ...components.Charter) error {
	page := components.NewPage()
	page.AddCharts(cs...)

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating chart file")
	}

	if err := page.Render(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "rendering charts to %v", path)
	}

	return errors.Wrapf(f.Close(), "closing %v", path)
}
