package chart

import (
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/handiism/universally-acclaimed/internal/aggregate"
)

// Series colors, the usual blue and orange.
var (
	userColor   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	criticColor = color.RGBA{R: 255, G: 127, B: 14, A: 255}
)

const (
	userLegend   = "According to users"
	criticLegend = "According to critics"
)

// yearTicks places a labelled tick every Step years starting at First.
type yearTicks struct {
	First int
	Step  int
}

// Ticks implements plot.Ticker.
func (t yearTicks) Ticks(min, max float64) []plot.Tick {
	step := t.Step
	if step <= 0 {
		step = 1
	}
	var ticks []plot.Tick
	for y := t.First; float64(y) <= max; y += step {
		if float64(y) < min {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: float64(y), Label: strconv.Itoa(y)})
	}
	return ticks
}

// integerTicks keeps only the whole-number ticks of plot.DefaultTicks.
type integerTicks struct{}

// Ticks implements plot.Ticker.
func (integerTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for _, t := range (plot.DefaultTicks{}).Ticks(min, max) {
		if t.Value != math.Trunc(t.Value) {
			continue
		}
		if t.Label != "" {
			t.Label = strconv.Itoa(int(t.Value))
		}
		ticks = append(ticks, t)
	}
	return ticks
}

// newPlot builds the line chart of one genre.
func newPlot(genre string, counts *aggregate.Counts, opts *Options, headline bool) (*plot.Plot, error) {
	years := counts.Years()

	p := plot.New()
	p.Title.Text = genre + " albums"
	p.X.Tick.Marker = yearTicks{First: years.First, Step: opts.YearTickStep}
	p.Y.Tick.Marker = integerTicks{}
	p.X.Min = float64(years.First)
	p.X.Max = float64(years.Last)
	p.Y.Min = 0
	p.Y.Max = 1

	user, err := plotter.NewLine(series(years, counts.User(genre)))
	if err != nil {
		return nil, err
	}
	user.LineStyle.Color = userColor
	user.LineStyle.Width = vg.Points(1.5)

	critic, err := plotter.NewLine(series(years, counts.Critic(genre)))
	if err != nil {
		return nil, err
	}
	critic.LineStyle.Color = criticColor
	critic.LineStyle.Width = vg.Points(1.5)

	p.Add(user, critic)

	if headline {
		p.Title.TextStyle.Font.Size = vg.Points(16)
		p.Legend.Add(userLegend, user)
		p.Legend.Add(criticLegend, critic)
		p.Legend.Top = true
		p.Legend.TextStyle.Font.Size = vg.Points(14)
	}

	return p, nil
}

func series(years aggregate.YearRange, values []int) plotter.XYs {
	xys := make(plotter.XYs, years.Len())
	for i := range xys {
		xys[i].X = float64(years.First + i)
		if i < len(values) {
			xys[i].Y = float64(values[i])
		}
	}
	return xys
}
