package sim

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Series is a named sequence of samples taken every time step
type Series struct {
	// Name is displayed in the plot legend
	Name string
	// Values stores the samples
	Values []float64
	// Points draws the samples as points instead of a line
	Points bool
}

// NewResponsePlot creates new plot of time responses sampled with time step dt.
// It returns error if the plot fails to be created. This can be due to either of the following conditions:
// * no series is supplied or any of the series is empty
// * dt is not positive
// * gonum plot fails to be created
func NewResponsePlot(title string, dt float64, series ...Series) (*plot.Plot, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("no data supplied")
	}

	if dt <= 0 {
		return nil, fmt.Errorf("invalid time step: %v", dt)
	}

	p := plot.New()

	p.Title.Text = title
	p.X.Label.Text = "t"
	p.Y.Label.Text = "y"

	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for i, s := range series {
		if len(s.Values) == 0 {
			return nil, fmt.Errorf("empty series: %q", s.Name)
		}

		pts := makePoints(s.Values, dt)
		c := plotutil.Color(i)

		if s.Points {
			scatter, err := plotter.NewScatter(pts)
			if err != nil {
				return nil, fmt.Errorf("failed to create scatter: %v", err)
			}
			scatter.GlyphStyle.Color = c
			scatter.Shape = draw.CrossGlyph{}
			scatter.GlyphStyle.Radius = vg.Points(2)

			p.Add(scatter)
			p.Legend.Add(s.Name, scatter)
			continue
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create line: %v", err)
		}
		line.LineStyle.Color = c
		line.LineStyle.Width = vg.Points(1)

		p.Add(line)
		p.Legend.Add(s.Name, line)
	}

	return p, nil
}

func makePoints(values []float64, dt float64) plotter.XYs {
	pts := make(plotter.XYs, len(values))
	for i := range values {
		pts[i].X = float64(i) * dt
		pts[i].Y = values[i]
	}

	return pts
}
