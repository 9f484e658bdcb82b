package training

import (
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

func PlotCurvePNG(path string, points []CurvePoint) error {
	p := plot.New()
	p.Title.Text = "Learning curve"
	p.X.Label.Text = "Training samples"
	p.Y.Label.Text = "Score"
	p.Y.Min = 0
	p.Y.Max = 1

	toXY := func(metric func(CurvePoint) float64) plotter.XYs {
		pts := make(plotter.XYs, len(points))
		for i, cp := range points {
			pts[i].X = float64(cp.Size)
			pts[i].Y = metric(cp)
		}
		return pts
	}
	err := plotutil.AddLinePoints(p,
		"Train (acc)", toXY(func(c CurvePoint) float64 { return c.TrainAcc }),
		"Test (acc)", toXY(func(c CurvePoint) float64 { return c.TestAcc }),
		"Train (F1)", toXY(func(c CurvePoint) float64 { return c.TrainF1 }),
		"Test (F1)", toXY(func(c CurvePoint) float64 { return c.TestF1 }),
	)
	if err != nil {
		return err
	}
	return save(p, path, 8*vg.Inch, 4*vg.Inch)
}

// PlotImportancePNG draws one bar per feature in the given order.
func PlotImportancePNG(path string, importances []FeatureImportance) error {
	p := plot.New()
	p.Title.Text = "Feature importance"
	p.Y.Label.Text = "Mean impurity decrease"

	vals := make(plotter.Values, len(importances))
	names := make([]string, len(importances))
	for i, fi := range importances {
		vals[i] = fi.Importance
		names[i] = fi.Feature
	}
	bars, err := plotter.NewBarChart(vals, vg.Points(18))
	if err != nil {
		return err
	}
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = 0.8
	return save(p, path, 10*vg.Inch, 5*vg.Inch)
}

func save(p *plot.Plot, path string, w, h vg.Length) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return p.Save(w, h, path)
}
