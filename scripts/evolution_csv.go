package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/Agrid-Dev/boilercalc/internal/params"
	"github.com/Agrid-Dev/boilercalc/internal/thermal"
)

type trace struct {
	Solver  string
	Samples []thermal.Sample
}

// SimulateEvolution runs the heating, cooling and brewing solvers on the
// built-in parameters and records their temperature trajectories.
func SimulateEvolution(every time.Duration) ([]trace, error) {
	v := params.Defaults()
	runs := []struct {
		name string
		run  func(thermal.Option) error
	}{
		{"heating", func(o thermal.Option) error { _, err := thermal.HeatingTime(v.Heating(), o); return err }},
		{"cooling", func(o thermal.Option) error { _, err := thermal.CoolingTime(v.Cooling(), o); return err }},
		{"brewing", func(o thermal.Option) error { _, err := thermal.Brew(v.Brewing(), o); return err }},
	}

	traces := make([]trace, 0, len(runs))
	for _, r := range runs {
		tr := trace{Solver: r.name}
		err := r.run(thermal.WithTrace(every, func(s thermal.Sample) {
			tr.Samples = append(tr.Samples, s)
		}))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.name, err)
		}
		traces = append(traces, tr)
	}
	return traces, nil
}

func writeCSV(filename string, traces []trace) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"Solver", "ElapsedSeconds", "Temperature"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}
	for _, tr := range traces {
		for _, s := range tr.Samples {
			if err := writer.Write([]string{
				tr.Solver,
				fmt.Sprintf("%.2f", s.Elapsed.Seconds()),
				fmt.Sprintf("%.4f", s.Temperature),
			}); err != nil {
				return fmt.Errorf("failed to write CSV record: %v", err)
			}
		}
	}
	return nil
}

func writePNG(filename string, traces []trace) error {
	p := plot.New()
	p.Title.Text = "Boiler temperature"
	p.X.Label.Text = "Elapsed (s)"
	p.Y.Label.Text = "Temperature (°C)"
	p.Add(plotter.NewGrid())

	for i, tr := range traces {
		pts := make(plotter.XYs, len(tr.Samples))
		for j, s := range tr.Samples {
			pts[j].X = s.Elapsed.Seconds()
			pts[j].Y = s.Temperature
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("%s line: %w", tr.Solver, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(tr.Solver, line)
	}
	return p.Save(10*vg.Inch, 5*vg.Inch, filename)
}

func main() {
	csvPath := pflag.String("csv", "boilercalc.csv", "CSV output path")
	pngPath := pflag.String("png", "boilercalc.png", "PNG chart output path")
	every := pflag.Duration("every", 10*time.Second, "sampling interval in simulated time")
	pflag.Parse()

	traces, err := SimulateEvolution(*every)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := writeCSV(*csvPath, traces); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := writePNG(*pngPath, traces); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
