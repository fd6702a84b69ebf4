package render

import (
	"fmt"

	"dd-planner/internal/montecarlo"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
)

// maxChartPoints caps the scatter; the series is sampled evenly above it.
const maxChartPoints = 2000

// ChartData returns the plot rows: final balances by trial, then the target and
// initial floor as flat lines.
func ChartData(r *montecarlo.AggregateReport) [][]float64 {
	n := len(r.Series)
	step := 1
	if n > maxChartPoints {
		step = (n + maxChartPoints - 1) / maxChartPoints
	}
	balances := make([]float64, 0, n/step+1)
	for i := 0; i < n; i += step {
		balances = append(balances, r.Series[i].FinalBalance)
	}
	target := make([]float64, len(balances))
	floor := make([]float64, len(balances))
	for i := range balances {
		target[i] = r.TargetBalance
		floor[i] = r.InitialFloor
	}
	return [][]float64{balances, target, floor}
}

// ShowChart draws final balance by trial in the terminal until q or Ctrl-C.
func ShowChart(r *montecarlo.AggregateReport) error {
	if len(r.Series) == 0 {
		return fmt.Errorf("report has no series")
	}
	if err := ui.Init(); err != nil {
		return fmt.Errorf("failed to initialize termui: %w", err)
	}
	defer ui.Close()

	plot := widgets.NewPlot()
	plot.Title = fmt.Sprintf(" Final balance by trial  pass %.1f%%  (q to quit) ", r.PassRate*100)
	plot.Data = ChartData(r)
	plot.PlotType = widgets.ScatterPlot
	plot.Marker = widgets.MarkerDot
	plot.LineColors = []ui.Color{ui.ColorGreen, ui.ColorRed, ui.ColorBlue}
	plot.AxesColor = ui.ColorWhite

	legend := widgets.NewParagraph()
	legend.Title = " Legend "
	legend.Text = fmt.Sprintf("[green](fg:green) final balance  [red](fg:red) target %.0f  [blue](fg:blue) drawdown floor %.0f",
		r.TargetBalance, r.InitialFloor)

	grid := ui.NewGrid()
	w, h := ui.TerminalDimensions()
	grid.SetRect(0, 0, w, h)
	grid.Set(
		ui.NewRow(0.85, plot),
		ui.NewRow(0.15, legend),
	)
	ui.Render(grid)

	for e := range ui.PollEvents() {
		switch e.ID {
		case "q", "<C-c>":
			return nil
		case "<Resize>":
			payload := e.Payload.(ui.Resize)
			grid.SetRect(0, 0, payload.Width, payload.Height)
			ui.Clear()
			ui.Render(grid)
		}
	}
	return nil
}
