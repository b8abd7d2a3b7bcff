package telemetry

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/mpapenbr/lapsim-go/pkg/model"
	"github.com/mpapenbr/lapsim-go/pkg/solver"
)

// viridis-style gradient used for speed coloring
var speedColors = []string{
	"#440154", "#482777", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

// WriteHTMLReport renders the lap as a self-contained HTML page: speed trace
// over distance, the track map colored by speed, and the GGV envelope.
func WriteHTMLReport(
	w io.Writer,
	result *model.LapResult,
	ggv *solver.GGV,
	trackName, vehicleName string,
) error {
	page := components.NewPage()
	page.AddCharts(
		speedTraceChart(result, trackName, vehicleName),
		trackMapChart(result, trackName),
	)
	if ggv != nil && ggv.IsGenerated() {
		page.AddCharts(ggvChart(ggv))
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("rendering HTML report: %w", err)
	}
	return nil
}

func speedTraceChart(result *model.LapResult, trackName, vehicleName string) *charts.Line {
	xs := make([]string, 0, len(result.States))
	speed := make([]opts.LineData, 0, len(result.States))
	for i := range result.States {
		s := &result.States[i]
		xs = append(xs, fmt.Sprintf("%.0f", s.S))
		speed = append(speed, opts.LineData{Value: s.VKmh})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Speed Trace",
			Subtitle: fmt.Sprintf("%s on %s, lap %s", vehicleName, trackName, FormatLapTime(result.LapTime)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "distance (m)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "speed (km/h)"}),
	)
	line.SetXAxis(xs).AddSeries("speed", speed)
	return line
}

func trackMapChart(result *model.LapResult, trackName string) *charts.Scatter {
	data := make([]opts.ScatterData, 0, len(result.States))
	maxSpeed := 0.0
	for i := range result.States {
		s := &result.States[i]
		data = append(data, opts.ScatterData{Value: []interface{}{s.X, s.Y, s.VKmh}})
		if s.VKmh > maxSpeed {
			maxSpeed = s.VKmh
		}
	}
	if maxSpeed == 0 {
		maxSpeed = 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "800px", Height: "800px"}),
		charts.WithTitleOpts(opts.Title{Title: "Track Map", Subtitle: trackName}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "X (m)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Y (m)"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxSpeed),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: speedColors},
		}),
	)
	scatter.AddSeries("speed (km/h)", data,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))
	return scatter
}

func ggvChart(ggv *solver.GGV) *charts.Scatter {
	points := ggv.Points()
	data := make([]opts.ScatterData, 0, 2*len(points))
	for i := range points {
		p := &points[i]
		data = append(data,
			opts.ScatterData{Value: []interface{}{p.AyLateral, p.AxMaxAccel, p.Velocity}},
			opts.ScatterData{Value: []interface{}{p.AyLateral, p.AxMaxBrake, p.Velocity}},
		)
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "800px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "GGV Envelope",
			Subtitle: "longitudinal limits over lateral acceleration, colored by velocity",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "ay (m/s²)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "ax (m/s²)"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        120,
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: speedColors},
		}),
	)
	scatter.AddSeries("envelope", data,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}))
	return scatter
}
