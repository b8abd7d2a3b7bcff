package simulate

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/lapsim-go/log"
	"github.com/mpapenbr/lapsim-go/pkg/cmd/util"
	"github.com/mpapenbr/lapsim-go/pkg/config"
	"github.com/mpapenbr/lapsim-go/pkg/model"
	"github.com/mpapenbr/lapsim-go/pkg/parse"
	"github.com/mpapenbr/lapsim-go/pkg/solver"
	"github.com/mpapenbr/lapsim-go/pkg/telemetry"
	"github.com/mpapenbr/lapsim-go/pkg/track"
	"github.com/mpapenbr/lapsim-go/pkg/units"
)

func NewSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate <track-file> <vehicle-file>",
		Short: "computes the optimal lap for a vehicle on a track",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			util.SetupLogger()
			return runSimulation(args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&config.CSVOutput,
		"csv", "", "telemetry CSV output path (auto-generated if empty)")
	cmd.Flags().StringVar(&config.JSONOutput,
		"json", "", "telemetry JSON output path")
	cmd.Flags().StringVar(&config.GGVOutput,
		"ggv", "", "GGV diagram CSV output path")
	cmd.Flags().StringVar(&config.HTMLOutput,
		"html", "", "HTML lap report output path")
	cmd.Flags().IntVar(&config.MaxIterations,
		"iterations", 10, "maximum solver iterations")
	cmd.Flags().Float64Var(&config.Tolerance,
		"tolerance", 0.001, "lap time convergence tolerance (s)")
	cmd.Flags().StringVar(&config.SpeedUnit,
		"speed-unit", units.KPH, "speed unit for the summary (mps, kph, mph)")
	return cmd
}

func runSimulation(trackFile, vehicleFile string) error {
	l := log.Default().Named("simulate")

	geo, err := parse.TrackFromFile(trackFile)
	if err != nil {
		return err
	}
	vehicle, err := parse.VehicleJSON(vehicleFile)
	if err != nil {
		return err
	}

	qss, err := solver.NewQSSolver(geo, vehicle)
	if err != nil {
		return err
	}

	lapTime, err := qss.Solve(config.MaxIterations, config.Tolerance)
	if err != nil {
		return err
	}
	if !qss.Converged() {
		l.Warn("result did not converge; treat lap time as approximate",
			log.Int("iterations", qss.Iterations()))
	}

	result := telemetry.Synthesize(geo, vehicle, qss.OptimalVelocities(), lapTime)
	telemetry.LogSummary(l, result, geo, vehicle, config.SpeedUnit)

	return writeOutputs(l, result, qss, geo, vehicle)
}

func writeOutputs(
	l *log.Logger,
	result *model.LapResult,
	qss *solver.QSSolver,
	geo *track.Geometry,
	vehicle *model.VehicleParams,
) error {
	csvPath := config.CSVOutput
	if csvPath == "" {
		csvPath = telemetry.AutoCSVFilename(vehicle.Name, geo.Name(), result.LapTime)
	}
	if err := writeFile(csvPath, func(f *os.File) error {
		return telemetry.WriteCSV(f, result)
	}); err != nil {
		return err
	}
	l.Info("telemetry CSV written", log.String("path", csvPath))

	if config.JSONOutput != "" {
		if err := writeFile(config.JSONOutput, func(f *os.File) error {
			return telemetry.WriteJSON(f, result)
		}); err != nil {
			return err
		}
		l.Info("telemetry JSON written", log.String("path", config.JSONOutput))
	}

	if config.GGVOutput != "" {
		if err := writeFile(config.GGVOutput, func(f *os.File) error {
			return qss.GGV().ExportCSV(f)
		}); err != nil {
			return err
		}
		l.Info("GGV diagram written", log.String("path", config.GGVOutput))
	}

	if config.HTMLOutput != "" {
		if err := writeFile(config.HTMLOutput, func(f *os.File) error {
			return telemetry.WriteHTMLReport(f, result, qss.GGV(), geo.Name(), vehicle.Name)
		}); err != nil {
			return err
		}
		l.Info("HTML report written", log.String("path", config.HTMLOutput))
	}

	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return err
	}
	return f.Close()
}
