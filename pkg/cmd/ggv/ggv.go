package ggv

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/lapsim-go/log"
	"github.com/mpapenbr/lapsim-go/pkg/cmd/util"
	"github.com/mpapenbr/lapsim-go/pkg/parse"
	"github.com/mpapenbr/lapsim-go/pkg/solver"
)

var (
	outFile string
	vMax    float64
	vStep   float64
	ayMax   float64
	ayStep  float64
)

func NewGGVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ggv <vehicle-file>",
		Short: "generates the GGV performance envelope for a vehicle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			util.SetupLogger()
			return exportGGV(args[0])
		},
	}

	cmd.Flags().StringVarP(&outFile, "out", "o", "ggv.csv", "output CSV path")
	cmd.Flags().Float64Var(&vMax, "v-max", 120, "maximum velocity (m/s)")
	cmd.Flags().Float64Var(&vStep, "v-step", 0.5, "velocity resolution (m/s)")
	cmd.Flags().Float64Var(&ayMax, "ay-max", 50, "maximum lateral acceleration (m/s²)")
	cmd.Flags().Float64Var(&ayStep, "ay-step", 1, "lateral acceleration resolution (m/s²)")
	return cmd
}

func exportGGV(vehicleFile string) error {
	l := log.Default().Named("ggv")

	vehicle, err := parse.VehicleJSON(vehicleFile)
	if err != nil {
		return err
	}

	envelope := solver.NewGGV(vehicle)
	envelope.Generate(0, vMax, vStep, ayMax, ayStep)

	f, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outFile, err)
	}
	defer f.Close()

	if err := envelope.ExportCSV(f); err != nil {
		return err
	}

	l.Info("GGV diagram written",
		log.String("path", outFile),
		log.Int("points", len(envelope.Points())))
	return f.Close()
}
