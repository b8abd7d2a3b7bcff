package track

import (
	"math"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/lapsim-go/log"
	"github.com/mpapenbr/lapsim-go/pkg/cmd/util"
	"github.com/mpapenbr/lapsim-go/pkg/parse"
)

func NewTrackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track <track-file>",
		Short: "loads a track file and prints its geometry statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			util.SetupLogger()
			return trackInfo(args[0])
		},
	}
	return cmd
}

func trackInfo(trackFile string) error {
	l := log.Default().Named("track")

	geo, err := parse.TrackFromFile(trackFile)
	if err != nil {
		return err
	}

	maxKappa := 0.0
	minRadius := math.Inf(1)
	elevationMin, elevationMax := math.Inf(1), math.Inf(-1)
	for _, p := range geo.Points() {
		if k := math.Abs(p.Kappa); k > maxKappa {
			maxKappa = k
		}
		elevationMin = math.Min(elevationMin, p.Z)
		elevationMax = math.Max(elevationMax, p.Z)
	}
	if maxKappa > 0 {
		minRadius = 1 / maxKappa
	}

	l.Info("track geometry",
		log.String("name", geo.Name()),
		log.Int("points", geo.NumPoints()),
		log.Float64("lengthM", geo.TotalLength()),
		log.Float64("tightestRadiusM", minRadius),
		log.Float64("elevationGainM", elevationMax-elevationMin))
	return nil
}
