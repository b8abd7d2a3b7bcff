// Package parse reads track and vehicle input files into the simulation's
// value types, applying the documented defaults for missing entries.
package parse

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mpapenbr/lapsim-go/log"
	"github.com/mpapenbr/lapsim-go/pkg/track"
)

const defaultTrackWidth = 5.0 // m, per side

type trackPointInput struct {
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Elevation float64  `json:"elevation"`
	WLeft     *float64 `json:"w_tr_left"`
	WRight    *float64 `json:"w_tr_right"`
	Banking   float64  `json:"banking"`
}

type trackInput struct {
	Name   string            `json:"name"`
	Points []trackPointInput `json:"points"`
}

// TrackFromFile loads a track file, detecting the format by extension
// (.csv is TUMFTM, anything else JSON). The returned geometry is preprocessed.
func TrackFromFile(path string) (*track.Geometry, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return TrackCSV(path)
	}
	return TrackJSON(path)
}

// TrackJSON reads the native track JSON format.
func TrackJSON(path string) (*track.Geometry, error) {
	l := log.Default().Named("parse")
	l.Debug("parsing track JSON", log.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading track file: %w", err)
	}

	var input trackInput
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("parsing track JSON: %w", err)
	}
	if len(input.Points) == 0 {
		return nil, fmt.Errorf("track JSON must contain a points array")
	}

	geo := track.NewGeometry()
	if input.Name != "" {
		geo.SetName(input.Name)
	}

	for i := range input.Points {
		p := &input.Points[i]
		geo.AddPoint(p.X, p.Y, p.Elevation,
			floatOr(p.WLeft, defaultTrackWidth),
			floatOr(p.WRight, defaultTrackWidth),
			p.Banking)
	}

	if err := geo.Preprocess(); err != nil {
		return nil, err
	}

	l.Info("track loaded",
		log.String("name", geo.Name()),
		log.Int("points", geo.NumPoints()),
		log.Float64("lengthM", geo.TotalLength()))
	return geo, nil
}

// TrackCSV reads the TUMFTM centerline format: rows of
// x_m, y_m, w_tr_right_m, w_tr_left_m with '#' comment lines. Note the width
// column order: right before left.
func TrackCSV(path string) (*track.Geometry, error) {
	l := log.Default().Named("parse")
	l.Debug("parsing TUMFTM CSV track", log.String("path", path))

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening track file: %w", err)
	}
	defer file.Close()

	geo := track.NewGeometry()
	geo.SetName(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		values := make([]float64, 0, 4)
		for _, token := range strings.Split(line, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(token), 64)
			if err != nil {
				continue
			}
			values = append(values, v)
		}

		if len(values) >= 4 {
			geo.AddPoint(values[0], values[1], 0, values[3], values[2], 0)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading track file: %w", err)
	}

	if geo.NumPoints() == 0 {
		return nil, fmt.Errorf("no valid track points found in %s", path)
	}

	if err := geo.Preprocess(); err != nil {
		return nil, err
	}

	l.Info("track loaded",
		log.String("name", geo.Name()),
		log.Int("points", geo.NumPoints()),
		log.Float64("lengthM", geo.TotalLength()))
	return geo, nil
}

func floatOr(v *float64, fallback float64) float64 {
	if v != nil {
		return *v
	}
	return fallback
}
