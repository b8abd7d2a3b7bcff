package telemetry

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/mpapenbr/lapsim-go/pkg/model"
)

// csvHeader is the fixed 30-column telemetry layout.
var csvHeader = []string{
	"timestamp_s", "arc_length_m", "pos_x_m", "pos_y_m", "pos_z_m", "lateral_offset_m",
	"speed_ms", "speed_kmh", "accel_long_ms2", "accel_lat_ms2", "accel_vert_ms2",
	"g_long", "g_lat", "g_vert", "g_total",
	"throttle_pct", "brake_pct", "steering_angle_rad",
	"gear", "rpm", "engine_torque_nm", "wheel_force_n",
	"drag_force_n", "downforce_n", "tire_force_long_n", "tire_force_lat_n", "vertical_load_n",
	"curvature_inv_m", "radius_m", "banking_rad",
}

// WriteCSV streams the lap result in the 30-column telemetry CSV format.
func WriteCSV(w io.Writer, result *model.LapResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing telemetry header: %w", err)
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

	for i := range result.States {
		s := &result.States[i]
		rec := []string{
			f(s.Timestamp), f(s.S), f(s.X), f(s.Y), f(s.Z), f(s.N),
			f(s.V), f(s.VKmh), f(s.Ax), f(s.Ay), f(s.Az),
			f(s.Gx), f(s.Gy), f(s.Gz), f(s.GTotal),
			f(s.Throttle * 100), f(s.Brake * 100), f(s.SteeringAngle),
			strconv.Itoa(s.Gear), f(s.RPM), f(s.EngineTorque), f(s.WheelForce),
			f(s.DragForce), f(s.Downforce), f(s.TireForceX), f(s.TireForceY), f(s.VerticalLoad),
			f(s.Curvature), f(s.Radius), f(s.BankingAngle),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing telemetry row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// jsonDocument mirrors the published telemetry JSON layout.
type jsonDocument struct {
	LapTimeSeconds float64     `json:"lap_time_seconds"`
	Telemetry      []jsonState `json:"telemetry"`
}

type jsonState struct {
	Timestamp    float64          `json:"timestamp"`
	Position     jsonPosition     `json:"position"`
	Velocity     jsonVelocity     `json:"velocity"`
	Acceleration jsonAcceleration `json:"acceleration"`
	GForces      jsonGForces      `json:"g_forces"`
	Controls     jsonControls     `json:"controls"`
	Powertrain   jsonPowertrain   `json:"powertrain"`
	Forces       jsonForces       `json:"forces"`
	Track        jsonTrack        `json:"track"`
}

type jsonPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	S float64 `json:"s"`
}

type jsonVelocity struct {
	Ms  float64 `json:"ms"`
	Kmh float64 `json:"kmh"`
}

type jsonAcceleration struct {
	Longitudinal float64 `json:"longitudinal"`
	Lateral      float64 `json:"lateral"`
	Vertical     float64 `json:"vertical"`
}

type jsonGForces struct {
	Gx    float64 `json:"gx"`
	Gy    float64 `json:"gy"`
	Gz    float64 `json:"gz"`
	Total float64 `json:"total"`
}

type jsonControls struct {
	ThrottlePct float64 `json:"throttle_pct"`
	BrakePct    float64 `json:"brake_pct"`
	SteeringRad float64 `json:"steering_rad"`
}

type jsonPowertrain struct {
	Gear int     `json:"gear"`
	RPM  float64 `json:"rpm"`
}

type jsonForces struct {
	Drag         float64 `json:"drag"`
	Downforce    float64 `json:"downforce"`
	VerticalLoad float64 `json:"vertical_load"`
}

type jsonTrack struct {
	Curvature float64 `json:"curvature"`
	Radius    float64 `json:"radius"`
	Banking   float64 `json:"banking"`
}

// WriteJSON writes the lap result as a single JSON document.
func WriteJSON(w io.Writer, result *model.LapResult) error {
	doc := jsonDocument{
		LapTimeSeconds: result.LapTime,
		Telemetry:      make([]jsonState, 0, len(result.States)),
	}

	for i := range result.States {
		s := &result.States[i]
		doc.Telemetry = append(doc.Telemetry, jsonState{
			Timestamp: s.Timestamp,
			Position:  jsonPosition{X: s.X, Y: s.Y, Z: s.Z, S: s.S},
			Velocity:  jsonVelocity{Ms: s.V, Kmh: s.VKmh},
			Acceleration: jsonAcceleration{
				Longitudinal: s.Ax,
				Lateral:      s.Ay,
				Vertical:     s.Az,
			},
			GForces: jsonGForces{Gx: s.Gx, Gy: s.Gy, Gz: s.Gz, Total: s.GTotal},
			Controls: jsonControls{
				ThrottlePct: s.Throttle * 100,
				BrakePct:    s.Brake * 100,
				SteeringRad: s.SteeringAngle,
			},
			Powertrain: jsonPowertrain{Gear: s.Gear, RPM: s.RPM},
			Forces: jsonForces{
				Drag:         s.DragForce,
				Downforce:    s.Downforce,
				VerticalLoad: s.VerticalLoad,
			},
			Track: jsonTrack{
				Curvature: s.Curvature,
				Radius:    s.Radius,
				Banking:   s.BankingAngle,
			},
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding telemetry JSON: %w", err)
	}
	return nil
}
