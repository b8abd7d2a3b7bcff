package physics

import (
	"math"

	"github.com/mpapenbr/lapsim-go/pkg/model"
)

// FzReference is the normal load at which the friction coefficients hold
// exactly; load sensitivity scales them away from this point.
const FzReference = 2000.0 // N, roughly 200 kg per tire

// TireModel implements the load-sensitive isotropic friction circle.
type TireModel struct {
	params model.TireParams
}

func NewTireModel(params model.TireParams) *TireModel {
	return &TireModel{params: params}
}

// EffectiveMu scales baseMu for the given load:
// μ_eff = μ_base × (Fz/Fz_ref)^(sensitivity − 1). The exponent is <= 0, so
// higher load yields less grip per newton. Fz <= 0 gives no grip at all.
func (t *TireModel) EffectiveMu(fz, baseMu float64) float64 {
	if fz <= 0 {
		return 0
	}
	return baseMu * math.Pow(fz/FzReference, t.params.LoadSensitivity-1)
}

// MaxLongitudinalForce returns the pure-longitudinal limit at load fz.
func (t *TireModel) MaxLongitudinalForce(fz float64) float64 {
	return t.EffectiveMu(fz, t.params.MuX) * fz
}

// MaxLateralForce returns the pure-lateral limit at load fz.
func (t *TireModel) MaxLateralForce(fz float64) float64 {
	return t.EffectiveMu(fz, t.params.MuY) * fz
}

// MaxTotalForce returns the combined-force capacity. The average of μx and μy
// stands in for the true anisotropic ellipse.
func (t *TireModel) MaxTotalForce(fz float64) float64 {
	muAvg := (t.params.MuX + t.params.MuY) / 2
	return t.EffectiveMu(fz, muAvg) * fz
}

// AvailableLongitudinalForce returns the longitudinal headroom left while
// fyCurrent is being used: Fx = √(F_max² − Fy²), 0 at or beyond the limit.
func (t *TireModel) AvailableLongitudinalForce(fz, fyCurrent float64) float64 {
	fMax := t.MaxTotalForce(fz)
	if fyCurrent*fyCurrent >= fMax*fMax {
		return 0
	}
	return math.Sqrt(fMax*fMax - fyCurrent*fyCurrent)
}

// AvailableLateralForce is the symmetric query for lateral headroom.
func (t *TireModel) AvailableLateralForce(fz, fxCurrent float64) float64 {
	fMax := t.MaxTotalForce(fz)
	if fxCurrent*fxCurrent >= fMax*fMax {
		return 0
	}
	return math.Sqrt(fMax*fMax - fxCurrent*fxCurrent)
}

// IsWithinFrictionCircle reports whether the combined force demand fits the
// available grip at load fz.
func (t *TireModel) IsWithinFrictionCircle(fx, fy, fz float64) bool {
	return math.Sqrt(fx*fx+fy*fy) <= t.MaxTotalForce(fz)
}
