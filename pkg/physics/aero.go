// Package physics contains the force models feeding the GGV envelope:
// aerodynamics, tires, and powertrain.
package physics

import "github.com/mpapenbr/lapsim-go/pkg/model"

// AeroModel computes aerodynamic forces from velocity.
type AeroModel struct {
	params model.AeroParams
}

func NewAeroModel(params model.AeroParams) *AeroModel {
	return &AeroModel{params: params}
}

// coefficient k = ½ρA shared by drag and lift
func (a *AeroModel) coefficient() float64 {
	return 0.5 * a.params.AirDensity * a.params.FrontalArea
}

// DragForce returns the drag opposing motion at velocity v. Always >= 0.
func (a *AeroModel) DragForce(v float64) float64 {
	return a.coefficient() * a.params.Cd * v * v
}

// Downforce returns the vertical aero load at velocity v. With the usual
// negative Cl the result is positive (pushes the car down).
func (a *AeroModel) Downforce(v float64) float64 {
	return -a.coefficient() * a.params.Cl * v * v
}

// TotalVerticalLoad returns weight plus downforce.
func (a *AeroModel) TotalVerticalLoad(v, mass float64) float64 {
	return mass*model.Gravity + a.Downforce(v)
}

// DragPower returns the power consumed by drag at velocity v.
func (a *AeroModel) DragPower(v float64) float64 {
	return a.DragForce(v) * v
}
