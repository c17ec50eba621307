package duct

import "math"

// Friction correlation constants from the industry duct friction chart.
// They are empirical and must not be "simplified".
const (
	FrictionCoefficient = 0.109136
	FlowExponent        = 1.9
	DiameterExponent    = 5.02
)

const (
	MinDiameterIn = 2.0
	MaxDiameterIn = 60.0

	// evenTolerance absorbs floating-point noise before rounding up,
	// so 10.000000000000002 stays a 10" duct.
	evenTolerance = 1e-9
)

// CFMFromVelocity returns the airflow through a round duct of the given
// diameter (inches) at the given velocity (ft/min).
func CFMFromVelocity(velocity, diameter float64) float64 {
	if velocity <= 0 || diameter <= 0 {
		return 0
	}
	// inches -> feet (/12) and diameter -> radius (/2)
	r := diameter / 24.0
	return math.Pi * r * r * velocity
}

// DiameterFromVelocity returns the smallest stock diameter (inches) that
// carries cfm without exceeding velocity.
func DiameterFromVelocity(velocity, cfm float64) float64 {
	if velocity <= 0 || cfm <= 0 {
		return 0
	}
	area := cfm / velocity // ft2
	d := 12.0 * math.Sqrt(4.0*area/math.Pi)
	return stockSize(d)
}

// DiameterFromFriction returns the smallest stock diameter (inches) that
// carries cfm without exceeding friction (in./100ft).
func DiameterFromFriction(friction, cfm float64) float64 {
	if friction <= 0 || cfm <= 0 {
		return 0
	}
	d := math.Pow((FrictionCoefficient*math.Pow(cfm, FlowExponent))/friction, 1.0/DiameterExponent)
	return stockSize(d)
}

// CFMFromFriction is the inverse of DiameterFromFriction before rounding.
func CFMFromFriction(friction, diameter float64) float64 {
	if friction <= 0 || diameter <= 0 {
		return 0
	}
	cfm := math.Pow((friction*math.Pow(diameter, DiameterExponent))/FrictionCoefficient, 1.0/FlowExponent)
	return math.Max(0, cfm)
}

// RoundUpEven rounds d up to the next even integer. Even values are kept.
func RoundUpEven(d float64) float64 {
	return math.Ceil(d/2.0-evenTolerance) * 2.0
}

func stockSize(d float64) float64 {
	return math.Max(MinDiameterIn, math.Min(MaxDiameterIn, RoundUpEven(d)))
}
