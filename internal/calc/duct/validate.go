package duct

import "math"

const (
	MinVelocity = 100.0
	MaxVelocity = 5000.0
	MinFriction = 0.01
	MaxFriction = 1.0
	MinCFM      = 100.0
	MaxCFM      = 100000.0
)

const (
	MsgVelocity = "Velocity should be between 100-5000 ft/min"
	MsgFriction = "Friction should be between 0.01-1.0 in./100ft"
	MsgCFM      = "CFM should be between 100-100000"
	MsgDiameter = "Diameter should be between 2-60 inches"
)

// Validate checks every present field against its bound and returns one
// message per violation. Absent fields are skipped, so partially filled
// forms can be checked as the user types.
func Validate(in Input) []string {
	errs := []string{}
	if in.Velocity != nil && !within(*in.Velocity, MinVelocity, MaxVelocity) {
		errs = append(errs, MsgVelocity)
	}
	if in.Friction != nil && !within(*in.Friction, MinFriction, MaxFriction) {
		errs = append(errs, MsgFriction)
	}
	if in.CFM != nil && !within(*in.CFM, MinCFM, MaxCFM) {
		errs = append(errs, MsgCFM)
	}
	if in.Diameter != nil && !within(*in.Diameter, MinDiameterIn, MaxDiameterIn) {
		errs = append(errs, MsgDiameter)
	}
	return errs
}

// NaN fails both comparisons, so it is rejected too.
func within(v, lo, hi float64) bool {
	return !math.IsNaN(v) && v >= lo && v <= hi
}
