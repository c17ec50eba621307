package duct

import "time"

type Input struct {
	Velocity *float64 `json:"velocity,omitempty"` // ft/min
	Friction *float64 `json:"friction,omitempty"` // in./100ft
	CFM      *float64 `json:"cfm,omitempty"`
	Diameter *float64 `json:"diameter,omitempty"` // inches
}

// Results holds whatever could be derived from an Input. Fields are nil
// when their inputs were absent or when validation failed.
type Results struct {
	CFM              *float64  `json:"cfm,omitempty"`
	DiameterVelocity *float64  `json:"diameter_velocity,omitempty"`
	DiameterFriction *float64  `json:"diameter_friction,omitempty"`
	CFMVelocity      *float64  `json:"cfm_velocity,omitempty"`
	CFMFriction      *float64  `json:"cfm_friction,omitempty"`
	Errors           []string  `json:"errors,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

// Valid reports whether the results were computed.
func (r Results) Valid() bool {
	return len(r.Errors) == 0
}

// Float is a helper for building inputs.
func Float(v float64) *float64 {
	return &v
}

// ComputeAll validates in and computes every result its fields allow.
// On validation failure no numeric result is returned.
func ComputeAll(in Input) Results {
	return Calculator{}.ComputeAll(in)
}

// ComputeAll is the package ComputeAll stamped with c's clock.
func (c Calculator) ComputeAll(in Input) Results {
	res := Results{Timestamp: c.now()}
	if errs := Validate(in); len(errs) > 0 {
		res.Errors = errs
		return res
	}

	if in.CFM != nil {
		res.CFM = Float(*in.CFM)
		if in.Velocity != nil {
			res.DiameterVelocity = Float(DiameterFromVelocity(*in.Velocity, *in.CFM))
		}
		if in.Friction != nil {
			res.DiameterFriction = Float(DiameterFromFriction(*in.Friction, *in.CFM))
		}
	}
	if in.Diameter != nil {
		if in.Velocity != nil {
			res.CFMVelocity = Float(CFMFromVelocity(*in.Velocity, *in.Diameter))
		}
		if in.Friction != nil {
			res.CFMFriction = Float(CFMFromFriction(*in.Friction, *in.Diameter))
		}
	}
	return res
}
