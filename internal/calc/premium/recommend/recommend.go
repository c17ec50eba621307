package recommend

import (
	"errors"
	"strings"

	duct "Ductcalc/internal/calc/duct"
)

const (
	GovernedByVelocity = "velocity"
	GovernedByFriction = "friction"
	GovernedByBoth     = "both"
)

type DiameterInput struct {
	Velocity float64 `json:"velocity"`
	Friction float64 `json:"friction"`
	CFM      float64 `json:"cfm"`
}

type DiameterResult struct {
	DiameterVelocityIn float64 `json:"diameter_velocity_in"`
	DiameterFrictionIn float64 `json:"diameter_friction_in"`
	RecommendedIn      float64 `json:"recommended_in"`
	GovernedBy         string  `json:"governed_by"`
	VelocityCFM        float64 `json:"velocity_cfm"`
	FrictionCFM        float64 `json:"friction_cfm"`
	Notes              string  `json:"notes"`
}

// Diameter picks the stock size satisfying both the velocity and the
// friction limit for the given airflow.
func Diameter(in DiameterInput) (DiameterResult, error) {
	errs := duct.Validate(duct.Input{Velocity: &in.Velocity, Friction: &in.Friction, CFM: &in.CFM})
	if len(errs) > 0 {
		return DiameterResult{}, errors.New(strings.Join(errs, "; "))
	}

	dv := duct.DiameterFromVelocity(in.Velocity, in.CFM)
	df := duct.DiameterFromFriction(in.Friction, in.CFM)

	res := DiameterResult{
		DiameterVelocityIn: dv,
		DiameterFrictionIn: df,
		RecommendedIn:      max(dv, df),
		Notes:              "Larger of the velocity- and friction-limited round duct sizes.",
	}
	switch {
	case dv > df:
		res.GovernedBy = GovernedByVelocity
	case df > dv:
		res.GovernedBy = GovernedByFriction
	default:
		res.GovernedBy = GovernedByBoth
	}
	res.VelocityCFM = duct.CFMFromVelocity(in.Velocity, res.RecommendedIn)
	res.FrictionCFM = duct.CFMFromFriction(in.Friction, res.RecommendedIn)
	return res, nil
}
