package table

import (
	"errors"
	"math"
	"strings"

	duct "Ductcalc/internal/calc/duct"
)

const (
	FirstDiameterIn = 4
	LastDiameterIn  = 60
	StepIn          = 2
)

type Input struct {
	Velocity float64 `json:"velocity"` // ft/min
	Friction float64 `json:"friction"` // in./100ft
}

type Row struct {
	DiameterIn  int   `json:"diameter_in"`
	VelocityCFM int64 `json:"velocity_cfm"`
	FrictionCFM int64 `json:"friction_cfm"`
	Difference  int64 `json:"difference"`
}

type Table struct {
	Velocity          float64 `json:"velocity"`
	Friction          float64 `json:"friction"`
	Rows              []Row   `json:"rows"`
	MaxVelocityCFM    int64   `json:"max_velocity_cfm"`
	MaxFrictionCFM    int64   `json:"max_friction_cfm"`
	OptimalDiameterIn int     `json:"optimal_diameter_in"`
}

// Build tabulates the CFM each stock diameter carries at the velocity
// limit and at the friction limit.
func Build(in Input) (Table, error) {
	if errs := duct.Validate(duct.Input{Velocity: &in.Velocity, Friction: &in.Friction}); len(errs) > 0 {
		return Table{}, errors.New(strings.Join(errs, "; "))
	}

	t := Table{
		Velocity:          in.Velocity,
		Friction:          in.Friction,
		Rows:              make([]Row, 0, (LastDiameterIn-FirstDiameterIn)/StepIn+1),
		OptimalDiameterIn: FirstDiameterIn,
	}
	best := int64(math.MaxInt64)
	for d := FirstDiameterIn; d <= LastDiameterIn; d += StepIn {
		v := duct.CFMFromVelocity(in.Velocity, float64(d))
		f := duct.CFMFromFriction(in.Friction, float64(d))
		row := Row{
			DiameterIn:  d,
			VelocityCFM: int64(math.Round(math.Max(0, v))),
			FrictionCFM: int64(math.Round(math.Max(0, f))),
			Difference:  int64(math.Round(math.Abs(v - f))),
		}
		t.Rows = append(t.Rows, row)

		t.MaxVelocityCFM = max(t.MaxVelocityCFM, row.VelocityCFM)
		t.MaxFrictionCFM = max(t.MaxFrictionCFM, row.FrictionCFM)
		// strict less: first row wins ties
		if row.Difference < best {
			best = row.Difference
			t.OptimalDiameterIn = d
		}
	}
	return t, nil
}

// Limit returns at most n rows, all of them when n <= 0.
func (t Table) Limit(n int) []Row {
	if n <= 0 || n >= len(t.Rows) {
		return t.Rows
	}
	return t.Rows[:n]
}
