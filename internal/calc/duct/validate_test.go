package duct

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_VelocityBoundaries(t *testing.T) {
	assert.Empty(t, Validate(Input{Velocity: Float(100)}))
	assert.Empty(t, Validate(Input{Velocity: Float(5000)}))

	for _, v := range []float64{99, 5001} {
		errs := Validate(Input{Velocity: Float(v)})
		if assert.Len(t, errs, 1) {
			assert.Contains(t, errs[0], "100-5000")
		}
	}
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name     string
		input    Input
		expected []string
	}{
		{"empty input", Input{}, []string{}},
		{"all valid", Input{Velocity: Float(1500), Friction: Float(0.1), CFM: Float(1000), Diameter: Float(12)}, []string{}},
		{"friction low", Input{Friction: Float(0.001)}, []string{MsgFriction}},
		{"friction high", Input{Friction: Float(1.5)}, []string{MsgFriction}},
		{"cfm low", Input{CFM: Float(99)}, []string{MsgCFM}},
		{"cfm high", Input{CFM: Float(100001)}, []string{MsgCFM}},
		{"diameter high", Input{Diameter: Float(62)}, []string{MsgDiameter}},
		{"nan velocity", Input{Velocity: Float(math.NaN())}, []string{MsgVelocity}},
		{
			"ordered messages",
			Input{Velocity: Float(0), Friction: Float(0), CFM: Float(0), Diameter: Float(0)},
			[]string{MsgVelocity, MsgFriction, MsgCFM, MsgDiameter},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Validate(tt.input))
		})
	}
}
