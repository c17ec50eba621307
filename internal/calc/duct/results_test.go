package duct

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var frozenAt = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func frozen() Calculator {
	return Calculator{Clock: clockwork.NewFakeClockAt(frozenAt)}
}

func TestComputeAll_VelocityAndFriction(t *testing.T) {
	t.Parallel()
	res := frozen().ComputeAll(Input{Velocity: Float(1500), Friction: Float(0.1), CFM: Float(1000)})

	require.True(t, res.Valid())
	require.NotNil(t, res.CFM)
	require.NotNil(t, res.DiameterVelocity)
	require.NotNil(t, res.DiameterFriction)
	assert.Equal(t, 1000.0, *res.CFM)
	assert.Equal(t, 12.0, *res.DiameterVelocity)
	assert.Equal(t, 14.0, *res.DiameterFriction)
	assert.Nil(t, res.CFMVelocity)
	assert.Nil(t, res.CFMFriction)
	assert.Equal(t, frozenAt, res.Timestamp)
}

func TestComputeAll_FromDiameter(t *testing.T) {
	t.Parallel()
	res := frozen().ComputeAll(Input{Velocity: Float(2500), Friction: Float(0.15), Diameter: Float(10)})

	require.True(t, res.Valid())
	assert.Nil(t, res.CFM)
	assert.Nil(t, res.DiameterVelocity)
	require.NotNil(t, res.CFMVelocity)
	require.NotNil(t, res.CFMFriction)
	assert.InDelta(t, 1363.538, *res.CFMVelocity, 1e-3)
	assert.InDelta(t, 518.563, *res.CFMFriction, 1e-3)
}

func TestComputeAll_PartialInput(t *testing.T) {
	res := ComputeAll(Input{Friction: Float(0.1), CFM: Float(1000)})

	require.True(t, res.Valid())
	assert.Nil(t, res.DiameterVelocity)
	require.NotNil(t, res.DiameterFriction)
	assert.Equal(t, 14.0, *res.DiameterFriction)
}

func TestComputeAll_InvalidClearsResults(t *testing.T) {
	t.Parallel()
	res := frozen().ComputeAll(Input{Velocity: Float(6000), Friction: Float(0.1), CFM: Float(1000), Diameter: Float(10)})

	assert.False(t, res.Valid())
	assert.Equal(t, []string{MsgVelocity}, res.Errors)
	assert.Nil(t, res.CFM)
	assert.Nil(t, res.DiameterVelocity)
	assert.Nil(t, res.DiameterFriction)
	assert.Nil(t, res.CFMVelocity)
	assert.Nil(t, res.CFMFriction)
	assert.Equal(t, frozenAt, res.Timestamp)
}

func TestComputeAll_Idempotent(t *testing.T) {
	t.Parallel()
	calc := frozen()
	in := Input{Velocity: Float(1800), Friction: Float(0.08), CFM: Float(4200)}
	assert.Equal(t, calc.ComputeAll(in), calc.ComputeAll(in))
}

func TestComputeAll_ZeroCalculatorUsesRealTime(t *testing.T) {
	before := time.Now()
	res := ComputeAll(Input{CFM: Float(1000)})
	assert.False(t, res.Timestamp.Before(before))
	assert.WithinDuration(t, time.Now(), res.Timestamp, time.Second)
}
