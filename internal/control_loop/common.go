package control_loop

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/markusressel/jointdrive/internal/physics"
)

// Gains holds the base tuning of a joint, before the stiffness multiplier is applied.
type Gains struct {
	IntegralGain        float64
	DerivativeGain      float64
	ProportionalGain    float64
	StiffnessMultiplier float64
	// IntegralLimit bounds each component of the integral error, 0 disables the bound
	IntegralLimit float64
}

// TorqueControlLoop drives a single joint towards its animated target orientation.
type TorqueControlLoop interface {
	SetGains(gains Gains)
	// ComputeRequiredTorque returns the angular impulse to apply to body for this tick
	ComputeRequiredTorque(
		minSoftLimit mgl64.Vec3,
		maxSoftLimit mgl64.Vec3,
		physicalOrientation mgl64.Quat,
		targetOrientation mgl64.Quat,
		body physics.RigidBody,
		dt float64,
	) mgl64.Vec3
	// Reset clears all accumulated state
	Reset()
}
