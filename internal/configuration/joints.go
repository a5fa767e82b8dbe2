package configuration

import (
	"github.com/go-gl/mathgl/mgl64"
)

// JointConfig overrides the default drive of a joint.
// Unset fields keep their default value.
type JointConfig struct {
	Body string `json:"body"`
	// IncludeChildren applies this config to every joint below Body as well
	IncludeChildren bool `json:"includeChildren"`

	MinSoftLimit *mgl64.Vec3 `json:"minSoftLimit,omitempty"`
	MaxSoftLimit *mgl64.Vec3 `json:"maxSoftLimit,omitempty"`
	MinHardLimit *mgl64.Vec3 `json:"minHardLimit,omitempty"`
	MaxHardLimit *mgl64.Vec3 `json:"maxHardLimit,omitempty"`

	IntegralGain        *float64 `json:"integralGain,omitempty"`
	DerivativeGain      *float64 `json:"derivativeGain,omitempty"`
	ProportionalGain    *float64 `json:"proportionalGain,omitempty"`
	StiffnessMultiplier *float64 `json:"stiffnessMultiplier,omitempty"`
	IntegralLimit       *float64 `json:"integralLimit,omitempty"`

	Simulate *bool `json:"simulate,omitempty"`
}
