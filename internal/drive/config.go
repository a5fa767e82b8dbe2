package drive

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/markusressel/jointdrive/internal/control_loop"
)

// JointDriveConfig is the tuning of a single joint.
// Limits are in degrees, one component per axis (forward, right, up).
type JointDriveConfig struct {
	BodyName string `json:"bodyName" yaml:"bodyName"`

	MinSoftLimit mgl64.Vec3 `json:"minSoftLimit" yaml:"minSoftLimit"`
	MaxSoftLimit mgl64.Vec3 `json:"maxSoftLimit" yaml:"maxSoftLimit"`
	MinHardLimit mgl64.Vec3 `json:"minHardLimit" yaml:"minHardLimit"`
	MaxHardLimit mgl64.Vec3 `json:"maxHardLimit" yaml:"maxHardLimit"`

	IntegralGain        float64 `json:"integralGain" yaml:"integralGain"`
	DerivativeGain      float64 `json:"derivativeGain" yaml:"derivativeGain"`
	ProportionalGain    float64 `json:"proportionalGain" yaml:"proportionalGain"`
	StiffnessMultiplier float64 `json:"stiffnessMultiplier" yaml:"stiffnessMultiplier"`
	IntegralLimit       float64 `json:"integralLimit" yaml:"integralLimit"`

	SimulateEnabled bool `json:"simulateEnabled" yaml:"simulateEnabled"`
}

var defaultJointDriveConfig = JointDriveConfig{
	MinSoftLimit:        mgl64.Vec3{-180, -180, -180},
	MaxSoftLimit:        mgl64.Vec3{180, 180, 180},
	MinHardLimit:        mgl64.Vec3{-180, -180, -180},
	MaxHardLimit:        mgl64.Vec3{180, 180, 180},
	StiffnessMultiplier: 1,
}

// DefaultJointDriveConfig returns a copy of the tuning every joint starts with.
func DefaultJointDriveConfig() JointDriveConfig {
	return defaultJointDriveConfig
}

func NewJointDriveConfig(bodyName string) JointDriveConfig {
	c := DefaultJointDriveConfig()
	c.BodyName = bodyName
	return c
}

func (c JointDriveConfig) Gains() control_loop.Gains {
	return control_loop.Gains{
		IntegralGain:        c.IntegralGain,
		DerivativeGain:      c.DerivativeGain,
		ProportionalGain:    c.ProportionalGain,
		StiffnessMultiplier: c.StiffnessMultiplier,
		IntegralLimit:       c.IntegralLimit,
	}
}
