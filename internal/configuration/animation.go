package configuration

import (
	"github.com/go-gl/mathgl/mgl64"
)

type AnimationConfig struct {
	Bone string     `json:"bone"`
	Axis mgl64.Vec3 `json:"axis"`
	// Amplitude in degrees
	Amplitude float64 `json:"amplitude"`
	// Frequency in Hz
	Frequency float64 `json:"frequency"`
	// Phase in degrees
	Phase float64 `json:"phase"`
}
