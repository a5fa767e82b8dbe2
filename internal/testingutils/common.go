package testingutils

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/markusressel/jointdrive/internal/configuration"
)

var (
	UnitBody = configuration.BodyConfig{
		Mass:    1,
		Inertia: mgl64.Vec3{1, 1, 1},
	}

	HeavyBody = configuration.BodyConfig{
		Mass:         10,
		CenterOfMass: mgl64.Vec3{0, 0, -0.5},
		Inertia:      mgl64.Vec3{2, 2, 1},
	}
)

// CreateChainRig returns a rig config where each bone is the parent of the next one.
// Every bone carries a copy of body.
func CreateChainRig(id string, body configuration.BodyConfig, names ...string) configuration.RigConfig {
	rig := configuration.RigConfig{
		ID: id,
	}
	parent := ""
	for _, name := range names {
		b := body
		rig.Bones = append(rig.Bones, configuration.BoneConfig{
			Name:        name,
			Parent:      parent,
			Translation: mgl64.Vec3{0, 0, -1},
			Body:        &b,
		})
		parent = name
	}
	return rig
}

// CreateConfig returns a complete configuration around the given rig.
func CreateConfig(rig configuration.RigConfig) configuration.Configuration {
	return configuration.Configuration{
		TickRate:           16 * time.Millisecond,
		Gravity:            mgl64.Vec3{0, 0, -9.8},
		StrengthMultiplier: 1,
		Parallelism:        1,
		TorqueWindowSize:   10,
		SettleThreshold:    0.01,
		Rig:                rig,
	}
}
