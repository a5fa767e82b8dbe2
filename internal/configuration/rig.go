package configuration

import (
	"github.com/go-gl/mathgl/mgl64"
)

type RigConfig struct {
	// ID identifies the rig in persistence
	ID string `json:"id"`
	// Position and Rotation (degrees) place the rig in the world
	Position mgl64.Vec3   `json:"position"`
	Rotation mgl64.Vec3   `json:"rotation"`
	Bones    []BoneConfig `json:"bones"`
}

type BoneConfig struct {
	Name   string `json:"name"`
	Parent string `json:"parent,omitempty"`
	// Translation and Rotation (degrees) relative to the parent bone
	Translation mgl64.Vec3  `json:"translation"`
	Rotation    mgl64.Vec3  `json:"rotation"`
	Body        *BodyConfig `json:"body,omitempty"`
}

type BodyConfig struct {
	Mass         float64    `json:"mass"`
	CenterOfMass mgl64.Vec3 `json:"centerOfMass"`
	// Inertia is the diagonal of the inertia tensor in the principal frame
	Inertia        mgl64.Vec3 `json:"inertia"`
	RotationOfMass mgl64.Vec3 `json:"rotationOfMass"`
}

// FindBone returns the bone with the given name, or nil.
func (r RigConfig) FindBone(name string) *BoneConfig {
	for i := range r.Bones {
		if r.Bones[i].Name == name {
			return &r.Bones[i]
		}
	}
	return nil
}
