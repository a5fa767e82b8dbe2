package physics

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/markusressel/jointdrive/internal/spatial"
)

// BodyHandle is a non-owning reference to a rigid body inside a Backend.
// A handle may stop resolving at any time and must be re-validated every tick.
type BodyHandle int

// ConstraintHandle is a non-owning reference to a joint constraint inside a Backend.
type ConstraintHandle int

const InvalidHandle = -1

var (
	ErrBodyNotFound       = errors.New("rigid body not found")
	ErrConstraintNotFound = errors.New("constraint not found")
)

// RigidBody exposes the state of a single simulated body.
// Methods must only be called inside Backend.ExecuteWrite.
type RigidBody interface {
	Name() string
	GlobalPose() spatial.Transform
	SetGlobalPose(pose spatial.Transform)
	AngularVelocity() mgl64.Vec3
	Mass() float64
	// CenterOfMass is the offset of the center of mass from the body origin,
	// oriented in world space
	CenterOfMass() mgl64.Vec3
	// RotationOfMass is the orientation of the principal inertia axes
	RotationOfMass() mgl64.Quat
	// LocalInertia is the diagonal of the inertia tensor in the principal frame
	LocalInertia() mgl64.Vec3
	AddAngularImpulse(impulse mgl64.Vec3)
	IsSimulating() bool
}

// Backend is the physics engine the joint controller drives.
// Resolving handles, reading bodies and configuring constraints must happen
// inside ExecuteWrite. WakeAllBodies and SetSimulatePhysics lock on their own.
type Backend interface {
	ResolveBody(name string) (BodyHandle, error)
	ResolveConstraint(name string) (ConstraintHandle, error)

	// Body returns the body behind handle, or false if the handle no longer resolves.
	Body(handle BodyHandle) (RigidBody, bool)
	HasConstraint(handle ConstraintHandle) bool
	ConfigureConstraint(handle ConstraintHandle, minHardLimit, maxHardLimit mgl64.Vec3) error

	// ExecuteWrite runs fn while holding exclusive access to all bodies.
	ExecuteWrite(fn func())
	WakeAllBodies()
	SetSimulatePhysics(bodyName string, enabled bool) bool
}
