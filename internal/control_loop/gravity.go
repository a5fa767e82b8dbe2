package control_loop

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/markusressel/jointdrive/internal/physics"
	"github.com/markusressel/jointdrive/internal/spatial"
)

var DefaultGravity = mgl64.Vec3{0, 0, -9.8}

// GravityTorqueEstimator computes the angular acceleration gravity causes on a body.
type GravityTorqueEstimator struct {
	Gravity mgl64.Vec3
}

func NewGravityTorqueEstimator(gravity mgl64.Vec3) GravityTorqueEstimator {
	return GravityTorqueEstimator{Gravity: gravity}
}

func (e GravityTorqueEstimator) Estimate(body physics.RigidBody) mgl64.Vec3 {
	return ComputeGravityTorque(body, e.Gravity)
}

// ComputeGravityTorque returns the torque gravity exerts about the center of mass
// of body, in the body's local frame and divided by its local inertia.
func ComputeGravityTorque(body physics.RigidBody, gravity mgl64.Vec3) mgl64.Vec3 {
	torque := body.CenterOfMass().Cross(gravity.Mul(body.Mass()))
	torque = body.GlobalPose().InverseTransformVector(torque)
	return spatial.DivElem(torque, body.LocalInertia())
}
