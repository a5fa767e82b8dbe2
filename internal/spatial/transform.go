package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// Forward, Right and Up are the principal joint axes, in this order.
	Forward = mgl64.Vec3{1, 0, 0}
	Right   = mgl64.Vec3{0, 1, 0}
	Up      = mgl64.Vec3{0, 0, 1}
)

// Transform is a rigid transform (rotation followed by translation), without scale.
type Transform struct {
	Rotation    mgl64.Quat `json:"rotation"`
	Translation mgl64.Vec3 `json:"translation"`
}

func Identity() Transform {
	return Transform{
		Rotation: mgl64.QuatIdent(),
	}
}

func NewTransform(rotation mgl64.Quat, translation mgl64.Vec3) Transform {
	return Transform{
		Rotation:    rotation,
		Translation: translation,
	}
}

// Mul returns the transform that applies t first and then parent.
// For a bone this turns a transform relative to parent into one in the parent's space.
func (t Transform) Mul(parent Transform) Transform {
	return Transform{
		Rotation:    parent.Rotation.Mul(t.Rotation).Normalize(),
		Translation: parent.Rotation.Rotate(t.Translation).Add(parent.Translation),
	}
}

// TransformPosition maps a point from local space into the space t is expressed in.
func (t Transform) TransformPosition(p mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(p).Add(t.Translation)
}

// InverseTransformVector maps a direction into local space, ignoring translation.
func (t Transform) InverseTransformVector(v mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Inverse().Rotate(v)
}

func (t Transform) Inverse() Transform {
	inv := t.Rotation.Inverse()
	return Transform{
		Rotation:    inv,
		Translation: inv.Rotate(t.Translation.Mul(-1)),
	}
}

// ApproxEqual compares rotation and translation component-wise with an absolute threshold.
func (t Transform) ApproxEqual(other Transform, threshold float64) bool {
	return QuatApproxEqual(t.Rotation, other.Rotation, threshold) &&
		vecWithin(t.Translation, other.Translation, threshold)
}

// QuatApproxEqual compares two rotations, treating q and -q as the same rotation.
func QuatApproxEqual(a, b mgl64.Quat, threshold float64) bool {
	return quatWithin(a, b, threshold) || quatWithin(a, b.Scale(-1), threshold)
}

func quatWithin(a, b mgl64.Quat, threshold float64) bool {
	return math.Abs(a.W-b.W) <= threshold && vecWithin(a.V, b.V, threshold)
}

func vecWithin(a, b mgl64.Vec3, threshold float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > threshold {
			return false
		}
	}
	return true
}

// TwistAngle returns the rotation of q about the given (unit) axis, in radians in (-pi, pi].
func TwistAngle(q mgl64.Quat, axis mgl64.Vec3) float64 {
	xyz := axis.Dot(q.V)
	return UnwindRadians(2 * math.Atan2(xyz, q.W))
}

// TwistAnglesDegrees returns the twist of q about Forward, Right and Up, in degrees.
func TwistAnglesDegrees(q mgl64.Quat) mgl64.Vec3 {
	return mgl64.Vec3{
		mgl64.RadToDeg(TwistAngle(q, Forward)),
		mgl64.RadToDeg(TwistAngle(q, Right)),
		mgl64.RadToDeg(TwistAngle(q, Up)),
	}
}

// UnwindRadians maps an angle into (-pi, pi].
func UnwindRadians(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// MulElem multiplies two vectors component-wise.
func MulElem(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// DivElem divides a by b component-wise. Components with a zero divisor are zero.
func DivElem(a, b mgl64.Vec3) mgl64.Vec3 {
	var result mgl64.Vec3
	for i := 0; i < 3; i++ {
		if b[i] != 0 {
			result[i] = a[i] / b[i]
		}
	}
	return result
}

// EulerDegreesToQuat builds a rotation from angles about Forward, Right and Up,
// applied in that order.
func EulerDegreesToQuat(angles mgl64.Vec3) mgl64.Quat {
	return mgl64.AnglesToQuat(
		mgl64.DegToRad(angles[2]),
		mgl64.DegToRad(angles[1]),
		mgl64.DegToRad(angles[0]),
		mgl64.ZYX,
	)
}
