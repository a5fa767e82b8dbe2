package control_loop

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/markusressel/jointdrive/internal/spatial"
	"github.com/stretchr/testify/assert"
)

type mockBody struct {
	pose            spatial.Transform
	angularVelocity mgl64.Vec3
	mass            float64
	centerOfMass    mgl64.Vec3
	rotationOfMass  mgl64.Quat
	inertia         mgl64.Vec3
	impulses        []mgl64.Vec3
}

func newMockBody() *mockBody {
	return &mockBody{
		pose:           spatial.Identity(),
		mass:           1,
		rotationOfMass: mgl64.QuatIdent(),
		inertia:        mgl64.Vec3{1, 1, 1},
	}
}

func (b *mockBody) Name() string                         { return "mock" }
func (b *mockBody) GlobalPose() spatial.Transform        { return b.pose }
func (b *mockBody) SetGlobalPose(pose spatial.Transform) { b.pose = pose }
func (b *mockBody) AngularVelocity() mgl64.Vec3          { return b.angularVelocity }
func (b *mockBody) Mass() float64                        { return b.mass }
func (b *mockBody) CenterOfMass() mgl64.Vec3             { return b.centerOfMass }
func (b *mockBody) RotationOfMass() mgl64.Quat           { return b.rotationOfMass }
func (b *mockBody) LocalInertia() mgl64.Vec3             { return b.inertia }
func (b *mockBody) IsSimulating() bool                   { return true }
func (b *mockBody) AddAngularImpulse(impulse mgl64.Vec3) {
	b.impulses = append(b.impulses, impulse)
}

// assertVecInDelta compares every component with an absolute tolerance.
func assertVecInDelta(t *testing.T, expected mgl64.Vec3, actual mgl64.Vec3, delta float64) {
	t.Helper()
	assert.InDeltaSlice(t, expected[:], actual[:], delta, "%v", actual)
}
