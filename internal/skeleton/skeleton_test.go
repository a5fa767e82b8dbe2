package skeleton

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/markusressel/jointdrive/internal/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestRig builds the following hierarchy:
//
//	pelvis
//	└── spine_01
//	    ├── spine_02 (no body)
//	    │   └── head
//	    └── clavicle_r
func createTestRig(t *testing.T) *Rig {
	rig, err := NewRig([]Bone{
		{Name: "pelvis", HasBody: true},
		{Name: "spine_01", Parent: "pelvis", Local: spatial.NewTransform(mgl64.QuatIdent(), mgl64.Vec3{0, 0, 1}), HasBody: true},
		{Name: "spine_02", Parent: "spine_01", Local: spatial.NewTransform(mgl64.QuatIdent(), mgl64.Vec3{0, 0, 1})},
		{Name: "head", Parent: "spine_02", Local: spatial.NewTransform(mgl64.QuatIdent(), mgl64.Vec3{0, 0, 1}), HasBody: true},
		{Name: "clavicle_r", Parent: "spine_01", Local: spatial.NewTransform(mgl64.QuatIdent(), mgl64.Vec3{1, 0, 0}), HasBody: true},
	}, spatial.Identity())
	require.NoError(t, err)
	return rig
}

func TestNewRig_DuplicateBone(t *testing.T) {
	// WHEN
	_, err := NewRig([]Bone{{Name: "pelvis"}, {Name: "pelvis"}}, spatial.Identity())

	// THEN
	assert.EqualError(t, err, "duplicate bone name: pelvis")
}

func TestNewRig_MissingParent(t *testing.T) {
	// WHEN
	_, err := NewRig([]Bone{{Name: "head", Parent: "neck"}}, spatial.Identity())

	// THEN
	assert.EqualError(t, err, "bone head: no parent bone with name 'neck' found")
}

func TestRig_Bodies(t *testing.T) {
	// GIVEN
	rig := createTestRig(t)

	// THEN
	assert.Equal(t, []string{"pelvis", "spine_01", "head", "clavicle_r"}, rig.Bodies())
	assert.Equal(t, 5, rig.NumBones())
	assert.Equal(t, IndexNone, rig.FindBoneIndex("tail"))
	assert.Equal(t, "spine_02", rig.BoneName(2))
	assert.Equal(t, 1, rig.ParentIndex(2))
}

func TestRig_ForEachBodyBelow_ExcludingSelf(t *testing.T) {
	// GIVEN
	rig := createTestRig(t)
	var visited []string

	// WHEN
	count := rig.ForEachBodyBelow("spine_01", false, func(bodyName string) {
		visited = append(visited, bodyName)
	})

	// THEN
	assert.Equal(t, 2, count)
	assert.Equal(t, []string{"head", "clavicle_r"}, visited)
}

func TestRig_ForEachBodyBelow_IncludingSelf(t *testing.T) {
	// GIVEN
	rig := createTestRig(t)
	var visited []string

	// WHEN
	count := rig.ForEachBodyBelow("spine_01", true, func(bodyName string) {
		visited = append(visited, bodyName)
	})

	// THEN
	assert.Equal(t, 3, count)
	assert.Equal(t, []string{"spine_01", "head", "clavicle_r"}, visited)
}

func TestRig_ForEachBodyBelow_UnknownBone(t *testing.T) {
	// GIVEN
	rig := createTestRig(t)

	// WHEN
	count := rig.ForEachBodyBelow("tail", true, func(bodyName string) {
		t.Fail()
	})

	// THEN
	assert.Equal(t, 0, count)
}

func TestComputeTargetTransform_ChainsToWorld(t *testing.T) {
	// GIVEN
	rig := createTestRig(t)
	rig.SetComponentToWorld(spatial.NewTransform(mgl64.QuatIdent(), mgl64.Vec3{10, 0, 0}))
	rig.SetLocalRotation(1, mgl64.QuatRotate(math.Pi/2, spatial.Forward))

	// WHEN
	result, ok := ComputeTargetTransform(rig, rig.FindBoneIndex("head"))

	// THEN
	// spine_01 is rotated by 90 degrees about X, so the two unit offsets
	// above it point along -Y instead of +Z
	assert.True(t, ok)
	assertVecInDelta(t, mgl64.Vec3{10, -2, 1}, result.Translation, 1e-9)
	assert.True(t, spatial.QuatApproxEqual(mgl64.QuatRotate(math.Pi/2, spatial.Forward), result.Rotation, 1e-9))
}

func TestComputeTargetTransform_DetectsCycle(t *testing.T) {
	// GIVEN
	rig, err := NewRig([]Bone{
		{Name: "a", Parent: "b", HasBody: true},
		{Name: "b", Parent: "a", HasBody: true},
	}, spatial.Identity())
	require.NoError(t, err)

	// WHEN
	result, ok := ComputeTargetTransform(rig, 0)

	// THEN
	assert.False(t, ok)
	assert.Equal(t, spatial.Identity(), result)
}

func TestComputeTargetTransform_InvalidIndex(t *testing.T) {
	// GIVEN
	rig := createTestRig(t)

	// WHEN
	_, ok := ComputeTargetTransform(rig, IndexNone)

	// THEN
	assert.False(t, ok)
}

func TestRig_ForEachBodyBelow_TerminatesOnCycle(t *testing.T) {
	// GIVEN
	rig, err := NewRig([]Bone{
		{Name: "root", HasBody: true},
		{Name: "a", Parent: "b", HasBody: true},
		{Name: "b", Parent: "a", HasBody: true},
	}, spatial.Identity())
	require.NoError(t, err)

	// WHEN
	count := rig.ForEachBodyBelow("root", false, func(bodyName string) {})

	// THEN
	assert.Equal(t, 0, count)
}

func TestRig_ComponentSpaceTransform(t *testing.T) {
	// GIVEN
	rig := createTestRig(t)
	rig.SetComponentToWorld(spatial.NewTransform(mgl64.QuatRotate(1, spatial.Up), mgl64.Vec3{3, 4, 5}))

	// WHEN
	result, ok := rig.ComponentSpaceTransform(rig.FindBoneIndex("clavicle_r"))

	// THEN
	assert.True(t, ok)
	assertVecInDelta(t, mgl64.Vec3{1, 0, 1}, result.Translation, 1e-9)
}

func TestOscillator_Advance(t *testing.T) {
	// GIVEN
	rig := createTestRig(t)
	oscillator, err := NewOscillator(rig, []Oscillation{
		{Bone: "clavicle_r", Axis: mgl64.Vec3{0, 0, 2}, Amplitude: 30, Frequency: 1},
	})
	require.NoError(t, err)

	// WHEN
	oscillator.Advance(0.25)

	// THEN
	angle := mgl64.RadToDeg(spatial.TwistAngle(rig.LocalTransform(rig.FindBoneIndex("clavicle_r")).Rotation, spatial.Up))
	assert.InDelta(t, 30.0, angle, 1e-9)
	assert.Equal(t, 0.25, oscillator.Time())
}

func TestNewOscillator_UnknownBone(t *testing.T) {
	// GIVEN
	rig := createTestRig(t)

	// WHEN
	_, err := NewOscillator(rig, []Oscillation{{Bone: "tail", Axis: spatial.Up}})

	// THEN
	assert.EqualError(t, err, "animation: no bone with name 'tail' found")
}

// assertVecInDelta compares every component with an absolute tolerance.
func assertVecInDelta(t *testing.T, expected mgl64.Vec3, actual mgl64.Vec3, delta float64) {
	t.Helper()
	assert.InDeltaSlice(t, expected[:], actual[:], delta, "%v", actual)
}
