package drive

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/markusressel/jointdrive/internal/physics"
	"github.com/markusressel/jointdrive/internal/skeleton"
	"github.com/markusressel/jointdrive/internal/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dirtyCounter struct {
	count int
}

func (d *dirtyCounter) markDirty() {
	d.count++
}

// createRegistry builds the following hierarchy:
//
//	pelvis
//	└── spine_01
//	    ├── head
//	    └── clavicle_r
//	        └── upperarm_r
func createRegistry(t *testing.T) (*Registry, *physics.SimulatedBackend, *dirtyCounter) {
	rig, err := skeleton.NewRig([]skeleton.Bone{
		{Name: "pelvis", HasBody: true},
		{Name: "spine_01", Parent: "pelvis", HasBody: true},
		{Name: "head", Parent: "spine_01", HasBody: true},
		{Name: "clavicle_r", Parent: "spine_01", HasBody: true},
		{Name: "upperarm_r", Parent: "clavicle_r", HasBody: true},
	}, spatial.Identity())
	require.NoError(t, err)

	backend := physics.NewSimulatedBackend(mgl64.Vec3{0, 0, -9.8}, 0)
	for _, body := range rig.Bodies() {
		_, err := backend.AddBody(physics.BodyParameters{Name: body, Mass: 1, Inertia: mgl64.Vec3{1, 1, 1}})
		require.NoError(t, err)
	}

	dirty := &dirtyCounter{}
	registry := NewRegistry(backend, dirty.markDirty)
	registry.Init(rig)
	return registry, backend, dirty
}

func proportionalGains(registry *Registry) map[string]float64 {
	result := map[string]float64{}
	for _, config := range registry.Snapshot() {
		result[config.BodyName] = config.ProportionalGain
	}
	return result
}

func TestDefaultJointDriveConfig_IsImmutable(t *testing.T) {
	// GIVEN
	config := DefaultJointDriveConfig()

	// WHEN
	config.ProportionalGain = 42
	config.MinSoftLimit[0] = 0

	// THEN
	fresh := DefaultJointDriveConfig()
	assert.Equal(t, 0.0, fresh.ProportionalGain)
	assert.Equal(t, mgl64.Vec3{-180, -180, -180}, fresh.MinSoftLimit)
	assert.Equal(t, 1.0, fresh.StiffnessMultiplier)
	assert.False(t, fresh.SimulateEnabled)
}

func TestRegistry_Init(t *testing.T) {
	// GIVEN
	registry, _, dirty := createRegistry(t)

	// THEN
	assert.Equal(t, 5, registry.Len())
	assert.Equal(t, "clavicle_r", registry.Get(3).BodyName)
	config, found := registry.Find("head")
	assert.True(t, found)
	assert.Equal(t, NewJointDriveConfig("head"), config)
	assert.Equal(t, 0, dirty.count)
}

func TestRegistry_SetGains(t *testing.T) {
	// GIVEN
	registry, _, dirty := createRegistry(t)

	// WHEN
	found := registry.SetGains("head", 0.1, 0.2, 3)

	// THEN
	assert.True(t, found)
	assert.Equal(t, 1, dirty.count)
	config, _ := registry.Find("head")
	assert.Equal(t, 0.1, config.IntegralGain)
	assert.Equal(t, 0.2, config.DerivativeGain)
	assert.Equal(t, 3.0, config.ProportionalGain)
	assert.Equal(t, map[string]float64{
		"pelvis": 0, "spine_01": 0, "head": 3, "clavicle_r": 0, "upperarm_r": 0,
	}, proportionalGains(registry))
}

func TestRegistry_SetGains_UnknownJoint(t *testing.T) {
	// GIVEN
	registry, _, dirty := createRegistry(t)
	before := registry.Snapshot()

	// WHEN
	found := registry.SetGains("tail", 1, 1, 1)

	// THEN
	assert.False(t, found)
	assert.Equal(t, 0, dirty.count)
	assert.Equal(t, before, registry.Snapshot())
}

func TestRegistry_SetGainsForSubtree_ExcludingRoot(t *testing.T) {
	// GIVEN
	registry, _, dirty := createRegistry(t)

	// WHEN
	count := registry.SetGainsForSubtree("spine_01", 0, 0, 2, false)

	// THEN
	assert.Equal(t, 3, count)
	assert.Equal(t, 1, dirty.count)
	assert.Equal(t, map[string]float64{
		"pelvis": 0, "spine_01": 0, "head": 2, "clavicle_r": 2, "upperarm_r": 2,
	}, proportionalGains(registry))
}

func TestRegistry_SetGainsForSubtree_IncludingRoot(t *testing.T) {
	// GIVEN
	registry, _, _ := createRegistry(t)

	// WHEN
	count := registry.SetGainsForSubtree("clavicle_r", 0, 0, 5, true)

	// THEN
	assert.Equal(t, 2, count)
	assert.Equal(t, map[string]float64{
		"pelvis": 0, "spine_01": 0, "head": 0, "clavicle_r": 5, "upperarm_r": 5,
	}, proportionalGains(registry))
}

func TestRegistry_SetGainsForSubtree_LeafWithoutRoot(t *testing.T) {
	// GIVEN
	registry, _, dirty := createRegistry(t)
	before := registry.Snapshot()

	// WHEN
	count := registry.SetGainsForSubtree("upperarm_r", 1, 1, 1, false)

	// THEN
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, dirty.count)
	assert.Equal(t, before, registry.Snapshot())
}

func TestRegistry_SetStiffnessMultiplier(t *testing.T) {
	// GIVEN
	registry, _, dirty := createRegistry(t)

	// WHEN
	found := registry.SetStiffnessMultiplier("pelvis", 2.5)
	count := registry.SetStiffnessMultiplierForSubtree("clavicle_r", 0.5, false)

	// THEN
	assert.True(t, found)
	assert.Equal(t, 1, count)
	assert.Equal(t, 2, dirty.count)

	pelvis, _ := registry.Find("pelvis")
	upperarm, _ := registry.Find("upperarm_r")
	clavicle, _ := registry.Find("clavicle_r")
	assert.Equal(t, 2.5, pelvis.StiffnessMultiplier)
	assert.Equal(t, 0.5, upperarm.StiffnessMultiplier)
	assert.Equal(t, 1.0, clavicle.StiffnessMultiplier)
	assert.Equal(t, 0.0, pelvis.ProportionalGain)
}

func TestRegistry_SetStiffnessMultiplier_NegativeIsClamped(t *testing.T) {
	// GIVEN
	registry, _, _ := createRegistry(t)

	// WHEN
	registry.SetStiffnessMultiplier("head", -3)

	// THEN
	config, _ := registry.Find("head")
	assert.Equal(t, 0.0, config.StiffnessMultiplier)
}

func TestRegistry_SetSimulateEnabledForSubtree(t *testing.T) {
	// GIVEN
	registry, backend, dirty := createRegistry(t)

	// WHEN
	count := registry.SetSimulateEnabledForSubtree("spine_01", true, true)

	// THEN
	assert.Equal(t, 4, count)
	assert.Equal(t, 0, dirty.count)

	for _, config := range registry.Snapshot() {
		expected := config.BodyName != "pelvis"
		assert.Equal(t, expected, config.SimulateEnabled, config.BodyName)

		handle, err := backend.ResolveBody(config.BodyName)
		require.NoError(t, err)
		body, _ := backend.Body(handle)
		assert.Equal(t, expected, body.IsSimulating(), config.BodyName)
	}
}

func TestRegistry_SetSimulateEnabled(t *testing.T) {
	// GIVEN
	registry, backend, dirty := createRegistry(t)

	// WHEN
	found := registry.SetSimulateEnabled("head", true)
	missing := registry.SetSimulateEnabled("tail", true)

	// THEN
	assert.True(t, found)
	assert.False(t, missing)
	assert.Equal(t, 0, dirty.count)

	config, _ := registry.Find("head")
	assert.True(t, config.SimulateEnabled)
	handle, err := backend.ResolveBody("head")
	require.NoError(t, err)
	body, _ := backend.Body(handle)
	assert.True(t, body.IsSimulating())
}

func TestRegistry_SetLimits(t *testing.T) {
	// GIVEN
	registry, _, dirty := createRegistry(t)

	// WHEN
	found := registry.SetLimits("head",
		mgl64.Vec3{-30, -10, -5}, mgl64.Vec3{30, 10, 5},
		mgl64.Vec3{-45, -20, -10}, mgl64.Vec3{45, 20, 10},
	)

	// THEN
	assert.True(t, found)
	assert.Equal(t, 1, dirty.count)
	config, _ := registry.Find("head")
	assert.Equal(t, mgl64.Vec3{-30, -10, -5}, config.MinSoftLimit)
	assert.Equal(t, mgl64.Vec3{45, 20, 10}, config.MaxHardLimit)
}

func TestRegistry_Restore(t *testing.T) {
	// GIVEN
	registry, _, dirty := createRegistry(t)
	head := NewJointDriveConfig("head")
	head.ProportionalGain = 7
	unknown := NewJointDriveConfig("tail")

	// WHEN
	count := registry.Restore([]JointDriveConfig{head, unknown})

	// THEN
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, dirty.count)
	config, _ := registry.Find("head")
	assert.Equal(t, head, config)
	assert.Equal(t, 5, registry.Len())
}

func TestRegistry_Restore_ForwardsSimulateFlag(t *testing.T) {
	// GIVEN
	registry, backend, _ := createRegistry(t)
	upperarm := NewJointDriveConfig("upperarm_r")
	upperarm.SimulateEnabled = true

	// WHEN
	registry.Restore([]JointDriveConfig{upperarm})

	// THEN
	handle, err := backend.ResolveBody("upperarm_r")
	require.NoError(t, err)
	body, _ := backend.Body(handle)
	assert.True(t, body.IsSimulating())
}

func TestJointDriveConfig_Gains(t *testing.T) {
	// GIVEN
	config := NewJointDriveConfig("head")
	config.IntegralGain = 1
	config.DerivativeGain = 2
	config.ProportionalGain = 3
	config.StiffnessMultiplier = 4
	config.IntegralLimit = 5

	// WHEN
	gains := config.Gains()

	// THEN
	assert.Equal(t, 1.0, gains.IntegralGain)
	assert.Equal(t, 2.0, gains.DerivativeGain)
	assert.Equal(t, 3.0, gains.ProportionalGain)
	assert.Equal(t, 4.0, gains.StiffnessMultiplier)
	assert.Equal(t, 5.0, gains.IntegralLimit)
}
