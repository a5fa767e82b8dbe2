package controller

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/markusressel/jointdrive/internal/configuration"
	"github.com/markusressel/jointdrive/internal/drive"
	"github.com/markusressel/jointdrive/internal/skeleton"
	"github.com/stretchr/testify/assert"
)

func TestApplyJointConfigs_SingleJoint(t *testing.T) {
	// GIVEN
	f := newFixture(t, DefaultParameters(), chain("root", "arm", "hand"))
	gain := 2.5
	minSoft := mgl64.Vec3{-10, -20, -30}
	simulate := true

	// WHEN
	count := ApplyJointConfigs(f.controller.Registry(), f.rig, []configuration.JointConfig{
		{Body: "arm", ProportionalGain: &gain, MinSoftLimit: &minSoft, Simulate: &simulate},
	})

	// THEN
	assert.Equal(t, 1, count)

	arm, _ := f.controller.Registry().Find("arm")
	assert.Equal(t, 2.5, arm.ProportionalGain)
	assert.Equal(t, minSoft, arm.MinSoftLimit)
	assert.Equal(t, drive.DefaultJointDriveConfig().MaxSoftLimit, arm.MaxSoftLimit)
	assert.True(t, arm.SimulateEnabled)
	assert.True(t, f.body(t, "arm").IsSimulating())

	hand, _ := f.controller.Registry().Find("hand")
	assert.Equal(t, 0.0, hand.ProportionalGain)
	assert.False(t, hand.SimulateEnabled)
}

func TestApplyJointConfigs_IncludeChildren(t *testing.T) {
	// GIVEN
	f := newFixture(t, DefaultParameters(), chain("root", "arm", "hand"))
	stiffness := 3.0

	// WHEN
	count := ApplyJointConfigs(f.controller.Registry(), f.rig, []configuration.JointConfig{
		{Body: "arm", IncludeChildren: true, StiffnessMultiplier: &stiffness},
	})

	// THEN
	assert.Equal(t, 2, count)
	for name, expected := range map[string]float64{"root": 1, "arm": 3, "hand": 3} {
		config, _ := f.controller.Registry().Find(name)
		assert.Equal(t, expected, config.StiffnessMultiplier, name)
	}
}

func TestApplyJointConfigs_LaterEntriesWin(t *testing.T) {
	// GIVEN
	f := newFixture(t, DefaultParameters(), chain("root", "arm"))
	all := 1.0
	arm := 4.0

	// WHEN
	ApplyJointConfigs(f.controller.Registry(), f.rig, []configuration.JointConfig{
		{Body: "root", IncludeChildren: true, IntegralGain: &all},
		{Body: "arm", IntegralGain: &arm},
	})

	// THEN
	root, _ := f.controller.Registry().Find("root")
	armConfig, _ := f.controller.Registry().Find("arm")
	assert.Equal(t, 1.0, root.IntegralGain)
	assert.Equal(t, 4.0, armConfig.IntegralGain)
}

func TestApplyJointConfigs_UnknownJoint(t *testing.T) {
	// GIVEN
	f := newFixture(t, DefaultParameters(), []skeleton.Bone{{Name: "root", HasBody: true}})
	gain := 1.0

	// WHEN
	count := ApplyJointConfigs(f.controller.Registry(), f.rig, []configuration.JointConfig{
		{Body: "tail", ProportionalGain: &gain},
	})

	// THEN
	assert.Equal(t, 0, count)
}
