package configuration

import (
	"fmt"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func validBody() *BodyConfig {
	return &BodyConfig{
		Mass:    1,
		Inertia: mgl64.Vec3{1, 1, 1},
	}
}

func validConfig() Configuration {
	return Configuration{
		TickRate:           16 * time.Millisecond,
		StrengthMultiplier: 1,
		Parallelism:        1,
		Rig: RigConfig{
			ID: "arm",
			Bones: []BoneConfig{
				{Name: "root"},
				{Name: "upper", Parent: "root", Body: validBody()},
				{Name: "lower", Parent: "upper", Body: validBody()},
			},
		},
	}
}

func TestValidateValidConfig(t *testing.T) {
	// GIVEN
	config := validConfig()
	stiffness := 2.0
	config.Joints = []JointConfig{
		{Body: "upper", StiffnessMultiplier: &stiffness},
	}
	config.Animation = []AnimationConfig{
		{Bone: "root", Axis: mgl64.Vec3{0, 0, 1}, Amplitude: 10, Frequency: 1},
	}

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.NoError(t, err)
}

func TestValidateInvalidTickRate(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.TickRate = 0

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.EqualError(t, err, "tickRate must be > 0, got 0s")
}

func TestValidateNegativeStrength(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.StrengthMultiplier = -1

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.Error(t, err)
}

func TestValidateInvalidParallelism(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Parallelism = 0

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.EqualError(t, err, "parallelism must be >= 1, got 0")
}

func TestValidateDuplicateBoneName(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Rig.Bones = append(config.Rig.Bones, BoneConfig{Name: "upper", Parent: "root"})

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.EqualError(t, err, fmt.Sprintf("duplicate bone name detected: %s", "upper"))
}

func TestValidateMissingParent(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Rig.Bones = append(config.Rig.Bones, BoneConfig{Name: "hand", Parent: "wrist"})

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.EqualError(t, err, "bone hand: no parent bone with name 'wrist' found")
}

func TestValidateSelfParent(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Rig.Bones = append(config.Rig.Bones, BoneConfig{Name: "hand", Parent: "hand"})

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.EqualError(t, err, "bone hand: a bone cannot be its own parent")
}

func TestValidateHierarchyCycle(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Rig.Bones = []BoneConfig{
		{Name: "a", Parent: "c"},
		{Name: "b", Parent: "a"},
		{Name: "c", Parent: "b"},
	}

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bone hierarchy cycle")
}

func TestValidateInvalidMass(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Rig.Bones[1].Body.Mass = 0

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.EqualError(t, err, "bone upper: body mass must be > 0")
}

func TestValidateInvalidInertia(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Rig.Bones[2].Body.Inertia = mgl64.Vec3{1, 0, 1}

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.EqualError(t, err, "bone lower: every inertia component must be > 0")
}

func TestValidateJointUnknownBone(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Joints = []JointConfig{{Body: "tail"}}

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.EqualError(t, err, "joint tail: no bone with name 'tail' found")
}

func TestValidateJointWithoutBody(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Joints = []JointConfig{{Body: "root"}}

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.EqualError(t, err, "joint root: bone has no physics body")
}

func TestValidateJointSoftLimitOrder(t *testing.T) {
	// GIVEN
	config := validConfig()
	min := mgl64.Vec3{-10, 20, -10}
	max := mgl64.Vec3{10, 10, 10}
	config.Joints = []JointConfig{
		{Body: "upper", MinSoftLimit: &min, MaxSoftLimit: &max},
	}

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "joint upper: soft limit")
}

func TestValidateJointNegativeStiffness(t *testing.T) {
	// GIVEN
	config := validConfig()
	stiffness := -1.0
	config.Joints = []JointConfig{
		{Body: "lower", StiffnessMultiplier: &stiffness},
	}

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.EqualError(t, err, "joint lower: stiffnessMultiplier must be >= 0")
}

func TestValidateJointNegativeIntegralLimit(t *testing.T) {
	// GIVEN
	config := validConfig()
	limit := -5.0
	config.Joints = []JointConfig{
		{Body: "lower", IntegralLimit: &limit},
	}

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.EqualError(t, err, "joint lower: integralLimit must be >= 0")
}

func TestValidateAnimationUnknownBone(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Animation = []AnimationConfig{
		{Bone: "tail", Axis: mgl64.Vec3{1, 0, 0}},
	}

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.EqualError(t, err, "animation: no bone with name 'tail' found")
}

func TestValidateAnimationZeroAxis(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Animation = []AnimationConfig{
		{Bone: "upper"},
	}

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.EqualError(t, err, "animation upper: axis must not be zero")
}
