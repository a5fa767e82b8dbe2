package persistence

import (
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/markusressel/jointdrive/internal/drive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPersistence(t *testing.T) Persistence {
	p := NewPersistence(filepath.Join(t.TempDir(), "db", "jointdrive.db"))
	require.NoError(t, p.Init())
	return p
}

func createTuning() []drive.JointDriveConfig {
	arm := drive.NewJointDriveConfig("arm")
	arm.ProportionalGain = 2
	arm.StiffnessMultiplier = 0.5
	arm.MinSoftLimit = mgl64.Vec3{-45, -10, -10}
	arm.SimulateEnabled = true

	hand := drive.NewJointDriveConfig("hand")
	hand.IntegralGain = 0.1
	hand.IntegralLimit = 25

	return []drive.JointDriveConfig{arm, hand}
}

func TestPersistence_SaveAndLoadJointTuning(t *testing.T) {
	// GIVEN
	p := createPersistence(t)
	expected := createTuning()

	// WHEN
	err := p.SaveJointTuning("robot", expected)
	require.NoError(t, err)
	result, err := p.LoadJointTuning("robot")

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, expected, result)
}

func TestPersistence_LoadJointTuning_Missing(t *testing.T) {
	// GIVEN
	p := createPersistence(t)
	_ = p.SaveJointTuning("robot", createTuning())

	// WHEN
	result, err := p.LoadJointTuning("other")

	// THEN
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrNoTuning)
}

func TestPersistence_LoadJointTuning_EmptyDatabase(t *testing.T) {
	// GIVEN
	p := createPersistence(t)

	// WHEN
	_, err := p.LoadJointTuning("robot")

	// THEN
	assert.ErrorIs(t, err, ErrNoTuning)
}

func TestPersistence_DeleteJointTuning(t *testing.T) {
	// GIVEN
	p := createPersistence(t)
	_ = p.SaveJointTuning("robot", createTuning())

	// WHEN
	err := p.DeleteJointTuning("robot")
	assert.NoError(t, err)

	// THEN
	data, err := p.LoadJointTuning("robot")
	assert.Nil(t, data)
	assert.ErrorIs(t, err, ErrNoTuning)
}

func TestPersistence_ListRigs(t *testing.T) {
	// GIVEN
	p := createPersistence(t)
	_ = p.SaveJointTuning("b", createTuning())
	_ = p.SaveJointTuning("a", createTuning())

	// WHEN
	rigs, err := p.ListRigs()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, rigs)
}
