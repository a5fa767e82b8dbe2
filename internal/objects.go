package internal

import (
	"errors"
	"fmt"

	"github.com/markusressel/jointdrive/internal/configuration"
	"github.com/markusressel/jointdrive/internal/controller"
	"github.com/markusressel/jointdrive/internal/drive"
	"github.com/markusressel/jointdrive/internal/persistence"
	"github.com/markusressel/jointdrive/internal/physics"
	"github.com/markusressel/jointdrive/internal/skeleton"
	"github.com/markusressel/jointdrive/internal/spatial"
	"github.com/markusressel/jointdrive/internal/ui"
	"github.com/markusressel/jointdrive/internal/util"
)

// Objects holds everything that is created from a configuration.
type Objects struct {
	Rig        *skeleton.Rig
	Backend    *physics.SimulatedBackend
	Animator   *skeleton.Oscillator
	Controller *controller.DefaultJointController
	Loop       *controller.Loop
}

// InitializeObjects builds the rig, the physics bodies and a bound joint
// controller from config. pers may be nil, in which case no stored tuning
// is restored.
func InitializeObjects(config configuration.Configuration, pers persistence.Persistence) (*Objects, error) {
	rig, err := CreateRig(config.Rig)
	if err != nil {
		return nil, err
	}

	backend, err := CreatePhysics(config, rig)
	if err != nil {
		return nil, err
	}

	var oscillations []skeleton.Oscillation
	for _, animation := range config.Animation {
		oscillations = append(oscillations, skeleton.Oscillation{
			Bone:      animation.Bone,
			Axis:      animation.Axis,
			Amplitude: animation.Amplitude,
			Frequency: animation.Frequency,
			Phase:     animation.Phase,
		})
	}
	animator, err := skeleton.NewOscillator(rig, oscillations)
	if err != nil {
		return nil, err
	}

	params := controller.Parameters{
		Gravity:            config.Gravity,
		StrengthMultiplier: config.StrengthMultiplier,
		Parallelism:        config.Parallelism,
		TorqueWindowSize:   config.TorqueWindowSize,
		SettleThreshold:    config.SettleThreshold,
	}
	jointController := controller.NewJointController(params, backend)
	if err = jointController.Bind(rig); err != nil {
		return nil, err
	}

	applied := controller.ApplyJointConfigs(jointController.Registry(), rig, config.Joints)
	ui.Debug("Applied %d joint overrides", applied)

	if pers != nil {
		restoreTuning(pers, config.Rig.ID, jointController.Registry())
	}

	return &Objects{
		Rig:        rig,
		Backend:    backend,
		Animator:   animator,
		Controller: jointController,
		Loop:       controller.NewLoop(jointController, animator, backend, config.TickRate),
	}, nil
}

func restoreTuning(pers persistence.Persistence, rigId string, registry *drive.Registry) {
	configs, err := pers.LoadJointTuning(rigId)
	if errors.Is(err, persistence.ErrNoTuning) {
		ui.Debug("No stored tuning for rig %s", rigId)
		return
	}
	if err != nil {
		ui.Warning("Unable to load stored tuning for rig %s: %v", rigId, err)
		return
	}
	restored := registry.Restore(configs)
	ui.Info("Restored tuning of %d joints for rig %s", restored, rigId)
}

// CreateRig builds a skeleton from the bone configuration.
func CreateRig(config configuration.RigConfig) (*skeleton.Rig, error) {
	var bones []skeleton.Bone
	for _, bone := range config.Bones {
		bones = append(bones, skeleton.Bone{
			Name:    bone.Name,
			Parent:  bone.Parent,
			Local:   spatial.NewTransform(spatial.EulerDegreesToQuat(bone.Rotation), bone.Translation),
			HasBody: bone.Body != nil,
		})
	}

	componentToWorld := spatial.NewTransform(spatial.EulerDegreesToQuat(config.Rotation), config.Position)
	return skeleton.NewRig(bones, componentToWorld)
}

// CreatePhysics adds one body per bone with a body to a new simulated backend.
// Each body is constrained to the closest ancestor that has a body itself.
func CreatePhysics(config configuration.Configuration, rig *skeleton.Rig) (*physics.SimulatedBackend, error) {
	backend := physics.NewSimulatedBackend(config.Gravity, config.AngularDamping)
	defaults := drive.DefaultJointDriveConfig()

	for _, bone := range config.Rig.Bones {
		if bone.Body == nil {
			continue
		}

		index := rig.FindBoneIndex(bone.Name)
		pose, ok := skeleton.ComputeTargetTransform(rig, index)
		if !ok {
			return nil, fmt.Errorf("bone %s: unable to compute world transform", bone.Name)
		}

		_, err := backend.AddBody(physics.BodyParameters{
			Name:           bone.Name,
			Pose:           pose,
			Mass:           bone.Body.Mass,
			CenterOfMass:   bone.Body.CenterOfMass,
			RotationOfMass: spatial.EulerDegreesToQuat(bone.Body.RotationOfMass),
			Inertia:        bone.Body.Inertia,
		})
		if err != nil {
			return nil, err
		}

		_, err = backend.AddConstraint(physics.ConstraintParameters{
			Name:         bone.Name,
			Parent:       parentBody(rig, index),
			MinHardLimit: defaults.MinHardLimit,
			MaxHardLimit: defaults.MaxHardLimit,
		})
		if err != nil {
			return nil, err
		}
	}

	return backend, nil
}

// parentBody returns the name of the closest ancestor of bone that has a body,
// or an empty string if there is none.
func parentBody(rig *skeleton.Rig, bone int) string {
	bodies := rig.Bodies()
	current := rig.ParentIndex(bone)
	for steps := 0; current != skeleton.IndexNone && steps < rig.NumBones(); steps++ {
		if name := rig.BoneName(current); util.ContainsString(bodies, name) {
			return name
		}
		current = rig.ParentIndex(current)
	}
	return ""
}
