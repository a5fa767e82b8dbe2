package configuration

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/looplab/tarjan"
	"github.com/markusressel/jointdrive/internal/ui"
	"golang.org/x/exp/slices"
)

func Validate(configPath string) error {
	return validateConfig(&CurrentConfig, configPath)
}

func validateConfig(config *Configuration, path string) error {
	err := validateGeneral(config)
	if err != nil {
		return err
	}
	err = validateRig(config)
	if err != nil {
		return err
	}
	err = validateJoints(config)
	if err != nil {
		return err
	}
	err = validateAnimation(config)
	if err != nil {
		return err
	}

	ui.Debug("Config file '%s' is valid", path)
	return nil
}

func validateGeneral(config *Configuration) error {
	if config.TickRate <= 0 {
		return fmt.Errorf("tickRate must be > 0, got %s", config.TickRate)
	}
	if config.StrengthMultiplier < 0 {
		return fmt.Errorf("strengthMultiplier must be >= 0, got %v", config.StrengthMultiplier)
	}
	if config.Parallelism < 1 {
		return fmt.Errorf("parallelism must be >= 1, got %d", config.Parallelism)
	}
	return nil
}

func validateRig(config *Configuration) error {
	var boneNames []string
	for _, bone := range config.Rig.Bones {
		if len(bone.Name) <= 0 {
			return errors.New("bone name must not be empty")
		}
		if slices.Contains(boneNames, bone.Name) {
			return fmt.Errorf("duplicate bone name detected: %s", bone.Name)
		}
		boneNames = append(boneNames, bone.Name)
	}

	graph := map[interface{}][]interface{}{}
	for _, bone := range config.Rig.Bones {
		if bone.Parent != "" {
			if bone.Parent == bone.Name {
				return fmt.Errorf("bone %s: a bone cannot be its own parent", bone.Name)
			}
			if !slices.Contains(boneNames, bone.Parent) {
				return fmt.Errorf("bone %s: no parent bone with name '%s' found", bone.Name, bone.Parent)
			}
			graph[bone.Name] = []interface{}{bone.Parent}
		} else {
			graph[bone.Name] = []interface{}{}
		}

		if bone.Body != nil {
			if bone.Body.Mass <= 0 {
				return fmt.Errorf("bone %s: body mass must be > 0", bone.Name)
			}
			if bone.Body.Inertia[0] <= 0 || bone.Body.Inertia[1] <= 0 || bone.Body.Inertia[2] <= 0 {
				return fmt.Errorf("bone %s: every inertia component must be > 0", bone.Name)
			}
		}
	}

	return validateNoLoops(graph)
}

func validateJoints(config *Configuration) error {
	for _, joint := range config.Joints {
		bone := config.Rig.FindBone(joint.Body)
		if bone == nil {
			return fmt.Errorf("joint %s: no bone with name '%s' found", joint.Body, joint.Body)
		}
		if bone.Body == nil {
			return fmt.Errorf("joint %s: bone has no physics body", joint.Body)
		}

		if err := validateLimitPair(joint.MinSoftLimit, joint.MaxSoftLimit); err != nil {
			return fmt.Errorf("joint %s: soft limit: %w", joint.Body, err)
		}
		if err := validateLimitPair(joint.MinHardLimit, joint.MaxHardLimit); err != nil {
			return fmt.Errorf("joint %s: hard limit: %w", joint.Body, err)
		}

		if joint.StiffnessMultiplier != nil && *joint.StiffnessMultiplier < 0 {
			return fmt.Errorf("joint %s: stiffnessMultiplier must be >= 0", joint.Body)
		}
		if joint.IntegralLimit != nil && *joint.IntegralLimit < 0 {
			return fmt.Errorf("joint %s: integralLimit must be >= 0", joint.Body)
		}
	}
	return nil
}

func validateLimitPair(min, max *mgl64.Vec3) error {
	if min == nil || max == nil {
		return nil
	}
	for i := 0; i < 3; i++ {
		if min[i] > max[i] {
			return fmt.Errorf("min (%v) must be <= max (%v) on axis %d", min[i], max[i], i)
		}
	}
	return nil
}

func validateAnimation(config *Configuration) error {
	for _, animation := range config.Animation {
		if config.Rig.FindBone(animation.Bone) == nil {
			return fmt.Errorf("animation: no bone with name '%s' found", animation.Bone)
		}
		if animation.Axis.Len() == 0 {
			return fmt.Errorf("animation %s: axis must not be zero", animation.Bone)
		}
	}
	return nil
}

func validateNoLoops(graph map[interface{}][]interface{}) error {
	output := tarjan.Connections(graph)
	for _, items := range output {
		if len(items) > 1 {
			return fmt.Errorf("you have created a bone hierarchy cycle: %v", items)
		}
	}
	return nil
}
