package controller

import (
	"github.com/markusressel/jointdrive/internal/configuration"
	"github.com/markusressel/jointdrive/internal/drive"
	"github.com/markusressel/jointdrive/internal/skeleton"
	"github.com/markusressel/jointdrive/internal/ui"
)

// ApplyJointConfigs applies the joint overrides of the configuration file on
// top of the defaults in registry. Later entries win over earlier ones.
// It returns the number of joints that were changed.
func ApplyJointConfigs(registry *drive.Registry, skel skeleton.Skeleton, joints []configuration.JointConfig) int {
	count := 0
	for _, joint := range joints {
		targets := []string{joint.Body}
		if joint.IncludeChildren && skel != nil {
			targets = nil
			skel.ForEachBodyBelow(joint.Body, true, func(bodyName string) {
				targets = append(targets, bodyName)
			})
		}

		for _, bodyName := range targets {
			cfg := joint
			found := registry.Update(bodyName, func(config *drive.JointDriveConfig) {
				applyJointConfig(config, cfg)
			})
			if !found {
				ui.Warning("No joint with name '%s' found, ignoring its configuration", bodyName)
				continue
			}
			if joint.Simulate != nil {
				registry.SetSimulateEnabled(bodyName, *joint.Simulate)
			}
			count++
		}
	}
	return count
}

func applyJointConfig(config *drive.JointDriveConfig, joint configuration.JointConfig) {
	if joint.MinSoftLimit != nil {
		config.MinSoftLimit = *joint.MinSoftLimit
	}
	if joint.MaxSoftLimit != nil {
		config.MaxSoftLimit = *joint.MaxSoftLimit
	}
	if joint.MinHardLimit != nil {
		config.MinHardLimit = *joint.MinHardLimit
	}
	if joint.MaxHardLimit != nil {
		config.MaxHardLimit = *joint.MaxHardLimit
	}
	if joint.IntegralGain != nil {
		config.IntegralGain = *joint.IntegralGain
	}
	if joint.DerivativeGain != nil {
		config.DerivativeGain = *joint.DerivativeGain
	}
	if joint.ProportionalGain != nil {
		config.ProportionalGain = *joint.ProportionalGain
	}
	if joint.StiffnessMultiplier != nil {
		config.StiffnessMultiplier = *joint.StiffnessMultiplier
	}
	if joint.IntegralLimit != nil {
		config.IntegralLimit = *joint.IntegralLimit
	}
}
