package joint

import (
	"fmt"

	"github.com/markusressel/jointdrive/cmd/global"
	"github.com/markusressel/jointdrive/internal"
	"github.com/markusressel/jointdrive/internal/configuration"
	"github.com/markusressel/jointdrive/internal/drive"
	"github.com/markusressel/jointdrive/internal/persistence"
	"github.com/markusressel/jointdrive/internal/ui"
	"github.com/spf13/cobra"
)

var jointId string

var Command = &cobra.Command{
	Use:              "joint",
	Short:            "Joint related commands",
	Long:             ``,
	TraverseChildren: true,
}

func init() {
	Command.PersistentFlags().StringVarP(
		&jointId,
		"id", "i",
		"",
		"Body name of a joint as specified in the rig config",
	)
}

// loadObjects builds the configured rig offline, including any stored tuning.
func loadObjects() (*internal.Objects, persistence.Persistence) {
	global.LoadConfig()

	dbPath := configuration.CurrentConfig.DbPath
	ui.Debug("Using persistence at: %s", dbPath)
	p := persistence.NewPersistence(dbPath)
	if err := p.Init(); err != nil {
		ui.Fatal("Unable to initialize persistence: %v", err)
	}

	objects, err := internal.InitializeObjects(configuration.CurrentConfig, p)
	if err != nil {
		ui.Fatal("Unable to initialize rig: %v", err)
	}
	return objects, p
}

// selectJoints returns all configs, or only the one matching the id flag.
func selectJoints(configs []drive.JointDriveConfig) ([]drive.JointDriveConfig, error) {
	if len(jointId) == 0 {
		return configs, nil
	}
	for _, config := range configs {
		if config.BodyName == jointId {
			return []drive.JointDriveConfig{config}, nil
		}
	}
	return nil, fmt.Errorf("no joint with id found: %s", jointId)
}
