package joint

import (
	"errors"

	"github.com/markusressel/jointdrive/internal/configuration"
	"github.com/markusressel/jointdrive/internal/drive"
	"github.com/markusressel/jointdrive/internal/ui"
	"github.com/markusressel/jointdrive/internal/util"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var exportPath string

type exportFile struct {
	Rig    string                   `yaml:"rig"`
	Joints []drive.JointDriveConfig `yaml:"joints"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the effective drive configuration of all joints to a YAML file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(exportPath) == 0 {
			return errors.New("export requires an output path (--out)")
		}

		objects, _ := loadObjects()
		configs, err := selectJoints(objects.Controller.Registry().Snapshot())
		if err != nil {
			return err
		}

		data, err := yaml.Marshal(exportFile{
			Rig:    configuration.CurrentConfig.Rig.ID,
			Joints: configs,
		})
		if err != nil {
			return err
		}

		if err = util.WriteFileAtomic(exportPath, data); err != nil {
			return err
		}
		ui.Success("Exported %d joints to %s", len(configs), exportPath)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportPath, "out", "o", "", "Output file")
	Command.AddCommand(exportCmd)
}
