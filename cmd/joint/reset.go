package joint

import (
	"github.com/markusressel/jointdrive/cmd/global"
	"github.com/markusressel/jointdrive/internal/configuration"
	"github.com/markusressel/jointdrive/internal/persistence"
	"github.com/markusressel/jointdrive/internal/ui"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the stored tuning of the configured rig",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		global.LoadConfig()

		dbPath := configuration.CurrentConfig.DbPath
		ui.Info("Using persistence at: %s", dbPath)

		rigId := configuration.CurrentConfig.Rig.ID
		p := persistence.NewPersistence(dbPath)
		err := p.DeleteJointTuning(rigId)

		if err == nil {
			ui.Success("Done!")
		}

		return err
	},
}

func init() {
	Command.AddCommand(resetCmd)
}
