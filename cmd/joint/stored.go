package joint

import (
	"github.com/markusressel/jointdrive/cmd/global"
	"github.com/markusressel/jointdrive/internal/configuration"
	"github.com/markusressel/jointdrive/internal/persistence"
	"github.com/markusressel/jointdrive/internal/ui"
	"github.com/spf13/cobra"
)

var storedCmd = &cobra.Command{
	Use:   "stored",
	Short: "List all rigs with stored tuning",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		global.LoadConfig()

		p := persistence.NewPersistence(configuration.CurrentConfig.DbPath)
		rigs, err := p.ListRigs()
		if err != nil {
			return err
		}
		if len(rigs) == 0 {
			ui.Printfln("No stored tuning yet...")
			return nil
		}
		for _, rig := range rigs {
			ui.Printfln(rig)
		}
		return nil
	},
}

func init() {
	Command.AddCommand(storedCmd)
}
