package joint

import (
	"fmt"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/markusressel/jointdrive/cmd/global"
	"github.com/markusressel/jointdrive/internal/ui"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the effective drive configuration of all joints",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		objects, _ := loadObjects()

		configs, err := selectJoints(objects.Controller.Registry().Snapshot())
		if err != nil {
			return err
		}

		var rows [][]string
		for _, config := range configs {
			rows = append(rows, []string{
				config.BodyName,
				strconv.FormatBool(config.SimulateEnabled),
				formatFloat(config.ProportionalGain),
				formatFloat(config.IntegralGain),
				formatFloat(config.DerivativeGain),
				formatFloat(config.StiffnessMultiplier),
				formatRange(config.MinSoftLimit, config.MaxSoftLimit),
				formatRange(config.MinHardLimit, config.MaxHardLimit),
			})
		}

		tableString, err := global.RenderTable(table.Table{
			Headers: []string{"Joint", "Simulate", "P", "I", "D", "Stiffness", "Soft Limits", "Hard Limits"},
			Rows:    rows,
		})
		if err != nil {
			return err
		}
		ui.Printfln(tableString)
		return nil
	},
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func formatRange(min, max mgl64.Vec3) string {
	return fmt.Sprintf("[%g..%g] [%g..%g] [%g..%g]", min.X(), max.X(), min.Y(), max.Y(), min.Z(), max.Z())
}

func init() {
	Command.AddCommand(listCmd)
}
