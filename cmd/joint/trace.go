package joint

import (
	"errors"
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/markusressel/jointdrive/internal/configuration"
	"github.com/markusressel/jointdrive/internal/ui"
	"github.com/spf13/cobra"
)

var (
	traceTicks int
	traceAxis  int
)

var axisNames = []string{"forward", "right", "up"}

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Simulate the rig offline and plot the twist angle of a joint",
	Long: `Runs the configured rig for a number of ticks without a daemon and plots
the physical twist angle of the joint next to its target angle.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(jointId) == 0 {
			return errors.New("trace requires a joint id (--id)")
		}
		if traceAxis < 0 || traceAxis > 2 {
			return fmt.Errorf("axis must be 0, 1 or 2, got %d", traceAxis)
		}

		objects, _ := loadObjects()
		if _, exists := objects.Controller.Registry().Find(jointId); !exists {
			return fmt.Errorf("no joint with id found: %s", jointId)
		}

		dt := configuration.CurrentConfig.TickRate.Seconds()
		physical := make([]float64, 0, traceTicks)
		target := make([]float64, 0, traceTicks)
		for i := 0; i < traceTicks; i++ {
			objects.Loop.RunOnce(dt)

			telemetry, ok := objects.Controller.Telemetry(jointId)
			if !ok {
				continue
			}
			physical = append(physical, telemetry.Evaluation.PhysicalAngle[traceAxis])
			target = append(target, telemetry.Evaluation.TargetAngle[traceAxis])
		}

		if len(physical) == 0 {
			ui.Printfln("No data recorded for joint %s, is simulation enabled?", jointId)
			return nil
		}

		statistics := objects.Controller.GetStatistics()
		ui.Printfln("%s: %d ticks, %d rebuilds, %d driven joints", jointId, statistics.Ticks, statistics.Rebuilds, statistics.DrivenJoints)

		caption := fmt.Sprintf("%s twist angle (°), physical vs target", axisNames[traceAxis])
		graph := asciigraph.PlotMany(
			[][]float64{physical, target},
			asciigraph.Height(15),
			asciigraph.Width(100),
			asciigraph.SeriesColors(asciigraph.Blue, asciigraph.White),
			asciigraph.Caption(caption),
		)
		ui.Printfln(graph)
		return nil
	},
}

func init() {
	traceCmd.Flags().IntVarP(&traceTicks, "ticks", "n", 300, "Number of ticks to simulate")
	traceCmd.Flags().IntVarP(&traceAxis, "axis", "a", 0, "Axis to plot (0: forward, 1: right, 2: up)")
	Command.AddCommand(traceCmd)
}
