package cmd

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/markusressel/jointdrive/cmd/global"
	"github.com/markusressel/jointdrive/internal"
	"github.com/markusressel/jointdrive/internal/configuration"
	"github.com/markusressel/jointdrive/internal/ui"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var rigCmd = &cobra.Command{
	Use:   "rig",
	Short: "Print the bone hierarchy of the configured rig",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		global.LoadConfig()

		rigConfig := configuration.CurrentConfig.Rig
		ui.Printfln("> %s", rigConfig.ID)

		rig, err := internal.CreateRig(rigConfig)
		if err != nil {
			return err
		}

		var rows [][]string
		for _, bone := range rigConfig.Bones {
			parent := "-"
			if len(bone.Parent) > 0 {
				parent = bone.Parent
			}
			component := "-"
			if transform, ok := rig.ComponentSpaceTransform(rig.FindBoneIndex(bone.Name)); ok {
				component = formatVec(transform.Translation)
			}
			mass := "-"
			inertia := "-"
			if bone.Body != nil {
				mass = fmt.Sprintf("%.2f", bone.Body.Mass)
				inertia = formatVec(bone.Body.Inertia)
			}
			rows = append(rows, []string{
				bone.Name, parent, depthMarker(rigConfig, bone.Name), formatVec(bone.Translation), formatVec(bone.Rotation), component, mass, inertia,
			})
		}

		tableString, err := global.RenderTable(table.Table{
			Headers: []string{"Bone", "Parent", "Depth", "Translation", "Rotation", "Component", "Mass", "Inertia"},
			Rows:    rows,
		})
		if err != nil {
			return err
		}
		ui.Printfln(tableString)
		return nil
	},
}

func formatVec(v mgl64.Vec3) string {
	return fmt.Sprintf("%.2f, %.2f, %.2f", v.X(), v.Y(), v.Z())
}

// depthMarker indents a bone by its distance to the root
func depthMarker(rig configuration.RigConfig, name string) string {
	marker := ""
	current := rig.FindBone(name)
	for steps := 0; current != nil && len(current.Parent) > 0 && steps < len(rig.Bones); steps++ {
		marker += "·"
		current = rig.FindBone(current.Parent)
	}
	return marker + "●"
}

func init() {
	rootCmd.AddCommand(rigCmd)
}
