package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treedot/pkg/mesh"
)

// bboxCommand creates the bbox command.
func (c *CLI) bboxCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bbox <mesh.stl>",
		Short: "Print the bounding box of a binary STL mesh",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return []string{"stl"}, cobra.ShellCompDirectiveFilterFileExt
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c.Logger.Debug("loading mesh", "path", args[0])
			return runBBox(args[0])
		},
	}
}

func runBBox(path string) error {
	m, err := mesh.LoadSTL(path)
	if err != nil {
		return err
	}
	box, err := m.BoundingBox()
	if err != nil {
		return err
	}

	printSuccess("Mesh %s", StyleHighlight.Render(path))
	printKeyValue("Triangles", strconv.Itoa(len(m.Triangles)))
	printKeyValue("Min", formatVector(box.Min))
	printKeyValue("Max", formatVector(box.Max))
	printKeyValue("Size", formatVector(box.Size()))
	printKeyValue("Center", formatVector(box.Center()))
	return nil
}

func formatVector(v mesh.Vector) string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}
