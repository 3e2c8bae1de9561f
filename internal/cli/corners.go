package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wiresep/pkg/corner"
	"github.com/matzehuels/wiresep/pkg/diagram"
	wireio "github.com/matzehuels/wiresep/pkg/io"
)

// cornersCommand creates the corners command.
func (c *CLI) cornersCommand() *cobra.Command {
	var (
		output     string
		apply      bool
		cornerSize float64
	)

	cmd := &cobra.Command{
		Use:   "corners [snapshot.json]",
		Short: "List or remove small corner detours",
		Long: `List or remove small corner detours.

A corner is a short step in a wire's path: two short legs between two longer
parallel runs. Without --apply the corners that would be removed are listed.
With --apply each one is straightened and the result is written out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.Config.Corners.Options()
			if cmd.Flags().Changed("corner-size") {
				opts.MaxCornerSize = cornerSize
			}
			if err := opts.Validate(); err != nil {
				return err
			}

			d, err := readSnapshot(args[0])
			if err != nil {
				return fmt.Errorf("load snapshot %s: %w", args[0], err)
			}
			wires, corners, err := corner.Simplify(d.Wires, d.Symbols, opts)
			if err != nil {
				return err
			}

			if !apply {
				printCorners(corners)
				return nil
			}
			out := outputPath(output, args[0], "corners")
			result := diagram.Diagram{Wires: wires, Symbols: d.Symbols}
			if err := wireio.ExportJSON(result, out); err != nil {
				return fmt.Errorf("write output %s: %w", out, err)
			}
			printSuccess("Removed %d corners", len(corners))
			printFile(out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "remove the corners and write the result")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.corners.json)")
	cmd.Flags().Float64Var(&cornerSize, "corner-size", 0, "largest corner leg to remove (default from config)")

	return cmd
}

func printCorners(corners []corner.WireCorner) {
	if len(corners) == 0 {
		printInfo("No corners found")
		return
	}
	t := newTable("Wire", "Segments", "Start", "Start Δ", "End Δ")
	for _, wc := range corners {
		t.Row(
			string(wc.WireID),
			fmt.Sprintf("%d–%d", wc.StartSeg, wc.EndSeg),
			wc.StartOrientation.String(),
			strconv.FormatFloat(wc.StartDelta, 'f', 2, 64),
			strconv.FormatFloat(wc.EndDelta, 'f', 2, 64),
		)
	}
	fmt.Println(t.Render())
	printDetail("%d corners; run with --apply to remove them", len(corners))
}
