package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wiresep/pkg/declutter"
	"github.com/matzehuels/wiresep/pkg/diagram"
)

// inspectCommand creates the inspect command, a debugging view of what a
// declutter pass sees.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		axis       string
		separation float64
	)

	cmd := &cobra.Command{
		Use:   "inspect [snapshot.json]",
		Short: "Show the lines and clusters of one axis",
		Long: `Show the lines and clusters of one axis without moving anything.

Every non-zero wire segment and symbol edge of the axis is listed with its
coordinate, extent and type. Below that, each cluster lists its members, the
barriers that bound it and the coordinate each member would move to.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := diagram.ParseOrientation(axis)
			if err != nil {
				return err
			}
			opts := c.Config.Declutter
			if cmd.Flags().Changed("separation") {
				opts.MaxSegmentSeparation = separation
			}

			d, err := readSnapshot(args[0])
			if err != nil {
				return fmt.Errorf("load snapshot %s: %w", args[0], err)
			}
			dump, err := declutter.Inspect(d, o, opts)
			if err != nil {
				return err
			}
			printAxisDump(dump)
			return nil
		},
	}

	cmd.Flags().StringVarP(&axis, "axis", "a", "h", "axis to inspect: h (horizontal) or v (vertical)")
	cmd.Flags().Float64VarP(&separation, "separation", "s", 0, "segment separation (default from config)")

	return cmd
}

func printAxisDump(dump declutter.AxisDump) {
	printInfo("%s axis: %s lines, %s clusters",
		StyleTitle.Render(dump.Orientation.String()),
		StyleNumber.Render(strconv.Itoa(len(dump.Lines))),
		StyleNumber.Render(strconv.Itoa(len(dump.Clusters))))
	printNewline()

	fmt.Println(linesTable(dump.Lines).Render())
	if len(dump.Clusters) == 0 {
		printDetail("nothing to spread")
		return
	}
	printNewline()
	fmt.Println(clustersTable(dump).Render())
}

func newTable(headers ...string) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func linesTable(lines []declutter.Line) *table.Table {
	t := newTable("Line", "P", "Extent", "Type", "Wire", "Seg", "Links")
	for _, l := range lines {
		wire, seg := "—", "—"
		if l.Seg != nil {
			wire = string(l.Seg.WireID)
			seg = strconv.Itoa(l.Seg.Index)
		}
		links := ""
		if len(l.Links) > 0 {
			links = fmt.Sprint(l.Links)
		}
		t.Row(
			fmt.Sprintf("L%d", l.ID),
			fmt.Sprintf("%.2f", l.P),
			l.B.String(),
			typeStyle(l.LType).Render(l.LType.String()),
			wire, seg, links,
		)
	}
	return t
}

func clustersTable(dump declutter.AxisDump) *table.Table {
	t := newTable("#", "Members", "Lower", "Upper", "Targets")
	fix := func(f *float64) string {
		if f == nil {
			return "—"
		}
		return fmt.Sprintf("%.2f", *f)
	}
	for i, cl := range dump.Clusters {
		members := ""
		for j, id := range cl.Segments {
			if j > 0 {
				members += " "
			}
			members += fmt.Sprintf("L%d", id)
		}
		targets := ""
		for j, pl := range dump.Placements[i] {
			if j > 0 {
				targets += " "
			}
			targets += fmt.Sprintf("L%d→%.2f", pl.Line, pl.P)
		}
		t.Row(strconv.Itoa(i), members, fix(cl.LowerFix), fix(cl.UpperFix), targets)
	}
	return t
}

func typeStyle(t declutter.LType) lipgloss.Style {
	switch t {
	case declutter.NormSeg:
		return StyleSuccess
	case declutter.FixedSeg, declutter.FixedManualSeg:
		return StyleWarning
	case declutter.LinkedSeg:
		return StyleDim
	}
	return StyleValue
}
