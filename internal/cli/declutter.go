package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	wireio "github.com/matzehuels/wiresep/pkg/io"
	"github.com/matzehuels/wiresep/pkg/pipeline"
)

// declutterOpts holds the command-line flags for the declutter command.
type declutterOpts struct {
	output     string
	separation float64
	corners    bool
	cornerSize float64
	noCache    bool
	refresh    bool
}

// declutterCommand creates the declutter command.
func (c *CLI) declutterCommand() *cobra.Command {
	var opts declutterOpts

	cmd := &cobra.Command{
		Use:   "declutter [snapshot.json]",
		Short: "Spread overlapping wire segments in a snapshot",
		Long: `Spread overlapping wire segments in a snapshot.

Horizontal segments are separated first, then vertical ones. Segments next to
a pin stub, user-placed segments and symbol edges stay where they are and
bound the spreading. With --corners, small step detours left behind are
straightened afterwards.

Use "-" to read the snapshot from standard input. Results are cached.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, err := c.declutterOptions(cmd, opts)
			if err != nil {
				return err
			}
			return c.runDeclutter(cmd.Context(), args[0], opts, popts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file, "-" for stdout (default: <input>.decluttered.json)`)
	cmd.Flags().Float64VarP(&opts.separation, "separation", "s", 0, "segment separation (default from config)")
	cmd.Flags().BoolVar(&opts.corners, "corners", false, "remove small corner detours after separating")
	cmd.Flags().Float64Var(&opts.cornerSize, "corner-size", 0, "largest corner leg to remove (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if a cached result exists")

	return cmd
}

// declutterOptions layers changed flags over the loaded config.
func (c *CLI) declutterOptions(cmd *cobra.Command, opts declutterOpts) (pipeline.Options, error) {
	popts := c.pipelineOptions()
	flags := cmd.Flags()
	if flags.Changed("separation") {
		popts.Declutter.MaxSegmentSeparation = opts.separation
	}
	if flags.Changed("corners") {
		popts.Corners = opts.corners
	}
	if flags.Changed("corner-size") {
		popts.MaxCornerSize = opts.cornerSize
	}
	popts.Refresh = opts.refresh
	return popts, popts.ValidateAndSetDefaults()
}

// runDeclutter loads the snapshot, runs the pipeline, and writes output.
func (c *CLI) runDeclutter(ctx context.Context, input string, opts declutterOpts, popts pipeline.Options) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	d, err := readSnapshot(input)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, d, popts)
	if err != nil {
		return fmt.Errorf("declutter: %w", err)
	}
	prog.done(fmt.Sprintf("Decluttered %d wires", len(d.Wires)))

	out := opts.output
	if out == "" && input == "-" {
		out = "-"
	}
	if out == "-" {
		return wireio.WriteJSON(result.Diagram, os.Stdout)
	}
	out = outputPath(out, input, "decluttered")
	if err := wireio.ExportJSON(result.Diagram, out); err != nil {
		return fmt.Errorf("write output %s: %w", out, err)
	}

	printSuccess("Declutter complete")
	printFile(out)
	printRunStats(result)
	for _, m := range result.Warnings {
		printWarning("%s", m)
	}
	return nil
}
