package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gridlock-dev/gridlock/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file (single format) or base path (multiple)
	formats  []string // output formats: dot, svg, png
	detailed bool     // stats caption on the diagram
}

// newRenderCmd creates the render command for generating wait-for diagrams
// from a scenario manifest. Deadlocked edges are drawn red so a circular
// wait stands out at a glance.
func newRenderCmd() *cobra.Command {
	var formatsStr string
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a scenario's wait-for diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr, []string{pipeline.FormatSVG})
			if err := validateRenderFormats(opts.formats); err != nil {
				return err
			}
			return runRenderCmd(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include graph stats on the diagram")

	return cmd
}

// validateRenderFormats rejects formats the render command cannot write.
// The JSON snapshot belongs to analyze, not render.
func validateRenderFormats(formats []string) error {
	for _, f := range formats {
		switch f {
		case pipeline.FormatDOT, pipeline.FormatSVG, pipeline.FormatPNG:
		default:
			return fmt.Errorf("invalid format: %q (must be 'dot', 'svg', or 'png')", f)
		}
	}
	return nil
}

func runRenderCmd(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	runner := pipeline.NewRunner(nil, logger)
	result, err := runner.Execute(ctx, pipeline.Options{
		ScenarioFile: input,
		Formats:      opts.formats,
		Detailed:     opts.detailed,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	if result.Snapshot.Deadlocked() {
		logger.Warnf("Scenario contains %d deadlock(s)", len(result.Snapshot.Deadlocks))
	}

	base := renderBasePath(opts.output, input)
	for _, format := range opts.formats {
		path := base + "." + format
		if len(opts.formats) == 1 && opts.output != "" {
			path = opts.output
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		logger.Infof("Generated %s", path)
	}
	return nil
}

// renderBasePath derives the extensionless base output path. An empty output
// falls back to the input manifest's path with its extension stripped.
func renderBasePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	switch strings.TrimPrefix(ext, ".") {
	case pipeline.FormatDOT, pipeline.FormatSVG, pipeline.FormatPNG:
		return strings.TrimSuffix(output, ext)
	}
	return output
}
