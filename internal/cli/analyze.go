package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gridlock-dev/gridlock/pkg/pipeline"
	"github.com/gridlock-dev/gridlock/pkg/report"
)

// analyzeOpts holds the command-line flags for the analyze command.
type analyzeOpts struct {
	output      string   // snapshot output path (empty = findings only)
	formats     []string // artifact formats beyond the snapshot: dot, svg, png
	detailed    bool     // stats caption on diagrams
	timeline    bool     // print the acquisition timeline table
	interactive bool     // step through the timeline in the TUI
}

// newAnalyzeCmd creates the analyze command. It loads a TOML scenario
// manifest, runs the detection pipeline, and prints the findings: every
// circular wait, its per-thread wait chain, and the recommended strategies.
func newAnalyzeCmd() *cobra.Command {
	var formatsStr string
	opts := analyzeOpts{}

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Detect deadlocks in a scenario manifest",
		Long: `Analyze loads a TOML scenario manifest, builds the allocation graph,
and reports every circular wait together with recommended strategies.

A .json argument is treated as a previously saved snapshot and is
presented without re-running the pipeline.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr, nil)
			if strings.EqualFold(filepath.Ext(args[0]), ".json") {
				return runReplay(cmd.Context(), args[0], &opts)
			}
			return runAnalyze(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the JSON snapshot to this path")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "extra artifact format(s): dot, svg, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include graph stats on rendered diagrams")
	cmd.Flags().BoolVar(&opts.timeline, "timeline", false, "print the acquisition timeline")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "step through the timeline interactively")

	return cmd
}

// runAnalyze executes the pipeline against a manifest file and presents the
// snapshot according to the selected output options.
func runAnalyze(ctx context.Context, file string, opts *analyzeOpts) error {
	logger := loggerFromContext(ctx)
	p := newProgress(logger)

	runner := pipeline.NewRunner(nil, logger)
	result, err := runner.Execute(ctx, pipeline.Options{
		ScenarioFile: file,
		Formats:      append([]string{pipeline.FormatJSON}, opts.formats...),
		Detailed:     opts.detailed,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("analyzed %s", file))

	return presentResult(ctx, result, file, presentOpts{
		output:      opts.output,
		formats:     opts.formats,
		timeline:    opts.timeline,
		interactive: opts.interactive,
	})
}

// runReplay re-presents a stored snapshot without re-running the pipeline.
// Artifact formats are not available here since rendering works from the
// pipeline run, not the saved report.
func runReplay(ctx context.Context, file string, opts *analyzeOpts) error {
	if len(opts.formats) > 0 {
		return fmt.Errorf("--format requires a scenario manifest, not a saved snapshot")
	}

	snap, err := report.ReadFile(file)
	if err != nil {
		return err
	}

	if opts.interactive {
		return runTimelineViewer(snap)
	}
	printReport(snap)
	if opts.timeline {
		fmt.Println()
		printTimeline(snap)
	}
	if opts.output != "" {
		return report.WriteFile(snap, opts.output)
	}
	return nil
}

// presentOpts controls how a pipeline result is shown and persisted. The
// analyze and simulate commands share this path so their output is identical.
type presentOpts struct {
	output      string
	formats     []string
	timeline    bool
	interactive bool
}

func presentResult(ctx context.Context, result *pipeline.Result, base string, opts presentOpts) error {
	logger := loggerFromContext(ctx)
	snap := result.Snapshot

	if opts.interactive {
		if err := runTimelineViewer(snap); err != nil {
			return err
		}
	} else {
		printReport(snap)
		if opts.timeline {
			fmt.Println()
			printTimeline(snap)
		}
	}

	if opts.output != "" {
		if err := report.WriteFile(snap, opts.output); err != nil {
			return err
		}
		logger.Infof("Wrote snapshot %s", opts.output)
	}

	return writeArtifacts(ctx, result, base, opts.formats)
}

// writeArtifacts writes each requested non-JSON artifact next to the base
// path, swapping in the format's extension.
func writeArtifacts(ctx context.Context, result *pipeline.Result, base string, formats []string) error {
	logger := loggerFromContext(ctx)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	for _, format := range formats {
		data, ok := result.Artifacts[format]
		if !ok {
			continue
		}
		path := stem + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		logger.Infof("Wrote %s", path)
	}
	return nil
}

// parseFormats parses a comma-separated --format flag. An empty flag yields
// the fallback list.
func parseFormats(s string, fallback []string) []string {
	if s == "" {
		return fallback
	}
	return strings.Split(s, ",")
}
