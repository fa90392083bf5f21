package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gridlock-dev/gridlock/pkg/detect"
	"github.com/gridlock-dev/gridlock/pkg/lockgraph"
	"github.com/gridlock-dev/gridlock/pkg/remedy"
	"github.com/gridlock-dev/gridlock/pkg/render"
	"github.com/gridlock-dev/gridlock/pkg/report"
	"github.com/gridlock-dev/gridlock/pkg/scenario"
	"github.com/gridlock-dev/gridlock/pkg/store"
)

// Result contains the outputs of one pipeline run.
type Result struct {
	// Snapshot is the assembled analysis report.
	Snapshot *report.Snapshot

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Threads    int
	Resources  int
	Deadlocks  int
	BuildTime  time.Duration
	DetectTime time.Duration
	RenderTime time.Duration
}

// Runner executes the analysis pipeline and publishes snapshots to a store.
//
// The Runner holds no per-run state - each Execute call builds its own graph
// and snapshot - so a single Runner can serve concurrent requests.
type Runner struct {
	Store  store.Store
	Logger *log.Logger
}

// NewRunner creates a runner. A nil store is replaced with an in-memory
// store; a nil logger with the default logger.
func NewRunner(s store.Store, logger *log.Logger) *Runner {
	if s == nil {
		s = store.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Store: s, Logger: logger}
}

// Execute runs the complete build → analyze → render pipeline and stores
// the resulting snapshot under its run ID.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger

	// Stage 1: Build
	buildStart := time.Now()
	scen, err := resolveScenario(opts)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	g, err := scen.Build()
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	buildTime := time.Since(buildStart)

	logger.Info("built allocation graph",
		"scenario", scen.Name,
		"threads", g.ThreadCount(),
		"resources", g.ResourceCount(),
		"duration", buildTime)

	// Stage 2: Analyze
	detectStart := time.Now()
	snap := Analyze(g, scen)
	detectTime := time.Since(detectStart)

	logger.Info("analyzed wait-for graph",
		"deadlocks", len(snap.Deadlocks),
		"strategies", len(snap.Strategies),
		"duration", detectTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, err := r.renderArtifacts(snap, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	renderTime := time.Since(renderStart)

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", renderTime)

	if err := r.Store.Set(ctx, snap, opts.TTL); err != nil {
		return nil, fmt.Errorf("store snapshot: %w", err)
	}

	return &Result{
		Snapshot:  snap,
		Artifacts: artifacts,
		Stats: Stats{
			Threads:    g.ThreadCount(),
			Resources:  g.ResourceCount(),
			Deadlocks:  len(snap.Deadlocks),
			BuildTime:  buildTime,
			DetectTime: detectTime,
			RenderTime: renderTime,
		},
	}, nil
}

// Analyze runs detection, classification and recommendation over a built
// graph and assembles the snapshot. It is exported for callers that already
// have a graph and do not need artifact rendering or storage.
func Analyze(g *lockgraph.Graph, scen scenario.Scenario) *report.Snapshot {
	deadlocks := detect.ClassifyAll(detect.FindAllCycles(g))
	strategies := remedy.Recommend(deadlocks, g.Stats())
	return report.Build(g, scen.Name, scen.Timeline(), deadlocks, strategies)
}

func resolveScenario(opts Options) (scenario.Scenario, error) {
	switch {
	case opts.ScenarioFile != "":
		return scenario.Load(opts.ScenarioFile)
	case opts.Scenario != nil:
		return *opts.Scenario, nil
	case opts.Demo == DemoRandom:
		rng := rand.New(rand.NewSource(opts.Seed))
		return scenario.Random(rng, opts.Threads, opts.Resources), nil
	default:
		return scenario.Circular(opts.Threads, opts.Resources), nil
	}
}

func (r *Runner) renderArtifacts(snap *report.Snapshot, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string
	for _, format := range opts.Formats {
		switch format {
		case FormatJSON:
			data, err := report.Marshal(snap)
			if err != nil {
				return nil, fmt.Errorf("marshal snapshot: %w", err)
			}
			artifacts[FormatJSON] = data
			continue
		}

		if dot == "" {
			dot = render.ToDOT(snap, render.Options{Label: snap.Scenario, Detailed: opts.Detailed})
		}
		switch format {
		case FormatDOT:
			artifacts[FormatDOT] = []byte(dot)
		case FormatSVG:
			svg, err := render.RenderSVG(dot)
			if err != nil {
				return nil, fmt.Errorf("render svg: %w", err)
			}
			artifacts[FormatSVG] = svg
		case FormatPNG:
			png, err := render.RenderPNG(dot)
			if err != nil {
				return nil, fmt.Errorf("render png: %w", err)
			}
			artifacts[FormatPNG] = png
		}
	}
	return artifacts, nil
}
