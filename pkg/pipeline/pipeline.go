// Package pipeline runs the complete analysis pipeline for Gridlock.
//
// The pipeline has three stages shared by the CLI and the HTTP API:
//
//  1. Build: resolve a scenario (manifest file, inline value, or demo
//     generator) into a validated allocation graph
//  2. Analyze: detect cycles, classify deadlocks, recommend strategies
//  3. Render: produce output artifacts (JSON snapshot, DOT, SVG, PNG)
//
// Centralizing the stages keeps behavior identical across entry points.
//
// # Usage
//
//	runner := pipeline.NewRunner(store, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Demo:      pipeline.DemoCircular,
//	    Threads:   2,
//	    Resources: 2,
//	    Formats:   []string{pipeline.FormatJSON},
//	})
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gridlock-dev/gridlock/pkg/scenario"
)

// Demo generator names accepted by Options.Demo.
const (
	DemoCircular = "circular"
	DemoRandom   = "random"
)

// Format constants for output artifacts.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported artifact formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// Defaults applied by ValidateAndSetDefaults.
const (
	// DefaultThreads and DefaultResources shape the demo generators when
	// counts are omitted - the textbook two-thread AB/BA deadlock.
	DefaultThreads   = 2
	DefaultResources = 2

	// DefaultSeed keeps random demo scenarios reproducible by default.
	DefaultSeed = int64(42)
)

// Options configures one pipeline run. Exactly one scenario source must be
// set: ScenarioFile, Scenario, or Demo. This struct supports JSON
// serialization for API requests.
type Options struct {
	// Scenario sources
	ScenarioFile string             `json:"scenario_file,omitempty"` // TOML manifest path
	Scenario     *scenario.Scenario `json:"scenario,omitempty"`      // inline scenario
	Demo         string             `json:"demo,omitempty"`          // circular or random
	Threads      int                `json:"thread_count,omitempty"`  // demo thread count
	Resources    int                `json:"resource_count,omitempty"`
	Seed         int64              `json:"seed,omitempty"` // random demo seed

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // stats caption on diagrams

	// Store options
	TTL time.Duration `json:"ttl,omitempty"` // snapshot retention

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks the scenario source and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	sources := 0
	if o.ScenarioFile != "" {
		sources++
	}
	if o.Scenario != nil {
		sources++
	}
	if o.Demo != "" {
		sources++
	}
	switch {
	case sources == 0:
		return fmt.Errorf("scenario source is required (file, inline scenario, or demo)")
	case sources > 1:
		return fmt.Errorf("exactly one scenario source may be set")
	}

	if o.Demo != "" && o.Demo != DemoCircular && o.Demo != DemoRandom {
		return fmt.Errorf("invalid demo: %q (must be one of: circular, random)", o.Demo)
	}
	if o.Threads < 0 || o.Resources < 0 {
		return fmt.Errorf("thread and resource counts must be positive")
	}
	if o.Threads == 0 {
		o.Threads = DefaultThreads
	}
	if o.Resources == 0 {
		o.Resources = DefaultResources
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	for _, f := range o.Formats {
		if !ValidFormats[f] {
			return fmt.Errorf("invalid format: %q (must be one of: json, dot, svg, png)", f)
		}
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}
