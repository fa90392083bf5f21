package scenario

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Parse decodes a TOML scenario manifest.
//
// The format declares nodes up front and edges as tables:
//
//	name = "ab-ba"
//	threads = ["T1", "T2"]
//	resources = ["R1", "R2"]
//
//	[[hold]]
//	thread = "T1"
//	resource = "R1"
//
//	[[request]]
//	thread = "T1"
//	resource = "R2"
//
// Parse only checks TOML syntax; referential integrity is enforced when the
// scenario is built into a graph.
func Parse(data []byte) (Scenario, error) {
	var s Scenario
	if err := toml.Unmarshal(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario: %w", err)
	}
	return s, nil
}

// Load reads and parses a TOML scenario manifest from disk.
func Load(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
