package cli

import (
	"reflect"
	"testing"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		fallback []string
		want     []string
	}{
		{name: "empty uses fallback", input: "", fallback: []string{"svg"}, want: []string{"svg"}},
		{name: "empty with nil fallback", input: "", fallback: nil, want: nil},
		{name: "single", input: "dot", want: []string{"dot"}},
		{name: "multiple", input: "dot,svg,png", want: []string{"dot", "svg", "png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input, tt.fallback)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateRenderFormats(t *testing.T) {
	if err := validateRenderFormats([]string{"dot", "svg", "png"}); err != nil {
		t.Errorf("valid formats rejected: %v", err)
	}
	if err := validateRenderFormats([]string{"svg", "pdf"}); err == nil {
		t.Error("pdf should be rejected")
	}
	if err := validateRenderFormats([]string{"json"}); err == nil {
		t.Error("json should be rejected by render")
	}
}

func TestRenderBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{name: "derive from input", output: "", input: "scenarios/ring.toml", want: "scenarios/ring"},
		{name: "strip format extension", output: "out/diagram.svg", input: "ring.toml", want: "out/diagram"},
		{name: "keep plain output", output: "out/diagram", input: "ring.toml", want: "out/diagram"},
		{name: "keep unknown extension", output: "out/diagram.v2", input: "ring.toml", want: "out/diagram.v2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderBasePath(tt.output, tt.input); got != tt.want {
				t.Errorf("renderBasePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}
