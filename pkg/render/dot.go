// Package render draws allocation snapshots as Graphviz diagrams.
//
// Threads and resources form a bipartite digraph: hold edges are solid,
// pending requests dashed, and edges on a detected deadlock cycle are
// highlighted in red. ToDOT produces the DOT source; RenderSVG and
// RenderPNG rasterize it through Graphviz.
package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/gridlock-dev/gridlock/pkg/report"
)

// Options configures diagram rendering.
type Options struct {
	// Label is the graph title drawn under the diagram, typically the
	// scenario name. Empty means no title.
	Label string

	// Detailed appends hold/request counts to the graph label.
	Detailed bool
}

// ToDOT converts a snapshot to Graphviz DOT format. Thread nodes are boxes,
// resource nodes are ellipses; deadlocked edges are drawn bold red so
// circular waits stand out. Node and edge order follows the snapshot, which
// is already deterministic.
func ToDOT(s *report.Snapshot, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph allocation {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=14, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  nodesep=0.4;\n")
	if label := fmtLabel(s, opts); label != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=b;\n", label)
	}
	buf.WriteString("\n")

	for _, n := range s.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n), ", "))
	}

	buf.WriteString("\n")
	for _, l := range s.Links {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", l.Source, l.Target, strings.Join(linkAttrs(l), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(s *report.Snapshot, opts Options) string {
	label := opts.Label
	if !opts.Detailed {
		return label
	}
	detail := fmt.Sprintf("%d threads, %d resources, %d deadlocks",
		s.Stats.Threads, s.Stats.Resources, len(s.Deadlocks))
	if label == "" {
		return detail
	}
	return label + "\n" + detail
}

func nodeAttrs(n report.Node) []string {
	if n.Type == report.NodeResource {
		return []string{"shape=ellipse", "style=filled", "fillcolor=lightyellow"}
	}
	return []string{"shape=box", "style=\"rounded,filled\"", "fillcolor=white"}
}

func linkAttrs(l report.Link) []string {
	attrs := []string{fmt.Sprintf("label=%q", l.Type)}
	if l.Type == report.LinkWaiting {
		attrs = append(attrs, "style=dashed")
	}
	if l.Deadlock {
		attrs = append(attrs, "color=red", "fontcolor=red", "penwidth=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.PNG)
}

func renderFormat(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if format == graphviz.SVG {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the SVG root element so the diagram scales
// cleanly when embedded (viewBox anchored at the origin, explicit size).
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
