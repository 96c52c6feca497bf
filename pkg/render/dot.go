// Package render draws the search graph of a trapezoidal map with Graphviz.
package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/0x0FACED/go-trapmap/pkg/trapmap"
)

type Options struct {
	// Detailed adds the trapezoid corners to leaf labels.
	Detailed bool
}

// ToDOT converts the search graph to Graphviz DOT. X-splits are ellipses,
// segment splits boxes and leaves notes. Nodes shared by several parents are
// written once.
func ToDOT(s *trapmap.Structure, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=12, fontname=\"monospace\", style=filled, fillcolor=white];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	var edges []string
	s.Walk(func(n trapmap.Node) bool {
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.ID, strings.Join(nodeAttrs(s, n, opts), ", "))
		switch n.Kind {
		case trapmap.KindXSplit:
			edges = append(edges,
				fmt.Sprintf("  n%d -> n%d [label=\"<\"];\n", n.ID, n.Left),
				fmt.Sprintf("  n%d -> n%d [label=\">=\"];\n", n.ID, n.Right),
			)
		case trapmap.KindSegmentSplit:
			edges = append(edges,
				fmt.Sprintf("  n%d -> n%d [label=\"above\"];\n", n.ID, n.Left),
				fmt.Sprintf("  n%d -> n%d [label=\"below\"];\n", n.ID, n.Right),
			)
		}
		return true
	})

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(s *trapmap.Structure, n trapmap.Node, opts Options) []string {
	switch n.Kind {
	case trapmap.KindXSplit:
		return []string{
			fmt.Sprintf("label=%q", fmt.Sprintf("x %v", n.Endpoint)),
			"shape=ellipse",
			"fillcolor=\"#e8f1fb\"",
		}
	case trapmap.KindSegmentSplit:
		return []string{
			fmt.Sprintf("label=%q", n.Segment.String()),
			"shape=box",
			"fillcolor=\"#fdf3e1\"",
		}
	}

	label := fmt.Sprintf("T%d", n.Trapezoid)
	if opts.Detailed {
		t := s.Trapezoid(n.Trapezoid)
		label += fmt.Sprintf("\nface %d", t.Face())
		for _, c := range t.Corners() {
			label += "\n" + c.String()
		}
	}
	return []string{fmt.Sprintf("label=%q", label), "shape=note"}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
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
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox drops the point-based size Graphviz writes so the SVG
// scales with its container.
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

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="100%%">`, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
