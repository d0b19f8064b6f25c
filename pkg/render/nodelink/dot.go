package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/drips-network/gardener-sub000/pkg/depgraph"
	"github.com/drips-network/gardener-sub000/pkg/render"
)

// Node fill colors by type.
const (
	colorPackage   = "#81d5dd"
	colorComponent = "#c6b6e5"
	colorFile      = "#e2b9c6"
	colorDefault   = "#999999"
)

// Label truncation keeps long paths and scoped package names legible.
const (
	maxLabelLength    = 25
	labelSuffixLength = 22
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed appends importance scores and package metadata to node
	// labels.
	Detailed bool

	// Limit keeps only the top N nodes by importance score (plus the
	// edges between them). Zero renders the whole graph.
	Limit int
}

// ToDOT converts a dependency graph to Graphviz DOT format.
// File, package, and component nodes are colored by type; edge labels
// carry the import identifier when present.
func ToDOT(g *depgraph.Graph, opts Options) string {
	keep := selectNodes(g, opts.Limit)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		if keep != nil {
			if _, ok := keep[n.ID]; !ok {
				continue
			}
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if keep != nil {
			if _, ok := keep[e.Source]; !ok {
				continue
			}
			if _, ok := keep[e.Target]; !ok {
				continue
			}
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.Source, e.Target, string(e.Type))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// selectNodes returns the node IDs to render, or nil for all of them.
func selectNodes(g *depgraph.Graph, limit int) map[string]struct{} {
	if limit <= 0 || g.NumNodes() <= limit {
		return nil
	}

	nodes := g.Nodes()
	sort.SliceStable(nodes, func(i, j int) bool {
		si, sj := nodes[i].Scores["importance"], nodes[j].Scores["importance"]
		if si != sj {
			return si > sj
		}
		return nodes[i].ID < nodes[j].ID
	})

	keep := make(map[string]struct{}, limit)
	for _, n := range nodes[:limit] {
		keep[n.ID] = struct{}{}
	}
	return keep
}

func nodeAttrs(n *depgraph.Node, detailed bool) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", nodeLabel(n, detailed)),
		fmt.Sprintf("fillcolor=%q", nodeColor(n)),
	}
	return attrs
}

func nodeColor(n *depgraph.Node) string {
	switch n.Type {
	case depgraph.NodePackage:
		return colorPackage
	case depgraph.NodeComponent:
		return colorComponent
	case depgraph.NodeFile:
		return colorFile
	default:
		return colorDefault
	}
}

func nodeLabel(n *depgraph.Node, detailed bool) string {
	label := truncateLabel(n.ID)
	if !detailed {
		return label
	}

	var parts []string
	if score, ok := n.Scores["importance"]; ok {
		parts = append(parts, fmt.Sprintf("importance: %.4f", score))
	}
	switch n.Type {
	case depgraph.NodePackage:
		if n.Ecosystem != "" {
			parts = append(parts, "ecosystem: "+n.Ecosystem)
		}
	case depgraph.NodeComponent:
		if n.Package != "" {
			parts = append(parts, "package: "+n.Package)
		}
	case depgraph.NodeFile:
		parts = append(parts, "language: "+n.Language.String())
	}
	if len(parts) == 0 {
		return label
	}
	return label + "\n" + strings.Join(parts, "\n")
}

// truncateLabel shortens long node IDs, keeping the tail since path
// and package name endings carry the distinguishing part.
func truncateLabel(id string) string {
	if len(id) <= maxLabelLength {
		return id
	}
	return "..." + id[len(id)-labelSuffixLength:]
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
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
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

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

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPNG].
//
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
