// Package render provides visualization rendering for dependency graphs.
//
// # Overview
//
// This package contains the rendering pipeline that transforms dependency
// graphs into visual outputs. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Node-link diagrams (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg, err := nodelink.RenderSVG(dot)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders directed graph diagrams using
// Graphviz. Files, packages, and components appear as colored boxes
// connected by typed edges.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// [nodelink]: github.com/drips-network/gardener-sub000/pkg/render/nodelink
package render
