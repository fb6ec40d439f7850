// Package render turns a solved ordering into a Graphviz picture of the
// tour: strips as boxes in optimal sequence, arrows labeled with the seam
// cost each transition pays, and the depot as a small point closing the
// cycle.
package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/seamline/pkg/strip"
)

// Options configures tour rendering.
type Options struct {
	// ShowDepot includes the synthetic depot node and its zero-cost
	// edges, making the closed-cycle formulation visible.
	ShowDepot bool
}

// ToDOT converts an ordering and its cost matrix to Graphviz DOT format.
// The resulting DOT string can be rendered with [RenderSVG] or [RenderPNG].
func ToDOT(order []int, costs strip.CostMatrix, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph tour {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=20, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=14];\n")
	buf.WriteString("\n")

	if opts.ShowDepot {
		buf.WriteString("  depot [shape=point, width=0.15];\n")
	}
	for _, node := range order {
		fmt.Fprintf(&buf, "  s%d [label=\"strip %d\"];\n", node, node)
	}

	buf.WriteString("\n")
	if opts.ShowDepot && len(order) > 0 {
		fmt.Fprintf(&buf, "  depot -> s%d [style=dashed, label=\"0\"];\n", order[0])
	}
	for i := 0; i+1 < len(order); i++ {
		from, to := order[i], order[i+1]
		fmt.Fprintf(&buf, "  s%d -> s%d [label=\"%d\"];\n", from, to, costs.Cost(from, to))
	}
	if opts.ShowDepot && len(order) > 0 {
		fmt.Fprintf(&buf, "  s%d -> depot [style=dashed, label=\"0\"];\n", order[len(order)-1])
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.SVG, true)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.PNG, false)
}

func renderFormat(dot string, format graphviz.Format, normalize bool) ([]byte, error) {
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
	if normalize {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the SVG root element to a zero-origin viewBox
// with explicit dimensions, which embeds more predictably.
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
