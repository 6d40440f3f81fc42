package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/famtree/pkg/cluster"
	"github.com/matzehuels/famtree/pkg/tree"
)

// Options configures node-link diagram rendering.
type Options struct {
	// MaxDepth limits the levels drawn below the root; 0 draws everything.
	MaxDepth int

	// Detailed adds the spouse and scripture references to node labels.
	Detailed bool
}

// ToDOT converts a compiled tree to Graphviz DOT source.
// Output is deterministic for a given tree and options.
func ToDOT(root *tree.Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	w := dotWriter{buf: &buf, opts: opts}
	if root != nil {
		w.node(root, 0, "")
	}

	if len(w.edges) > 0 {
		buf.WriteString("\n")
		for _, e := range w.edges {
			fmt.Fprintf(&buf, "  %s -> %s;\n", e[0], e[1])
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

type dotWriter struct {
	buf   *bytes.Buffer
	opts  Options
	next  int
	edges [][2]string
}

// node writes n and its visible descendants in pre-order, linking n to the
// DOT node named parent when one is given.
func (w *dotWriter) node(n *tree.Node, depth int, parent string) {
	name := w.name()
	if parent != "" {
		w.edges = append(w.edges, [2]string{parent, name})
	}
	fmt.Fprintf(w.buf, "  %s [%s];\n", name, strings.Join(fmtAttrs(n, fmtLabel(n, w.opts.Detailed)), ", "))

	if w.opts.MaxDepth > 0 && depth >= w.opts.MaxDepth {
		if hidden := n.Count() - 1; hidden > 0 {
			more := w.name()
			fmt.Fprintf(w.buf, "  %s [label=%q, style=\"rounded,dashed\", fontcolor=grey40];\n", more, fmt.Sprintf("+%d more", hidden))
			w.edges = append(w.edges, [2]string{name, more})
		}
		return
	}

	for _, c := range n.Children {
		w.node(c, depth+1, name)
	}
}

func (w *dotWriter) name() string {
	name := "n" + strconv.Itoa(w.next)
	w.next++
	return name
}

func fmtLabel(n *tree.Node, detailed bool) string {
	if !detailed {
		return n.Name
	}

	parts := []string{n.Name}
	if n.Spouse != "" {
		parts = append(parts, "spouse: "+n.Spouse)
	}
	if len(n.Refs) > 0 {
		parts = append(parts, strings.Join(n.Refs, "; "))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n *tree.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.Tooltip != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", n.Tooltip))
	}

	switch {
	case strings.HasPrefix(n.ID, cluster.IDPrefix):
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	case n.MessiahLine:
		attrs = append(attrs, "fillcolor=gold")
	case n.Levitical:
		attrs = append(attrs, "fillcolor=lightblue")
	}
	if n.Judge {
		attrs = append(attrs, "peripheries=2")
	}
	return attrs
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

// normalizeViewBox replaces the Graphviz svg tag with one whose viewBox starts
// at the origin, so the diagram scales cleanly when embedded.
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

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
