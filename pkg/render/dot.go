package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/archgen/archgen/pkg/plan"
	"github.com/archgen/archgen/pkg/theme"
)

// ToDOT converts a canonical plan to Graphviz DOT for quick structural
// previews. Colors follow the theme's type table; groups become clusters.
// The full diagram pipeline does not depend on this path.
func ToDOT(p plan.Plan, th *theme.Theme) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	grouped := make(map[string]bool, len(p.Nodes))
	for _, g := range p.Groups {
		members := p.Members(g.ID)
		if len(members) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "  subgraph \"cluster_%s\" {\n", g.ID)
		fmt.Fprintf(&buf, "    label=%q;\n", g.Name)
		if g.Style == plan.GroupStyleDashed {
			buf.WriteString("    style=dashed;\n")
		}
		for _, n := range members {
			grouped[n.ID] = true
			fmt.Fprintf(&buf, "    %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, th), ", "))
		}
		buf.WriteString("  }\n")
	}

	for _, n := range p.Nodes {
		if grouped[n.ID] {
			continue
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, th), ", "))
	}

	buf.WriteString("\n")
	for _, e := range p.Edges {
		if e.Label != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q, fontsize=10];\n", e.From, e.To, e.Label)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n plan.Node, th *theme.Theme) []string {
	ts := th.TypeStyle(n.Type)
	if n.External {
		ts = th.TypeStyle("external")
	}
	attrs := []string{
		fmt.Sprintf("label=%q", n.Name),
		fmt.Sprintf("fillcolor=%q", ts.Fill),
		fmt.Sprintf("color=%q", ts.Stroke),
	}
	if ts.Shape == theme.ShapeCylinder {
		attrs = append(attrs, "shape=cylinder")
	}
	if ts.Shape == theme.ShapeHexagon {
		attrs = append(attrs, "shape=hexagon")
	}
	if ts.Dashed {
		attrs = append(attrs, `style="rounded,filled,dashed"`)
	}
	return attrs
}

// PreviewPNG lays the DOT graph out with Graphviz and renders it to PNG.
func PreviewPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
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
	return buf.Bytes(), nil
}
