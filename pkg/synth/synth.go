// Package synth turns a canonical plan and its layout into a diagram
// document.
//
// Synthesis is pure assembly: geometry comes from the layout, colors and
// shape kinds from the theme, and the output is a document in paint order
// (title, lane stripes, groups, nodes, edges, legend). Shape ids are derived
// from plan ids with stable prefixes so regenerations of the same plan are
// byte-identical.
package synth

import (
	"fmt"

	"github.com/archgen/archgen/pkg/document"
	"github.com/archgen/archgen/pkg/layout"
	"github.com/archgen/archgen/pkg/plan"
	"github.com/archgen/archgen/pkg/theme"
)

// Font colors chosen against a fill's luminance.
const (
	fontLight = "#FFFFFF"
	fontDark  = "#333333"

	// fills at or above this luminance take the dark font. The validator
	// classifies fills with the same constant, so synthesized output always
	// satisfies its contrast checks.
	contrastThreshold = 0.45
)

const edgeStroke = "#5A6B7B"

// legend geometry
const (
	legendEntryW  = 110.0
	legendSwatch  = 14.0
	legendEntries = 4
)

// Build assembles the diagram document for a laid-out plan.
func Build(p plan.Plan, l layout.Layout, th *theme.Theme) *document.Document {
	d := &document.Document{Width: l.Width, Height: l.Height}

	addTitle(d, p.Title)
	addLanes(d, l, th)
	addGroups(d, p, l)
	addNodes(d, p, l, th)
	addEdges(d, p, l)
	if p.Legend && len(l.Lanes) > 0 {
		addLegend(d, l, th)
	}
	return d
}

func addTitle(d *document.Document, title string) {
	if title == "" {
		return
	}
	d.Shapes = append(d.Shapes, document.Shape{
		ID: "title", Kind: document.KindLabel, Label: title,
		X: 0, Y: 10, W: d.Width, H: 30,
		Style: document.NewStyle(
			"text", "1",
			"html", "1",
			"fontSize", "18",
			"fontStyle", "1",
			"align", "center",
			"fontColor", "#2C3E50",
		),
	})
}

// addLanes emits one translucent stripe plus one left-edge label per lane.
func addLanes(d *document.Document, l layout.Layout, th *theme.Theme) {
	for i, band := range l.Lanes {
		colors := th.LaneColors(band.Name)
		d.Shapes = append(d.Shapes, document.Shape{
			ID:   fmt.Sprintf("lane_%d", i),
			Kind: document.KindRectangle,
			X:    band.Rect.X, Y: band.Rect.Y, W: band.Rect.W, H: band.Rect.H,
			Style: document.NewStyle(
				"rounded", "0",
				"fillColor", colors.Background,
				"strokeColor", colors.Stroke,
				"opacity", "40",
			),
		})
		d.Shapes = append(d.Shapes, document.Shape{
			ID:    fmt.Sprintf("lanelbl_%d", i),
			Kind:  document.KindLabel,
			Label: band.Name,
			X:     band.Rect.X + 10, Y: band.Rect.Y + 10, W: 160, H: 20,
			Style: document.NewStyle(
				"text", "1",
				"html", "1",
				"fontSize", "13",
				"fontStyle", "1",
				"align", "left",
				"fontColor", colors.Fill,
			),
		})
	}
}

func addGroups(d *document.Document, p plan.Plan, l layout.Layout) {
	for _, g := range p.Groups {
		r, ok := l.Groups[g.ID]
		if !ok {
			continue
		}
		st := document.NewStyle(
			"rounded", "1",
			"fillColor", "none",
			"strokeColor", "#666666",
			"verticalAlign", "top",
			"fontSize", "12",
			"fontColor", "#666666",
		)
		if g.Style == plan.GroupStyleDashed {
			st.Set("dashed", "1")
		}
		d.Shapes = append(d.Shapes, document.Shape{
			ID: "g_" + g.ID, Kind: document.KindRectangle, Label: g.Name,
			X: r.X, Y: r.Y, W: r.W, H: r.H,
			Style: st,
		})
	}
}

func addNodes(d *document.Document, p plan.Plan, l layout.Layout, th *theme.Theme) {
	for _, n := range p.Nodes {
		r, ok := l.Nodes[n.ID]
		if !ok {
			continue
		}
		ts := th.TypeStyle(n.Type)
		if n.External {
			ts = th.TypeStyle("external")
		}

		st := document.NewStyle("rounded", "1", "whiteSpace", "wrap", "html", "1")
		var kind document.Kind
		switch ts.Shape {
		case theme.ShapeCylinder:
			kind = document.KindCylinder
			st.Set("shape", "cylinder3")
		case theme.ShapeHexagon:
			kind = document.KindHexagon
			st.Set("shape", "hexagon")
		default:
			kind = document.KindRectangle
		}
		st.Set("fillColor", ts.Fill)
		st.Set("strokeColor", ts.Stroke)
		st.Set("fontColor", fontFor(ts.Fill))
		if ts.Dashed {
			st.Set("dashed", "1")
		}

		d.Shapes = append(d.Shapes, document.Shape{
			ID: "n_" + n.ID, Kind: kind, Label: n.Name,
			X: r.X, Y: r.Y, W: r.W, H: r.H,
			Style: st,
		})
	}
}

// addEdges emits one connector per edge and, for labeled edges, a floating
// text box at the segment midpoint. Parallel edges between the same pair
// (label-distinct, kept by swimlane normalization) get an ordinal suffix so
// every cell id stays unique.
func addEdges(d *document.Document, p plan.Plan, l layout.Layout) {
	parallels := make(map[string]int, len(p.Edges))
	for _, e := range p.Edges {
		from, okF := l.Nodes[e.From]
		to, okT := l.Nodes[e.To]
		if !okF || !okT {
			continue
		}
		pair := e.From + "\x00" + e.To
		parallels[pair]++
		suffix := ""
		if n := parallels[pair]; n > 1 {
			suffix = fmt.Sprintf("_%d", n)
		}
		d.Edges = append(d.Edges, document.Edge{
			ID:   fmt.Sprintf("e_%s_%s%s", e.From, e.To, suffix),
			From: "n_" + e.From,
			To:   "n_" + e.To,
			Style: document.NewStyle(
				"endArrow", "blockThin",
				"html", "1",
				"rounded", "0",
				"strokeColor", edgeStroke,
				"strokeWidth", "2",
			),
		})
		if e.Label == "" {
			continue
		}
		mx := (from.CenterX() + to.CenterX()) / 2
		my := (from.CenterY() + to.CenterY()) / 2
		d.Shapes = append(d.Shapes, document.Shape{
			ID:    fmt.Sprintf("l_%s_%s%s", e.From, e.To, suffix),
			Kind:  document.KindLabel,
			Label: e.Label,
			X:     mx - 50, Y: my - 15, W: 100, H: 20,
			Style: document.NewStyle(
				"text", "1",
				"html", "1",
				"fontSize", "11",
				"align", "center",
				"fontColor", edgeStroke,
			),
		})
	}
}

// addLegend emits a color key for the first lanes in the top-right corner.
func addLegend(d *document.Document, l layout.Layout, th *theme.Theme) {
	n := min(legendEntries, len(l.Lanes))
	x0 := d.Width - (float64(n)*legendEntryW + 20)

	d.Shapes = append(d.Shapes, document.Shape{
		ID: "legend", Kind: document.KindRectangle,
		X: x0 - 8, Y: 6, W: float64(n)*legendEntryW + 8, H: 28,
		Style: document.NewStyle(
			"rounded", "0",
			"fillColor", "none",
			"strokeColor", "#CCCCCC",
		),
	})
	for i, band := range l.Lanes[:n] {
		colors := th.LaneColors(band.Name)
		x := x0 + float64(i)*legendEntryW
		d.Shapes = append(d.Shapes, document.Shape{
			ID: "leg_" + band.Name, Kind: document.KindRectangle,
			X: x, Y: 13, W: legendSwatch, H: legendSwatch,
			Style: document.NewStyle(
				"rounded", "0",
				"fillColor", colors.Fill,
				"strokeColor", colors.Stroke,
			),
		})
		d.Shapes = append(d.Shapes, document.Shape{
			ID: "legl_" + band.Name, Kind: document.KindLabel, Label: band.Name,
			X: x + legendSwatch + 4, Y: 11, W: legendEntryW - legendSwatch - 8, H: 18,
			Style: document.NewStyle(
				"text", "1",
				"html", "1",
				"fontSize", "10",
				"align", "left",
				"fontColor", "#555555",
			),
		})
	}
}

// fontFor picks the readable font color for a fill.
func fontFor(fill string) string {
	if document.IsDark(fill, contrastThreshold) {
		return fontLight
	}
	return fontDark
}
