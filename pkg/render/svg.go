// Package render rasterizes diagram documents into standalone artifacts.
//
// The SVG renderer consumes only the serialized document XML, never the plan
// or layout that produced it, so any mxGraphModel from any source renders the
// same way. Rendering never fails: unparseable input degrades to a small
// error image.
package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/archgen/archgen/pkg/document"
)

const (
	svgMargin    = 30.0
	svgMinWidth  = 400.0
	svgMinHeight = 300.0

	// display truncation for shape labels
	labelDisplayLimit = 25
	labelDisplayKeep  = 22

	fontFamily = `'Helvetica Neue', Arial, sans-serif`
)

// SVG renders diagram XML into a standalone SVG image. Input that contains
// no parseable model yields an error image instead of a failure.
func SVG(diagram []byte) []byte {
	doc, err := document.ParseModel(diagram)
	if err != nil {
		return errorSVG("Unable to render diagram: no model found")
	}
	return renderDoc(doc)
}

// Document renders an in-memory document directly, bypassing the XML parse.
func Document(doc *document.Document) []byte {
	return renderDoc(doc)
}

func renderDoc(doc *document.Document) []byte {
	dx, dy, w, h := viewport(doc)

	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(w), num(h), num(w), num(h))
	writeDefs(&b)
	fmt.Fprintf(&b, `<rect width="%s" height="%s" fill="#FFFFFF"/>`+"\n", num(w), num(h))

	for _, e := range doc.Edges {
		writeEdge(&b, doc, e, dx, dy)
	}
	for _, s := range byZOrder(doc.Shapes) {
		writeShape(&b, s, dx, dy)
	}

	b.WriteString("</svg>\n")
	return b.Bytes()
}

// viewport recomputes the canvas from the shape bounding box rather than
// trusting the declared document size.
func viewport(doc *document.Document) (dx, dy, w, h float64) {
	if len(doc.Shapes) == 0 {
		return 0, 0, svgMinWidth, svgMinHeight
	}
	minX, minY := doc.Shapes[0].X, doc.Shapes[0].Y
	maxX, maxY := minX, minY
	for _, s := range doc.Shapes {
		minX = min(minX, s.X)
		minY = min(minY, s.Y)
		maxX = max(maxX, s.X+s.W)
		maxY = max(maxY, s.Y+s.H)
	}
	dx = svgMargin - minX
	dy = svgMargin - minY
	w = max(svgMinWidth, maxX-minX+2*svgMargin)
	h = max(svgMinHeight, maxY-minY+2*svgMargin)
	return dx, dy, w, h
}

func writeDefs(b *bytes.Buffer) {
	b.WriteString("<defs>\n")
	b.WriteString(`<marker id="arrow" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="7" markerHeight="7" orient="auto-start-reverse">` +
		`<path d="M 0 0 L 10 5 L 0 10 z" fill="#5A6B7B"/></marker>` + "\n")
	b.WriteString(`<filter id="shadow" x="-20%" y="-20%" width="140%" height="140%">` +
		`<feDropShadow dx="0" dy="1" stdDeviation="1.5" flood-opacity="0.2"/></filter>` + "\n")
	fmt.Fprintf(b, "<style>text{font-family:%s}</style>\n", fontFamily)
	b.WriteString("</defs>\n")
}

// =============================================================================
// Z-order
// =============================================================================

// zClass buckets shapes for painting: translucent stripes under dashed
// frames, frames under free text, text under solid shapes.
func zClass(s document.Shape) int {
	switch {
	case s.Style.Has("opacity"):
		return 0
	case s.Style.Flag("dashed") && s.Style.Get("fillColor") == "none":
		return 1
	case s.Kind == document.KindLabel:
		return 2
	}
	return 3
}

func byZOrder(shapes []document.Shape) []document.Shape {
	out := make([]document.Shape, len(shapes))
	copy(out, shapes)
	// insertion sort keeps document order within a class
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && zClass(out[j]) < zClass(out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// =============================================================================
// Shapes
// =============================================================================

func writeShape(b *bytes.Buffer, s document.Shape, dx, dy float64) {
	x, y := s.X+dx, s.Y+dy

	if s.Kind != document.KindLabel {
		fill := s.Style.Get("fillColor")
		if fill == "" || fill == "none" {
			fill = "none"
		}
		stroke := s.Style.Get("strokeColor")
		if stroke == "" {
			stroke = "#333333"
		}
		attrs := fmt.Sprintf(`fill="%s" stroke="%s"`, fill, stroke)
		if s.Style.Flag("dashed") {
			attrs += ` stroke-dasharray="6,4"`
		}
		if op := s.Style.Get("opacity"); op != "" {
			if v, err := strconv.ParseFloat(op, 64); err == nil {
				attrs += fmt.Sprintf(` fill-opacity="%s"`, num(v/100))
			}
		}
		if fill != "none" && !s.Style.Has("opacity") {
			attrs += ` filter="url(#shadow)"`
		}

		switch s.Kind {
		case document.KindCylinder:
			writeCylinder(b, x, y, s.W, s.H, attrs)
		case document.KindHexagon:
			writeHexagon(b, x, y, s.W, s.H, attrs)
		default:
			rx := 0.0
			if s.Style.Flag("rounded") {
				rx = 8
			}
			fmt.Fprintf(b, `<rect x="%s" y="%s" width="%s" height="%s" rx="%s" %s/>`+"\n",
				num(x), num(y), num(s.W), num(s.H), num(rx), attrs)
		}
	}

	writeLabel(b, s, x, y)
}

// writeCylinder draws the body as a rectangle with a top ellipse cap.
func writeCylinder(b *bytes.Buffer, x, y, w, h float64, attrs string) {
	capH := h * 0.25
	fmt.Fprintf(b, `<rect x="%s" y="%s" width="%s" height="%s" %s/>`+"\n",
		num(x), num(y+capH/2), num(w), num(h-capH/2), attrs)
	fmt.Fprintf(b, `<ellipse cx="%s" cy="%s" rx="%s" ry="%s" %s/>`+"\n",
		num(x+w/2), num(y+capH/2), num(w/2), num(capH/2), attrs)
}

func writeHexagon(b *bytes.Buffer, x, y, w, h float64, attrs string) {
	in := w * 0.2
	pts := [][2]float64{
		{x + in, y},
		{x + w - in, y},
		{x + w, y + h/2},
		{x + w - in, y + h},
		{x + in, y + h},
		{x, y + h/2},
	}
	var sb strings.Builder
	for i, p := range pts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(num(p[0]) + "," + num(p[1]))
	}
	fmt.Fprintf(b, `<polygon points="%s" %s/>`+"\n", sb.String(), attrs)
}

func writeLabel(b *bytes.Buffer, s document.Shape, x, y float64) {
	text := displayLabel(s.Label)
	if text == "" {
		return
	}

	size := 12.0
	if fs := s.Style.Get("fontSize"); fs != "" {
		if v, err := strconv.ParseFloat(fs, 64); err == nil {
			size = v
		}
	}
	color := s.Style.Get("fontColor")
	if color == "" {
		color = "#333333"
	}

	var tx, ty float64
	anchor := "middle"
	switch {
	case s.Style.Get("align") == "left":
		anchor = "start"
		tx = x + 2
		ty = y + s.H/2 + size/3
	case s.Style.Get("verticalAlign") == "top":
		tx = x + s.W/2
		ty = y + size + 4
	default:
		tx = x + s.W/2
		ty = y + s.H/2 + size/3
	}

	weight := ""
	if s.Style.Get("fontStyle") == "1" {
		weight = ` font-weight="bold"`
	}
	fmt.Fprintf(b, `<text x="%s" y="%s" text-anchor="%s" font-size="%s" fill="%s"%s>%s</text>`+"\n",
		num(tx), num(ty), anchor, num(size), color, weight, escape(text))
}

// =============================================================================
// Edges
// =============================================================================

// writeEdge connects two shapes with a straight arrow. The anchor sides are
// chosen on the dominant axis between the shape centers, so mostly-horizontal
// edges leave and enter by the sides and mostly-vertical ones by top/bottom.
func writeEdge(b *bytes.Buffer, doc *document.Document, e document.Edge, dx, dy float64) {
	from, okF := doc.Shape(e.From)
	to, okT := doc.Shape(e.To)
	if !okF || !okT {
		return
	}

	fcx, fcy := from.X+from.W/2, from.Y+from.H/2
	tcx, tcy := to.X+to.W/2, to.Y+to.H/2

	var x1, y1, x2, y2 float64
	if abs(tcx-fcx) > abs(tcy-fcy) {
		y1, y2 = fcy, tcy
		if tcx > fcx {
			x1, x2 = from.X+from.W, to.X
		} else {
			x1, x2 = from.X, to.X+to.W
		}
	} else {
		x1, x2 = fcx, tcx
		if tcy > fcy {
			y1, y2 = from.Y+from.H, to.Y
		} else {
			y1, y2 = from.Y, to.Y+to.H
		}
	}

	stroke := e.Style.Get("strokeColor")
	if stroke == "" {
		stroke = "#5A6B7B"
	}
	width := e.Style.Get("strokeWidth")
	if width == "" {
		width = "1.5"
	}
	dash := ""
	if e.Style.Flag("dashed") {
		dash = ` stroke-dasharray="6,4"`
	}
	fmt.Fprintf(b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s"%s marker-end="url(#arrow)"/>`+"\n",
		num(x1+dx), num(y1+dy), num(x2+dx), num(y2+dy), stroke, width, dash)
}

// =============================================================================
// Error image and helpers
// =============================================================================

func errorSVG(msg string) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(svgMinWidth), num(svgMinHeight), num(svgMinWidth), num(svgMinHeight))
	fmt.Fprintf(&b, `<rect width="%s" height="%s" fill="#FDF2F2" stroke="#E74C3C"/>`+"\n",
		num(svgMinWidth), num(svgMinHeight))
	fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="middle" font-family="sans-serif" font-size="14" fill="#C0392B">%s</text>`+"\n",
		num(svgMinWidth/2), num(svgMinHeight/2), escape(msg))
	b.WriteString("</svg>\n")
	return b.Bytes()
}

// displayLabel shortens over-long labels for rendering only; the document
// keeps the full text.
func displayLabel(s string) string {
	runes := []rune(s)
	if len(runes) <= labelDisplayLimit {
		return s
	}
	return string(runes[:labelDisplayKeep]) + "..."
}

func escape(s string) string {
	return strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	).Replace(s)
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
