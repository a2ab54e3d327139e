// Package document defines the diagram document model and its XML wire form.
//
// A Document is the sole contract between the synthesizer and the consumers
// downstream of it: the SVG renderer and the validator operate on the
// serialized XML alone, never on the plan or layout that produced it. The
// wire form is an mxGraphModel fragment (the draw.io interchange schema) so
// generated diagrams open directly in compatible editors.
package document

// Kind classifies the visual primitive of a shape.
type Kind string

const (
	KindRectangle Kind = "rectangle"
	KindCylinder  Kind = "cylinder"
	KindHexagon   Kind = "hexagon"
	KindLabel     Kind = "label"
)

// Shape is a placed vertex: a node box, group frame, lane stripe, legend
// swatch, or free-floating text label.
type Shape struct {
	ID    string
	Kind  Kind
	Label string
	X     float64
	Y     float64
	W     float64
	H     float64
	Style Style
}

// Edge is a directed connection between two shapes, addressed by id.
type Edge struct {
	ID    string
	From  string
	To    string
	Style Style
}

// Document is a complete diagram: a canvas plus shapes and edges in paint
// order. Earlier shapes render beneath later ones.
type Document struct {
	Width  float64
	Height float64
	Shapes []Shape
	Edges  []Edge
}

// Shape returns the shape with the given id, if present.
func (d *Document) Shape(id string) (Shape, bool) {
	for _, s := range d.Shapes {
		if s.ID == id {
			return s, true
		}
	}
	return Shape{}, false
}

// kindOf derives a shape's kind from its decoded style.
func kindOf(st Style) Kind {
	if st.Has("text") {
		return KindLabel
	}
	switch st.Get("shape") {
	case "cylinder3", "cylinder":
		return KindCylinder
	case "hexagon":
		return KindHexagon
	}
	return KindRectangle
}
