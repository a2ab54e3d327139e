// Package layout assigns 2D geometry to every lane, group, and node of a
// canonical plan.
//
// Two interchangeable strategies are provided: Swimlane stacks named lanes
// vertically and packs nodes left-to-right inside them, and Flowchart places
// nodes in BFS layers of the directed edge graph. Both are discrete,
// deterministic placements that always terminate; neither is force-directed.
//
// Invariants guaranteed by both strategies:
//   - no two node rectangles overlap
//   - every group rectangle encloses its member nodes plus padding
//   - the canvas is the tight bounding box of placed geometry plus a fixed
//     margin, with a documented minimum floor for degenerate plans
package layout

import "github.com/archgen/archgen/pkg/plan"

// Rect is an axis-aligned rectangle in the shared diagram coordinate space.
// Y grows downward, matching SVG and the document schema.
type Rect struct {
	X, Y, W, H float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// CenterX returns the x coordinate of the rectangle center.
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// CenterY returns the y coordinate of the rectangle center.
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// Overlaps reports whether r and o intersect with positive area.
// Touching edges do not count as overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() &&
		r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Contains reports whether o lies entirely within r (edges inclusive).
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y &&
		o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Expand grows the rectangle by pad on all sides.
func (r Rect) Expand(pad float64) Rect {
	return Rect{X: r.X - pad, Y: r.Y - pad, W: r.W + 2*pad, H: r.H + 2*pad}
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	x := min(r.X, o.X)
	y := min(r.Y, o.Y)
	return Rect{
		X: x,
		Y: y,
		W: max(r.Right(), o.Right()) - x,
		H: max(r.Bottom(), o.Bottom()) - y,
	}
}

// LaneBand is the placed horizontal band of one lane.
type LaneBand struct {
	Name string
	Rect Rect
}

// Layout holds the computed geometry for a plan. Keys are plan ids.
type Layout struct {
	Width  float64
	Height float64
	Lanes  []LaneBand
	Groups map[string]Rect
	Nodes  map[string]Rect
}

// Engine computes a layout for a canonical plan.
// Implementations must be deterministic and side-effect free.
type Engine interface {
	Build(p plan.Plan) Layout
}

// ForMode returns the layout engine for a normalization mode, with default
// metrics. Unknown modes fall back to the swimlane engine.
func ForMode(m plan.Mode) Engine {
	if m == plan.ModeFlowchart {
		return NewFlowchart()
	}
	return NewSwimlane()
}
