package layout

import (
	"sort"

	"github.com/archgen/archgen/pkg/plan"
)

// Swimlane metric defaults. Geometry derives from these; changing them never
// breaks the overlap or containment invariants.
const (
	laneHeight    = 130.0
	lanePadding   = 20.0
	nodeWidth     = 160.0
	nodeHeight    = 60.0
	nodeSpacingX  = 200.0
	groupPadding  = 30.0
	diagramMargin = 40.0
	titleSpace    = 40.0
	minLaneWidth  = 1200.0
)

// Swimlane lays a plan out as stacked horizontal lanes. Each node lands in
// the band of its lane and is packed left-to-right; members of the same group
// pack contiguously so the group rectangle covers no outsiders.
type Swimlane struct {
	NodeW    float64
	NodeH    float64
	SpacingX float64
	LaneH    float64
	LanePad  float64
	GroupPad float64
	Margin   float64
	MinWidth float64
}

// NewSwimlane returns a swimlane engine with default metrics.
func NewSwimlane() *Swimlane {
	return &Swimlane{
		NodeW:    nodeWidth,
		NodeH:    nodeHeight,
		SpacingX: nodeSpacingX,
		LaneH:    laneHeight,
		LanePad:  lanePadding,
		GroupPad: groupPadding,
		Margin:   diagramMargin,
		MinWidth: minLaneWidth,
	}
}

// Build computes the swimlane layout for p.
func (s *Swimlane) Build(p plan.Plan) Layout {
	lanes := p.Lanes
	if len(lanes) == 0 {
		lanes = []string{"Components"}
	}

	laneY := make(map[string]float64, len(lanes))
	out := Layout{
		Groups: make(map[string]Rect, len(p.Groups)),
		Nodes:  make(map[string]Rect, len(p.Nodes)),
	}
	for i, name := range lanes {
		y := s.Margin + titleSpace + float64(i)*(s.LaneH+s.LanePad)
		laneY[name] = y
		out.Lanes = append(out.Lanes, LaneBand{Name: name, Rect: Rect{
			X: s.Margin,
			Y: y,
			H: s.LaneH,
		}})
	}

	// Bucket nodes per lane, keeping group members adjacent so the group box
	// spans only its own members. Sort key is (group, id); ungrouped nodes
	// sort after every group.
	byLane := make(map[string][]plan.Node, len(lanes))
	nodeLane := make(map[string]string, len(p.Nodes))
	for _, n := range p.Nodes {
		lane := n.Lane
		if _, ok := laneY[lane]; !ok {
			lane = lanes[0]
		}
		byLane[lane] = append(byLane[lane], n)
		nodeLane[n.ID] = lane
	}
	for _, ns := range byLane {
		sort.SliceStable(ns, func(a, b int) bool {
			ka, kb := ns[a].Group, ns[b].Group
			if ka == "" {
				ka = "zzz"
			}
			if kb == "" {
				kb = "zzz"
			}
			if ka != kb {
				return ka < kb
			}
			return ns[a].ID < ns[b].ID
		})
	}

	maxRight := 0.0
	for _, lane := range lanes {
		y := laneY[lane] + 35
		for i, n := range byLane[lane] {
			r := Rect{
				X: s.Margin + 180 + float64(i)*s.SpacingX,
				Y: y,
				W: s.NodeW,
				H: s.NodeH,
			}
			out.Nodes[n.ID] = r
			if r.Right() > maxRight {
				maxRight = r.Right()
			}
		}
	}

	for _, g := range p.Groups {
		members := p.Members(g.ID)
		if len(members) == 0 {
			continue
		}
		box := out.Nodes[members[0].ID]
		lane := nodeLane[members[0].ID]
		single := true
		for _, m := range members[1:] {
			box = box.Union(out.Nodes[m.ID])
			if nodeLane[m.ID] != lane {
				single = false
			}
		}
		r := Rect{
			X: box.X - s.GroupPad,
			Y: box.Y - 40,
			W: box.W + 2*s.GroupPad,
			H: box.H + 60,
		}
		// a group whose members all live in one lane stays inside that
		// lane's vertical band
		if single {
			top, bottom := laneY[lane], laneY[lane]+s.LaneH
			if r.Y < top {
				r.H -= top - r.Y
				r.Y = top
			}
			if r.Bottom() > bottom {
				r.H = bottom - r.Y
			}
		}
		out.Groups[g.ID] = r
	}

	out.Width = max(s.MinWidth, maxRight+s.Margin)
	last := out.Lanes[len(out.Lanes)-1].Rect
	out.Height = last.Bottom() + s.Margin
	for i := range out.Lanes {
		out.Lanes[i].Rect.W = out.Width - 2*s.Margin
	}
	return out
}
