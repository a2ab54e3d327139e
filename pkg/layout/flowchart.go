package layout

import "github.com/archgen/archgen/pkg/plan"

// Flowchart metric defaults.
const (
	flowHGap      = 40.0
	flowVGap      = 60.0
	minFlowWidth  = 400.0
	minFlowHeight = 300.0
)

// Flowchart lays a plan out in BFS layers of its directed edge graph. Roots
// are the nodes without incoming edges (or the first node when every node has
// one); each layer is a horizontally centered row. Nodes unreachable from any
// root are appended as single-node trailing layers in plan order.
type Flowchart struct {
	NodeW  float64
	NodeH  float64
	HGap   float64
	VGap   float64
	Margin float64
}

// NewFlowchart returns a flowchart engine with default metrics.
func NewFlowchart() *Flowchart {
	return &Flowchart{
		NodeW:  nodeWidth,
		NodeH:  nodeHeight,
		HGap:   flowHGap,
		VGap:   flowVGap,
		Margin: diagramMargin,
	}
}

// Build computes the flowchart layout for p.
func (f *Flowchart) Build(p plan.Plan) Layout {
	out := Layout{
		Groups: make(map[string]Rect, len(p.Groups)),
		Nodes:  make(map[string]Rect, len(p.Nodes)),
	}
	if len(p.Nodes) == 0 {
		out.Width = minFlowWidth
		out.Height = minFlowHeight
		return out
	}

	layers := f.layers(p)

	width := minFlowWidth
	for _, row := range layers {
		w := float64(len(row))*f.NodeW + float64(len(row)-1)*f.HGap + 2*f.Margin
		if w > width {
			width = w
		}
	}

	for li, row := range layers {
		rowW := float64(len(row))*f.NodeW + float64(len(row)-1)*f.HGap
		x0 := (width - rowW) / 2
		y := f.Margin + titleSpace + float64(li)*(f.NodeH+f.VGap)
		for i, id := range row {
			out.Nodes[id] = Rect{
				X: x0 + float64(i)*(f.NodeW+f.HGap),
				Y: y,
				W: f.NodeW,
				H: f.NodeH,
			}
		}
	}

	for _, g := range p.Groups {
		members := p.Members(g.ID)
		if len(members) == 0 {
			continue
		}
		box := out.Nodes[members[0].ID]
		for _, m := range members[1:] {
			box = box.Union(out.Nodes[m.ID])
		}
		out.Groups[g.ID] = box.Expand(groupPadding / 1.5)
	}

	bottom := out.Nodes[layers[len(layers)-1][0]].Bottom()
	out.Width = width
	out.Height = max(minFlowHeight, bottom+f.Margin)
	return out
}

// layers partitions node ids into BFS depth rows.
func (f *Flowchart) layers(p plan.Plan) [][]string {
	incoming := make(map[string]int, len(p.Nodes))
	next := make(map[string][]string, len(p.Nodes))
	for _, e := range p.Edges {
		incoming[e.To]++
		next[e.From] = append(next[e.From], e.To)
	}

	var roots []string
	for _, n := range p.Nodes {
		if incoming[n.ID] == 0 {
			roots = append(roots, n.ID)
		}
	}
	if len(roots) == 0 {
		roots = []string{p.Nodes[0].ID}
	}

	depth := make(map[string]int, len(p.Nodes))
	queue := make([]string, 0, len(p.Nodes))
	for _, r := range roots {
		depth[r] = 0
		queue = append(queue, r)
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, to := range next[id] {
			if _, seen := depth[to]; seen {
				continue
			}
			depth[to] = depth[id] + 1
			queue = append(queue, to)
		}
	}

	maxDepth := 0
	for _, d := range depth {
		if d > maxDepth {
			maxDepth = d
		}
	}
	layers := make([][]string, maxDepth+1)
	for _, n := range p.Nodes {
		if d, ok := depth[n.ID]; ok {
			layers[d] = append(layers[d], n.ID)
		}
	}
	// Unreachable nodes each get a fresh trailing row, in plan order.
	for _, n := range p.Nodes {
		if _, ok := depth[n.ID]; !ok {
			layers = append(layers, []string{n.ID})
		}
	}
	return layers
}
