package layout

import (
	"testing"

	"github.com/archgen/archgen/pkg/plan"
)

func TestRectOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want bool
	}{
		{"disjoint", Rect{0, 0, 10, 10}, Rect{20, 20, 10, 10}, false},
		{"touching edges", Rect{0, 0, 10, 10}, Rect{10, 0, 10, 10}, false},
		{"intersecting", Rect{0, 0, 10, 10}, Rect{5, 5, 10, 10}, true},
		{"contained", Rect{0, 0, 100, 100}, Rect{10, 10, 5, 5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps() not symmetric: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectUnion(t *testing.T) {
	got := Rect{0, 0, 10, 10}.Union(Rect{20, 5, 10, 10})
	want := Rect{0, 0, 30, 15}
	if got != want {
		t.Errorf("Union() = %+v, want %+v", got, want)
	}
}

func testPlan() plan.Plan {
	return plan.Plan{
		Title: "Test",
		Lanes: []string{"Client", "Application", "Data"},
		Groups: []plan.Group{
			{ID: "AppCluster", Name: "App Cluster", Lane: "Application", Style: plan.GroupStyleDashed},
		},
		Nodes: []plan.Node{
			{ID: "Web", Name: "Web", Lane: "Client", Type: "app"},
			{ID: "API", Name: "API", Lane: "Application", Type: "service", Group: "AppCluster"},
			{ID: "Worker", Name: "Worker", Lane: "Application", Type: "service", Group: "AppCluster"},
			{ID: "Cache", Name: "Cache", Lane: "Application", Type: "data"},
			{ID: "DB", Name: "DB", Lane: "Data", Type: "data"},
		},
		Edges: []plan.Edge{
			{From: "Web", To: "API", Label: "HTTPS"},
			{From: "API", To: "DB"},
			{From: "API", To: "Cache"},
		},
	}
}

func assertNoNodeOverlap(t *testing.T, l Layout) {
	t.Helper()
	ids := make([]string, 0, len(l.Nodes))
	for id := range l.Nodes {
		ids = append(ids, id)
	}
	for i, a := range ids {
		for _, b := range ids[i+1:] {
			if l.Nodes[a].Overlaps(l.Nodes[b]) {
				t.Errorf("nodes %s and %s overlap: %+v vs %+v", a, b, l.Nodes[a], l.Nodes[b])
			}
		}
	}
}

func TestSwimlaneBuild(t *testing.T) {
	p := testPlan()
	l := NewSwimlane().Build(p)

	if len(l.Lanes) != 3 {
		t.Fatalf("got %d lanes, want 3", len(l.Lanes))
	}
	if len(l.Nodes) != 5 {
		t.Fatalf("got %d placed nodes, want 5", len(l.Nodes))
	}
	assertNoNodeOverlap(t, l)

	if l.Width < minLaneWidth {
		t.Errorf("width %v below floor %v", l.Width, minLaneWidth)
	}

	// Every node sits inside its lane band.
	laneOf := map[string]string{"Web": "Client", "API": "Application", "Worker": "Application", "Cache": "Application", "DB": "Data"}
	bands := make(map[string]Rect, len(l.Lanes))
	for _, b := range l.Lanes {
		bands[b.Name] = b.Rect
	}
	for id, lane := range laneOf {
		if !bands[lane].Contains(l.Nodes[id]) {
			t.Errorf("node %s %+v escapes lane %q %+v", id, l.Nodes[id], lane, bands[lane])
		}
	}
}

func TestSwimlaneGroupContainsMembers(t *testing.T) {
	p := testPlan()
	l := NewSwimlane().Build(p)

	g, ok := l.Groups["AppCluster"]
	if !ok {
		t.Fatal("group AppCluster not placed")
	}
	for _, id := range []string{"API", "Worker"} {
		if !g.Contains(l.Nodes[id]) {
			t.Errorf("group %+v does not contain member %s %+v", g, id, l.Nodes[id])
		}
	}
	if g.Overlaps(l.Nodes["Cache"]) {
		t.Errorf("group %+v overlaps non-member Cache %+v", g, l.Nodes["Cache"])
	}
}

func TestSwimlaneGroupStaysInLaneBand(t *testing.T) {
	p := testPlan()
	l := NewSwimlane().Build(p)

	var band Rect
	for _, b := range l.Lanes {
		if b.Name == "Application" {
			band = b.Rect
		}
	}

	g := l.Groups["AppCluster"]
	if g.Y < band.Y || g.Bottom() > band.Bottom() {
		t.Errorf("single-lane group %+v escapes band %+v", g, band)
	}
	for _, id := range []string{"API", "Worker"} {
		if !g.Contains(l.Nodes[id]) {
			t.Errorf("clamped group %+v lost member %s %+v", g, id, l.Nodes[id])
		}
	}
}

func TestSwimlaneUnknownLaneFallsBack(t *testing.T) {
	p := plan.Plan{
		Lanes: []string{"Client", "Data"},
		Nodes: []plan.Node{{ID: "X", Name: "X", Lane: "Nowhere", Type: "default"}},
	}
	l := NewSwimlane().Build(p)
	if !l.Lanes[0].Rect.Contains(l.Nodes["X"]) {
		t.Errorf("node with unknown lane should land in first lane, got %+v", l.Nodes["X"])
	}
}

func TestSwimlaneEmptyPlan(t *testing.T) {
	l := NewSwimlane().Build(plan.Plan{Lanes: []string{"Client"}})
	if l.Width < minLaneWidth || l.Height <= 0 {
		t.Errorf("degenerate canvas %vx%v", l.Width, l.Height)
	}
}

func TestFlowchartLayers(t *testing.T) {
	p := plan.Plan{
		Nodes: []plan.Node{
			{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D"}, {ID: "E"},
		},
		Edges: []plan.Edge{
			{From: "A", To: "B"},
			{From: "A", To: "C"},
			{From: "B", To: "D"},
			{From: "C", To: "D"},
		},
	}
	f := NewFlowchart()
	layers := f.layers(p)

	// E has no incoming edges, so it is a root alongside A.
	want := [][]string{{"A", "E"}, {"B", "C"}, {"D"}}
	if len(layers) != len(want) {
		t.Fatalf("got %d layers %v, want %d", len(layers), layers, len(want))
	}
	for i := range want {
		if len(layers[i]) != len(want[i]) {
			t.Fatalf("layer %d = %v, want %v", i, layers[i], want[i])
		}
		for j := range want[i] {
			if layers[i][j] != want[i][j] {
				t.Errorf("layer %d = %v, want %v", i, layers[i], want[i])
			}
		}
	}
}

func TestFlowchartCycleFallsBackToFirstNode(t *testing.T) {
	p := plan.Plan{
		Nodes: []plan.Node{{ID: "A"}, {ID: "B"}},
		Edges: []plan.Edge{{From: "A", To: "B"}, {From: "B", To: "A"}},
	}
	l := NewFlowchart().Build(p)
	if len(l.Nodes) != 2 {
		t.Fatalf("got %d placed nodes, want 2", len(l.Nodes))
	}
	if l.Nodes["A"].Y >= l.Nodes["B"].Y {
		t.Errorf("A should sit above B: A=%+v B=%+v", l.Nodes["A"], l.Nodes["B"])
	}
	assertNoNodeOverlap(t, l)
}

func TestFlowchartRowsCentered(t *testing.T) {
	p := plan.Plan{
		Nodes: []plan.Node{{ID: "A"}, {ID: "B"}, {ID: "C"}},
		Edges: []plan.Edge{{From: "A", To: "B"}, {From: "A", To: "C"}},
	}
	l := NewFlowchart().Build(p)

	rowCenter := (l.Nodes["B"].X + l.Nodes["C"].Right()) / 2
	if rowCenter != l.Width/2 {
		t.Errorf("second row centered at %v, want %v", rowCenter, l.Width/2)
	}
	if l.Nodes["A"].CenterX() != l.Width/2 {
		t.Errorf("single-node row centered at %v, want %v", l.Nodes["A"].CenterX(), l.Width/2)
	}
}

func TestFlowchartMinimumCanvas(t *testing.T) {
	l := NewFlowchart().Build(plan.Plan{Nodes: []plan.Node{{ID: "A"}}})
	if l.Width < minFlowWidth || l.Height < minFlowHeight {
		t.Errorf("canvas %vx%v below %vx%v floor", l.Width, l.Height, minFlowWidth, minFlowHeight)
	}
}

func TestForMode(t *testing.T) {
	if _, ok := ForMode(plan.ModeFlowchart).(*Flowchart); !ok {
		t.Error("ForMode(flowchart) did not return a Flowchart engine")
	}
	if _, ok := ForMode(plan.ModeSwimlane).(*Swimlane); !ok {
		t.Error("ForMode(swimlane) did not return a Swimlane engine")
	}
}
