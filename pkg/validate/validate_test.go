package validate

import (
	"testing"

	"github.com/archgen/archgen/pkg/document"
	"github.com/archgen/archgen/pkg/layout"
	"github.com/archgen/archgen/pkg/plan"
	"github.com/archgen/archgen/pkg/synth"
	"github.com/archgen/archgen/pkg/theme"
)

func goodDiagram(t *testing.T) []byte {
	t.Helper()
	p := plan.Plan{
		Title: "Checkout",
		Lanes: []string{"Application", "Data"},
		Nodes: []plan.Node{
			{ID: "API", Name: "API Gateway", Lane: "Application", Type: "service"},
			{ID: "DB", Name: "Orders DB", Lane: "Data", Type: "data"},
		},
		Edges: []plan.Edge{{From: "API", To: "DB"}},
	}
	d := synth.Build(p, layout.NewSwimlane().Build(p), theme.Default())
	data, err := d.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func hasIssue(r Report, check string) bool {
	for _, iss := range r.Issues {
		if iss.Check == check {
			return true
		}
	}
	return false
}

func TestCheckPassesGoodDiagram(t *testing.T) {
	r := Check(goodDiagram(t), "checkout system with an API")
	if !r.OK {
		t.Errorf("report not OK: %+v", r.Issues)
	}
}

func TestCheckUnparseableInput(t *testing.T) {
	r := Check([]byte("garbage"), "")
	if r.OK {
		t.Error("garbage input must fail")
	}
	if !hasIssue(r, "model") {
		t.Errorf("want model issue, got %+v", r.Issues)
	}
}

func TestCheckEmptyDiagram(t *testing.T) {
	d := &document.Document{Width: 400, Height: 300}
	data, _ := d.Marshal()
	r := Check(data, "")
	if r.OK {
		t.Error("empty diagram must fail")
	}
	if !hasIssue(r, "structure") {
		t.Errorf("want structure issues, got %+v", r.Issues)
	}
}

func TestCheckOverlap(t *testing.T) {
	st := document.NewStyle("rounded", "1", "fillColor", "#4A90D9", "fontColor", "#333333")
	d := &document.Document{
		Shapes: []document.Shape{
			{ID: "n_A", Kind: document.KindRectangle, Label: "A", X: 0, Y: 0, W: 160, H: 60, Style: st},
			{ID: "n_B", Kind: document.KindRectangle, Label: "B", X: 100, Y: 30, W: 160, H: 60, Style: st},
		},
		Edges: []document.Edge{{ID: "e", From: "n_A", To: "n_B", Style: document.NewStyle("endArrow", "blockThin")}},
	}
	data, _ := d.Marshal()
	r := Check(data, "")
	if r.OK || !hasIssue(r, "overlap") {
		t.Errorf("want overlap error, got %+v", r.Issues)
	}
}

func TestCheckContrast(t *testing.T) {
	tests := []struct {
		name string
		fill string
		font string
	}{
		{"dark on dark", "#2C3E50", "#333333"},
		{"light on light", "#F0F7FF", "#FFFFFF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &document.Document{
				Shapes: []document.Shape{
					{ID: "n_A", Kind: document.KindRectangle, Label: "A", X: 0, Y: 0, W: 160, H: 60,
						Style: document.NewStyle("rounded", "1", "fillColor", tt.fill, "fontColor", tt.font)},
					{ID: "n_B", Kind: document.KindRectangle, Label: "B", X: 300, Y: 0, W: 160, H: 60,
						Style: document.NewStyle("rounded", "1", "fillColor", "#4A90D9", "fontColor", "#333333")},
				},
				Edges: []document.Edge{{ID: "e", From: "n_A", To: "n_B", Style: document.NewStyle("endArrow", "blockThin")}},
			}
			data, _ := d.Marshal()
			r := Check(data, "")
			if !hasIssue(r, "contrast") {
				t.Errorf("want contrast warning, got %+v", r.Issues)
			}
			// any issue fails the report, warnings included
			if r.OK {
				t.Errorf("report with issues must not be OK: %+v", r.Issues)
			}
		})
	}
}

func TestCheckMissingFill(t *testing.T) {
	d := &document.Document{
		Shapes: []document.Shape{
			{ID: "n_A", Kind: document.KindRectangle, Label: "A", X: 0, Y: 0, W: 160, H: 60,
				Style: document.NewStyle("rounded", "1", "strokeColor", "#333333")},
			{ID: "n_B", Kind: document.KindRectangle, Label: "B", X: 300, Y: 0, W: 160, H: 60,
				Style: document.NewStyle("rounded", "1", "fillColor", "#4A90D9", "fontColor", "#333333")},
		},
		Edges: []document.Edge{{ID: "e", From: "n_A", To: "n_B", Style: document.NewStyle("endArrow", "blockThin")}},
	}
	data, _ := d.Marshal()
	r := Check(data, "")
	if r.OK || !hasIssue(r, "colors") {
		t.Errorf("fill-less node must be flagged, got %+v", r.Issues)
	}
}

func TestCheckArrowStyles(t *testing.T) {
	tests := []struct {
		name  string
		arrow string
		warn  bool
	}{
		{"block", "block", false},
		{"blockThin", "blockThin", false},
		{"classic", "classic", false},
		{"open", "open", false},
		{"diamond", "diamond", true},
		{"missing", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := document.NewStyle("rounded", "1", "fillColor", "#4A90D9", "fontColor", "#333333")
			edgeStyle := document.NewStyle("html", "1")
			if tt.arrow != "" {
				edgeStyle.Set("endArrow", tt.arrow)
			}
			d := &document.Document{
				Shapes: []document.Shape{
					{ID: "n_A", Kind: document.KindRectangle, Label: "A", X: 0, Y: 0, W: 160, H: 60, Style: st},
					{ID: "n_B", Kind: document.KindRectangle, Label: "B", X: 300, Y: 0, W: 160, H: 60, Style: st},
				},
				Edges: []document.Edge{
					{ID: "e", From: "n_A", To: "n_B", Style: edgeStyle},
				},
			}
			data, _ := d.Marshal()
			r := Check(data, "")
			if got := hasIssue(r, "arrows"); got != tt.warn {
				t.Errorf("arrow %q: warned = %v, want %v", tt.arrow, got, tt.warn)
			}
			if r.OK == tt.warn {
				t.Errorf("arrow %q: OK = %v with issues %+v", tt.arrow, r.OK, r.Issues)
			}
		})
	}
}

func TestCheckGoalKeywords(t *testing.T) {
	r := Check(goodDiagram(t), "event driven security monitoring platform")
	if !hasIssue(r, "goal") {
		t.Errorf("want goal warnings for missing event/security/monitoring components, got %+v", r.Issues)
	}
	// API expectation is satisfied by the API Gateway node
	for _, iss := range r.Issues {
		if iss.Check == "goal" && iss.Message == "goal mentions an API but no API component is present" {
			t.Error("API expectation should be satisfied")
		}
	}
}
