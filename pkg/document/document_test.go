package document

import (
	"errors"
	"strings"
	"testing"
)

func TestStyleEncodeOrder(t *testing.T) {
	st := NewStyle("rounded", "1", "fillColor", "#4A90D9", "strokeColor", "#2C5F8A")
	want := "rounded=1;fillColor=#4A90D9;strokeColor=#2C5F8A;"
	if got := st.Encode(); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}

	// Overwriting keeps the original position.
	st.Set("fillColor", "#FFFFFF")
	want = "rounded=1;fillColor=#FFFFFF;strokeColor=#2C5F8A;"
	if got := st.Encode(); got != want {
		t.Errorf("Encode() after Set = %q, want %q", got, want)
	}
}

func TestParseStyleBareFlag(t *testing.T) {
	st := ParseStyle("text;html=1;fontSize=16;")
	if !st.Flag("text") {
		t.Error("bare flag should decode as value 1")
	}
	if got := st.Get("fontSize"); got != "16" {
		t.Errorf("fontSize = %q, want 16", got)
	}
	if st.Has("missing") {
		t.Error("Has() true for absent key")
	}
}

func sampleDoc() *Document {
	return &Document{
		Width:  800,
		Height: 600,
		Shapes: []Shape{
			{
				ID: "n_API", Kind: KindRectangle, Label: "API",
				X: 220, Y: 115, W: 160, H: 60,
				Style: NewStyle("rounded", "1", "fillColor", "#5AAA8D", "fontColor", "#FFFFFF"),
			},
			{
				ID: "n_DB", Kind: KindCylinder, Label: "DB",
				X: 420, Y: 265, W: 160, H: 60,
				Style: NewStyle("shape", "cylinder3", "fillColor", "#7B68C8"),
			},
		},
		Edges: []Edge{
			{
				ID: "e_n_API_n_DB", From: "n_API", To: "n_DB",
				Style: NewStyle("endArrow", "blockThin", "strokeColor", "#5A6B7B"),
			},
		},
	}
}

func TestMarshalParseRoundTrip(t *testing.T) {
	in := sampleDoc()
	data, err := in.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !strings.Contains(string(data), `<mxCell id="0"`) {
		t.Error("missing reserved root cell 0")
	}

	out, err := ParseModel(data)
	if err != nil {
		t.Fatalf("ParseModel() error: %v", err)
	}
	if len(out.Shapes) != 2 || len(out.Edges) != 1 {
		t.Fatalf("got %d shapes / %d edges, want 2 / 1", len(out.Shapes), len(out.Edges))
	}

	db, ok := out.Shape("n_DB")
	if !ok {
		t.Fatal("shape n_DB lost in round trip")
	}
	if db.Kind != KindCylinder {
		t.Errorf("n_DB kind = %q, want cylinder", db.Kind)
	}
	if db.X != 420 || db.W != 160 {
		t.Errorf("n_DB geometry = (%v, %v), want (420, 160)", db.X, db.W)
	}
	if got := out.Edges[0].Style.Get("endArrow"); got != "blockThin" {
		t.Errorf("edge endArrow = %q, want blockThin", got)
	}
}

func TestParseModelMxfileWrapper(t *testing.T) {
	inner, err := sampleDoc().Marshal()
	if err != nil {
		t.Fatal(err)
	}

	t.Run("nested element", func(t *testing.T) {
		wrapped := `<mxfile host="app"><diagram name="Page-1">` + string(inner) + `</diagram></mxfile>`
		d, err := ParseModel([]byte(wrapped))
		if err != nil {
			t.Fatalf("ParseModel() error: %v", err)
		}
		if len(d.Shapes) != 2 {
			t.Errorf("got %d shapes, want 2", len(d.Shapes))
		}
	})

	t.Run("escaped text", func(t *testing.T) {
		escaped := strings.NewReplacer("<", "&lt;", ">", "&gt;").Replace(string(inner))
		wrapped := `<mxfile><diagram>` + escaped + `</diagram></mxfile>`
		d, err := ParseModel([]byte(wrapped))
		if err != nil {
			t.Fatalf("ParseModel() error: %v", err)
		}
		if len(d.Edges) != 1 {
			t.Errorf("got %d edges, want 1", len(d.Edges))
		}
	})
}

func TestParseModelRepairs(t *testing.T) {
	xml := "```xml\n" +
		`<mxGraphModel dx="400" dy="300"><root>` +
		`<mxCell id="0"/><mxCell id="1" parent="0"/>` +
		`<mxCell id="n_A" value="Cache &amp; Queue" style="rounded=1;" vertex="1" parent="1">` +
		`<mxGeometry x="10" y="10" width="160" height="60" as="geometry"/></mxCell>` +
		`<mxCell id="n_B" value="R & D" style="rounded=1;" vertex="1" parent="1">` +
		`<mxGeometry x="210" y="10" width="160" height="60" as="geometry"/></mxCell>` +
		`</root></mxGraphModel>` + "\n```"

	d, err := ParseModel([]byte(xml))
	if err != nil {
		t.Fatalf("ParseModel() error: %v", err)
	}
	a, _ := d.Shape("n_A")
	if a.Label != "Cache & Queue" {
		t.Errorf("entity label = %q", a.Label)
	}
	b, _ := d.Shape("n_B")
	if b.Label != "R & D" {
		t.Errorf("bare-ampersand label = %q", b.Label)
	}
}

func TestParseModelRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "not xml at all", "<svg></svg>"} {
		if _, err := ParseModel([]byte(in)); !errors.Is(err, ErrNoModel) {
			t.Errorf("ParseModel(%q) error = %v, want ErrNoModel", in, err)
		}
	}
}

func TestLuminance(t *testing.T) {
	tests := []struct {
		hex  string
		dark bool
	}{
		{"#000000", true},
		{"#FFFFFF", false},
		{"#2C3E50", true},
		{"#F0F7FF", false},
		{"#fff", false},
	}
	for _, tt := range tests {
		if got := IsDark(tt.hex, 0.5); got != tt.dark {
			t.Errorf("IsDark(%q) = %v, want %v", tt.hex, got, tt.dark)
		}
	}
	if _, ok := Luminance("nope"); ok {
		t.Error("Luminance should reject non-hex input")
	}
}
