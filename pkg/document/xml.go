package document

import (
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"strings"
)

// ErrNoModel is returned when the input contains no mxGraphModel element.
var ErrNoModel = errors.New("document: no mxGraphModel element found")

// =============================================================================
// Wire structs - the mxGraphModel interchange schema
// =============================================================================

type mxGraphModel struct {
	XMLName    xml.Name `xml:"mxGraphModel"`
	DX         float64  `xml:"dx,attr"`
	DY         float64  `xml:"dy,attr"`
	Grid       string   `xml:"grid,attr,omitempty"`
	PageWidth  float64  `xml:"pageWidth,attr,omitempty"`
	PageHeight float64  `xml:"pageHeight,attr,omitempty"`
	Root       mxRoot   `xml:"root"`
}

type mxRoot struct {
	Cells []mxCell `xml:"mxCell"`
}

type mxCell struct {
	ID       string      `xml:"id,attr"`
	Value    string      `xml:"value,attr,omitempty"`
	Style    string      `xml:"style,attr,omitempty"`
	Vertex   string      `xml:"vertex,attr,omitempty"`
	Edge     string      `xml:"edge,attr,omitempty"`
	Parent   string      `xml:"parent,attr,omitempty"`
	Source   string      `xml:"source,attr,omitempty"`
	Target   string      `xml:"target,attr,omitempty"`
	Geometry *mxGeometry `xml:"mxGeometry,omitempty"`
}

type mxGeometry struct {
	X        float64 `xml:"x,attr,omitempty"`
	Y        float64 `xml:"y,attr,omitempty"`
	W        float64 `xml:"width,attr,omitempty"`
	H        float64 `xml:"height,attr,omitempty"`
	Relative string  `xml:"relative,attr,omitempty"`
	As       string  `xml:"as,attr"`
}

type mxFile struct {
	XMLName  xml.Name `xml:"mxfile"`
	Diagrams []struct {
		Inner string `xml:",innerxml"`
	} `xml:"diagram"`
}

// =============================================================================
// Marshal
// =============================================================================

// Marshal serializes the document as an mxGraphModel XML fragment. The two
// reserved root cells "0" and "1" are always emitted first; every shape and
// edge parents onto "1".
func (d *Document) Marshal() ([]byte, error) {
	model := mxGraphModel{
		DX:         d.Width,
		DY:         d.Height,
		Grid:       "0",
		PageWidth:  d.Width,
		PageHeight: d.Height,
	}
	model.Root.Cells = []mxCell{
		{ID: "0"},
		{ID: "1", Parent: "0"},
	}

	for _, s := range d.Shapes {
		model.Root.Cells = append(model.Root.Cells, mxCell{
			ID:     s.ID,
			Value:  s.Label,
			Style:  s.Style.Encode(),
			Vertex: "1",
			Parent: "1",
			Geometry: &mxGeometry{
				X: s.X, Y: s.Y, W: s.W, H: s.H,
				As: "geometry",
			},
		})
	}
	for _, e := range d.Edges {
		model.Root.Cells = append(model.Root.Cells, mxCell{
			ID:       e.ID,
			Style:    e.Style.Encode(),
			Edge:     "1",
			Parent:   "1",
			Source:   e.From,
			Target:   e.To,
			Geometry: &mxGeometry{Relative: "1", As: "geometry"},
		})
	}

	out, err := xml.MarshalIndent(model, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("document: marshal: %w", err)
	}
	return out, nil
}

// =============================================================================
// Parse
// =============================================================================

// ParseModel decodes diagram XML back into a Document. The input is treated
// as untrusted: surrounding markdown code fences are stripped, bare
// ampersands are repaired, and an mxfile wrapper (with the model either
// nested or embedded as escaped text inside <diagram>) is unwrapped.
func ParseModel(data []byte) (*Document, error) {
	s := repairAmpersands(stripFences(string(data)))

	var model mxGraphModel
	if err := xml.Unmarshal([]byte(s), &model); err == nil {
		return fromModel(model), nil
	}

	var file mxFile
	if err := xml.Unmarshal([]byte(s), &file); err == nil {
		for _, dia := range file.Diagrams {
			inner := dia.Inner
			if !strings.Contains(inner, "<mxGraphModel") {
				inner = html.UnescapeString(inner)
			}
			if err := xml.Unmarshal([]byte(inner), &model); err == nil {
				return fromModel(model), nil
			}
		}
	}
	return nil, ErrNoModel
}

func fromModel(model mxGraphModel) *Document {
	d := &Document{Width: model.DX, Height: model.DY}
	for _, c := range model.Root.Cells {
		switch {
		case c.Vertex == "1":
			st := ParseStyle(c.Style)
			s := Shape{ID: c.ID, Kind: kindOf(st), Label: c.Value, Style: st}
			if g := c.Geometry; g != nil {
				s.X, s.Y, s.W, s.H = g.X, g.Y, g.W, g.H
			}
			d.Shapes = append(d.Shapes, s)
		case c.Edge == "1":
			d.Edges = append(d.Edges, Edge{
				ID:    c.ID,
				From:  c.Source,
				To:    c.Target,
				Style: ParseStyle(c.Style),
			})
		}
	}
	return d
}

// stripFences removes a surrounding markdown code fence.
func stripFences(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	lines := strings.Split(t, "\n")
	lines = lines[1:]
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// repairAmpersands escapes ampersands that do not begin a valid entity.
func repairAmpersands(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '&' {
			b.WriteByte(s[i])
			continue
		}
		if isEntityStart(s[i:]) {
			b.WriteByte('&')
			continue
		}
		b.WriteString("&amp;")
	}
	return b.String()
}

// isEntityStart reports whether s begins with a well-formed XML entity.
func isEntityStart(s string) bool {
	end := strings.IndexByte(s, ';')
	if end <= 1 || end > 10 {
		return false
	}
	body := s[1:end]
	switch body {
	case "amp", "lt", "gt", "quot", "apos":
		return true
	}
	if len(body) > 1 && body[0] == '#' {
		for _, r := range body[1:] {
			if !('0' <= r && r <= '9' || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F' || r == 'x') {
				return false
			}
		}
		return true
	}
	return false
}
