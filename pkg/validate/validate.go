// Package validate runs local quality checks over serialized diagram XML.
//
// Validation is advisory and never fails: every problem becomes an Issue in
// the report, and the report is OK exactly when the issue list is empty.
// Severity only grades how bad a finding is; any finding at all fails the
// report, since callers retry generation off the boolean. Checks operate on
// the XML alone so externally produced diagrams can be validated too.
package validate

import (
	"fmt"
	"strings"

	"github.com/archgen/archgen/pkg/document"
)

// Severity classifies an issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single finding.
type Issue struct {
	Severity Severity `json:"severity"`
	Check    string   `json:"check"`
	Message  string   `json:"message"`
}

// Report is the outcome of validating one diagram.
type Report struct {
	OK     bool    `json:"ok"`
	Issues []Issue `json:"issues"`
}

// contrast threshold; the same constant the synthesizer picks fonts with, so
// the two stages never disagree about a borderline fill
const contrastThreshold = 0.45

// arrow styles accepted on connectors
var knownArrows = map[string]bool{
	"block":     true,
	"blockThin": true,
	"classic":   true,
	"open":      true,
}

// goal keywords that imply a component kind should appear in the diagram
var goalExpectations = []struct {
	keyword string
	want    string // substring of a node label or id, lowercased
	message string
}{
	{"event", "event", "goal mentions events but no event component is present"},
	{"api", "api", "goal mentions an API but no API component is present"},
	{"monitor", "monitor", "goal mentions monitoring but no monitoring component is present"},
	{"secur", "secur", "goal mentions security but no security component is present"},
}

// Check validates diagram XML against the stated goal. It never returns an
// error; unparseable input yields a failed report with a single issue.
func Check(diagram []byte, goal string) Report {
	var r Report
	doc, err := document.ParseModel(diagram)
	if err != nil {
		r.add(SeverityError, "model", "no mxGraphModel element found")
		return r
	}

	checkStructure(&r, doc)
	checkArrows(&r, doc)
	checkOverlap(&r, doc)
	checkColors(&r, doc)
	checkGoal(&r, doc, goal)

	r.OK = len(r.Issues) == 0
	return r
}

func (r *Report) add(sev Severity, check, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Severity: sev,
		Check:    check,
		Message:  fmt.Sprintf(format, args...),
	})
}

// nodeShapes filters to component boxes: full-opacity vertices that are not
// free text. Lane stripes, legend chrome, and deliberately unfilled container
// frames (fillColor=none) are excluded; a node-like shape with no fillColor
// at all stays in the set so checkColors can flag it.
func nodeShapes(doc *document.Document) []document.Shape {
	var out []document.Shape
	for _, s := range doc.Shapes {
		if s.Kind == document.KindLabel {
			continue
		}
		if s.Style.Has("opacity") {
			continue
		}
		if s.Style.Get("fillColor") == "none" {
			continue
		}
		if !s.Style.Flag("rounded") && !s.Style.Has("shape") {
			continue
		}
		out = append(out, s)
	}
	return out
}

func checkStructure(r *Report, doc *document.Document) {
	nodes := nodeShapes(doc)
	if len(nodes) == 0 {
		r.add(SeverityError, "structure", "diagram contains no component nodes")
	}
	if len(doc.Edges) == 0 {
		r.add(SeverityError, "structure", "diagram contains no edges")
	}
	for _, e := range doc.Edges {
		if _, ok := doc.Shape(e.From); !ok {
			r.add(SeverityError, "structure", "edge %s references missing source %s", e.ID, e.From)
		}
		if _, ok := doc.Shape(e.To); !ok {
			r.add(SeverityError, "structure", "edge %s references missing target %s", e.ID, e.To)
		}
	}
}

// checkArrows requires every connector to declare a recognized arrowhead.
func checkArrows(r *Report, doc *document.Document) {
	for _, e := range doc.Edges {
		arrow := e.Style.Get("endArrow")
		if arrow == "" {
			r.add(SeverityWarning, "arrows", "edge %s missing endArrow", e.ID)
			continue
		}
		if !knownArrows[arrow] {
			r.add(SeverityWarning, "arrows", "edge %s uses unknown arrow style %q", e.ID, arrow)
		}
	}
}

// checkOverlap flags intersecting component boxes. Touching edges are fine;
// any positive-area intersection is an error.
func checkOverlap(r *Report, doc *document.Document) {
	nodes := nodeShapes(doc)
	for i, a := range nodes {
		for _, b := range nodes[i+1:] {
			if a.X < b.X+b.W && b.X < a.X+a.W &&
				a.Y < b.Y+b.H && b.Y < a.Y+a.H {
				r.add(SeverityError, "overlap", "shapes %s and %s overlap", a.ID, b.ID)
			}
		}
	}
}

func checkColors(r *Report, doc *document.Document) {
	for _, s := range nodeShapes(doc) {
		if !s.Style.Has("fillColor") {
			r.add(SeverityWarning, "colors", "node %s missing fillColor", s.ID)
			continue
		}
		fill := s.Style.Get("fillColor")
		lum, ok := document.Luminance(fill)
		if !ok {
			r.add(SeverityWarning, "colors", "shape %s has unparseable fill %q", s.ID, fill)
			continue
		}
		font := s.Style.Get("fontColor")
		if font == "" || s.Label == "" {
			continue
		}
		fontLum, ok := document.Luminance(font)
		if !ok {
			continue
		}
		darkFill := lum < contrastThreshold
		darkFont := fontLum < contrastThreshold
		if darkFill == darkFont {
			r.add(SeverityWarning, "contrast", "shape %s: font %s is hard to read on fill %s", s.ID, font, fill)
		}
	}
}

// checkGoal verifies that component kinds implied by goal keywords actually
// made it into the diagram.
func checkGoal(r *Report, doc *document.Document, goal string) {
	lower := strings.ToLower(goal)
	for _, exp := range goalExpectations {
		if !strings.Contains(lower, exp.keyword) {
			continue
		}
		found := false
		for _, s := range doc.Shapes {
			if strings.Contains(strings.ToLower(s.Label), exp.want) ||
				strings.Contains(strings.ToLower(s.ID), exp.want) {
				found = true
				break
			}
		}
		if !found {
			r.add(SeverityWarning, "goal", "%s", exp.message)
		}
	}
}
