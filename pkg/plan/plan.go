// Package plan defines the architecture plan model and the normalization
// pipeline that turns untrusted, frequently malformed plan objects into
// canonical, renderable structures.
//
// Plans originate from a non-deterministic generator, so everything here is
// defensive: recovery parsing accepts fenced/prefixed/broken JSON, and
// normalization silently repairs partial malformation (missing lists, unknown
// ids, duplicates) rather than failing. The only hard error is input that is
// not a JSON object at all.
package plan

import (
	"encoding/json"
	"slices"
	"strings"
)

// Mode selects one of the two normalization/layout policies.
//
// The two modes differ deliberately: swimlane keys edge deduplication on
// (from, to, label) and leaves node count uncapped, while flowchart keys on
// (from, to) and caps nodes at MaxFlowchartNodes. Display truncation also
// differs (20 vs 18 runes).
type Mode string

const (
	// ModeSwimlane lays nodes out in horizontal architecture lanes.
	ModeSwimlane Mode = "swimlane"

	// ModeFlowchart lays nodes out in BFS layers of a directed graph.
	ModeFlowchart Mode = "flowchart"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeSwimlane || m == ModeFlowchart
}

// Display and cardinality limits per mode.
const (
	// MaxFlowchartNodes caps plan size in flowchart mode. Lowest-connectivity
	// nodes are dropped first when exceeded.
	MaxFlowchartNodes = 8

	// SwimlaneNameLimit is the node display-name limit in swimlane mode.
	SwimlaneNameLimit = 20

	// FlowchartNameLimit is the node display-name limit in flowchart mode.
	FlowchartNameLimit = 18

	// EdgeLabelLimit is the edge label display limit in both modes.
	EdgeLabelLimit = 15

	// TitleLimit is the maximum title length derived from a goal text.
	TitleLimit = 60
)

// Ellipsis marks truncated display strings.
const Ellipsis = "…"

// Group styles.
const (
	GroupStyleDashed = "dashed"
	GroupStyleSolid  = "solid"
)

// Group is a labeled container clustering a subset of nodes.
type Group struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Lane  string `json:"lane,omitempty"`
	Style string `json:"style"` // "dashed" or "solid"
}

// Node is a single architecture component.
type Node struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Lane     string `json:"lane,omitempty"`
	Type     string `json:"type"`
	Group    string `json:"group,omitempty"` // back-reference to a Group id
	External bool   `json:"external,omitempty"`
}

// Edge is a directed, optionally labeled connection between two nodes.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

// Plan is the canonical, invariant-satisfying architecture plan produced by
// Normalize. Invariants: node and group ids are unique, every edge endpoint
// exists in Nodes, and all display strings respect the mode's length limits.
type Plan struct {
	Title  string   `json:"title"`
	Lanes  []string `json:"lanes"`
	Groups []Group  `json:"groups"`
	Nodes  []Node   `json:"nodes"`
	Edges  []Edge   `json:"edges"`
	Legend bool     `json:"legend"`
}

// Node returns the node with the given id, if present.
func (p *Plan) Node(id string) (Node, bool) {
	for _, n := range p.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Group returns the group with the given id, if present.
func (p *Plan) Group(id string) (Group, bool) {
	for _, g := range p.Groups {
		if g.ID == id {
			return g, true
		}
	}
	return Group{}, false
}

// HasGroup reports whether a group with the given id exists.
func (p *Plan) HasGroup(id string) bool {
	_, ok := p.Group(id)
	return ok
}

// Members returns the nodes assigned to the given group, in plan order.
func (p *Plan) Members(groupID string) []Node {
	var out []Node
	for _, n := range p.Nodes {
		if n.Group == groupID {
			out = append(out, n)
		}
	}
	return out
}

// Marshal serializes the plan as indented JSON. The output is stable for a
// given plan, making regenerations of the same input diffable.
func (p *Plan) Marshal() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// Truncate cuts s to at most limit runes, marking the cut with an ellipsis.
// The result never exceeds limit runes, so truncation is idempotent.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + Ellipsis
}

// tokens splits s into lowercased alphanumeric words.
func tokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
}

// containsToken reports whether any token of the given strings appears in
// the keyword list.
func containsToken(keywords func(string) bool, ss ...string) bool {
	for _, s := range ss {
		if slices.ContainsFunc(tokens(s), keywords) {
			return true
		}
	}
	return false
}
