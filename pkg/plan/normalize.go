package plan

import (
	"sort"
	"strings"

	"github.com/archgen/archgen/pkg/theme"
)

// Normalize repairs an untrusted plan object into a canonical Plan.
//
// Partial malformation is never an error: missing or wrong-typed lists become
// empty, duplicate ids collapse to their first occurrence, edges referencing
// unknown nodes are dropped, over-long display strings are truncated, and in
// flowchart mode the node count is capped at MaxFlowchartNodes by dropping the
// least-connected nodes. Nodes whose id or name matches the infrastructure
// container vocabulary are demoted to groups.
//
// Normalize is idempotent on canonical plans: re-normalizing its own output
// yields an identical plan.
func Normalize(goal string, raw Raw, mode Mode, th *theme.Theme) Plan {
	p := Plan{
		Title:  titleFor(asString(raw["title"]), goal),
		Lanes:  coerceLanes(raw["lanes"]),
		Groups: coerceGroups(raw["groups"]),
		Nodes:  coerceNodes(raw["nodes"]),
		Edges:  coerceEdges(raw["edges"]),
		Legend: asBoolDefault(raw["legend"], true),
	}

	demoteContainers(&p, th)
	pruneEdges(&p, mode)

	if mode == ModeFlowchart {
		capNodes(&p, MaxFlowchartNodes)
		pruneEdges(&p, mode)
	}

	truncatePlan(&p, mode)

	if mode == ModeSwimlane {
		enrich(&p, goal)
	}

	if len(p.Lanes) == 0 {
		p.Lanes = append(p.Lanes, th.DefaultLanes...)
	}
	return p
}

// titleFor returns the declared title, or one derived from the goal text.
func titleFor(title, goal string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	if g := strings.TrimSpace(goal); g != "" {
		return Truncate(g, TitleLimit)
	}
	return "Architecture Diagram"
}

// demoteContainers converts nodes matching the container vocabulary into
// groups. A demoted node's id becomes the group id (skipped when a group with
// that id already exists) and its name the group display name.
func demoteContainers(p *Plan, th *theme.Theme) {
	kept := p.Nodes[:0]
	for _, n := range p.Nodes {
		if !containsToken(th.IsContainerKeyword, n.ID, n.Name) {
			kept = append(kept, n)
			continue
		}
		if !p.HasGroup(n.ID) {
			p.Groups = append(p.Groups, Group{
				ID:    n.ID,
				Name:  n.Name,
				Lane:  n.Lane,
				Style: GroupStyleDashed,
			})
		}
	}
	p.Nodes = kept
	pruneGroupRefs(p)
}

// pruneGroupRefs clears node group references that point at no known group.
func pruneGroupRefs(p *Plan) {
	for i, n := range p.Nodes {
		if n.Group != "" && !p.HasGroup(n.Group) {
			p.Nodes[i].Group = ""
		}
	}
}

// pruneEdges drops edges with unknown endpoints and deduplicates the rest.
// The deduplication key is mode-dependent: swimlane keeps label-distinct
// parallels, flowchart collapses them.
func pruneEdges(p *Plan, mode Mode) {
	ids := make(map[string]bool, len(p.Nodes))
	for _, n := range p.Nodes {
		ids[n.ID] = true
	}

	type key struct{ from, to, label string }
	seen := make(map[key]bool, len(p.Edges))

	kept := p.Edges[:0]
	for _, e := range p.Edges {
		if !ids[e.From] || !ids[e.To] {
			continue
		}
		k := key{e.From, e.To, ""}
		if mode == ModeSwimlane {
			k.label = e.Label
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		kept = append(kept, e)
	}
	p.Edges = kept
}

// capNodes keeps only the max highest-connectivity nodes, ranking by incident
// edge count descending with original order as the tiebreak.
func capNodes(p *Plan, max int) {
	if len(p.Nodes) <= max {
		return
	}

	degree := make(map[string]int, len(p.Nodes))
	for _, e := range p.Edges {
		degree[e.From]++
		degree[e.To]++
	}

	order := make([]int, len(p.Nodes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return degree[p.Nodes[order[a]].ID] > degree[p.Nodes[order[b]].ID]
	})

	keep := make(map[int]bool, max)
	for _, idx := range order[:max] {
		keep[idx] = true
	}

	kept := p.Nodes[:0]
	for i, n := range p.Nodes {
		if keep[i] {
			kept = append(kept, n)
		}
	}
	p.Nodes = kept
}

// truncatePlan enforces the mode's display-length limits.
func truncatePlan(p *Plan, mode Mode) {
	limit := SwimlaneNameLimit
	if mode == ModeFlowchart {
		limit = FlowchartNameLimit
	}
	for i := range p.Nodes {
		p.Nodes[i].Name = Truncate(p.Nodes[i].Name, limit)
	}
	for i := range p.Groups {
		p.Groups[i].Name = Truncate(p.Groups[i].Name, limit)
	}
	for i := range p.Edges {
		p.Edges[i].Label = Truncate(p.Edges[i].Label, EdgeLabelLimit)
	}
}

// =============================================================================
// Coercion helpers - wrong-typed input degrades to zero values, never errors
// =============================================================================

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asList(v any) []any {
	l, _ := v.([]any)
	return l
}

func asObject(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asBoolDefault(v any, def bool) bool {
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

func coerceLanes(v any) []string {
	var lanes []string
	seen := make(map[string]bool)
	for _, item := range asList(v) {
		name := strings.TrimSpace(asString(item))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		lanes = append(lanes, name)
	}
	return lanes
}

func coerceGroups(v any) []Group {
	var groups []Group
	seen := make(map[string]bool)
	for _, item := range asList(v) {
		obj := asObject(item)
		id := strings.TrimSpace(asString(obj["id"]))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		g := Group{
			ID:    id,
			Name:  strings.TrimSpace(asString(obj["name"])),
			Lane:  strings.TrimSpace(asString(obj["lane"])),
			Style: GroupStyleDashed,
		}
		if g.Name == "" {
			g.Name = id
		}
		if asString(obj["style"]) == GroupStyleSolid {
			g.Style = GroupStyleSolid
		}
		groups = append(groups, g)
	}
	return groups
}

func coerceNodes(v any) []Node {
	var nodes []Node
	seen := make(map[string]bool)
	for _, item := range asList(v) {
		obj := asObject(item)
		id := strings.TrimSpace(asString(obj["id"]))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		n := Node{
			ID:    id,
			Name:  strings.TrimSpace(asString(obj["name"])),
			Lane:  strings.TrimSpace(asString(obj["lane"])),
			Type:  strings.ToLower(strings.TrimSpace(asString(obj["type"]))),
			Group: strings.TrimSpace(asString(obj["group"])),
		}
		if n.Name == "" {
			n.Name = id
		}
		if n.Type == "" {
			n.Type = "default"
		}
		scope := strings.ToLower(strings.TrimSpace(asString(obj["scope"])))
		n.External = n.Type == "external" || scope == "external" || asBoolDefault(obj["external"], false)
		nodes = append(nodes, n)
	}
	return nodes
}

func coerceEdges(v any) []Edge {
	var edges []Edge
	for _, item := range asList(v) {
		obj := asObject(item)
		from := strings.TrimSpace(asString(obj["from"]))
		to := strings.TrimSpace(asString(obj["to"]))
		if from == "" || to == "" {
			continue
		}
		edges = append(edges, Edge{
			From:  from,
			To:    to,
			Label: strings.TrimSpace(asString(obj["label"])),
		})
	}
	return edges
}
