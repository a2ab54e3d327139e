package plan

import "strings"

// enrichment rules: goal keywords that pull well-known auxiliary groups and
// nodes into a swimlane plan. Best-effort augmentation only; an existing id
// always wins, so enrichment can never violate uniqueness invariants.
var (
	goalGroups = []struct {
		keywords []string
		group    Group
	}{
		{
			keywords: []string{"security", "secure", "zero trust"},
			group:    Group{ID: "SecurityZone", Name: "Security Boundary", Lane: "Platform & Security", Style: GroupStyleDashed},
		},
		{
			keywords: []string{"hybrid", "on-prem", "on premise"},
			group:    Group{ID: "OnPrem", Name: "On-Premise", Lane: "Application", Style: GroupStyleSolid},
		},
		{
			keywords: []string{"partner", "third party"},
			group:    Group{ID: "PartnerZone", Name: "Partner Zone", Lane: "Integration", Style: GroupStyleDashed},
		},
	}

	goalNodes = []struct {
		keywords []string
		node     Node
	}{
		{
			keywords: []string{"event", "async", "message"},
			node:     Node{ID: "EventBus", Name: "Event Bus", Lane: "Integration", Type: "integration"},
		},
		{
			keywords: []string{"api", "rest", "gateway"},
			node:     Node{ID: "APIGateway", Name: "API Gateway", Lane: "Integration", Type: "integration"},
		},
		{
			keywords: []string{"monitor"},
			node:     Node{ID: "Monitoring", Name: "Monitoring", Lane: "Platform & Security", Type: "service"},
		},
	}
)

// enrich scans the goal text and inserts well-known auxiliary groups and
// nodes. Swimlane mode only; never required for correctness.
func enrich(p *Plan, goal string) {
	lower := strings.ToLower(goal)

	for _, rule := range goalGroups {
		if matchesAny(lower, rule.keywords) && !p.HasGroup(rule.group.ID) {
			p.Groups = append(p.Groups, rule.group)
		}
	}
	for _, rule := range goalNodes {
		if !matchesAny(lower, rule.keywords) {
			continue
		}
		if _, exists := p.Node(rule.node.ID); !exists {
			p.Nodes = append(p.Nodes, rule.node)
		}
	}
}

func matchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
