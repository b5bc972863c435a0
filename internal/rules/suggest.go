package rules

import (
	"fmt"

	"github.com/cloudist-io/cloudist/internal/graph"
)

// Suggestions inspects the graph for nodes whose required relationships are
// not satisfied and returns human-readable advisory strings. Two cases are
// covered: the required target kind exists in the graph but the node is not
// connected to any instance of it, and the required target kind is absent
// from the graph entirely. Suggestions are advisory, never errors.
func Suggestions(nodes []graph.ResourceNode, edges []graph.RelationshipEdge, p graph.Provider) []string {
	ix := graph.NewIndex(nodes)
	var out []string
	for i := range nodes {
		node := &nodes[i]
		for _, r := range rulesFor(p) {
			if !r.Required || r.Source != node.ServiceKind {
				continue
			}
			if hasEdgeToKind(node, r, edges, ix) {
				continue
			}
			if kindPresent(nodes, r.Target) {
				out = append(out, fmt.Sprintf("%s %q is not connected to a %s: %s",
					node.ServiceKind, node.DisplayName, r.Target, r.Description))
			} else {
				out = append(out, fmt.Sprintf("add a %s for %s %q: %s",
					r.Target, node.ServiceKind, node.DisplayName, r.Description))
			}
		}
	}
	return out
}

// hasEdgeToKind reports whether node has an edge satisfying rule r, checking
// real edge membership against the graph. Bidirectional rules accept an edge
// in either direction.
func hasEdgeToKind(node *graph.ResourceNode, r Rule, edges []graph.RelationshipEdge, ix *graph.Index) bool {
	for i := range edges {
		e := &edges[i]
		if e.SourceID == node.ID {
			if t, ok := ix.Node(e.TargetID); ok && t.ServiceKind == r.Target {
				return true
			}
		}
		if (r.Bidirectional || e.Bidirectional) && e.TargetID == node.ID {
			if s, ok := ix.Node(e.SourceID); ok && s.ServiceKind == r.Target {
				return true
			}
		}
	}
	return false
}

func kindPresent(nodes []graph.ResourceNode, kind graph.ServiceKind) bool {
	for i := range nodes {
		if nodes[i].ServiceKind == kind {
			return true
		}
	}
	return false
}
