package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/switchyard/pkg/domain"
)

// GraphOverlay contains wizard progress to highlight on the graph.
type GraphOverlay struct {
	VisitedSteps []string
	CurrentStep  string
}

// GenerateMermaid produces a Mermaid flowchart of a flow graph.
// It applies semantic styling:
// - First step: ((Circle))
// - Branching step (more than one way out): {{Hexagon}}
// - Terminal step: ([Stadium])
// - Default: [Rectangle]
// Conditional transitions are labelled with their description, or "when" if they have none.
func GenerateMermaid(g *domain.FlowGraph, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, id := range g.Steps() {
		safeID := sanitizeMermaidID(id)
		out := g.TransitionsFrom(id)

		opener, closer := "[", "]"
		switch {
		case id == g.FirstStep():
			opener, closer = "((", "))"
		case len(out) > 1:
			opener, closer = "{{", "}}"
		case len(out) == 0:
			opener, closer = "([", "])"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, id, closer)

		for _, t := range out {
			arrow := "-->"
			if t.Conditional() {
				label := t.Label
				if label == "" {
					label = "when"
				}
				// Mermaid labels cannot hold double quotes.
				arrow = fmt.Sprintf("-- \"%s\" -->", strings.ReplaceAll(label, "\"", "'"))
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", safeID, arrow, sanitizeMermaidID(t.To))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for contrast on light fills regardless of theme.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.VisitedSteps {
			safeID := sanitizeMermaidID(id)
			if safeID == "" || seen[safeID] {
				continue
			}
			if _, ok := g.Lookup(id); !ok {
				continue
			}
			seen[safeID] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
		}

		if overlay.CurrentStep != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentStep))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
