package export

import (
	"fmt"
	"strings"

	"github.com/noder-app/noder-backend/internal/blueprint/domain"
	"github.com/noder-app/noder-backend/internal/blueprint/pinkey"
)

var nodeFill = map[domain.NodeType]string{
	domain.NodeEvent:    "#fde2e2",
	domain.NodeFunction: "#e2ecfd",
	domain.NodeVariable: "#e4f7e7",
	domain.NodeMacro:    "#f1e6fb",
}

// ToDOT renders g as a GraphViz digraph. Exec edges are drawn bold; data
// edges are labelled with their pin type.
func ToDOT(g *domain.Graph, title string) string {
	var b strings.Builder
	b.WriteString("digraph G {\n  rankdir=LR;\n  node [shape=box, style=rounded];\n")
	if title != "" {
		fmt.Fprintf(&b, "  labelloc=\"t\"; label=\"%s\"; fontname=\"Helvetica\";\n", escape(title))
	}

	for _, n := range g.Nodes {
		fill := n.Color
		if fill == "" {
			fill = nodeFill[n.NodeType]
		}
		if fill == "" {
			fill = "#eeeeee"
		}
		fmt.Fprintf(&b, "  \"%s\" [label=\"%s\\n(%s)\", style=\"rounded,filled\", fillcolor=\"%s\", pos=\"%g,%g!\"];\n",
			n.ID, escape(n.Title), n.NodeType, escape(fill), n.Position.X, -n.Position.Y)
	}

	for i, e := range g.Edges {
		_, src := pinkey.Split(e.SourcePinKey)
		_, tgt := pinkey.Split(e.TargetPinKey)
		if e.ControlFlow {
			fmt.Fprintf(&b, "  \"%s\" -> \"%s\" [penwidth=2, tooltip=\"%s -> %s\", id=\"edge%d\"];\n",
				e.SourceNodeID, e.TargetNodeID, src, tgt, i)
			continue
		}
		fmt.Fprintf(&b, "  \"%s\" -> \"%s\" [label=\"%s\", style=dashed, tooltip=\"%s -> %s\", id=\"edge%d\"];\n",
			e.SourceNodeID, e.TargetNodeID, e.PinType, src, tgt, i)
	}

	b.WriteString("}\n")
	return b.String()
}

func escape(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), `"`, `\"`)
}
