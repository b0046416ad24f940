// Package export converts graphs back to the name-addressed payload and
// renders them in other formats.
package export

import (
	"github.com/noder-app/noder-backend/internal/blueprint/domain"
	"github.com/noder-app/noder-backend/internal/blueprint/pinkey"
)

// ToPayload converts g into the payload shape accepted by ingestion. Node
// ids become the temporary ids and pin names are recovered from edge keys,
// so ingesting the result again yields an equivalent graph.
func ToPayload(g *domain.Graph) *domain.RawGraphPayload {
	out := &domain.RawGraphPayload{
		Name:        g.Name,
		Description: g.Description,
		Nodes:       make([]domain.RawNode, 0, len(g.Nodes)),
		Connections: make([]domain.RawConnection, 0, len(g.Edges)),
	}

	for _, n := range g.Nodes {
		pos := n.Position
		out.Nodes = append(out.Nodes, domain.RawNode{
			TemporaryID: n.ID,
			Title:       n.Title,
			NodeType:    n.NodeType,
			Color:       n.Color,
			Inputs:      copyPins(n.Inputs),
			Outputs:     copyPins(n.Outputs),
			Description: n.Description,
			Position:    &pos,
		})
	}

	for _, e := range g.Edges {
		_, src := pinkey.Split(e.SourcePinKey)
		_, tgt := pinkey.Split(e.TargetPinKey)
		out.Connections = append(out.Connections, domain.RawConnection{
			SourceNodeTemporaryID: e.SourceNodeID,
			SourcePinName:         src,
			TargetNodeTemporaryID: e.TargetNodeID,
			TargetPinName:         tgt,
		})
	}
	return out
}

func copyPins(pins []domain.PinSpec) []domain.PinSpec {
	out := make([]domain.PinSpec, len(pins))
	copy(out, pins)
	return out
}
