package mapper

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/noder-app/noder-backend/internal/blueprint/domain"
	"github.com/noder-app/noder-backend/internal/blueprint/pinkey"
)

// Mapper turns a typed payload into a graph with real identifiers.
// The zero value is not usable; use New.
type Mapper struct {
	newID func() string
}

func New() *Mapper {
	return &Mapper{newID: uuid.NewString}
}

// NewWithIDs is New with a caller-supplied id generator.
func NewWithIDs(fn func() string) *Mapper {
	return &Mapper{newID: fn}
}

// Map builds the graph for p. It never fails: connections that cannot be
// resolved are skipped and reported as warnings. Node positions are copied
// from the payload when present and left at the origin otherwise.
func (m *Mapper) Map(p *domain.RawGraphPayload) *domain.IngestResult {
	res := &domain.IngestResult{
		Graph:    domain.NewGraph(p.Name, p.Description),
		Warnings: []domain.Warning{},
	}

	idMap := m.buildNodes(p.Nodes, res)

	byID := make(map[string]int, len(res.Graph.Nodes))
	for i := range res.Graph.Nodes {
		byID[res.Graph.Nodes[i].ID] = i
	}

	for i, c := range p.Connections {
		edge, w := m.resolve(i, c, idMap, byID, res.Graph.Nodes)
		if w != nil {
			res.Warnings = append(res.Warnings, *w)
			continue
		}
		res.Graph.Edges = append(res.Graph.Edges, edge)
	}
	return res
}

// buildNodes mints one real id per distinct temporary id. When a temporary
// id repeats, the last node carrying it wins and earlier ones are dropped.
func (m *Mapper) buildNodes(nodes []domain.RawNode, res *domain.IngestResult) map[string]string {
	last := make(map[string]int, len(nodes))
	for i, n := range nodes {
		last[n.TemporaryID] = i
	}

	idMap := make(map[string]string, len(last))
	for i, n := range nodes {
		if last[n.TemporaryID] != i {
			res.Warnings = append(res.Warnings, domain.Warning{
				Kind:    domain.WarnDuplicateNode,
				Index:   i,
				Message: fmt.Sprintf("node %q repeats temporary id %q; later node kept", n.Title, n.TemporaryID),
			})
			continue
		}

		id := m.newID()
		idMap[n.TemporaryID] = id

		gn := domain.GraphNode{
			ID:          id,
			Title:       n.Title,
			NodeType:    n.NodeType,
			Color:       n.Color,
			Description: n.Description,
			Inputs:      clonePins(n.Inputs),
			Outputs:     clonePins(n.Outputs),
		}
		if n.Position != nil {
			gn.Position = *n.Position
		}
		res.Graph.Nodes = append(res.Graph.Nodes, gn)

		for _, pin := range append(append([]domain.PinSpec{}, gn.Inputs...), gn.Outputs...) {
			if !pin.Type.Known() {
				res.Warnings = append(res.Warnings, domain.Warning{
					Kind:    domain.WarnUnknownType,
					Index:   i,
					Message: fmt.Sprintf("node %q pin %q has unknown type %q", n.Title, pin.Name, pin.Type),
				})
			}
		}
	}
	return idMap
}

func (m *Mapper) resolve(i int, c domain.RawConnection, idMap map[string]string, byID map[string]int, nodes []domain.GraphNode) (domain.GraphEdge, *domain.Warning) {
	srcID, ok := idMap[c.SourceNodeTemporaryID]
	if !ok {
		return domain.GraphEdge{}, warn(domain.WarnUnknownNode, i, "source node %q not found", c.SourceNodeTemporaryID)
	}
	tgtID, ok := idMap[c.TargetNodeTemporaryID]
	if !ok {
		return domain.GraphEdge{}, warn(domain.WarnUnknownNode, i, "target node %q not found", c.TargetNodeTemporaryID)
	}

	src := nodes[byID[srcID]]
	tgt := nodes[byID[tgtID]]

	si := pinkey.Find(src.Outputs, c.SourcePinName)
	if si < 0 {
		return domain.GraphEdge{}, warn(domain.WarnUnknownPin, i, "output pin %q not found on %q", c.SourcePinName, src.Title)
	}
	ti := pinkey.Find(tgt.Inputs, c.TargetPinName)
	if ti < 0 {
		return domain.GraphEdge{}, warn(domain.WarnUnknownPin, i, "input pin %q not found on %q", c.TargetPinName, tgt.Title)
	}

	sp, tp := src.Outputs[si], tgt.Inputs[ti]
	if !Compatible(sp.Type, tp.Type) {
		return domain.GraphEdge{}, warn(domain.WarnTypeMismatch, i, "cannot connect %s pin %q to %s pin %q", sp.Type, sp.Name, tp.Type, tp.Name)
	}

	return domain.GraphEdge{
		ID:           m.newID(),
		SourceNodeID: srcID,
		SourcePinKey: pinkey.Key(sp.Type, sp.Name),
		TargetNodeID: tgtID,
		TargetPinKey: pinkey.Key(tp.Type, tp.Name),
		PinType:      sp.Type,
		ControlFlow:  sp.Type.IsExec(),
	}, nil
}

// Compatible reports whether an output of type out may feed an input of
// type in: both exec, or the same data type.
func Compatible(out, in domain.PinType) bool {
	if out.IsExec() || in.IsExec() {
		return out.IsExec() && in.IsExec()
	}
	return out == in
}

func warn(kind domain.WarningKind, i int, format string, args ...any) *domain.Warning {
	return &domain.Warning{Kind: kind, Index: i, Message: fmt.Sprintf(format, args...)}
}

func clonePins(pins []domain.PinSpec) []domain.PinSpec {
	out := make([]domain.PinSpec, len(pins))
	copy(out, pins)
	return out
}
