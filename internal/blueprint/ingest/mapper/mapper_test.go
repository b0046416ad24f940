package mapper

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noder-app/noder-backend/internal/blueprint/domain"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func beginPlayPrint() *domain.RawGraphPayload {
	return &domain.RawGraphPayload{
		Nodes: []domain.RawNode{
			{TemporaryID: "a", Title: "Event BeginPlay", NodeType: domain.NodeEvent,
				Outputs: []domain.PinSpec{{Name: "Event", Type: domain.PinExec}}},
			{TemporaryID: "b", Title: "Print String", NodeType: domain.NodeFunction,
				Inputs: []domain.PinSpec{{Name: "Execute", Type: domain.PinExec}, {Name: "In String", Type: domain.PinString}}},
		},
		Connections: []domain.RawConnection{
			{SourceNodeTemporaryID: "a", SourcePinName: "Event", TargetNodeTemporaryID: "b", TargetPinName: "Execute"},
		},
	}
}

func TestMap_ControlFlowEdge(t *testing.T) {
	res := NewWithIDs(seqIDs()).Map(beginPlayPrint())

	require.Len(t, res.Graph.Nodes, 2)
	require.Len(t, res.Graph.Edges, 1)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, domain.DefaultBlueprintName, res.Graph.Name)

	e := res.Graph.Edges[0]
	assert.Equal(t, "id-1", e.SourceNodeID)
	assert.Equal(t, "id-2", e.TargetNodeID)
	assert.Equal(t, "exec-event", e.SourcePinKey)
	assert.Equal(t, "exec-execute", e.TargetPinKey)
	assert.True(t, e.ControlFlow)
	assert.Equal(t, "id-3", e.ID)
}

func TestMap_NodesCarryPayloadFields(t *testing.T) {
	p := beginPlayPrint()
	p.Name = "Greeter"
	p.Nodes[1].Color = "#3b82f6"
	p.Nodes[1].Description = "prints"

	res := New().Map(p)
	n := res.Graph.Nodes[1]
	assert.Equal(t, "Greeter", res.Graph.Name)
	assert.Equal(t, "Print String", n.Title)
	assert.Equal(t, domain.NodeFunction, n.NodeType)
	assert.Equal(t, "#3b82f6", n.Color)
	assert.Equal(t, "prints", n.Description)
	assert.NotNil(t, res.Graph.Nodes[0].Inputs)
	assert.Len(t, n.Inputs, 2)
}

func TestMap_IDsAreUniqueAndNotTemporary(t *testing.T) {
	res := New().Map(beginPlayPrint())
	seen := map[string]bool{}
	for _, n := range res.Graph.Nodes {
		assert.NotEqual(t, "a", n.ID)
		assert.NotEqual(t, "b", n.ID)
		assert.False(t, seen[n.ID])
		seen[n.ID] = true
	}
}

func TestMap_DataTypeMismatchSkipped(t *testing.T) {
	p := &domain.RawGraphPayload{
		Nodes: []domain.RawNode{
			{TemporaryID: "get", Title: "Get Health", NodeType: domain.NodeVariable,
				Outputs: []domain.PinSpec{{Name: "Health", Type: domain.PinFloat}}},
			{TemporaryID: "print", Title: "Print String", NodeType: domain.NodeFunction,
				Inputs: []domain.PinSpec{{Name: "In String", Type: domain.PinString}}},
		},
		Connections: []domain.RawConnection{
			{SourceNodeTemporaryID: "get", SourcePinName: "Health", TargetNodeTemporaryID: "print", TargetPinName: "In String"},
		},
	}

	res := New().Map(p)
	assert.Len(t, res.Graph.Nodes, 2)
	assert.Empty(t, res.Graph.Edges)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, domain.WarnTypeMismatch, res.Warnings[0].Kind)
	assert.Equal(t, 0, res.Warnings[0].Index)
	assert.ErrorIs(t, res.Warnings[0].Err(), domain.ErrUnresolvedConnection)
}

func TestMap_UnknownNodeSkipped(t *testing.T) {
	p := beginPlayPrint()
	p.Connections = append(p.Connections, domain.RawConnection{
		SourceNodeTemporaryID: "a", SourcePinName: "Event", TargetNodeTemporaryID: "zzz", TargetPinName: "Execute",
	})

	res := New().Map(p)
	assert.Len(t, res.Graph.Edges, 1)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, domain.WarnUnknownNode, res.Warnings[0].Kind)
	assert.Equal(t, 1, res.Warnings[0].Index)
}

func TestMap_UnknownPinSkipped(t *testing.T) {
	p := beginPlayPrint()
	p.Connections[0].TargetPinName = "Nonexistent"

	res := New().Map(p)
	assert.Empty(t, res.Graph.Edges)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, domain.WarnUnknownPin, res.Warnings[0].Kind)
}

func TestMap_PinDirectionMatters(t *testing.T) {
	p := beginPlayPrint()
	// Execute is an input of b, not an output
	p.Connections[0] = domain.RawConnection{
		SourceNodeTemporaryID: "b", SourcePinName: "Execute", TargetNodeTemporaryID: "a", TargetPinName: "Event",
	}

	res := New().Map(p)
	assert.Empty(t, res.Graph.Edges)
	assert.Equal(t, domain.WarnUnknownPin, res.Warnings[0].Kind)
}

func TestMap_ExecToDataRejected(t *testing.T) {
	assert.True(t, Compatible(domain.PinExec, domain.PinExec))
	assert.True(t, Compatible(domain.PinFloat, domain.PinFloat))
	assert.False(t, Compatible(domain.PinExec, domain.PinBool))
	assert.False(t, Compatible(domain.PinBool, domain.PinExec))
	assert.False(t, Compatible(domain.PinInt, domain.PinFloat))
}

func TestMap_DuplicateTemporaryIDLastWins(t *testing.T) {
	p := &domain.RawGraphPayload{
		Nodes: []domain.RawNode{
			{TemporaryID: "x", Title: "First", NodeType: domain.NodeFunction},
			{TemporaryID: "y", Title: "Other", NodeType: domain.NodeFunction,
				Outputs: []domain.PinSpec{{Name: "Then", Type: domain.PinExec}}},
			{TemporaryID: "x", Title: "Second", NodeType: domain.NodeFunction,
				Inputs: []domain.PinSpec{{Name: "Execute", Type: domain.PinExec}}},
		},
		Connections: []domain.RawConnection{
			{SourceNodeTemporaryID: "y", SourcePinName: "Then", TargetNodeTemporaryID: "x", TargetPinName: "Execute"},
		},
	}

	res := New().Map(p)
	require.Len(t, res.Graph.Nodes, 2)
	assert.Equal(t, "Other", res.Graph.Nodes[0].Title)
	assert.Equal(t, "Second", res.Graph.Nodes[1].Title)

	require.Len(t, res.Graph.Edges, 1)
	assert.Equal(t, res.Graph.Nodes[1].ID, res.Graph.Edges[0].TargetNodeID)

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, domain.WarnDuplicateNode, res.Warnings[0].Kind)
	assert.Equal(t, 0, res.Warnings[0].Index)
}

func TestMap_UnknownPinTypeWarnsButKeepsNode(t *testing.T) {
	p := &domain.RawGraphPayload{
		Nodes: []domain.RawNode{
			{TemporaryID: "a", Title: "Weird", NodeType: domain.NodeFunction,
				Outputs: []domain.PinSpec{{Name: "Out", Type: "struct"}}},
			{TemporaryID: "b", Title: "Weirder", NodeType: domain.NodeFunction,
				Inputs: []domain.PinSpec{{Name: "In", Type: "struct"}}},
		},
		Connections: []domain.RawConnection{
			{SourceNodeTemporaryID: "a", SourcePinName: "Out", TargetNodeTemporaryID: "b", TargetPinName: "In"},
		},
	}

	res := New().Map(p)
	assert.Len(t, res.Graph.Nodes, 2)
	assert.Len(t, res.Graph.Edges, 1)
	require.Len(t, res.Warnings, 2)
	for _, w := range res.Warnings {
		assert.Equal(t, domain.WarnUnknownType, w.Kind)
		assert.NotErrorIs(t, w.Err(), domain.ErrUnresolvedConnection)
	}
}

func TestMap_NormalizedPinNameFallback(t *testing.T) {
	p := beginPlayPrint()
	p.Connections[0].SourcePinName = "event"
	p.Connections[0].TargetPinName = "execute"

	res := New().Map(p)
	require.Len(t, res.Graph.Edges, 1)
	assert.Equal(t, "exec-event", res.Graph.Edges[0].SourcePinKey)
}

func TestMap_PositionCopied(t *testing.T) {
	p := beginPlayPrint()
	p.Nodes[0].Position = &domain.Position{X: 42, Y: 7}

	res := New().Map(p)
	assert.Equal(t, domain.Position{X: 42, Y: 7}, res.Graph.Nodes[0].Position)
	assert.True(t, res.Graph.Nodes[1].Position.IsOrigin())
}

func TestMap_DoesNotAliasPayloadPins(t *testing.T) {
	p := beginPlayPrint()
	res := New().Map(p)

	res.Graph.Nodes[1].Inputs[0].Name = "changed"
	assert.Equal(t, "Execute", p.Nodes[1].Inputs[0].Name)
}
