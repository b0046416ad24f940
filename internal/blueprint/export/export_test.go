package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/noder-app/noder-backend/internal/blueprint/domain"
)

func sampleGraph() *domain.Graph {
	g := domain.NewGraph("Greeter", "prints on start")
	g.Nodes = []domain.GraphNode{
		{ID: "n1", Title: "Event BeginPlay", NodeType: domain.NodeEvent,
			Inputs:   []domain.PinSpec{},
			Outputs:  []domain.PinSpec{{Name: "Event", Type: domain.PinExec}},
			Position: domain.Position{X: 0, Y: 0}},
		{ID: "n2", Title: "Print String", NodeType: domain.NodeFunction, Color: "#3b82f6",
			Inputs:   []domain.PinSpec{{Name: "Execute", Type: domain.PinExec}, {Name: "In String", Type: domain.PinString, Value: "Hello"}},
			Outputs:  []domain.PinSpec{},
			Position: domain.Position{X: 300, Y: 0}},
		{ID: "n3", Title: "Get Greeting", NodeType: domain.NodeVariable,
			Inputs:   []domain.PinSpec{},
			Outputs:  []domain.PinSpec{{Name: "Greeting", Type: domain.PinString}},
			Position: domain.Position{X: 600, Y: 0}},
	}
	g.Edges = []domain.GraphEdge{
		{ID: "e1", SourceNodeID: "n1", SourcePinKey: "exec-event", TargetNodeID: "n2", TargetPinKey: "exec-execute",
			PinType: domain.PinExec, ControlFlow: true},
		{ID: "e2", SourceNodeID: "n3", SourcePinKey: "string-greeting", TargetNodeID: "n2", TargetPinKey: "string-in-string",
			PinType: domain.PinString},
	}
	return g
}

func TestToPayload(t *testing.T) {
	p := ToPayload(sampleGraph())

	assert.Equal(t, "Greeter", p.Name)
	assert.Equal(t, "prints on start", p.Description)
	require.Len(t, p.Nodes, 3)
	assert.Equal(t, "n2", p.Nodes[1].TemporaryID)
	assert.Equal(t, "#3b82f6", p.Nodes[1].Color)
	require.NotNil(t, p.Nodes[1].Position)
	assert.Equal(t, domain.Position{X: 300}, *p.Nodes[1].Position)

	require.Len(t, p.Connections, 2)
	assert.Equal(t, domain.RawConnection{
		SourceNodeTemporaryID: "n3",
		SourcePinName:         "greeting",
		TargetNodeTemporaryID: "n2",
		TargetPinName:         "in-string",
	}, p.Connections[1])
}

func TestToPayload_EmptyGraph(t *testing.T) {
	p := ToPayload(domain.NewGraph("", ""))
	assert.Equal(t, domain.DefaultBlueprintName, p.Name)
	assert.NotNil(t, p.Nodes)
	assert.NotNil(t, p.Connections)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, p))
	assert.Contains(t, buf.String(), `"nodes": []`)
}

func TestToPayload_DoesNotAliasGraph(t *testing.T) {
	g := sampleGraph()
	p := ToPayload(g)
	p.Nodes[1].Inputs[0].Name = "changed"
	p.Nodes[1].Position.X = 1
	assert.Equal(t, "Execute", g.Nodes[1].Inputs[0].Name)
	assert.Equal(t, float64(300), g.Nodes[1].Position.X)
}

func TestWriteJSON_UsesPayloadFieldNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, ToPayload(sampleGraph())))

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	assert.Equal(t, "Greeter", m["blueprintName"])
	conns := m["connections"].([]any)
	first := conns[0].(map[string]any)
	assert.Equal(t, "n1", first["sourceNodeId"])
	assert.Equal(t, "event", first["sourcePinName"])
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, ToPayload(sampleGraph())))

	var back domain.RawGraphPayload
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, "Greeter", back.Name)
	assert.Len(t, back.Nodes, 3)
	assert.Equal(t, "in-string", back.Connections[1].TargetPinName)

	b, err := MarshalYAML(sampleGraph())
	require.NoError(t, err)
	assert.Contains(t, string(b), "sourceHandle: exec-event")
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleGraph(), `My "Graph"`)

	assert.True(t, strings.HasPrefix(dot, "digraph G {"))
	assert.Contains(t, dot, `label="My \"Graph\""`)
	assert.Contains(t, dot, `"n1" -> "n2" [penwidth=2`)
	assert.Contains(t, dot, `"n3" -> "n2" [label="string", style=dashed`)
	assert.Contains(t, dot, `fillcolor="#3b82f6"`)
	assert.Contains(t, dot, `fillcolor="#fde2e2"`)
	assert.True(t, strings.HasSuffix(dot, "}\n"))
}
