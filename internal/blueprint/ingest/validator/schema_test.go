package validator

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noder-app/noder-backend/internal/blueprint/domain"
)

func decodeJSON(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func structErr(t *testing.T, err error) *domain.InvalidGraphStructureError {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, domain.ErrInvalidGraphStructure))
	var se *domain.InvalidGraphStructureError
	require.True(t, errors.As(err, &se))
	return se
}

func TestValidate_Valid(t *testing.T) {
	v := decodeJSON(t, `{
		"nodes": [
			{"id":"a","title":"Event BeginPlay","nodeType":"event","inputs":[],"outputs":[{"name":"Event","type":"exec"}]},
			{"id":"b","title":"Print String","nodeType":"function","inputs":[{"name":"Execute","type":"exec"}],"outputs":[]}
		],
		"connections": [
			{"sourceNodeId":"a","sourcePinName":"Event","targetNodeId":"b","targetPinName":"Execute"}
		]
	}`)
	assert.NoError(t, Validate(v))
}

func TestValidate_NotObject(t *testing.T) {
	for _, in := range []string{`null`, `[]`, `"text"`, `42`} {
		se := structErr(t, Validate(decodeJSON(t, in)))
		assert.Equal(t, "payload", se.Field, "input %s", in)
	}
}

func TestValidate_NodesMissingIsFirst(t *testing.T) {
	se := structErr(t, Validate(decodeJSON(t, `{"connections": "nope"}`)))
	assert.Equal(t, "nodes", se.Field)
	assert.Empty(t, se.Kind)
}

func TestValidate_NodesNotArray(t *testing.T) {
	se := structErr(t, Validate(decodeJSON(t, `{"nodes": {}, "connections": []}`)))
	assert.Equal(t, "nodes", se.Field)
}

func TestValidate_ConnectionsMissing(t *testing.T) {
	se := structErr(t, Validate(decodeJSON(t, `{"nodes": []}`)))
	assert.Equal(t, "connections", se.Field)
}

func TestValidate_NodeMissingTitleReportsIndex(t *testing.T) {
	v := decodeJSON(t, `{
		"nodes": [
			{"id":"a","title":"A","nodeType":"event"},
			{"id":"b","title":"B","nodeType":"function"},
			{"id":"c","nodeType":"function","inputs":[],"outputs":[]}
		],
		"connections": []
	}`)
	se := structErr(t, Validate(v))
	assert.Equal(t, "node", se.Kind)
	assert.Equal(t, 2, se.Index)
	assert.Equal(t, "title", se.Field)
	assert.Contains(t, se.Error(), "node 2")
}

func TestValidate_NodeFieldsCheckedBeforeConnections(t *testing.T) {
	v := decodeJSON(t, `{
		"nodes": [{"id":"a","title":"A","nodeType":""}],
		"connections": [{"sourceNodeId":"a"}]
	}`)
	se := structErr(t, Validate(v))
	assert.Equal(t, "node", se.Kind)
	assert.Equal(t, "nodeType", se.Field)
}

func TestValidate_PinListMustBeArray(t *testing.T) {
	v := decodeJSON(t, `{"nodes":[{"id":"a","title":"A","nodeType":"event","inputs":"exec"}],"connections":[]}`)
	se := structErr(t, Validate(v))
	assert.Equal(t, "inputs", se.Field)
}

func TestValidate_PinNeedsNameAndType(t *testing.T) {
	v := decodeJSON(t, `{"nodes":[{"id":"a","title":"A","nodeType":"event","outputs":[{"name":"Then"}]}],"connections":[]}`)
	se := structErr(t, Validate(v))
	assert.Equal(t, "outputs[0].type", se.Field)
}

func TestValidate_BadPosition(t *testing.T) {
	v := decodeJSON(t, `{"nodes":[{"id":"a","title":"A","nodeType":"event","position":{"x":"1"}}],"connections":[]}`)
	se := structErr(t, Validate(v))
	assert.Equal(t, "position.x", se.Field)
}

func TestValidate_ConnectionMissingField(t *testing.T) {
	v := decodeJSON(t, `{
		"nodes": [],
		"connections": [
			{"sourceNodeId":"a","sourcePinName":"x","targetNodeId":"b","targetPinName":"y"},
			{"sourceNodeId":"a","sourcePinName":"x","targetNodeId":"b"}
		]
	}`)
	se := structErr(t, Validate(v))
	assert.Equal(t, "connection", se.Kind)
	assert.Equal(t, 1, se.Index)
	assert.Equal(t, "targetPinName", se.Field)
}

func TestValidate_EmptyGraphIsValid(t *testing.T) {
	assert.NoError(t, Validate(decodeJSON(t, `{"nodes":[],"connections":[]}`)))
}

func TestDecode(t *testing.T) {
	v := decodeJSON(t, `{
		"blueprintName": "Jump",
		"nodes": [
			{"id":"n1","title":"Set Velocity","nodeType":"function","color":"#fff",
			 "inputs":[{"name":"Speed","type":"float","value":600,"description":"cm/s"}],
			 "position":{"x":10,"y":20}},
			{"id":"n2","title":"Get Speed","nodeType":"variable","color":7}
		],
		"connections": [
			{"sourceNodeId":"n2","sourcePinName":"Value","targetNodeId":"n1","targetPinName":"Speed"}
		]
	}`)

	p, err := Decode(v)
	require.NoError(t, err)

	assert.Equal(t, "Jump", p.Name)
	require.Len(t, p.Nodes, 2)

	n1 := p.Nodes[0]
	assert.Equal(t, "n1", n1.TemporaryID)
	assert.Equal(t, domain.NodeFunction, n1.NodeType)
	assert.Equal(t, "#fff", n1.Color)
	require.Len(t, n1.Inputs, 1)
	assert.Equal(t, domain.PinFloat, n1.Inputs[0].Type)
	assert.Equal(t, float64(600), n1.Inputs[0].Value)
	assert.Equal(t, "cm/s", n1.Inputs[0].Description)
	assert.NotNil(t, n1.Outputs)
	assert.Empty(t, n1.Outputs)
	require.NotNil(t, n1.Position)
	assert.Equal(t, domain.Position{X: 10, Y: 20}, *n1.Position)

	// non-string colour is dropped
	assert.Empty(t, p.Nodes[1].Color)
	assert.Nil(t, p.Nodes[1].Position)

	require.Len(t, p.Connections, 1)
	assert.Equal(t, domain.RawConnection{
		SourceNodeTemporaryID: "n2",
		SourcePinName:         "Value",
		TargetNodeTemporaryID: "n1",
		TargetPinName:         "Speed",
	}, p.Connections[0])
}

func TestDecode_RejectsInvalid(t *testing.T) {
	_, err := Decode(decodeJSON(t, `{"nodes":[]}`))
	assert.ErrorIs(t, err, domain.ErrInvalidGraphStructure)
}
