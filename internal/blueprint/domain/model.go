package domain

// PinType is the data type carried by a pin. exec is the control-flow type.
type PinType string

const (
	PinExec               PinType = "exec"
	PinBool               PinType = "bool"
	PinFloat              PinType = "float"
	PinInt                PinType = "int"
	PinString             PinType = "string"
	PinVector             PinType = "vector"
	PinVector2D           PinType = "vector2d"
	PinVector3            PinType = "vector3"
	PinVector4            PinType = "vector4"
	PinObject             PinType = "object"
	PinClass              PinType = "class"
	PinName               PinType = "name"
	PinByte               PinType = "byte"
	PinWildcard           PinType = "wildcard"
	PinMaterialAttributes PinType = "materialattributes"
)

var knownPinTypes = map[PinType]bool{
	PinExec: true, PinBool: true, PinFloat: true, PinInt: true, PinString: true,
	PinVector: true, PinVector2D: true, PinVector3: true, PinVector4: true,
	PinObject: true, PinClass: true, PinName: true, PinByte: true,
	PinWildcard: true, PinMaterialAttributes: true,
}

// Known reports whether t is one of the declared pin types.
func (t PinType) Known() bool { return knownPinTypes[t] }

func (t PinType) IsExec() bool { return t == PinExec }

type NodeType string

const (
	NodeEvent    NodeType = "event"
	NodeFunction NodeType = "function"
	NodeVariable NodeType = "variable"
	NodeMacro    NodeType = "macro"
)

func (t NodeType) Known() bool {
	switch t {
	case NodeEvent, NodeFunction, NodeVariable, NodeMacro:
		return true
	}
	return false
}

const DefaultBlueprintName = "Untitled Blueprint"

type PinSpec struct {
	Name        string  `json:"name" yaml:"name"`
	Type        PinType `json:"type" yaml:"type"`
	Value       any     `json:"value,omitempty" yaml:"value,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
}

type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// IsOrigin reports whether the position is the zero position.
func (p Position) IsOrigin() bool { return p.X == 0 && p.Y == 0 }

// RawNode is a node as emitted by the generator. TemporaryID is only valid
// inside the payload it came with.
type RawNode struct {
	TemporaryID string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	NodeType    NodeType  `json:"nodeType" yaml:"nodeType"`
	Color       string    `json:"color,omitempty" yaml:"color,omitempty"`
	Inputs      []PinSpec `json:"inputs" yaml:"inputs"`
	Outputs     []PinSpec `json:"outputs" yaml:"outputs"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Position    *Position `json:"position,omitempty" yaml:"position,omitempty"`
}

// RawConnection addresses nodes by temporary id and pins by name.
type RawConnection struct {
	SourceNodeTemporaryID string `json:"sourceNodeId" yaml:"sourceNodeId"`
	SourcePinName         string `json:"sourcePinName" yaml:"sourcePinName"`
	TargetNodeTemporaryID string `json:"targetNodeId" yaml:"targetNodeId"`
	TargetPinName         string `json:"targetPinName" yaml:"targetPinName"`
}

// RawGraphPayload is the name-addressed shape shared by the generator output,
// stored blueprint files and exports.
type RawGraphPayload struct {
	Name        string          `json:"blueprintName,omitempty" yaml:"blueprintName,omitempty"`
	Description string          `json:"blueprintDescription,omitempty" yaml:"blueprintDescription,omitempty"`
	Nodes       []RawNode       `json:"nodes" yaml:"nodes"`
	Connections []RawConnection `json:"connections" yaml:"connections"`
}

type GraphNode struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	NodeType    NodeType  `json:"nodeType" yaml:"nodeType"`
	Color       string    `json:"color,omitempty" yaml:"color,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Inputs      []PinSpec `json:"inputs" yaml:"inputs"`
	Outputs     []PinSpec `json:"outputs" yaml:"outputs"`
	Position    Position  `json:"position" yaml:"position"`
}

// GraphEdge connects two pins addressed by composite key (type-normalizedName).
type GraphEdge struct {
	ID           string  `json:"id" yaml:"id"`
	SourceNodeID string  `json:"source" yaml:"source"`
	SourcePinKey string  `json:"sourceHandle" yaml:"sourceHandle"`
	TargetNodeID string  `json:"target" yaml:"target"`
	TargetPinKey string  `json:"targetHandle" yaml:"targetHandle"`
	PinType      PinType `json:"pinType" yaml:"pinType"`
	ControlFlow  bool    `json:"controlFlow" yaml:"controlFlow"`
}

type Graph struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Nodes       []GraphNode `json:"nodes" yaml:"nodes"`
	Edges       []GraphEdge `json:"edges" yaml:"edges"`
}

// NewGraph returns an empty graph with non-nil slices.
func NewGraph(name, description string) *Graph {
	if name == "" {
		name = DefaultBlueprintName
	}
	return &Graph{
		Name:        name,
		Description: description,
		Nodes:       []GraphNode{},
		Edges:       []GraphEdge{},
	}
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *GraphNode {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

func (g *Graph) HasNode(id string) bool { return g.Node(id) != nil }

type WarningKind string

const (
	WarnUnknownNode   WarningKind = "unknown_node"
	WarnUnknownPin    WarningKind = "unknown_pin"
	WarnTypeMismatch  WarningKind = "type_mismatch"
	WarnDuplicateNode WarningKind = "duplicate_node"
	WarnUnknownType   WarningKind = "unknown_pin_type"
)

// Warning records a non-fatal problem found while building a graph. Index
// points into the payload's nodes or connections depending on Kind.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Index   int         `json:"index"`
	Message string      `json:"message"`
}

type IngestResult struct {
	Graph    *Graph    `json:"graph"`
	Warnings []Warning `json:"warnings"`
}
