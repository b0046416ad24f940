package validator

import "github.com/noder-app/noder-backend/internal/blueprint/domain"

// Decode validates v and converts it into a typed payload. Optional fields
// of the wrong JSON type are dropped rather than rejected.
func Decode(v any) (*domain.RawGraphPayload, error) {
	if err := Validate(v); err != nil {
		return nil, err
	}
	root := v.(map[string]any)

	out := &domain.RawGraphPayload{
		Name:        str(root["blueprintName"]),
		Description: str(root["blueprintDescription"]),
	}

	nodes, _ := root["nodes"].([]any)
	out.Nodes = make([]domain.RawNode, 0, len(nodes))
	for _, raw := range nodes {
		m := raw.(map[string]any)
		n := domain.RawNode{
			TemporaryID: str(m["id"]),
			Title:       str(m["title"]),
			NodeType:    domain.NodeType(str(m["nodeType"])),
			Color:       str(m["color"]),
			Description: str(m["description"]),
			Inputs:      pins(m["inputs"]),
			Outputs:     pins(m["outputs"]),
		}
		if pm, ok := m["position"].(map[string]any); ok {
			x, _ := pm["x"].(float64)
			y, _ := pm["y"].(float64)
			n.Position = &domain.Position{X: x, Y: y}
		}
		out.Nodes = append(out.Nodes, n)
	}

	conns, _ := root["connections"].([]any)
	out.Connections = make([]domain.RawConnection, 0, len(conns))
	for _, raw := range conns {
		m := raw.(map[string]any)
		out.Connections = append(out.Connections, domain.RawConnection{
			SourceNodeTemporaryID: str(m["sourceNodeId"]),
			SourcePinName:         str(m["sourcePinName"]),
			TargetNodeTemporaryID: str(m["targetNodeId"]),
			TargetPinName:         str(m["targetPinName"]),
		})
	}
	return out, nil
}

func pins(v any) []domain.PinSpec {
	arr, _ := v.([]any)
	out := make([]domain.PinSpec, 0, len(arr))
	for _, raw := range arr {
		p := raw.(map[string]any)
		out = append(out, domain.PinSpec{
			Name:        str(p["name"]),
			Type:        domain.PinType(str(p["type"])),
			Value:       p["value"],
			Description: str(p["description"]),
		})
	}
	return out
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
