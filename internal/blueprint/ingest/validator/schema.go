package validator

import (
	"fmt"
	"strings"

	"github.com/noder-app/noder-backend/internal/blueprint/domain"
)

// Validate checks that v has the minimal shape of a graph payload. Checks
// run in a fixed order and the first violation is returned as an
// *domain.InvalidGraphStructureError. Validate has no side effects.
func Validate(v any) error {
	root, ok := v.(map[string]any)
	if !ok || root == nil {
		return &domain.InvalidGraphStructureError{Field: "payload", Reason: "must be a JSON object"}
	}

	nodes, err := requireArray(root, "nodes")
	if err != nil {
		return err
	}
	conns, err := requireArray(root, "connections")
	if err != nil {
		return err
	}

	for i, raw := range nodes {
		if err := validateNode(i, raw); err != nil {
			return err
		}
	}
	for i, raw := range conns {
		if err := validateConnection(i, raw); err != nil {
			return err
		}
	}
	return nil
}

func requireArray(root map[string]any, key string) ([]any, error) {
	raw, present := root[key]
	if !present || raw == nil {
		return nil, &domain.InvalidGraphStructureError{Field: key, Reason: "is missing"}
	}
	arr, ok := raw.([]any)
	if !ok {
		return nil, &domain.InvalidGraphStructureError{Field: key, Reason: "must be an array"}
	}
	return arr, nil
}

func validateNode(i int, raw any) error {
	m, ok := raw.(map[string]any)
	if !ok {
		return nodeErr(i, "node", "must be an object")
	}
	for _, f := range []string{"id", "title", "nodeType"} {
		if !nonEmptyString(m[f]) {
			return nodeErr(i, f, "must be a non-empty string")
		}
	}
	// Missing pin lists are read as empty; present ones must be arrays.
	for _, f := range []string{"inputs", "outputs"} {
		pv, present := m[f]
		if !present || pv == nil {
			continue
		}
		pins, ok := pv.([]any)
		if !ok {
			return nodeErr(i, f, "must be an array")
		}
		for j, p := range pins {
			if err := validatePin(i, fmt.Sprintf("%s[%d]", f, j), p); err != nil {
				return err
			}
		}
	}
	if pos, present := m["position"]; present && pos != nil {
		pm, ok := pos.(map[string]any)
		if !ok {
			return nodeErr(i, "position", "must be an object")
		}
		for _, axis := range []string{"x", "y"} {
			if _, ok := pm[axis].(float64); !ok {
				return nodeErr(i, "position."+axis, "must be a number")
			}
		}
	}
	return nil
}

func validatePin(node int, field string, raw any) error {
	p, ok := raw.(map[string]any)
	if !ok {
		return nodeErr(node, field, "must be an object")
	}
	if !nonEmptyString(p["name"]) {
		return nodeErr(node, field+".name", "must be a non-empty string")
	}
	if !nonEmptyString(p["type"]) {
		return nodeErr(node, field+".type", "must be a non-empty string")
	}
	return nil
}

func validateConnection(i int, raw any) error {
	m, ok := raw.(map[string]any)
	if !ok {
		return connErr(i, "connection", "must be an object")
	}
	for _, f := range []string{"sourceNodeId", "sourcePinName", "targetNodeId", "targetPinName"} {
		if !nonEmptyString(m[f]) {
			return connErr(i, f, "must be a non-empty string")
		}
	}
	return nil
}

func nonEmptyString(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) != ""
}

func nodeErr(i int, field, reason string) error {
	return &domain.InvalidGraphStructureError{Field: field, Kind: "node", Index: i, Reason: reason}
}

func connErr(i int, field, reason string) error {
	return &domain.InvalidGraphStructureError{Field: field, Kind: "connection", Index: i, Reason: reason}
}
