package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/noder-app/noder-backend/internal/blueprint/domain"
)

var rxFenced = regexp.MustCompile("```(?:json|JSON)?\\s*([\\s\\S]*?)\\s*```")

// Extract locates and parses the JSON value embedded in a generator response.
//
// The whole text is tried first, then the span from the first '{' to the last
// '}'. When that span does not parse, an object inside a fenced code block is
// accepted instead. The result is parseable JSON but has not been checked
// against any schema.
func Extract(text string) (any, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &domain.MalformedResponseError{Text: text, ParseErr: "empty response"}
	}

	v, err := parse(text)
	if err == nil {
		return v, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, &domain.MalformedResponseError{Text: text, ParseErr: err.Error()}
	}
	v, err = parse(text[start : end+1])
	if err == nil {
		return v, nil
	}
	if obj, ok := fencedObject(text); ok {
		return obj, nil
	}
	return nil, &domain.MalformedResponseError{Text: text, ParseErr: err.Error()}
}

func fencedObject(text string) (map[string]any, bool) {
	for _, m := range rxFenced.FindAllStringSubmatch(text, -1) {
		v, err := parse(m[1])
		if err != nil {
			continue
		}
		if obj, ok := v.(map[string]any); ok {
			return obj, true
		}
	}
	return nil, false
}

// ExtractObject is Extract restricted to JSON objects.
func ExtractObject(text string) (map[string]any, error) {
	v, err := Extract(text)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &domain.MalformedResponseError{Text: text, ParseErr: "response is not a JSON object"}
	}
	return m, nil
}

func parse(s string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	return v, nil
}
