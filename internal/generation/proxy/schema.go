package proxy

import (
	_ "embed"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed blueprint.schema.json
var schemaJSON string

const schemaURL = "mem://noder/blueprint.schema.json"

var (
	once    sync.Once
	schema  *jsonschema.Schema
	loadErr error
)

func load() {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		loadErr = err
		return
	}
	schema, loadErr = c.Compile(schemaURL)
}

// ValidateOutput checks a parsed model response against the blueprint
// output schema. v must come from encoding/json.
func ValidateOutput(v any) error {
	once.Do(load)
	if loadErr != nil {
		return loadErr
	}
	return schema.Validate(v)
}
