package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Generator reflects a JSON schema from a Go value.
type Generator struct {
	reflector *jsonschema.Reflector
	value     any
	id        string
}

// NewGenerator creates a new [Generator] for v. The schema's $id is set to id.
func NewGenerator(v any, id string) *Generator {
	return &Generator{
		reflector: &jsonschema.Reflector{
			ExpandedStruct: true,
		},
		value: v,
		id:    id,
	}
}

// Generate returns the indented JSON schema.
func (g *Generator) Generate() ([]byte, error) {
	jss := g.reflector.Reflect(g.value)
	jss.ID = jsonschema.ID(g.id)

	b, err := json.MarshalIndent(jss, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return append(b, '\n'), nil
}
