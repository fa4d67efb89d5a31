package llm

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiledSchemas holds one compiled jsonschema per Schema.Name.
// Compilation is deterministic per name, so a duplicate compile under
// load is harmless.
var compiledSchemas sync.Map

// Validate checks raw against the schema definition. A nil receiver
// accepts anything. Violations come back as *ErrInvalidResponse
// carrying the offending payload, so callers can decide whether the
// response is worth another attempt in a different mode.
func (s *Schema) Validate(raw json.RawMessage) error {
	if s == nil {
		return nil
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("response is not JSON: %w", err),
		}
	}

	compiled, err := s.compiled()
	if err != nil {
		return &ErrInvalidResponse{
			Content: raw,
			Err:     err,
		}
	}

	if err := compiled.Validate(doc); err != nil {
		return &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("response violates %s schema: %w", s.Name, err),
		}
	}
	return nil
}

// compiled returns the jsonschema for this schema, compiling on first
// use. The compiler wants a parsed document rather than Go structs, so
// the definition takes a round trip through encoding/json.
func (s *Schema) compiled() (*jsonschema.Schema, error) {
	if cached, ok := compiledSchemas.Load(s.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	def, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("encode %s schema: %w", s.Name, err)
	}
	var doc any
	if err := json.Unmarshal(def, &doc); err != nil {
		return nil, fmt.Errorf("decode %s schema: %w", s.Name, err)
	}

	url := fmt.Sprintf("schema://%s.json", s.Name)
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("register %s schema: %w", s.Name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile %s schema: %w", s.Name, err)
	}

	compiledSchemas.Store(s.Name, compiled)
	return compiled, nil
}
