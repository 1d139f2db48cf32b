package itemgraph

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// SupportedFormatVersion is the dump format this build understands. Dumps
// with any other version are rejected before validation.
const SupportedFormatVersion = 2

//go:embed schema.json
var schemaSource []byte

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("graph.schema.json", bytes.NewReader(schemaSource)); err != nil {
		return nil, err
	}
	return compiler.Compile("graph.schema.json")
})

// FormatVersionError reports a dump whose format version this build cannot
// read.
type FormatVersionError struct {
	Found int
}

func (e *FormatVersionError) Error() string {
	if e.Found > SupportedFormatVersion {
		return fmt.Sprintf(
			"symbol graph uses format version %d but this build understands %d; update docsplice or regenerate the dump with an older toolchain",
			e.Found, SupportedFormatVersion)
	}
	return fmt.Sprintf(
		"symbol graph uses format version %d but this build understands %d; regenerate the dump with a newer toolchain",
		e.Found, SupportedFormatVersion)
}

// Decode parses and validates a symbol graph dump. The format version is
// checked first so version skew gets a targeted message instead of a pile
// of schema violations.
func Decode(data []byte) (*Graph, error) {
	var probe struct {
		FormatVersion *int `json:"format_version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode symbol graph: %w", err)
	}
	if probe.FormatVersion == nil {
		return nil, errors.New("decode symbol graph: missing format_version")
	}
	if *probe.FormatVersion != SupportedFormatVersion {
		return nil, &FormatVersionError{Found: *probe.FormatVersion}
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile graph schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode symbol graph: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("symbol graph does not match schema: %w", err)
	}

	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decode symbol graph: %w", err)
	}
	if _, ok := g.Index[g.Root]; !ok {
		return nil, fmt.Errorf("symbol graph root %q is not in the index", g.Root)
	}
	return &g, nil
}
