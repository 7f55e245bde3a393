package metadata

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func metadataSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("failed to parse embedded metadata schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("yevis-metadata.schema.json", doc); err != nil {
			schemaErr = fmt.Errorf("failed to register metadata schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("yevis-metadata.schema.json")
	})
	return compiledSchema, schemaErr
}

// validateSchema checks a JSON document against the embedded metadata schema.
func validateSchema(doc []byte) error {
	schema, err := metadataSchema()
	if err != nil {
		return err
	}
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(doc))
	if err != nil {
		return err
	}
	return schema.Validate(instance)
}
