package dataset

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed record_schema.json
var recordSchemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func recordSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(recordSchemaJSON))
	})
	return schema, schemaErr
}

// ValidateRecordJSON checks one raw JSON record against the record schema.
func ValidateRecordJSON(raw []byte) error {
	s, err := recordSchema()
	if err != nil {
		return fmt.Errorf("load record schema: %w", err)
	}
	result, err := s.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("validate record: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidRecord, strings.Join(msgs, "; "))
}
