// Package schema validates synthci input files against the embedded JSON schemas.
package schema

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	schemafs "github.com/synthci/synthci/schema"
)

const testFileSchemaName = "test-file.schema.json"

var (
	testFileSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

func compileSchemas() error {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()

		data, err := schemafs.FS.ReadFile(testFileSchemaName)
		if err != nil {
			compileErr = fmt.Errorf("read test file schema: %w", err)
			return
		}

		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal test file schema: %w", err)
			return
		}

		if err := compiler.AddResource(testFileSchemaName, doc); err != nil {
			compileErr = fmt.Errorf("add test file schema resource: %w", err)
			return
		}

		testFileSchema, err = compiler.Compile(testFileSchemaName)
		if err != nil {
			compileErr = fmt.Errorf("compile test file schema: %w", err)
			return
		}
	})

	return compileErr
}

// ValidateTestFile validates a decoded test file document. The document must
// use JSON-compatible types (map[string]any, []any, string, float64, bool).
func ValidateTestFile(doc any) error {
	if err := compileSchemas(); err != nil {
		return err
	}

	if err := testFileSchema.Validate(doc); err != nil {
		return fmt.Errorf("test file validation failed: %w", err)
	}

	return nil
}
