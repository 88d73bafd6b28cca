package schemas_test

import (
	"encoding/json"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/framecraft/schemas"
)

func schemaFiles(t *testing.T) []string {
	t.Helper()
	files, err := fs.Glob(schemas.FS, "*.schema.json")
	require.NoError(t, err)
	require.NotEmpty(t, files)
	return files
}

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, schemaFile := range schemaFiles(t) {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := schemas.Read(schemaFile)
			require.NoError(t, err, "should be able to read schema file")

			var v interface{}
			err = json.Unmarshal([]byte(data), &v)
			assert.NoError(t, err, "schema file should be valid JSON: %s", schemaFile)
		})
	}
}

func TestSchemaFiles_ValidJSONSchema(t *testing.T) {
	for _, schemaFile := range schemaFiles(t) {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := schemas.Read(schemaFile)
			require.NoError(t, err)

			_, err = gojsonschema.NewSchema(gojsonschema.NewStringLoader(data))
			assert.NoError(t, err, "schema should compile: %s", schemaFile)
		})
	}
}

func TestComponentConfigSchema_Present(t *testing.T) {
	_, err := schemas.Read(schemas.ComponentConfigFile)
	require.NoError(t, err)

	_, err = schemas.Read("missing.schema.json")
	assert.Error(t, err)
}
