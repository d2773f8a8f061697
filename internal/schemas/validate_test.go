package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchema = `{
  "type": "object",
  "required": ["name", "age"],
  "properties": {
    "name": {"type": "string"},
    "age": {"type": "integer", "minimum": 0}
  }
}`

const validTimeline = `{
  "board": "acme",
  "generated_at": "2024-05-01T12:00:00Z",
  "frequency": "monthly",
  "start": "2023-01-01",
  "data_points": 2,
  "timeline": [
    {"date": "2023-01-04", "timestamp": "20230104101500", "open_roles": 12, "format": "legacy", "page_size": 20480,
     "url": "https://boards.greenhouse.io/acme", "departments": {"Sales": 4}},
    {"date": "2024-05-01", "timestamp": "live", "open_roles": 9, "format": "api", "page_size": 0}
  ],
  "skipped": [{"date": "2023-02-01", "timestamp": "20230201000000", "reason": "unrecognized page"}],
  "summary": {
    "peak": {"date": "2023-01-04", "open_roles": 12},
    "trough": {"date": "2024-05-01", "open_roles": 9},
    "current": {"date": "2024-05-01", "open_roles": 9},
    "current_vs_peak_pct": -25
  }
}`

func TestValidateJSONString_Valid(t *testing.T) {
	err := ValidateJSONString(personSchema, `{"name": "Ada", "age": 36}`)
	assert.NoError(t, err)
}

func TestValidateJSONString_MissingField(t *testing.T) {
	err := ValidateJSONString(personSchema, `{"name": "Ada"}`)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	require.Len(t, validationErr.Errors, 1)
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
	assert.Contains(t, validationErr.Error(), "age")
}

func TestValidateJSONString_WrongType(t *testing.T) {
	err := ValidateJSONString(personSchema, `{"name": "Ada", "age": "old"}`)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "age", validationErr.Errors[0].Field)
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 12}`, `{}`)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "(string schema)", loadErr.Path)
}

func TestValidateArtifact_Timeline(t *testing.T) {
	assert.NoError(t, ValidateArtifact(Timeline, []byte(validTimeline)))
}

func TestValidateArtifact_TimelineRejectsBadPoint(t *testing.T) {
	doc := `{
	  "board": "acme", "generated_at": "2024-05-01T12:00:00Z", "frequency": "weekly",
	  "data_points": 1,
	  "timeline": [{"date": "2023-01-04", "timestamp": "2023", "open_roles": -1, "format": "legacy", "page_size": 1}],
	  "skipped": [],
	  "summary": {"peak": null, "trough": null, "current": null, "current_vs_peak_pct": null}
	}`
	err := ValidateArtifact(Timeline, []byte(doc))
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	fields := map[string]bool{}
	for _, e := range validationErr.Errors {
		fields[e.Field] = true
	}
	assert.True(t, fields["frequency"])
	assert.True(t, fields["timeline.0.timestamp"])
	assert.True(t, fields["timeline.0.open_roles"])
}

func TestValidateArtifact_UnknownSchema(t *testing.T) {
	err := ValidateArtifact("missing.schema.json", []byte(`{}`))
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "missing.schema.json", loadErr.Path)
}

func TestValidateArtifact_MalformedDocument(t *testing.T) {
	err := ValidateArtifact(Timeline, []byte(`{"board":`))
	require.Error(t, err)
	_, ok := err.(*ValidationError)
	assert.False(t, ok)
}

func TestValidateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeline.json")
	require.NoError(t, os.WriteFile(path, []byte(validTimeline), 0o644))
	assert.NoError(t, ValidateFile(Timeline, path))

	err := ValidateFile(Timeline, filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestValidationError_Format(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "board", Message: "is required"},
		{Field: "frequency", Message: "must be one of"},
	}}
	assert.Equal(t, "validation failed:\n  1. board: is required\n  2. frequency: must be one of\n", err.Error())
}
