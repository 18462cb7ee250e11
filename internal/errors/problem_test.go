package errors

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProblemDetails_MarshalJSON(t *testing.T) {
	problem := NewProblemDetails(
		http.StatusServiceUnavailable,
		TypeDataUnavailable,
		"Dataset Unavailable",
		"The source spreadsheet could not be loaded",
		"/api/dataset/rows",
	).WithExtension("trace_id", "abc123")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, TypeDataUnavailable, got["type"])
	assert.Equal(t, "Dataset Unavailable", got["title"])
	assert.Equal(t, float64(http.StatusServiceUnavailable), got["status"])
	assert.Equal(t, "/api/dataset/rows", got["instance"])
	assert.Equal(t, "abc123", got["trace_id"])
}

func TestProblemDetails_ExtensionsCannotShadowStandardMembers(t *testing.T) {
	problem := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Validation Failed", "", "").
		WithExtension("status", 200).
		WithExtension("title", "ok")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, float64(http.StatusBadRequest), got["status"])
	assert.Equal(t, "Validation Failed", got["title"])
	assert.NotContains(t, got, "detail")
	assert.NotContains(t, got, "instance")
}

func TestProblemDetails_WithExtensionOnZeroValue(t *testing.T) {
	var problem ProblemDetails
	problem.WithExtension("k", "v")
	assert.Equal(t, "v", problem.Extensions["k"])
}
