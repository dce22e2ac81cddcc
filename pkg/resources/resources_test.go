package resources

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richard-senior/quadratic/pkg/quadratic"
)

func TestGetResources(t *testing.T) {
	list := GetResources()
	require.Len(t, list, 2)
	assert.Equal(t, "quadratic_forms", list[0].Name)
	assert.Equal(t, FormsURI, list[0].URI)
}

func TestReadForms(t *testing.T) {
	c, err := Read(FormsURI)
	require.NoError(t, err)
	assert.Equal(t, "text/markdown", c.MimeType)
	assert.Contains(t, c.Text, "## Vertex form")
	assert.Contains(t, c.Text, "Complex roots")
}

func TestReadExamples(t *testing.T) {
	c, err := Read(ExamplesURI)
	require.NoError(t, err)

	var summaries []quadratic.Summary
	require.NoError(t, json.Unmarshal([]byte(c.Text), &summaries))
	require.Len(t, summaries, 3)
	assert.Equal(t, []float64{-2, 2}, summaries[0].Roots)
	assert.Equal(t, []float64{1}, summaries[1].Roots)
	assert.True(t, summaries[2].Complex)
}

func TestReadUnknown(t *testing.T) {
	_, err := Read("quadratic://nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
