package tools

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richard-senior/quadratic/pkg/graph"
	"github.com/richard-senior/quadratic/pkg/protocol"
	"github.com/richard-senior/quadratic/pkg/quadratic"
)

func TestHandleSolveTool(t *testing.T) {
	result, err := HandleSolveTool(map[string]any{"a": 1.0, "b": 0.0, "c": -4.0})
	require.NoError(t, err)
	s, ok := result.(quadratic.Summary)
	require.True(t, ok)
	assert.Equal(t, []float64{-2, 2}, s.Roots)
	assert.Equal(t, "1 * (x+2) * (x-2)", s.Factored)

	// numeric strings and the vertex form
	result, err = HandleSolveTool(map[string]any{"form": "vertex", "a": "2", "p": " 3 ", "q": "-1"})
	require.NoError(t, err)
	s = result.(quadratic.Summary)
	assert.Equal(t, 2.0, s.A)
	assert.Equal(t, -12.0, s.B)
	assert.Equal(t, 17.0, s.C)

	result, err = HandleSolveTool(map[string]any{"form": "factored", "a": -1.0, "x1": 2.0, "x2": 5.0})
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 2}, result.(quadratic.Summary).Roots)
}

func TestHandleSolveToolErrors(t *testing.T) {
	tests := []struct {
		name   string
		params any
		want   string
	}{
		{"not a map", "a=1", "invalid parameters format"},
		{"missing a", map[string]any{"b": 1.0, "c": 1.0}, "a parameter is required"},
		{"missing form field", map[string]any{"form": "vertex", "a": 1.0, "b": 1.0, "c": 1.0}, "p parameter is required"},
		{"bad number", map[string]any{"a": "one", "b": 1.0, "c": 1.0}, "a parameter is not a number"},
		{"bad type", map[string]any{"a": true, "b": 1.0, "c": 1.0}, "must be a number"},
		{"zero a", map[string]any{"a": 0.0, "b": 1.0, "c": 1.0}, "invalid equation"},
		{"unknown form", map[string]any{"form": "cubic", "a": 1.0}, "unknown form"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HandleSolveTool(tt.params)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := HandleSolveTool(map[string]any{"a": 0.0, "b": 1.0, "c": 1.0})
	assert.ErrorIs(t, err, quadratic.ErrInvalidEquation)
}

func TestHandleGraphToolSVG(t *testing.T) {
	result, err := DefaultSettings.HandleGraphTool(map[string]any{"a": 1.0, "b": 0.0, "c": 0.0, "width": 40.0, "height": 30.0})
	require.NoError(t, err)
	tr, ok := result.(protocol.ToolResult)
	require.True(t, ok)
	require.Len(t, tr.Content, 1)
	assert.Equal(t, "text", tr.Content[0].Type)
	assert.Contains(t, tr.Content[0].Text, `<svg width="40" height="30"`)
}

func TestHandleGraphToolPNG(t *testing.T) {
	result, err := DefaultSettings.HandleGraphTool(map[string]any{"a": 1.0, "b": 0.0, "c": 0.0, "format": "png"})
	require.NoError(t, err)
	tr := result.(protocol.ToolResult)
	require.Len(t, tr.Content, 1)
	assert.Equal(t, "image", tr.Content[0].Type)
	assert.Equal(t, "image/png", tr.Content[0].MimeType)

	raw, err := base64.StdEncoding.DecodeString(tr.Content[0].Data)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings.GraphWidth, img.Bounds().Dx())
	assert.Equal(t, DefaultSettings.GraphHeight, img.Bounds().Dy())
}

func TestHandleGraphToolErrors(t *testing.T) {
	_, err := DefaultSettings.HandleGraphTool(map[string]any{"a": 1.0, "b": 0.0, "c": 0.0, "width": 0.0})
	assert.ErrorIs(t, err, graph.ErrInvalidCanvas)

	_, err = DefaultSettings.HandleGraphTool(map[string]any{"a": 1.0, "b": 0.0, "c": 0.0, "height": 5000.0})
	assert.ErrorIs(t, err, graph.ErrInvalidCanvas)

	_, err = DefaultSettings.HandleGraphTool(map[string]any{"a": 1.0, "b": 0.0, "c": 0.0, "width": 10.5})
	assert.ErrorContains(t, err, "whole number")

	_, err = DefaultSettings.HandleGraphTool(map[string]any{"a": 1.0, "b": 0.0, "c": 0.0, "format": "gif"})
	assert.ErrorContains(t, err, "unsupported format")
}

func TestHandleReportTool(t *testing.T) {
	result, err := DefaultSettings.HandleReportTool(map[string]any{"a": 1.0, "b": 0.0, "c": -4.0})
	require.NoError(t, err)
	report, ok := result.(map[string]any)
	require.True(t, ok)

	assert.Equal(t, "1*x^2 0*x -4", report["title"])
	assert.Equal(t, "1*x^2 0*x -4", report["equation"])
	markdown := report["markdown"].(string)
	assert.Contains(t, markdown, "Discriminant")
	assert.Contains(t, markdown, "16")
	assert.Contains(t, markdown, "## Roots")
}

func TestReportTruncation(t *testing.T) {
	result, err := Defaults{MaxMarkdown: 20}.HandleReportTool(map[string]any{"a": 1.0, "b": 0.0, "c": -4.0})
	require.NoError(t, err)
	markdown := result.(map[string]any)["markdown"].(string)
	assert.True(t, strings.HasSuffix(markdown, "(content truncated due to size)"))
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	// "é" is two bytes and "€" three
	assert.Equal(t, "caf", truncate("café", 4))
	assert.Equal(t, "café", truncate("café", 5))
	assert.Equal(t, "", truncate("€uro", 2))
	assert.Equal(t, "€", truncate("€uro", 3))
	assert.Equal(t, "ab", truncate("ab", 10))
	for n := 0; n <= len("x²±√Δ"); n++ {
		assert.True(t, utf8.ValidString(truncate("x²±√Δ", n)), "n=%d", n)
	}
}

func TestDefaultsFallback(t *testing.T) {
	d := Defaults{GraphWidth: 64}.withFallback()
	assert.Equal(t, 64, d.GraphWidth)
	assert.Equal(t, DefaultSettings.GraphHeight, d.GraphHeight)
	assert.Equal(t, DefaultSettings.MaxMarkdown, d.MaxMarkdown)

	result, err := Defaults{GraphWidth: 12, GraphHeight: 8}.HandleGraphTool(map[string]any{"a": 1.0, "b": 0.0, "c": 0.0, "format": "png"})
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(result.(protocol.ToolResult).Content[0].Data)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 12, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())
}

func TestToolDefinitions(t *testing.T) {
	for _, tool := range []protocol.Tool{SolveTool(), GraphTool(), ReportTool()} {
		assert.True(t, strings.HasPrefix(tool.Name, "quadratic_"))
		assert.Equal(t, "object", tool.InputSchema.Type)
		assert.Contains(t, tool.InputSchema.Properties, "x1")
	}
	assert.Contains(t, GraphTool().InputSchema.Properties, "format")
}
