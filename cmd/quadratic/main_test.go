package main

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richard-senior/quadratic/pkg/quadratic"
)

// run executes the root command with fresh flag values
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	solveForm, solveJSON = "standard", false
	plotForm, plotOut, plotWidth, plotHeight = "standard", "quadratic.png", 0, 0
	configPath, debug = "", false
	t.Setenv("QUADRATIC_CONFIG", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSolveText(t *testing.T) {
	out, err := run(t, "solve", "--", "1", "-2", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Standard:     1*x^2 -2*x +1\n")
	assert.Contains(t, out, "Vertex point: (1, 0)\n")
	assert.Contains(t, out, "Roots:        1\n")
}

func TestSolveJSONVertexForm(t *testing.T) {
	out, err := run(t, "solve", "--form", "vertex", "--json", "--", "2", "3", "-1")
	require.NoError(t, err)

	var s quadratic.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, -12.0, s.B)
	assert.Equal(t, 17.0, s.C)
}

func TestSolveComplex(t *testing.T) {
	out, err := run(t, "solve", "--", "1", "0", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Roots:        0-2i, 0+2i\n")
}

func TestSolveErrors(t *testing.T) {
	_, err := run(t, "solve", "--", "0", "1", "1")
	assert.ErrorIs(t, err, quadratic.ErrInvalidEquation)

	_, err = run(t, "solve", "--", "one", "1", "1")
	assert.ErrorContains(t, err, "is not a number")

	_, err = run(t, "solve", "--form", "cubic", "--", "1", "1", "1")
	assert.ErrorIs(t, err, quadratic.ErrUnknownForm)

	_, err = run(t, "solve", "1", "2")
	assert.Error(t, err)
}

func TestPlotPNG(t *testing.T) {
	file := filepath.Join(t.TempDir(), "graph.png")
	out, err := run(t, "plot", "--out", file, "--width", "80", "--height", "60", "--", "1", "0", "-4")
	require.NoError(t, err)
	assert.Equal(t, file, strings.TrimSpace(out))

	f, err := os.Open(file)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 80, img.Bounds().Dx())
	assert.Equal(t, 60, img.Bounds().Dy())
}

func TestPlotSVG(t *testing.T) {
	file := filepath.Join(t.TempDir(), "graph.svg")
	_, err := run(t, "plot", "-o", file, "--form", "factored", "--", "1", "-2", "2")
	require.NoError(t, err)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<svg width="100" height="100"`)
}

func TestPlotUnsupportedType(t *testing.T) {
	_, err := run(t, "plot", "-o", filepath.Join(t.TempDir(), "graph.gif"), "--", "1", "0", "0")
	assert.ErrorContains(t, err, "unsupported output type")
}
