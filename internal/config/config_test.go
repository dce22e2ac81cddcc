package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
server:
  toolPrefix: ""
http:
  addr: "127.0.0.1:9000"
  readTimeout: 5s
graph:
  width: 200
log:
  level: debug
`))
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Server.ToolPrefix)
	assert.Equal(t, "quadratic", cfg.Server.Name)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, 200, cfg.Graph.Width)
	assert.Equal(t, 100, cfg.Graph.Height)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestParseRejectsBadValues(t *testing.T) {
	for _, doc := range []string{
		"graph: {width: 0}",
		"graph: {height: -3}",
		"log: {output: syslog}",
		"log: {level: chatty}",
		"report: {maxLength: -1}",
		"graph: [1, 2]",
	} {
		_, err := Parse([]byte(doc))
		assert.Error(t, err, doc)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "q.yaml")
	require.NoError(t, os.WriteFile(path, []byte("graph: {width: 64, height: 48}\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Graph.Width)
	assert.Equal(t, 48, cfg.Graph.Height)

	t.Setenv(EnvConfigPath, path)
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 48, cfg.Graph.Height)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestOutputRune(t *testing.T) {
	for in, want := range map[string]rune{"": 'c', "Console": 'c', "file": 'f', "both": 'b'} {
		got, err := LogConfig{Output: in}.OutputRune()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestExampleConfigMatchesDefaults(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "configs", "quadratic.yaml"))
	require.NoError(t, err)
	cfg, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
