package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/richard-senior/quadratic/internal/logger"
)

// EnvConfigPath names the environment variable that may point at a config file
const EnvConfigPath = "QUADRATIC_CONFIG"

// Config is the on-disk configuration of the quadratic server and CLI
type Config struct {
	Server ServerConfig `yaml:"server"`
	HTTP   HTTPConfig   `yaml:"http"`
	Graph  GraphConfig  `yaml:"graph"`
	Log    LogConfig    `yaml:"log"`
	Report ReportConfig `yaml:"report"`
}

type ServerConfig struct {
	Name       string `yaml:"name"`
	Version    string `yaml:"version"`
	ToolPrefix string `yaml:"toolPrefix"`
}

type HTTPConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

// GraphConfig is the default chart canvas in pixels
type GraphConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type LogConfig struct {
	Output   string `yaml:"output"` // console, file or both
	File     string `yaml:"file"`
	Level    string `yaml:"level"`
	DateTime bool   `yaml:"dateTime"`
}

type ReportConfig struct {
	MaxLength int `yaml:"maxLength"`
}

// Default returns the configuration used when no file is found
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Name:       "quadratic",
			Version:    "1.0.0",
			ToolPrefix: "mcp___",
		},
		HTTP: HTTPConfig{
			Addr:         ":8327",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Graph: GraphConfig{Width: 100, Height: 100},
		Log: LogConfig{
			Output: "console",
			File:   logger.DefaultLogFile,
			Level:  "info",
		},
		Report: ReportConfig{MaxLength: 10000},
	}
}

// GetExecutableDir returns the directory containing the executable
func GetExecutableDir() (string, error) {
	executable, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(executable), nil
}

// GetConfigPath returns the path to a config file relative to the executable
func GetConfigPath(filename string) (string, error) {
	execDir, err := GetExecutableDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(execDir, "configs", filename), nil
}

// Load reads the config at path. An empty path falls back to
// $QUADRATIC_CONFIG and then configs/quadratic.yaml beside the executable;
// when neither exists the defaults are returned.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfigPath)
		explicit = path != ""
	}
	if !explicit {
		p, err := GetConfigPath("quadratic.yaml")
		if err != nil {
			logger.Warn("Could not locate executable, using default config:", err)
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			logger.Debug("No config file at", path, "- using defaults")
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Info("Loaded config from", path)
	return cfg, nil
}

// Parse decodes YAML on top of the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail much later
func (c *Config) Validate() error {
	if c.Graph.Width <= 0 || c.Graph.Height <= 0 {
		return fmt.Errorf("graph size must be positive, got %dx%d", c.Graph.Width, c.Graph.Height)
	}
	if _, err := c.Log.OutputRune(); err != nil {
		return err
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Report.MaxLength < 0 {
		return fmt.Errorf("report.maxLength must not be negative")
	}
	return nil
}

// OutputRune maps the output name onto the logger's selector
func (l LogConfig) OutputRune() (rune, error) {
	switch strings.ToLower(l.Output) {
	case "", "console":
		return 'c', nil
	case "file":
		return 'f', nil
	case "both":
		return 'b', nil
	default:
		return 0, fmt.Errorf("unknown log output: %q", l.Output)
	}
}

// Apply configures the package logger from l
func (l LogConfig) Apply() error {
	out, err := l.OutputRune()
	if err != nil {
		return err
	}
	level, err := logger.ParseLevel(l.Level)
	if err != nil {
		return err
	}
	logger.SetShowDateTime(l.DateTime)
	logger.SetLevel(level)
	return logger.SetLogOutput(out, l.File)
}
