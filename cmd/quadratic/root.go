package main

import (
	"github.com/spf13/cobra"

	"github.com/richard-senior/quadratic/internal/config"
	"github.com/richard-senior/quadratic/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// annotationStdio marks commands whose stdout carries JSON-RPC frames
const annotationStdio = "stdio"

var (
	configPath string
	debug      bool
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "quadratic",
	Short: "Solve and plot quadratic equations",
	Long: `quadratic solves equations given in standard, vertex or factored form,
draws their graphs and serves both as MCP tools and as a small web site.`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (default $"+config.EnvConfigPath+" or configs/quadratic.yaml beside the binary)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(plotCmd)
	rootCmd.Version = version
}

// loadConfig reads the configuration and points the logger at it before
// any subcommand runs
func loadConfig(cmd *cobra.Command, _ []string) error {
	if _, ok := cmd.Annotations[annotationStdio]; ok {
		logger.SetMCPMode(true)
	}

	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if debug {
		c.Log.Level = "debug"
	}
	if err := c.Log.Apply(); err != nil {
		return err
	}
	cfg = c
	return nil
}
