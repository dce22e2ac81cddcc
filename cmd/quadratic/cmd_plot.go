package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/richard-senior/quadratic/internal/logger"
	"github.com/richard-senior/quadratic/pkg/graph"
)

var (
	plotForm   string
	plotOut    string
	plotWidth  int
	plotHeight int
)

var plotCmd = &cobra.Command{
	Use:     "plot [flags] -- a u v",
	Short:   "Write the graph of an equation to a .png or .svg file",
	Example: `  quadratic plot --out parabola.png -- 1 0 -4`,
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		eq, err := equationFromArgs(plotForm, args)
		if err != nil {
			return err
		}
		width, height := plotWidth, plotHeight
		if width == 0 {
			width = cfg.Graph.Width
		}
		if height == 0 {
			height = cfg.Graph.Height
		}

		plot, err := graph.Sample(eq, width, height)
		if err != nil {
			return err
		}

		switch ext := strings.ToLower(filepath.Ext(plotOut)); ext {
		case ".png":
			var buf bytes.Buffer
			if err := graph.WritePNG(&buf, plot); err != nil {
				return err
			}
			if err := os.WriteFile(plotOut, buf.Bytes(), 0644); err != nil {
				return err
			}
		case ".svg":
			doc, err := graph.Document(plot)
			if err != nil {
				return err
			}
			if err := doc.ToSVGFile(plotOut); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported output type %q, use .png or .svg", ext)
		}
		logger.Info("Wrote", plotOut)
		fmt.Fprintln(cmd.OutOrStdout(), plotOut)
		return nil
	},
}

func init() {
	plotCmd.Flags().StringVar(&plotForm, "form", "standard", "standard, vertex or factored")
	plotCmd.Flags().StringVarP(&plotOut, "out", "o", "quadratic.png", "output file, .png or .svg")
	plotCmd.Flags().IntVar(&plotWidth, "width", 0, "canvas width (default graph.width)")
	plotCmd.Flags().IntVar(&plotHeight, "height", 0, "canvas height (default graph.height)")
}
