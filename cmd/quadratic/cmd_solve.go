package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/richard-senior/quadratic/pkg/quadratic"
)

var (
	solveForm string
	solveJSON bool
)

var solveCmd = &cobra.Command{
	Use:   "solve [flags] -- a u v",
	Short: "Print the roots, vertex and forms of an equation",
	Long: `Reads a and the two coefficients of the chosen form: b c for standard,
p q for vertex and x1 x2 for factored. Put the numbers after -- so that
negative values are not taken for flags.`,
	Example: `  quadratic solve -- 1 -2 1
  quadratic solve --form vertex --json -- 2 3 -1`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		eq, err := equationFromArgs(solveForm, args)
		if err != nil {
			return err
		}
		if solveJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(eq.Summary())
		}
		return printSummary(cmd.OutOrStdout(), eq.Summary())
	},
}

func init() {
	solveCmd.Flags().StringVar(&solveForm, "form", "standard", "standard, vertex or factored")
	solveCmd.Flags().BoolVar(&solveJSON, "json", false, "print the summary as JSON")
}

// equationFromArgs parses a and the two form coefficients
func equationFromArgs(formName string, args []string) (quadratic.Equation, error) {
	form, err := quadratic.ParseForm(formName)
	if err != nil {
		return quadratic.Equation{}, err
	}
	uName, vName := form.Params()
	var k [3]float64
	for i, name := range []string{"a", uName, vName} {
		v, err := strconv.ParseFloat(strings.TrimSpace(args[i]), 64)
		if err != nil {
			return quadratic.Equation{}, fmt.Errorf("%s: %q is not a number", name, args[i])
		}
		k[i] = v
	}
	eq, err := quadratic.New(form, k[0], k[1], k[2])
	if err != nil {
		return quadratic.Equation{}, fmt.Errorf("invalid equation: %w", err)
	}
	return eq, nil
}

func printSummary(w io.Writer, s quadratic.Summary) error {
	roots := s.ComplexRoots
	if !s.Complex {
		roots = nil
		for _, r := range s.Roots {
			roots = append(roots, strconv.FormatFloat(r, 'g', -1, 64))
		}
	}
	_, err := fmt.Fprintf(w, "Standard:     %s\nVertex:       %s\nFactored:     %s\nDiscriminant: %g\nVertex point: (%g, %g)\nRoots:        %s\n",
		s.Standard, s.Vertex, s.Factored, s.Discriminant, s.VertexP, s.VertexQ, strings.Join(roots, ", "))
	return err
}
