package tools

import (
	"github.com/richard-senior/quadratic/internal/logger"
	"github.com/richard-senior/quadratic/pkg/protocol"
)

// SolveTool returns the quadratic_solve tool definition
func SolveTool() protocol.Tool {
	return protocol.Tool{
		Name: "quadratic_solve",
		Description: `Solves a quadratic equation given in standard, vertex or factored form.
		Returns the coefficients, discriminant, vertex, real or complex roots and the
		equation rendered in all three forms.`,
		InputSchema: protocol.InputSchema{
			Type:       "object",
			Properties: equationProperties(),
			Required:   []string{"a"},
		},
	}
}

// HandleSolveTool handles the quadratic_solve tool invocation
func HandleSolveTool(params any) (any, error) {
	logger.Info("Handling quadratic_solve tool invocation")

	args, err := argsMap(params)
	if err != nil {
		return nil, err
	}
	eq, err := equationFromArgs(args)
	if err != nil {
		return nil, err
	}

	logger.Info("Solved", eq)
	return eq.Summary(), nil
}
