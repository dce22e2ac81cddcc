package tools

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/richard-senior/quadratic/pkg/protocol"
	"github.com/richard-senior/quadratic/pkg/quadratic"
)

// Defaults holds the settings tools fall back to when a call omits them.
// Non positive fields take their value from DefaultSettings.
type Defaults struct {
	GraphWidth  int
	GraphHeight int
	MaxMarkdown int
}

// DefaultSettings apply when nothing is configured
var DefaultSettings = Defaults{GraphWidth: 100, GraphHeight: 100, MaxMarkdown: 10000}

func (d Defaults) withFallback() Defaults {
	if d.GraphWidth <= 0 {
		d.GraphWidth = DefaultSettings.GraphWidth
	}
	if d.GraphHeight <= 0 {
		d.GraphHeight = DefaultSettings.GraphHeight
	}
	if d.MaxMarkdown <= 0 {
		d.MaxMarkdown = DefaultSettings.MaxMarkdown
	}
	return d
}

// equationProperties are the schema entries shared by every quadratic tool
func equationProperties() map[string]protocol.ToolProperty {
	return map[string]protocol.ToolProperty{
		"form": {
			Type:        "string",
			Description: "The form the coefficients are given in. Defaults to standard.",
			Enum:        []string{"standard", "vertex", "factored"},
		},
		"a":  {Type: "number", Description: "The leading coefficient, must not be 0"},
		"b":  {Type: "number", Description: "Standard form: a*x^2 + b*x + c"},
		"c":  {Type: "number", Description: "Standard form: a*x^2 + b*x + c"},
		"p":  {Type: "number", Description: "Vertex form: a*(x-p)^2 + q"},
		"q":  {Type: "number", Description: "Vertex form: a*(x-p)^2 + q"},
		"x1": {Type: "number", Description: "Factored form: a*(x-x1)*(x-x2)"},
		"x2": {Type: "number", Description: "Factored form: a*(x-x1)*(x-x2)"},
	}
}

func argsMap(params any) (map[string]any, error) {
	paramsMap, ok := params.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid parameters format")
	}
	return paramsMap, nil
}

// numberParam reads a JSON number or a numeric string
func numberParam(args map[string]any, name string) (float64, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return 0, fmt.Errorf("%s parameter is required", name)
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%s parameter is not a number: %q", name, v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%s parameter must be a number, got %T", name, raw)
	}
}

// intParam reads a whole number, returning def when name is absent
func intParam(args map[string]any, name string, def int) (int, error) {
	if _, ok := args[name]; !ok {
		return def, nil
	}
	f, err := numberParam(args, name)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("%s parameter must be a whole number", name)
	}
	return int(f), nil
}

func stringParam(args map[string]any, name, def string) string {
	if s, ok := args[name].(string); ok && s != "" {
		return s
	}
	return def
}

// equationFromArgs builds the equation described by form, a and the two
// form specific coefficients
func equationFromArgs(args map[string]any) (quadratic.Equation, error) {
	form, err := quadratic.ParseForm(stringParam(args, "form", ""))
	if err != nil {
		return quadratic.Equation{}, err
	}
	uName, vName := form.Params()

	a, err := numberParam(args, "a")
	if err != nil {
		return quadratic.Equation{}, err
	}
	u, err := numberParam(args, uName)
	if err != nil {
		return quadratic.Equation{}, err
	}
	v, err := numberParam(args, vName)
	if err != nil {
		return quadratic.Equation{}, err
	}

	eq, err := quadratic.New(form, a, u, v)
	if err != nil {
		return quadratic.Equation{}, fmt.Errorf("invalid equation: %w", err)
	}
	return eq, nil
}
