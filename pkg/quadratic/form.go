package quadratic

import (
	"fmt"
	"strings"
)

// Form is one of the three ways a quadratic equation can be written down
type Form int

const (
	Standard Form = iota // a*x^2 + b*x + c
	Vertex               // a*(x-p)^2 + q
	Factored             // a*(x-x1)*(x-x2)
)

func (f Form) String() string {
	switch f {
	case Standard:
		return "standard"
	case Vertex:
		return "vertex"
	case Factored:
		return "factored"
	default:
		return fmt.Sprintf("Form(%d)", int(f))
	}
}

// ParseForm converts a case-insensitive form name into a Form.
// An empty name means Standard.
func ParseForm(name string) (Form, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "standard":
		return Standard, nil
	case "vertex":
		return Vertex, nil
	case "factored", "factorised", "factorized":
		return Factored, nil
	default:
		return Standard, fmt.Errorf("%w: %q", ErrUnknownForm, name)
	}
}

// Params returns the names of the two coefficients, besides a, that this
// form is written with.
func (f Form) Params() (string, string) {
	switch f {
	case Vertex:
		return "p", "q"
	case Factored:
		return "x1", "x2"
	default:
		return "b", "c"
	}
}
