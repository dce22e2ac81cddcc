package quadratic

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"strconv"
)

// Equation is an immutable quadratic a*x^2 + b*x + c with a != 0.
// All derived quantities are computed on demand from the three
// standard form coefficients.
type Equation struct {
	a, b, c float64
}

// FromStandardForm creates an Equation from a*x^2 + b*x + c
func FromStandardForm(a, b, c float64) (Equation, error) {
	if err := validate(a, b, c); err != nil {
		return Equation{}, fmt.Errorf("standard form: %w", err)
	}
	return build("standard form", a, b, c)
}

// FromVertexForm creates an Equation from a*(x-p)^2 + q
func FromVertexForm(a, p, q float64) (Equation, error) {
	if err := validate(a, p, q); err != nil {
		return Equation{}, fmt.Errorf("vertex form: %w", err)
	}
	return build("vertex form", a, -2*a*p, a*p*p+q)
}

// FromFactoredForm creates an Equation from a*(x-x1)*(x-x2)
func FromFactoredForm(a, x1, x2 float64) (Equation, error) {
	if err := validate(a, x1, x2); err != nil {
		return Equation{}, fmt.Errorf("factored form: %w", err)
	}
	return build("factored form", a, -a*(x1+x2), a*x1*x2)
}

// build rejects coefficients whose standard form, discriminant, vertex
// or roots do not fit in a float64
func build(form string, a, b, c float64) (Equation, error) {
	e := Equation{a: a, b: b, c: c}
	p, q := e.Vertex()
	derived := []float64{b, c, e.Discriminant(), p, q}
	for _, z := range e.ComplexRoots() {
		derived = append(derived, real(z), imag(z))
	}
	for _, v := range derived {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Equation{}, fmt.Errorf("%s: %w: coefficients out of range", form, ErrInvalidEquation)
		}
	}
	return e, nil
}

// New dispatches to the constructor for the given form. u and v are the
// form specific coefficients: (b, c), (p, q) or (x1, x2).
func New(form Form, a, u, v float64) (Equation, error) {
	switch form {
	case Standard:
		return FromStandardForm(a, u, v)
	case Vertex:
		return FromVertexForm(a, u, v)
	case Factored:
		return FromFactoredForm(a, u, v)
	default:
		return Equation{}, fmt.Errorf("%w: %v", ErrUnknownForm, form)
	}
}

func validate(a float64, rest ...float64) error {
	for _, v := range append([]float64{a}, rest...) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: coefficient %v is not finite", ErrInvalidEquation, v)
		}
	}
	if a == 0 {
		return fmt.Errorf("%w: a is 0", ErrInvalidEquation)
	}
	return nil
}

func (e Equation) A() float64 { return e.a }
func (e Equation) B() float64 { return e.b }
func (e Equation) C() float64 { return e.c }

// Discriminant returns b^2 - 4ac
func (e Equation) Discriminant() float64 {
	return e.b*e.b - 4*e.a*e.c
}

// Vertex returns the turning point (p, q) of the parabola
func (e Equation) Vertex() (float64, float64) {
	return -e.b / (2 * e.a), -e.Discriminant() / (4 * e.a)
}

// ValueAt evaluates the equation at x
func (e Equation) ValueAt(x float64) float64 {
	return e.a*x*x + e.b*x + e.c
}

// RealRoots returns the real roots of the equation.
// Two roots come back in formula order, (-b-sqrt(D))/2a first, which is
// not necessarily ascending when a < 0. A zero discriminant yields the
// single root p. A negative discriminant yields ErrComplexResult and a
// NaN one, which no constructor lets through, ErrInvalidEquation.
func (e Equation) RealRoots() ([]float64, error) {
	d := e.Discriminant()
	switch {
	case math.IsNaN(d):
		return nil, fmt.Errorf("%w: discriminant is not a number", ErrInvalidEquation)
	case d > 0:
		sd := math.Sqrt(d)
		return []float64{(-e.b - sd) / (2 * e.a), (-e.b + sd) / (2 * e.a)}, nil
	case d == 0:
		p, _ := e.Vertex()
		return []float64{p}, nil
	default:
		return nil, ErrComplexResult
	}
}

// ComplexRoots always returns two roots, in the same order as RealRoots.
// For a zero discriminant both entries equal p.
func (e Equation) ComplexRoots() []complex128 {
	d := e.Discriminant()
	if d == 0 {
		p, _ := e.Vertex()
		return []complex128{complex(p, 0), complex(p, 0)}
	}
	sd := cmplx.Sqrt(complex(d, 0))
	nb := complex(-e.b, 0)
	den := complex(2*e.a, 0)
	return []complex128{(nb - sd) / den, (nb + sd) / den}
}

// Format renders the equation in the given form
func (e Equation) Format(form Form) string {
	switch form {
	case Standard:
		return fmt.Sprintf("%s*x^2 %s*x %s",
			formatNumber(e.a, false, false),
			formatNumber(e.b, false, true),
			formatNumber(e.c, false, true))
	case Vertex:
		p, q := e.Vertex()
		return fmt.Sprintf("%s*(x%s) %s",
			formatNumber(e.a, false, false),
			formatNumber(-p, false, true),
			formatNumber(q, false, true))
	case Factored:
		roots, err := e.RealRoots()
		if errors.Is(err, ErrComplexResult) {
			return "Complex roots"
		}
		if err != nil {
			return ""
		}
		x1, x2 := roots[0], roots[len(roots)-1]
		return fmt.Sprintf("%s * (x%s) * (x%s)",
			formatNumber(e.a, false, false),
			formatNumber(-x1, false, true),
			formatNumber(-x2, false, true))
	default:
		return ""
	}
}

// String renders the standard form
func (e Equation) String() string {
	return e.Format(Standard)
}

// formatNumber writes a signed term. Zero is always a bare "0".
func formatNumber(v float64, separated, plus bool) string {
	sep := ""
	if separated {
		sep = " "
	}
	mag := strconv.FormatFloat(math.Abs(v), 'g', -1, 64)
	switch {
	case v > 0:
		if plus {
			return "+" + sep + mag
		}
		return sep + mag
	case v < 0:
		return "-" + sep + mag
	default:
		return "0"
	}
}

// FormatComplex renders a complex root as "re", "re+imi" or "re-imi"
func FormatComplex(z complex128) string {
	re := formatNumber(real(z), false, false)
	if imag(z) == 0 {
		return re
	}
	return re + formatNumber(imag(z), false, true) + "i"
}
