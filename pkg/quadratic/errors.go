package quadratic

import "errors"

var (
	// ErrInvalidEquation is returned by every constructor when the effective
	// leading coefficient is zero, when any coefficient is not a finite
	// number, or when the derived quantities overflow.
	ErrInvalidEquation = errors.New("quadratic: invalid equation")

	// ErrComplexResult is returned by RealRoots when the discriminant is
	// negative. Callers wanting the roots anyway should use ComplexRoots.
	ErrComplexResult = errors.New("quadratic: discriminant is negative")

	// ErrUnknownForm is returned by ParseForm for an unrecognised form name.
	ErrUnknownForm = errors.New("quadratic: unknown form")
)
