// Package quadratic models a single quadratic equation a*x^2 + b*x + c.
//
// An Equation is created from its standard, vertex or factored form and is
// never modified afterwards, so values can be shared freely between
// goroutines. Roots, the vertex and the textual forms are derived on demand.
package quadratic
