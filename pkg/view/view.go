// Package view renders the HTML pages of the web front end. The result
// page doubles as the source of the markdown report tool.
package view

import (
	"embed"
	"html/template"
	"io"
	"net/url"
	"strconv"

	"github.com/richard-senior/quadratic/pkg/quadratic"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// FormEntry describes one of the input forms on the index page
type FormEntry struct {
	ID      string
	Title   string
	Action  string
	Pattern string
	Fields  []string
}

// Forms lists the index page forms in display order
var Forms = []FormEntry{
	{ID: "standard", Title: "Standard form", Action: "/StandardForm", Pattern: "a*x^2 + b*x + c", Fields: []string{"a", "b", "c"}},
	{ID: "vertex", Title: "Vertex form", Action: "/VertexForm", Pattern: "a*(x-p)^2 + q", Fields: []string{"a", "p", "q"}},
	{ID: "factored", Title: "Factored form", Action: "/FactoredForm", Pattern: "a*(x-x1)*(x-x2)", Fields: []string{"a", "x1", "x2"}},
}

// Result is the data behind the result page
type Result struct {
	Standard     string
	Vertex       string
	Factored     string
	Discriminant string
	P, Q         string
	Complex      bool
	Roots        []string
	ChartURL     string
	Width        int
	Height       int
}

// NewResult describes eq. A chart is linked when width and height are
// positive.
func NewResult(eq quadratic.Equation, width, height int) Result {
	s := eq.Summary()
	r := Result{
		Standard:     s.Standard,
		Vertex:       s.Vertex,
		Factored:     s.Factored,
		Discriminant: number(s.Discriminant),
		P:            number(s.VertexP),
		Q:            number(s.VertexQ),
		Complex:      s.Complex,
	}
	if s.Complex {
		r.Roots = s.ComplexRoots
	} else {
		for _, root := range s.Roots {
			r.Roots = append(r.Roots, number(root))
		}
	}
	if width > 0 && height > 0 {
		r.ChartURL = ChartURL(eq, width, height)
		r.Width, r.Height = width, height
	}
	return r
}

// ChartURL is the path of the PNG graph of eq
func ChartURL(eq quadratic.Equation, width, height int) string {
	q := url.Values{}
	q.Set("a", number(eq.A()))
	q.Set("b", number(eq.B()))
	q.Set("c", number(eq.C()))
	q.Set("width", strconv.Itoa(width))
	q.Set("height", strconv.Itoa(height))
	return "/Chart?" + q.Encode()
}

// RenderIndex writes the landing page
func RenderIndex(w io.Writer) error {
	return pages.ExecuteTemplate(w, "index", Forms)
}

// RenderResult writes the result page for r
func RenderResult(w io.Writer, r Result) error {
	return pages.ExecuteTemplate(w, "result", r)
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
