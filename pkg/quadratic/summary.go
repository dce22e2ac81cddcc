package quadratic

// Summary is a flattened, JSON friendly view of everything derivable from
// an Equation. It is what the tools, the web pages and the CLI print.
type Summary struct {
	A            float64   `json:"a"`
	B            float64   `json:"b"`
	C            float64   `json:"c"`
	Discriminant float64   `json:"discriminant"`
	VertexP      float64   `json:"p"`
	VertexQ      float64   `json:"q"`
	Roots        []float64 `json:"roots"`
	Complex      bool      `json:"complex"`
	ComplexRoots []string  `json:"complexRoots"`
	Standard     string    `json:"standard"`
	Vertex       string    `json:"vertex"`
	Factored     string    `json:"factored"`
}

// Summary collects the derived quantities of e
func (e Equation) Summary() Summary {
	p, q := e.Vertex()
	s := Summary{
		A:            e.a,
		B:            e.b,
		C:            e.c,
		Discriminant: e.Discriminant(),
		VertexP:      p,
		VertexQ:      q,
		Roots:        []float64{},
		Standard:     e.Format(Standard),
		Vertex:       e.Format(Vertex),
		Factored:     e.Format(Factored),
	}
	if roots, err := e.RealRoots(); err == nil {
		s.Roots = roots
	} else {
		s.Complex = true
	}
	for _, z := range e.ComplexRoots() {
		s.ComplexRoots = append(s.ComplexRoots, FormatComplex(z))
	}
	return s
}
