// Package graph turns a quadratic equation into line segments on a pixel
// canvas and renders them as PNG or SVG.
package graph

import (
	"errors"
	"fmt"
	"math"

	"github.com/richard-senior/quadratic/pkg/quadratic"
)

// ErrInvalidCanvas is returned for a canvas without positive dimensions
var ErrInvalidCanvas = errors.New("graph: invalid canvas")

// pixelLimit bounds every sampled pixel coordinate
const pixelLimit = 1 << 30

// Point is a pixel position. Rows grow downwards.
type Point struct {
	X, Y int
}

// Segment is a straight line between two pixels
type Segment struct {
	From, To Point
}

// Plot is the sampled curve of one equation plus the two axes
type Plot struct {
	Width, Height int
	Label         string
	Curve         []Segment
	Axes          [2]Segment
}

// Segments returns the axes followed by the curve, in draw order
func (p *Plot) Segments() []Segment {
	ret := make([]Segment, 0, len(p.Curve)+2)
	ret = append(ret, p.Axes[:]...)
	return append(ret, p.Curve...)
}

// Sample walks every pixel column of a width x height canvas whose centre
// pixel is the mathematical origin. Column i samples x = i - width/2 and
// joins floor(f(x)) to floor(f(x+1)) when the starting row is on the canvas.
// The far end of a segment may lie off the canvas.
func Sample(eq quadratic.Equation, width, height int) (*Plot, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidCanvas, width, height)
	}
	cx, cy := width/2, height/2

	plot := &Plot{
		Width:  width,
		Height: height,
		Label:  eq.String(),
		Curve:  make([]Segment, 0, width),
		Axes: [2]Segment{
			{From: Point{cx, 0}, To: Point{cx, height - 1}},
			{From: Point{0, cy}, To: Point{width - 1, cy}},
		},
	}

	for i := 0; i < width; i++ {
		x := i - cx
		y := toPixel(eq.ValueAt(float64(x)))
		y2 := toPixel(eq.ValueAt(float64(x + 1)))
		row := y + cy
		if row < 0 || row >= height {
			continue
		}
		plot.Curve = append(plot.Curve, Segment{
			From: Point{x + cx, row},
			To:   Point{x + 1 + cx, y2 + cy},
		})
	}
	return plot, nil
}

// toPixel floors v and clamps it to +-pixelLimit. NaN counts as off canvas.
func toPixel(v float64) int {
	v = math.Floor(v)
	switch {
	case math.IsNaN(v), v > pixelLimit:
		return pixelLimit
	case v < -pixelLimit:
		return -pixelLimit
	}
	return int(v)
}
