package graph

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
)

var (
	background = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	foreground = color.RGBA{A: 0xff}
)

// WritePNG draws plot as black one pixel lines on white and encodes it
func WritePNG(w io.Writer, plot *Plot) error {
	img, err := Rasterize(plot)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Rasterize draws plot onto a new RGBA image of the plot's size
func Rasterize(plot *Plot) (*image.RGBA, error) {
	if plot == nil {
		return nil, errors.New("graph: nil plot")
	}
	if plot.Width <= 0 || plot.Height <= 0 {
		return nil, ErrInvalidCanvas
	}
	img := image.NewRGBA(image.Rect(0, 0, plot.Width, plot.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: background}, image.Point{}, draw.Src)

	for _, s := range plot.Segments() {
		from, to, ok := clip(s, plot.Width, plot.Height)
		if !ok {
			continue
		}
		line(img, from, to, foreground)
	}
	return img, nil
}

// clip trims s to the canvas rectangle (Liang-Barsky) so that segments
// ending at saturated coordinates are cheap to draw
func clip(s Segment, width, height int) (Point, Point, bool) {
	x0, y0 := float64(s.From.X), float64(s.From.Y)
	dx, dy := float64(s.To.X)-x0, float64(s.To.Y)-y0
	t0, t1 := 0.0, 1.0

	edges := [4][2]float64{
		{-dx, x0},
		{dx, float64(width-1) - x0},
		{-dy, y0},
		{dy, float64(height-1) - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return Point{}, Point{}, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			t0 = math.Max(t0, r)
		} else {
			t1 = math.Min(t1, r)
		}
		if t0 > t1 {
			return Point{}, Point{}, false
		}
	}
	from := Point{int(math.Round(x0 + t0*dx)), int(math.Round(y0 + t0*dy))}
	to := Point{int(math.Round(x0 + t1*dx)), int(math.Round(y0 + t1*dy))}
	return from, to, true
}

// line is Bresenham's algorithm; pixels outside img are dropped
func line(img *image.RGBA, from, to Point, c color.RGBA) {
	dx := abs(to.X - from.X)
	dy := -abs(to.Y - from.Y)
	sx, sy := 1, 1
	if from.X > to.X {
		sx = -1
	}
	if from.Y > to.Y {
		sy = -1
	}
	e := dx + dy
	x, y := from.X, from.Y
	bounds := img.Bounds()
	for {
		if (image.Point{X: x, Y: y}).In(bounds) {
			img.SetRGBA(x, y, c)
		}
		if x == to.X && y == to.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
