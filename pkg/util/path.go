package util

import (
	"fmt"
	"strconv"
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
/// POINT
///////////////////////////////////////////////////////////////////////////////

// Point represents a 2D point with X and Y coordinates
type Point struct {
	X, Y float64
}

func NewPoint(x float64, y float64) *Point {
	return &Point{X: x, Y: y}
}

///////////////////////////////////////////////////////////////////////////////
/// PATH
///////////////////////////////////////////////////////////////////////////////

/**
* Represents the information contained in a single SVG '<path>' tag.
* Only straight line (M and L) commands are produced.
 */
type Path struct {
	ID          string
	Points      []*Point
	Stroke      string
	CommandsStr string
}

/**
* Creates a polyline path through the given points
* @param points the vertices of the line, at least two
* @param id the id attribute of the resulting tag, defaults to "pathFromPoints"
 */
func NewPathFromPoints(points []*Point, id string) (*Path, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("a path needs at least two points, got %d", len(points))
	}
	if id == "" {
		id = "pathFromPoints"
	}

	var commands strings.Builder
	for i, pt := range points {
		if pt == nil {
			return nil, fmt.Errorf("point %d is nil", i)
		}
		letter := "L"
		if i == 0 {
			letter = "M"
		}
		if i > 0 {
			commands.WriteByte(' ')
		}
		fmt.Fprintf(&commands, "%s %s,%s", letter, formatCoord(pt.X), formatCoord(pt.Y))
	}

	return &Path{
		ID:          id,
		Points:      points,
		Stroke:      "black",
		CommandsStr: commands.String(),
	}, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ToPathTag renders the path as a single self closing <path> element
func (p *Path) ToPathTag() (string, error) {
	if p.CommandsStr == "" {
		return "", fmt.Errorf("path %q has no commands", p.ID)
	}
	stroke := p.Stroke
	if stroke == "" {
		stroke = "black"
	}
	return fmt.Sprintf(`<path id="%s" d="%s" stroke="%s" stroke-width="1" fill="none" />`,
		p.ID, p.CommandsStr, stroke), nil
}

///////////////////////////////////////////////////////////////////////////////
/// PATHS
///////////////////////////////////////////////////////////////////////////////

// Holds information about paths, which is an array of Path structures
type Paths struct {
	Paths []*Path
}

func NewPaths(paths []*Path) *Paths {
	if paths == nil {
		paths = []*Path{}
	}
	return &Paths{Paths: paths}
}

func (p *Paths) NumPaths() int {
	return len(p.Paths)
}

func (p *Paths) AddPath(path *Path) {
	p.Paths = append(p.Paths, path)
}

// Renders all paths in this object to a linebreak delimited string
// of SVG <path> tags
func (p *Paths) ToSVG() (string, error) {
	var b strings.Builder
	for _, path := range p.Paths {
		tag, err := path.ToPathTag()
		if err != nil {
			return "", err
		}
		b.WriteString(tag)
		b.WriteByte('\n')
	}
	return b.String(), nil
}
