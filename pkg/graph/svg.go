package graph

import (
	"errors"
	"fmt"

	"github.com/richard-senior/quadratic/internal/logger"
	"github.com/richard-senior/quadratic/pkg/util"
)

// SVG renders plot as an SVG document string
func SVG(plot *Plot) (string, error) {
	doc, err := Document(plot)
	if err != nil {
		return "", err
	}
	return doc.ToSVG()
}

// Document builds the SVG document for plot. Consecutive curve segments
// that share an end point become a single polyline.
func Document(plot *Plot) (*util.SVG, error) {
	if plot == nil {
		return nil, errors.New("graph: nil plot")
	}
	doc, err := util.NewSVG("quadratic", plot.Width, plot.Height)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCanvas, err)
	}

	for i, axis := range plot.Axes {
		path, err := util.NewPathFromPoints(toUtil(axis.From, axis.To), fmt.Sprintf("axis-%d", i))
		if err != nil {
			return nil, err
		}
		path.Stroke = "grey"
		doc.AddPath(path)
	}

	for i, chain := range chains(plot.Curve) {
		path, err := util.NewPathFromPoints(toUtil(chain...), fmt.Sprintf("curve-%d", i))
		if err != nil {
			return nil, err
		}
		doc.AddPath(path)
	}

	if plot.Label != "" {
		if err := doc.AddText("label", plot.Label, "", 2, 10); err != nil {
			return nil, err
		}
	}
	logger.Debug("SVG paths:", doc.Paths.NumPaths())
	return doc, nil
}

// chains joins segments into point runs
func chains(curve []Segment) [][]Point {
	var ret [][]Point
	for _, s := range curve {
		if n := len(ret); n > 0 && ret[n-1][len(ret[n-1])-1] == s.From {
			ret[n-1] = append(ret[n-1], s.To)
			continue
		}
		ret = append(ret, []Point{s.From, s.To})
	}
	return ret
}

func toUtil(points ...Point) []*util.Point {
	ret := make([]*util.Point, len(points))
	for i, p := range points {
		ret[i] = util.NewPoint(float64(p.X), float64(p.Y))
	}
	return ret
}
