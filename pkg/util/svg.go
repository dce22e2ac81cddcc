package util

import (
	"fmt"
	"html"
	"os"
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
/// SVGEmbeddedText
///////////////////////////////////////////////////////////////////////////////

// Holds information about text that is embedded into SVG files
type SVGEmbeddedText struct {
	X, Y    int
	Name    string
	Content string
	Style   string
}

func NewSVGEmbeddedText(name, text, style string, x, y int) (*SVGEmbeddedText, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}
	if style == "" {
		style = "font-size: 10px; font-family: monospace; fill: black;"
	}
	return &SVGEmbeddedText{
		X:       x,
		Y:       y,
		Name:    name,
		Content: text,
		Style:   style,
	}, nil
}

///////////////////////////////////////////////////////////////////////////////
/// SVG
///////////////////////////////////////////////////////////////////////////////

const svgHeader = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%d" height="%d" viewBox="0 0 %d %d"
	version="1.1"
	xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="white" />
`
const svgFooter = `</svg>
`

// An object for building and writing SVG documents made of line paths
// and text labels
type SVG struct {
	Name          string
	Paths         *Paths
	Text          []*SVGEmbeddedText
	Width, Height int
}

// NewSVG creates an empty document of the given size
func NewSVG(name string, width, height int) (*SVG, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid SVG size %dx%d", width, height)
	}
	return &SVG{
		Name:   name,
		Paths:  NewPaths(nil),
		Text:   []*SVGEmbeddedText{},
		Width:  width,
		Height: height,
	}, nil
}

func (s *SVG) AddPath(path *Path) {
	s.Paths.AddPath(path)
}

func (s *SVG) AddText(name, text, style string, x, y int) error {
	t, err := NewSVGEmbeddedText(name, text, style, x, y)
	if err != nil {
		return err
	}
	s.Text = append(s.Text, t)
	return nil
}

func (s *SVG) ToSVGFile(filePath string) error {
	svgContent, err := s.ToSVG()
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, []byte(svgContent), 0644)
}

func (s *SVG) ToSVG() (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, svgHeader, s.Width, s.Height, s.Width, s.Height)

	paths, err := s.Paths.ToSVG()
	if err != nil {
		return "", err
	}
	b.WriteString(paths)

	for _, text := range s.Text {
		fmt.Fprintf(&b, `<text id="%s" x="%d" y="%d" style="%s">%s</text>`+"\n",
			html.EscapeString(text.Name), text.X, text.Y, text.Style, html.EscapeString(text.Content))
	}

	b.WriteString(svgFooter)
	return b.String(), nil
}
