package tools

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/richard-senior/quadratic/internal/logger"
	"github.com/richard-senior/quadratic/pkg/graph"
	"github.com/richard-senior/quadratic/pkg/protocol"
)

// maxCanvas bounds the width and height a caller may ask for
const maxCanvas = 2000

// GraphTool returns the quadratic_graph tool definition
func GraphTool() protocol.Tool {
	props := equationProperties()
	props["width"] = protocol.ToolProperty{Type: "integer", Description: "Canvas width in pixels"}
	props["height"] = protocol.ToolProperty{Type: "integer", Description: "Canvas height in pixels"}
	props["format"] = protocol.ToolProperty{
		Type:        "string",
		Description: "svg (default) returns the document as text, png returns base64 image data",
		Enum:        []string{"svg", "png"},
	}
	return protocol.Tool{
		Name: "quadratic_graph",
		Description: `Plots a quadratic equation with the origin in the centre of the canvas.
		One unit is one pixel and rows grow downwards.`,
		InputSchema: protocol.InputSchema{
			Type:       "object",
			Properties: props,
			Required:   []string{"a"},
		},
	}
}

// HandleGraphTool handles the quadratic_graph tool invocation. d supplies
// the canvas size when the call leaves it out.
func (d Defaults) HandleGraphTool(params any) (any, error) {
	logger.Info("Handling quadratic_graph tool invocation")

	args, err := argsMap(params)
	if err != nil {
		return nil, err
	}
	eq, err := equationFromArgs(args)
	if err != nil {
		return nil, err
	}

	d = d.withFallback()
	width, err := intParam(args, "width", d.GraphWidth)
	if err != nil {
		return nil, err
	}
	height, err := intParam(args, "height", d.GraphHeight)
	if err != nil {
		return nil, err
	}
	if width > maxCanvas || height > maxCanvas {
		return nil, fmt.Errorf("%w: %dx%d exceeds %dx%d", graph.ErrInvalidCanvas, width, height, maxCanvas, maxCanvas)
	}

	plot, err := graph.Sample(eq, width, height)
	if err != nil {
		return nil, err
	}

	switch format := stringParam(args, "format", "svg"); format {
	case "svg":
		svg, err := graph.SVG(plot)
		if err != nil {
			return nil, err
		}
		return protocol.ToolResult{Content: []protocol.Content{protocol.TextContent(svg)}}, nil
	case "png":
		var buf bytes.Buffer
		if err := graph.WritePNG(&buf, plot); err != nil {
			return nil, err
		}
		data := base64.StdEncoding.EncodeToString(buf.Bytes())
		return protocol.ToolResult{Content: []protocol.Content{protocol.ImageContent(data, "image/png")}}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
