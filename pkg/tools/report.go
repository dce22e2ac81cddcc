package tools

import (
	"bytes"
	"strings"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"

	"github.com/richard-senior/quadratic/internal/logger"
	"github.com/richard-senior/quadratic/pkg/protocol"
	"github.com/richard-senior/quadratic/pkg/view"
)

// ReportTool returns the quadratic_report tool definition
func ReportTool() protocol.Tool {
	return protocol.Tool{
		Name: "quadratic_report",
		Description: `Describes a quadratic equation as a Markdown document covering all three
		forms, the discriminant, the vertex and the roots. Use this when the user
		wants an explanation rather than raw numbers.`,
		InputSchema: protocol.InputSchema{
			Type:       "object",
			Properties: equationProperties(),
			Required:   []string{"a"},
		},
	}
}

// HandleReportTool renders the HTML result page and converts it to
// Markdown of at most d.MaxMarkdown bytes
func (d Defaults) HandleReportTool(params any) (any, error) {
	logger.Info("Handling quadratic_report tool invocation")

	args, err := argsMap(params)
	if err != nil {
		return nil, err
	}
	eq, err := equationFromArgs(args)
	if err != nil {
		return nil, err
	}

	var page bytes.Buffer
	if err := view.RenderResult(&page, view.NewResult(eq, 0, 0)); err != nil {
		return nil, err
	}
	html := page.String()

	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		logger.Error("Failed to convert HTML to Markdown:", err)
		return nil, err
	}

	// Limit the size of the markdown if it's too large
	if maxLength := d.withFallback().MaxMarkdown; len(markdown) > maxLength {
		markdown = truncate(markdown, maxLength) + "\n\n... (content truncated due to size)"
	}

	return map[string]any{
		"markdown": markdown,
		"title":    extractTitle(html),
		"equation": eq.String(),
	}, nil
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// extractTitle returns the <title> of an HTML document
func extractTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "No title found"
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return "No title found"
	}
	return title
}
