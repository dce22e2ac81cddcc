package resources

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/richard-senior/quadratic/internal/logger"
	"github.com/richard-senior/quadratic/pkg/protocol"
	"github.com/richard-senior/quadratic/pkg/quadratic"
)

// ErrNotFound is returned by Read for an unknown URI
var ErrNotFound = errors.New("resource not found")

//go:embed docs/forms.md
var formsMarkdown string

const (
	FormsURI    = "quadratic://docs/forms"
	ExamplesURI = "quadratic://examples"
)

// FormsResource documents the three forms and the formatting rules
func FormsResource() protocol.Resource {
	return protocol.Resource{
		URI:         FormsURI,
		Name:        "quadratic_forms",
		Description: "How standard, vertex and factored forms are written and converted",
		MimeType:    "text/markdown",
	}
}

// ExamplesResource lists worked examples, one per kind of discriminant
func ExamplesResource() protocol.Resource {
	return protocol.Resource{
		URI:         ExamplesURI,
		Name:        "quadratic_examples",
		Description: "Solved examples with positive, zero and negative discriminants",
		MimeType:    "application/json",
	}
}

// GetResources returns all available resources
func GetResources() []protocol.Resource {
	return []protocol.Resource{
		FormsResource(),
		ExamplesResource(),
	}
}

// Read returns the contents of the resource at uri
func Read(uri string) (protocol.ResourceContents, error) {
	logger.Info("Reading resource:", uri)

	switch uri {
	case FormsURI:
		return protocol.ResourceContents{URI: uri, MimeType: "text/markdown", Text: formsMarkdown}, nil
	case ExamplesURI:
		text, err := examples()
		if err != nil {
			return protocol.ResourceContents{}, err
		}
		return protocol.ResourceContents{URI: uri, MimeType: "application/json", Text: text}, nil
	default:
		return protocol.ResourceContents{}, fmt.Errorf("%w: %s", ErrNotFound, uri)
	}
}

func examples() (string, error) {
	var summaries []quadratic.Summary
	for _, k := range [][3]float64{{1, 0, -4}, {1, -2, 1}, {1, 0, 4}} {
		eq, err := quadratic.FromStandardForm(k[0], k[1], k[2])
		if err != nil {
			return "", err
		}
		summaries = append(summaries, eq.Summary())
	}
	b, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
