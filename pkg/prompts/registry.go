package prompts

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/richard-senior/quadratic/internal/logger"
	"github.com/richard-senior/quadratic/pkg/protocol"
)

var (
	// ErrNotFound is returned for an unknown prompt ID
	ErrNotFound = errors.New("prompt not found")
	// ErrMissingArgument is returned by Render when a required variable is not supplied
	ErrMissingArgument = errors.New("missing required prompt argument")
)

var validID = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// PromptRegistry keeps prompts in memory, in registration order
type PromptRegistry struct {
	mu      sync.RWMutex
	prompts map[string]protocol.Prompt
	order   []string
}

// NewPromptRegistry creates a registry holding the built in prompts
func NewPromptRegistry() *PromptRegistry {
	pr := &PromptRegistry{prompts: make(map[string]protocol.Prompt)}
	for _, p := range builtinPrompts() {
		if err := pr.SavePrompt(p); err != nil {
			logger.Warn("Failed to register prompt", p.ID, err)
		}
	}
	return pr
}

// GetPrompt retrieves a prompt by ID
func (pr *PromptRegistry) GetPrompt(id string) (*protocol.Prompt, error) {
	pr.mu.RLock()
	defer pr.mu.RUnlock()
	p, ok := pr.prompts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &p, nil
}

// ListPrompts returns every prompt in registration order
func (pr *PromptRegistry) ListPrompts() []protocol.Prompt {
	pr.mu.RLock()
	defer pr.mu.RUnlock()
	ret := make([]protocol.Prompt, 0, len(pr.order))
	for _, id := range pr.order {
		ret = append(ret, pr.prompts[id])
	}
	return ret
}

// SavePrompt adds or replaces a prompt
func (pr *PromptRegistry) SavePrompt(prompt protocol.Prompt) error {
	if !validID.MatchString(prompt.ID) {
		return fmt.Errorf("invalid prompt ID format: %q", prompt.ID)
	}
	pr.mu.Lock()
	defer pr.mu.Unlock()
	if _, exists := pr.prompts[prompt.ID]; !exists {
		pr.order = append(pr.order, prompt.ID)
	}
	pr.prompts[prompt.ID] = prompt
	return nil
}

// Render substitutes {{name}} placeholders in the prompt content.
// Every required variable must be present in args; optional ones that
// are missing become empty strings.
func (pr *PromptRegistry) Render(id string, args map[string]string) (string, error) {
	p, err := pr.GetPrompt(id)
	if err != nil {
		return "", err
	}

	var missing []string
	for name, v := range p.Variables {
		if _, ok := args[name]; !ok && v.Required {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", fmt.Errorf("%w: %s", ErrMissingArgument, strings.Join(missing, ", "))
	}

	pairs := make([]string, 0, 2*len(p.Variables))
	for name := range p.Variables {
		pairs = append(pairs, "{{"+name+"}}", args[name])
	}
	return strings.NewReplacer(pairs...).Replace(p.Content), nil
}

func builtinPrompts() []protocol.Prompt {
	return []protocol.Prompt{
		{
			ID:          "solve-quadratic",
			Name:        "Solve Quadratic",
			Description: "Solve a quadratic equation step by step",
			Content: "Solve the quadratic equation {{equation}} step by step.\n" +
				"Use the quadratic_solve tool to check your working, then:\n" +
				"- State the discriminant and what it says about the roots\n" +
				"- Give the roots, real or complex\n" +
				"- Rewrite the equation in vertex and factored form\n\n" +
				"Explain at a level suitable for {{audience}}.",
			Tags: []string{"maths", "quadratic"},
			Variables: map[string]protocol.PromptArgument{
				"equation": {
					Description: "The equation, e.g. 2*x^2 - 3*x + 1",
					Required:    true,
				},
				"audience": {
					Description: "Target audience (e.g., student, teacher)",
					Required:    false,
				},
			},
		},
		{
			ID:          "explain-vertex",
			Name:        "Explain Vertex",
			Description: "Explain the turning point of a parabola",
			Content: "The parabola y = {{equation}} has its vertex at ({{p}}, {{q}}).\n" +
				"Explain why, by completing the square, and describe whether the vertex " +
				"is a minimum or a maximum. Use the quadratic_graph tool to show the curve.",
			Tags: []string{"maths", "quadratic", "vertex"},
			Variables: map[string]protocol.PromptArgument{
				"equation": {Description: "The equation in standard form", Required: true},
				"p":        {Description: "x coordinate of the vertex", Required: true},
				"q":        {Description: "y coordinate of the vertex", Required: true},
			},
		},
	}
}

var (
	globalRegistry *PromptRegistry
	globalOnce     sync.Once
)

// GetGlobalRegistry returns the global prompt registry instance
func GetGlobalRegistry() *PromptRegistry {
	globalOnce.Do(func() {
		globalRegistry = NewPromptRegistry()
	})
	return globalRegistry
}
