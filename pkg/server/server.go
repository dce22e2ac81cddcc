package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/richard-senior/quadratic/internal/config"
	"github.com/richard-senior/quadratic/internal/logger"
	"github.com/richard-senior/quadratic/pkg/prompts"
	"github.com/richard-senior/quadratic/pkg/protocol"
	"github.com/richard-senior/quadratic/pkg/resources"
	"github.com/richard-senior/quadratic/pkg/tools"
	"github.com/richard-senior/quadratic/pkg/transport"
)

// fallbackProtocolVersion is answered when initialize names no version
const fallbackProtocolVersion = "2024-11-05"

// errInvalidParams marks handler failures caused by malformed params
var errInvalidParams = errors.New("invalid params")

// Server represents an MCP server
type Server struct {
	transport transport.Transport
	cfg       *config.Config

	mu        sync.RWMutex
	handlers  map[string]HandlerFunc
	toolFuncs map[string]HandlerFunc
	tools     []protocol.Tool
	resources []protocol.Resource
	prompts   *prompts.PromptRegistry

	toolDefaults tools.Defaults
}

// HandlerFunc is a function that handles an MCP request
type HandlerFunc func(params any) (any, error)

// NewServer creates a server reading from t. A nil cfg means defaults.
func NewServer(t transport.Transport, cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{
		transport: t,
		cfg:       cfg,
		handlers:  make(map[string]HandlerFunc),
		toolFuncs: make(map[string]HandlerFunc),
		prompts:   prompts.GetGlobalRegistry(),
	}
	s.toolDefaults = tools.Defaults{
		GraphWidth:  cfg.Graph.Width,
		GraphHeight: cfg.Graph.Height,
		MaxMarkdown: cfg.Report.MaxLength,
	}

	s.registerMethods()
	s.RegisterDefaultTools()
	s.RegisterDefaultResources()
	return s
}

func (s *Server) registerMethods() {
	s.handlers[string(protocol.MethodInitialize)] = s.handleInitialize
	s.handlers[string(protocol.MethodInitialized)] = s.handleInitialized
	s.handlers[string(protocol.MethodPing)] = s.handlePing
	s.handlers[string(protocol.MethodToolsList)] = s.handleToolsList
	s.handlers[string(protocol.MethodToolsCall)] = s.handleToolsCall
	s.handlers[string(protocol.MethodResourcesList)] = s.handleResourcesList
	s.handlers[string(protocol.MethodResourcesRead)] = s.handleResourcesRead
	s.handlers[string(protocol.MethodPromptsList)] = s.handlePromptsList
	s.handlers[string(protocol.MethodPromptsGet)] = s.handlePromptsGet
}

// RegisterTool registers a tool under the configured prefix
func (s *Server) RegisterTool(tool protocol.Tool, handler HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tool.Name = s.cfg.Server.ToolPrefix + tool.Name
	s.tools = append(s.tools, tool)
	s.toolFuncs[tool.Name] = handler
	logger.Info("Registered tool:", tool.Name)
}

// RegisterResource registers a resource with the server
func (s *Server) RegisterResource(resource protocol.Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resources = append(s.resources, resource)
	logger.Info("Registered resource:", resource.Name)
}

// GetTools returns the list of registered tools
func (s *Server) GetTools() []protocol.Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]protocol.Tool(nil), s.tools...)
}

// RegisterDefaultTools registers the quadratic tools
func (s *Server) RegisterDefaultTools() {
	logger.Info("Registering default tools...")
	s.RegisterTool(tools.SolveTool(), tools.HandleSolveTool)
	s.RegisterTool(tools.GraphTool(), s.toolDefaults.HandleGraphTool)
	s.RegisterTool(tools.ReportTool(), s.toolDefaults.HandleReportTool)
}

// RegisterDefaultResources registers all the default resources with the server
func (s *Server) RegisterDefaultResources() {
	logger.Info("Registering default resources...")
	for _, r := range resources.GetResources() {
		s.RegisterResource(r)
	}
}

// lookupTool finds a tool with or without the configured prefix
func (s *Server) lookupTool(name string) HandlerFunc {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prefix := s.cfg.Server.ToolPrefix
	if h := s.toolFuncs[name]; h != nil {
		return h
	}
	if prefix != "" && !strings.HasPrefix(name, prefix) {
		return s.toolFuncs[prefix+name]
	}
	return nil
}

// Start processes requests until the transport is exhausted or ctx is done
func (s *Server) Start(ctx context.Context) error {
	logger.Info("Starting MCP server")

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.ProcessRequests()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("MCP server stopping:", ctx.Err())
		return nil
	}
}

// ProcessRequests reads and answers requests until EOF. Malformed frames
// are answered with a JSON-RPC error and do not stop the loop.
func (s *Server) ProcessRequests() error {
	for {
		req, err := s.transport.ReadRequest()
		if err != nil {
			var fe *transport.FrameError
			switch {
			case errors.Is(err, io.EOF):
				return nil
			case errors.As(err, &fe):
				if werr := s.transport.WriteResponse(frameErrorResponse(fe)); werr != nil {
					return werr
				}
				continue
			default:
				return err
			}
		}

		// if it is nil then no response is required
		resp := s.HandleRequest(req)
		if resp == nil {
			continue
		}
		if err := s.transport.WriteResponse(resp); err != nil {
			return err
		}
	}
}

func frameErrorResponse(fe *transport.FrameError) *protocol.JsonRpcResponse {
	var syntax *json.SyntaxError
	if errors.As(fe.Err, &syntax) || errors.Is(fe.Err, io.ErrUnexpectedEOF) {
		return protocol.NewJsonRpcErrorResponse(protocol.ErrParse, "Parse error: "+fe.Err.Error(), nil, nil)
	}
	return protocol.NewJsonRpcErrorResponse(protocol.ErrInvalidRequest, "Invalid request: "+fe.Err.Error(), nil, nil)
}

// HandleRequest processes a request and returns a response, or nil for
// notifications
func (s *Server) HandleRequest(req *protocol.JsonRpcRequest) *protocol.JsonRpcResponse {
	logger.Info(">> ", req.Method)
	logger.Debug("Full request:", req.String())

	if req.IsNotification() || strings.HasPrefix(req.Method, "notifications/") {
		if h := s.handlers[req.Method]; h != nil {
			if _, err := h(req.Params); err != nil {
				logger.Warn("Notification handler failed:", req.Method, err)
			}
		} else {
			logger.Info("Ignoring notification:", req.Method)
		}
		return nil
	}

	var result any
	var err error
	if req.Method == string(protocol.MethodInvokeTool) {
		result, err = s.handleInvokeTool(req.Params)
	} else {
		handler := s.handlers[req.Method]
		if handler == nil {
			return protocol.NewJsonRpcErrorResponse(protocol.ErrMethodNotFound,
				fmt.Sprintf("Method not found: %s", req.Method), nil, req.ID)
		}
		result, err = handler(req.Params)
	}

	if err != nil {
		code := protocol.ErrToolExecutionFailed
		var rpcErr *protocol.JsonRpcError
		switch {
		case errors.As(err, &rpcErr):
			code = rpcErr.Code
		case errors.Is(err, errInvalidParams):
			code = protocol.ErrInvalidParams
		}
		logger.Warn("Request failed:", req.Method, err)
		return protocol.NewJsonRpcErrorResponse(code, err.Error(), nil, req.ID)
	}
	if result == nil {
		result = struct{}{}
	}

	resp, err := protocol.NewJsonRpcResponse(result, req.ID)
	if err != nil {
		return protocol.NewJsonRpcErrorResponse(protocol.ErrInternal,
			"Failed to marshal result: "+err.Error(), nil, req.ID)
	}
	logger.Debug("Full response:", resp.String())
	return resp
}

// decodeParams converts raw or already decoded params into v
func decodeParams(params any, v any) error {
	var data []byte
	switch p := params.(type) {
	case nil:
		return nil
	case json.RawMessage:
		if len(p) == 0 {
			return nil
		}
		data = p
	default:
		b, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("%w: %v", errInvalidParams, err)
		}
		data = b
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	return nil
}

func (s *Server) handleInvokeTool(params any) (any, error) {
	var invoke struct {
		Name       string         `json:"name"`
		Parameters map[string]any `json:"parameters"`
	}
	if err := decodeParams(params, &invoke); err != nil {
		return nil, err
	}
	if invoke.Name == "" {
		return nil, fmt.Errorf("%w: missing tool name in invoke_tool parameters", errInvalidParams)
	}

	logger.Info("Tool invocation requested for:", invoke.Name)
	handler := s.lookupTool(invoke.Name)
	if handler == nil {
		return nil, &protocol.JsonRpcError{Code: protocol.ErrMethodNotFound, Message: "tool not found: " + invoke.Name}
	}
	return handler(invoke.Parameters)
}

func (s *Server) handleToolsCall(params any) (any, error) {
	logger.Info("Handling tools/call request")

	var call struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
	if err := decodeParams(params, &call); err != nil {
		return nil, err
	}

	handler := s.lookupTool(call.Name)
	if handler == nil {
		return nil, fmt.Errorf("%w: tool not found: %s", errInvalidParams, call.Name)
	}

	result, err := handler(call.Arguments)
	if err != nil {
		return nil, fmt.Errorf("tool execution failed: %w", err)
	}
	return toToolResult(result)
}

// toToolResult wraps plain tool output as a JSON text content block
func toToolResult(result any) (protocol.ToolResult, error) {
	if tr, ok := result.(protocol.ToolResult); ok {
		return tr, nil
	}
	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return protocol.ToolResult{}, err
	}
	return protocol.ToolResult{Content: []protocol.Content{protocol.TextContent(string(b))}}, nil
}

func (s *Server) handleToolsList(params any) (any, error) {
	logger.Info("Handling tools/list request")
	return struct {
		Tools []protocol.Tool `json:"tools"`
	}{Tools: s.GetTools()}, nil
}

func (s *Server) handleResourcesList(params any) (any, error) {
	logger.Info("Handling resources/list request")
	s.mu.RLock()
	defer s.mu.RUnlock()
	return struct {
		Resources []protocol.Resource `json:"resources"`
	}{Resources: append([]protocol.Resource(nil), s.resources...)}, nil
}

func (s *Server) handleResourcesRead(params any) (any, error) {
	var read struct {
		URI string `json:"uri"`
	}
	if err := decodeParams(params, &read); err != nil {
		return nil, err
	}
	contents, err := resources.Read(read.URI)
	if err != nil {
		if errors.Is(err, resources.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", errInvalidParams, err)
		}
		return nil, err
	}
	return struct {
		Contents []protocol.ResourceContents `json:"contents"`
	}{Contents: []protocol.ResourceContents{contents}}, nil
}

type promptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

type promptListEntry struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Arguments   []promptArgument `json:"arguments,omitempty"`
}

func (s *Server) handlePromptsList(params any) (any, error) {
	logger.Info("Handling prompts/list request")

	entries := []promptListEntry{}
	for _, p := range s.prompts.ListPrompts() {
		entry := promptListEntry{Name: p.ID, Description: p.Description}
		for name, arg := range p.Variables {
			entry.Arguments = append(entry.Arguments, promptArgument{
				Name:        name,
				Description: arg.Description,
				Required:    arg.Required,
			})
		}
		sort.Slice(entry.Arguments, func(i, j int) bool {
			return entry.Arguments[i].Name < entry.Arguments[j].Name
		})
		entries = append(entries, entry)
	}
	return struct {
		Prompts []promptListEntry `json:"prompts"`
	}{Prompts: entries}, nil
}

func (s *Server) handlePromptsGet(params any) (any, error) {
	var get struct {
		Name      string            `json:"name"`
		Arguments map[string]string `json:"arguments,omitempty"`
	}
	if err := decodeParams(params, &get); err != nil {
		return nil, err
	}
	logger.Info("Prompt get requested for:", get.Name)

	prompt, err := s.prompts.GetPrompt(get.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	text, err := s.prompts.Render(get.Name, get.Arguments)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidParams, err)
	}

	return struct {
		Description string                   `json:"description"`
		Messages    []protocol.PromptMessage `json:"messages"`
	}{
		Description: prompt.Description,
		Messages: []protocol.PromptMessage{{
			Role:    "user",
			Content: protocol.PromptContent{Type: "text", Text: text},
		}},
	}, nil
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type initializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ServerInfo      serverInfo     `json:"serverInfo"`
}

func (s *Server) handleInitialize(params any) (any, error) {
	var init struct {
		ProtocolVersion string `json:"protocolVersion"`
	}
	if err := decodeParams(params, &init); err != nil {
		return nil, err
	}
	version := init.ProtocolVersion
	if version == "" {
		version = fallbackProtocolVersion
	}
	logger.Info("Initializing with protocol version", version)

	return initializeResult{
		ProtocolVersion: version,
		Capabilities: map[string]any{
			"tools":     map[string]any{"listChanged": false},
			"resources": map[string]any{"listChanged": false},
			"prompts":   map[string]any{"listChanged": false},
		},
		ServerInfo: serverInfo{Name: s.cfg.Server.Name, Version: s.cfg.Server.Version},
	}, nil
}

// 'initialized' Does not require a response
func (s *Server) handleInitialized(params any) (any, error) {
	logger.Info("Client initialized")
	return nil, nil
}

func (s *Server) handlePing(params any) (any, error) {
	return struct{}{}, nil
}
