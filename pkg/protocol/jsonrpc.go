package protocol

import (
	"encoding/json"
	"fmt"
)

// Messages follow JSON-RPC 2.0. An MCP client sends "initialize", then the
// "notifications/initialized" notification, then lists and calls tools:
//
//	{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"quadratic_solve","arguments":{"a":1,"b":0,"c":-4}}}
//
// Notifications carry no id and receive no response.

// MethodType names a JSON-RPC method
type MethodType string

const (
	MethodInitialize    MethodType = "initialize"
	MethodInitialized   MethodType = "notifications/initialized"
	MethodPing          MethodType = "ping"
	MethodToolsList     MethodType = "tools/list"
	MethodToolsCall     MethodType = "tools/call"
	MethodResourcesList MethodType = "resources/list"
	MethodResourcesRead MethodType = "resources/read"
	MethodPromptsList   MethodType = "prompts/list"
	MethodPromptsGet    MethodType = "prompts/get"
	MethodInvokeTool    MethodType = "invoke_tool"
)

// JsonRpcVersion is the only protocol version accepted
const JsonRpcVersion = "2.0"

// JsonRpcRequest is a request or, when ID is nil, a notification
type JsonRpcRequest struct {
	JsonRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      any             `json:"id,omitempty"`
}

// JsonRpcResponse carries exactly one of Result or Error. ID echoes the
// request id and is null when the request could not be read.
type JsonRpcResponse struct {
	JsonRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *JsonRpcError   `json:"error,omitempty"`
	ID      any             `json:"id"`
}

// JsonRpcError is the error member of a response
type JsonRpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Error codes. -32768 to -32000 are reserved by JSON-RPC.
const (
	ErrParse          = -32700
	ErrInvalidRequest = -32600
	ErrMethodNotFound = -32601
	ErrInvalidParams  = -32602
	ErrInternal       = -32603

	// implementation defined server errors live in -32099..-32000
	ErrServer              = -32000
	ErrToolExecutionFailed = -32001
)

func (e *JsonRpcError) Error() string {
	return fmt.Sprintf("jsonrpc error: code=%d message=%s", e.Code, e.Message)
}

// NewJsonRpcRequest marshals params into a new request
func NewJsonRpcRequest(method string, params any, id any) (*JsonRpcRequest, error) {
	var raw json.RawMessage
	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return &JsonRpcRequest{
		JsonRPC: JsonRpcVersion,
		Method:  method,
		Params:  raw,
		ID:      id,
	}, nil
}

// NewJsonRpcResponse marshals result into a success response
func NewJsonRpcResponse(result any, id any) (*JsonRpcResponse, error) {
	var raw json.RawMessage
	if result != nil {
		b, err := json.Marshal(result)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return &JsonRpcResponse{
		JsonRPC: JsonRpcVersion,
		Result:  raw,
		ID:      id,
	}, nil
}

// NewJsonRpcErrorResponse builds an error response
func NewJsonRpcErrorResponse(code int, message string, data any, id any) *JsonRpcResponse {
	return &JsonRpcResponse{
		JsonRPC: JsonRpcVersion,
		Error: &JsonRpcError{
			Code:    code,
			Message: message,
			Data:    data,
		},
		ID: id,
	}
}

// IsNotification reports whether no response is expected for r
func (r *JsonRpcRequest) IsNotification() bool {
	return r.ID == nil
}

// ParseJsonRpcRequest decodes a request and checks its version
func ParseJsonRpcRequest(data []byte) (*JsonRpcRequest, error) {
	var req JsonRpcRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	if req.JsonRPC != JsonRpcVersion {
		return nil, fmt.Errorf("invalid JSON-RPC version: %q", req.JsonRPC)
	}
	if req.Method == "" {
		return nil, fmt.Errorf("request has no method")
	}
	return &req, nil
}

// ParseJsonRpcResponse decodes a response and checks its version
func ParseJsonRpcResponse(data []byte) (*JsonRpcResponse, error) {
	var resp JsonRpcResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	if resp.JsonRPC != JsonRpcVersion {
		return nil, fmt.Errorf("invalid JSON-RPC version: %q", resp.JsonRPC)
	}
	return &resp, nil
}

func (r *JsonRpcRequest) String() string {
	return marshalIndent(r)
}

func (r *JsonRpcResponse) String() string {
	return marshalIndent(r)
}

func marshalIndent(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("error marshaling %T: %v", v, err)
	}
	return string(b)
}
