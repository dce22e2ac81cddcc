package transport

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/richard-senior/quadratic/internal/logger"
	"github.com/richard-senior/quadratic/pkg/protocol"
)

// StdioTransport reads JSON-RPC requests from a stream and writes
// newline terminated responses to another
type StdioTransport struct {
	reader *bufio.Reader
	mu     sync.Mutex
	writer *bufio.Writer
}

// NewStdioTransport creates a new transport that uses stdin/stdout
func NewStdioTransport() *StdioTransport {
	return NewStreamTransport(os.Stdin, os.Stdout)
}

// NewStreamTransport creates a transport over arbitrary streams
func NewStreamTransport(r io.Reader, w io.Writer) *StdioTransport {
	return &StdioTransport{
		reader: bufio.NewReader(r),
		writer: bufio.NewWriter(w),
	}
}

// ReadRequest reads the next JSON object from the stream. Objects are
// delimited by brace depth, so clients need not send newlines.
func (t *StdioTransport) ReadRequest() (*protocol.JsonRpcRequest, error) {
	data, err := t.readObject()
	if err != nil {
		if errors.Is(err, io.EOF) {
			logger.Info("Received EOF, client disconnected")
		} else {
			logger.Error("Error reading request:", err)
		}
		return nil, err
	}
	logger.Debug("Received raw request:", string(data))

	req, err := protocol.ParseJsonRpcRequest(data)
	if err != nil {
		logger.Error("Failed to parse JSON-RPC request:", err)
		return nil, &FrameError{Raw: data, Err: err}
	}
	return req, nil
}

// FrameError is returned for a complete frame that was not a valid
// request. The stream is still usable afterwards.
type FrameError struct {
	Raw []byte
	Err error
}

func (e *FrameError) Error() string { return "bad request frame: " + e.Err.Error() }
func (e *FrameError) Unwrap() error { return e.Err }

func (t *StdioTransport) readObject() ([]byte, error) {
	var buf bytes.Buffer
	depth := 0
	inString, escaped := false, false

	for {
		b, err := t.reader.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && len(bytes.TrimSpace(buf.Bytes())) > 0 {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		// skip whitespace between frames
		if depth == 0 && b != '{' {
			if b == ' ' || b == '\n' || b == '\r' || b == '\t' {
				continue
			}
			return nil, &FrameError{Raw: []byte{b}, Err: errors.New("expected '{'")}
		}
		buf.WriteByte(b)

		switch {
		case escaped:
			escaped = false
		case inString && b == '\\':
			escaped = true
		case b == '"':
			inString = !inString
		case !inString && b == '{':
			depth++
		case !inString && b == '}':
			depth--
			if depth == 0 {
				return buf.Bytes(), nil
			}
		}
	}
}

// WriteResponse writes a JSON-RPC response followed by a newline
func (t *StdioTransport) WriteResponse(response *protocol.JsonRpcResponse) error {
	responseBytes, err := json.Marshal(response)
	if err != nil {
		logger.Error("Failed to marshal response:", err)
		return err
	}
	responseBytes = append(responseBytes, '\n')

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.writer.Write(responseBytes); err != nil {
		logger.Error("Failed to write response:", err)
		return err
	}
	if err := t.writer.Flush(); err != nil {
		logger.Error("Failed to flush response:", err)
		return err
	}
	logger.Debug("Sent response:", string(responseBytes))
	return nil
}
