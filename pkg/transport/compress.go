package transport

import (
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/richard-senior/quadratic/internal/logger"
)

// Compress wraps h so that responses are brotli or gzip encoded when the
// client's Accept-Encoding allows it. brotli wins when both are offered.
func Compress(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		encoding := negotiate(r.Header.Get("Accept-Encoding"))
		w.Header().Add("Vary", "Accept-Encoding")
		if encoding == "" {
			h.ServeHTTP(w, r)
			return
		}

		ew := &encodingWriter{ResponseWriter: w, encoding: encoding}
		defer ew.Close()
		h.ServeHTTP(ew, r)
	})
}

// negotiate picks br or gzip from an Accept-Encoding header, honouring q=0
func negotiate(header string) string {
	offered := map[string]bool{}
	for _, part := range strings.Split(header, ",") {
		fields := strings.Split(strings.TrimSpace(part), ";")
		name := strings.ToLower(strings.TrimSpace(fields[0]))
		refused := false
		for _, param := range fields[1:] {
			param = strings.TrimSpace(param)
			if !strings.HasPrefix(param, "q=") {
				continue
			}
			if q, err := strconv.ParseFloat(param[2:], 64); err == nil && q == 0 {
				refused = true
			}
		}
		offered[name] = !refused
	}
	switch {
	case offered["br"]:
		return "br"
	case offered["gzip"]:
		return "gzip"
	default:
		return ""
	}
}

// encodingWriter starts the encoder on the first Write, so a response
// without a body is sent as is
type encodingWriter struct {
	http.ResponseWriter
	encoding string
	enc      io.WriteCloser
	status   int
	sent     bool
}

func (e *encodingWriter) WriteHeader(status int) {
	if e.status == 0 {
		e.status = status
	}
}

func (e *encodingWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if e.enc == nil {
		h := e.Header()
		if h.Get("Content-Type") == "" {
			h.Set("Content-Type", http.DetectContentType(p))
		}
		// the encoded length differs from anything the handler computed
		h.Del("Content-Length")
		h.Set("Content-Encoding", e.encoding)
		e.sendHeader()

		switch e.encoding {
		case "br":
			e.enc = brotli.NewWriterLevel(e.ResponseWriter, brotli.DefaultCompression)
		default:
			e.enc = gzip.NewWriter(e.ResponseWriter)
		}
	}
	return e.enc.Write(p)
}

func (e *encodingWriter) sendHeader() {
	if e.sent {
		return
	}
	e.sent = true
	if e.status == 0 {
		e.status = http.StatusOK
	}
	e.ResponseWriter.WriteHeader(e.status)
}

// Close flushes the encoder, or sends the bare status when nothing was written
func (e *encodingWriter) Close() error {
	if e.enc != nil {
		return e.enc.Close()
	}
	if e.status != 0 {
		e.sendHeader()
	}
	return nil
}

// DecodeBody returns a reader that undoes the given Content-Encoding
func DecodeBody(encoding string, r io.Reader) (io.ReadCloser, error) {
	switch strings.ToLower(encoding) {
	case "", "identity":
		return io.NopCloser(r), nil
	case "gzip":
		return gzip.NewReader(r)
	case "deflate":
		return flate.NewReader(r), nil
	case "br":
		return io.NopCloser(brotli.NewReader(r)), nil
	default:
		logger.Warn("Unknown content encoding:", encoding)
		return nil, fmt.Errorf("unsupported content encoding: %s", encoding)
	}
}
