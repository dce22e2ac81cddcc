// Package web serves the HTML front end, the PNG charts and an HTTP
// endpoint for MCP requests.
package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/richard-senior/quadratic/internal/config"
	"github.com/richard-senior/quadratic/internal/logger"
	"github.com/richard-senior/quadratic/pkg/graph"
	"github.com/richard-senior/quadratic/pkg/protocol"
	"github.com/richard-senior/quadratic/pkg/quadratic"
	"github.com/richard-senior/quadratic/pkg/server"
	"github.com/richard-senior/quadratic/pkg/transport"
	"github.com/richard-senior/quadratic/pkg/view"
)

const (
	maxRequestBody = 1 << 20
	maxChartSize   = 2000
)

// Handler serves the web pages and the /mcp endpoint
type Handler struct {
	mcp *server.Server
	cfg *config.Config
}

// NewHandler creates a handler. mcp may be nil, in which case /mcp is
// not routed.
func NewHandler(mcp *server.Server, cfg *config.Config) *Handler {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Handler{mcp: mcp, cfg: cfg}
}

// SetupRoutes configures the HTTP routes
func (h *Handler) SetupRoutes() *mux.Router {
	r := mux.NewRouter()
	r.Use(logRequests)

	r.HandleFunc("/", h.handleIndex).Methods("GET")
	r.HandleFunc("/StandardForm", h.handleStandardForm).Methods("GET")
	r.HandleFunc("/VertexForm", h.handleConvert(quadratic.Vertex)).Methods("GET")
	r.HandleFunc("/FactoredForm", h.handleConvert(quadratic.Factored)).Methods("GET")
	r.HandleFunc("/Chart", h.handleChart).Methods("GET")
	if h.mcp != nil {
		r.HandleFunc("/mcp", h.handleMCP).Methods("POST")
	}
	return r
}

// Handler returns the routes wrapped in response compression
func (h *Handler) Handler() http.Handler {
	return transport.Compress(h.SetupRoutes())
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("HTTP", r.Method, r.URL.RequestURI(), time.Since(start).String())
	})
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := view.RenderIndex(&buf); err != nil {
		logger.Error("Failed to render index:", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, buf.Bytes())
}

func (h *Handler) handleStandardForm(w http.ResponseWriter, r *http.Request) {
	eq, err := equationFromQuery(r.URL.Query(), quadratic.Standard)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	res := view.NewResult(eq, h.cfg.Graph.Width, h.cfg.Graph.Height)
	if err := view.RenderResult(&buf, res); err != nil {
		logger.Error("Failed to render result:", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, buf.Bytes())
}

// handleConvert turns vertex or factored coefficients into the standard
// form and redirects to its result page
func (h *Handler) handleConvert(form quadratic.Form) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eq, err := equationFromQuery(r.URL.Query(), form)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		q := url.Values{}
		q.Set("a", formatFloat(eq.A()))
		q.Set("b", formatFloat(eq.B()))
		q.Set("c", formatFloat(eq.C()))
		http.Redirect(w, r, "/StandardForm?"+q.Encode(), http.StatusFound)
	}
}

func (h *Handler) handleChart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	eq, err := equationFromQuery(q, quadratic.Standard)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	width, err := sizeFromQuery(q, "width", h.cfg.Graph.Width)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	height, err := sizeFromQuery(q, "height", h.cfg.Graph.Height)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	plot, err := graph.Sample(eq, width, height)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var buf bytes.Buffer
	if err := graph.WritePNG(&buf, plot); err != nil {
		logger.Error("Failed to encode chart:", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(buf.Bytes())
}

// handleMCP answers one JSON-RPC request per POST
func (h *Handler) handleMCP(w http.ResponseWriter, r *http.Request) {
	body, err := transport.DecodeBody(r.Header.Get("Content-Encoding"), http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
		return
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		writeJSON(w, http.StatusBadRequest,
			protocol.NewJsonRpcErrorResponse(protocol.ErrParse, "Parse error: "+err.Error(), nil, nil))
		return
	}

	req, err := protocol.ParseJsonRpcRequest(data)
	if err != nil {
		code := protocol.ErrInvalidRequest
		var syntax *json.SyntaxError
		if errors.As(err, &syntax) {
			code = protocol.ErrParse
		}
		writeJSON(w, http.StatusBadRequest, protocol.NewJsonRpcErrorResponse(code, err.Error(), nil, nil))
		return
	}

	resp := h.mcp.HandleRequest(req)
	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeHTML(w http.ResponseWriter, page []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to write JSON response:", err)
	}
}

// equationFromQuery reads a and the two coefficients of form
func equationFromQuery(q url.Values, form quadratic.Form) (quadratic.Equation, error) {
	uName, vName := form.Params()
	var k [3]float64
	for i, name := range []string{"a", uName, vName} {
		v, err := floatFromQuery(q, name)
		if err != nil {
			return quadratic.Equation{}, err
		}
		k[i] = v
	}
	eq, err := quadratic.New(form, k[0], k[1], k[2])
	if err != nil {
		return quadratic.Equation{}, fmt.Errorf("invalid equation: %w", err)
	}
	return eq, nil
}

func floatFromQuery(q url.Values, name string) (float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, fmt.Errorf("missing parameter %q", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parameter %q is not a number: %q", name, raw)
	}
	return v, nil
}

func sizeFromQuery(q url.Values, name string, def int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 || v > maxChartSize {
		return 0, fmt.Errorf("parameter %q must be a whole number between 1 and %d", name, maxChartSize)
	}
	return v, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
