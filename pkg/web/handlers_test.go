package web

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richard-senior/quadratic/internal/config"
	"github.com/richard-senior/quadratic/pkg/protocol"
	"github.com/richard-senior/quadratic/pkg/server"
	"github.com/richard-senior/quadratic/pkg/transport"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	cfg := config.Default()
	srv := server.NewServer(transport.NewStreamTransport(strings.NewReader(""), io.Discard), cfg)
	return NewHandler(srv, cfg).Handler()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestIndex(t *testing.T) {
	rec := get(t, newTestHandler(t), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 3, doc.Find("form").Length())
}

func TestStandardForm(t *testing.T) {
	rec := get(t, newTestHandler(t), "/StandardForm?a=1&b=-2&c=1")
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "1*x^2 -2*x +1", doc.Find("#standard").Text())
	assert.Equal(t, "1*(x-1) 0", doc.Find("#vertex").Text())
	assert.Equal(t, "0", doc.Find("#discriminant").Text())
	assert.Equal(t, "1", doc.Find("#roots li").Text())

	src, ok := doc.Find("img#chart").Attr("src")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(src, "/Chart?"))
}

func TestConvertRedirects(t *testing.T) {
	h := newTestHandler(t)
	tests := []struct {
		target  string
		a, b, c string
	}{
		{"/VertexForm?a=2&p=3&q=-1", "2", "-12", "17"},
		{"/FactoredForm?a=-1&x1=2&x2=5", "-1", "7", "-10"},
	}
	for _, tt := range tests {
		rec := get(t, h, tt.target)
		require.Equal(t, http.StatusFound, rec.Code, tt.target)

		loc, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "/StandardForm", loc.Path)
		assert.Equal(t, tt.a, loc.Query().Get("a"))
		assert.Equal(t, tt.b, loc.Query().Get("b"))
		assert.Equal(t, tt.c, loc.Query().Get("c"))
	}
}

func TestBadInput(t *testing.T) {
	h := newTestHandler(t)
	for _, target := range []string{
		"/StandardForm?a=0&b=1&c=1",
		"/StandardForm?a=x&b=1&c=1",
		"/StandardForm?a=1&b=1",
		"/VertexForm?a=0&p=1&q=1",
		"/Chart?a=1&b=0&c=0&width=0",
		"/Chart?a=1&b=0&c=0&height=99999",
	} {
		rec := get(t, h, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}

	rec := get(t, h, "/StandardForm?a=0&b=1&c=1")
	assert.Contains(t, rec.Body.String(), "invalid equation")
}

func TestChart(t *testing.T) {
	rec := get(t, newTestHandler(t), "/Chart?a=1&b=0&c=0")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())

	rec = get(t, newTestHandler(t), "/Chart?a=1&b=0&c=0&width=64&height=32")
	img, err = png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 32, img.Bounds().Dy())
}

func TestCompressedResponse(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	newTestHandler(t).ServeHTTP(rec, req)

	require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	page, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(page), "Quadratic equations")
}

func postMCP(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMCPEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec := postMCP(t, h, `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"quadratic_solve","arguments":{"a":"1","b":"0","c":"4"}}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp protocol.JsonRpcResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp.Error)
	assert.Equal(t, 7.0, resp.ID)
	assert.Contains(t, string(resp.Result), `0+2i`)

	rec = postMCP(t, h, `{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = postMCP(t, h, `{"jsonrpc":"2.0","id":1,`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)

	rec = postMCP(t, h, `{"jsonrpc":"2.0","id":1,"method":"nope"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = protocol.JsonRpcResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.ErrMethodNotFound, resp.Error.Code)
}

func TestMCPEndpointGzipBody(t *testing.T) {
	var body bytes.Buffer
	zw := gzip.NewWriter(&body)
	_, err := zw.Write([]byte(`{"jsonrpc":"2.0","id":1,"method":"ping"}`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	req := httptest.NewRequest(http.MethodPost, "/mcp", &body)
	req.Header.Set("Content-Encoding", "gzip")
	rec := httptest.NewRecorder()
	newTestHandler(t).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"jsonrpc":"2.0","result":{},"id":1}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader("{}"))
	req.Header.Set("Content-Encoding", "zstd")
	rec = httptest.NewRecorder()
	newTestHandler(t).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	rec := get(t, newTestHandler(t), "/mcp")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMCPNotificationUnderCompression(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Encoding", "br, gzip")
	rec := httptest.NewRecorder()
	newTestHandler(t).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Zero(t, rec.Body.Len())
}
