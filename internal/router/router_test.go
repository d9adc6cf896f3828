package router

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Totarae/FaleProxy/internal/fetcher"
	"github.com/Totarae/FaleProxy/internal/handlers"
	"github.com/Totarae/FaleProxy/internal/model"
	"github.com/Totarae/FaleProxy/internal/rewriter"
	"github.com/Totarae/FaleProxy/internal/service"
	"github.com/Totarae/FaleProxy/web"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := zap.NewNop()
	f := fetcher.New(fetcher.Options{Timeout: 2 * time.Second}, logger)
	rw := rewriter.New(rewriter.NewReplacer("Yale", "Fale"), rewriter.Policy{})
	h := handlers.NewHandler(service.NewProxyService(f, rw, logger), logger)

	srv := httptest.NewServer(NewRouter(h, logger, web.Static(), nil))
	t.Cleanup(srv.Close)
	return srv
}

func postFetch(t *testing.T, srv *httptest.Server, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/fetch", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestFetch_EndToEnd(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, `<html><head><title>Yale University</title></head><body><p>Welcome to Yale</p><a href="https://www.yale.edu/about">About Yale</a></body></html>`)
	}))
	defer upstream.Close()

	srv := newTestServer(t)
	resp, data := postFetch(t, srv, `{"url":"`+upstream.URL+`"}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out model.FetchResponse
	require.NoError(t, json.Unmarshal(data, &out))

	assert.True(t, out.Success)
	assert.Equal(t, "Fale University", out.Title)
	assert.Equal(t, upstream.URL, out.OriginalURL)
	assert.Contains(t, out.Content, "<p>Welcome to Fale</p>")
	assert.Contains(t, out.Content, `href="https://www.yale.edu/about"`)
	assert.Contains(t, out.Content, "About Fale")
}

func TestFetch_SchemeIsPrepended(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<p>yale</p>`)
	}))
	defer upstream.Close()

	srv := newTestServer(t)
	host := strings.TrimPrefix(upstream.URL, "http://")
	resp, data := postFetch(t, srv, `{"url":"`+host+`"}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out model.FetchResponse
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, host, out.OriginalURL)
	assert.Contains(t, out.Content, "<p>fale</p>")
	assert.Equal(t, model.NoTitle, out.Title)
}

func TestFetch_MalformedUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html><body><div><p>Yale<span>unclosed <b>YALE`)
	}))
	defer upstream.Close()

	srv := newTestServer(t)
	resp, data := postFetch(t, srv, `{"url":"`+upstream.URL+`"}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), "Fale")
	assert.Contains(t, string(data), "FALE")
}

func TestFetch_MissingURL(t *testing.T) {
	srv := newTestServer(t)
	resp, data := postFetch(t, srv, `{}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"URL is required"}`, string(data))
}

func TestFetch_ConnectionRefused(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	srv := newTestServer(t)
	resp, data := postFetch(t, srv, `{"url":"http://`+addr+`"}`)

	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var out model.ErrorResponse
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, strings.HasPrefix(out.Error, "Failed to fetch content:"))
	assert.Contains(t, out.Error, "connection refused")
}

func TestFetch_UpstreamStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusInternalServerError)
	}))
	defer upstream.Close()

	srv := newTestServer(t)
	resp, data := postFetch(t, srv, `{"url":"`+upstream.URL+`"}`)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Failed to fetch content: request failed with status code 500"}`, string(data))
}

func TestStatic_Index(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `id="url-form"`)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestStatic_Assets(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/script.js", "/styles.css"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}

	resp, err := http.Get(srv.URL + "/missing.js")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStatic_CustomFS(t *testing.T) {
	assets := fstest.MapFS{"index.html": {Data: []byte("custom index")}}
	h := handlers.NewHandler(nil, nil)
	r := NewRouter(h, zap.NewNop(), assets, []string{"https://example.com"})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "custom index", rec.Body.String())
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
