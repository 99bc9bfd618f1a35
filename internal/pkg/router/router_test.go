package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/contactrelay/internal/pkg/config"
	"github.com/shandysiswandi/contactrelay/internal/pkg/goerror"
	"github.com/shandysiswandi/contactrelay/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticID string

func (s staticID) Generate() string { return string(s) }

func newTestRouter(t *testing.T, yaml string) *Router {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	require.NoError(t, err)

	return NewRouter(Config{
		Config:     cfg,
		UUID:       staticID("generated-cid"),
		Instrument: instrument.NewNoop(),
	})
}

func serve(r http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRouter_Responses(t *testing.T) {
	r := newTestRouter(t, `instrument: {log_mask_fields: "email"}`)
	r.GET("/message", func(*Request) (any, error) { return Message("all good"), nil })
	r.GET("/data", func(*Request) (any, error) { return map[string]int{"n": 1}, nil })
	r.GET("/empty", func(*Request) (any, error) { return nil, nil })
	r.GET("/invalid", func(*Request) (any, error) { return nil, goerror.NewInvalidFormat("bad input") })
	r.GET("/server", func(*Request) (any, error) { return nil, goerror.NewServer(errors.New("boom"), "custom failure") })
	r.GET("/plain", func(*Request) (any, error) { return nil, errors.New("unexpected") })
	r.GET("/panic", func(*Request) (any, error) { panic("kaboom") })

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantBody   map[string]any
	}{
		{name: "message only", method: http.MethodGet, path: "/message", wantStatus: http.StatusOK, wantBody: map[string]any{"message": "all good"}},
		{name: "data envelope", method: http.MethodGet, path: "/data", wantStatus: http.StatusOK, wantBody: map[string]any{"message": "request has been successfully", "data": map[string]any{"n": float64(1)}}},
		{name: "validation error", method: http.MethodGet, path: "/invalid", wantStatus: http.StatusBadRequest, wantBody: map[string]any{"message": "bad input"}},
		{name: "server error", method: http.MethodGet, path: "/server", wantStatus: http.StatusInternalServerError, wantBody: map[string]any{"message": "custom failure"}},
		{name: "unknown error", method: http.MethodGet, path: "/plain", wantStatus: http.StatusInternalServerError, wantBody: map[string]any{"message": "Internal server error"}},
		{name: "panic", method: http.MethodGet, path: "/panic", wantStatus: http.StatusInternalServerError, wantBody: map[string]any{"message": "Internal server error"}},
		{name: "not found", method: http.MethodGet, path: "/nope", wantStatus: http.StatusNotFound, wantBody: map[string]any{"message": "endpoint not found"}},
		{name: "method not allowed", method: http.MethodPost, path: "/message", wantStatus: http.StatusMethodNotAllowed, wantBody: map[string]any{"message": "method not allowed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			rec := serve(r, tt.method, tt.path, "", nil)

			// Assert
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, decodeMessage(t, rec))
		})
	}

	t.Run("no content", func(t *testing.T) {
		rec := serve(r, http.MethodGet, "/empty", "", nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Zero(t, rec.Body.Len())
	})
}

func TestRouter_CorrelationID(t *testing.T) {
	r := newTestRouter(t, `{}`)
	r.GET("/ping", func(*Request) (any, error) { return Message("pong"), nil })

	t.Run("generated", func(t *testing.T) {
		rec := serve(r, http.MethodGet, "/ping", "", nil)

		assert.Equal(t, "generated-cid", rec.Header().Get(HeaderCorrelationID))
	})

	t.Run("propagated", func(t *testing.T) {
		rec := serve(r, http.MethodGet, "/ping", "", map[string]string{HeaderRequestID: "from-proxy"})

		assert.Equal(t, "from-proxy", rec.Header().Get(HeaderCorrelationID))
	})

	t.Run("not found", func(t *testing.T) {
		rec := serve(r, http.MethodGet, "/nope", "", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "generated-cid", rec.Header().Get(HeaderCorrelationID))
	})

	t.Run("method not allowed", func(t *testing.T) {
		rec := serve(r, http.MethodDelete, "/ping", "", map[string]string{HeaderCorrelationID: "client-cid"})

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "client-cid", rec.Header().Get(HeaderCorrelationID))
	})
}

func TestRouter_Maintenance(t *testing.T) {
	// Arrange
	r := newTestRouter(t, `app: {maintenance: {endpoints: "/down"}}`)
	r.GET("/down", func(*Request) (any, error) { return Message("up"), nil })
	r.GET("/up", func(*Request) (any, error) { return Message("up"), nil })

	// Act
	down := serve(r, http.MethodGet, "/down", "", nil)
	up := serve(r, http.MethodGet, "/up", "", nil)

	// Assert
	assert.Equal(t, http.StatusServiceUnavailable, down.Code)
	assert.Equal(t, http.StatusOK, up.Code)
}

func TestRequest_DecodeBody(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name     string
		body     string
		wantName string
		wantErr  bool
	}{
		{name: "valid", body: `{"name":"Ann"}`, wantName: "Ann"},
		{name: "unknown fields ignored", body: `{"name":"Ann","extra":1}`, wantName: "Ann"},
		{name: "empty body", body: ``},
		{name: "malformed", body: `{"name":`, wantErr: true},
		{name: "wrong type", body: `{"name":1}`, wantErr: true},
		{name: "trailing data", body: `{"name":"Ann"}{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			req := &Request{Request: httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))}
			var dst payload

			// Act
			err := req.DecodeBody(&dst)

			// Assert
			if tt.wantErr {
				var gerr *goerror.Error
				require.True(t, errors.As(err, &gerr))
				assert.Equal(t, http.StatusBadRequest, gerr.StatusCode())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, dst.Name)
		})
	}
}

func TestRealIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "true client ip", headers: map[string]string{"True-Client-IP": "1.1.1.1"}, remote: "9.9.9.9:1234", want: "1.1.1.1"},
		{name: "forwarded chain", headers: map[string]string{"X-Forwarded-For": "2.2.2.2, 10.0.0.1"}, remote: "9.9.9.9:1234", want: "2.2.2.2"},
		{name: "invalid header falls back", headers: map[string]string{"X-Real-IP": "nope"}, remote: "9.9.9.9:1234", want: "9.9.9.9"},
		{name: "nothing usable", remote: "pipe", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			assert.Equal(t, tt.want, realIP(req))
		})
	}
}

func TestLoggableBody(t *testing.T) {
	maskKeys := instrument.MaskKeys([]string{"email"})

	assert.Nil(t, loggableBody("", nil, false, maskKeys))
	assert.Equal(t, map[string]any{"name": "Ann", "email": "***"},
		loggableBody("application/json", []byte(`{"name":"Ann","email":"a@x.com"}`), false, maskKeys))
	assert.Equal(t, map[string]any{"name": "Ann", "email": "***"},
		loggableBody("application/x-www-form-urlencoded", []byte(`name=Ann&email=a%40x.com`), false, maskKeys))
	assert.Equal(t, "plain text", loggableBody("text/plain", []byte("plain text"), false, maskKeys))
	assert.Equal(t, map[string]any{"body": "partial", "truncated": true}, loggableBody("text/plain", []byte("partial"), true, maskKeys))
}
