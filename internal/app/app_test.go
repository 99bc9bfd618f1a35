package app

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"path/filepath"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/cors"
	"github.com/shandysiswandi/contactrelay/internal/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowedOrigins(t *testing.T) {
	got := allowedOrigins([]string{" https://site.example/ ", "", "https://site.example", "http://localhost:5173"})

	assert.Equal(t, []string{"https://site.example", "http://localhost:5173"}, got)
	assert.Empty(t, allowedOrigins(nil))
}

func TestCORSOptions(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name      string
		origins   []string
		origin    string
		wantAllow string
	}{
		{name: "listed origin", origins: []string{"https://site.example"}, origin: "https://site.example", wantAllow: "https://site.example"},
		{name: "unlisted origin", origins: []string{"https://site.example"}, origin: "https://evil.example", wantAllow: ""},
		{name: "nothing configured denies", origins: nil, origin: "https://site.example", wantAllow: ""},
		{name: "wildcard", origins: []string{"*"}, origin: "https://any.example", wantAllow: "*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			h := cors.New(corsOptions(tt.origins)).Handler(ok)
			req := httptest.NewRequest(http.MethodPost, "/send-message", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()

			// Act
			h.ServeHTTP(rec, req)

			// Assert
			assert.Equal(t, tt.wantAllow, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestConfigOptions_LegacyEnv(t *testing.T) {
	// Arrange
	t.Setenv("PORT", "8081")
	t.Setenv("EMAIL_USER", "me@gmail.com")
	t.Setenv("EMAIL_PASS", "app-password")
	t.Setenv("RECEIVING_EMAIL", "inbox@example.com")
	t.Setenv("GOOGLE_SHEET_URL", "https://script.google.com/macros/s/abc/exec")
	t.Setenv("FRONTEND_URL", "https://site.example")

	// Act
	cfg, err := config.NewViperFromBytes("yaml", []byte(`{}`), configOptions(filepath.Join(t.TempDir(), ".env"))...)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "8081", cfg.GetString("app.server.port"))
	assert.Equal(t, "me@gmail.com", cfg.GetString("mail.username"))
	assert.Equal(t, "me@gmail.com", cfg.GetString("mail.from"))
	assert.Equal(t, "app-password", cfg.GetString("mail.password"))
	assert.Equal(t, "inbox@example.com", cfg.GetString("mail.to"))
	assert.Equal(t, "https://script.google.com/macros/s/abc/exec", cfg.GetString("relay.url"))
	assert.Equal(t, []string{"https://site.example"}, cfg.GetArray("app.server.cors"))
}

func TestConfigOptions_Defaults(t *testing.T) {
	cfg, err := config.NewViperFromBytes("yaml", []byte(`mail: {from: "site@example.com"}`), configOptions("")...)

	require.NoError(t, err)
	assert.Equal(t, "site@example.com", cfg.GetString("mail.from"))
	assert.Equal(t, "smtp.gmail.com", cfg.GetString("mail.host"))
	assert.Equal(t, 587, cfg.GetInt("mail.port"))
	assert.True(t, cfg.GetBool("relay.enabled"))
	assert.Equal(t, 10*time.Second, cfg.GetSecond("relay.timeout_seconds"))
	assert.Equal(t, 15*time.Second, cfg.GetSecond("mail.timeout_seconds"))
	assert.Equal(t, "Portfolio Website", cfg.GetString("modules.contact.site_name"))
}

func TestApp_Serve(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	t.Setenv("CONFIG_PATH", filepath.Join(dir, "config.yaml"))
	t.Setenv("ENV_FILE", filepath.Join(dir, ".env"))

	application := New()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	errChan := application.Serve(l)

	// Act
	resp, err := http.Get("http://" + l.Addr().String() + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	application.Stop(ctx)

	// Assert
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Correlation-ID"))
	assert.Equal(t, "Portfolio Backend API is running! Use /send-message for POST requests.", body.Message)
	assert.ErrorIs(t, <-errChan, http.ErrServerClosed)
}
