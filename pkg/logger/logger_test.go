package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewHandlerFormats(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewHandler(&Options{Format: "text", Output: &buf})).Info("hello", "k", "v")
	assert.Contains(t, buf.String(), "msg=hello")

	buf.Reset()
	slog.New(NewHandler(&Options{Output: &buf})).Info("hello")
	assert.True(t, json.Valid(buf.Bytes()))

	buf.Reset()
	slog.New(NewHandler(&Options{Level: "warn", Output: &buf})).Info("dropped")
	assert.Empty(t, buf.String())
}

func TestMiddlewareLogsRequestWithID(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&Options{Output: &buf}))

	handler := middleware.RequestID(NewLoggerMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("tea"))
	})))

	req := httptest.NewRequest(http.MethodGet, "/orders/7", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "HTTP request", entry["msg"])
	assert.Equal(t, "/orders/7", entry["path"])
	assert.InDelta(t, float64(http.StatusTeapot), entry["status"], 0)
	assert.InDelta(t, 3, entry["bytes"], 0)
	assert.NotEmpty(t, entry["request_id"])
}
