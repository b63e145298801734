package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"obras-backend/internal/infrastructure/logging"

	"github.com/labstack/echo/v4"
)

func TestRequestLogger_WritesOneLine(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewWithOutput("info", "json", &buf)

	e := echo.New()
	e.Use(RequestLogger(log))
	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health?x=1", nil))

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if line["uri"] != "/health?x=1" || line["method"] != "GET" || line["status"] != float64(http.StatusNoContent) {
		t.Fatalf("unexpected log fields: %v", line)
	}
}
