package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"obras-backend/internal/infrastructure/logging"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	testReqID = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	testActor = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

func setupEcho(rdb *redis.Client, ttl time.Duration, handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(Idempotency(rdb, ttl, logging.Discard()))
	e.POST("/reports", handler)
	e.PUT("/reports/:report_id/attendance", handler)
	e.GET("/reports", handler)
	return e
}

func doReq(t *testing.T, e *echo.Echo, method, path string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func validHeaders() map[string]string {
	return map[string]string{
		headerRequestID: testReqID,
		headerRequestAt: time.Now().UTC().Format(time.RFC3339),
		headerActorID:   testActor,
	}
}

// counting handler: every call that reaches it gets a new sequence number
func countingHandler(calls *int) echo.HandlerFunc {
	return func(c echo.Context) error {
		*calls++
		return c.JSON(http.StatusCreated, map[string]any{"call": *calls})
	}
}

func TestIdempotency_BypassOnGET(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	calls := 0
	e := setupEcho(rdb, time.Minute, countingHandler(&calls))

	rec := doReq(t, e, http.MethodGet, "/reports", nil, nil)
	if rec.Code != http.StatusCreated || calls != 1 {
		t.Fatalf("GET must pass through: code=%d calls=%d", rec.Code, calls)
	}
}

func TestIdempotency_HeaderValidation(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	calls := 0
	e := setupEcho(rdb, time.Minute, countingHandler(&calls))

	tests := []struct {
		name   string
		mutate func(h map[string]string)
	}{
		{"missing request id", func(h map[string]string) { delete(h, headerRequestID) }},
		{"bad request id", func(h map[string]string) { h[headerRequestID] = "NOT-VALID" }},
		{"uppercase request id", func(h map[string]string) { h[headerRequestID] = strings.ToUpper(testReqID) }},
		{"bad request at", func(h map[string]string) { h[headerRequestAt] = "not-a-time" }},
		{"naive request at", func(h map[string]string) { h[headerRequestAt] = "2025-09-05T10:00:00" }},
		{"skewed request at", func(h map[string]string) {
			h[headerRequestAt] = time.Now().UTC().Add(-maxClockSkew - time.Minute).Format(time.RFC3339)
		}},
		{"missing actor", func(h map[string]string) { delete(h, headerActorID) }},
		{"bad actor", func(h map[string]string) { h[headerActorID] = "not32hex" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := validHeaders()
			tt.mutate(h)
			rec := doReq(t, e, http.MethodPost, "/reports", strings.NewReader(`{"x":1}`), h)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("want 400, got %d (%s)", rec.Code, rec.Body.String())
			}
		})
	}
	if calls != 0 {
		t.Fatalf("handler ran %d times on rejected requests", calls)
	}
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	calls := 0
	e := setupEcho(rdb, 2*time.Minute, countingHandler(&calls))
	h := validHeaders()

	rec1 := doReq(t, e, http.MethodPost, "/reports", strings.NewReader(`{"project_id":"p"}`), h)
	rec2 := doReq(t, e, http.MethodPost, "/reports", strings.NewReader(`{"project_id":"p"}`), h)

	if rec1.Code != http.StatusCreated || rec2.Code != http.StatusCreated {
		t.Fatalf("codes = %d, %d", rec1.Code, rec2.Code)
	}
	if calls != 1 {
		t.Fatalf("handler ran %d times, want 1", calls)
	}
	if rec1.Body.String() != rec2.Body.String() {
		t.Fatalf("replay body mismatch: %q vs %q", rec1.Body.String(), rec2.Body.String())
	}
}

func TestIdempotency_KeyIsScopedToConcretePath(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	calls := 0
	e := setupEcho(rdb, 2*time.Minute, countingHandler(&calls))
	h := validHeaders()

	doReq(t, e, http.MethodPut, "/reports/r1/attendance", strings.NewReader(`{}`), h)
	doReq(t, e, http.MethodPut, "/reports/r2/attendance", strings.NewReader(`{}`), h)
	if calls != 2 {
		t.Fatalf("same request id on two reports must run twice, ran %d", calls)
	}
}

func TestIdempotency_ConflictWhenInProgress(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	calls := 0
	e := setupEcho(rdb, 2*time.Minute, countingHandler(&calls))
	body := []byte(`{"x":1}`)

	key := buildKey(http.MethodPost, "/reports", testActor, testReqID)
	entry := idempEntry{InProgress: true, BodySHA256: bodyHash(body), RequestID: testReqID, CreatedAt: nowUTC()}
	if ok, err := provisionalSet(context.Background(), rdb, key, entry); err != nil || !ok {
		t.Fatalf("seed provisional: ok=%v err=%v", ok, err)
	}

	rec := doReq(t, e, http.MethodPost, "/reports", bytes.NewReader(body), validHeaders())
	if rec.Code != http.StatusConflict || calls != 0 {
		t.Fatalf("in progress: want 409 without handler, got %d (calls=%d)", rec.Code, calls)
	}
}

func TestIdempotency_ConflictOnDifferentBody(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	calls := 0
	e := setupEcho(rdb, 2*time.Minute, countingHandler(&calls))

	doReq(t, e, http.MethodPost, "/reports", strings.NewReader(`{"x":1}`), validHeaders())
	rec := doReq(t, e, http.MethodPost, "/reports", strings.NewReader(`{"x":2}`), validHeaders())
	if rec.Code != http.StatusConflict {
		t.Fatalf("different body: want 409, got %d", rec.Code)
	}
	if calls != 1 {
		t.Fatalf("handler ran %d times, want 1", calls)
	}
}

func TestIdempotency_ServerErrorsAreRetryable(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	calls := 0
	e := setupEcho(rdb, 2*time.Minute, func(c echo.Context) error {
		calls++
		if calls == 1 {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "boom"})
		}
		return c.JSON(http.StatusCreated, map[string]int{"call": calls})
	})

	rec1 := doReq(t, e, http.MethodPost, "/reports", strings.NewReader(`{}`), validHeaders())
	if rec1.Code != http.StatusInternalServerError {
		t.Fatalf("first: want 500, got %d", rec1.Code)
	}
	if mr.Exists(buildKey(http.MethodPost, "/reports", testActor, testReqID)) {
		t.Fatal("5xx outcome must not be stored")
	}
	rec2 := doReq(t, e, http.MethodPost, "/reports", strings.NewReader(`{}`), validHeaders())
	if rec2.Code != http.StatusCreated || calls != 2 {
		t.Fatalf("retry: want 201 on second run, got %d (calls=%d)", rec2.Code, calls)
	}
}

func TestIdempotency_FinalEntryExpires(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	calls := 0
	e := setupEcho(rdb, 30*time.Second, countingHandler(&calls))

	doReq(t, e, http.MethodPost, "/reports", strings.NewReader(`{}`), validHeaders())
	mr.FastForward(31 * time.Second)
	doReq(t, e, http.MethodPost, "/reports", strings.NewReader(`{}`), validHeaders())
	if calls != 2 {
		t.Fatalf("expired key must let the request run again, calls=%d", calls)
	}
}

func TestIdempotency_StoreUnavailable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	calls := 0
	e := setupEcho(rdb, time.Minute, countingHandler(&calls))

	rec := doReq(t, e, http.MethodPost, "/reports", strings.NewReader(`{}`), validHeaders())
	if rec.Code != http.StatusServiceUnavailable || calls != 0 {
		t.Fatalf("want 503 without handler, got %d (calls=%d)", rec.Code, calls)
	}
}
