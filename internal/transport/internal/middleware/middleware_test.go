package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/skai-it/trello-mcp-server/internal/transport/transportcore"
)

// stubResponder records which response method was invoked.
type stubResponder struct {
	lastErr error
}

func (s *stubResponder) Unauthorized(w http.ResponseWriter, err error) {
	s.lastErr = err
	w.WriteHeader(http.StatusUnauthorized)
}

func (s *stubResponder) InternalError(w http.ResponseWriter, err error) {
	s.lastErr = err
	w.WriteHeader(http.StatusInternalServerError)
}

func (s *stubResponder) BadRequest(w http.ResponseWriter, err error) {
	s.lastErr = err
	w.WriteHeader(http.StatusBadRequest)
}

func TestRecoveryMiddleware(t *testing.T) {
	t.Parallel()

	responder := &stubResponder{}
	handler := NewRecoveryMiddleware(responder, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if responder.lastErr == nil {
		t.Error("responder did not receive the panic error")
	}
}

func TestRecoveryMiddleware_PassThrough(t *testing.T) {
	t.Parallel()

	handler := NewRecoveryMiddleware(&stubResponder{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestRequestIDMiddleware_Generates(t *testing.T) {
	t.Parallel()

	var ctxID string
	handler := NewRequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID, _ = transportcore.RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	headerID := rec.Header().Get(HeaderRequestID)
	if headerID == "" {
		t.Fatal("no X-Request-ID header set")
	}
	if ctxID != headerID {
		t.Errorf("context ID %q != header ID %q", ctxID, headerID)
	}
}

func TestRequestIDMiddleware_PreservesClientID(t *testing.T) {
	t.Parallel()

	handler := NewRequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "client-id-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get(HeaderRequestID); got != "client-id-1" {
		t.Errorf("X-Request-ID = %q, want client-id-1", got)
	}
}

func TestMetricsMiddleware(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	handler := NewMetricsMiddleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	got := testutil.ToFloat64(m.requestsTotal.WithLabelValues(http.MethodGet, "/health", "418"))
	if got != 1 {
		t.Errorf("http_requests_total = %v, want 1", got)
	}
	if inFlight := testutil.ToFloat64(m.inFlight); inFlight != 0 {
		t.Errorf("http_requests_in_flight = %v, want 0 after completion", inFlight)
	}
}

func TestResponseWriter_CapturesImplicitStatus(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	if _, err := rw.Write([]byte("ok")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if rw.statusCode != http.StatusOK {
		t.Errorf("statusCode = %d, want 200", rw.statusCode)
	}

	// A later WriteHeader must not overwrite the committed status.
	rw.WriteHeader(http.StatusInternalServerError)
	if rw.statusCode != http.StatusOK {
		t.Errorf("statusCode = %d, status must stay committed", rw.statusCode)
	}
}
