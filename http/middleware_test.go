package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/text/language"

	"hfcalc/calculator"
)

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestRecoveryLogsRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)
	handler := RequestIDMiddleware(RecoveryMiddleware(logger)(LoggerMiddleware(logger)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/predict", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	requestID := w.Header().Get("X-Request-ID")
	assert.NotEmpty(t, requestID)

	panics := logs.FilterMessage("panic recovered").All()
	if assert.Len(t, panics, 1) {
		assert.Equal(t, requestID, panics[0].ContextMap()["request_id"])
	}
}

func TestRouterRecoveryHasRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	router := NewRouter(DefaultServerConfig(), nil, zap.New(core)).(*chi.Mux)
	router.Get("/boom", func(w http.ResponseWriter, r *http.Request) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	panics := logs.FilterMessage("panic recovered").All()
	if assert.Len(t, panics, 1) {
		assert.Equal(t, "req-42", panics[0].ContextMap()["request_id"])
	}
}

func TestLoggerMiddlewareKeepsRequestID(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(LoggerMiddleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestResultViewUsesLocale(t *testing.T) {
	result := &calculator.Result{PPositive: 0.456, PNegative: 0.544, Threshold: 0.5, Label: "Pneumonia"}

	view := newResultView(result, language.English)
	assert.Equal(t, "0.46", view.PPositive)
	assert.Equal(t, "0.500", view.Threshold)

	view = newResultView(result, language.German)
	assert.Equal(t, "0,46", view.PPositive)
	assert.False(t, view.Positive)
}
