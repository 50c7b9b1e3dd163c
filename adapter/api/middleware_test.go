package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	identityCommands "github.com/felixgeelhaar/tasklist/internal/identity/application/commands"
	identityDomain "github.com/felixgeelhaar/tasklist/internal/identity/domain"
	"github.com/felixgeelhaar/tasklist/internal/identity/infrastructure/token"
	sharedDomain "github.com/felixgeelhaar/tasklist/internal/shared/domain"
	"github.com/felixgeelhaar/tasklist/internal/todos/domain/todo"
	"github.com/felixgeelhaar/tasklist/pkg/observability"
)

type stubVerifier struct {
	valid     string
	principal token.Principal
}

func (v stubVerifier) Verify(raw string) (token.Principal, error) {
	if raw == "" || raw != v.valid {
		return token.Principal{}, token.ErrInvalidToken
	}
	return v.principal, nil
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "bearer header", headers: map[string]string{"Authorization": "Bearer abc"}, want: "abc"},
		{name: "lowercase scheme", headers: map[string]string{"Authorization": "bearer abc"}, want: "abc"},
		{name: "auth-token header", headers: map[string]string{"auth-token": "xyz"}, want: "xyz"},
		{name: "non-bearer scheme falls back", headers: map[string]string{"Authorization": "Basic Zm9v", "auth-token": "xyz"}, want: "xyz"},
		{name: "none", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, bearerToken(req))
		})
	}
}

func TestAuthenticate(t *testing.T) {
	userID := uuid.New()
	verifier := stubVerifier{valid: "good", principal: token.Principal{UserID: userID}}

	var got token.Principal
	var loggedUser string
	h := authenticate(verifier, func(w http.ResponseWriter, r *http.Request, p token.Principal) {
		got = p
		loggedUser = observability.UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, userID, got.UserID)
		assert.Equal(t, userID.String(), loggedUser)
	})

	t.Run("invalid token never reaches handler", func(t *testing.T) {
		got = token.Principal{}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("auth-token", "bad")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"success":false,"error":"Please authenticate using a valid token","status":401}`, rec.Body.String())
		assert.Equal(t, uuid.Nil, got.UserID)
	})
}

func TestWithCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("listed origin", func(t *testing.T) {
		h := withCORS([]string{"https://app.example.com"})(next)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unlisted origin", func(t *testing.T) {
		h := withCORS([]string{"https://app.example.com"})(next)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		h := withCORS([]string{"*"})(next)
		req := httptest.NewRequest(http.MethodOptions, "/api/todos/addtodo", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "auth-token")
	})
}

func TestWithRecover(t *testing.T) {
	h := withRecover(nopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Internal Server Error","status":500}`, rec.Body.String())
}

func TestWithRequestID(t *testing.T) {
	var requestID, correlationID string
	h := withRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = observability.RequestIDFromContext(r.Context())
		correlationID = observability.CorrelationIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, requestID)
	assert.Equal(t, requestID, correlationID)
	assert.Equal(t, requestID, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-1")
	req.Header.Set("X-Correlation-ID", "corr-1")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "req-1", requestID)
	assert.Equal(t, "corr-1", correlationID)
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", sharedDomain.NewValidationError("text", todo.MsgInvalidText), 400, todo.MsgInvalidText},
		{"wrapped validation", fmt.Errorf("add: %w", sharedDomain.NewValidationError("name", "bad name")), 400, "bad name"},
		{"email taken", identityDomain.ErrEmailTaken, 400, MsgEmailTaken},
		{"username taken", identityDomain.ErrUsernameTaken, 400, MsgUsernameTaken},
		{"invalid credentials", identityCommands.ErrInvalidCredentials, 400, MsgInvalidCreds},
		{"user not found", identityDomain.ErrUserNotFound, 404, MsgAccountNotFound},
		{"todo not found", fmt.Errorf("load: %w", todo.ErrTodoNotFound), 404, MsgTodoNotFound},
		{"not allowed", sharedDomain.ErrNotAllowed, 401, MsgNotAllowed},
		{"internal", errors.New("connection reset"), 500, MsgInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nopLogger(), tt.err)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t,
				fmt.Sprintf(`{"success":false,"error":%q,"status":%d}`, tt.message, tt.status),
				rec.Body.String(),
			)
		})
	}
}

func TestWithTracing_NamesSpanByRoute(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})

	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/todos/edittodo/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := withTracing(mux)

	for range 3 {
		req := httptest.NewRequest(http.MethodPut, "/api/todos/edittodo/"+uuid.NewString(), nil)
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	spans := recorder.Ended()
	require.Len(t, spans, 3)
	for _, span := range spans {
		assert.Equal(t, "PUT /api/todos/edittodo/{id}", span.Name())
	}
}

func TestWriteError_LogsRequestIDOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewLogger(observability.LogConfig{
		Format: observability.LogFormatJSON,
		Output: &buf,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/todos/fetchAlltodos", nil)
	req = req.WithContext(observability.WithRequestID(req.Context(), "req-123"))
	writeError(httptest.NewRecorder(), req, logger, errors.New("connection reset"))

	line := buf.Bytes()
	assert.Equal(t, 1, bytes.Count(line, []byte(`"request_id"`)))

	var record map[string]any
	require.NoError(t, json.Unmarshal(line, &record))
	assert.Equal(t, "req-123", record["request_id"])
	assert.Equal(t, "connection reset", record["error"])
}

func nopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
