package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/felixgeelhaar/tasklist/internal/identity/infrastructure/token"
	"github.com/felixgeelhaar/tasklist/pkg/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	headerRequestID     = "X-Request-ID"
	headerCorrelationID = "X-Correlation-ID"
	headerAuthorization = "Authorization"
	headerAuthToken     = "auth-token"
)

// Verifier authenticates bearer tokens.
type Verifier interface {
	Verify(raw string) (token.Principal, error)
}

// protectedHandler is a handler that runs only for an authenticated caller.
type protectedHandler func(w http.ResponseWriter, r *http.Request, principal token.Principal)

// middleware wraps a handler.
type middleware func(http.Handler) http.Handler

func chain(h http.Handler, mws ...middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestID tags the request with a request id and a correlation id, honouring
// ids supplied by the caller.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := observability.WithRequestID(r.Context(), r.Header.Get(headerRequestID))
		requestID := observability.RequestIDFromContext(ctx)

		correlationID := r.Header.Get(headerCorrelationID)
		if correlationID == "" {
			correlationID = requestID
		}
		ctx = observability.WithCorrelationID(ctx, correlationID)

		w.Header().Set(headerRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// withTracing starts a server span per request, continuing any trace in the headers.
// The span is renamed to the matched route pattern once the mux has routed the request,
// so path parameters never end up in span names.
func withTracing(next http.Handler) http.Handler {
	tracer := otel.Tracer("github.com/felixgeelhaar/tasklist/adapter/api")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := tracer.Start(ctx, "HTTP "+r.Method,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("url.path", r.URL.Path),
			),
		)
		defer span.End()

		req := r.WithContext(ctx)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req)

		if req.Pattern != "" {
			span.SetName(req.Pattern)
			span.SetAttributes(attribute.String("http.route", req.Pattern))
		}
		span.SetAttributes(attribute.Int("http.response.status_code", rec.status))
		if rec.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(rec.status))
		}
	})
}

// withAccessLog logs one line per request.
func withAccessLog(logger *slog.Logger) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			logger.InfoContext(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// withRecover turns a panic into the internal error envelope.
func withRecover(logger *slog.Logger) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					if p == http.ErrAbortHandler {
						panic(p)
					}
					writeInternalError(w, r, logger, fmt.Errorf("panic: %v", p))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// withCORS answers preflight requests and sets the allow headers for listed origins.
// "*" allows any origin.
func withCORS(allowed []string) middleware {
	allowAll := slices.Contains(allowed, "*")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowAll || slices.Contains(allowed, origin)) {
				h := w.Header()
				if allowAll {
					h.Set("Access-Control-Allow-Origin", "*")
				} else {
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, auth-token, X-Request-ID, X-Correlation-ID")
				h.Set("Access-Control-Expose-Headers", headerRequestID)
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken reads the token from "Authorization: Bearer" or the auth-token header.
func bearerToken(r *http.Request) string {
	if v := r.Header.Get(headerAuthorization); v != "" {
		scheme, rest, ok := strings.Cut(v, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(rest)
		}
	}
	return r.Header.Get(headerAuthToken)
}

// authenticate verifies the caller before next runs. Failures answer 401 and next
// never runs.
func authenticate(verifier Verifier, next protectedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := verifier.Verify(bearerToken(r))
		if err != nil {
			writeFailure(w, http.StatusUnauthorized, http.StatusUnauthorized, MsgInvalidToken)
			return
		}

		ctx := observability.WithUserID(r.Context(), principal.UserID.String())
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("enduser.id", principal.UserID.String()))
		next(w, r.WithContext(ctx), principal)
	}
}
