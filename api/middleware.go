package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/wikitok/backend/webutil"
)

const corsMaxAge = 300 // seconds

const (
	msgInternalServer = "Internal Server Error"
	msgRequestTimeout = "Request timed out"
)

// CORS allows cross-origin requests from origins. "*" allows any origin.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         corsMaxAge,
	})
}

// Recoverer turns a panic into a JSON 500, unless the handler already
// started its response.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			slog.Error("Recovered from panic",
				"panic", rvr,
				"path", r.URL.Path,
				"method", r.Method,
				"request_id", middleware.GetReqID(r.Context()),
				"stack", string(debug.Stack()),
			)
			if ww.Status() != 0 {
				return
			}
			webutil.RespondWithError(ww, http.StatusInternalServerError, msgInternalServer)
		}()

		next.ServeHTTP(ww, r)
	})
}

// Timeout cancels the request context after timeout. If the handler gives up
// without writing anything, a JSON 504 is sent.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				cancel()
				if errors.Is(ctx.Err(), context.DeadlineExceeded) && ww.Status() == 0 {
					slog.Warn("Request timed out",
						"path", r.URL.Path,
						"method", r.Method,
						"request_id", middleware.GetReqID(r.Context()),
					)
					webutil.RespondWithError(ww, http.StatusGatewayTimeout, msgRequestTimeout)
				}
			}()

			next.ServeHTTP(ww, r.WithContext(ctx))
		})
	}
}
