package logger

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"budgetflow/internal/telemetry"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func Setup(dev bool) zerolog.Logger {
	var logger zerolog.Logger
	level := zerolog.InfoLevel
	if dev {
		level = zerolog.DebugLevel
	}

	logger = zerolog.New(os.Stderr).Level(level).With().Timestamp().Caller().Logger()

	if dev {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, FormatTimestamp: func(i any) string {
			return time.Now().Format(time.RFC3339)
		}}).Level(level).With().Stack().Logger()
	}

	return logger
}

// Requests returns an HTTP middleware that logs each request with its
// route pattern, status and duration, and feeds the same fields into the
// request metrics.
func Requests(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()

			ctx := logger.With().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote", r.RemoteAddr).
				Logger().WithContext(r.Context())

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}

			telemetry.HTTPRequestsTotal.
				WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
			telemetry.HTTPRequestDuration.
				WithLabelValues(r.Method, route).Observe(time.Since(started).Seconds())

			zerolog.Ctx(ctx).Info().
				Int("status", ww.Status()).
				Dur("duration", time.Since(started)).
				Msg("http request")
		})
	}
}
