package logger

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sebuszqo/FinanceTracker/internal/httputil"
)

const RequestIDHeader = "X-Request-ID"

// Setup configures the global logger. format is "human" for console output,
// anything else logs JSON.
func Setup(format, level string) {
	output := io.Writer(os.Stdout)
	if format == "human" {
		output = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	log.Logger = log.Output(output).With().Timestamp().Logger()
}

// Middleware assigns every request an id and logs it once the response is written.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		rec := httputil.NewStatusRecorder(w)
		ctx := httputil.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(rec, r.WithContext(ctx))

		event := log.Info()
		if rec.Status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("request-id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.Status).
			Dur("duration", time.Since(start)).
			Msg("Handled request")
	})
}

// FromContext returns the global logger annotated with the request id of ctx.
// Contexts without a request id get the global logger unchanged.
func FromContext(ctx context.Context) *zerolog.Logger {
	requestID := httputil.RequestID(ctx)
	if requestID == "" {
		return &log.Logger
	}
	l := log.With().Str("request-id", requestID).Logger()
	return &l
}
