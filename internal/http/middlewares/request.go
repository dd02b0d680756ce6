package middlewares

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/ssobridge/internal/http/helpers"
	"github.com/dropDatabas3/ssobridge/internal/observability/logger"
)

// statusWriter captura el status code para el access log.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// WithRequestID asigna (o propaga) un X-Request-ID y deja en el contexto un
// logger enriquecido con él.
func WithRequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", requestID)

			ctx := setRequestID(r.Context(), requestID)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.RequestID(requestID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithRequestLog emite un access log por request.
func WithRequestLog() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r)

			if sw.status == 0 {
				sw.status = http.StatusOK
			}
			logger.From(r.Context()).Info("http request",
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.Status(sw.status),
				logger.DurationMs(time.Since(start).Milliseconds()),
				logger.Bytes(sw.bytes),
				logger.ClientIP(helpers.ClientIP(r)),
			)
		})
	}
}
