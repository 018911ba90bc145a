package server

import (
	"net/http"
	"time"

	"StreamingMusical/logger"

	"github.com/google/uuid"
)

// statusWriter proxies http.ResponseWriter
// and stores the requests status and length.
type statusWriter struct {
	http.ResponseWriter
	status int
	length int
}

func (w *statusWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.length += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// requestLogger tags every request with an X-Request-ID and logs it once
// the handler returns.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		writer := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(writer, r)

		if writer.status == 0 {
			writer.status = http.StatusOK
		}

		fields := []logger.Field{
			logger.String("requestId", requestID),
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", writer.status),
			logger.Int("bytes", writer.length),
			logger.Duration("duration", time.Since(start)),
			logger.String("remote", r.RemoteAddr),
		}
		if writer.status >= http.StatusInternalServerError {
			logger.Error("[HTTP] Request", fields...)
		} else {
			logger.Info("[HTTP] Request", fields...)
		}
	})
}
