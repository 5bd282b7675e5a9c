package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// accessLog writes one line per request, at warn for 4xx and error for 5xx.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.String("remote", r.RemoteAddr),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Int64("latency_ms", time.Since(start).Milliseconds()),
			}
			switch {
			case status >= 500:
				zap.L().Error("server: request", fields...)
			case status >= 400:
				zap.L().Warn("server: request", fields...)
			default:
				zap.L().Info("server: request", fields...)
			}
		}()

		next.ServeHTTP(ww, r)
	})
}
