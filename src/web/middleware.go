package web

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"SocialInsights/src/storage"
)

// recoveryMiddleware 捕获处理函数中的 panic，记录堆栈并返回500
func recoveryMiddleware(logger *storage.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error(fmt.Sprintf("Panic recovered: %v\nStack trace:\n%s", err, debug.Stack()))
					w.Header().Set("Content-Type", "text/plain; charset=utf-8")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte("Internal server error"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// loggingMiddleware 记录访问日志
func loggingMiddleware(logger *storage.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrw := &responseWriter{
				ResponseWriter: w,
				status:         http.StatusOK,
			}

			next.ServeHTTP(wrw, r)

			logger.Info(fmt.Sprintf("%s %s %s %d %v",
				r.RemoteAddr,
				r.Method,
				r.URL.Path,
				wrw.status,
				time.Since(start),
			))
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush /logs 需要逐条推送
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
