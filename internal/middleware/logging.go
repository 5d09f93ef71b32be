package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const accessLogKey contextKey = "access_log"

// accessLog collects fields that inner middleware learns after the logger ran,
// such as the shop from a verified session token.
type accessLog struct {
	mu   sync.Mutex
	shop string
}

// annotateShop records the shop on the enclosing access log line, if any
func annotateShop(ctx context.Context, shop string) {
	if entry, ok := ctx.Value(accessLogKey).(*accessLog); ok {
		entry.mu.Lock()
		entry.shop = shop
		entry.mu.Unlock()
	}
}

// LoggingMiddleware logs one line per completed request. Server errors log at
// error level, client errors at warn. Mount it ahead of authentication so
// rejected requests are logged too.
func LoggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			entry := &accessLog{}
			if shop, ok := GetShop(r.Context()); ok {
				entry.shop = shop
			}
			r = r.WithContext(context.WithValue(r.Context(), accessLogKey, entry))

			next.ServeHTTP(ww, r)

			fields := []zap.Field{
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			}
			entry.mu.Lock()
			if entry.shop != "" {
				fields = append(fields, zap.String("shop", entry.shop))
			}
			entry.mu.Unlock()

			switch {
			case ww.Status() >= http.StatusInternalServerError:
				logger.Error("Request completed", fields...)
			case ww.Status() >= http.StatusBadRequest:
				logger.Warn("Request completed", fields...)
			default:
				logger.Info("Request completed", fields...)
			}
		})
	}
}
