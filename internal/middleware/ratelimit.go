package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"pet-adoption/internal/platform/httpx"
	"pet-adoption/internal/platform/logger"
)

// RateLimiter decide si la key puede seguir en la ventana actual.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// retryAfter lo implementan los limiters que saben cuándo cierra su ventana.
type retryAfter interface {
	RetryAfter() time.Duration
}

const defaultRetryAfter = time.Minute

// RateLimit limita por usuario autenticado (o por IP si es anónimo).
// limiter == nil => no limita. Si el limiter falla, deja pasar y loguea.
func RateLimit(limiter RateLimiter, scope string, log logger.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := scope + ":ip:" + clientIP(r.RemoteAddr)
			if c, ok := GetClaims(r.Context()); ok && c.Authenticated() {
				key = scope + ":user:" + c.UserID
			}

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				log.Warn("rate limiter unavailable", map[string]any{"scope": scope, "error": err.Error()})
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				w.Header().Set("Retry-After", retryAfterSeconds(limiter))
				httpx.WriteJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP descarta el puerto: cada conexión nueva trae uno distinto.
func clientIP(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

func retryAfterSeconds(limiter RateLimiter) string {
	d := defaultRetryAfter
	if ra, ok := limiter.(retryAfter); ok {
		d = ra.RetryAfter()
	}
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
