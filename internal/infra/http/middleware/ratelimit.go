package middleware

import (
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/xavierca1/leadgen-api/internal/infra/ratelimit"
)

// RateLimit corta com 429 quem passou do limite da janela. Se o limiter falhar a
// requisição segue: Redis fora do ar não derruba a API.
func RateLimit(limiter ratelimit.Limiter, window time.Duration) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int(window.Seconds()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := limiter.Allow(r.Context(), clientIP(r))
			if err != nil {
				log.Printf("⚠️ Rate limiter indisponível: %v", err)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				RecordRateLimited()
				w.Header().Set("Retry-After", retryAfter)
				writeError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP usa o RemoteAddr, já reescrito por TrustedRealIP quando há proxy confiável.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
