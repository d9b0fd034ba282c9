package ratelimit

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"

	"ethidata/internal/metrics"
)

// KeyFunc derives the client identity from a request.
type KeyFunc func(r *http.Request) string

// DefaultKeyFunc identifies clients by remote IP, optionally trusting the
// first X-Forwarded-For hop when the service sits behind a proxy.
func DefaultKeyFunc(trustProxy bool) KeyFunc {
	return func(r *http.Request) string {
		if trustProxy {
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
					return ip
				}
			}
		}

		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
}

// Middleware rejects requests over the tier's budget with a 429 envelope
// before any later pipeline stage runs. Counter-store failures fail open: a
// broken Redis must not take the submission endpoints down with it.
func (l *Limiter) Middleware(tier Tier, keyFn KeyFunc) func(http.Handler) http.Handler {
	if keyFn == nil {
		keyFn = DefaultKeyFunc(false)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFn(r)

			allowed, err := l.Allow(r.Context(), key, tier)
			if err != nil {
				log.Printf("[RATELIMIT] counter store error (allowing request): %v", err)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				metrics.RecordRateLimitRejection(tier.Name)
				writeTooManyRequests(w, tier)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeTooManyRequests(w http.ResponseWriter, tier Tier) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.Itoa(int(tier.Window.Seconds())))
	w.WriteHeader(http.StatusTooManyRequests)

	body := struct {
		Success bool `json:"success"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}{}
	body.Error.Message = tier.Message
	_ = json.NewEncoder(w).Encode(body)
}
