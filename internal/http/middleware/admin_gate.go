package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/stroman-properties/owner-dashboard/internal/http/response"
	"github.com/stroman-properties/owner-dashboard/internal/ratelimit"
	"github.com/stroman-properties/owner-dashboard/pkg/logger"
)

const (
	adminAPIPrefix = "/api/admin/"
	adminUIPrefix  = "/admin"
)

// AdminGate fronts every request: admin API traffic is rate limited per
// client IP, and admin pages are marked off-limits for crawlers. Requests
// outside those prefixes pass through untouched.
type AdminGate struct {
	limiter *ratelimit.Limiter
}

func NewAdminGate(limiter *ratelimit.Limiter) *AdminGate {
	return &AdminGate{limiter: limiter}
}

func (g *AdminGate) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			if strings.HasPrefix(path, adminAPIPrefix) {
				key := ratelimit.ClientKey(r)
				allowed, err := g.limiter.Allow(r.Context(), key, time.Now())
				if err != nil {
					logger.WarnContext(r.Context(), "Rate limit store error", "error", err)
				}
				if !allowed {
					w.Header().Set("Cache-Control", "no-store")
					response.RateLimit(w, "Too many requests")
					return
				}
			}

			if strings.HasPrefix(path, adminUIPrefix) {
				w.Header().Set("X-Robots-Tag", "noindex, nofollow")
			}

			next.ServeHTTP(w, r)
		})
	}
}
