package server

import (
	"net/http"
	"strings"

	"github.com/samber/lo"
)

// OriginChecker decides which browser origins may read the relay. An empty
// list or a "*" entry allows every origin.
type OriginChecker struct {
	allowAll bool
	origins  []string
}

func NewOriginChecker(allowedOrigins string) *OriginChecker {
	origins := lo.Compact(lo.Map(strings.Split(allowedOrigins, ","), func(origin string, _ int) string {
		return strings.TrimRight(strings.TrimSpace(origin), "/")
	}))

	return &OriginChecker{
		allowAll: len(origins) == 0 || lo.Contains(origins, "*"),
		origins:  origins,
	}
}

// Check is the websocket.Upgrader CheckOrigin hook. Requests without an
// Origin header are not from a browser and pass.
func (c *OriginChecker) Check(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || c.allowAll {
		return true
	}

	return lo.Contains(c.origins, origin)
}

// AllowOrigin returns the Access-Control-Allow-Origin value for r, or "" when
// the origin is not allowed.
func (c *OriginChecker) AllowOrigin(r *http.Request) string {
	if c.allowAll {
		return "*"
	}

	origin := r.Header.Get("Origin")
	if lo.Contains(c.origins, origin) {
		return origin
	}

	return ""
}

// CORS sets the cross-origin headers and answers preflight requests.
func (c *OriginChecker) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := c.AllowOrigin(r); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			if origin != "*" {
				w.Header().Add("Vary", "Origin")
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)

			return
		}

		next.ServeHTTP(w, r)
	})
}
