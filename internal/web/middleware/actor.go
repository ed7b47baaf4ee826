package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/JonMunkholm/classmonitor/internal/core"
)

// ActorHeader lets trusted clients name the operator behind a request.
const ActorHeader = "X-Actor"

// Actor stores the request's actor in the context so audit lines can name
// it. The X-Actor header wins; otherwise the client IP is used (run after
// chi's RealIP).
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := strings.TrimSpace(r.Header.Get(ActorHeader))
		if actor == "" {
			actor = clientIP(r.RemoteAddr)
		}
		if actor != "" {
			r = r.WithContext(core.ContextWithActor(r.Context(), actor))
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port from a host:port address.
func clientIP(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
