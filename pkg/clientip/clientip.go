package clientip

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type contextKey struct{}

// FromRequest extracts the originating client IP, preferring proxy headers
// over the socket address. Malformed values fall through to RemoteAddr.
func FromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// First hop is the original client.
		first, _, _ := strings.Cut(xff, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}

	if xrip := strings.TrimSpace(r.Header.Get("X-Real-IP")); xrip != "" {
		if ip := net.ParseIP(xrip); ip != nil {
			return ip.String()
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware stores the client IP in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), contextKey{}, FromRequest(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the stored client IP, or an empty string.
func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(contextKey{}).(string)
	return ip
}

// FromContextOK returns the client IP with a found flag, matching the
// extractor signature the activity logger expects.
func FromContextOK(ctx context.Context) (string, bool) {
	ip := FromContext(ctx)
	return ip, ip != ""
}
