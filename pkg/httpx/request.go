package httpx

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP extracts the client IP address from the request. It handles
// X-Forwarded-For and X-Real-IP headers for proxied requests and falls
// back to RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, ok := strings.Cut(xff, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// UserAgent returns the request user agent or a marker when missing, so
// audit entries never carry an empty field.
func UserAgent(r *http.Request) string {
	if ua := r.UserAgent(); ua != "" {
		return ua
	}
	return "Unknown/Missing"
}
