// internal/app/system/network/ip.go

// Package network reads client addresses from requests that may have passed
// through a reverse proxy.
package network

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the address the request came from. The first
// X-Forwarded-For entry wins, then X-Real-IP, then RemoteAddr without its
// port. IPv6 addresses are returned without brackets.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return strings.Trim(r.RemoteAddr, "[]")
}
