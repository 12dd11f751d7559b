// Package clientip resolves the address a request came from, for rate
// limiting and request logs.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

// TrustProxy makes RealClientIP honour X-Forwarded-For. Only set it when the
// app sits behind exactly one reverse proxy that appends to that header;
// otherwise clients can pick their own address.
var TrustProxy bool

// RealClientIP returns the client IP of r. Without TrustProxy this is the
// host part of r.RemoteAddr.
func RealClientIP(r *http.Request) string {
	if TrustProxy {
		if ip := lastForwarded(r.Header.Get("X-Forwarded-For")); ip != "" {
			return ip
		}
	}
	return hostOnly(r.RemoteAddr)
}

// lastForwarded returns the right-most hop, the one our proxy appended.
func lastForwarded(header string) string {
	if header == "" {
		return ""
	}
	hops := strings.Split(header, ",")
	ip := strings.TrimSpace(hops[len(hops)-1])
	if net.ParseIP(ip) == nil {
		return ""
	}
	return ip
}

func hostOnly(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return strings.TrimSpace(addr)
	}
	return strings.TrimSpace(host)
}
