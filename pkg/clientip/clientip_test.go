package clientip

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRealClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		trust      bool
		want       string
	}{
		{"remote addr", "203.0.113.7:51234", "", false, "203.0.113.7"},
		{"forwarded ignored by default", "10.0.0.2:443", "198.51.100.4", false, "10.0.0.2"},
		{"last forwarded hop", "10.0.0.2:443", "1.2.3.4, 198.51.100.4", true, "198.51.100.4"},
		{"garbage header falls back", "10.0.0.2:443", "not-an-ip", true, "10.0.0.2"},
		{"ipv6 remote", "[2001:db8::1]:8080", "", false, "2001:db8::1"},
		{"no port", "192.0.2.9", "", false, "192.0.2.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			TrustProxy = tt.trust
			defer func() { TrustProxy = false }()

			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, RealClientIP(r))
		})
	}
}
