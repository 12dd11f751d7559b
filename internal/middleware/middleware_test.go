package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/yimtarbiyat/amal-backend/internal/models"
	"github.com/yimtarbiyat/amal-backend/internal/services"
)

type fakeResolver map[string]*services.Session

func (f fakeResolver) Resolve(ctx context.Context, token string) (*services.Session, error) {
	if token == "boom" {
		return nil, errors.New("redis down")
	}
	if s, ok := f[token]; ok {
		return s, nil
	}
	return nil, services.ErrNotAuthenticated
}

var sessions = fakeResolver{
	"member": {Token: "member", Profile: models.UserProfile{ID: "u1"}},
	"admin":  {Token: "admin", Profile: models.UserProfile{ID: "u2", IsAdmin: true}},
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(SessionFrom(r.Context()).UserID()))
}

func TestToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", Token(r))

	r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "from-cookie"})
	assert.Equal(t, "from-cookie", Token(r))

	r.Header.Set("Authorization", "Bearer from-header")
	assert.Equal(t, "from-header", Token(r))
}

func TestRequireSession(t *testing.T) {
	h := RequireSession(sessions)(http.HandlerFunc(echoUser))

	tests := []struct {
		name   string
		token  string
		status int
		body   string
	}{
		{"no token", "", http.StatusUnauthorized, ""},
		{"unknown token", "nope", http.StatusUnauthorized, ""},
		{"backend failure", "boom", http.StatusInternalServerError, ""},
		{"member", "member", http.StatusOK, "u1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/submissions/today", nil)
			if tt.token != "" {
				r.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"success":false`)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	h := RequireSession(sessions)(RequireAdmin(http.HandlerFunc(echoUser)))

	for token, want := range map[string]int{"member": http.StatusForbidden, "admin": http.StatusOK} {
		r := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.Equal(t, want, w.Code, token)
	}

	// without RequireSession in front
	w := httptest.NewRecorder()
	RequireAdmin(http.HandlerFunc(echoUser)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(NewIPLimiter(rate.Limit(0.001), 2), "slow down")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	send := func(remote string) int {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = remote
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1111"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1:2222"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:3333"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1111"), "buckets are per IP")
}

func TestHostCheck(t *testing.T) {
	h := HostCheck("api.amal.example.org")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	r := httptest.NewRequest(http.MethodGet, "http://api.amal.example.org:443/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)

	r = httptest.NewRequest(http.MethodGet, "http://evil.example.com/health", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSecurityHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", w.Header().Get(headerXContentTypeOptions))
	assert.Equal(t, "DENY", w.Header().Get(headerXFrameOptions))
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://amal.example.org"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("preflight must not reach the handler")
	}))

	r := httptest.NewRequest(http.MethodOptions, "/api/submissions", nil)
	r.Header.Set("Origin", "https://amal.example.org")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, "https://amal.example.org", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRequestIDAndLogger(t *testing.T) {
	var seen string
	h := RequestID(RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = chimw.GetReqID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(chimw.RequestIDHeader))
	assert.Equal(t, http.StatusTeapot, w.Code)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(chimw.RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, "abc-123", seen)
}
