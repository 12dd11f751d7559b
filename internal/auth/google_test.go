package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yimtarbiyat/amal-backend/internal/models"
)

func fakeGoogle(t *testing.T, info map[string]interface{}) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if r.ParseForm() != nil || r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at-123","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(info)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func provider(srv *httptest.Server) *GoogleProvider {
	return NewGoogleProvider("client-id", "secret", "http://localhost:8080/api/auth/google/callback").
		WithEndpoints(srv.URL+"/auth", srv.URL+"/token", srv.URL+"/userinfo")
}

func TestGoogleProvider_AuthURL(t *testing.T) {
	p := NewGoogleProvider("client-id", "secret", "http://localhost:8080/cb")

	u, err := url.Parse(p.AuthURL("state-1"))
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "accounts.google.com", u.Host)
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "http://localhost:8080/cb", q.Get("redirect_uri"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "openid email profile", q.Get("scope"))
}

func TestGoogleProvider_Exchange(t *testing.T) {
	srv := fakeGoogle(t, map[string]interface{}{
		"sub": "1122", "email": "aisha@example.org", "email_verified": true, "name": "Aisha",
	})

	id, err := provider(srv).Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, models.Identity{ID: "1122", Email: "aisha@example.org", DisplayName: "Aisha"}, id)
}

func TestGoogleProvider_ExchangeBadCode(t *testing.T) {
	srv := fakeGoogle(t, map[string]interface{}{"sub": "1122", "email_verified": true})

	_, err := provider(srv).Exchange(context.Background(), "bad-code")
	assert.Error(t, err)
}

func TestGoogleProvider_ExchangeUnverified(t *testing.T) {
	srv := fakeGoogle(t, map[string]interface{}{"sub": "1122", "email": "x@example.org", "email_verified": false})

	_, err := provider(srv).Exchange(context.Background(), "good-code")
	assert.ErrorIs(t, err, ErrUnverifiedEmail)
}
