package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/yimtarbiyat/amal-backend/internal/logger"
	"github.com/yimtarbiyat/amal-backend/internal/models"
	"github.com/yimtarbiyat/amal-backend/internal/store"
)

const (
	// SessionDuration is 7 days
	SessionDuration = 7 * 24 * time.Hour
	// SessionKeyPrefix is the key prefix for sessions
	SessionKeyPrefix = "session:"
	// OAuthStateKeyPrefix is the key prefix for pending sign-in states
	OAuthStateKeyPrefix = "oauth_state:"
	// OAuthStateDuration bounds how long a sign-in redirect may take
	OAuthStateDuration = 10 * time.Minute
)

// Session is the signed-in member behind a token.
type Session struct {
	Token   string             `json:"-"`
	Profile models.UserProfile `json:"user"`
}

func (s *Session) UserID() string { return s.Profile.ID }

// SessionManager issues and resolves opaque session tokens. Tokens are only
// ever stored hashed.
type SessionManager struct {
	kv            KV
	users         store.UserStore
	initialAdmins map[string]bool
}

// NewSessionManager wires the manager. Profiles created for any of
// initialAdmins (emails, case-insensitive) start as admins.
func NewSessionManager(kv KV, users store.UserStore, initialAdmins []string) *SessionManager {
	admins := make(map[string]bool, len(initialAdmins))
	for _, e := range initialAdmins {
		admins[strings.ToLower(strings.TrimSpace(e))] = true
	}
	return &SessionManager{kv: kv, users: users, initialAdmins: admins}
}

// SignIn loads or creates the profile for a verified identity and opens a
// new session for it.
func (m *SessionManager) SignIn(ctx context.Context, id models.Identity) (*Session, error) {
	if id.ID == "" {
		return nil, ErrNotAuthenticated
	}

	profile, err := m.users.GetUser(ctx, id.ID)
	if err != nil {
		return nil, failed(err)
	}
	if profile == nil {
		isAdmin := m.initialAdmins[strings.ToLower(id.Email)]
		name := id.DisplayName
		if name == "" {
			name = strings.Split(id.Email, "@")[0]
		}
		if err := m.users.CreateUser(ctx, id.ID, id.Email, name, isAdmin); err != nil {
			return nil, failed(err)
		}
		logger.Info("created profile", "user_id", id.ID, "admin", isAdmin)

		if profile, err = m.users.GetUser(ctx, id.ID); err != nil {
			return nil, failed(err)
		}
		if profile == nil {
			return nil, failed(store.ErrNotFound)
		}
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, err
	}
	token := base64.RawURLEncoding.EncodeToString(tokenBytes)

	if err := m.kv.Set(ctx, sessionKey(token), profile.ID, SessionDuration); err != nil {
		return nil, failed(err)
	}
	return &Session{Token: token, Profile: *profile}, nil
}

// Resolve returns the session for token and pushes its expiry out by
// another SessionDuration. The profile is re-read so role changes apply
// immediately.
func (m *SessionManager) Resolve(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	key := sessionKey(token)
	userID, ok, err := m.kv.Get(ctx, key)
	if err != nil {
		return nil, failed(err)
	}
	if !ok {
		return nil, ErrNotAuthenticated
	}

	profile, err := m.users.GetUser(ctx, userID)
	if err != nil {
		return nil, failed(err)
	}
	if profile == nil {
		return nil, ErrNotAuthenticated
	}

	if err := m.kv.Expire(ctx, key, SessionDuration); err != nil {
		logger.Warn("failed to refresh session", "user_id", userID, "err", err)
	}
	return &Session{Token: token, Profile: *profile}, nil
}

// SignOut ends the session. Unknown tokens are not an error.
func (m *SessionManager) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.kv.Del(ctx, sessionKey(token)); err != nil {
		return failed(err)
	}
	return nil
}

// NewState records a one-time OAuth state value.
func (m *SessionManager) NewState(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := m.kv.Set(ctx, OAuthStateKeyPrefix+state, "1", OAuthStateDuration); err != nil {
		return "", failed(err)
	}
	return state, nil
}

// ConsumeState reports whether state was issued and not used yet.
func (m *SessionManager) ConsumeState(ctx context.Context, state string) (bool, error) {
	if state == "" {
		return false, nil
	}
	_, ok, err := m.kv.GetDel(ctx, OAuthStateKeyPrefix+state)
	if err != nil {
		return false, failed(err)
	}
	return ok, nil
}

func sessionKey(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return SessionKeyPrefix + hex.EncodeToString(sum[:])
}
