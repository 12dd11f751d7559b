package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/yimtarbiyat/amal-backend/internal/models"
)

const (
	googleAuthURL     = "https://accounts.google.com/o/oauth2/auth"
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
)

var googleScopes = []string{"openid", "email", "profile"}

// ErrUnverifiedEmail is returned when Google has not verified the account email.
var ErrUnverifiedEmail = errors.New("google account email is not verified")

// GoogleProvider signs members in with Google's authorization-code flow.
type GoogleProvider struct {
	cfg         *oauth2.Config
	userInfoURL string
}

// NewGoogleProvider builds a provider for the given OAuth client.
func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       googleScopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   googleAuthURL,
				TokenURL:  googleTokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		userInfoURL: googleUserInfoURL,
	}
}

// WithEndpoints points the provider at other token and userinfo URLs.
func (g *GoogleProvider) WithEndpoints(authURL, tokenURL, userInfoURL string) *GoogleProvider {
	cfg := *g.cfg
	cfg.Endpoint.AuthURL = authURL
	cfg.Endpoint.TokenURL = tokenURL
	return &GoogleProvider{cfg: &cfg, userInfoURL: userInfoURL}
}

// AuthURL is where the browser is sent to sign in.
func (g *GoogleProvider) AuthURL(state string) string {
	return g.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.SetAuthURLParam("prompt", "select_account"))
}

type userInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// Exchange trades an authorization code for the signed-in identity.
func (g *GoogleProvider) Exchange(ctx context.Context, code string) (models.Identity, error) {
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return models.Identity{}, fmt.Errorf("exchanging code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return models.Identity{}, err
	}
	resp, err := g.cfg.Client(ctx, tok).Do(req)
	if err != nil {
		return models.Identity{}, fmt.Errorf("fetching userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return models.Identity{}, fmt.Errorf("userinfo returned %d: %s", resp.StatusCode, body)
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return models.Identity{}, fmt.Errorf("decoding userinfo: %w", err)
	}
	if info.Sub == "" {
		return models.Identity{}, errors.New("userinfo has no subject")
	}
	if !info.EmailVerified {
		return models.Identity{}, ErrUnverifiedEmail
	}
	return models.Identity{ID: info.Sub, Email: info.Email, DisplayName: info.Name}, nil
}
