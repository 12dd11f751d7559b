package models

import (
	"time"
)

// UserProfile is a member of the community, keyed by the identity
// provider's user id.
type UserProfile struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	DisplayName      string    `json:"display_name"`
	IsAdmin          bool      `json:"is_admin"`
	JoinedAt         time.Time `json:"joined_at"`
	TotalSubmissions int       `json:"total_submissions"`
}

// Identity is what the identity provider tells us about a signed-in user.
// It is trusted as-is once the provider has verified it.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}
