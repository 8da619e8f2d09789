// File: internal/shared/core.go
package shared

import (
	"context"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
)

// Profile represents a user's identity-linked credit account.
type Profile struct {
	ID        uuid.UUID
	GoogleID  string
	Email     *string
	Name      *string
	Picture   *string
	Credits   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IdentityClaims holds the identity-provider attributes consumed at resolution time.
type IdentityClaims struct {
	GoogleID      string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// ClaimsFromIDToken extracts the claims this system consumes from a verified
// Firebase ID token.
func ClaimsFromIDToken(token *firebaseauth.Token) IdentityClaims {
	claims := IdentityClaims{GoogleID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		claims.Email = email
	}
	if verified, ok := token.Claims["email_verified"].(bool); ok {
		claims.EmailVerified = verified
	}
	if name, ok := token.Claims["name"].(string); ok {
		claims.Name = name
	}
	if picture, ok := token.Claims["picture"].(string); ok {
		claims.Picture = picture
	}
	return claims
}

// Session is the per-request session object: the verified identity, its
// resolved profile and the provider access token (if the client sent one).
// It replaces any ambient signed-in-user singleton; lifecycle is bounded by
// the request.
type Session struct {
	Profile       *Profile
	FirebaseUID   string
	ProviderToken string
}

// Service defines the profile-resolution and credit-mutation operations
// shared across the auth middleware, the edit workflow and billing.
type Service interface {
	// Resolve finds the profile for the given identity, creating it with the
	// starting credit grant on first sign-in. Existing rows are returned
	// unmodified. The bool reports whether a row was created.
	Resolve(ctx context.Context, claims IdentityClaims) (*Profile, bool, error)
	GetProfileByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	// DebitCredit atomically consumes one credit; it fails without mutating
	// anything when the balance is not strictly positive.
	DebitCredit(ctx context.Context, id uuid.UUID) error
	// AddCredits atomically adds n credits to the profile's balance.
	AddCredits(ctx context.Context, id uuid.UUID, n int) error
}
