// File: internal/common/context.go
package common

const (
	// AuthorizationHeader is the header name for the Firebase ID token.
	AuthorizationHeader = "Authorization"
	// AuthorizationTypeBearer is the prefix for Bearer tokens.
	AuthorizationTypeBearer = "Bearer"
	// ProviderTokenHeader carries the Google OAuth access token granted at
	// sign-in with the drive.file scope. Only required for Drive exports.
	ProviderTokenHeader = "X-Provider-Token"
	// SessionKey is the context key for the resolved session.
	SessionKey = "session"
)
