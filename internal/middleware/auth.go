// File: internal/middleware/auth.go
package middleware

import (
	"context"
	"strings"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/common"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/shared"
)

// TokenVerifier abstracts Firebase ID token verification so the middleware
// can be exercised without the Admin SDK.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error)
}

// Auth creates a Gin middleware that verifies the Firebase ID token, resolves
// the caller's profile and stores a shared.Session in the request context.
// A request that cannot be resolved to a profile never reaches a handler.
func Auth(verifier TokenVerifier, profiles shared.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(common.AuthorizationHeader)
		if authHeader == "" {
			logger.Debug("Authorization header missing")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header is required."))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], common.AuthorizationTypeBearer) {
			logger.Debug("Authorization header format invalid")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header format must be 'Bearer <token>'."))
			return
		}

		token, err := verifier.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			logger.Warn("ID token verification failed", zap.Error(err))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid or expired ID token."))
			return
		}

		profile, created, err := profiles.Resolve(c.Request.Context(), shared.ClaimsFromIDToken(token))
		if err != nil {
			// A user without a resolvable profile is treated as unauthenticated.
			logger.Error("Profile resolution failed", zap.Error(err), zap.String("uid", token.UID))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Profile unavailable."))
			return
		}
		if created {
			logger.Info("New profile provisioned on first sign-in",
				zap.String("profileID", profile.ID.String()),
				zap.String("uid", token.UID),
			)
		}

		c.Set(common.SessionKey, &shared.Session{
			Profile:       profile,
			FirebaseUID:   token.UID,
			ProviderToken: c.GetHeader(common.ProviderTokenHeader),
		})

		logger.Debug("Request authenticated",
			zap.String("profileID", profile.ID.String()),
			zap.Int("credits", profile.Credits),
		)

		c.Next()
	}
}

// GetSessionFromContext retrieves the resolved session from the Gin context.
// Returns nil when the auth middleware did not run.
func GetSessionFromContext(c *gin.Context) *shared.Session {
	val, exists := c.Get(common.SessionKey)
	if !exists {
		return nil
	}
	session, ok := val.(*shared.Session)
	if !ok {
		return nil
	}
	return session
}
