// File: internal/auth/handler.go
package auth

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/common"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/middleware"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/shared"
)

// SessionRevoker invalidates the identity provider's session for a user.
type SessionRevoker interface {
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// Handler exposes the session surface: the resolved profile and sign-out.
type Handler struct {
	revoker SessionRevoker
	logger  *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(revoker SessionRevoker, logger *zap.Logger) *Handler {
	return &Handler{
		revoker: revoker,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for session operations. The group is
// expected to carry the auth middleware already.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/me", h.me)
	router.POST("/signout", h.signOut)
}

// me returns the caller's resolved profile. Clients call this after every
// balance-mutating operation to avoid displaying a stale counter.
func (h *Handler) me(c *gin.Context) {
	session := middleware.GetSessionFromContext(c)
	if session == nil || session.Profile == nil {
		h.logger.Error("Session missing in context for /me", zap.String("path", c.Request.URL.Path))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Session missing."))
		return
	}
	common.RespondOK(c, "Profile retrieved successfully.", shared.ToProfileResponse(session.Profile))
}

// signOut revokes the user's refresh tokens at the identity provider. The
// profile row is untouched; only the external session is invalidated.
func (h *Handler) signOut(c *gin.Context) {
	session := middleware.GetSessionFromContext(c)
	if session == nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("No active session."))
		return
	}
	if err := h.revoker.RevokeRefreshTokens(c.Request.Context(), session.FirebaseUID); err != nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Could not sign out."))
		return
	}
	common.RespondOK(c, "Signed out successfully.", nil)
}
