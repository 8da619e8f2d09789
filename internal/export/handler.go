// File: internal/export/handler.go
package export

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/common"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/middleware"
)

// Handler handles HTTP requests for Drive exports.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new export handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.Named("ExportHandler"),
	}
}

// RegisterRoutes sets up the routes for exports. All routes require auth.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	exports := rg.Group("/exports")
	{
		exports.POST("/drive", h.exportToDrive)
	}
}

func (h *Handler) exportToDrive(c *gin.Context) {
	session := middleware.GetSessionFromContext(c)
	if session == nil {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	var body Request
	if err := c.ShouldBindJSON(&body); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(validationErrs)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request body."))
		return
	}

	result, err := h.service.Export(c.Request.Context(), session, body)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondCreated(c, "Image saved to Google Drive.", result)
}
