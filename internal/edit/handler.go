// File: internal/edit/handler.go
package edit

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/common"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/config"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/middleware"
)

// Handler handles HTTP requests for image edits.
type Handler struct {
	service *Service
	cfg     *config.Config
	logger  *zap.Logger
}

// NewHandler creates a new edit handler.
func NewHandler(service *Service, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		cfg:     cfg,
		logger:  logger.Named("EditHandler"),
	}
}

// RegisterRoutes sets up the routes for edits. All routes require auth.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	edits := rg.Group("/edits")
	{
		edits.POST("", h.createEdit)
		edits.GET("", h.listEdits)
	}
}

// createEdit handles POST /api/v1/edits. The body is multipart form data with
// an "image" file part and a "prompt" text field.
func (h *Handler) createEdit(c *gin.Context) {
	session := middleware.GetSessionFromContext(c)
	if session == nil {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("An image file part named 'image' is required."))
		return
	}
	if fileHeader.Size > h.cfg.MaxUploadSizeBytes {
		common.RespondWithError(c, common.NewAPIError(http.StatusRequestEntityTooLarge, "IMAGE_TOO_LARGE",
			"The uploaded image exceeds the maximum allowed size."))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded image", zap.Error(err))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Failed to read the uploaded image."))
		return
	}
	defer file.Close()

	imageBytes, err := io.ReadAll(io.LimitReader(file, h.cfg.MaxUploadSizeBytes+1))
	if err != nil {
		h.logger.Error("Failed to read uploaded image", zap.Error(err))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Failed to read the uploaded image."))
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(imageBytes)
	}

	response, err := h.service.Edit(c.Request.Context(), session, Request{
		ImageBytes: imageBytes,
		MIMEType:   mimeType,
		Prompt:     c.PostForm("prompt"),
	})
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondOK(c, "Edit generated successfully.", response)
}

// listEdits handles GET /api/v1/edits with page/page_size query parameters.
func (h *Handler) listEdits(c *gin.Context) {
	session := middleware.GetSessionFromContext(c)
	if session == nil {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	records, pagination, err := h.service.ListHistory(c.Request.Context(), session, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondPaginated(c, "Edit history retrieved successfully.", records, pagination)
}
