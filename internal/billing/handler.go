// File: internal/billing/handler.go
package billing

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/common"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/middleware"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/shared"
)

const webhookSignatureHeader = "X-Razorpay-Signature"

// Handler handles HTTP requests for billing.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new billing handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.Named("BillingHandler"),
	}
}

// RegisterPublicRoutes sets up routes that require no session: the pricing
// catalog and the gateway webhook, which authenticates by signature instead.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	billing := rg.Group("/billing")
	{
		billing.GET("/plans", h.listPlans)
		billing.POST("/webhook", h.webhook)
	}
}

// RegisterRoutes sets up the authenticated billing routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	billing := rg.Group("/billing")
	{
		billing.POST("/orders", h.createOrder)
		billing.POST("/payments/verify", h.verifyPayment)
	}
}

func (h *Handler) listPlans(c *gin.Context) {
	common.RespondOK(c, "Plans retrieved successfully.", h.service.ListPlans())
}

type createOrderRequestBody struct {
	PlanID string `json:"plan_id" binding:"required"`
}

func (h *Handler) createOrder(c *gin.Context) {
	session := middleware.GetSessionFromContext(c)
	if session == nil {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	var body createOrderRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(validationErrs)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request body."))
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), session, body.PlanID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondCreated(c, "Order created successfully.", order)
}

func (h *Handler) verifyPayment(c *gin.Context) {
	session := middleware.GetSessionFromContext(c)
	if session == nil {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	var body VerifyPaymentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(validationErrs)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request body."))
		return
	}

	profile, err := h.service.VerifyPayment(c.Request.Context(), session, body)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondOK(c, "Payment verified and credits added.", gin.H{
		"profile": shared.ToProfileResponse(profile),
	})
}

// webhook handles gateway webhook deliveries. The raw body is read before any
// parsing because the signature covers the exact bytes on the wire.
func (h *Handler) webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Failed to read webhook body."))
		return
	}

	signature := c.GetHeader(webhookSignatureHeader)
	if signature == "" {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Missing webhook signature."))
		return
	}

	if err := h.service.HandleWebhook(c.Request.Context(), body, signature); err != nil {
		common.RespondWithError(c, err)
		return
	}

	c.Status(http.StatusOK)
}
