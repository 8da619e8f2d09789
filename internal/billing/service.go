// File: internal/billing/service.go
package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/common"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/config"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/platform/crypto"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/shared"
)

// ErrCreditUpdateFailed tells the user their charge went through even though
// the balance write did not. The order row is already paid, so the grant can
// be reconciled from it.
var ErrCreditUpdateFailed = common.NewAPIError(http.StatusInternalServerError, "CREDIT_UPDATE_FAILED",
	"Payment succeeded but updating your credit balance failed. Your purchase was recorded and will be reconciled.")

// VerifyPaymentRequest carries the checkout callback fields the browser posts
// after a successful Razorpay payment.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

// Service handles credit top-ups: pricing, order creation and payment capture.
type Service struct {
	plans    []Plan
	planByID map[string]Plan
	gateway  Gateway
	repo     Repository
	profiles shared.Service
	cfg      *config.Config
	logger   *zap.Logger
}

// NewService creates a new billing service, loading the pricing catalog.
func NewService(gateway Gateway, repo Repository, profiles shared.Service, cfg *config.Config, logger *zap.Logger) (*Service, error) {
	plans, err := LoadPlans(cfg.PricingPlansPath, cfg.BillingCurrency)
	if err != nil {
		return nil, fmt.Errorf("loading pricing catalog: %w", err)
	}

	planByID := make(map[string]Plan, len(plans))
	for _, p := range plans {
		planByID[p.ID] = p
	}

	return &Service{
		plans:    plans,
		planByID: planByID,
		gateway:  gateway,
		repo:     repo,
		profiles: profiles,
		cfg:      cfg,
		logger:   logger.Named("BillingService"),
	}, nil
}

// ListPlans returns the pricing catalog.
func (s *Service) ListPlans() []Plan {
	return s.plans
}

// CreateOrder creates a gateway order for the given plan and records it as
// pending. The returned response carries what the checkout widget needs.
func (s *Service) CreateOrder(ctx context.Context, session *shared.Session, planID string) (*OrderResponse, error) {
	plan, ok := s.planByID[planID]
	if !ok {
		return nil, common.ErrBadRequest.WithDetails(fmt.Sprintf("Unknown plan %q.", planID))
	}

	receipt, err := crypto.GenerateReceipt()
	if err != nil {
		s.logger.Error("Failed to generate order receipt", zap.Error(err))
		return nil, common.ErrInternalServer
	}

	// Razorpay amounts are in the currency's minor unit.
	amountMinor := plan.Price * 100

	gatewayOrder, err := s.gateway.CreateOrder(ctx, amountMinor, plan.Currency, receipt, map[string]string{
		"plan_id":    plan.ID,
		"profile_id": session.Profile.ID.String(),
	})
	if err != nil {
		s.logger.Error("Gateway order creation failed", zap.Error(err), zap.String("planID", plan.ID))
		return nil, common.ErrServiceUnavailable.WithDetails("The payment provider could not be reached. Please try again.")
	}

	order := &Order{
		ProfileID:       session.Profile.ID,
		PlanID:          plan.ID,
		Credits:         plan.Credits,
		AmountMinor:     amountMinor,
		Currency:        plan.Currency,
		Status:          OrderStatusPending,
		Receipt:         receipt,
		RazorpayOrderID: gatewayOrder.ID,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		s.logger.Error("Failed to persist order", zap.Error(err), zap.String("razorpayOrderID", gatewayOrder.ID))
		return nil, common.ErrInternalServer
	}

	s.logger.Info("Order created",
		zap.String("orderID", order.ID.String()),
		zap.String("razorpayOrderID", order.RazorpayOrderID),
		zap.String("planID", plan.ID),
		zap.String("profileID", session.Profile.ID.String()),
	)

	response := ToOrderResponse(order, s.cfg.RazorpayKeyID)
	return &response, nil
}

// VerifyPayment validates the checkout callback signature and captures the
// payment. It returns the caller's refreshed profile.
func (s *Service) VerifyPayment(ctx context.Context, session *shared.Session, req VerifyPaymentRequest) (*shared.Profile, error) {
	if !VerifyPaymentSignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, s.cfg.RazorpayKeySecret) {
		s.logger.Warn("Payment signature verification failed",
			zap.String("razorpayOrderID", req.RazorpayOrderID),
			zap.String("profileID", session.Profile.ID.String()),
		)
		return nil, common.ErrUnauthorized.WithDetails("Payment signature verification failed.")
	}

	order, err := s.CapturePayment(ctx, req.RazorpayOrderID, req.RazorpayPaymentID)
	if err != nil {
		return nil, err
	}
	if order.ProfileID != session.Profile.ID {
		return nil, common.ErrForbidden.WithDetails("This order belongs to a different account.")
	}

	return s.profiles.GetProfileByID(ctx, session.Profile.ID)
}

// CapturePayment credits an order's profile exactly once. Replays of the same
// payment are no-ops, so the checkout callback and the webhook can both fire.
func (s *Service) CapturePayment(ctx context.Context, razorpayOrderID, paymentID string) (*Order, error) {
	order, err := s.repo.FindByRazorpayOrderID(ctx, razorpayOrderID)
	if err != nil {
		return nil, err
	}

	switch order.Status {
	case OrderStatusPaid:
		if order.RazorpayPaymentID != nil && *order.RazorpayPaymentID == paymentID {
			s.logger.Debug("Duplicate payment capture ignored",
				zap.String("razorpayOrderID", razorpayOrderID),
				zap.String("paymentID", paymentID),
			)
			return order, nil
		}
		return nil, common.ErrConflict.WithDetails("This order has already been paid.")
	case OrderStatusExpired:
		return nil, common.ErrConflict.WithDetails("This order has expired. Please start a new purchase.")
	}

	transitioned, err := s.repo.MarkPaid(ctx, razorpayOrderID, paymentID)
	if err != nil {
		return nil, common.ErrInternalServer
	}
	if !transitioned {
		// Lost the race to another capture of the same order. Re-read and
		// treat it as a replay.
		return s.CapturePayment(ctx, razorpayOrderID, paymentID)
	}

	if err := s.profiles.AddCredits(ctx, order.ProfileID, order.Credits); err != nil {
		// The order is marked paid but the balance was not updated. Loud
		// log so this can be reconciled by hand, and an error the user can
		// act on: their money is not lost.
		s.logger.Error("Crediting profile failed after payment capture",
			zap.Error(err),
			zap.String("razorpayOrderID", razorpayOrderID),
			zap.String("profileID", order.ProfileID.String()),
			zap.Int("credits", order.Credits),
		)
		return nil, ErrCreditUpdateFailed
	}

	s.logger.Info("Payment captured",
		zap.String("razorpayOrderID", razorpayOrderID),
		zap.String("paymentID", paymentID),
		zap.String("profileID", order.ProfileID.String()),
		zap.Int("credits", order.Credits),
	)

	order.Status = OrderStatusPaid
	order.RazorpayPaymentID = &paymentID
	return order, nil
}

// webhookEvent models the subset of Razorpay webhook payloads we act on.
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleWebhook processes a gateway webhook delivery. The signature covers
// the raw body, so callers must pass the bytes exactly as received.
func (s *Service) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !VerifyWebhookSignature(body, signature, s.cfg.RazorpayWebhookSecret) {
		s.logger.Warn("Webhook signature verification failed")
		return common.ErrUnauthorized.WithDetails("Webhook signature verification failed.")
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return common.ErrBadRequest.WithDetails("Malformed webhook payload.")
	}

	if event.Event != "payment.captured" {
		s.logger.Debug("Ignoring webhook event", zap.String("event", event.Event))
		return nil
	}

	entity := event.Payload.Payment.Entity
	if entity.ID == "" || entity.OrderID == "" {
		return common.ErrBadRequest.WithDetails("Webhook payload missing payment identifiers.")
	}

	_, err := s.CapturePayment(ctx, entity.OrderID, entity.ID)
	return err
}

// ExpirePendingOrders marks orders stuck pending past the configured TTL as
// expired. Run periodically by the order expiry job.
func (s *Service) ExpirePendingOrders(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-s.cfg.OrderPendingTTL)
	expired, err := s.repo.ExpirePendingBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		s.logger.Info("Expired stale pending orders", zap.Int64("count", expired))
	}
	return expired, nil
}
