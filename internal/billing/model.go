// File: internal/billing/model.go
package billing

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/common"
)

// Order statuses. An order is created pending, becomes paid exactly once when
// its payment is captured, or expires when left unpaid past the TTL.
const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
	OrderStatusExpired = "expired"
)

// Plan is one purchasable credit pack.
type Plan struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Credits  int      `json:"credits"`
	Price    int64    `json:"price"`
	Currency string   `json:"currency"`
	Features []string `json:"features"`
}

// DefaultPlans is the built-in pricing catalog, used when no catalog file is
// configured. Prices are in whole currency units.
func DefaultPlans(currency string) []Plan {
	return []Plan{
		{
			ID:       "plan_20",
			Name:     "Starter Pack",
			Credits:  20,
			Price:    199,
			Currency: currency,
			Features: []string{
				"20 AI edit credits",
				"High-quality image generation",
				"Save to Google Drive",
			},
		},
		{
			ID:       "plan_50",
			Name:     "Creator Pack",
			Credits:  50,
			Price:    299,
			Currency: currency,
			Features: []string{
				"50 AI edit credits",
				"High-quality image generation",
				"Save to Google Drive",
				"Priority support",
			},
		},
		{
			ID:       "plan_100",
			Name:     "Pro Pack",
			Credits:  100,
			Price:    499,
			Currency: currency,
			Features: []string{
				"100 AI edit credits",
				"High-quality image generation",
				"Save to Google Drive",
				"Priority support",
				"Early access to new features",
			},
		},
	}
}

// LoadPlans reads a pricing catalog from a JSON file, falling back to the
// built-in catalog when path is empty.
func LoadPlans(path, currency string) ([]Plan, error) {
	if path == "" {
		return DefaultPlans(currency), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pricing catalog %s: %w", path, err)
	}

	var plans []Plan
	if err := json.Unmarshal(data, &plans); err != nil {
		return nil, fmt.Errorf("parsing pricing catalog %s: %w", path, err)
	}
	if len(plans) == 0 {
		return nil, fmt.Errorf("pricing catalog %s contains no plans", path)
	}
	for i := range plans {
		if plans[i].Currency == "" {
			plans[i].Currency = currency
		}
		if plans[i].ID == "" || plans[i].Credits <= 0 || plans[i].Price <= 0 {
			return nil, fmt.Errorf("pricing catalog %s: plan %d is invalid", path, i)
		}
	}
	return plans, nil
}

// Order records a credit purchase through its lifecycle. AmountMinor is the
// charged amount in the currency's minor unit (paise for INR), matching what
// was sent to the payment gateway.
type Order struct {
	common.BaseModel
	ProfileID         uuid.UUID `gorm:"type:uuid;not null;index"`
	PlanID            string    `gorm:"type:varchar(64);not null"`
	Credits           int       `gorm:"not null"`
	AmountMinor       int64     `gorm:"not null"`
	Currency          string    `gorm:"type:varchar(8);not null"`
	Status            string    `gorm:"type:varchar(20);not null;index"`
	Receipt           string    `gorm:"type:varchar(64);not null"`
	RazorpayOrderID   string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	RazorpayPaymentID *string   `gorm:"type:varchar(64);uniqueIndex"`
	PaidAt            *time.Time
}

// TableName specifies the table name for the Order model.
func (Order) TableName() string {
	return "orders"
}

// OrderResponse defines the structure for order data in API responses. It
// carries everything the browser needs to open the Razorpay checkout.
type OrderResponse struct {
	ID              uuid.UUID `json:"id"`
	PlanID          string    `json:"plan_id"`
	Credits         int       `json:"credits"`
	AmountMinor     int64     `json:"amount"`
	Currency        string    `json:"currency"`
	Status          string    `json:"status"`
	RazorpayOrderID string    `json:"razorpay_order_id"`
	RazorpayKeyID   string    `json:"razorpay_key_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToOrderResponse converts an Order model to an OrderResponse DTO.
func ToOrderResponse(o *Order, keyID string) OrderResponse {
	return OrderResponse{
		ID:              o.ID,
		PlanID:          o.PlanID,
		Credits:         o.Credits,
		AmountMinor:     o.AmountMinor,
		Currency:        o.Currency,
		Status:          o.Status,
		RazorpayOrderID: o.RazorpayOrderID,
		RazorpayKeyID:   keyID,
		CreatedAt:       o.CreatedAt,
	}
}
