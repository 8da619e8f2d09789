// File: internal/billing/repository.go
package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/common"
)

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, order *Order) error
	FindByRazorpayOrderID(ctx context.Context, razorpayOrderID string) (*Order, error)
	// MarkPaid transitions a pending order to paid, stamping the payment id.
	// Returns false when the order was not pending, leaving it untouched.
	MarkPaid(ctx context.Context, razorpayOrderID, paymentID string) (bool, error)
	ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM-based order repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, order *Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("creating order: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByRazorpayOrderID(ctx context.Context, razorpayOrderID string) (*Order, error) {
	var order Order
	err := r.db.WithContext(ctx).First(&order, "razorpay_order_id = ?", razorpayOrderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("finding order by razorpay order id %s: %w", razorpayOrderID, err)
	}
	return &order, nil
}

func (r *gormRepository) MarkPaid(ctx context.Context, razorpayOrderID, paymentID string) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&Order{}).
		Where("razorpay_order_id = ? AND status = ?", razorpayOrderID, OrderStatusPending).
		Updates(map[string]interface{}{
			"status":              OrderStatusPaid,
			"razorpay_payment_id": paymentID,
			"paid_at":             now,
		})
	if result.Error != nil {
		return false, fmt.Errorf("marking order %s paid: %w", razorpayOrderID, result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *gormRepository) ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&Order{}).
		Where("status = ? AND created_at < ?", OrderStatusPending, cutoff).
		Update("status", OrderStatusExpired)
	if result.Error != nil {
		return 0, fmt.Errorf("expiring pending orders: %w", result.Error)
	}
	return result.RowsAffected, nil
}
