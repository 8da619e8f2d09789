// File: internal/profile/repository.go
package profile

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/common"
)

// Repository defines the interface for profile data operations.
type Repository interface {
	Create(ctx context.Context, profile *Profile) error
	FindByGoogleID(ctx context.Context, googleID string) (*Profile, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	// DebitCredit decrements the balance by one iff it is strictly positive.
	// Returns common.ErrPaymentRequired when the guard fails.
	DebitCredit(ctx context.Context, id uuid.UUID) error
	// AddCredits increments the balance by n in a single statement.
	AddCredits(ctx context.Context, id uuid.UUID, n int) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM profile repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts a new profile record into the database.
func (r *gormRepository) Create(ctx context.Context, profile *Profile) error {
	if profile.Email != nil {
		*profile.Email = strings.ToLower(strings.TrimSpace(*profile.Email))
	}
	err := r.db.WithContext(ctx).Create(profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(err.Error(), "unique constraint") ||
			strings.Contains(err.Error(), "UNIQUE constraint") ||
			strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			return common.ErrConflict.WithDetails("A profile already exists for this account.")
		}
		return err
	}
	return nil
}

// FindByGoogleID retrieves a profile by its stable provider user id.
func (r *gormRepository) FindByGoogleID(ctx context.Context, googleID string) (*Profile, error) {
	var p Profile
	err := r.db.WithContext(ctx).Where("google_id = ?", googleID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Profile not found for this account.")
		}
		return nil, err
	}
	return &p, nil
}

// FindByID retrieves a profile by its ID.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	var p Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Profile not found with this ID.")
		}
		return nil, err
	}
	return &p, nil
}

// DebitCredit performs the conditional decrement `credits = credits - 1
// WHERE credits > 0` so concurrent edits can never drive the balance
// negative.
func (r *gormRepository) DebitCredit(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&Profile{}).
		Where("id = ? AND credits > 0", id).
		UpdateColumn("credits", gorm.Expr("credits - ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return common.ErrPaymentRequired
	}
	return nil
}

// AddCredits performs the atomic increment `credits = credits + n`.
func (r *gormRepository) AddCredits(ctx context.Context, id uuid.UUID, n int) error {
	if n <= 0 {
		return common.ErrBadRequest.WithDetails("Credit amount must be positive.")
	}
	res := r.db.WithContext(ctx).Model(&Profile{}).
		Where("id = ?", id).
		UpdateColumn("credits", gorm.Expr("credits + ?", n))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Profile not found with this ID.")
	}
	return nil
}
