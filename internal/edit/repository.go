// File: internal/edit/repository.go
package edit

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/common"
)

// Repository defines persistence operations for edit records.
type Repository interface {
	Create(ctx context.Context, record *Record) error
	FindByID(ctx context.Context, id uuid.UUID) (*Record, error)
	ListByProfile(ctx context.Context, profileID uuid.UUID, page, pageSize int) ([]Record, int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM-based edit record repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, record *Record) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("creating edit record: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	var record Record
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("finding edit record by id %s: %w", id, err)
	}
	return &record, nil
}

func (r *gormRepository) ListByProfile(ctx context.Context, profileID uuid.UUID, page, pageSize int) ([]Record, int64, error) {
	var records []Record
	var total int64

	query := r.db.WithContext(ctx).Model(&Record{}).Where("profile_id = ?", profileID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting edit records: %w", err)
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&records).Error
	if err != nil {
		return nil, 0, fmt.Errorf("listing edit records: %w", err)
	}
	return records, total, nil
}
