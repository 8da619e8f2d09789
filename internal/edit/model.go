// File: internal/edit/model.go
package edit

import (
	"time"

	"github.com/google/uuid"

	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/common"
)

// Edit attempt statuses.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Record is one edit attempt: what was asked, what came back and whether a
// credit was consumed. The image bytes themselves are never persisted.
type Record struct {
	common.BaseModel
	ProfileID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Prompt        string    `gorm:"type:text;not null"`
	ImageMIMEType string    `gorm:"type:varchar(100);not null"`
	Status        string    `gorm:"type:varchar(20);not null"`
	ModelText     *string   `gorm:"type:text"`
	DurationMS    int64     `gorm:"not null;default:0"`
}

// TableName specifies the table name for the Record model.
func (Record) TableName() string {
	return "edit_records"
}

// RecordResponse defines the structure for edit history entries in API responses.
type RecordResponse struct {
	ID            uuid.UUID `json:"id"`
	Prompt        string    `json:"prompt"`
	ImageMIMEType string    `json:"image_mime_type"`
	Status        string    `json:"status"`
	ModelText     *string   `json:"model_text,omitempty"`
	DurationMS    int64     `json:"duration_ms"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToRecordResponse converts a Record model to a RecordResponse DTO.
func ToRecordResponse(r *Record) RecordResponse {
	return RecordResponse{
		ID:            r.ID,
		Prompt:        r.Prompt,
		ImageMIMEType: r.ImageMIMEType,
		Status:        r.Status,
		ModelText:     r.ModelText,
		DurationMS:    r.DurationMS,
		CreatedAt:     r.CreatedAt,
	}
}
