// File: internal/profile/model.go
package profile

import (
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/common"
)

// Profile represents the persisted record of a user's identity-linked credit
// balance. It is the only domain entity this system owns; rows are created on
// first sign-in and never deleted.
type Profile struct {
	common.BaseModel         // Embeds ID, CreatedAt, UpdatedAt
	GoogleID         string  `gorm:"type:varchar(255);not null;uniqueIndex"`
	Email            *string `gorm:"type:varchar(255)"`
	Name             *string `gorm:"type:varchar(255)"`
	Picture          *string `gorm:"type:text"`
	Credits          int     `gorm:"not null;default:0"`
}

// TableName specifies the table name for the Profile model.
func (Profile) TableName() string {
	return "profiles"
}
