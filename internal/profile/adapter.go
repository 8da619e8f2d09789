// File: internal/profile/adapter.go
package profile

import (
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/shared"
)

// DBToShared converts a GORM profile.Profile model to a shared.Profile DTO.
func DBToShared(p *Profile) *shared.Profile {
	if p == nil {
		return nil
	}
	return &shared.Profile{
		ID:        p.ID,
		GoogleID:  p.GoogleID,
		Email:     p.Email,
		Name:      p.Name,
		Picture:   p.Picture,
		Credits:   p.Credits,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
