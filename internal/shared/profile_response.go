// File: internal/shared/profile_response.go
package shared

import (
	"time"

	"github.com/google/uuid"
)

// ProfileResponse defines the structure for profile data sent in API responses.
type ProfileResponse struct {
	ID        uuid.UUID `json:"id"`
	GoogleID  string    `json:"google_id"`
	Email     *string   `json:"email,omitempty"`
	Name      *string   `json:"name,omitempty"`
	Picture   *string   `json:"picture,omitempty"`
	Credits   int       `json:"credits"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToProfileResponse converts a shared.Profile to a ProfileResponse DTO.
func ToProfileResponse(p *Profile) ProfileResponse {
	return ProfileResponse{
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
