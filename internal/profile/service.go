// File: internal/profile/service.go
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/common"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/config"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/shared"
)

// ServiceImplementation implements the shared.Service interface.
type ServiceImplementation struct {
	repo   Repository
	cfg    *config.Config
	logger *zap.Logger
}

var _ shared.Service = (*ServiceImplementation)(nil)

// NewService creates a new profile service.
func NewService(repo Repository, cfg *config.Config, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}
}

// Resolve looks up the profile keyed by the identity's stable provider id,
// inserting one seeded from the identity claims and the starting credit grant
// when absent. Existing rows are returned as stored: email, name and picture
// are not refreshed on subsequent sign-ins.
func (s *ServiceImplementation) Resolve(ctx context.Context, claims shared.IdentityClaims) (*shared.Profile, bool, error) {
	if claims.GoogleID == "" {
		return nil, false, common.ErrUnauthorized.WithDetails("Identity is missing a provider user id.")
	}

	existing, err := s.repo.FindByGoogleID(ctx, claims.GoogleID)
	if err == nil {
		return DBToShared(existing), false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		s.logger.Error("Profile lookup failed", zap.Error(err), zap.String("googleID", claims.GoogleID))
		return nil, false, fmt.Errorf("failed to look up profile: %w", err)
	}

	now := time.Now()
	p := &Profile{
		BaseModel: common.BaseModel{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		GoogleID: claims.GoogleID,
		Credits:  s.cfg.StartingCredits,
	}
	if claims.Email != "" {
		email := strings.ToLower(strings.TrimSpace(claims.Email))
		p.Email = &email
	}
	if claims.Name != "" {
		name := claims.Name
		p.Name = &name
	}
	if claims.Picture != "" {
		picture := claims.Picture
		p.Picture = &picture
	}

	if err := s.repo.Create(ctx, p); err != nil {
		// No retry, no fallback: the caller treats a missing profile as an
		// unauthenticated user.
		s.logger.Error("Failed to create profile on first sign-in",
			zap.Error(err), zap.String("googleID", claims.GoogleID))
		return nil, false, fmt.Errorf("failed to create profile: %w", err)
	}

	s.logger.Info("Profile created with starting credit grant",
		zap.String("profileID", p.ID.String()),
		zap.Int("credits", p.Credits),
	)
	return DBToShared(p), true, nil
}

func (s *ServiceImplementation) GetProfileByID(ctx context.Context, id uuid.UUID) (*shared.Profile, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("Profile not found by ID", zap.String("profileID", id.String()))
		} else {
			s.logger.Error("Error finding profile by ID", zap.Error(err), zap.String("profileID", id.String()))
		}
		return nil, err
	}
	return DBToShared(p), nil
}

func (s *ServiceImplementation) DebitCredit(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DebitCredit(ctx, id); err != nil {
		if errors.Is(err, common.ErrPaymentRequired) {
			s.logger.Warn("Credit debit refused: balance exhausted", zap.String("profileID", id.String()))
		} else {
			s.logger.Error("Credit debit failed", zap.Error(err), zap.String("profileID", id.String()))
		}
		return err
	}
	s.logger.Debug("Credit debited", zap.String("profileID", id.String()))
	return nil
}

func (s *ServiceImplementation) AddCredits(ctx context.Context, id uuid.UUID, n int) error {
	if err := s.repo.AddCredits(ctx, id, n); err != nil {
		s.logger.Error("Credit grant failed", zap.Error(err),
			zap.String("profileID", id.String()), zap.Int("credits", n))
		return err
	}
	s.logger.Info("Credits added", zap.String("profileID", id.String()), zap.Int("credits", n))
	return nil
}
