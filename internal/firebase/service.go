// File: internal/firebase/service.go
package firebase

import (
	"context"
	"fmt"
	"path/filepath"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/config"
)

// Service provides methods to interact with Firebase authentication.
type Service struct {
	authClient *auth.Client
	logger     *zap.Logger
}

// NewService initializes the Firebase Admin SDK and creates a new Service.
func NewService(cfg *config.Config, logger *zap.Logger) (*Service, error) {
	if cfg.FirebaseServiceAccountKeyPath == "" {
		logger.Error("Firebase service account key path is not configured.")
		return nil, fmt.Errorf("firebase service account key path is required")
	}

	cleanPath := filepath.Clean(cfg.FirebaseServiceAccountKeyPath)
	opt := option.WithCredentialsFile(cleanPath)

	var app *firebase.App
	var err error

	if cfg.FirebaseProjectID != "" {
		conf := &firebase.Config{ProjectID: cfg.FirebaseProjectID}
		app, err = firebase.NewApp(context.Background(), conf, opt)
	} else {
		// Let the SDK infer the project from the credentials.
		app, err = firebase.NewApp(context.Background(), nil, opt)
	}
	if err != nil {
		logger.Error("Failed to initialize Firebase Admin SDK app", zap.Error(err), zap.String("keyPath", cleanPath))
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	authClient, err := app.Auth(context.Background())
	if err != nil {
		logger.Error("Failed to get Firebase Auth client", zap.Error(err))
		return nil, fmt.Errorf("error getting Firebase Auth client: %w", err)
	}

	logger.Info("Firebase Admin SDK initialized successfully.")
	return &Service{
		authClient: authClient,
		logger:     logger,
	}, nil
}

// VerifyIDToken verifies a Firebase ID token and returns the token claims.
func (s *Service) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	if idToken == "" {
		return nil, fmt.Errorf("ID token must not be empty")
	}

	token, err := s.authClient.VerifyIDToken(ctx, idToken)
	if err != nil {
		s.logger.Warn("Firebase ID token verification failed", zap.Error(err))
		return nil, fmt.Errorf("failed to verify Firebase ID token: %w", err)
	}

	s.logger.Debug("Firebase ID token verified successfully", zap.String("uid", token.UID))
	return token, nil
}

// RevokeRefreshTokens revokes all refresh tokens for a given user. Used by
// sign-out to invalidate the provider session.
func (s *Service) RevokeRefreshTokens(ctx context.Context, uid string) error {
	if err := s.authClient.RevokeRefreshTokens(ctx, uid); err != nil {
		s.logger.Error("Failed to revoke refresh tokens", zap.Error(err), zap.String("uid", uid))
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	s.logger.Info("Successfully revoked refresh tokens for user", zap.String("uid", uid))
	return nil
}
