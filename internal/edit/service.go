// File: internal/edit/service.go
package edit

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/common"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/gemini"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/shared"
)

// noImageMessage is returned when the model produces neither an image nor an
// explanation for why it declined to.
const noImageMessage = "The AI model did not return an image. It might be due to a policy violation or an issue with the prompt."

var allowedMIMETypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

// Generator produces an edited image from a source image and an instruction.
type Generator interface {
	EditImage(ctx context.Context, imageBase64, mimeType, prompt string) (*gemini.EditResult, error)
}

// Request carries the inputs of a single edit attempt.
type Request struct {
	ImageBytes []byte
	MIMEType   string
	Prompt     string
}

// Response carries the outcome of a successful edit: the edited image as a
// data URL, any commentary from the model, and the caller's refreshed profile.
type Response struct {
	RecordID  string                 `json:"record_id"`
	Image     string                 `json:"image"`
	ModelText string                 `json:"model_text,omitempty"`
	Warning   string                 `json:"warning,omitempty"`
	Profile   shared.ProfileResponse `json:"profile"`
}

// Service orchestrates the edit workflow: validate, generate, then debit.
type Service struct {
	generator Generator
	profiles  shared.Service
	repo      Repository
	logger    *zap.Logger
}

// NewService creates a new edit service.
func NewService(generator Generator, profiles shared.Service, repo Repository, logger *zap.Logger) *Service {
	return &Service{
		generator: generator,
		profiles:  profiles,
		repo:      repo,
		logger:    logger.Named("EditService"),
	}
}

// Edit runs one edit attempt for the session's profile. Exactly one credit is
// consumed when and only when the model returns an image; every failure path
// before that point leaves the balance untouched.
func (s *Service) Edit(ctx context.Context, session *shared.Session, req Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// Check the balance up front so a broke caller never triggers a model
	// call. The authoritative check is the conditional debit below.
	if session.Profile.Credits <= 0 {
		return nil, common.ErrPaymentRequired
	}

	encoded := base64.StdEncoding.EncodeToString(req.ImageBytes)

	start := time.Now()
	result, err := s.generator.EditImage(ctx, encoded, req.MIMEType, req.Prompt)
	elapsed := time.Since(start)
	if err != nil {
		s.logger.Error("Image generation failed", zap.Error(err), zap.String("profileID", session.Profile.ID.String()))
		s.recordAttempt(ctx, session, req, StatusFailed, nil, elapsed)
		return nil, generationFailed(err.Error())
	}

	if !result.HasImage() {
		// The model declined. Surface its own explanation when it gave one.
		message := result.Text
		if message == "" {
			message = noImageMessage
		}
		s.recordAttempt(ctx, session, req, StatusFailed, optionalText(result.Text), elapsed)
		return nil, generationFailed(message)
	}

	response := &Response{
		Image:     fmt.Sprintf("data:%s;base64,%s", result.ImageMIMEType, result.ImageBase64),
		ModelText: result.Text,
	}

	if err := s.profiles.DebitCredit(ctx, session.Profile.ID); err != nil {
		if errors.Is(err, common.ErrPaymentRequired) {
			// A concurrent edit spent the last credit between the check
			// and the debit. The image is discarded rather than given away.
			s.recordAttempt(ctx, session, req, StatusFailed, optionalText(result.Text), elapsed)
			return nil, common.ErrPaymentRequired
		}
		// The image already exists; report the bookkeeping failure without
		// withholding it.
		s.logger.Error("Credit debit failed after successful generation",
			zap.Error(err), zap.String("profileID", session.Profile.ID.String()))
		response.Warning = "Your edit succeeded but updating your credit balance failed. Please refresh."
	}

	record := s.recordAttempt(ctx, session, req, StatusSucceeded, optionalText(result.Text), elapsed)
	if record != nil {
		response.RecordID = record.ID.String()
	}

	profile, err := s.profiles.GetProfileByID(ctx, session.Profile.ID)
	if err != nil {
		s.logger.Warn("Failed to refresh profile after edit", zap.Error(err))
		profile = session.Profile
	}
	response.Profile = shared.ToProfileResponse(profile)

	return response, nil
}

// ListHistory returns the caller's edit attempts, newest first.
func (s *Service) ListHistory(ctx context.Context, session *shared.Session, page, pageSize int) ([]RecordResponse, *common.Pagination, error) {
	records, total, err := s.repo.ListByProfile(ctx, session.Profile.ID, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to list edit history", zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Failed to retrieve edit history.")
	}

	responses := make([]RecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, ToRecordResponse(&records[i]))
	}
	return responses, common.NewPagination(total, page, pageSize), nil
}

func (s *Service) recordAttempt(ctx context.Context, session *shared.Session, req Request, status string, modelText *string, elapsed time.Duration) *Record {
	record := &Record{
		ProfileID:     session.Profile.ID,
		Prompt:        req.Prompt,
		ImageMIMEType: req.MIMEType,
		Status:        status,
		ModelText:     modelText,
		DurationMS:    elapsed.Milliseconds(),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Warn("Failed to record edit attempt", zap.Error(err))
		return nil
	}
	return record
}

func validateRequest(req Request) error {
	if req.Prompt == "" {
		return common.ErrBadRequest.WithDetails("A prompt describing the edit is required.")
	}
	if len(req.ImageBytes) == 0 {
		return common.ErrBadRequest.WithDetails("An image to edit is required.")
	}
	if !allowedMIMETypes[req.MIMEType] {
		return common.ErrBadRequest.WithDetails(fmt.Sprintf("Unsupported image type %q. Use PNG, JPEG or WebP.", req.MIMEType))
	}
	return nil
}

func generationFailed(message string) *common.APIError {
	return common.NewAPIError(http.StatusBadGateway, "GENERATION_FAILED", "Generation failed: "+message)
}

func optionalText(text string) *string {
	if text == "" {
		return nil
	}
	return &text
}
