// File: internal/edit/service_test.go
package edit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/common"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/gemini"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/shared"
)

type mockGenerator struct {
	calls  int
	result *gemini.EditResult
	err    error
}

func (m *mockGenerator) EditImage(_ context.Context, _, _, _ string) (*gemini.EditResult, error) {
	m.calls++
	return m.result, m.err
}

type mockProfiles struct {
	profile     *shared.Profile
	debitCalls  int
	debitErr    error
	addCalls    int
	refreshedTo int
}

func (m *mockProfiles) Resolve(_ context.Context, _ shared.IdentityClaims) (*shared.Profile, bool, error) {
	return m.profile, false, nil
}

func (m *mockProfiles) GetProfileByID(_ context.Context, _ uuid.UUID) (*shared.Profile, error) {
	refreshed := *m.profile
	refreshed.Credits = m.refreshedTo
	return &refreshed, nil
}

func (m *mockProfiles) DebitCredit(_ context.Context, _ uuid.UUID) error {
	m.debitCalls++
	return m.debitErr
}

func (m *mockProfiles) AddCredits(_ context.Context, _ uuid.UUID, _ int) error {
	m.addCalls++
	return nil
}

type mockRepo struct {
	records []Record
}

func (m *mockRepo) Create(_ context.Context, record *Record) error {
	record.ID = uuid.New()
	record.CreatedAt = time.Now()
	m.records = append(m.records, *record)
	return nil
}

func (m *mockRepo) FindByID(_ context.Context, _ uuid.UUID) (*Record, error) {
	return nil, common.ErrNotFound
}

func (m *mockRepo) ListByProfile(_ context.Context, _ uuid.UUID, _, _ int) ([]Record, int64, error) {
	return m.records, int64(len(m.records)), nil
}

func newSession(credits int) *shared.Session {
	return &shared.Session{
		Profile:     &shared.Profile{ID: uuid.New(), GoogleID: "uid-123", Credits: credits},
		FirebaseUID: "uid-123",
	}
}

func validRequest() Request {
	return Request{
		ImageBytes: []byte("fake image bytes"),
		MIMEType:   "image/png",
		Prompt:     "make the sky purple",
	}
}

func TestEditWithZeroCreditsNeverCallsGenerator(t *testing.T) {
	gen := &mockGenerator{}
	profiles := &mockProfiles{}
	svc := NewService(gen, profiles, &mockRepo{}, zap.NewNop())

	_, err := svc.Edit(context.Background(), newSession(0), validRequest())

	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrPaymentRequired))
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "You have no credits left. Please purchase more to continue editing.", apiErr.Message)
	assert.Equal(t, 0, gen.calls)
	assert.Equal(t, 0, profiles.debitCalls)
}

func TestEditSuccessDebitsExactlyOnce(t *testing.T) {
	session := newSession(3)
	gen := &mockGenerator{result: &gemini.EditResult{
		ImageBase64:   "ZWRpdGVk",
		ImageMIMEType: "image/png",
		Text:          "Done!",
	}}
	profiles := &mockProfiles{profile: session.Profile, refreshedTo: 2}
	repo := &mockRepo{}
	svc := NewService(gen, profiles, repo, zap.NewNop())

	resp, err := svc.Edit(context.Background(), session, validRequest())

	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, 1, profiles.debitCalls)
	assert.Equal(t, "data:image/png;base64,ZWRpdGVk", resp.Image)
	assert.Equal(t, "Done!", resp.ModelText)
	assert.Empty(t, resp.Warning)
	assert.Equal(t, 2, resp.Profile.Credits)

	require.Len(t, repo.records, 1)
	assert.Equal(t, StatusSucceeded, repo.records[0].Status)
	assert.Equal(t, "make the sky purple", repo.records[0].Prompt)
}

func TestEditGeneratorErrorLeavesBalanceUntouched(t *testing.T) {
	session := newSession(3)
	gen := &mockGenerator{err: errors.New("gemini API error: model overloaded")}
	profiles := &mockProfiles{profile: session.Profile}
	repo := &mockRepo{}
	svc := NewService(gen, profiles, repo, zap.NewNop())

	_, err := svc.Edit(context.Background(), session, validRequest())

	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "Generation failed: gemini API error: model overloaded", apiErr.Message)
	assert.Equal(t, 0, profiles.debitCalls)

	require.Len(t, repo.records, 1)
	assert.Equal(t, StatusFailed, repo.records[0].Status)
}

func TestEditModelRefusalSurfacesItsOwnText(t *testing.T) {
	session := newSession(3)
	gen := &mockGenerator{result: &gemini.EditResult{Text: "This request was blocked by a safety filter."}}
	profiles := &mockProfiles{profile: session.Profile}
	svc := NewService(gen, profiles, &mockRepo{}, zap.NewNop())

	_, err := svc.Edit(context.Background(), session, validRequest())

	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "Generation failed: This request was blocked by a safety filter.", apiErr.Message)
	assert.Equal(t, 0, profiles.debitCalls)
}

func TestEditNoImageNoTextUsesGenericMessage(t *testing.T) {
	session := newSession(3)
	gen := &mockGenerator{result: &gemini.EditResult{}}
	svc := NewService(gen, &mockProfiles{profile: session.Profile}, &mockRepo{}, zap.NewNop())

	_, err := svc.Edit(context.Background(), session, validRequest())

	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t,
		"Generation failed: The AI model did not return an image. It might be due to a policy violation or an issue with the prompt.",
		apiErr.Message)
}

func TestEditDebitRaceFailsTheRequest(t *testing.T) {
	session := newSession(1)
	gen := &mockGenerator{result: &gemini.EditResult{ImageBase64: "aW1n", ImageMIMEType: "image/png"}}
	profiles := &mockProfiles{profile: session.Profile, debitErr: common.ErrPaymentRequired}
	svc := NewService(gen, profiles, &mockRepo{}, zap.NewNop())

	_, err := svc.Edit(context.Background(), session, validRequest())

	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrPaymentRequired))
}

func TestEditValidation(t *testing.T) {
	svc := NewService(&mockGenerator{}, &mockProfiles{}, &mockRepo{}, zap.NewNop())
	session := newSession(3)

	missingPrompt := validRequest()
	missingPrompt.Prompt = ""
	_, err := svc.Edit(context.Background(), session, missingPrompt)
	assert.True(t, errors.Is(err, common.ErrBadRequest))

	missingImage := validRequest()
	missingImage.ImageBytes = nil
	_, err = svc.Edit(context.Background(), session, missingImage)
	assert.True(t, errors.Is(err, common.ErrBadRequest))

	badType := validRequest()
	badType.MIMEType = "application/pdf"
	_, err = svc.Edit(context.Background(), session, badType)
	assert.True(t, errors.Is(err, common.ErrBadRequest))
}
