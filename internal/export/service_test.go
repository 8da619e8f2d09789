// File: internal/export/service_test.go
package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/common"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/config"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/shared"
)

type mockUploader struct {
	calls     int
	gotToken  string
	gotImage  *Image
	gotName   string
	gotFolder string
	err       error
}

func (m *mockUploader) Upload(_ context.Context, accessToken string, img *Image, fileName, folder string) (*Result, error) {
	m.calls++
	m.gotToken = accessToken
	m.gotImage = img
	m.gotName = fileName
	m.gotFolder = folder
	if m.err != nil {
		return nil, m.err
	}
	return &Result{FileID: "file-1", FileName: fileName}, nil
}

func newTestService(uploader Uploader) *Service {
	return NewService(uploader, &config.Config{DriveFolder: "appDataFolder"}, zap.NewNop())
}

func sessionWithToken(token string) *shared.Session {
	return &shared.Session{
		Profile:       &shared.Profile{ID: uuid.New()},
		FirebaseUID:   "uid-123",
		ProviderToken: token,
	}
}

func pngDataURL(data []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}

func TestParseDataURLRoundTripsExactBytes(t *testing.T) {
	original := []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0xff, 0x7f}

	img, err := ParseDataURL(pngDataURL(original))

	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIMEType)
	assert.True(t, bytes.Equal(original, img.Data))
	assert.Equal(t, pngDataURL(img.Data), pngDataURL(original))
}

func TestParseDataURLRejectsMalformedInput(t *testing.T) {
	cases := []string{
		"",
		"not a data url",
		"data:image/png;base64",       // no comma
		"data:;base64,aW1n",           // no media type
		"data:image/png,plain-text",   // not base64
		"data:image/png;base64,",      // empty payload
		"data:image/png;base64,$$$$$", // invalid base64
	}
	for _, input := range cases {
		_, err := ParseDataURL(input)
		assert.Error(t, err, "input %q should be rejected", input)
	}
}

func TestExportWithoutProviderTokenNeverTouchesDrive(t *testing.T) {
	uploader := &mockUploader{}
	svc := newTestService(uploader)

	_, err := svc.Export(context.Background(), sessionWithToken(""), Request{
		Image: pngDataURL([]byte("img")),
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoProviderToken))
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 403, apiErr.StatusCode)
	assert.Equal(t, 0, uploader.calls)
}

func TestExportUploadsDecodedBytes(t *testing.T) {
	uploader := &mockUploader{}
	svc := newTestService(uploader)
	payload := []byte("edited image bytes")

	result, err := svc.Export(context.Background(), sessionWithToken("ya29.token"), Request{
		Image:    pngDataURL(payload),
		FileName: "My Vacation Photo!",
	})

	require.NoError(t, err)
	assert.Equal(t, "file-1", result.FileID)
	assert.Equal(t, 1, uploader.calls)
	assert.Equal(t, "ya29.token", uploader.gotToken)
	assert.Equal(t, "appDataFolder", uploader.gotFolder)
	assert.True(t, bytes.Equal(payload, uploader.gotImage.Data))
	assert.Equal(t, "my-vacation-photo.png", uploader.gotName)
}

func TestExportDefaultFileNameWhenNoneRequested(t *testing.T) {
	uploader := &mockUploader{}
	svc := newTestService(uploader)

	_, err := svc.Export(context.Background(), sessionWithToken("tok"), Request{
		Image: pngDataURL([]byte("img")),
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uploader.gotName, "ai-edit-"))
	assert.True(t, strings.HasSuffix(uploader.gotName, ".png"))
}

func TestExportInvalidDataURL(t *testing.T) {
	uploader := &mockUploader{}
	svc := newTestService(uploader)

	_, err := svc.Export(context.Background(), sessionWithToken("tok"), Request{Image: "nope"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrBadRequest))
	assert.Equal(t, 0, uploader.calls)
}

func TestExportUploadFailureMessage(t *testing.T) {
	uploader := &mockUploader{err: errors.New("googleapi: Error 403: insufficient permissions")}
	svc := newTestService(uploader)

	_, err := svc.Export(context.Background(), sessionWithToken("tok"), Request{
		Image: pngDataURL([]byte("img")),
	})

	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(apiErr.Message, "Failed to save to Google Drive: "))
	assert.Contains(t, apiErr.Message, "insufficient permissions")
}
