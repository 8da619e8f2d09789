// File: internal/export/service.go
package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/common"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/config"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/shared"
)

const driveFailurePrefix = "Failed to save to Google Drive: "

// ErrNoProviderToken is returned when a Drive export is attempted without a
// Google OAuth access token. No Drive client is constructed in that case.
var ErrNoProviderToken = common.NewAPIError(http.StatusForbidden, "DRIVE_PERMISSION_REQUIRED",
	"Google Drive access has not been granted. Sign in again and allow Drive permissions.")

// Image is a decoded data URL: the raw bytes plus their declared media type.
type Image struct {
	MIMEType string
	Data     []byte
}

// ParseDataURL decodes a "data:<mime>;base64,<payload>" URL. Decoding then
// re-encoding yields the original payload bit for bit.
func ParseDataURL(dataURL string) (*Image, error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return nil, fmt.Errorf("not a data URL")
	}

	meta, payload, found := strings.Cut(dataURL[len("data:"):], ",")
	if !found {
		return nil, fmt.Errorf("data URL missing payload separator")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("data URL is not base64 encoded")
	}

	mimeType := strings.TrimSuffix(meta, ";base64")
	if mimeType == "" {
		return nil, fmt.Errorf("data URL missing media type")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding data URL payload: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("data URL payload is empty")
	}

	return &Image{MIMEType: mimeType, Data: data}, nil
}

// Result describes the file created in the caller's Drive.
type Result struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name"`
	Link     string `json:"link,omitempty"`
}

// Uploader stores an image in the caller's Google Drive.
type Uploader interface {
	Upload(ctx context.Context, accessToken string, img *Image, fileName, folder string) (*Result, error)
}

// DriveUploader uploads through the Drive v3 API using the caller's own
// OAuth access token, so files land in their Drive, not a service account's.
type DriveUploader struct {
	logger *zap.Logger
}

// NewDriveUploader creates a new Drive uploader.
func NewDriveUploader(logger *zap.Logger) *DriveUploader {
	return &DriveUploader{logger: logger.Named("DriveUploader")}
}

func (u *DriveUploader) Upload(ctx context.Context, accessToken string, img *Image, fileName, folder string) (*Result, error) {
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	service, err := drive.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("creating drive client: %w", err)
	}

	meta := &drive.File{
		Name:     fileName,
		MimeType: img.MIMEType,
	}
	if folder != "" {
		meta.Parents = []string{folder}
	}

	file, err := service.Files.Create(meta).
		Media(bytes.NewReader(img.Data), googleapi.ContentType(img.MIMEType)).
		Fields("id", "name", "webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("uploading to drive: %w", err)
	}

	u.logger.Info("File saved to Drive",
		zap.String("fileID", file.Id),
		zap.String("fileName", file.Name),
	)
	return &Result{FileID: file.Id, FileName: file.Name, Link: file.WebViewLink}, nil
}

// Request carries the inputs of a Drive export.
type Request struct {
	Image    string `json:"image" binding:"required"`
	FileName string `json:"file_name"`
}

// Service exports edited images to the caller's Google Drive.
type Service struct {
	uploader Uploader
	cfg      *config.Config
	logger   *zap.Logger
}

// NewService creates a new export service.
func NewService(uploader Uploader, cfg *config.Config, logger *zap.Logger) *Service {
	return &Service{
		uploader: uploader,
		cfg:      cfg,
		logger:   logger.Named("ExportService"),
	}
}

// Export saves a data-URL image to the session owner's Drive. It fails before
// touching Drive when the session carries no provider token.
func (s *Service) Export(ctx context.Context, session *shared.Session, req Request) (*Result, error) {
	if session.ProviderToken == "" {
		return nil, ErrNoProviderToken
	}

	img, err := ParseDataURL(req.Image)
	if err != nil {
		return nil, common.ErrBadRequest.WithDetails(fmt.Sprintf("Invalid image data URL: %v.", err))
	}

	fileName := buildFileName(req.FileName, img.MIMEType)

	result, err := s.uploader.Upload(ctx, session.ProviderToken, img, fileName, s.cfg.DriveFolder)
	if err != nil {
		s.logger.Error("Drive export failed",
			zap.Error(err),
			zap.String("profileID", session.Profile.ID.String()),
		)
		return nil, common.NewAPIError(http.StatusBadGateway, "DRIVE_EXPORT_FAILED",
			driveFailurePrefix+err.Error()+" Check that the app has Drive permissions and try again.")
	}

	return result, nil
}

// buildFileName slugifies the requested name, or stamps a default, and pins
// the extension to the image's actual media type.
func buildFileName(requested, mimeType string) string {
	base := slug.Make(strings.TrimSuffix(requested, extensionFor(mimeType)))
	if base == "" {
		base = fmt.Sprintf("ai-edit-%s", time.Now().UTC().Format("20060102-150405"))
	}
	return base + extensionFor(mimeType)
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
