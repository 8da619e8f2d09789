// File: internal/gemini/client.go
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/config"
)

// Client is a thin wrapper around the generateContent endpoint of the Gemini
// API, used for prompt-driven image editing. The call is a single opaque
// round trip: no streaming, no partial results, no retry.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	logger     *zap.Logger
}

// NewClient creates a Gemini client from the application configuration.
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.GeminiTimeout},
		baseURL:    cfg.GeminiBaseURL,
		apiKey:     cfg.GeminiAPIKey,
		model:      cfg.GeminiModel,
		logger:     logger,
	}
}

// EditResult carries the model's response: an edited image payload and/or a
// textual explanation (e.g. a policy refusal).
type EditResult struct {
	ImageBase64   string
	ImageMIMEType string
	Text          string
}

// HasImage reports whether the model returned an edited image payload.
func (r *EditResult) HasImage() bool {
	return r.ImageBase64 != ""
}

type inlineData struct {
	MIMEType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type part struct {
	InlineData *inlineData `json:"inlineData,omitempty"`
	Text       string      `json:"text,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseModalities []string `json:"responseModalities"`
}

type generateContentRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// EditImage sends the base64-encoded image, its MIME type and the prompt to
// the model and collects the inline image and text parts of the first
// candidate.
func (c *Client) EditImage(ctx context.Context, imageBase64, mimeType, prompt string) (*EditResult, error) {
	reqBody := generateContentRequest{
		Contents: []content{{
			Parts: []part{
				{InlineData: &inlineData{MIMEType: mimeType, Data: imageBase64}},
				{Text: prompt},
			},
		}},
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"IMAGE", "TEXT"},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode generation request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Gemini API call failed", zap.Error(err), zap.String("model", c.model))
		return nil, fmt.Errorf("gemini API error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read generation response: %w", err)
	}

	var parsed generateContentResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logger.Error("Failed to decode Gemini response",
			zap.Error(err), zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("gemini API error: unexpected response (status %d)", resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		msg := resp.Status
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		c.logger.Warn("Gemini API returned an error",
			zap.Int("status", resp.StatusCode), zap.String("message", msg))
		return nil, fmt.Errorf("gemini API error: %s", msg)
	}

	result := &EditResult{}
	if len(parsed.Candidates) > 0 {
		for _, p := range parsed.Candidates[0].Content.Parts {
			if p.InlineData != nil && p.InlineData.Data != "" {
				result.ImageBase64 = p.InlineData.Data
				result.ImageMIMEType = p.InlineData.MIMEType
				if result.ImageMIMEType == "" {
					result.ImageMIMEType = "image/png"
				}
			} else if p.Text != "" {
				result.Text = p.Text
			}
		}
	}

	c.logger.Debug("Gemini response parsed",
		zap.Bool("has_image", result.HasImage()),
		zap.Int("text_len", len(result.Text)),
	)
	return result, nil
}
