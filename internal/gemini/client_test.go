// File: internal/gemini/client_test.go
package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/config"
)

func newTestClient(serverURL string) *Client {
	cfg := &config.Config{
		GeminiAPIKey:  "test-key",
		GeminiModel:   "gemini-2.5-flash-image-preview",
		GeminiBaseURL: serverURL,
		GeminiTimeout: 5 * time.Second,
	}
	return NewClient(cfg, zap.NewNop())
}

func TestEditImageParsesImageAndText(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"candidates": [{
				"content": {
					"parts": [
						{"text": "Here is your edited image."},
						{"inlineData": {"mimeType": "image/png", "data": "ZWRpdGVk"}}
					]
				}
			}]
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.EditImage(context.Background(), "c3JjIGltYWdl", "image/jpeg", "remove the background")

	require.NoError(t, err)
	assert.Equal(t, "/v1beta/models/gemini-2.5-flash-image-preview:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)

	assert.True(t, result.HasImage())
	assert.Equal(t, "ZWRpdGVk", result.ImageBase64)
	assert.Equal(t, "image/png", result.ImageMIMEType)
	assert.Equal(t, "Here is your edited image.", result.Text)

	// The request asks for both modalities so refusals still carry text.
	genCfg, ok := gotBody["generationConfig"].(map[string]interface{})
	require.True(t, ok)
	assert.ElementsMatch(t, []interface{}{"IMAGE", "TEXT"}, genCfg["responseModalities"])
}

func TestEditImageDefaultsMissingMIMETypeToPNG(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"inlineData":{"data":"aW1n"}}]}}]}`))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).EditImage(context.Background(), "c3Jj", "image/png", "p")

	require.NoError(t, err)
	assert.Equal(t, "image/png", result.ImageMIMEType)
}

func TestEditImageTextOnlyRefusal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"I cannot edit this image."}]}}]}`))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).EditImage(context.Background(), "c3Jj", "image/png", "p")

	require.NoError(t, err)
	assert.False(t, result.HasImage())
	assert.Equal(t, "I cannot edit this image.", result.Text)
}

func TestEditImageSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).EditImage(context.Background(), "c3Jj", "image/png", "p")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini API error: Resource has been exhausted")
}

func TestEditImageEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).EditImage(context.Background(), "c3Jj", "image/png", "p")

	require.NoError(t, err)
	assert.False(t, result.HasImage())
	assert.Empty(t, result.Text)
}
