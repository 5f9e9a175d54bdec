package uploadai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "upload-ai/internal/app/errors"
	"upload-ai/internal/app/model"
)

const (
	MediaPath         = "/media"
	TranscriptionPath = "/media/%s/transcription"
	FileField         = "file"
)

// ClientConfig represents configuration for the upload-ai HTTP API
type ClientConfig struct {
	BaseURL       string            `yaml:"base_url"`       // e.g. "http://localhost:3333"
	Timeout       time.Duration     `yaml:"timeout"`        // 0 means no client-side timeout
	CustomHeaders map[string]string `yaml:"custom_headers"` // sent with every request
}

// Client performs the media submission and transcription calls. Neither call
// is retried.
type Client struct {
	config ClientConfig
	client *http.Client
	logger *zap.Logger
}

// NewClient creates a new upload-ai API client
func NewClient(config ClientConfig, logger *zap.Logger) *Client {
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.CustomHeaders == nil {
		config.CustomHeaders = make(map[string]string)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger,
	}
}

// transcriptionBody is the JSON payload of the transcription request. A nil
// prompt leaves the field out.
type transcriptionBody struct {
	Prompt *string `json:"prompt,omitempty"`
}

// UploadMedia submits the audio asset as multipart field "file" and returns
// the identifier assigned by the server.
func (c *Client) UploadMedia(ctx context.Context, audio *model.MediaAsset) (model.UploadResult, error) {
	var result model.UploadResult
	if audio == nil || audio.Size() == 0 {
		return result, apperrors.Stage(apperrors.ErrUploadFailed, apperrors.ErrEmptyMedia)
	}

	body, contentType, err := createMultipartForm(audio)
	if err != nil {
		return result, apperrors.Stage(apperrors.ErrUploadFailed, err)
	}

	respBody, status, err := c.post(ctx, MediaPath, contentType, body)
	if err != nil {
		return result, apperrors.Stage(apperrors.ErrUploadFailed, err)
	}
	if !isSuccess(status) {
		return result, apperrors.Stage(apperrors.ErrUploadFailed, statusError(status, respBody))
	}

	if err := json.Unmarshal(respBody, &result); err != nil {
		return result, apperrors.Stage(apperrors.ErrUploadFailed, apperrors.Wrap(err, "decode media response"))
	}
	if strings.TrimSpace(result.ID()) == "" {
		return result, apperrors.Stage(apperrors.ErrUploadFailed, apperrors.ErrMalformedMediaID)
	}

	c.logger.Debug("media uploaded", zap.String("media_id", result.ID()), zap.Int("bytes", audio.Size()))
	return result, nil
}

// CreateTranscription asks the server to transcribe previously uploaded media.
// Only the status code of the response is considered.
func (c *Client) CreateTranscription(ctx context.Context, req model.TranscriptionRequest) error {
	if strings.TrimSpace(req.MediaID) == "" {
		return apperrors.Stage(apperrors.ErrTranscriptionRequestFailed, apperrors.ErrMalformedMediaID)
	}

	payload, err := json.Marshal(transcriptionBody{Prompt: req.Prompt})
	if err != nil {
		return apperrors.Stage(apperrors.ErrTranscriptionRequestFailed, err)
	}

	path := fmt.Sprintf(TranscriptionPath, url.PathEscape(req.MediaID))
	respBody, status, err := c.post(ctx, path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return apperrors.Stage(apperrors.ErrTranscriptionRequestFailed, err)
	}
	if !isSuccess(status) {
		return apperrors.Stage(apperrors.ErrTranscriptionRequestFailed, statusError(status, respBody))
	}

	c.logger.Debug("transcription requested", zap.String("media_id", req.MediaID))
	return nil
}

func (c *Client) post(ctx context.Context, path string, contentType string, body io.Reader) ([]byte, int, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, body)
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "create HTTP request")
	}

	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	for key, value := range c.config.CustomHeaders {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "HTTP request failed")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, apperrors.Wrap(err, "read response")
	}
	return data, resp.StatusCode, nil
}

// createMultipartForm builds the upload body. The part carries the asset's own
// MIME type rather than the generic octet-stream CreateFormFile would set.
func createMultipartForm(audio *model.MediaAsset) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, FileField, audio.Name()))
	header.Set("Content-Type", audio.MIMEType())

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %v", err)
	}
	if _, err := part.Write(audio.Bytes()); err != nil {
		return nil, "", fmt.Errorf("failed to copy file content: %v", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %v", err)
	}

	return body, writer.FormDataContentType(), nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func statusError(status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if len(msg) > 256 {
		msg = msg[:256]
	}
	return apperrors.Wrapf(apperrors.ErrUnexpectedResponse, "API returned status %d: %s", status, msg)
}
