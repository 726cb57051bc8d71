package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"
)

const (
	defaultWhisperBaseURL = "https://api.openai.com/v1"
	defaultWhisperModel   = "whisper-1"
)

// WhisperProvider implements the Transcriber interface against the OpenAI
// audio transcription API. Any OpenAI-compatible endpoint works by setting
// the base URL.
type WhisperProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// WhisperOption configures a WhisperProvider.
type WhisperOption func(*WhisperProvider)

// WithBaseURL points the provider at an OpenAI-compatible endpoint.
func WithBaseURL(url string) WhisperOption {
	return func(p *WhisperProvider) {
		p.baseURL = url
	}
}

// WithModel overrides the transcription model.
func WithModel(model string) WhisperOption {
	return func(p *WhisperProvider) {
		p.model = model
	}
}

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) WhisperOption {
	return func(p *WhisperProvider) {
		p.client = client
	}
}

// NewWhisperProvider creates a new Whisper transcription provider
func NewWhisperProvider(opts ...WhisperOption) (*WhisperProvider, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for transcription")
	}

	p := &WhisperProvider{
		client:  &http.Client{Timeout: 120 * time.Second},
		baseURL: defaultWhisperBaseURL,
		apiKey:  apiKey,
		model:   defaultWhisperModel,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Name returns the provider name
func (p *WhisperProvider) Name() string {
	return "whisper"
}

// Transcribe sends the audio as multipart form data and returns the
// transcript text.
func (p *WhisperProvider) Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", req.FileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, req.Audio); err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	if err := writer.WriteField("model", model); err != nil {
		return nil, fmt.Errorf("failed to write model field: %w", err)
	}
	if req.Language != "" {
		if err := writer.WriteField("language", req.Language); err != nil {
			return nil, fmt.Errorf("failed to write language field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build transcription request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("transcription API returned status %d: %s", resp.StatusCode, string(data))
	}

	var result TranscriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode transcription response: %w", err)
	}

	return &result, nil
}

// HealthCheck verifies the provider configuration without burning audio
// minutes. The models endpoint answers for any valid key.
func (p *WhisperProvider) HealthCheck(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/models/"+p.model, nil)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("transcription health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("transcription health check returned status %d", resp.StatusCode)
	}
	return nil
}
