package providers

import (
	"context"
	"io"
)

// TranscriptionRequest carries an audio stream to a speech-to-text provider.
type TranscriptionRequest struct {
	FileName string
	Audio    io.Reader
	Model    string
	Language string
}

// TranscriptionResponse is the provider's transcript.
type TranscriptionResponse struct {
	Text string `json:"text"`
}

// Transcriber converts recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error)
	HealthCheck(ctx context.Context) error
}
