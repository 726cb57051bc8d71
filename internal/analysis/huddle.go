package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"huddleboard/internal/models"
	"huddleboard/internal/models/providers"
	"huddleboard/internal/monitoring"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

// HuddleAnalyzer turns a morning-huddle recording into a transcript, a
// summary, and a list of action items.
type HuddleAnalyzer struct {
	model       llms.Model
	transcriber providers.Transcriber
	maxTokens   int
	temperature float64
}

// NewHuddleAnalyzer creates a huddle analyzer bound to a chat model and a
// transcription provider.
func NewHuddleAnalyzer(model llms.Model, transcriber providers.Transcriber) *HuddleAnalyzer {
	return &HuddleAnalyzer{
		model:       model,
		transcriber: transcriber,
		maxTokens:   defaultMaxTokens,
		temperature: defaultTemperature,
	}
}

// Transcribe converts uploaded audio into text.
func (h *HuddleAnalyzer) Transcribe(ctx context.Context, fileName string, audio io.Reader) (string, error) {
	if h.transcriber == nil {
		return "", fmt.Errorf("transcription provider not configured: set OPENAI_API_KEY")
	}
	start := time.Now()
	resp, err := h.transcriber.Transcribe(ctx, providers.TranscriptionRequest{
		FileName: fileName,
		Audio:    audio,
	})
	monitoring.ObserveTranscription(time.Since(start), err == nil)
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}
	return resp.Text, nil
}

// AnalyzeTranscript asks the model for a summary and action items. A reply
// that is not valid JSON comes back as an error carrying the raw text.
func (h *HuddleAnalyzer) AnalyzeTranscript(ctx context.Context, transcript string) (*models.HuddleAnalysis, error) {
	prompt := BuildHuddlePrompt(transcript)

	response, err := h.model.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeHuman, prompt),
	},
		llms.WithMaxTokens(h.maxTokens),
		llms.WithTemperature(h.temperature),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze transcript: %w", err)
	}
	if response == nil || len(response.Choices) == 0 {
		return nil, fmt.Errorf("empty response from model")
	}

	raw := strings.TrimSpace(response.Choices[0].Content)
	var analysis models.HuddleAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, fmt.Errorf("could not parse analysis as JSON: %w; raw response: %s", err, raw)
	}
	return &analysis, nil
}

// TranscribeAndAnalyze runs the full pipeline for an uploaded recording.
func (h *HuddleAnalyzer) TranscribeAndAnalyze(ctx context.Context, fileName string, audio io.Reader) (*models.HuddleResult, error) {
	transcript, err := h.Transcribe(ctx, fileName, audio)
	if err != nil {
		return nil, err
	}

	analysis, err := h.AnalyzeTranscript(ctx, transcript)
	if err != nil {
		return nil, err
	}

	return &models.HuddleResult{
		Transcript:  transcript,
		Analysis:    *analysis,
		GeneratedAt: time.Now(),
	}, nil
}
