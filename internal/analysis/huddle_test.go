package analysis

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"huddleboard/internal/models/providers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockTranscriber struct {
	mock.Mock
}

func (m *mockTranscriber) Transcribe(ctx context.Context, req providers.TranscriptionRequest) (*providers.TranscriptionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.TranscriptionResponse), args.Error(1)
}

func (m *mockTranscriber) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestAnalyzeTranscript(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("GenerateContent", mock.Anything, mock.Anything).Return(contentResponse(`{
		"summary": "Busy Friday service ahead with two VIP tables.",
		"action_items": ["Prep gluten-free menu for table 4", "Confirm anniversary dessert"]
	}`), nil)

	analyzer := NewHuddleAnalyzer(mockLLM, nil)

	analysis, err := analyzer.AnalyzeTranscript(context.Background(), "Morning everyone...")

	assert.NoError(t, err)
	assert.Equal(t, "Busy Friday service ahead with two VIP tables.", analysis.Summary)
	assert.Len(t, analysis.ActionItems, 2)
}

func TestAnalyzeTranscriptMalformedJSON(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("GenerateContent", mock.Anything, mock.Anything).Return(
		contentResponse("Here's my analysis of the meeting..."), nil)

	analyzer := NewHuddleAnalyzer(mockLLM, nil)

	_, err := analyzer.AnalyzeTranscript(context.Background(), "Morning everyone...")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "could not parse analysis as JSON")
	assert.Contains(t, err.Error(), "Here's my analysis")
}

func TestTranscribeWithoutProvider(t *testing.T) {
	analyzer := NewHuddleAnalyzer(new(MockLLM), nil)

	_, err := analyzer.Transcribe(context.Background(), "huddle.mp3", strings.NewReader("audio"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "transcription provider not configured")
}

func TestTranscribeAndAnalyze(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("GenerateContent", mock.Anything, mock.Anything).Return(contentResponse(`{
		"summary": "Short huddle.",
		"action_items": []
	}`), nil)

	transcriber := new(mockTranscriber)
	transcriber.On("Transcribe", mock.Anything, mock.MatchedBy(func(req providers.TranscriptionRequest) bool {
		return req.FileName == "huddle.mp3" && req.Audio != nil
	})).Return(&providers.TranscriptionResponse{Text: "Morning everyone, quick notes."}, nil)

	analyzer := NewHuddleAnalyzer(mockLLM, transcriber)

	result, err := analyzer.TranscribeAndAnalyze(context.Background(), "huddle.mp3", strings.NewReader("audio"))

	assert.NoError(t, err)
	assert.Equal(t, "Morning everyone, quick notes.", result.Transcript)
	assert.Equal(t, "Short huddle.", result.Analysis.Summary)
	assert.False(t, result.GeneratedAt.IsZero())
	transcriber.AssertExpectations(t)
}

func TestTranscribeAndAnalyzeTranscriptionFailure(t *testing.T) {
	mockLLM := new(MockLLM)
	transcriber := new(mockTranscriber)
	transcriber.On("Transcribe", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("upstream 500"))

	analyzer := NewHuddleAnalyzer(mockLLM, transcriber)

	_, err := analyzer.TranscribeAndAnalyze(context.Background(), "huddle.wav", strings.NewReader("audio"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to transcribe audio")
	mockLLM.AssertNotCalled(t, "GenerateContent")
}
