package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime"
	"strings"
	"sync"
	"time"

	"huddleboard/internal/models"
	"huddleboard/internal/monitoring"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

const (
	// DefaultBatchSize caps how many diners share one LLM prompt.
	DefaultBatchSize = 20

	defaultMaxTokens   = 750
	defaultTemperature = 0.7
)

// ProgressEvent describes a milestone during a follow-up run. Events feed
// the WebSocket channel so the dashboard can show live batch progress.
type ProgressEvent struct {
	Type    string              `json:"type"`
	Bucket  string              `json:"bucket"`
	Batch   *models.BatchResult `json:"batch,omitempty"`
	Message string              `json:"message,omitempty"`
}

// FollowUpAnalyzer runs the diner follow-up analysis: it batches diners,
// fans the batches out over a bounded worker pool, and aggregates the
// model's JSON answers into a report.
type FollowUpAnalyzer struct {
	model       llms.Model
	monitor     *monitoring.Monitor
	batchSize   int
	maxWorkers  int
	maxTokens   int
	temperature float64

	mu      sync.RWMutex
	onEvent func(ProgressEvent)
}

// FollowUpOption configures a FollowUpAnalyzer.
type FollowUpOption func(*FollowUpAnalyzer)

// WithBatchSize overrides the diners-per-prompt cap.
func WithBatchSize(n int) FollowUpOption {
	return func(a *FollowUpAnalyzer) {
		if n > 0 {
			a.batchSize = n
		}
	}
}

// WithMaxWorkers caps the worker pool.
func WithMaxWorkers(n int) FollowUpOption {
	return func(a *FollowUpAnalyzer) {
		if n > 0 {
			a.maxWorkers = n
		}
	}
}

// NewFollowUpAnalyzer creates an analyzer bound to a model and monitor.
func NewFollowUpAnalyzer(model llms.Model, monitor *monitoring.Monitor, opts ...FollowUpOption) *FollowUpAnalyzer {
	a := &FollowUpAnalyzer{
		model:       model,
		monitor:     monitor,
		batchSize:   DefaultBatchSize,
		maxWorkers:  runtime.GOMAXPROCS(0),
		maxTokens:   defaultMaxTokens,
		temperature: defaultTemperature,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// OnEvent registers a callback for progress events. Passing nil clears it.
func (a *FollowUpAnalyzer) OnEvent(fn func(ProgressEvent)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onEvent = fn
}

func (a *FollowUpAnalyzer) emit(event ProgressEvent) {
	a.mu.RLock()
	fn := a.onEvent
	a.mu.RUnlock()
	if fn != nil {
		fn(event)
	}
}

// AnalyzeBucket runs the full follow-up analysis for one bucket of diners.
// Individual batch failures are recorded on the batch result; the run as a
// whole only fails when the context is cancelled.
func (a *FollowUpAnalyzer) AnalyzeBucket(ctx context.Context, bucket string, diners []models.Diner) (*models.FollowUpReport, error) {
	report := &models.FollowUpReport{
		Bucket:      bucket,
		TotalDiners: len(diners),
		BatchSize:   a.batchSize,
		GeneratedAt: time.Now(),
	}

	if len(diners) == 0 {
		report.Message = "No diners found in this time period."
		return report, nil
	}

	batches := splitBatches(diners, a.batchSize)
	workers := a.maxWorkers
	if workers > len(batches) {
		workers = len(batches)
	}
	report.Workers = workers

	a.emit(ProgressEvent{
		Type:    "run_started",
		Bucket:  bucket,
		Message: fmt.Sprintf("analyzing %d diners in %d batches with %d workers", len(diners), len(batches), workers),
	})

	start := time.Now()
	results := make([]models.BatchResult, len(batches))

	// Bounded fan-out over the batches; results keep batch order.
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, batch := range batches {
		wg.Add(1)
		go func(id int, batch []models.Diner) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[id] = models.BatchResult{BatchID: id, BatchSize: len(batch), Error: ctx.Err().Error()}
				return
			}
			defer func() { <-sem }()

			results[id] = a.processBatch(ctx, id, batch)
			a.emit(ProgressEvent{Type: "batch_done", Bucket: bucket, Batch: &results[id]})
		}(i, batch)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("follow-up analysis cancelled: %w", err)
	}

	report.TotalTime = time.Since(start)
	report.Batches = results
	for _, result := range results {
		report.FollowUps = append(report.FollowUps, result.Results...)
	}
	if len(report.FollowUps) == 0 {
		report.Message = "No diners requiring follow-up at this time."
	}

	a.monitor.RecordFollowUpRun(bucket, len(diners), len(batches), workers, report.TotalTime)
	monitoring.ObserveFollowUpRun(report.TotalTime, len(batches))

	a.emit(ProgressEvent{
		Type:    "run_finished",
		Bucket:  bucket,
		Message: fmt.Sprintf("completed in %.2fs", report.TotalTime.Seconds()),
	})

	return report, nil
}

// processBatch builds the prompt for one batch and parses the model's
// answer. Batches with no email inquiries skip the LLM call entirely.
func (a *FollowUpAnalyzer) processBatch(ctx context.Context, id int, batch []models.Diner) models.BatchResult {
	start := time.Now()
	result := models.BatchResult{
		BatchID:    id,
		BatchSize:  len(batch),
		BatchNames: batchNames(batch),
		Results:    []models.FollowUp{},
	}

	prompt, withEmails := BuildFollowUpPrompt(batch)
	if withEmails == 0 {
		result.ProcessingTime = time.Since(start)
		return result
	}

	text, err := a.generate(ctx, prompt)
	result.ProcessingTime = time.Since(start)
	monitoring.ObserveFollowUpBatch(result.ProcessingTime, err == nil)
	if err != nil {
		log.Printf("Follow-up batch %d failed: %v", id, err)
		result.Error = err.Error()
		return result
	}

	followUps, err := parseFollowUps(text)
	if err != nil {
		log.Printf("Follow-up batch %d returned unparseable JSON: %v", id, err)
		result.Error = err.Error()
		return result
	}

	result.Results = followUps
	return result
}

// generate sends a single prompt to the model with the analysis call
// parameters.
func (a *FollowUpAnalyzer) generate(ctx context.Context, prompt string) (string, error) {
	response, err := a.model.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeHuman, prompt),
	},
		llms.WithMaxTokens(a.maxTokens),
		llms.WithTemperature(a.temperature),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate completion: %w", err)
	}
	if response == nil || len(response.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return response.Choices[0].Content, nil
}

// parseFollowUps decodes the model's JSON array answer. The raw text rides
// along in the error so the UI can show what the model actually said.
func parseFollowUps(text string) ([]models.FollowUp, error) {
	trimmed := strings.TrimSpace(text)

	var followUps []models.FollowUp
	if err := json.Unmarshal([]byte(trimmed), &followUps); err != nil {
		return nil, fmt.Errorf("could not parse response as JSON array: %w; raw response: %s", err, trimmed)
	}
	return followUps, nil
}

func splitBatches(diners []models.Diner, size int) [][]models.Diner {
	var batches [][]models.Diner
	for i := 0; i < len(diners); i += size {
		end := i + size
		if end > len(diners) {
			end = len(diners)
		}
		batches = append(batches, diners[i:end])
	}
	return batches
}

func batchNames(batch []models.Diner) []string {
	names := make([]string, len(batch))
	for i, diner := range batch {
		if diner.Name == "" {
			names[i] = "Unknown"
			continue
		}
		names[i] = diner.Name
	}
	return names
}

// FormatReport renders a follow-up report as the markdown-ish text block
// the dashboard sidebar shows.
func FormatReport(report *models.FollowUpReport) string {
	if report.Message != "" {
		return report.Message
	}

	var b strings.Builder
	for _, f := range report.FollowUps {
		name := f.Name
		if name == "" {
			name = "Unknown"
		}
		reservation := f.Reservation
		if reservation == "" {
			reservation = "Unknown date"
		}
		reason := f.Reason
		if reason == "" {
			reason = "No reason provided"
		}
		fmt.Fprintf(&b, "**Name:** %s (%s)\n\n**Reason:** %s\n\n---\n", name, reservation, reason)
	}
	return b.String()
}
