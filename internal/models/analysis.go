package models

import "time"

// FollowUp is one entry of the LLM's follow-up report. The JSON keys match
// the response contract in the prompt exactly.
type FollowUp struct {
	Name        string `json:"Name"`
	Reservation string `json:"Reservation"`
	Reason      string `json:"Reason"`
}

// BatchResult captures the outcome and timing of a single diner batch sent
// to the LLM.
type BatchResult struct {
	BatchID        int           `json:"batch_id"`
	BatchSize      int           `json:"batch_size"`
	BatchNames     []string      `json:"batch_names"`
	ProcessingTime time.Duration `json:"processing_time"`
	Error          string        `json:"error,omitempty"`
	Results        []FollowUp    `json:"results"`
}

// FollowUpReport aggregates all batch results for one bucket.
type FollowUpReport struct {
	Bucket      string        `json:"bucket"`
	TotalDiners int           `json:"total_diners"`
	BatchSize   int           `json:"batch_size"`
	Workers     int           `json:"workers"`
	TotalTime   time.Duration `json:"total_time"`
	Batches     []BatchResult `json:"batches"`
	FollowUps   []FollowUp    `json:"follow_ups"`
	Message     string        `json:"message,omitempty"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// HuddleAnalysis is the structured result of analyzing a morning huddle
// transcript. The JSON keys match the response contract in the prompt.
type HuddleAnalysis struct {
	Summary     string   `json:"summary"`
	ActionItems []string `json:"action_items"`
}

// HuddleResult bundles a transcription with its analysis.
type HuddleResult struct {
	Transcript  string         `json:"transcript"`
	Analysis    HuddleAnalysis `json:"analysis"`
	GeneratedAt time.Time      `json:"generated_at"`
}
