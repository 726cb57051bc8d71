package monitoring

import (
	"testing"
	"time"
)

func TestMonitor_GetMetrics(t *testing.T) {
	m := NewMonitor()
	m.RecordMetric("test_metric", 42)

	metrics := m.GetMetrics()

	// Check if our metric is present
	value, exists := metrics["test_metric"]
	if !exists {
		t.Fatalf("Expected 'test_metric' to be present in metrics, but it was not")
	}

	// Check value
	if value != 42 {
		t.Errorf("Expected 'test_metric' to be 42, but got %v", value)
	}

	// Check uptime presence
	_, exists = metrics["uptime_seconds"]
	if !exists {
		t.Errorf("Expected 'uptime_seconds' to be present in metrics, but it was not")
	}
}

func TestMonitor_RecordFollowUpRun(t *testing.T) {
	m := NewMonitor()

	m.RecordFollowUpRun("2024-05 to 2024-09", 40, 2, 2, 3*time.Second)

	metrics := m.GetMetrics()

	// Check if metrics are recorded with the proper prefix
	value, exists := metrics["followup_2024-05 to 2024-09_total_diners"]
	if !exists {
		t.Fatalf("Expected diner count to be present in metrics, but it was not")
	}
	if value != 40 {
		t.Errorf("Expected diner count to be 40, but got %v", value)
	}

	if value, _ := metrics["followup_2024-05 to 2024-09_batches"]; value != 2 {
		t.Errorf("Expected batch count to be 2, but got %v", value)
	}
	if value, _ := metrics["followup_2024-05 to 2024-09_total_seconds"]; value != 3.0 {
		t.Errorf("Expected total seconds to be 3, but got %v", value)
	}

	// Check timestamp is recorded
	_, exists = metrics["followup_2024-05 to 2024-09_last_run"]
	if !exists {
		t.Errorf("Expected last run timestamp to be present in metrics, but it was not")
	}
}

func TestMonitor_Reset(t *testing.T) {
	m := NewMonitor()
	m.RecordMetric("test_metric", 42)

	m.Reset()

	metrics := m.GetMetrics()

	// Our test metric should be gone, but uptime should still be there
	_, exists := metrics["test_metric"]
	if exists {
		t.Errorf("Expected 'test_metric' to be removed after Reset(), but it was present")
	}

	// Uptime should still be present (it's added on GetMetrics call)
	_, exists = metrics["uptime_seconds"]
	if !exists {
		t.Errorf("Expected 'uptime_seconds' to be present in metrics, but it was not")
	}
}
