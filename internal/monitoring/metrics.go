package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Performance metrics
var (
	followUpBatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "followup_batch_duration_seconds",
			Help:    "Time taken to analyze one batch of diners",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"status"},
	)

	followUpRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "followup_run_duration_seconds",
			Help:    "Total time for a follow-up analysis run",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
	)

	followUpRunBatches = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "followup_run_batches",
			Help:    "Number of batches per follow-up run",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		},
	)

	transcriptionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "huddle_transcription_duration_seconds",
			Help:    "Time taken to transcribe a huddle recording",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(
		followUpBatchDuration,
		followUpRunDuration,
		followUpRunBatches,
		transcriptionDuration,
	)
}

func statusLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

// ObserveFollowUpBatch records the duration and outcome of one batch.
func ObserveFollowUpBatch(d time.Duration, ok bool) {
	followUpBatchDuration.WithLabelValues(statusLabel(ok)).Observe(d.Seconds())
}

// ObserveFollowUpRun records a whole follow-up run.
func ObserveFollowUpRun(d time.Duration, batches int) {
	followUpRunDuration.Observe(d.Seconds())
	followUpRunBatches.Observe(float64(batches))
}

// ObserveTranscription records the duration and outcome of a transcription.
func ObserveTranscription(d time.Duration, ok bool) {
	transcriptionDuration.WithLabelValues(statusLabel(ok)).Observe(d.Seconds())
}
