package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes recorded on letterbox_uploads_total
const (
	OutcomeSuccess     = "success"
	OutcomeEmpty       = "empty_selection"
	OutcomeNoEligible  = "no_eligible_files"
	OutcomeBusy        = "in_progress"
	OutcomeStatusError = "status_error"
	OutcomeDecodeError = "decode_error"
	OutcomeFailure     = "failure"
)

// Recorder collects upload metrics in its own registry
type Recorder struct {
	Registry *prometheus.Registry

	FilesGrouped   *prometheus.CounterVec
	Uploads        *prometheus.CounterVec
	UploadDuration prometheus.Histogram
	UploadBytes    prometheus.Counter
}

// New creates a recorder with every metric registered
func New() *Recorder {
	r := &Recorder{
		Registry: prometheus.NewRegistry(),
		FilesGrouped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "letterbox",
			Name:      "files_grouped_total",
			Help:      "Files placed into a letter group, by grouping mode.",
		}, []string{"mode"}),
		Uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "letterbox",
			Name:      "uploads_total",
			Help:      "Upload attempts, by outcome.",
		}, []string{"outcome"}),
		UploadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "letterbox",
			Name:      "upload_duration_seconds",
			Help:      "Time spent waiting on the upload endpoint.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		UploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "letterbox",
			Name:      "upload_bytes_total",
			Help:      "Multipart body bytes sent to the upload endpoint.",
		}),
	}
	r.Registry.MustRegister(r.FilesGrouped, r.Uploads, r.UploadDuration, r.UploadBytes)
	return r
}

// Grouped records files accepted by a grouping pass
func (r *Recorder) Grouped(nested bool, files int) {
	if r == nil {
		return
	}
	mode := "top_level"
	if nested {
		mode = "nested"
	}
	r.FilesGrouped.WithLabelValues(mode).Add(float64(files))
}

// Attempt records the outcome of one upload attempt
func (r *Recorder) Attempt(outcome string, elapsed time.Duration, bytes int64) {
	if r == nil {
		return
	}
	r.Uploads.WithLabelValues(outcome).Inc()
	if elapsed > 0 {
		r.UploadDuration.Observe(elapsed.Seconds())
	}
	if bytes > 0 {
		r.UploadBytes.Add(float64(bytes))
	}
}

// WriteTextfile writes the registry in the node_exporter textfile format
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
