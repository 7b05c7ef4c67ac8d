package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	r := New()

	r.Grouped(false, 3)
	r.Grouped(true, 2)
	r.Attempt(OutcomeSuccess, 150*time.Millisecond, 4096)
	r.Attempt(OutcomeEmpty, 0, 0)

	if got := testutil.ToFloat64(r.FilesGrouped.WithLabelValues("top_level")); got != 3 {
		t.Errorf("Expected 3 top-level files, got %v", got)
	}
	if got := testutil.ToFloat64(r.FilesGrouped.WithLabelValues("nested")); got != 2 {
		t.Errorf("Expected 2 nested files, got %v", got)
	}
	if got := testutil.ToFloat64(r.UploadBytes); got != 4096 {
		t.Errorf("Expected 4096 bytes, got %v", got)
	}
	if got := testutil.CollectAndCount(r.Uploads); got != 2 {
		t.Errorf("Expected 2 outcome series, got %d", got)
	}
	if got := testutil.CollectAndCount(r.UploadDuration); got != 1 {
		t.Errorf("Expected 1 duration series, got %d", got)
	}
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	r.Grouped(true, 1)
	r.Attempt(OutcomeFailure, time.Second, 1)
}

func TestWriteTextfile(t *testing.T) {
	r := New()
	r.Attempt(OutcomeStatusError, time.Second, 10)

	path := filepath.Join(t.TempDir(), "letterbox.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read textfile: %v", err)
	}
	if !strings.Contains(string(data), `letterbox_uploads_total{outcome="status_error"} 1`) {
		t.Errorf("Unexpected textfile:\n%s", data)
	}
}
