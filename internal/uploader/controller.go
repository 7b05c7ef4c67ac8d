package uploader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lehigh-university-libraries/letterbox/internal/grouping"
	"github.com/lehigh-university-libraries/letterbox/internal/metrics"
	"github.com/lehigh-university-libraries/letterbox/internal/models"
	"github.com/lehigh-university-libraries/letterbox/internal/selection"
	"github.com/lehigh-university-libraries/letterbox/internal/ui"
	"github.com/lehigh-university-libraries/letterbox/internal/upload"
)

// ErrUploadInProgress is returned when Upload is invoked while another
// upload has not finished
var ErrUploadInProgress = errors.New("an upload is already in progress")

// Alert messages shown to the user
const (
	AlertEmptySelection = "Please select a folder"
	AlertNoEligible     = "No eligible images were found in the selected folder"
	AlertGeneric        = "An error occurred while uploading images"
)

// Submitter sends grouped files to the upload endpoint
type Submitter interface {
	Submit(ctx context.Context, groups *grouping.FilesByGroup, opts upload.Options) (*upload.Submission, error)
}

// Options configures the controller
type Options struct {
	Nested         bool
	ResponseFormat models.ResultFormat
}

// Controller wires folder selection, grouping, submission and rendering
// together over an injected UI state
type Controller struct {
	state     *ui.State
	submitter Submitter
	opts      Options
	metrics   *metrics.Recorder

	inFlight sync.Mutex
}

// New creates a controller. rec may be nil.
func New(state *ui.State, submitter Submitter, opts Options, rec *metrics.Recorder) *Controller {
	return &Controller{
		state:     state,
		submitter: submitter,
		opts:      opts,
		metrics:   rec,
	}
}

// SelectFolder displays the chosen folder's name and returns it
func (c *Controller) SelectFolder(files []models.SelectedFile) string {
	name := selection.FolderName(files)
	c.state.FolderName.SetText(name)
	return name
}

// Upload groups files, submits them and renders the response. Only one
// upload runs at a time; the trigger is disabled while it does.
func (c *Controller) Upload(ctx context.Context, files []models.SelectedFile) (*upload.Submission, error) {
	if !c.inFlight.TryLock() {
		c.metrics.Attempt(metrics.OutcomeBusy, 0, 0)
		return nil, ErrUploadInProgress
	}
	defer c.inFlight.Unlock()

	c.state.Trigger.SetEnabled(false)
	defer c.state.Trigger.SetEnabled(true)

	groups, err := grouping.Group(files, grouping.Options{Nested: c.opts.Nested})
	if err != nil {
		c.state.Alerts.Alert(AlertEmptySelection)
		c.metrics.Attempt(metrics.OutcomeEmpty, 0, 0)
		return nil, err
	}

	c.metrics.Grouped(c.opts.Nested, groups.Total())
	slog.Info("Grouped files", "groups", groups.Len(), "files", groups.Total(), "nested", c.opts.Nested)

	if groups.Total() == 0 {
		c.state.Alerts.Alert(AlertNoEligible)
		c.metrics.Attempt(metrics.OutcomeNoEligible, 0, 0)
		return nil, upload.ErrNoEligibleFiles
	}

	c.state.Progress.Show(groups.Total(), groups.TotalSize())

	start := time.Now()
	sub, err := c.submitter.Submit(ctx, groups, upload.Options{
		Nested:         c.opts.Nested,
		ResponseFormat: c.opts.ResponseFormat,
	})
	elapsed := time.Since(start)

	c.state.Progress.Hide()

	if err != nil {
		slog.Error("Upload failed", "error", err, "files", groups.Total())
		c.state.Alerts.Alert(AlertFor(err))
		c.metrics.Attempt(outcomeFor(err), elapsed, 0)
		return nil, err
	}

	c.state.Results.Clear()
	c.state.Results.Render(sub.Results)

	c.metrics.Attempt(metrics.OutcomeSuccess, elapsed, sub.Bytes)
	slog.Info("Upload complete", "request_id", sub.RequestID, "files", sub.Files, "results", sub.Results.Len(), "elapsed", elapsed)

	return sub, nil
}

// AlertFor picks the user-facing message for a failed submission
func AlertFor(err error) string {
	var statusErr *upload.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("The server rejected the upload (status %d)", statusErr.Code)
	}
	return AlertGeneric
}

func outcomeFor(err error) string {
	var statusErr *upload.StatusError
	var decodeErr *upload.DecodeError
	switch {
	case errors.As(err, &statusErr):
		return metrics.OutcomeStatusError
	case errors.As(err, &decodeErr), errors.Is(err, upload.ErrUnsupportedResponse):
		return metrics.OutcomeDecodeError
	default:
		return metrics.OutcomeFailure
	}
}
