package upload

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/letterbox/internal/grouping"
	"github.com/lehigh-university-libraries/letterbox/internal/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Form field names understood by the upload endpoint
const (
	FieldFiles   = "files"
	FieldLetters = "letters"
	FieldPaths   = "paths"
)

// DefaultEndpoint is used when no endpoint is configured
const DefaultEndpoint = "http://localhost:8080/api/upload"

// ResponseFormatHeader tells the endpoint which result shape the client expects
const ResponseFormatHeader = "X-Letterbox-Response-Format"

const (
	maxResponseBytes = 32 << 20
	maxErrorBody     = 512
)

// Opener supplies the bytes uploaded for a file
type Opener interface {
	Open(f models.SelectedFile) (io.ReadCloser, error)
}

type rawOpener struct{}

func (rawOpener) Open(f models.SelectedFile) (io.ReadCloser, error) {
	return f.Open()
}

// Options controls a single submission
type Options struct {
	// Nested adds the parallel "paths" field
	Nested bool

	// ResponseFormat is used to decode legacy bare-array responses
	ResponseFormat models.ResultFormat
}

// Submission is the outcome of a successful upload
type Submission struct {
	RequestID string
	Files     int
	Bytes     int64
	Results   models.Results
}

// Client posts grouped files to the upload endpoint
type Client struct {
	Endpoint   string
	HTTPClient *http.Client
	Opener     Opener

	tracer trace.Tracer
}

// NewClient creates a client for endpoint. A zero timeout means no timeout.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		Endpoint: endpoint,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		Opener: rawOpener{},
		tracer: otel.Tracer("github.com/lehigh-university-libraries/letterbox/internal/upload"),
	}
}

// Submit streams every grouped file to the endpoint in a single multipart
// POST and decodes the response
func (c *Client) Submit(ctx context.Context, groups *grouping.FilesByGroup, opts Options) (*Submission, error) {
	if groups == nil || groups.Total() == 0 {
		return nil, ErrNoEligibleFiles
	}
	if opts.ResponseFormat == "" {
		opts.ResponseFormat = models.FormatGrouped
	}

	tracer := c.tracer
	if tracer == nil {
		tracer = otel.Tracer("github.com/lehigh-university-libraries/letterbox/internal/upload")
	}
	ctx, span := tracer.Start(ctx, "upload.Submit", trace.WithAttributes(
		attribute.String("letterbox.endpoint", c.Endpoint),
		attribute.Int("letterbox.groups", groups.Len()),
		attribute.Int("letterbox.files", groups.Total()),
		attribute.Bool("letterbox.nested", opts.Nested),
	))
	defer span.End()

	sub, err := c.submit(ctx, groups, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int64("letterbox.bytes", sub.Bytes))
	return sub, nil
}

func (c *Client) submit(ctx context.Context, groups *grouping.FilesByGroup, opts Options) (*Submission, error) {
	opener := c.Opener
	if opener == nil {
		opener = rawOpener{}
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	pr, pw := io.Pipe()
	counter := &countingWriter{w: pw}
	mw := multipart.NewWriter(counter)

	go func() {
		pw.CloseWithError(writeForm(mw, groups, opener, opts.Nested))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, pr)
	if err != nil {
		pr.CloseWithError(err)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set(ResponseFormatHeader, string(opts.ResponseFormat))

	slog.Debug("Submitting upload", "endpoint", c.Endpoint, "request_id", requestID, "files", groups.Total(), "groups", groups.Len())

	resp, err := httpClient.Do(req)
	if err != nil {
		pr.CloseWithError(err)
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: truncate(strings.TrimSpace(string(body)), maxErrorBody)}
	}

	results, err := DecodeResults(body, opts.ResponseFormat)
	if err != nil {
		return nil, err
	}

	slog.Debug("Upload response decoded", "request_id", requestID, "format", results.Format, "items", results.Len())

	return &Submission{
		RequestID: requestID,
		Files:     groups.Total(),
		Bytes:     counter.n.Load(),
		Results:   results,
	}, nil
}

// writeForm appends, for every file, its content, its group key and in
// nested mode its relative path
func writeForm(mw *multipart.Writer, groups *grouping.FilesByGroup, opener Opener, nested bool) error {
	for key, files := range groups.All() {
		for _, f := range files {
			if err := writeFilePart(mw, f, opener); err != nil {
				return err
			}
			if err := mw.WriteField(FieldLetters, key); err != nil {
				return fmt.Errorf("failed to write letter field: %w", err)
			}
			if nested {
				if err := mw.WriteField(FieldPaths, f.RelativePath); err != nil {
					return fmt.Errorf("failed to write path field: %w", err)
				}
			}
		}
	}
	return mw.Close()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeFilePart(mw *multipart.Writer, f models.SelectedFile, opener Opener) error {
	src, err := opener.Open(f)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.RelativePath, err)
	}
	defer src.Close()

	contentType := f.MIMEType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(FieldFiles), quoteEscaper.Replace(f.Name)))
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("failed to copy %s: %w", f.RelativePath, err)
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n atomic.Int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n.Add(int64(n))
	return n, err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
