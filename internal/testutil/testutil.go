package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// UploadPath is where the fake endpoint listens
const UploadPath = "/api/upload"

// ReceivedFile is one "files" part seen by the fake endpoint
type ReceivedFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Received is one request seen by the fake endpoint
type Received struct {
	Header  http.Header
	Files   []ReceivedFile
	Letters []string
	Paths   []string
}

// UploadServer is a fake upload endpoint that records every request and
// answers with a fixed status and body
type UploadServer struct {
	Server *httptest.Server

	mu       sync.Mutex
	status   int
	body     string
	requests []Received
}

// NewUploadServer starts a fake endpoint closed at the end of the test
func NewUploadServer(t *testing.T, status int, body string) *UploadServer {
	t.Helper()

	s := &UploadServer{status: status, body: body}

	r := chi.NewRouter()
	r.Post(UploadPath, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		rec := Received{
			Header:  r.Header.Clone(),
			Letters: r.MultipartForm.Value["letters"],
			Paths:   r.MultipartForm.Value["paths"],
		}
		for _, fh := range r.MultipartForm.File["files"] {
			f, err := fh.Open()
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			content, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			rec.Files = append(rec.Files, ReceivedFile{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Content:     content,
			})
		}

		s.mu.Lock()
		s.requests = append(s.requests, rec)
		status, body := s.status, s.body
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Server.Close)

	return s
}

// Endpoint returns the full upload URL
func (s *UploadServer) Endpoint() string {
	return s.Server.URL + UploadPath
}

// Requests returns every request received so far
func (s *UploadServer) Requests() []Received {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Received(nil), s.requests...)
}

// WriteFile creates a file under dir, making parent folders as needed
func WriteFile(t *testing.T, dir, rel string, content []byte) string {
	t.Helper()

	p := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatalf("Failed to create folder: %v", err)
	}
	if err := os.WriteFile(p, content, 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	return p
}

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

// PNG encodes a w by h test image
func PNG(t *testing.T, w, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(w, h)); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

// JPEG encodes a w by h test image
func JPEG(t *testing.T, w, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, testImage(w, h), nil); err != nil {
		t.Fatalf("Failed to encode JPEG: %v", err)
	}
	return buf.Bytes()
}
