package upload

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/lehigh-university-libraries/letterbox/internal/grouping"
	"github.com/lehigh-university-libraries/letterbox/internal/models"
	"github.com/lehigh-university-libraries/letterbox/internal/testutil"
)

const groupedBody = `[{"letter":"A","words":[{"word":"Apple","imageUrl":"/img/a.png"}]}]`

func selectedFile(t *testing.T, dir, rel, mimeType string, content []byte) models.SelectedFile {
	t.Helper()
	p := testutil.WriteFile(t, dir, rel, content)
	return models.SelectedFile{
		RelativePath: rel,
		Name:         filepath.Base(rel),
		MIMEType:     mimeType,
		Size:         int64(len(content)),
		LocalPath:    p,
	}
}

func TestSubmitSendsEveryFileOnce(t *testing.T) {
	srv := testutil.NewUploadServer(t, http.StatusOK, groupedBody)
	dir := t.TempDir()

	groups := grouping.New()
	groups.Add("B", selectedFile(t, dir, "root/b/bee.png", "image/png", []byte("bee")))
	groups.Add("A", selectedFile(t, dir, "root/a/ant.png", "image/png", []byte("ant")))
	groups.Add("B", selectedFile(t, dir, "root/b/bat.jpg", "image/jpeg", []byte("bat")))

	client := NewClient(srv.Endpoint(), 5*time.Second)
	sub, err := client.Submit(context.Background(), groups, Options{Nested: true})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	reqs := srv.Requests()
	if len(reqs) != 1 {
		t.Fatalf("Expected 1 request, got %d", len(reqs))
	}
	req := reqs[0]

	var names []string
	for _, f := range req.Files {
		names = append(names, f.Filename)
	}
	if want := []string{"bee.png", "bat.jpg", "ant.png"}; !reflect.DeepEqual(names, want) {
		t.Errorf("Expected files %v, got %v", want, names)
	}
	if want := []string{"B", "B", "A"}; !reflect.DeepEqual(req.Letters, want) {
		t.Errorf("Expected letters %v, got %v", want, req.Letters)
	}
	if want := []string{"root/b/bee.png", "root/b/bat.jpg", "root/a/ant.png"}; !reflect.DeepEqual(req.Paths, want) {
		t.Errorf("Expected paths %v, got %v", want, req.Paths)
	}
	if !bytes.Equal(req.Files[1].Content, []byte("bat")) {
		t.Errorf("Unexpected content %q", req.Files[1].Content)
	}
	if req.Files[1].ContentType != "image/jpeg" {
		t.Errorf("Expected image/jpeg, got %s", req.Files[1].ContentType)
	}

	if req.Header.Get("X-Request-ID") != sub.RequestID || sub.RequestID == "" {
		t.Errorf("Request ID mismatch: header %q, submission %q", req.Header.Get("X-Request-ID"), sub.RequestID)
	}
	if req.Header.Get(ResponseFormatHeader) != string(models.FormatGrouped) {
		t.Errorf("Expected grouped format header, got %q", req.Header.Get(ResponseFormatHeader))
	}

	if sub.Files != 3 {
		t.Errorf("Expected 3 files, got %d", sub.Files)
	}
	if sub.Results.Format != models.FormatGrouped || len(sub.Results.Grouped) != 1 {
		t.Errorf("Unexpected results: %+v", sub.Results)
	}
}

func TestSubmitTopLevelOmitsPaths(t *testing.T) {
	srv := testutil.NewUploadServer(t, http.StatusOK, groupedBody)
	dir := t.TempDir()

	groups := grouping.New()
	groups.Add("A", selectedFile(t, dir, "a/apple.png", "image/png", []byte("apple")))

	client := NewClient(srv.Endpoint(), 0)
	if _, err := client.Submit(context.Background(), groups, Options{}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	req := srv.Requests()[0]
	if len(req.Paths) != 0 {
		t.Errorf("Expected no paths, got %v", req.Paths)
	}
	if want := []string{"A"}; !reflect.DeepEqual(req.Letters, want) {
		t.Errorf("Expected letters %v, got %v", want, req.Letters)
	}
}

func TestSubmitStatusError(t *testing.T) {
	// A JSON body on an error status must not be treated as success
	srv := testutil.NewUploadServer(t, http.StatusInternalServerError, groupedBody)
	dir := t.TempDir()

	groups := grouping.New()
	groups.Add("A", selectedFile(t, dir, "a/apple.png", "image/png", []byte("apple")))

	_, err := NewClient(srv.Endpoint(), 0).Submit(context.Background(), groups, Options{})

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected StatusError, got %v", err)
	}
	if statusErr.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", statusErr.Code)
	}
}

func TestSubmitDecodeError(t *testing.T) {
	srv := testutil.NewUploadServer(t, http.StatusOK, "<html>oops</html>")
	dir := t.TempDir()

	groups := grouping.New()
	groups.Add("A", selectedFile(t, dir, "a/apple.png", "image/png", []byte("apple")))

	_, err := NewClient(srv.Endpoint(), 0).Submit(context.Background(), groups, Options{})

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("Expected DecodeError, got %v", err)
	}
}

func TestSubmitNoEligibleFiles(t *testing.T) {
	client := NewClient("http://127.0.0.1:1/api/upload", 0)

	if _, err := client.Submit(context.Background(), grouping.New(), Options{}); !errors.Is(err, ErrNoEligibleFiles) {
		t.Fatalf("Expected ErrNoEligibleFiles, got %v", err)
	}
}

func TestSubmitMissingFile(t *testing.T) {
	srv := testutil.NewUploadServer(t, http.StatusOK, groupedBody)

	groups := grouping.New()
	groups.Add("A", models.SelectedFile{
		RelativePath: "a/gone.png",
		Name:         "gone.png",
		MIMEType:     "image/png",
		LocalPath:    filepath.Join(t.TempDir(), "gone.png"),
	})

	if _, err := NewClient(srv.Endpoint(), 0).Submit(context.Background(), groups, Options{}); err == nil {
		t.Fatal("Expected error for unreadable file")
	}
}
