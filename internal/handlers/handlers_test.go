package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/letterbox/internal/models"
	"github.com/lehigh-university-libraries/letterbox/internal/storage"
	"github.com/lehigh-university-libraries/letterbox/internal/upload"
)

func setup(t *testing.T) (*httptest.Server, *storage.ResultSet) {
	t.Helper()

	store := storage.New()
	set := store.Add("alphabet.yaml", models.Results{
		Format:  models.FormatGrouped,
		Grouped: []models.LetterWords{{Letter: "A", Words: []models.Word{{Word: "Apple", ImageURL: "/a.png"}}}},
	})

	srv := httptest.NewServer(New(store).Routes())
	t.Cleanup(srv.Close)
	return srv, set
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	return resp, string(body)
}

func TestIndexAndHealthcheck(t *testing.T) {
	srv, set := setup(t)

	resp, body := get(t, srv.URL+"/")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "/results/"+set.ID) {
		t.Errorf("Unexpected index (%d): %s", resp.StatusCode, body)
	}

	resp, body = get(t, srv.URL+"/healthcheck")
	if resp.StatusCode != http.StatusOK || body != "OK" {
		t.Errorf("Unexpected healthcheck (%d): %s", resp.StatusCode, body)
	}
}

func TestResultDetail(t *testing.T) {
	srv, set := setup(t)

	resp, body := get(t, srv.URL+"/api/results/"+set.ID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	res, err := upload.DecodeResults([]byte(body), models.FormatFlat)
	if err != nil {
		t.Fatalf("Detail is not a valid envelope: %v", err)
	}
	if res.Format != models.FormatGrouped || res.Len() != 1 {
		t.Errorf("Unexpected results: %+v", res)
	}

	resp, _ = get(t, srv.URL+"/api/results/missing")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", resp.StatusCode)
	}
}

func TestResultListAndDelete(t *testing.T) {
	srv, set := setup(t)

	_, body := get(t, srv.URL+"/api/results")
	var sets []storage.ResultSet
	if err := json.Unmarshal([]byte(body), &sets); err != nil {
		t.Fatalf("Invalid list: %v", err)
	}
	if len(sets) != 1 || sets[0].ID != set.ID {
		t.Fatalf("Unexpected list: %+v", sets)
	}

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/results/"+set.ID, nil)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", resp.StatusCode)
	}

	resp, _ = get(t, srv.URL+"/results/"+set.ID)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected deleted set to 404, got %d", resp.StatusCode)
	}
}

func TestResultPage(t *testing.T) {
	srv, set := setup(t)

	resp, body := get(t, srv.URL+"/results/"+set.ID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "<h2>Letter A</h2>") || !strings.Contains(body, "Apple") {
		t.Errorf("Unexpected page: %s", body)
	}
}

func TestResultPageRenderFailure(t *testing.T) {
	store := storage.New()
	set := store.Add("alphabet.yaml", models.Results{Format: models.FormatFlat})

	h := New(store)
	h.render = func(w io.Writer, title string, res models.Results) error {
		_, _ = io.WriteString(w, "<html><body>partial")
		return errors.New("template exploded")
	}

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/results/"+set.ID, nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "partial") {
		t.Errorf("Partial page leaked into the error response: %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); strings.HasPrefix(ct, "text/html") {
		t.Errorf("Expected plain-text error, got Content-Type %q", ct)
	}
}
