package results

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/lehigh-university-libraries/letterbox/internal/models"
)

func grouped() models.Results {
	return models.Results{
		Format: models.FormatGrouped,
		Grouped: []models.LetterWords{
			{Letter: "B", Words: []models.Word{{Word: "Bee", ImageURL: "/b/bee.png"}}},
			{Letter: "A", Words: []models.Word{{Word: "Apple", ImageURL: "/a/apple.png"}, {Word: "Ant", ImageURL: "/a/ant.png"}}},
		},
	}
}

func flat() models.Results {
	return models.Results{
		Format: models.FormatFlat,
		Flat: []models.ResultItem{
			{Letter: "A", Word: "apple", ImageURL: "/img/1.png"},
			{Letter: "B", Word: "bee", ImageURL: "/img/2.png"},
		},
	}
}

func TestSaveLoad(t *testing.T) {
	meta := Meta{Endpoint: "http://localhost:8080/api/upload", Folder: "alphabet", Nested: true, Timestamp: time.Now()}

	for _, ext := range []string{".yaml", ".json", ".parquet"} {
		for name, res := range map[string]models.Results{"grouped": grouped(), "flat": flat()} {
			t.Run(name+ext, func(t *testing.T) {
				path := filepath.Join(t.TempDir(), "out", "results"+ext)

				if err := Save(path, meta, res); err != nil {
					t.Fatalf("Save failed: %v", err)
				}

				got, err := Load(path)
				if err != nil {
					t.Fatalf("Load failed: %v", err)
				}
				if !reflect.DeepEqual(got, res) {
					t.Errorf("Expected %+v, got %+v", res, got)
				}
			})
		}
	}
}

func TestSaveYAMLConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.yaml")
	meta := Meta{Endpoint: "http://example.test/api/upload", Folder: "alphabet", RequestID: "req-1"}

	if err := Save(path, meta, grouped()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	for _, want := range []string{"endpoint: http://example.test/api/upload", "mode: top-level", "requestid: req-1", "format: grouped"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Expected YAML to contain %q:\n%s", want, data)
		}
	}
}

func TestSaveHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.html")

	if err := Save(path, Meta{Folder: "alphabet"}, grouped()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	page := string(data)
	if !strings.Contains(page, "Upload results for alphabet") || !strings.Contains(page, "<h2>Letter B</h2>") {
		t.Errorf("Unexpected page:\n%s", page)
	}
}

func TestUnsupportedExtensions(t *testing.T) {
	dir := t.TempDir()

	if err := Save(filepath.Join(dir, "results.csv"), Meta{}, flat()); err == nil {
		t.Error("Expected Save to reject .csv")
	}
	if _, err := Load(filepath.Join(dir, "results.html")); err == nil {
		t.Error("Expected Load to reject .html")
	}
}

func TestFromRowsRegroups(t *testing.T) {
	rows := []Row{
		{Format: "grouped", Letter: "C", Word: "Cat", ImageURL: "/c1"},
		{Format: "grouped", Letter: "A", Word: "Ant", ImageURL: "/a1"},
		{Format: "grouped", Letter: "C", Word: "Cow", ImageURL: "/c2"},
	}

	res, err := fromRows(rows)
	if err != nil {
		t.Fatalf("fromRows failed: %v", err)
	}
	if len(res.Grouped) != 2 || res.Grouped[0].Letter != "C" || len(res.Grouped[0].Words) != 2 {
		t.Errorf("Unexpected regrouping: %+v", res.Grouped)
	}

	if _, err := fromRows([]Row{{Format: "tree"}}); err == nil {
		t.Error("Expected error for unknown format")
	}
}
