package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/letterbox/internal/models"
	"github.com/lehigh-university-libraries/letterbox/internal/ui"
	"github.com/lehigh-university-libraries/letterbox/internal/upload"
)

// Meta describes the upload that produced a result set
type Meta struct {
	Endpoint  string
	Folder    string
	Nested    bool
	RequestID string
	Timestamp time.Time
}

// Save writes results to path, choosing the format from its extension
func Save(path string, meta Meta, res models.Results) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return saveYAML(path, meta, res)
	case ".json":
		return saveJSON(path, res)
	case ".parquet":
		return saveParquet(path, res)
	case ".html", ".htm":
		return saveHTML(path, meta, res)
	default:
		return fmt.Errorf("unsupported output format: %s (supported: .yaml, .json, .parquet, .html)", ext)
	}
}

// Load reads a result set previously written by Save
func Load(path string) (models.Results, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return loadYAML(path)
	case ".json":
		return loadJSON(path)
	case ".parquet":
		return loadParquet(path)
	default:
		return models.Results{}, fmt.Errorf("unsupported results file: %s (supported: .yaml, .json, .parquet)", ext)
	}
}

func saveJSON(path string, res models.Results) error {
	env, err := upload.NewEnvelope(res)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	return nil
}

func loadJSON(path string) (models.Results, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Results{}, fmt.Errorf("failed to read results file: %w", err)
	}
	return upload.DecodeResults(data, models.FormatGrouped)
}

func saveHTML(path string, meta Meta, res models.Results) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create HTML file: %w", err)
	}
	defer f.Close()

	title := "Upload results"
	if meta.Folder != "" {
		title = "Upload results for " + meta.Folder
	}
	if err := ui.RenderHTML(f, title, res); err != nil {
		return err
	}
	return f.Close()
}
