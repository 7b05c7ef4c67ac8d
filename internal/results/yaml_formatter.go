package results

import (
	"fmt"
	"os"
	"time"

	"github.com/lehigh-university-libraries/letterbox/internal/models"
	"gopkg.in/yaml.v3"
)

// UploadConfig represents the configuration section of the results YAML
type UploadConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Folder    string `yaml:"folder,omitempty"`
	Mode      string `yaml:"mode"`
	RequestID string `yaml:"requestid,omitempty"`
	Timestamp string `yaml:"timestamp"`
}

// UploadRecord represents the complete results file
type UploadRecord struct {
	Config  UploadConfig   `yaml:"config"`
	Results models.Results `yaml:"results"`
}

func saveYAML(path string, meta Meta, res models.Results) error {
	mode := "top-level"
	if meta.Nested {
		mode = "nested"
	}

	timestamp := meta.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	record := UploadRecord{
		Config: UploadConfig{
			Endpoint:  meta.Endpoint,
			Folder:    meta.Folder,
			Mode:      mode,
			RequestID: meta.RequestID,
			Timestamp: timestamp.Format("2006-01-02_15-04-05"),
		},
		Results: res,
	}

	data, err := yaml.Marshal(&record)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}

	return nil
}

func loadYAML(path string) (models.Results, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Results{}, fmt.Errorf("failed to read results file: %w", err)
	}

	var record UploadRecord
	if err := yaml.Unmarshal(data, &record); err != nil {
		return models.Results{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if _, ok := models.ParseResultFormat(string(record.Results.Format)); !ok {
		return models.Results{}, fmt.Errorf("results file %s has unknown format %q", path, record.Results.Format)
	}

	return record.Results, nil
}
