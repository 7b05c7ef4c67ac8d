package grouping

import (
	"errors"
	"iter"
	"strings"

	"github.com/lehigh-university-libraries/letterbox/internal/models"
)

// ErrEmptySelection is returned when no files were selected at all
var ErrEmptySelection = errors.New("no files selected")

// Options controls how files are bucketed
type Options struct {
	// Nested buckets images by their immediate parent folder at any depth.
	// Otherwise only direct children of the selected folder are accepted.
	Nested bool
}

// FilesByGroup maps group keys to files, remembering first-occurrence order
// of keys and encounter order of files within a key
type FilesByGroup struct {
	order  []string
	groups map[string][]models.SelectedFile
}

// New returns an empty map
func New() *FilesByGroup {
	return &FilesByGroup{groups: make(map[string][]models.SelectedFile)}
}

// Add appends a file under key
func (g *FilesByGroup) Add(key string, f models.SelectedFile) {
	if _, ok := g.groups[key]; !ok {
		g.order = append(g.order, key)
	}
	g.groups[key] = append(g.groups[key], f)
}

// Keys returns group keys in first-occurrence order
func (g *FilesByGroup) Keys() []string {
	return append([]string(nil), g.order...)
}

// Files returns the files under key
func (g *FilesByGroup) Files(key string) []models.SelectedFile {
	return g.groups[key]
}

// Len returns the number of groups
func (g *FilesByGroup) Len() int {
	return len(g.order)
}

// Total returns the number of files across all groups
func (g *FilesByGroup) Total() int {
	n := 0
	for _, files := range g.groups {
		n += len(files)
	}
	return n
}

// TotalSize returns the summed size of every grouped file in bytes
func (g *FilesByGroup) TotalSize() int64 {
	var n int64
	for _, files := range g.groups {
		for _, f := range files {
			n += f.Size
		}
	}
	return n
}

// All iterates groups in key order
func (g *FilesByGroup) All() iter.Seq2[string, []models.SelectedFile] {
	return func(yield func(string, []models.SelectedFile) bool) {
		for _, key := range g.order {
			if !yield(key, g.groups[key]) {
				return
			}
		}
	}
}

// Key derives the group key for a file. ok is false when the file is not
// eligible under opts.
func Key(f models.SelectedFile, opts Options) (key string, ok bool) {
	parts := f.Segments()

	if opts.Nested {
		if !f.IsImage() || len(parts) < 2 {
			return "", false
		}
		return strings.ToUpper(parts[len(parts)-2]), true
	}

	if len(parts) != 2 {
		return "", false
	}
	return strings.ToUpper(parts[0]), true
}

// Group buckets files by their derived key
func Group(files []models.SelectedFile, opts Options) (*FilesByGroup, error) {
	if len(files) == 0 {
		return nil, ErrEmptySelection
	}

	groups := New()
	for _, f := range files {
		if key, ok := Key(f, opts); ok {
			groups.Add(key, f)
		}
	}
	return groups, nil
}
