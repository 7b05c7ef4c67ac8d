package models

import (
	"io"
	"os"
	"strings"
)

// SelectedFile represents a file picked from the local folder
type SelectedFile struct {
	RelativePath string `json:"relative_path"` // "topFolder/.../name.ext", always slash separated
	Name         string `json:"name"`
	MIMEType     string `json:"mime_type"`
	Size         int64  `json:"size"`
	LocalPath    string `json:"-"`
}

// Segments splits the relative path into its folder and file components
func (f SelectedFile) Segments() []string {
	return strings.Split(f.RelativePath, "/")
}

// IsImage reports whether the file carries an image MIME type
func (f SelectedFile) IsImage() bool {
	return strings.HasPrefix(f.MIMEType, "image/")
}

// Open opens the file content for reading
func (f SelectedFile) Open() (io.ReadCloser, error) {
	return os.Open(f.LocalPath)
}

// ResultFormat names the shape of an upload response
type ResultFormat string

const (
	FormatFlat    ResultFormat = "flat"
	FormatGrouped ResultFormat = "grouped"
)

// ParseResultFormat validates a format name
func ParseResultFormat(s string) (ResultFormat, bool) {
	switch ResultFormat(strings.ToLower(strings.TrimSpace(s))) {
	case FormatFlat:
		return FormatFlat, true
	case FormatGrouped:
		return FormatGrouped, true
	}
	return "", false
}

// ResultItem is one letter/word/image association in the flat contract
type ResultItem struct {
	Letter   string `json:"letter" yaml:"letter"`
	Word     string `json:"word" yaml:"word"`
	ImageURL string `json:"imageUrl" yaml:"imageurl"`
}

// Word is a word/image pair inside a letter group
type Word struct {
	Word     string `json:"word" yaml:"word"`
	ImageURL string `json:"imageUrl" yaml:"imageurl"`
}

// LetterWords is one letter group in the grouped contract
type LetterWords struct {
	Letter string `json:"letter" yaml:"letter"`
	Words  []Word `json:"words" yaml:"words"`
}

// Results holds a decoded upload response. Exactly one of Flat or Grouped is
// meaningful, selected by Format.
type Results struct {
	Format  ResultFormat  `json:"format" yaml:"format"`
	Flat    []ResultItem  `json:"flat,omitempty" yaml:"flat,omitempty"`
	Grouped []LetterWords `json:"grouped,omitempty" yaml:"grouped,omitempty"`
}

// Len returns the number of word/image pairs in the results
func (r Results) Len() int {
	if r.Format == FormatFlat {
		return len(r.Flat)
	}
	n := 0
	for _, g := range r.Grouped {
		n += len(g.Words)
	}
	return n
}

// Items flattens the results into letter/word/image rows
func (r Results) Items() []ResultItem {
	if r.Format == FormatFlat {
		return r.Flat
	}
	items := make([]ResultItem, 0, r.Len())
	for _, g := range r.Grouped {
		for _, w := range g.Words {
			items = append(items, ResultItem{Letter: g.Letter, Word: w.Word, ImageURL: w.ImageURL})
		}
	}
	return items
}
