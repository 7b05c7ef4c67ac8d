package selection

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/lehigh-university-libraries/letterbox/internal/models"
)

// NoFolderSelected is displayed when a selection holds no files
const NoFolderSelected = "No folder selected"

// Selection is the set of files found under a chosen folder
type Selection struct {
	Root  string
	Files []models.SelectedFile
}

// Walk collects every regular file under root. Relative paths start with the
// root folder's own name, so "photos/a/cat.png" for a root of ./photos.
func Walk(ctx context.Context, root string) (*Selection, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve folder: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to stat folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a folder", root)
	}

	// WalkDir does not descend into a symlinked root
	walkRoot, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve folder: %w", err)
	}
	top := filepath.Base(abs)
	sel := &Selection{Root: abs}

	err = filepath.WalkDir(walkRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		// Skip hidden entries below the root, as OS folder pickers do
		if p != walkRoot && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", p, err)
		}

		rel, err := filepath.Rel(walkRoot, p)
		if err != nil {
			return fmt.Errorf("failed to relativize %s: %w", p, err)
		}

		sel.Files = append(sel.Files, models.SelectedFile{
			RelativePath: path.Join(top, filepath.ToSlash(rel)),
			Name:         d.Name(),
			MIMEType:     DetectMIMEType(p),
			Size:         fi.Size(),
			LocalPath:    p,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk folder: %w", err)
	}

	slog.Debug("Walked folder", "root", abs, "files", len(sel.Files))

	return sel, nil
}

// DetectMIMEType sniffs the file content, falling back to the extension when
// the content is not recognized
func DetectMIMEType(p string) string {
	mtype, err := mimetype.DetectFile(p)
	if err == nil && !mtype.Is("application/octet-stream") {
		return baseType(mtype.String())
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(p))); byExt != "" {
		return baseType(byExt)
	}
	return "application/octet-stream"
}

func baseType(t string) string {
	if mediaType, _, err := mime.ParseMediaType(t); err == nil {
		return mediaType
	}
	return t
}

// FolderName returns the top-level folder of the first file, or
// NoFolderSelected when there are no files
func FolderName(files []models.SelectedFile) string {
	if len(files) == 0 {
		return NoFolderSelected
	}
	top, _, _ := strings.Cut(path.Clean(files[0].RelativePath), "/")
	if top == "" || top == "." {
		return NoFolderSelected
	}
	return top
}
