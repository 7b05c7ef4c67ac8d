package uploadcmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lehigh-university-libraries/letterbox/internal/config"
	"github.com/lehigh-university-libraries/letterbox/internal/images"
	"github.com/lehigh-university-libraries/letterbox/internal/metrics"
	"github.com/lehigh-university-libraries/letterbox/internal/results"
	"github.com/lehigh-university-libraries/letterbox/internal/selection"
	"github.com/lehigh-university-libraries/letterbox/internal/ui"
	"github.com/lehigh-university-libraries/letterbox/internal/upload"
	"github.com/lehigh-university-libraries/letterbox/internal/uploader"
)

func executeUpload(ctx context.Context, out, errOut io.Writer, folder string, cfg *config.Config, output, metricsFile string) error {
	slog.Info("Starting upload", "folder", folder, "endpoint", cfg.Endpoint, "nested", cfg.Nested)

	sel, err := selection.Walk(ctx, folder)
	if err != nil {
		return err
	}

	client := upload.NewClient(cfg.Endpoint, cfg.Timeout)
	if cfg.MaxDimension > 0 {
		client.Opener = images.NewResizer(cfg.MaxDimension)
	}

	term := ui.NewTerminal(out, errOut, styledOutput(out))
	rec := metrics.New()
	ctrl := uploader.New(term.State(), client, uploader.Options{
		Nested:         cfg.Nested,
		ResponseFormat: cfg.ResponseFormat,
	}, rec)

	folderName := ctrl.SelectFolder(sel.Files)
	sub, uploadErr := ctrl.Upload(ctx, sel.Files)

	if metricsFile != "" {
		if err := rec.WriteTextfile(metricsFile); err != nil {
			slog.Error("Unable to write metrics", "path", metricsFile, "error", err)
		}
	}

	if uploadErr != nil {
		return uploadErr
	}

	if output != "" {
		meta := results.Meta{
			Endpoint:  cfg.Endpoint,
			Folder:    folderName,
			Nested:    cfg.Nested,
			RequestID: sub.RequestID,
			Timestamp: time.Now(),
		}
		if err := results.Save(output, meta, sub.Results); err != nil {
			return err
		}
		absPath, _ := filepath.Abs(output)
		fmt.Fprintf(out, "\nResults saved to: %s\n", absPath)
	}

	return nil
}

// styledOutput reports whether w is a terminal that accepts colors
func styledOutput(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
