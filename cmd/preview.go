package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/letterbox/internal/handlers"
	"github.com/lehigh-university-libraries/letterbox/internal/results"
	"github.com/lehigh-university-libraries/letterbox/internal/storage"
	"github.com/spf13/cobra"
)

func newPreviewCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "preview <results-file>...",
		Short: "Serve saved upload results as web pages",
		Long: `Starts a local web server showing result files written by "letterbox upload --output".

Each file gets its own page with one card per word, linking to the uploaded image.`,
		Example: `  # Preview a single result file on the default port 8888
  letterbox preview results.yaml

  # Preview several files on a custom port
  letterbox preview run1.json run2.parquet --port 3000`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := storage.New()
			for _, path := range args {
				res, err := results.Load(path)
				if err != nil {
					return fmt.Errorf("failed to load %s: %w", path, err)
				}
				set := store.Add(path, res)
				slog.Info("Loaded results", "path", path, "id", set.ID, "words", res.Len())
			}

			handler := handlers.New(store)

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Results preview available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")

	return cmd
}
