package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/lehigh-university-libraries/letterbox/internal/uploadcmd"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var logLevel string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "letterbox",
		Short: "Upload folders of alphabet images grouped by letter",
		Long: `Letterbox groups a folder of images by letter and uploads them to the
alphabet game's upload endpoint, then shows the word associated with each image.

Settings can come from flags, the environment or a .env file:
  LETTERBOX_ENDPOINT, LETTERBOX_NESTED, LETTERBOX_RESPONSE_FORMAT,
  LETTERBOX_TIMEOUT, LETTERBOX_MAX_DIMENSION`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			if verbose {
				logLevel = "debug"
			}
			level, err := parseLevel(logLevel)
			if err != nil {
				return err
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose logging (same as --log-level debug)")

	// Add subcommands
	cmd.AddCommand(uploadcmd.NewUploadCmd())
	cmd.AddCommand(uploadcmd.NewInspectCmd())
	cmd.AddCommand(newPreviewCmd())

	return cmd
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid --log-level %q", s)
	}
}
