package uploadcmd

import (
	"fmt"
	"time"

	"github.com/lehigh-university-libraries/letterbox/internal/config"
	"github.com/lehigh-university-libraries/letterbox/internal/models"
	"github.com/spf13/cobra"
)

// NewUploadCmd creates the upload command
func NewUploadCmd() *cobra.Command {
	var nested bool
	var endpoint string
	var responseFormat string
	var timeout time.Duration
	var maxDimension uint
	var output string
	var metricsFile string

	cmd := &cobra.Command{
		Use:   "upload <folder>",
		Short: "Group a folder of images by letter and upload them",
		Long: `Upload walks the given folder, groups its files by letter and sends them to
the upload endpoint in a single multipart request, then prints the words the
server associated with each image.

By default only files sitting directly inside the folder are sent, grouped under
the folder's own name. With --nested, images at any depth are grouped under
their immediate parent folder instead.`,
		Example: `  # Upload a folder named "a" of images
  letterbox upload ./a

  # Group images by their parent folder, at any depth
  letterbox upload ./alphabet --nested

  # Scale large images down and keep the results
  letterbox upload ./alphabet --nested --max-dimension 1600 --output results.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("nested") {
				cfg.Nested = nested
			}
			if flags.Changed("endpoint") {
				cfg.Endpoint = endpoint
			}
			if flags.Changed("response-format") {
				format, ok := models.ParseResultFormat(responseFormat)
				if !ok {
					return fmt.Errorf("invalid --response-format %q (flat or grouped)", responseFormat)
				}
				cfg.ResponseFormat = format
			}
			if flags.Changed("timeout") {
				cfg.Timeout = timeout
			}
			if flags.Changed("max-dimension") {
				cfg.MaxDimension = maxDimension
			}

			return executeUpload(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], cfg, output, metricsFile)
		},
	}

	cmd.Flags().BoolVar(&nested, "nested", false, "Group images by their immediate parent folder at any depth")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Upload endpoint URL (default $LETTERBOX_ENDPOINT or http://localhost:8080/api/upload)")
	cmd.Flags().StringVar(&responseFormat, "response-format", "", "Result shape of legacy bare-array responses: flat or grouped (default grouped)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Request timeout, 0 for none (default $LETTERBOX_TIMEOUT or 5m)")
	cmd.Flags().UintVar(&maxDimension, "max-dimension", 0, "Scale JPEG/PNG images so neither side exceeds this many pixels (0 disables)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Save results to a .yaml, .json, .parquet or .html file")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile after the upload")

	return cmd
}

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	var nested bool
	var showFiles bool

	cmd := &cobra.Command{
		Use:   "inspect <folder>",
		Short: "Show how a folder would be grouped without uploading",
		Long: `Inspect walks the folder and prints the letter groups an upload would send,
with file counts and sizes. Nothing is sent to the server.`,
		Example: `  # Preview top-level grouping
  letterbox inspect ./a

  # Preview nested grouping, listing every file
  letterbox inspect ./alphabet --nested --files`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("nested") {
				cfg.Nested = nested
			}
			return executeInspect(cmd.Context(), cmd.OutOrStdout(), args[0], cfg.Nested, showFiles)
		},
	}

	cmd.Flags().BoolVar(&nested, "nested", false, "Group images by their immediate parent folder at any depth")
	cmd.Flags().BoolVar(&showFiles, "files", false, "List every file under its group")

	return cmd
}
