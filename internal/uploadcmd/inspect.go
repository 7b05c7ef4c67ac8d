package uploadcmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/lehigh-university-libraries/letterbox/internal/grouping"
	"github.com/lehigh-university-libraries/letterbox/internal/selection"
)

func executeInspect(ctx context.Context, out io.Writer, folder string, nested bool, showFiles bool) error {
	sel, err := selection.Walk(ctx, folder)
	if err != nil {
		return err
	}

	mode := "top-level"
	if nested {
		mode = "nested"
	}

	fmt.Fprintf(out, "Folder:   %s\n", selection.FolderName(sel.Files))
	fmt.Fprintf(out, "Mode:     %s\n", mode)
	fmt.Fprintf(out, "Selected: %d files\n", len(sel.Files))

	groups, err := grouping.Group(sel.Files, grouping.Options{Nested: nested})
	if err != nil {
		return fmt.Errorf("nothing to inspect: %w", err)
	}

	fmt.Fprintf(out, "Eligible: %d files in %d groups (%s)\n",
		groups.Total(), groups.Len(), humanize.Bytes(uint64(groups.TotalSize())))
	fmt.Fprintf(out, "Skipped:  %d files\n", len(sel.Files)-groups.Total())
	fmt.Fprintln(out, strings.Repeat("=", 60))

	for key, files := range groups.All() {
		var size int64
		for _, f := range files {
			size += f.Size
		}
		fmt.Fprintf(out, "%-12s %5d files  %10s\n", key, len(files), humanize.Bytes(uint64(size)))

		if showFiles {
			for _, f := range files {
				fmt.Fprintf(out, "    %s  (%s, %s)\n", f.RelativePath, f.MIMEType, humanize.Bytes(uint64(f.Size)))
			}
		}
	}

	return nil
}
