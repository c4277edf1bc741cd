package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Output string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole collection as a JSON document",
		Long: `Write the whole collection as a single JSON array, newest first.

Stored cover images are embedded as data URLs, so the document can be
imported elsewhere without any other file. Without -o the document is
written to stdout as is, whatever --format says.

Example:
  gamelist export -o backup.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write to file instead of stdout")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.formatter(cmd)

	a, err := openApp(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.close()

	if opts.Output == "" {
		if err := a.repo.ExportAll(ctx, formatter.Writer); err != nil {
			return reportError(formatter, "failed to export collection", err)
		}
		return nil
	}

	data, err := a.repo.ExportJSON(ctx)
	if err != nil {
		return reportError(formatter, "failed to export collection", err)
	}
	if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
		return reportError(formatter, "failed to write export", err)
	}

	count := len(a.repo.Snapshot())
	if formatter.Format == "json" {
		return formatter.Success(map[string]any{"path": opts.Output, "records": count})
	}
	fmt.Fprintf(formatter.Writer, "Exported %d record(s) to %s\n", count, opts.Output)
	return nil
}
