package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// ImportSummary is the JSON payload of the import command.
type ImportSummary struct {
	OK     int      `json:"ok"`
	Fail   int      `json:"fail"`
	Errors []string `json:"errors,omitempty"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file|url>",
		Short: "Merge a JSON document into the collection",
		Long: `Merge a JSON document into the collection.

The source is a local file or an http(s) URL serving a document in the
export format. Records are upserted by id; elements without an id get a
new one. Each element is applied on its own: a rejected element is counted
and the import moves on.

Example:
  gamelist import backup.json
  gamelist import https://example.com/collection.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runImport(opts *RootOptions, source string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.formatter(cmd)

	src, err := openSource(ctx, opts, source)
	if err != nil {
		return reportError(formatter, "failed to read import source", err)
	}
	defer src.Close()

	a, err := openApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.close()

	res, err := a.repo.ImportReader(ctx, src)
	if err != nil {
		return reportError(formatter, "failed to import "+source, err)
	}

	summary := ImportSummary{OK: res.OK, Fail: res.Fail}
	for _, itemErr := range res.Errors {
		summary.Errors = append(summary.Errors, itemErr.Error())
		formatter.VerboseLog("%v", itemErr)
	}

	if formatter.Format == "json" {
		return formatter.Success(summary)
	}
	fmt.Fprintf(formatter.Writer, "ok: %d, fail: %d\n", res.OK, res.Fail)
	return nil
}

// openSource opens a local file or starts a GET for an http(s) URL.
func openSource(ctx context.Context, opts *RootOptions, source string) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", source, err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if ua := opts.Config.Cover.UserAgent; ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	resp, err := opts.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", source, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %d", source, resp.StatusCode)
	}
	return resp.Body, nil
}
