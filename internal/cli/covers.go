package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/michaelanot/GameList/internal/cover"
)

// NewCoversCommand creates the covers command.
func NewCoversCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "covers [id...]",
		Short: "Download missing cover images",
		Long: `Download missing cover images.

Every game without a stored image gets one: a recorded cover URL is
downloaded as is, otherwise the game's name is looked up in the configured
page-summary languages (fr, then en by default). With ids, only those games
are processed.

Example:
  gamelist covers
  gamelist covers 0190a1c2-...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCovers(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runCovers(opts *RootOptions, ids []string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.formatter(cmd)

	a, err := openApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.close()

	svc := a.coverService(opts)

	var rep cover.Report
	if len(ids) == 0 {
		rep, err = svc.FillMissing(ctx)
		if err != nil {
			return reportError(formatter, "cover fill interrupted", err)
		}
	} else {
		for _, id := range ids {
			rec, err := a.repo.Get(ctx, id)
			if err != nil {
				return reportError(formatter, fmt.Sprintf("failed to resolve cover for %s", id), err)
			}
			outcome, err := svc.Resolve(ctx, rec)
			if err != nil {
				a.log.Warn("cover failed", "id", id, "error", err)
			}
			formatter.VerboseLog("%s: %s", id, outcome)
			rep.Count(outcome)
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(rep)
	}
	fmt.Fprintf(formatter.Writer, "done: %d, miss: %d, fail: %d, skipped: %d\n", rep.Done, rep.Miss, rep.Fail, rep.Skipped)
	return nil
}
