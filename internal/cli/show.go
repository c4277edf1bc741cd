package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runShow(opts *RootOptions, id string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.formatter(cmd)

	a, err := openApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.close()

	rec, err := a.repo.Get(ctx, id)
	if err != nil {
		return reportError(formatter, fmt.Sprintf("failed to show %s", id), err)
	}

	summary := summarize(rec)
	if formatter.Format == "json" {
		return formatter.Success(summary)
	}
	writeRecord(formatter.Writer, summary)
	return nil
}
