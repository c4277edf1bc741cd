package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRemoveCommand creates the rm command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"remove"},
		Short:   "Remove games from the collection",
		Long: `Remove games from the collection.

Removing an id that does not exist is not an error.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runRemove(opts *RootOptions, ids []string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.formatter(cmd)

	a, err := openApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.close()

	for _, id := range ids {
		if err := a.repo.Remove(ctx, id); err != nil {
			return reportError(formatter, fmt.Sprintf("failed to remove %s", id), err)
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]any{"removed": ids})
	}
	for _, id := range ids {
		fmt.Fprintf(formatter.Writer, "Removed %s\n", id)
	}
	return nil
}
