package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/michaelanot/GameList/internal/catalog"
)

// NewConsolesCommand creates the consoles command.
func NewConsolesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "consoles",
		Short: "List the supported consoles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)
			if formatter.Format == "json" {
				return formatter.Success(catalog.Consoles)
			}
			for _, c := range catalog.Consoles {
				fmt.Fprintln(formatter.Writer, c)
			}
			return nil
		},
	}
}
