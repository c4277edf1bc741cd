package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/michaelanot/GameList/internal/catalog"
	"github.com/michaelanot/GameList/internal/view"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Query    string
	Console  string
	Sort     string
	PageSize int
	More     int
}

// ListResult is the JSON payload of the list command.
type ListResult struct {
	Total    int             `json:"total"`
	Revealed int             `json:"revealed"`
	Records  []recordSummary `json:"records"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List games, newest first",
		Long: `List games, newest first.

--query keeps games whose name or console contains the text, ignoring case.
--console keeps one platform. --sort orders by name, console, priceBuy,
priceSell, createdAt or updatedAt, optionally suffixed with :asc or :desc.

One page is shown; --more reveals that many further pages.

Example:
  gamelist list --query mario --sort priceBuy:desc
  gamelist list --console SNES --more 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "filter on name or console")
	cmd.Flags().StringVar(&opts.Console, "console", "", "only show this console")
	cmd.Flags().StringVarP(&opts.Sort, "sort", "s", "", "sort field[:asc|desc]")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", 0, "records per page (default from config)")
	cmd.Flags().IntVar(&opts.More, "more", 0, "number of extra pages to reveal")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.formatter(cmd)

	sort, err := view.ParseSort(opts.Sort)
	if err != nil {
		return NewExitError(ExitCommandError, err.Error())
	}
	if opts.More < 0 {
		return NewExitError(ExitCommandError, "--more must not be negative")
	}
	console := opts.Console
	if console != "" {
		c, err := catalog.ParseConsole(console)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --console", err)
		}
		console = string(c)
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = opts.Config.PageSize
	}

	a, err := openApp(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.close()

	p := view.NewPipeline(a.repo, pageSize)
	defer p.Close()
	p.SetQuery(view.Query{Text: opts.Query, Console: console, Sort: sort})
	for range opts.More {
		p.LoadMore()
	}

	visible := p.Visible()
	if formatter.Format == "json" {
		return formatter.Success(ListResult{
			Total:    p.Total(),
			Revealed: p.Revealed(),
			Records:  summarizeAll(visible),
		})
	}

	if len(visible) == 0 {
		fmt.Fprintln(formatter.Writer, "No games found.")
		return nil
	}
	writeTable(formatter.Writer, visible)
	fmt.Fprintf(formatter.Writer, "\nshowing %d of %d\n", len(visible), p.Total())
	return nil
}
