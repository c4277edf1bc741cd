package cli

import (
	"fmt"
	"mime"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/michaelanot/GameList/internal/catalog"
	"github.com/michaelanot/GameList/internal/editor"
	"github.com/michaelanot/GameList/internal/preview"
)

// EntryOptions holds the field flags shared by add and edit.
type EntryOptions struct {
	*RootOptions
	Name       string
	Console    string
	PriceBuy   string
	PriceSell  string
	URL        string
	Image      string
	ClearImage bool
}

func (opts *EntryOptions) registerFlags(cmd *cobra.Command, withClear bool) {
	cmd.Flags().StringVar(&opts.Name, "name", "", "game title")
	cmd.Flags().StringVar(&opts.Console, "console", "", fmt.Sprintf("platform, one of %v", catalog.Consoles))
	cmd.Flags().StringVar(&opts.PriceBuy, "buy", "", "purchase price (empty for none)")
	cmd.Flags().StringVar(&opts.PriceSell, "sell", "", "resale price (empty for none)")
	cmd.Flags().StringVar(&opts.URL, "url", "", "remote cover URL")
	cmd.Flags().StringVar(&opts.Image, "image", "", "local cover image file")
	if withClear {
		cmd.Flags().BoolVar(&opts.ClearImage, "clear-image", false, "remove the cover")
		cmd.MarkFlagsMutuallyExclusive("url", "image", "clear-image")
		return
	}
	cmd.MarkFlagsMutuallyExclusive("url", "image")
}

// apply copies every flag the user set onto e. Unset flags leave the
// corresponding field untouched.
func (opts *EntryOptions) apply(cmd *cobra.Command, e *editor.Editor) error {
	changed := cmd.Flags().Changed

	if changed("name") {
		e.SetName(opts.Name)
	}
	if changed("console") {
		e.SetConsole(opts.Console)
	}
	if changed("buy") {
		p, err := parsePrice("buy", opts.PriceBuy)
		if err != nil {
			return err
		}
		e.SetPriceBuy(p)
	}
	if changed("sell") {
		p, err := parsePrice("sell", opts.PriceSell)
		if err != nil {
			return err
		}
		e.SetPriceSell(p)
	}

	switch {
	case changed("clear-image") && opts.ClearImage:
		e.ClearImage()
	case changed("image"):
		img, err := readImage(opts.Image)
		if err != nil {
			return err
		}
		e.SetImage(img)
	case changed("url"):
		if err := e.SetMode(editor.ModeURL); err != nil {
			return err
		}
		e.SetURL(opts.URL)
	}
	return nil
}

func parsePrice(flag, s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.NullDecimal{}, WrapExitError(ExitFailure, fmt.Sprintf("invalid --%s price %q", flag, s), err)
	}
	return decimal.NewNullDecimal(d), nil
}

// readImage loads a cover from disk, sniffing its MIME type from content.
func readImage(path string) (*catalog.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to read image", err)
	}
	mt, _, _ := mime.ParseMediaType(mimetype.Detect(data).String())
	if !strings.HasPrefix(mt, "image/") {
		return nil, NewExitError(ExitFailure, fmt.Sprintf("%s is not an image (%s)", path, mt))
	}
	return &catalog.Image{MIME: mt, Data: data}, nil
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EntryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a game to the collection",
		Long: `Add a game to the collection.

Name and console are required. The cover is either a local image file
(--image) or a remote URL (--url), never both.

Example:
  gamelist add --name "Super Metroid" --console SNES --buy 25.50
  gamelist add --name Zelda --console nes --url https://example.com/zelda.jpg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(opts, cmd)
		},
	}
	opts.registerFlags(cmd, false)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("console")

	return cmd
}

func runAdd(opts *EntryOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.formatter(cmd)

	a, err := openApp(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.close()

	previews := preview.NewRegistry()
	e := editor.NewCreate(a.repo, previews)
	defer e.Close()
	if err := opts.apply(cmd, e); err != nil {
		return reportError(formatter, "invalid entry", err)
	}

	if console, err := catalog.ParseConsole(opts.Console); err == nil {
		dups, err := a.store.FindByNameConsole(ctx, opts.Name, console)
		if err != nil {
			return reportError(formatter, "failed to check for duplicates", err)
		}
		if len(dups) > 0 {
			a.log.Warn("a game with this name and console already exists", "name", strings.TrimSpace(opts.Name), "console", console, "id", dups[0].ID)
		}
	}

	id, err := e.Submit(ctx)
	if err != nil {
		return reportError(formatter, "failed to add game", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]string{"id": id})
	}
	fmt.Fprintf(formatter.Writer, "Created %s\n", id)
	return nil
}

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EntryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a game",
		Long: `Change fields of a game. Only the flags given are changed.

Switching the cover to --url drops a stored image; --image drops a URL;
--clear-image drops both.

Example:
  gamelist edit 0190a1c2-... --sell 60
  gamelist edit 0190a1c2-... --image ./box.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(opts, args[0], cmd)
		},
	}
	opts.registerFlags(cmd, true)

	return cmd
}

func runEdit(opts *EntryOptions, id string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.formatter(cmd)

	a, err := openApp(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.close()

	e, err := editor.Open(ctx, a.repo, preview.NewRegistry(), id)
	if err != nil {
		return reportError(formatter, "failed to edit game", err)
	}
	defer e.Close()
	if err := opts.apply(cmd, e); err != nil {
		return reportError(formatter, "invalid entry", err)
	}

	if _, err := e.Submit(ctx); err != nil {
		return reportError(formatter, "failed to edit game", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]string{"id": id})
	}
	fmt.Fprintf(formatter.Writer, "Updated %s\n", id)
	return nil
}
