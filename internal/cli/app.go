package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/michaelanot/GameList/internal/catalog"
	"github.com/michaelanot/GameList/internal/cover"
	"github.com/michaelanot/GameList/internal/editor"
	"github.com/michaelanot/GameList/internal/repo"
	"github.com/michaelanot/GameList/internal/store"
)

// app is the wired collection a command operates on.
type app struct {
	store *store.Store
	repo  *repo.Repository
	log   *slog.Logger
}

// openApp opens the configured database and loads the snapshot.
func openApp(ctx context.Context, opts *RootOptions) (*app, error) {
	path := opts.Config.Database
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to create database directory", err)
		}
	}

	opts.Logger.Debug("opening database", "path", path)
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	r := repo.New(st, repo.Options{
		Clock:         opts.Clock,
		IDs:           opts.IDs,
		Logger:        opts.Logger,
		CompactExport: !opts.Config.Export.Indent,
	})
	if err := r.Refresh(ctx); err != nil {
		_ = st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to load collection", err)
	}
	return &app{store: st, repo: r, log: opts.Logger}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.Error("error closing database", "error", err)
	}
}

// httpClient returns the shared client for lookups, downloads and remote
// imports.
func (opts *RootOptions) httpClient() *http.Client {
	if opts.HTTPClient != nil {
		return opts.HTTPClient
	}
	return &http.Client{Timeout: opts.Config.Cover.Timeout}
}

// coverService wires the cover service from the configuration.
func (a *app) coverService(opts *RootOptions) *cover.Service {
	c := opts.Config.Cover
	client := opts.httpClient()

	lookup := cover.NewWikiClient(cover.ClientOptions{
		SummaryURL:        c.SummaryURL,
		UserAgent:         c.UserAgent,
		RequestsPerSecond: c.RequestsPerSecond,
		HTTPClient:        client,
		Logger:            a.log,
	})
	downloader := cover.NewDownloader(cover.DownloadOptions{
		UserAgent:  c.UserAgent,
		MaxBytes:   c.MaxBytes,
		MaxWidth:   c.MaxWidth,
		HTTPClient: client,
		Logger:     a.log,
	})
	return cover.NewService(a.repo, lookup, downloader, cover.Options{
		Languages: c.Languages,
		Logger:    a.log,
	})
}

// reportError prints err in JSON mode and returns it as an *ExitError.
func reportError(f *OutputFormatter, message string, err error) error {
	exitErr := classify(message, err)
	if f.Format == "json" {
		var details any
		var ve *editor.ValidationError
		if errors.As(err, &ve) {
			details = ve.Fields()
		}
		_ = f.Error(errorCode(err), exitErr.Error(), details)
	}
	return exitErr
}

func errorCode(err error) string {
	var ve *editor.ValidationError
	switch {
	case errors.As(err, &ve):
		return ErrCodeValidation
	case errors.Is(err, catalog.ErrNotFound):
		return ErrCodeNotFound
	case errors.Is(err, repo.ErrNotArray):
		return ErrCodeBadInput
	default:
		return ErrCodeGeneric
	}
}

// classify maps domain errors onto exit codes.
func classify(message string, err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	var ve *editor.ValidationError
	if errors.As(err, &ve) || errors.Is(err, catalog.ErrNotFound) || errors.Is(err, repo.ErrNotArray) {
		return WrapExitError(ExitFailure, message, err)
	}
	return WrapExitError(ExitCommandError, message, err)
}
