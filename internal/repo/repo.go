// Package repo mediates every read and write of the game collection.
//
// The Repository wraps a Store and keeps an observable snapshot of all
// records, newest first. Each mutation writes through the store and then
// refreshes the snapshot. The snapshot is replaced wholesale on every
// refresh; it is never mutated in place.
package repo

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/michaelanot/GameList/internal/catalog"
	"github.com/michaelanot/GameList/internal/observe"
)

// Store is the persistence contract the repository needs.
// *store.Store satisfies it.
type Store interface {
	Add(ctx context.Context, rec catalog.Record) error
	Put(ctx context.Context, rec catalog.Record) error
	Get(ctx context.Context, id string) (catalog.Record, error)
	Update(ctx context.Context, id string, patch catalog.Patch) error
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]catalog.Record, error)
}

// Options configures a Repository. Zero values select production defaults.
type Options struct {
	// Clock stamps CreatedAt/UpdatedAt. Defaults to catalog.NewWallClock().
	Clock catalog.Clock

	// IDs generates record ids. Defaults to catalog.UUIDv7Generator.
	IDs catalog.IDGenerator

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// CompactExport disables indentation of exported documents.
	CompactExport bool
}

// Repository is the single entry point to the collection.
//
// Thread-safety: all methods are safe for concurrent use. Overlapping
// refreshes complete in any order; the published snapshot is whichever
// finished last.
type Repository struct {
	store   Store
	clock   catalog.Clock
	ids     catalog.IDGenerator
	log     *slog.Logger
	compact bool

	list    *observe.Value[[]catalog.Record]
	loading *observe.Value[bool]

	mu       sync.Mutex
	inflight int
}

// New creates a repository over st. The snapshot starts empty; call Refresh
// to load it.
func New(st Store, opts Options) *Repository {
	if opts.Clock == nil {
		opts.Clock = catalog.NewWallClock()
	}
	if opts.IDs == nil {
		opts.IDs = catalog.UUIDv7Generator{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Repository{
		store:   st,
		clock:   opts.Clock,
		ids:     opts.IDs,
		log:     opts.Logger,
		compact: opts.CompactExport,
		list:    observe.NewValue([]catalog.Record{}),
		loading: observe.NewValue(false),
	}
}

// Snapshot returns the most recently published record list, newest first.
// The slice is shared: callers must not modify it.
func (r *Repository) Snapshot() []catalog.Record {
	return r.list.Get()
}

// Subscribe registers fn to receive every new snapshot.
func (r *Repository) Subscribe(fn func([]catalog.Record)) (unsubscribe func()) {
	return r.list.Subscribe(fn)
}

// Loading reports whether at least one refresh is in flight.
func (r *Repository) Loading() bool {
	return r.loading.Get()
}

// SubscribeLoading registers fn to receive loading flag changes.
func (r *Repository) SubscribeLoading(fn func(bool)) (unsubscribe func()) {
	return r.loading.Subscribe(fn)
}

// Refresh reloads every record from the store and publishes the result.
// The loading flag is raised for the duration of the call and is always
// lowered again, even when the store fails.
func (r *Repository) Refresh(ctx context.Context) error {
	r.beginLoading()
	defer r.endLoading()

	all, err := r.store.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	r.list.Set(all)
	r.log.Debug("snapshot refreshed", "records", len(all))
	return nil
}

func (r *Repository) beginLoading() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inflight++
	if r.inflight == 1 {
		r.loading.Set(true)
	}
}

func (r *Repository) endLoading() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inflight--
	if r.inflight == 0 {
		r.loading.Set(false)
	}
}

// Create stamps a fresh id and timestamps onto f, stores it and refreshes
// the snapshot. Returns the new id.
//
// A store failure (including catalog.ErrDuplicateID) is returned as is.
// If only the refresh fails, the id is returned together with the error.
func (r *Repository) Create(ctx context.Context, f catalog.Fields) (string, error) {
	now := r.clock.Now()
	rec := catalog.Record{
		ID:        r.ids.NewID(),
		Fields:    f,
		CreatedAt: now,
		UpdatedAt: now,
	}
	rec.Jacket = f.Jacket.Clone()

	if err := r.store.Add(ctx, rec); err != nil {
		return "", fmt.Errorf("create record: %w", err)
	}
	r.log.Info("record created", "id", rec.ID, "name", rec.Name, "console", rec.Console)

	if err := r.Refresh(ctx); err != nil {
		return rec.ID, err
	}
	return rec.ID, nil
}

// Get returns the stored record, or catalog.ErrNotFound.
func (r *Repository) Get(ctx context.Context, id string) (catalog.Record, error) {
	return r.store.Get(ctx, id)
}

// Update applies patch to the record with a fresh UpdatedAt and refreshes
// the snapshot. Returns catalog.ErrNotFound if the id does not exist.
func (r *Repository) Update(ctx context.Context, id string, patch catalog.Patch) error {
	patch.UpdatedAt = catalog.Set(r.clock.Now())

	if err := r.store.Update(ctx, id, patch); err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	r.log.Info("record updated", "id", id)

	return r.Refresh(ctx)
}

// Remove deletes the record and refreshes the snapshot. Removing a missing
// id is not an error.
func (r *Repository) Remove(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("remove record: %w", err)
	}
	r.log.Info("record removed", "id", id)

	return r.Refresh(ctx)
}
