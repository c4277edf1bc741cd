// Package editor assembles a single entry for creation or update.
//
// An Editor tracks which fields the user touched, keeps the binary and URL
// artwork representations mutually exclusive and owns one preview handle
// for the image being shown. The handle is released on every exit path:
// a successful Submit, Cancel and Close.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/michaelanot/GameList/internal/catalog"
	"github.com/michaelanot/GameList/internal/preview"
)

// ErrClosed is returned when an editor is used after Submit, Cancel or Close.
var ErrClosed = errors.New("editor closed")

// Repository is the subset of *repo.Repository the editor writes through.
type Repository interface {
	Get(ctx context.Context, id string) (catalog.Record, error)
	Create(ctx context.Context, f catalog.Fields) (string, error)
	Update(ctx context.Context, id string, patch catalog.Patch) error
}

// Mode selects which artwork representation is active.
type Mode string

const (
	ModeImage Mode = "image"
	ModeURL   Mode = "url"
)

type field int

const (
	fieldName field = iota
	fieldConsole
	fieldPriceBuy
	fieldPriceSell
	fieldArtwork
)

// Editor is not safe for concurrent use.
type Editor struct {
	repo Repository
	slot *preview.Slot

	id      string
	form    Form
	mode    Mode
	touched map[field]bool

	// newJacket is an image picked in this session; removeJacket records
	// an explicit clear.
	newJacket    *catalog.Image
	removeJacket bool

	closed bool
}

// NewCreate starts an editor for a new entry.
func NewCreate(repo Repository, previews *preview.Registry) *Editor {
	return &Editor{
		repo:    repo,
		slot:    preview.NewSlot(previews),
		mode:    ModeImage,
		touched: make(map[field]bool),
	}
}

// Open loads record id for editing. A missing id returns an error wrapping
// catalog.ErrNotFound.
func Open(ctx context.Context, repo Repository, previews *preview.Registry, id string) (*Editor, error) {
	rec, err := repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("open editor: %w", err)
	}

	e := NewCreate(repo, previews)
	e.id = rec.ID
	e.form = Form{
		Name:      rec.Name,
		Console:   string(rec.Console),
		PriceBuy:  rec.PriceBuy,
		PriceSell: rec.PriceSell,
		Jacket:    rec.Jacket.Clone(),
		JacketURL: rec.JacketURL,
	}
	if rec.Jacket == nil && rec.JacketURL != "" {
		e.mode = ModeURL
	} else {
		e.slot.Show(rec.Jacket)
	}
	return e, nil
}

// IsEdit reports whether the editor updates an existing record.
func (e *Editor) IsEdit() bool {
	return e.id != ""
}

// ID returns the edited record id, or "" for a new entry.
func (e *Editor) ID() string {
	return e.id
}

// Form returns the current field values.
func (e *Editor) Form() Form {
	return e.form
}

// Mode returns the active artwork mode.
func (e *Editor) Mode() Mode {
	return e.mode
}

// Preview returns what should be displayed for the artwork: a preview
// handle in image mode, the URL in URL mode, or "".
func (e *Editor) Preview() string {
	if e.mode == ModeURL {
		return strings.TrimSpace(e.form.JacketURL)
	}
	return e.slot.Handle()
}

func (e *Editor) SetName(name string) {
	e.form.Name = name
	e.touched[fieldName] = true
}

func (e *Editor) SetConsole(console string) {
	e.form.Console = console
	e.touched[fieldConsole] = true
}

func (e *Editor) SetPriceBuy(p decimal.NullDecimal) {
	e.form.PriceBuy = p
	e.touched[fieldPriceBuy] = true
}

func (e *Editor) SetPriceSell(p decimal.NullDecimal) {
	e.form.PriceSell = p
	e.touched[fieldPriceSell] = true
}

// SetMode switches the artwork representation. The deselected one is
// nulled when the entry is saved.
func (e *Editor) SetMode(m Mode) error {
	if m != ModeImage && m != ModeURL {
		return fmt.Errorf("unknown artwork mode %q", m)
	}
	e.mode = m
	e.touched[fieldArtwork] = true

	if m == ModeImage {
		img := e.newJacket
		if img == nil && !e.removeJacket {
			img = e.form.Jacket
		}
		e.slot.Show(img)
		return nil
	}
	e.newJacket = nil
	e.removeJacket = false
	e.slot.Clear()
	return nil
}

// SetImage picks img as the artwork and switches to image mode. A URL held
// in the form is kept so that switching back to URL mode restores it.
func (e *Editor) SetImage(img *catalog.Image) {
	if img == nil {
		e.ClearImage()
		return
	}
	e.mode = ModeImage
	e.newJacket = img.Clone()
	e.removeJacket = false
	e.touched[fieldArtwork] = true
	e.slot.Show(e.newJacket)
}

// SetURL sets the remote artwork URL. It only takes effect in URL mode.
func (e *Editor) SetURL(url string) {
	e.form.JacketURL = url
	e.touched[fieldArtwork] = true
}

// ClearImage drops the artwork: the saved entry has neither an image nor
// a URL.
func (e *Editor) ClearImage() {
	e.newJacket = nil
	e.removeJacket = true
	e.form.JacketURL = ""
	e.touched[fieldArtwork] = true
	e.slot.Clear()
}

// Validate checks the entry as it would be saved.
func (e *Editor) Validate() error {
	return e.pending().Validate()
}

// pending is the form with the inactive artwork representation removed.
func (e *Editor) pending() Form {
	f := e.form
	f.Name = strings.TrimSpace(f.Name)
	f.JacketURL = strings.TrimSpace(f.JacketURL)

	switch {
	case e.mode == ModeURL:
		f.Jacket = nil
	case e.removeJacket:
		f.Jacket = nil
		f.JacketURL = ""
	default:
		if e.newJacket != nil {
			f.Jacket = e.newJacket
		}
		f.JacketURL = ""
	}
	return f
}

// Submit validates the entry and writes it through the repository.
// Returns the id of the created or edited record. On success the preview
// is released and the editor is closed; on failure it stays usable.
func (e *Editor) Submit(ctx context.Context) (string, error) {
	if e.closed {
		return "", ErrClosed
	}
	f := e.pending()
	if err := f.Validate(); err != nil {
		return "", err
	}
	console, err := catalog.ParseConsole(f.Console)
	if err != nil {
		return "", err
	}

	id := e.id
	if e.IsEdit() {
		patch := e.patch(f, console)
		if !patch.IsEmpty() {
			if err := e.repo.Update(ctx, e.id, patch); err != nil {
				return "", err
			}
		}
	} else {
		id, err = e.repo.Create(ctx, catalog.Fields{
			Name:      f.Name,
			Console:   console,
			Jacket:    f.Jacket,
			JacketURL: f.JacketURL,
			PriceBuy:  f.PriceBuy,
			PriceSell: f.PriceSell,
		})
		if err != nil {
			return "", err
		}
	}

	e.Close()
	return id, nil
}

// patch assembles the update from the touched fields only.
func (e *Editor) patch(f Form, console catalog.Console) catalog.Patch {
	var p catalog.Patch
	if e.touched[fieldName] {
		p.Name = catalog.Set(f.Name)
	}
	if e.touched[fieldConsole] {
		p.Console = catalog.Set(console)
	}
	if e.touched[fieldPriceBuy] {
		p.PriceBuy = catalog.Set(f.PriceBuy)
	}
	if e.touched[fieldPriceSell] {
		p.PriceSell = catalog.Set(f.PriceSell)
	}
	if !e.touched[fieldArtwork] {
		return p
	}

	switch {
	case e.mode == ModeURL:
		p.Jacket = catalog.Set[*catalog.Image](nil)
		p.JacketURL = catalog.Set(f.JacketURL)
	case e.removeJacket:
		p.Jacket = catalog.Set[*catalog.Image](nil)
		p.JacketURL = catalog.Set("")
	case e.newJacket != nil:
		p.Jacket = catalog.Set(e.newJacket)
		p.JacketURL = catalog.Set("")
	default:
		p.JacketURL = catalog.Set("")
	}
	return p
}

// Cancel abandons the entry and releases the preview.
func (e *Editor) Cancel() {
	e.Close()
}

// Close releases the preview. It is safe to call more than once.
func (e *Editor) Close() {
	e.slot.Clear()
	e.closed = true
}
