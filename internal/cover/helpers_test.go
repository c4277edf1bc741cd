package cover

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/michaelanot/GameList/internal/catalog"
	"github.com/michaelanot/GameList/internal/repo"
	"github.com/michaelanot/GameList/internal/store"
	"github.com/michaelanot/GameList/internal/testutil"
)

func createTestRepo(t *testing.T) *repo.Repository {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "games.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return repo.New(st, repo.Options{
		Clock: testutil.NewStepClock(),
		IDs:   testutil.NewSequentialIDs("game"),
	})
}

func seed(t *testing.T, r *repo.Repository, f catalog.Fields) catalog.Record {
	t.Helper()
	ctx := context.Background()
	id, err := r.Create(ctx, f)
	require.NoError(t, err)
	rec, err := r.Get(ctx, id)
	require.NoError(t, err)
	return rec
}

// pngBytes encodes a solid w×h PNG.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		for y := range h {
			img.Set(x, y, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type lookupCall struct {
	Title string
	Lang  string
}

// fakeLookup answers from a table keyed by "lang:title" and records calls.
type fakeLookup struct {
	mu      sync.Mutex
	answers map[string]string
	errs    map[string]error
	calls   []lookupCall
}

func (f *fakeLookup) Thumbnail(_ context.Context, title, lang string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, lookupCall{Title: title, Lang: lang})
	key := lang + ":" + title
	if err := f.errs[key]; err != nil {
		return "", err
	}
	return f.answers[key], nil
}

// fakeFetcher returns a fixed image for every URL it knows.
type fakeFetcher struct {
	mu      sync.Mutex
	images  map[string]*catalog.Image
	err     error
	fetched []string
}

func (f *fakeFetcher) Fetch(_ context.Context, u string) (*catalog.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, u)
	if f.err != nil {
		return nil, f.err
	}
	img, ok := f.images[u]
	if !ok {
		return nil, errNotServed
	}
	return img.Clone(), nil
}

var errNotServed = errors.New("image not served")
