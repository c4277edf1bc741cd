package cover

import (
	"context"
	"log/slog"
	"strings"

	"github.com/michaelanot/GameList/internal/catalog"
)

// DefaultLanguages are tried in order for every candidate title.
var DefaultLanguages = []string{"fr", "en"}

// Outcome is the result of resolving one record.
type Outcome int

const (
	// OutcomeSkipped: the record already has local artwork.
	OutcomeSkipped Outcome = iota
	// OutcomeMaterialized: artwork downloaded and stored, URL cleared.
	OutcomeMaterialized
	// OutcomeNoCandidate: nothing to download. The record is unchanged.
	OutcomeNoCandidate
	// OutcomeFetchFailed: lookup, download or store failed. The record is
	// unchanged.
	OutcomeFetchFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeMaterialized:
		return "materialized"
	case OutcomeNoCandidate:
		return "no-candidate"
	case OutcomeFetchFailed:
		return "fetch-failed"
	default:
		return "unknown"
	}
}

// Repository is the subset of *repo.Repository the service needs.
type Repository interface {
	Snapshot() []catalog.Record
	Update(ctx context.Context, id string, patch catalog.Patch) error
}

// Fetcher downloads an image. *Downloader satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*catalog.Image, error)
}

// Options configures a Service.
type Options struct {
	// Languages in lookup order. Empty selects DefaultLanguages.
	Languages []string
	Logger    *slog.Logger
}

// Report counts the outcomes of a FillMissing run.
type Report struct {
	Done    int `json:"done"`
	Miss    int `json:"miss"`
	Fail    int `json:"fail"`
	Skipped int `json:"skipped"`
}

// Count adds one outcome to the report.
func (r *Report) Count(o Outcome) {
	switch o {
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeMaterialized:
		r.Done++
	case OutcomeNoCandidate:
		r.Miss++
	case OutcomeFetchFailed:
		r.Fail++
	}
}

// Service materializes cover art into records.
//
// It only ever adds artwork: a record with a local image is never touched,
// so running it twice on a fully covered collection changes nothing.
type Service struct {
	repo   Repository
	lookup Lookup
	fetch  Fetcher
	langs  []string
	log    *slog.Logger
}

// NewService wires a service.
func NewService(repo Repository, lookup Lookup, fetch Fetcher, opts Options) *Service {
	s := &Service{
		repo:   repo,
		lookup: lookup,
		fetch:  fetch,
		langs:  opts.Languages,
		log:    opts.Logger,
	}
	if len(s.langs) == 0 {
		s.langs = DefaultLanguages
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// candidateTitles returns the name as typed, then without accents when that
// differs.
func candidateTitles(name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	titles := []string{name}
	if plain := catalog.StripAccents(name); plain != name {
		titles = append(titles, plain)
	}
	return titles
}

// BestCoverURL tries every candidate title in every language and returns
// the first thumbnail found.
//
// Lookup errors do not stop the search. When nothing is found and at least
// one lookup failed, the last error is returned so the caller can tell a
// network problem from a genuine miss.
func (s *Service) BestCoverURL(ctx context.Context, name string) (string, error) {
	var lastErr error
	for _, title := range candidateTitles(name) {
		for _, lang := range s.langs {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			u, err := s.lookup.Thumbnail(ctx, title, lang)
			if err != nil {
				s.log.Debug("cover lookup failed", "title", title, "lang", lang, "error", err)
				lastErr = err
				continue
			}
			if u != "" {
				return u, nil
			}
		}
	}
	return "", lastErr
}

// Resolve materializes artwork for one record. A recorded URL is downloaded
// as is; otherwise the name is looked up.
func (s *Service) Resolve(ctx context.Context, rec catalog.Record) (Outcome, error) {
	if rec.HasLocalArtwork() {
		return OutcomeSkipped, nil
	}

	u := strings.TrimSpace(rec.JacketURL)
	if u == "" {
		var err error
		u, err = s.BestCoverURL(ctx, rec.Name)
		if err != nil {
			return OutcomeFetchFailed, err
		}
		if u == "" {
			return OutcomeNoCandidate, nil
		}
	}

	img, err := s.fetch.Fetch(ctx, u)
	if err != nil {
		return OutcomeFetchFailed, err
	}

	err = s.repo.Update(ctx, rec.ID, catalog.Patch{
		Jacket:    catalog.Set(img),
		JacketURL: catalog.Set(""),
	})
	if err != nil {
		return OutcomeFetchFailed, err
	}
	return OutcomeMaterialized, nil
}

// FillMissing resolves every record of the current snapshot. A failing
// record is counted and the walk continues; only a cancelled context stops
// it early, returning the counts so far.
func (s *Service) FillMissing(ctx context.Context) (Report, error) {
	var rep Report
	for _, rec := range s.repo.Snapshot() {
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		outcome, err := s.Resolve(ctx, rec)
		switch outcome {
		case OutcomeMaterialized:
			s.log.Info("cover stored", "id", rec.ID, "name", rec.Name)
		case OutcomeNoCandidate:
			s.log.Debug("no cover found", "id", rec.ID, "name", rec.Name)
		case OutcomeFetchFailed:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return rep, ctxErr
			}
			s.log.Warn("cover failed", "id", rec.ID, "name", rec.Name, "error", err)
		}
		rep.Count(outcome)
	}
	s.log.Info("cover fill finished", "done", rep.Done, "miss", rep.Miss, "fail", rep.Fail, "skipped", rep.Skipped)
	return rep, nil
}
