package view

import (
	"sync"

	"github.com/michaelanot/GameList/internal/catalog"
	"github.com/michaelanot/GameList/internal/observe"
)

// Source publishes record snapshots. *repo.Repository satisfies it.
type Source interface {
	Snapshot() []catalog.Record
	Subscribe(fn func([]catalog.Record)) (unsubscribe func())
}

// Pipeline keeps the visible listing in sync with a Source and with the
// consumer's query and reveal window.
//
// The window k starts at one page. LoadMore grows it by a page, capped at
// the number of matching records. Changing the text, console or sort resets
// it to one page. A new snapshot keeps the current k.
//
// Thread-safety: All methods are safe for concurrent use. Changes are
// published in the order they were applied, so Visible always matches the
// latest Query. OnChange listeners run outside the state lock but inside the
// publish order and must not call setters synchronously.
type Pipeline struct {
	pubMu sync.Mutex // orders recompute and publish

	mu       sync.Mutex
	pageSize int
	query    Query
	k        int
	snapshot []catalog.Record
	sorted   []catalog.Record

	visible     *observe.Value[[]catalog.Record]
	unsubscribe func()
}

// NewPipeline derives the first view from src.Snapshot() and follows every
// later snapshot until Close. A non-positive pageSize selects
// DefaultPageSize.
func NewPipeline(src Source, pageSize int) *Pipeline {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	p := &Pipeline{
		pageSize: pageSize,
		k:        pageSize,
		snapshot: src.Snapshot(),
		visible:  observe.NewValue([]catalog.Record{}),
	}
	p.visible.Set(p.update(func() {}))
	p.unsubscribe = src.Subscribe(func(records []catalog.Record) {
		p.publish(func() { p.snapshot = records })
	})
	return p
}

// SetText changes the free-text filter and resets the window.
func (p *Pipeline) SetText(text string) {
	p.publish(func() {
		p.query.Text = text
		p.k = p.pageSize
	})
}

// SetConsole changes the console filter and resets the window.
func (p *Pipeline) SetConsole(console string) {
	p.publish(func() {
		p.query.Console = console
		p.k = p.pageSize
	})
}

// SetSort changes the sort and resets the window.
func (p *Pipeline) SetSort(spec SortSpec) {
	p.publish(func() {
		p.query.Sort = spec
		p.k = p.pageSize
	})
}

// SetQuery replaces the whole query and resets the window.
func (p *Pipeline) SetQuery(q Query) {
	p.publish(func() {
		p.query = q
		p.k = p.pageSize
	})
}

// LoadMore reveals one more page when records remain hidden and returns the
// number of revealed records.
func (p *Pipeline) LoadMore() int {
	var revealed int
	p.publish(func() {
		if p.k < len(p.sorted) {
			p.k = min(p.k+p.pageSize, len(p.sorted))
		}
		revealed = clampWindow(p.k, len(p.sorted))
	})
	return revealed
}

// Query returns the current query.
func (p *Pipeline) Query() Query {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

// PageSize returns the window increment.
func (p *Pipeline) PageSize() int {
	return p.pageSize
}

// Visible returns the currently revealed records.
func (p *Pipeline) Visible() []catalog.Record {
	return p.visible.Get()
}

// Total returns the number of records matching the query.
func (p *Pipeline) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sorted)
}

// Revealed returns the size of the visible window.
func (p *Pipeline) Revealed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return clampWindow(p.k, len(p.sorted))
}

// HasMore reports whether LoadMore would reveal anything.
func (p *Pipeline) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.k < len(p.sorted)
}

// OnChange registers fn to receive the visible records after every change.
func (p *Pipeline) OnChange(fn func([]catalog.Record)) (unsubscribe func()) {
	return p.visible.Subscribe(fn)
}

// Close stops following the source. The last view stays readable.
func (p *Pipeline) Close() {
	p.mu.Lock()
	unsub := p.unsubscribe
	p.unsubscribe = nil
	p.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (p *Pipeline) publish(mutate func()) {
	p.pubMu.Lock()
	defer p.pubMu.Unlock()
	p.visible.Set(p.update(mutate))
}

// update applies mutate and recomputes the derived state under the lock.
func (p *Pipeline) update(mutate func()) []catalog.Record {
	p.mu.Lock()
	defer p.mu.Unlock()
	mutate()
	p.sorted = Sort(Filter(p.snapshot, p.query), p.query.Sort)
	return Window(p.sorted, p.k)
}
