// Package autocomplete drives the location suggestion box: it debounces
// keystrokes, queries the geocoding collaborator and tracks keyboard
// navigation over the result list. It is rendering-agnostic; a UI layer
// feeds it events and reads its state back after each one.
package autocomplete

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/openwifimap/backend-api-go/geocode"
	log "github.com/openwifimap/backend-api-go/pkg/logger"
	"go.uber.org/zap"
)

const (
	debounceDelay = 500 * time.Millisecond
	minQueryChars = 2
	maxResults    = 10
)

// Searcher is the geocoding collaborator. *geocode.Client satisfies it.
type Searcher interface {
	Search(ctx context.Context, query string) ([]geocode.Location, error)
}

// noSelection means the list is open without a highlighted row.
const noSelection = -1

// Box holds the suggestion state for one input field.
//
// Every lookup carries a sequence number taken when the keystroke arrived.
// A response is dropped unless its number still matches the latest issued
// one, so a slow early response can never overwrite a newer query's results.
type Box struct {
	mu       sync.Mutex
	searcher Searcher
	onSelect func(geocode.Location)
	delay    time.Duration

	query    string
	results  []geocode.Location
	open     bool
	selected int
	loading  bool

	seq   uint64
	timer *time.Timer
}

// New builds a Box. onSelect fires once per committed suggestion and may
// be nil.
func New(searcher Searcher, onSelect func(geocode.Location)) *Box {
	return &Box{
		searcher: searcher,
		onSelect: onSelect,
		delay:    debounceDelay,
		selected: noSelection,
	}
}

// SetQuery records a keystroke. It restarts the debounce timer; only the
// final pending timer issues a lookup. Queries of 2 or fewer trimmed
// characters clear the results and close the list without a request.
func (b *Box) SetQuery(query string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.query = query
	b.seq++
	if b.timer != nil {
		b.timer.Stop()
	}

	if utf8.RuneCountInString(strings.TrimSpace(query)) <= minQueryChars {
		b.results = nil
		b.open = false
		b.selected = noSelection
		b.loading = false
		return
	}

	seq := b.seq
	b.loading = true
	b.timer = time.AfterFunc(b.delay, func() {
		b.search(seq, query)
	})
}

func (b *Box) search(seq uint64, query string) {
	results, err := b.searcher.Search(context.Background(), query)

	b.mu.Lock()
	defer b.mu.Unlock()

	if seq != b.seq {
		// A newer keystroke superseded this lookup.
		return
	}
	b.loading = false

	if err != nil {
		// Degraded, not surfaced: the list just stays empty.
		log.Logger().Error("location lookup failed", zap.String("query", query), zap.Error(err))
		b.results = nil
		b.open = false
		b.selected = noSelection
		return
	}

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	b.results = results
	b.open = len(results) > 0
	b.selected = noSelection
}

// Key identifies the keyboard events the box reacts to.
type Key string

const (
	KeyArrowDown Key = "ArrowDown"
	KeyArrowUp   Key = "ArrowUp"
	KeyEnter     Key = "Enter"
	KeyEscape    Key = "Escape"
)

// HandleKey advances the navigation state machine.
func (b *Box) HandleKey(key Key) {
	var committed *geocode.Location

	b.mu.Lock()
	switch key {
	case KeyArrowDown:
		if len(b.results) > 0 {
			b.open = true
			if b.selected < len(b.results)-1 {
				b.selected++
			}
		}
	case KeyArrowUp:
		if b.open && b.selected > noSelection {
			b.selected--
		}
	case KeyEnter:
		if b.open && b.selected >= 0 && b.selected < len(b.results) {
			loc := b.results[b.selected]
			b.commit(loc)
			committed = &loc
		}
	case KeyEscape:
		b.open = false
		b.selected = noSelection
	}
	b.mu.Unlock()

	if committed != nil && b.onSelect != nil {
		b.onSelect(*committed)
	}
}

// Select commits the result at index, as a click on a suggestion row does.
func (b *Box) Select(index int) {
	b.mu.Lock()
	if index < 0 || index >= len(b.results) {
		b.mu.Unlock()
		return
	}
	loc := b.results[index]
	b.commit(loc)
	b.mu.Unlock()

	if b.onSelect != nil {
		b.onSelect(loc)
	}
}

// ClickOutside closes the list without committing anything.
func (b *Box) ClickOutside() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.open = false
	b.selected = noSelection
}

// commit is called with the lock held. The caller fires onSelect after
// releasing it.
func (b *Box) commit(loc geocode.Location) {
	b.query = loc.Name + " - " + loc.Address
	b.open = false
	b.selected = noSelection
}

// Close cancels any pending lookup. Responses already in flight are
// dropped on arrival.
func (b *Box) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.loading = false
}

func (b *Box) Query() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.query
}

func (b *Box) Results() []geocode.Location {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]geocode.Location, len(b.results))
	copy(out, b.results)
	return out
}

func (b *Box) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}

// SelectedIndex returns the highlighted row, or -1 for no selection.
func (b *Box) SelectedIndex() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selected
}

func (b *Box) IsLoading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}
