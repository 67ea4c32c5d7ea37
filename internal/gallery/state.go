package gallery

import (
	"context"
	"log/slog"
	"sync"

	"prompt_galeri/internal/domain/models"
	"prompt_galeri/internal/gateway"
	"prompt_galeri/internal/lib/logger/sl"
)

// State owns the in-memory item collection, the active category filter and
// the free-text search query, and derives the displayed set from them. It is
// a read-only consumer of the collection; mutations arrive through the
// curation workflow.
type State struct {
	log      *slog.Logger
	gw       gateway.Gateway
	taxonomy *TaxonomyStore
	notifier *Notifier

	mu             sync.RWMutex
	items          []models.PromptItem
	activeCategory string
	searchQuery    string
	loading        bool
}

func NewState(log *slog.Logger, gw gateway.Gateway, taxonomy *TaxonomyStore, notifier *Notifier) *State {
	return &State{
		log:            log,
		gw:             gw,
		taxonomy:       taxonomy,
		notifier:       notifier,
		activeCategory: models.CategoryAll,
	}
}

// Load replaces the local collection with the remote one. A transport failure
// is contained here: the collection is left empty, the loading flag is
// cleared and an error notification is posted, but no error escapes.
func (s *State) Load(ctx context.Context) {
	const op = "gallery.State.Load"

	log := s.log.With(slog.String("op", op))

	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	items, err := s.gw.ListItems(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		log.Error("failed to load gallery", sl.Err(err))
		s.items = nil
		s.notifier.Post(msgLoadFailed, models.SeverityError)
		return
	}

	s.items = items
	log.Info("gallery loaded", slog.Int("items", len(items)))
}

// SetCategory switches the active category filter. No I/O.
func (s *State) SetCategory(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activeCategory = label
}

// SetSearch replaces the free-text search query. No I/O.
func (s *State) SetSearch(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.searchQuery = text
}

// Filtered derives the displayed set: items matching both the active category
// and the search query. The derivation is deterministic and side-effect-free.
func (s *State) Filtered() []models.PromptItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.PromptItem
	for i := range s.items {
		item := &s.items[i]
		if s.activeCategory != models.CategoryAll && !item.HasTag(s.activeCategory) {
			continue
		}
		if !item.Matches(s.searchQuery) {
			continue
		}
		out = append(out, *item)
	}

	return out
}

// Categories returns the distinct style labels across all taxonomy groups,
// prefixed with the "show everything" sentinel.
func (s *State) Categories() []string {
	return append([]string{models.CategoryAll}, s.taxonomy.DistinctStyles()...)
}

// Items returns the unfiltered collection.
func (s *State) Items() []models.PromptItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.PromptItem(nil), s.items...)
}

// Loading reports whether a Load is in flight.
func (s *State) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loading
}

// insert prepends a freshly persisted item, keeping newest-first order.
func (s *State) insert(item models.PromptItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append([]models.PromptItem{item}, s.items...)
}

// replace merges an updated item over the stored one with the same id.
// An unknown id is ignored.
func (s *State) replace(item models.PromptItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i] = item
			return
		}
	}
}

// remove drops the item with the given id, if present.
func (s *State) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// find returns a copy of the item with the given id.
func (s *State) find(id string) (models.PromptItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.items {
		if s.items[i].ID == id {
			return s.items[i], true
		}
	}
	return models.PromptItem{}, false
}
