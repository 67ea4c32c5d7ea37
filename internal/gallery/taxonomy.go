package gallery

import (
	"strings"
	"sync"

	"prompt_galeri/internal/domain/models"
)

// TaxonomyStore owns the category/style dictionary. Groups and styles are
// append-only; there is no delete or rename operation.
type TaxonomyStore struct {
	mu     sync.RWMutex
	groups []models.StyleGroup
}

func NewTaxonomyStore(groups []models.StyleGroup) *TaxonomyStore {
	cp := make([]models.StyleGroup, len(groups))
	for i, g := range groups {
		cp[i] = models.StyleGroup{
			Label:  g.Label,
			Styles: append([]string(nil), g.Styles...),
		}
	}
	return &TaxonomyStore{groups: cp}
}

// AddStyle appends styleLabel to the group matching groupLabel
// case-insensitively, creating the group when it does not exist. Re-adding an
// existing style is a silent no-op. Returns the resulting taxonomy.
func (s *TaxonomyStore) AddStyle(groupLabel, styleLabel string) []models.StyleGroup {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.groups {
		if strings.EqualFold(s.groups[i].Label, groupLabel) {
			if !s.groups[i].HasStyle(styleLabel) {
				s.groups[i].Styles = append(s.groups[i].Styles, styleLabel)
			}
			return s.snapshot()
		}
	}

	s.groups = append(s.groups, models.StyleGroup{
		Label:  groupLabel,
		Styles: []string{styleLabel},
	})

	return s.snapshot()
}

// Groups returns a copy of the taxonomy in insertion order.
func (s *TaxonomyStore) Groups() []models.StyleGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot()
}

// DistinctStyles returns every style label across all groups, in group order,
// with duplicates across groups removed.
func (s *TaxonomyStore) DistinctStyles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var styles []string
	for _, g := range s.groups {
		for _, st := range g.Styles {
			if _, ok := seen[st]; ok {
				continue
			}
			seen[st] = struct{}{}
			styles = append(styles, st)
		}
	}

	return styles
}

func (s *TaxonomyStore) snapshot() []models.StyleGroup {
	cp := make([]models.StyleGroup, len(s.groups))
	for i, g := range s.groups {
		cp[i] = models.StyleGroup{
			Label:  g.Label,
			Styles: append([]string(nil), g.Styles...),
		}
	}
	return cp
}
