// Package formula provides the catalog of named dough formulas.
package formula

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/hammamikhairi/bulkferm/internal/domain"
	"github.com/hammamikhairi/bulkferm/internal/logger"
)

// Compile-time interface check.
var _ domain.FormulaSource = (*MemorySource)(nil)

// MemorySource holds formulas in memory. Safe for concurrent reads.
type MemorySource struct {
	mu       sync.RWMutex
	formulas map[string]*domain.Formula
	log      *logger.Logger
}

// NewMemorySource creates a formula source preloaded with the built-in
// formulas.
func NewMemorySource(log *logger.Logger) *MemorySource {
	src := &MemorySource{
		formulas: make(map[string]*domain.Formula),
		log:      log,
	}
	src.seed()
	return src
}

// List returns every formula, sorted by name.
func (s *MemorySource) List(ctx context.Context) ([]*domain.Formula, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.log.Debug("listing all formulas, count=%d", len(s.formulas))

	out := make([]*domain.Formula, 0, len(s.formulas))
	for _, f := range s.formulas {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get returns a formula by ID.
func (s *MemorySource) Get(ctx context.Context, id string) (*domain.Formula, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.formulas[strings.ToLower(id)]
	if !ok {
		s.log.Debug("formula not found: %s", id)
		return nil, domain.ErrNotFound
	}
	return f, nil
}

// Search returns formulas whose name, description or tags contain query.
func (s *MemorySource) Search(ctx context.Context, query string) ([]*domain.Formula, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	s.log.Debug("searching formulas for: %s", q)

	var out []*domain.Formula
	for _, f := range s.formulas {
		if matches(f, q) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func matches(f *domain.Formula, query string) bool {
	if strings.Contains(strings.ToLower(f.Name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(f.Description), query) {
		return true
	}
	for _, tag := range f.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

// seed populates the source with built-in formulas.
func (s *MemorySource) seed() {
	formulas := []*domain.Formula{
		{
			ID:          "country",
			Name:        "Country loaf",
			Description: "Bread flour with 10% whole wheat. The dough the table was measured with.",
			FlourMix:    domain.BaselineFlourMix(),
			Salt:        domain.BaselineSalt,
			Tags:        []string{"baseline", "wheat"},
		},
		{
			ID:          "white",
			Name:        "White sourdough",
			Description: "All bread flour.",
			FlourMix:    domain.FlourMix{ProteinContent: domain.BaselineProtein},
			Salt:        domain.BaselineSalt,
			Tags:        []string{"wheat"},
		},
		{
			ID:          "whole-wheat",
			Name:        "Half whole wheat",
			Description: "50% whole wheat. Bran ferments faster.",
			FlourMix:    domain.FlourMix{WholeWheat: 50, ProteinContent: 13.2},
			Salt:        domain.BaselineSalt,
			Tags:        []string{"wheat", "whole grain"},
		},
		{
			ID:          "rye",
			Name:        "Light rye",
			Description: "20% rye with 10% whole wheat.",
			FlourMix:    domain.FlourMix{WholeWheat: 10, Rye: 20, ProteinContent: domain.BaselineProtein},
			Salt:        domain.BaselineSalt,
			Tags:        []string{"rye", "whole grain"},
		},
		{
			ID:          "pizza",
			Name:        "Pizza dough",
			Description: "Lower protein flour and a little more salt.",
			FlourMix:    domain.FlourMix{ProteinContent: 12},
			Salt:        2.8,
			Tags:        []string{"wheat", "pizza"},
		},
	}
	for _, f := range formulas {
		s.formulas[f.ID] = f
	}
	s.log.Debug("seeded %d formulas", len(formulas))
}
