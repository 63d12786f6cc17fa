package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/movelogapp/movelog-server/internal/catalog"
	"github.com/movelogapp/movelog-server/internal/store"
)

// CatalogService assembles the browsable movement catalog.
type CatalogService struct {
	store  store.Interface
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(store store.Interface, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:  store,
		logger: logger,
	}
}

// CatalogView is the full catalog response: filtered entries, the tag
// filter list, and the counts clients need to tell an empty catalog from an
// empty search result.
type CatalogView struct {
	Entries []catalog.Entry  `json:"entries"`
	Tags    []string         `json:"tags"`
	Sort    catalog.SortMode `json:"sort"`
	// Total is the entry count after filtering; TotalMovements is the
	// number of movements in the system regardless of filters.
	Total          int `json:"total"`
	TotalMovements int `json:"totalMovements"`
}

// GetCatalog loads all movements, expands aliases, applies the optional tag
// and query filters, and sorts. Everything is read fresh per request; the
// catalog is team-sized and reloading beats cache invalidation.
func (s *CatalogService) GetCatalog(ctx context.Context, tagFilter, query string, sort catalog.SortMode) (*CatalogView, error) {
	movements, err := s.store.ListMovements(ctx)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}

	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	tagNames := make([]string, 0, len(tags))
	for _, t := range tags {
		tagNames = append(tagNames, t.Name)
	}
	catalog.SortNames(tagNames)

	entries := catalog.Expand(movements)
	entries = catalog.Filter(entries, tagFilter, query)
	catalog.Sort(entries, sort)

	return &CatalogView{
		Entries:        entries,
		Tags:           tagNames,
		Sort:           sort,
		Total:          len(entries),
		TotalMovements: len(movements),
	}, nil
}
