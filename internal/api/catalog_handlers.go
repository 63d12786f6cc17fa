package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/movelogapp/movelog-server/internal/catalog"
	"github.com/movelogapp/movelog-server/internal/service"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCatalog",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog",
		Summary:     "Movement catalog",
		Description: "Returns the alias-expanded movement catalog with optional tag filter, search, and sort",
		Tags:        []string{"Catalog"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCatalog)
}

// CatalogInput contains query parameters for the catalog.
type CatalogInput struct {
	Tag   string `query:"tag" doc:"Exact tag name to filter by"`
	Query string `query:"q" doc:"Case-insensitive substring match on display names"`
	Sort  string `query:"sort" doc:"Sort mode: name_asc (default), name_desc, or recent"`
}

// CatalogOutput wraps the catalog view for Huma.
type CatalogOutput struct {
	Body service.CatalogView
}

func (s *Server) handleGetCatalog(ctx context.Context, input *CatalogInput) (*CatalogOutput, error) {
	if _, err := s.RequireUser(ctx); err != nil {
		return nil, err
	}

	view, err := s.services.Catalog.GetCatalog(ctx, input.Tag, input.Query, catalog.ParseSortMode(input.Sort))
	if err != nil {
		return nil, err
	}

	return &CatalogOutput{Body: *view}, nil
}
