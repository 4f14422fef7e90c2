package service

import (
	"context"
	"time"

	"github.com/omicsdash/biodisc/internal/errors"
	"github.com/omicsdash/biodisc/internal/search"
)

// SearchService answers full-text queries against the sample index.
type SearchService struct {
	index        *search.Index
	defaultLimit int
}

// NewSearchService creates a search service over the given index.
func NewSearchService(index *search.Index, defaultLimit int) *SearchService {
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	return &SearchService{index: index, defaultLimit: defaultLimit}
}

// Search runs a query-string search with optional exact filters.
func (s *SearchService) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	const op = errors.Op("search.Search")

	if s.index == nil {
		return nil, errors.E(op, errors.KindSearch, "search index is disabled")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}

	start := time.Now()
	raw, err := s.index.Search(req.Query, req.Filters, limit)
	if err != nil {
		return nil, errors.WrapKind(op, errors.KindSearch, err)
	}

	resp := &SearchResponse{
		Query:     req.Query,
		Total:     raw.Total,
		Hits:      make([]SearchHit, 0, len(raw.Hits)),
		TimeTaken: time.Since(start).Milliseconds(),
	}

	for _, hit := range raw.Hits {
		resp.Hits = append(resp.Hits, SearchHit{
			ID:     hit.ID,
			Score:  hit.Score,
			Fields: hit.Fields,
		})
	}

	if len(raw.Facets) > 0 {
		resp.Facets = make(map[string]interface{}, len(raw.Facets))
		for name, facet := range raw.Facets {
			resp.Facets[name] = facet
		}
	}

	return resp, nil
}
