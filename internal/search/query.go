package search

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Params configures a search query. OwnerID is mandatory; every query is
// conjoined with an owner filter so one user can never search another
// user's journal.
type Params struct {
	OwnerID string
	Query   string

	// Filters
	Moods    []string // Exact mood filter (OR across moods)
	Triggers []string // Exact trigger filter (OR across triggers)
	After    time.Time
	Before   time.Time

	// Pagination
	Limit  int
	Offset int

	// Sorting: "relevance" (default) or "recent"
	SortBy string

	// Options
	IncludeFacets bool
	Highlight     bool
}

// DefaultParams returns sensible defaults for the given owner.
func DefaultParams(ownerID string) Params {
	return Params{
		OwnerID:       ownerID,
		Limit:         20,
		SortBy:        "relevance",
		IncludeFacets: true,
		Highlight:     true,
	}
}

// Result represents the search results.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
	Facets Facets `json:"facets,omitzero"`
}

// Hit represents a single matching entry.
type Hit struct {
	ID         string            `json:"id"`
	Score      float64           `json:"score"`
	Mood       string            `json:"mood,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	Triggers   []string          `json:"triggers,omitempty"`
	OccurredAt int64             `json:"occurred_at,omitempty"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Facets contains facet counts over the result set.
type Facets struct {
	Moods    []FacetCount `json:"moods,omitempty"`
	Triggers []FacetCount `json:"triggers,omitempty"`
}

// FacetCount represents a facet value and its count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search executes a search query scoped to one owner.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	if params.OwnerID == "" {
		return nil, fmt.Errorf("search requires an owner")
	}
	if params.Limit <= 0 {
		params.Limit = 20
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	searchQuery := buildSearchQuery(params)
	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)

	addSorting(searchRequest, params)

	if params.IncludeFacets {
		searchRequest.AddFacet("mood", bleve.NewFacetRequest("mood", 10))
		searchRequest.AddFacet("triggers", bleve.NewFacetRequest("triggers", 20))
	}

	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("notes")
	}

	searchRequest.Fields = []string{"id", "mood", "notes", "triggers", "occurred_at"}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		entryHit := Hit{
			ID:    hit.ID,
			Score: hit.Score,
		}

		if m, ok := hit.Fields["mood"].(string); ok {
			entryHit.Mood = m
		}
		if n, ok := hit.Fields["notes"].(string); ok {
			entryHit.Notes = n
		}
		if at, ok := hit.Fields["occurred_at"].(float64); ok {
			entryHit.OccurredAt = int64(at)
		}
		switch triggers := hit.Fields["triggers"].(type) {
		case string:
			// Bleve flattens single-element arrays to a scalar.
			entryHit.Triggers = []string{triggers}
		case []interface{}:
			for _, t := range triggers {
				if trigger, ok := t.(string); ok {
					entryHit.Triggers = append(entryHit.Triggers, trigger)
				}
			}
		}

		if len(hit.Fragments) > 0 {
			entryHit.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					entryHit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, entryHit)
	}

	if params.IncludeFacets {
		result.Facets = extractFacets(searchResult)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params.
func buildSearchQuery(params Params) query.Query {
	// The owner filter is non-negotiable and always part of the conjunction.
	ownerQuery := bleve.NewTermQuery(params.OwnerID)
	ownerQuery.SetField("owner_id")
	queries := []query.Query{ownerQuery}

	if params.Query != "" {
		textQueries := []query.Query{}

		notesMatch := bleve.NewMatchQuery(params.Query)
		notesMatch.SetField("notes")
		notesMatch.SetBoost(3.0)
		textQueries = append(textQueries, notesMatch)

		// Exact trigger hit, so searching "Work Stress" finds tagged
		// entries even with empty notes.
		triggerMatch := bleve.NewTermQuery(params.Query)
		triggerMatch.SetField("triggers")
		triggerMatch.SetBoost(2.0)
		textQueries = append(textQueries, triggerMatch)

		// Fuzzy matching for typo tolerance on notes.
		fuzzyQuery := bleve.NewFuzzyQuery(params.Query)
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("notes")
		fuzzyQuery.SetBoost(0.8)
		textQueries = append(textQueries, fuzzyQuery)

		// Prefix query for incremental typing (minimum 2 chars).
		if len(params.Query) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefixQuery.SetField("notes")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if len(params.Moods) > 0 {
		moodQueries := make([]query.Query, len(params.Moods))
		for i, m := range params.Moods {
			mq := bleve.NewTermQuery(m)
			mq.SetField("mood")
			moodQueries[i] = mq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(moodQueries...))
	}

	if len(params.Triggers) > 0 {
		triggerQueries := make([]query.Query, len(params.Triggers))
		for i, trigger := range params.Triggers {
			tq := bleve.NewTermQuery(trigger)
			tq.SetField("triggers")
			triggerQueries[i] = tq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(triggerQueries...))
	}

	if !params.After.IsZero() || !params.Before.IsZero() {
		min := float64(0)
		max := math.MaxFloat64
		if !params.After.IsZero() {
			min = float64(params.After.UnixMilli())
		}
		if !params.Before.IsZero() {
			max = float64(params.Before.UnixMilli())
		}
		rangeQuery := bleve.NewNumericRangeQuery(&min, &max)
		rangeQuery.SetField("occurred_at")
		queries = append(queries, rangeQuery)
	}

	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

// addSorting configures sort order.
func addSorting(req *bleve.SearchRequest, params Params) {
	switch params.SortBy {
	case "recent":
		req.SortBy([]string{"-occurred_at"})
	default:
		req.SortBy([]string{"-_score"})
	}
}

// extractFacets converts Bleve facets to our format.
func extractFacets(result *bleve.SearchResult) Facets {
	facets := Facets{}

	if moodFacet, ok := result.Facets["mood"]; ok {
		for _, term := range moodFacet.Terms.Terms() {
			facets.Moods = append(facets.Moods, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	if triggerFacet, ok := result.Facets["triggers"]; ok {
		for _, term := range triggerFacet.Terms.Terms() {
			facets.Triggers = append(facets.Triggers, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	return facets
}
