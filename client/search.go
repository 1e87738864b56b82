package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// SearchResult is one cross-resource match.
type SearchResult struct {
	Type        string `json:"type"` // dataset, rule, issue
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type SearchResults struct {
	Query   string         `json:"query"`
	Total   int            `json:"total"`
	Results []SearchResult `json:"results"`
}

func (c *Client) Search(ctx context.Context, query string, limit int) (*SearchResults, error) {
	q := url.Values{}
	q.Set("q", query)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var results SearchResults
	if err := c.json(ctx, http.MethodGet, "/search", q, nil, &results); err != nil {
		return nil, err
	}
	return &results, nil
}
