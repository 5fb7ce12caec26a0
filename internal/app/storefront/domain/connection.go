package domain

import (
	"net/url"
	"strconv"
)

// MaxPageSize is the largest page the Storefront API accepts.
const MaxPageSize = 250

// PageInfo carries the cursors of a paginated result.
type PageInfo struct {
	HasNextPage     bool   `json:"hasNextPage"`
	HasPreviousPage bool   `json:"hasPreviousPage"`
	StartCursor     string `json:"startCursor"`
	EndCursor       string `json:"endCursor"`
}

// Connection is a paginated result with nodes and page info.
type Connection[T any] struct {
	Nodes    []T      `json:"nodes"`
	PageInfo PageInfo `json:"pageInfo"`
}

// PaginationVariables are the bounds passed to a connection query.
// Exactly one of First or Last is set.
type PaginationVariables struct {
	First       *int
	Last        *int
	StartCursor *string
	EndCursor   *string
}

// Variables returns the GraphQL variables map for the bounds.
func (p PaginationVariables) Variables() map[string]any {
	vars := map[string]any{}
	if p.First != nil {
		vars["first"] = *p.First
	}
	if p.Last != nil {
		vars["last"] = *p.Last
	}
	if p.StartCursor != nil {
		vars["startCursor"] = *p.StartCursor
	}
	if p.EndCursor != nil {
		vars["endCursor"] = *p.EndCursor
	}
	return vars
}

// GetPaginationVariables derives query bounds from request parameters.
//
// The SDK form `cursor` + `direction=previous|next` is honoured first; explicit
// `first`, `last`, `startCursor` and `endCursor` parameters override it. Sizes
// are clamped to 1..MaxPageSize.
func GetPaginationVariables(query url.Values, pageBy int) (PaginationVariables, error) {
	if pageBy <= 0 {
		return PaginationVariables{}, ErrInvalidPageSize
	}
	pageBy = clampPageSize(pageBy)

	var p PaginationVariables
	cursor := query.Get("cursor")
	if query.Get("direction") == "previous" {
		p.Last = intPtr(pageBy)
		if cursor != "" {
			p.StartCursor = &cursor
		}
	} else {
		p.First = intPtr(pageBy)
		if cursor != "" {
			p.EndCursor = &cursor
		}
	}

	first, hasFirst := parsePageSize(query.Get("first"))
	last, hasLast := parsePageSize(query.Get("last"))
	if hasFirst && hasLast {
		return PaginationVariables{}, ErrConflictingPager
	}
	if hasFirst {
		p.First, p.Last, p.StartCursor = intPtr(first), nil, nil
	}
	if hasLast {
		p.Last, p.First, p.EndCursor = intPtr(last), nil, nil
	}

	if v := query.Get("startCursor"); v != "" {
		p.StartCursor = &v
	}
	if v := query.Get("endCursor"); v != "" {
		p.EndCursor = &v
	}

	return p, nil
}

// NextPageQuery builds the query string that loads the page after info.
func NextPageQuery(info PageInfo) string {
	if !info.HasNextPage || info.EndCursor == "" {
		return ""
	}
	return url.Values{"cursor": {info.EndCursor}, "direction": {"next"}}.Encode()
}

// PreviousPageQuery builds the query string that loads the page before info.
func PreviousPageQuery(info PageInfo) string {
	if !info.HasPreviousPage || info.StartCursor == "" {
		return ""
	}
	return url.Values{"cursor": {info.StartCursor}, "direction": {"previous"}}.Encode()
}

func parsePageSize(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return clampPageSize(n), true
}

func clampPageSize(n int) int {
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

func intPtr(n int) *int { return &n }
