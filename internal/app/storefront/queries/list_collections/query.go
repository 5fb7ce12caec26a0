package list_collections

import (
	"context"
	"net/url"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/contracts"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
)

// PageBy is the number of collections per page.
const PageBy = 4

// Request carries the listing's pagination parameters.
type Request struct {
	Params url.Values
}

// Query handles the list collections query use case.
type Query struct {
	repo contracts.CatalogRepository
}

// NewQuery creates a new list collections query.
func NewQuery(repo contracts.CatalogRepository) *Query {
	return &Query{
		repo: repo,
	}
}

// Execute retrieves one page of collections.
func (q *Query) Execute(ctx context.Context, req *Request) (*domain.Connection[domain.Collection], error) {
	page, err := domain.GetPaginationVariables(req.Params, PageBy)
	if err != nil {
		return nil, err
	}
	return q.repo.ListCollections(ctx, page)
}
