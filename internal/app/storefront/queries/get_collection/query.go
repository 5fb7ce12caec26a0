package get_collection

import (
	"context"
	"net/url"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/contracts"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
)

// PageBy is the number of products per page of a collection.
const PageBy = 8

// Request identifies the collection and the page of its products.
type Request struct {
	Handle string
	Params url.Values
}

// Query handles the get collection query use case.
type Query struct {
	repo contracts.CatalogRepository
}

// NewQuery creates a new get collection query.
func NewQuery(repo contracts.CatalogRepository) *Query {
	return &Query{
		repo: repo,
	}
}

// Execute retrieves the collection. A missing collection yields
// domain.ErrCollectionNotFound.
func (q *Query) Execute(ctx context.Context, req *Request) (*contracts.CollectionPage, error) {
	if req.Handle == "" {
		return nil, domain.ErrInvalidHandle
	}
	page, err := domain.GetPaginationVariables(req.Params, PageBy)
	if err != nil {
		return nil, err
	}
	return q.repo.GetCollection(ctx, req.Handle, page)
}
