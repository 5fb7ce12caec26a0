package list_products

import (
	"context"
	"net/url"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/contracts"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
)

// PageBy is the number of products per page on the home page.
const PageBy = 20

// Request carries the listing's pagination parameters.
type Request struct {
	Params url.Values
}

// Query handles the list products query use case.
type Query struct {
	repo contracts.CatalogRepository
}

// NewQuery creates a new list products query.
func NewQuery(repo contracts.CatalogRepository) *Query {
	return &Query{
		repo: repo,
	}
}

// Execute retrieves one page of products.
func (q *Query) Execute(ctx context.Context, req *Request) (*domain.Connection[domain.ProductItem], error) {
	page, err := domain.GetPaginationVariables(req.Params, PageBy)
	if err != nil {
		return nil, err
	}
	return q.repo.ListProducts(ctx, page)
}
