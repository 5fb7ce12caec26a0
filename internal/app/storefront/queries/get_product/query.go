package get_product

import (
	"context"
	"net/url"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/contracts"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
)

// Request identifies the product; Params holds the selected options.
type Request struct {
	Handle string
	Params url.Values
}

// Result is a product resolved against the selection, with its option
// values mapped for the variant selector.
type Result struct {
	Product  *domain.Product
	Selected []domain.SelectedOption
	Options  []domain.MappedProductOption
}

// Query handles the get product query use case.
type Query struct {
	repo contracts.CatalogRepository
}

// NewQuery creates a new get product query.
func NewQuery(repo contracts.CatalogRepository) *Query {
	return &Query{
		repo: repo,
	}
}

// Execute retrieves a product by handle.
func (q *Query) Execute(ctx context.Context, req *Request) (*Result, error) {
	if req.Handle == "" {
		return nil, domain.ErrInvalidHandle
	}

	selected := domain.SelectedOptionsFromQuery(req.Params)
	product, err := q.repo.GetProduct(ctx, req.Handle, selected)
	if err != nil {
		return nil, err
	}

	return &Result{
		Product:  product,
		Selected: selected,
		Options:  domain.GetProductOptions(product),
	}, nil
}
