package contracts

import (
	"context"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
)

// CollectionPage is a collection together with one page of its products.
type CollectionPage struct {
	Collection *domain.Collection
	Products   *domain.Connection[domain.ProductItem]
}

// CatalogRepository defines read access to products and collections.
type CatalogRepository interface {
	// ListProducts returns one page of all products
	ListProducts(ctx context.Context, page domain.PaginationVariables) (*domain.Connection[domain.ProductItem], error)

	// ListCollections returns one page of collections
	ListCollections(ctx context.Context, page domain.PaginationVariables) (*domain.Connection[domain.Collection], error)

	// GetCollection returns a collection by handle with one page of its products.
	// Returns domain.ErrCollectionNotFound when the handle is unknown.
	GetCollection(ctx context.Context, handle string, page domain.PaginationVariables) (*CollectionPage, error)

	// GetProduct returns a product by handle resolved against the selected options.
	// Returns domain.ErrProductNotFound when the handle is unknown.
	GetProduct(ctx context.Context, handle string, selected []domain.SelectedOption) (*domain.Product, error)
}
