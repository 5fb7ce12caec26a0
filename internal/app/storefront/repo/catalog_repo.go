package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/contracts"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
)

// Storefront is the GraphQL transport used by the repositories.
// *graphql.Client implements it.
type Storefront interface {
	Query(ctx context.Context, document string, variables map[string]any, out any) error
	Mutate(ctx context.Context, document string, variables map[string]any, out any) error
}

// CatalogRepo implements CatalogRepository over the Storefront API.
type CatalogRepo struct {
	client Storefront
}

// NewCatalogRepo creates a new CatalogRepo.
func NewCatalogRepo(client Storefront) contracts.CatalogRepository {
	return &CatalogRepo{client: client}
}

// ListProducts retrieves one page of products.
func (r *CatalogRepo) ListProducts(ctx context.Context, page domain.PaginationVariables) (*domain.Connection[domain.ProductItem], error) {
	var data struct {
		Products productConnection `json:"products"`
	}
	if err := r.client.Query(ctx, AllProductsQuery, page.Variables(), &data); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return data.Products.toDomain(), nil
}

// ListCollections retrieves one page of collections.
func (r *CatalogRepo) ListCollections(ctx context.Context, page domain.PaginationVariables) (*domain.Connection[domain.Collection], error) {
	var data struct {
		Collections struct {
			Nodes    []collectionNode `json:"nodes"`
			PageInfo domain.PageInfo  `json:"pageInfo"`
		} `json:"collections"`
	}
	if err := r.client.Query(ctx, CollectionsQuery, page.Variables(), &data); err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}

	out := &domain.Connection[domain.Collection]{
		Nodes:    make([]domain.Collection, 0, len(data.Collections.Nodes)),
		PageInfo: data.Collections.PageInfo,
	}
	for _, n := range data.Collections.Nodes {
		out.Nodes = append(out.Nodes, n.toDomain())
	}
	return out, nil
}

// GetCollection retrieves a collection with a page of its products.
func (r *CatalogRepo) GetCollection(ctx context.Context, handle string, page domain.PaginationVariables) (*contracts.CollectionPage, error) {
	if strings.TrimSpace(handle) == "" {
		return nil, domain.ErrInvalidHandle
	}

	vars := page.Variables()
	vars["handle"] = handle

	var data struct {
		Collection *struct {
			collectionNode
			Products productConnection `json:"products"`
		} `json:"collection"`
	}
	if err := r.client.Query(ctx, CollectionQuery, vars, &data); err != nil {
		return nil, fmt.Errorf("failed to get collection %s: %w", handle, err)
	}
	if data.Collection == nil {
		return nil, domain.ErrCollectionNotFound
	}

	collection := data.Collection.collectionNode.toDomain()
	return &contracts.CollectionPage{
		Collection: &collection,
		Products:   data.Collection.Products.toDomain(),
	}, nil
}

// GetProduct retrieves a product resolved against the selected options.
func (r *CatalogRepo) GetProduct(ctx context.Context, handle string, selected []domain.SelectedOption) (*domain.Product, error) {
	if strings.TrimSpace(handle) == "" {
		return nil, domain.ErrInvalidHandle
	}
	if selected == nil {
		selected = []domain.SelectedOption{}
	}

	var data struct {
		Product *productNode `json:"product"`
	}
	vars := map[string]any{"handle": handle, "selectedOptions": selected}
	if err := r.client.Query(ctx, ProductQuery, vars, &data); err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", handle, err)
	}
	if data.Product == nil || data.Product.ID == "" {
		return nil, domain.ErrProductNotFound
	}
	return data.Product.toDomain(), nil
}
