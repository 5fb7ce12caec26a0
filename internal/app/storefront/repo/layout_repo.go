package repo

import (
	"context"
	"fmt"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/contracts"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
)

// LayoutRepo implements LayoutRepository over the Storefront API.
type LayoutRepo struct {
	client Storefront
}

// NewLayoutRepo creates a new LayoutRepo.
func NewLayoutRepo(client Storefront) contracts.LayoutRepository {
	return &LayoutRepo{client: client}
}

// GetHeader retrieves the shop and the header menu.
func (r *LayoutRepo) GetHeader(ctx context.Context, menuHandle string) (*domain.Shop, *domain.Menu, error) {
	var data struct {
		Shop shopNode     `json:"shop"`
		Menu *domain.Menu `json:"menu"`
	}
	vars := map[string]any{"headerMenuHandle": menuHandle}
	if err := r.client.Query(ctx, HeaderQuery, vars, &data); err != nil {
		return nil, nil, fmt.Errorf("failed to load header: %w", err)
	}
	return data.Shop.toDomain(), data.Menu, nil
}

// GetFooter retrieves the footer menu.
func (r *LayoutRepo) GetFooter(ctx context.Context, menuHandle string) (*domain.Menu, error) {
	var data menuNode
	vars := map[string]any{"footerMenuHandle": menuHandle}
	if err := r.client.Query(ctx, FooterQuery, vars, &data); err != nil {
		return nil, fmt.Errorf("failed to load footer: %w", err)
	}
	return data.Menu, nil
}
