package contracts

import (
	"context"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
)

// LayoutRepository defines read access to the shop and its navigation menus.
type LayoutRepository interface {
	// GetHeader returns the shop and the raw header menu (nil when absent)
	GetHeader(ctx context.Context, menuHandle string) (*domain.Shop, *domain.Menu, error)

	// GetFooter returns the raw footer menu (nil when absent)
	GetFooter(ctx context.Context, menuHandle string) (*domain.Menu, error)
}
