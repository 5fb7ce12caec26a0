package get_header

import (
	"context"
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/contracts"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
)

// DefaultMenuHandle is the platform handle of the header menu.
const DefaultMenuHandle = "main-menu"

// Request selects the header menu.
type Request struct {
	MenuHandle string
}

// Result is the shop identity and its normalized header menu.
type Result struct {
	Shop *domain.Shop
	Menu *domain.ProcessedMenu
}

// Query loads the header, caching it per menu handle.
type Query struct {
	repo              contracts.LayoutRepository
	publicStoreDomain string
	cache             *ttlcache.Cache[string, *Result]
}

// NewQuery creates a new get header query. A ttl of zero disables caching.
func NewQuery(repo contracts.LayoutRepository, publicStoreDomain string, ttl time.Duration) *Query {
	q := &Query{
		repo:              repo,
		publicStoreDomain: publicStoreDomain,
	}
	if ttl > 0 {
		q.cache = ttlcache.New[string, *Result](ttlcache.WithTTL[string, *Result](ttl))
	}
	return q
}

// Execute loads the shop and header menu. The fallback menu is used when the
// platform has none.
func (q *Query) Execute(ctx context.Context, req *Request) (*Result, error) {
	handle := req.MenuHandle
	if handle == "" {
		handle = DefaultMenuHandle
	}

	if q.cache != nil {
		if item := q.cache.Get(handle); item != nil {
			return item.Value(), nil
		}
	}

	shop, menu, err := q.repo.GetHeader(ctx, handle)
	if err != nil {
		return nil, err
	}
	if menu == nil {
		fallback := domain.FallbackHeaderMenu
		menu = &fallback
	}

	processed, err := domain.ProcessMenu(menu, shop.PrimaryDomainURL, q.publicStoreDomain)
	if err != nil {
		return nil, fmt.Errorf("failed to process header menu: %w", err)
	}

	result := &Result{Shop: shop, Menu: processed}
	if q.cache != nil {
		q.cache.Set(handle, result, ttlcache.DefaultTTL)
	}
	return result, nil
}
