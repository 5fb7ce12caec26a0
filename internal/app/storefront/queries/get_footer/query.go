package get_footer

import (
	"context"
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/contracts"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
)

// DefaultMenuHandle is the platform handle of the footer menu.
const DefaultMenuHandle = "footer"

// Request selects the footer menu. PrimaryDomainURL comes from the header's
// shop and is needed to normalize menu links.
type Request struct {
	MenuHandle       string
	PrimaryDomainURL string
}

// Query loads the footer columns, caching them per menu handle and domain.
type Query struct {
	repo              contracts.LayoutRepository
	publicStoreDomain string
	cache             *ttlcache.Cache[string, []domain.ParentMenuItem]
}

// NewQuery creates a new get footer query. A ttl of zero disables caching.
func NewQuery(repo contracts.LayoutRepository, publicStoreDomain string, ttl time.Duration) *Query {
	q := &Query{
		repo:              repo,
		publicStoreDomain: publicStoreDomain,
	}
	if ttl > 0 {
		q.cache = ttlcache.New[string, []domain.ParentMenuItem](
			ttlcache.WithTTL[string, []domain.ParentMenuItem](ttl),
		)
	}
	return q
}

// Execute returns at most domain.MaxFooterColumns columns. A missing menu
// yields no columns.
func (q *Query) Execute(ctx context.Context, req *Request) ([]domain.ParentMenuItem, error) {
	handle := req.MenuHandle
	if handle == "" {
		handle = DefaultMenuHandle
	}
	key := handle + "|" + req.PrimaryDomainURL

	if q.cache != nil {
		if item := q.cache.Get(key); item != nil {
			return item.Value(), nil
		}
	}

	menu, err := q.repo.GetFooter(ctx, handle)
	if err != nil {
		return nil, err
	}
	processed, err := domain.ProcessMenu(menu, req.PrimaryDomainURL, q.publicStoreDomain)
	if err != nil {
		return nil, fmt.Errorf("failed to process footer menu: %w", err)
	}

	columns := domain.FooterColumns(processed)
	if q.cache != nil {
		q.cache.Set(key, columns, ttlcache.DefaultTTL)
	}
	return columns, nil
}
