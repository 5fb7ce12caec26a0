package get_collection

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/contracts"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
)

type fakeCatalog struct {
	contracts.CatalogRepository
	handle string
	page   domain.PaginationVariables
	err    error
}

func (f *fakeCatalog) GetCollection(_ context.Context, handle string, page domain.PaginationVariables) (*contracts.CollectionPage, error) {
	f.handle, f.page = handle, page
	if f.err != nil {
		return nil, f.err
	}
	return &contracts.CollectionPage{Collection: &domain.Collection{Handle: handle}}, nil
}

func TestQuery_Execute(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo := &fakeCatalog{}
		page, err := NewQuery(repo).Execute(context.Background(), &Request{Handle: "sale", Params: url.Values{"first": {"500"}}})
		require.NoError(t, err)
		assert.Equal(t, "sale", page.Collection.Handle)
		assert.Equal(t, map[string]any{"first": domain.MaxPageSize}, repo.page.Variables())
	})

	t.Run("missing handle", func(t *testing.T) {
		repo := &fakeCatalog{}
		_, err := NewQuery(repo).Execute(context.Background(), &Request{})
		assert.ErrorIs(t, err, domain.ErrInvalidHandle)
		assert.Empty(t, repo.handle)
	})

	t.Run("not found", func(t *testing.T) {
		repo := &fakeCatalog{err: domain.ErrCollectionNotFound}
		_, err := NewQuery(repo).Execute(context.Background(), &Request{Handle: "gone"})
		assert.ErrorIs(t, err, domain.ErrCollectionNotFound)
	})
}
