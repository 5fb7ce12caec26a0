package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMenuURL(t *testing.T) {
	const primary = "https://feliz.example"
	const public = "mystore.com"

	t.Run("platform domain becomes a relative path", func(t *testing.T) {
		to, target, err := NormalizeMenuURL("https://mystore.myshopify.com/pages/about", primary, public)
		require.NoError(t, err)
		assert.Equal(t, "/pages/about", to)
		assert.Empty(t, target)
	})

	t.Run("public store domain becomes a relative path", func(t *testing.T) {
		to, target, err := NormalizeMenuURL("https://mystore.com/collections/all?sort=new", primary, public)
		require.NoError(t, err)
		assert.Equal(t, "/collections/all", to)
		assert.Empty(t, target)
	})

	t.Run("encoded path stays encoded", func(t *testing.T) {
		to, target, err := NormalizeMenuURL("https://mystore.myshopify.com/pages/a%20b%2Fc", primary, public)
		require.NoError(t, err)
		assert.Equal(t, "/pages/a%20b%2Fc", to)
		assert.Empty(t, target)
	})

	t.Run("primary domain becomes a relative path", func(t *testing.T) {
		to, _, err := NormalizeMenuURL("https://feliz.example/policies/refund-policy", primary, public)
		require.NoError(t, err)
		assert.Equal(t, "/policies/refund-policy", to)
	})

	t.Run("external url opens in a new tab", func(t *testing.T) {
		to, target, err := NormalizeMenuURL("https://external.com/page", primary, public)
		require.NoError(t, err)
		assert.Equal(t, "https://external.com/page", to)
		assert.Equal(t, TargetBlank, target)
	})

	t.Run("relative url has no target", func(t *testing.T) {
		to, target, err := NormalizeMenuURL("/collections", primary, public)
		require.NoError(t, err)
		assert.Equal(t, "/collections", to)
		assert.Empty(t, target)
	})

	t.Run("empty url becomes a hash", func(t *testing.T) {
		to, target, err := NormalizeMenuURL("", primary, public)
		require.NoError(t, err)
		assert.Equal(t, "#", to)
		assert.Equal(t, TargetBlank, target)
	})

	t.Run("empty domains never match", func(t *testing.T) {
		to, target, err := NormalizeMenuURL("https://external.com/page", "", "")
		require.NoError(t, err)
		assert.Equal(t, "https://external.com/page", to)
		assert.Equal(t, TargetBlank, target)
	})

	t.Run("malformed shop url returns error", func(t *testing.T) {
		_, _, err := NormalizeMenuURL("mystore.com/pages/about", primary, public)
		assert.ErrorIs(t, err, ErrInvalidMenuURL)
	})
}

func TestProcessMenu(t *testing.T) {
	t.Run("nil menu yields nil", func(t *testing.T) {
		out, err := ProcessMenu(nil, "", "mystore.com")
		require.NoError(t, err)
		assert.Nil(t, out)
	})

	t.Run("parents and children are normalized", func(t *testing.T) {
		menu := &Menu{Items: []MenuItem{
			{ID: "1", Title: "Shop", URL: "https://mystore.myshopify.com/collections", Items: []MenuItem{
				{ID: "1a", Title: "About", URL: "https://mystore.myshopify.com/pages/about"},
				{ID: "1b", Title: "Instagram", URL: "https://instagram.com/feliz"},
			}},
		}}

		out, err := ProcessMenu(menu, "https://feliz.example", "mystore.com")
		require.NoError(t, err)
		require.Len(t, out.Items, 1)
		assert.Equal(t, "/collections", out.Items[0].To)
		require.Len(t, out.Items[0].Items, 2)
		assert.Equal(t, ChildMenuItem{ID: "1a", Title: "About", To: "/pages/about"}, out.Items[0].Items[0])
		assert.Equal(t, TargetBlank, out.Items[0].Items[1].Target)
	})

	t.Run("processing is idempotent", func(t *testing.T) {
		menu := &Menu{Items: []MenuItem{
			{ID: "1", Title: "About", URL: "https://mystore.myshopify.com/pages/about"},
			{ID: "2", Title: "Ext", URL: "https://external.com/page"},
		}}
		first, err := ProcessMenu(menu, "", "mystore.com")
		require.NoError(t, err)

		again := &Menu{}
		for _, item := range first.Items {
			again.Items = append(again.Items, MenuItem{ID: item.ID, Title: item.Title, URL: item.To})
		}
		second, err := ProcessMenu(again, "", "mystore.com")
		require.NoError(t, err)

		for i := range first.Items {
			assert.Equal(t, first.Items[i].To, second.Items[i].To)
			assert.Equal(t, first.Items[i].Target, second.Items[i].Target)
		}
	})

	t.Run("malformed child url fails the whole menu", func(t *testing.T) {
		menu := &Menu{Items: []MenuItem{
			{ID: "1", Title: "Shop", URL: "/collections", Items: []MenuItem{
				{ID: "1a", Title: "Broken", URL: "mystore.com/broken"},
			}},
		}}
		_, err := ProcessMenu(menu, "", "mystore.com")
		assert.ErrorIs(t, err, ErrInvalidMenuURL)
	})
}

func TestFooterColumns(t *testing.T) {
	menu := &ProcessedMenu{Items: []ParentMenuItem{
		{ID: "1", Title: "Shop", Items: []ChildMenuItem{
			{ID: "1a", Title: "All"},
			{ID: "1b", Title: "Search"},
		}},
		{ID: "2", Title: "Privacy Policy"},
		{ID: "3", Title: "Help", Items: []ChildMenuItem{{ID: "3a", Title: "Your Choices"}}},
		{ID: "4", Title: "About"},
		{ID: "5", Title: "Extra"},
	}}

	cols := FooterColumns(menu)
	require.Len(t, cols, MaxFooterColumns)
	assert.Equal(t, "Shop", cols[0].Title)
	assert.Len(t, cols[0].Items, 1)
	assert.Equal(t, "Help", cols[1].Title)
	assert.Empty(t, cols[1].Items)
	assert.Equal(t, "About", cols[2].Title)

	assert.Nil(t, FooterColumns(nil))
}

func TestCartBadgeLabel(t *testing.T) {
	assert.Equal(t, "", CartBadgeLabel(0))
	assert.Equal(t, "3", CartBadgeLabel(3))
	assert.Equal(t, "9", CartBadgeLabel(9))
	assert.Equal(t, "9+", CartBadgeLabel(10))
}
