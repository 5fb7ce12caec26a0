package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutRepo_GetHeader(t *testing.T) {
	sf := &fakeStorefront{response: `{
		"shop":{"id":"s1","name":"Feliz","description":"Holiday goods",
			"primaryDomain":{"url":"https://feliz.example"},
			"brand":{"logo":{"image":{"url":"https://cdn/logo.png"}}}},
		"menu":{"id":"m1","items":[{"id":"i1","title":"Sale","type":"COLLECTION","url":"https://feliz.example/collections/sale","items":[]}]}}`}

	shop, menu, err := NewLayoutRepo(sf).GetHeader(context.Background(), "main-menu")
	require.NoError(t, err)

	assert.Equal(t, HeaderQuery, sf.document)
	assert.Equal(t, "main-menu", sf.variables["headerMenuHandle"])
	assert.Equal(t, "Feliz", shop.Name)
	assert.Equal(t, "https://feliz.example", shop.PrimaryDomainURL)
	assert.Equal(t, "https://cdn/logo.png", shop.LogoURL)
	require.NotNil(t, menu)
	require.Len(t, menu.Items, 1)
	assert.Equal(t, "Sale", menu.Items[0].Title)
}

func TestLayoutRepo_GetFooter(t *testing.T) {
	t.Run("menu", func(t *testing.T) {
		sf := &fakeStorefront{response: `{"menu":{"id":"f1","items":[{"id":"i1","title":"Policies","url":"/policies","items":[]}]}}`}
		menu, err := NewLayoutRepo(sf).GetFooter(context.Background(), "footer")
		require.NoError(t, err)
		assert.Equal(t, "footer", sf.variables["footerMenuHandle"])
		assert.Equal(t, "f1", menu.ID)
	})

	t.Run("missing menu", func(t *testing.T) {
		menu, err := NewLayoutRepo(&fakeStorefront{response: `{"menu":null}`}).GetFooter(context.Background(), "footer")
		require.NoError(t, err)
		assert.Nil(t, menu)
	})
}
