package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCart() *Cart {
	price, _ := NewMoney("25.00", "USD")
	return &Cart{
		ID:            "gid://shopify/Cart/c1",
		TotalQuantity: 3,
		Lines: []CartLine{
			{ID: "line-1", Quantity: 1, Merchandise: CartMerchandise{ID: "variant-1", Price: price}},
			{ID: "line-2", Quantity: 2, Merchandise: CartMerchandise{ID: "variant-2", Price: price}},
		},
		DiscountCodes: []DiscountCode{
			{Code: "WELCOME", Applicable: true},
			{Code: "EXPIRED", Applicable: false},
		},
		AppliedGiftCards: []AppliedGiftCard{{ID: "gift-1", LastCharacters: "ABCD"}},
	}
}

func TestMerge_NoPendingReturnsServerCart(t *testing.T) {
	cart := newTestCart()
	assert.Same(t, cart, Merge(cart, nil))
}

func TestMerge_DoesNotMutateServerCart(t *testing.T) {
	cart := newTestCart()
	_ = Merge(cart, []CartAction{
		{Type: ActionLinesRemove, LineIDs: []string{"line-1"}},
		{Type: ActionDiscountCodesUpdate},
	})

	assert.Len(t, cart.Lines, 2)
	assert.Len(t, cart.DiscountCodes, 2)
	assert.Equal(t, 3, cart.TotalQuantity)
	assert.False(t, cart.IsOptimistic)
}

func TestMerge_LinesAdd(t *testing.T) {
	t.Run("existing merchandise increases quantity", func(t *testing.T) {
		out := Merge(newTestCart(), []CartAction{
			{Type: ActionLinesAdd, Lines: []LineInput{{MerchandiseID: "variant-1", Quantity: 2}}},
		})
		require.Len(t, out.Lines, 2)
		assert.Equal(t, 3, out.Lines[0].Quantity)
		assert.True(t, out.Lines[0].IsOptimistic)
		assert.Equal(t, 5, out.TotalQuantity)
		assert.True(t, out.IsOptimistic)
	})

	t.Run("new merchandise appends an optimistic line", func(t *testing.T) {
		snapshot := &CartMerchandise{Title: "Large", ProductTitle: "Hoodie"}
		out := Merge(newTestCart(), []CartAction{
			{Type: ActionLinesAdd, Lines: []LineInput{{MerchandiseID: "variant-9", Merchandise: snapshot}}},
		})
		require.Len(t, out.Lines, 3)
		added := out.Lines[2]
		assert.Equal(t, OptimisticLinePrefix+"variant-9", added.ID)
		assert.Equal(t, 1, added.Quantity)
		assert.Equal(t, "variant-9", added.Merchandise.ID)
		assert.Equal(t, "Hoodie", added.Merchandise.ProductTitle)
		assert.Equal(t, 4, out.TotalQuantity)
	})

	t.Run("nil server cart is created", func(t *testing.T) {
		out := Merge(nil, []CartAction{
			{Type: ActionLinesAdd, Lines: []LineInput{{MerchandiseID: "variant-1", Quantity: 1}}},
		})
		require.NotNil(t, out)
		assert.Equal(t, 1, out.TotalQuantity)
		assert.True(t, out.HasItems())
	})
}

func TestMerge_LinesUpdateAndRemove(t *testing.T) {
	out := Merge(newTestCart(), []CartAction{
		{Type: ActionLinesUpdate, LineUpdates: []LineUpdateInput{{ID: "line-2", Quantity: 5}, {ID: "missing", Quantity: 1}}},
	})
	assert.Equal(t, 5, out.Lines[1].Quantity)
	assert.Equal(t, 6, out.TotalQuantity)

	out = Merge(newTestCart(), []CartAction{
		{Type: ActionLinesUpdate, LineUpdates: []LineUpdateInput{{ID: "line-1", Quantity: 0}}},
	})
	require.Len(t, out.Lines, 1)
	assert.Equal(t, "line-2", out.Lines[0].ID)

	out = Merge(newTestCart(), []CartAction{
		{Type: ActionLinesRemove, LineIDs: []string{"line-1", "line-2"}},
	})
	assert.Empty(t, out.Lines)
	assert.Equal(t, 0, out.TotalQuantity)
	assert.False(t, out.HasItems())
}

func TestMerge_AppliesInSubmissionOrder(t *testing.T) {
	out := Merge(newTestCart(), []CartAction{
		{Type: ActionLinesRemove, LineIDs: []string{"line-1"}},
		{Type: ActionLinesAdd, Lines: []LineInput{{MerchandiseID: "variant-1", Quantity: 1}}},
	})
	require.Len(t, out.Lines, 2)
	assert.Equal(t, OptimisticLinePrefix+"variant-1", out.Lines[1].ID)

	out = Merge(newTestCart(), []CartAction{
		{Type: ActionLinesAdd, Lines: []LineInput{{MerchandiseID: "variant-1", Quantity: 1}}},
		{Type: ActionLinesRemove, LineIDs: []string{"line-1"}},
	})
	require.Len(t, out.Lines, 1)
	assert.Equal(t, "line-2", out.Lines[0].ID)
}

func TestMerge_Codes(t *testing.T) {
	t.Run("discount update replaces codes", func(t *testing.T) {
		out := Merge(newTestCart(), []CartAction{
			{Type: ActionDiscountCodesUpdate, DiscountCodes: []string{"SUMMER", "WELCOME"}},
		})
		assert.Equal(t, []DiscountCode{{Code: "SUMMER", Applicable: true}, {Code: "WELCOME", Applicable: true}}, out.DiscountCodes)
		assert.Equal(t, []string{"SUMMER", "WELCOME"}, out.ActiveDiscountCodes())
	})

	t.Run("resubmitted inapplicable code shows as applicable", func(t *testing.T) {
		out := Merge(newTestCart(), []CartAction{
			{Type: ActionDiscountCodesUpdate, DiscountCodes: []string{"WELCOME", "EXPIRED"}},
		})
		assert.Equal(t, []string{"WELCOME", "EXPIRED"}, out.ActiveDiscountCodes())
	})

	t.Run("empty discount update clears codes", func(t *testing.T) {
		out := Merge(newTestCart(), []CartAction{{Type: ActionDiscountCodesUpdate}})
		assert.Empty(t, out.DiscountCodes)
	})

	t.Run("gift card update adds unknown suffixes", func(t *testing.T) {
		out := Merge(newTestCart(), []CartAction{
			{Type: ActionGiftCardCodesUpdate, GiftCardCodes: []string{"XXXX ABCD", "1234 5678 WXYZ"}},
		})
		require.Len(t, out.AppliedGiftCards, 2)
		assert.Equal(t, "WXYZ", out.AppliedGiftCards[1].LastCharacters)
	})

	t.Run("gift card remove drops by id", func(t *testing.T) {
		out := Merge(newTestCart(), []CartAction{
			{Type: ActionGiftCardCodesRemove, GiftCardCodes: []string{"gift-1"}},
		})
		assert.Empty(t, out.AppliedGiftCards)
	})

	t.Run("buyer identity sets country", func(t *testing.T) {
		out := Merge(newTestCart(), []CartAction{{Type: ActionBuyerIdentityUpdate, CountryCode: "CA"}})
		assert.Equal(t, "CA", out.BuyerCountryCode)
	})
}
