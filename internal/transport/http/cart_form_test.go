package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
)

func TestParseCartSubmission(t *testing.T) {
	parse := func(t *testing.T, req *http.Request, applied ...string) *cartSubmission {
		t.Helper()
		sub, err := parseCartSubmission(httptest.NewRecorder(), req, applied)
		require.NoError(t, err)
		return sub
	}

	t.Run("sdk cartFormInput field", func(t *testing.T) {
		sub := parse(t, formRequest(url.Values{
			cartFormInputField: {`{"action":"LinesAdd","inputs":{"lines":[{"merchandiseId":"variant-1","quantity":2,"selectedVariant":{"productTitle":"Snow Globe"}}]}}`},
		}))

		assert.False(t, sub.JSON)
		assert.Equal(t, domain.ActionLinesAdd, sub.Action.Type)
		require.Len(t, sub.Action.Lines, 1)
		assert.Equal(t, "variant-1", sub.Action.Lines[0].MerchandiseID)
		require.NotNil(t, sub.Action.Lines[0].Merchandise)
		assert.Equal(t, "Snow Globe", sub.Action.Lines[0].Merchandise.ProductTitle)
	})

	t.Run("discount apply prepends the new code", func(t *testing.T) {
		sub := parse(t, formRequest(url.Values{
			"action":        {"DiscountCodesUpdate"},
			"discountCode":  {" JOY "},
			"discountCodes": {"XMAS"},
		}))
		assert.Equal(t, []string{"JOY", "XMAS"}, sub.Action.DiscountCodes)
	})

	t.Run("discount remove sends an empty list", func(t *testing.T) {
		sub := parse(t, formRequest(url.Values{"action": {"DiscountCodesUpdate"}}))
		assert.NotNil(t, sub.Action.DiscountCodes)
		assert.Empty(t, sub.Action.DiscountCodes)
	})

	t.Run("line quantity update", func(t *testing.T) {
		sub := parse(t, formRequest(url.Values{"action": {"LinesUpdate"}, "lineId": {"line-1"}, "quantity": {"0"}}))
		assert.Equal(t, []domain.LineUpdateInput{{ID: "line-1", Quantity: 0}}, sub.Action.LineUpdates)
	})

	t.Run("buyer identity is upper cased", func(t *testing.T) {
		sub := parse(t, formRequest(url.Values{"action": {"BuyerIdentityUpdate"}, "countryCode": {"se"}}))
		assert.Equal(t, "SE", sub.Action.CountryCode)
	})

	t.Run("gift card codes keep the remembered ones", func(t *testing.T) {
		sub := parse(t, formRequest(url.Values{"action": {"GiftCardCodesUpdate"}, "giftCardCode": {"NEW CODE"}}), "OLDCODE")
		assert.Equal(t, []string{"OLDCODE", "NEWCODE"}, sub.Action.GiftCardCodes)
		assert.Equal(t, "NEW CODE", sub.GiftCardInput)
	})

	t.Run("json body and optimistic flag", func(t *testing.T) {
		sub := parse(t, jsonRequest("/cart?optimistic=1", `{"action":"LinesRemove","inputs":{"lineIds":["line-1"]}}`))
		assert.True(t, sub.JSON)
		assert.True(t, sub.Optimistic)
		assert.Equal(t, []string{"line-1"}, sub.Action.LineIDs)
	})

	t.Run("malformed json is rejected", func(t *testing.T) {
		_, err := parseCartSubmission(httptest.NewRecorder(), jsonRequest("/cart", `{"action":`), nil)
		assert.ErrorIs(t, err, domain.ErrUnknownCartAction)
	})
}

func TestSafeRedirect(t *testing.T) {
	assert.Equal(t, "/cart", safeRedirect("/cart"))
	assert.Empty(t, safeRedirect("//evil.example"))
	assert.Empty(t, safeRedirect("/\\evil.example"))
	assert.Empty(t, safeRedirect("https://evil.example"))
	assert.Empty(t, safeRedirect(""))
}
