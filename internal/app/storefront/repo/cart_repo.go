package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/contracts"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
)

// CartRepo implements CartRepository over the Storefront API.
// Every mutation is sent exactly once.
type CartRepo struct {
	client Storefront
}

// NewCartRepo creates a new CartRepo.
func NewCartRepo(client Storefront) contracts.CartRepository {
	return &CartRepo{client: client}
}

// Get retrieves a cart by id.
func (r *CartRepo) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	if cartID == "" {
		return nil, domain.ErrCartNotFound
	}

	var data struct {
		Cart *cartNode `json:"cart"`
	}
	if err := r.client.Query(ctx, CartQuery, map[string]any{"cartId": cartID}, &data); err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if data.Cart == nil {
		return nil, domain.ErrCartNotFound
	}
	return data.Cart.toDomain(), nil
}

// Create creates a cart with the given lines.
func (r *CartRepo) Create(ctx context.Context, lines []domain.LineInput, countryCode string) (*contracts.CartResult, error) {
	input := map[string]any{"lines": lineInputs(lines)}
	if countryCode != "" {
		input["buyerIdentity"] = map[string]any{"countryCode": countryCode}
	}
	return r.mutate(ctx, CartCreateMutation, "cartCreate", map[string]any{"input": input})
}

// AddLines adds merchandise lines.
func (r *CartRepo) AddLines(ctx context.Context, cartID string, lines []domain.LineInput) (*contracts.CartResult, error) {
	return r.mutate(ctx, CartLinesAddMutation, "cartLinesAdd", map[string]any{
		"cartId": cartID,
		"lines":  lineInputs(lines),
	})
}

// UpdateLines changes line quantities.
func (r *CartRepo) UpdateLines(ctx context.Context, cartID string, lines []domain.LineUpdateInput) (*contracts.CartResult, error) {
	updates := make([]map[string]any, 0, len(lines))
	for _, l := range lines {
		updates = append(updates, map[string]any{"id": l.ID, "quantity": l.Quantity})
	}
	return r.mutate(ctx, CartLinesUpdateMutation, "cartLinesUpdate", map[string]any{
		"cartId": cartID,
		"lines":  updates,
	})
}

// RemoveLines removes lines by id.
func (r *CartRepo) RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*contracts.CartResult, error) {
	return r.mutate(ctx, CartLinesRemoveMutation, "cartLinesRemove", map[string]any{
		"cartId":  cartID,
		"lineIds": lineIDs,
	})
}

// UpdateDiscountCodes replaces the discount codes. An empty list removes all codes.
func (r *CartRepo) UpdateDiscountCodes(ctx context.Context, cartID string, codes []string) (*contracts.CartResult, error) {
	if codes == nil {
		codes = []string{}
	}
	return r.mutate(ctx, CartDiscountCodesUpdateMutation, "cartDiscountCodesUpdate", map[string]any{
		"cartId":        cartID,
		"discountCodes": codes,
	})
}

// UpdateGiftCardCodes replaces the gift card codes.
func (r *CartRepo) UpdateGiftCardCodes(ctx context.Context, cartID string, codes []string) (*contracts.CartResult, error) {
	if codes == nil {
		codes = []string{}
	}
	return r.mutate(ctx, CartGiftCardCodesUpdateMutation, "cartGiftCardCodesUpdate", map[string]any{
		"cartId":        cartID,
		"giftCardCodes": codes,
	})
}

// RemoveGiftCardCodes removes applied gift cards by id.
func (r *CartRepo) RemoveGiftCardCodes(ctx context.Context, cartID string, giftCardIDs []string) (*contracts.CartResult, error) {
	return r.mutate(ctx, CartGiftCardCodesRemoveMutation, "cartGiftCardCodesRemove", map[string]any{
		"cartId":             cartID,
		"appliedGiftCardIds": giftCardIDs,
	})
}

// UpdateBuyerIdentity sets the buyer's country.
func (r *CartRepo) UpdateBuyerIdentity(ctx context.Context, cartID string, countryCode string) (*contracts.CartResult, error) {
	return r.mutate(ctx, CartBuyerIdentityUpdateMutation, "cartBuyerIdentityUpdate", map[string]any{
		"cartId":        cartID,
		"buyerIdentity": map[string]any{"countryCode": strings.ToUpper(countryCode)},
	})
}

func (r *CartRepo) mutate(ctx context.Context, document, field string, vars map[string]any) (*contracts.CartResult, error) {
	var data map[string]*cartPayload
	if err := r.client.Mutate(ctx, document, vars, &data); err != nil {
		return nil, fmt.Errorf("failed to run %s: %w", field, err)
	}
	return data[field].toResult(), nil
}

func lineInputs(lines []domain.LineInput) []map[string]any {
	out := make([]map[string]any, 0, len(lines))
	for _, l := range lines {
		qty := l.Quantity
		if qty <= 0 {
			qty = 1
		}
		out = append(out, map[string]any{"merchandiseId": l.MerchandiseID, "quantity": qty})
	}
	return out
}
