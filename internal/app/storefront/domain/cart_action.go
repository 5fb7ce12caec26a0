package domain

import (
	"slices"
	"strings"
	"unicode"
)

// CartActionType names a cart mutation accepted by the /cart action route.
type CartActionType string

const (
	ActionLinesAdd            CartActionType = "LinesAdd"
	ActionLinesUpdate         CartActionType = "LinesUpdate"
	ActionLinesRemove         CartActionType = "LinesRemove"
	ActionDiscountCodesUpdate CartActionType = "DiscountCodesUpdate"
	ActionGiftCardCodesUpdate CartActionType = "GiftCardCodesUpdate"
	ActionGiftCardCodesRemove CartActionType = "GiftCardCodesRemove"
	ActionBuyerIdentityUpdate CartActionType = "BuyerIdentityUpdate"
)

// ParseCartActionType validates an action name submitted by a form.
func ParseCartActionType(s string) (CartActionType, error) {
	switch t := CartActionType(s); t {
	case ActionLinesAdd, ActionLinesUpdate, ActionLinesRemove,
		ActionDiscountCodesUpdate, ActionGiftCardCodesUpdate, ActionGiftCardCodesRemove,
		ActionBuyerIdentityUpdate:
		return t, nil
	}
	return "", ErrUnknownCartAction
}

// LineInput describes a line to add.
type LineInput struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`

	// Merchandise is an optional snapshot of the selected variant, used to
	// render an optimistic line before the platform confirms it.
	Merchandise *CartMerchandise `json:"selectedVariant,omitempty"`
}

// LineUpdateInput describes a quantity change for an existing line.
type LineUpdateInput struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// CartAction is one submitted cart mutation. Only the fields relevant to
// Type are populated.
type CartAction struct {
	Type          CartActionType
	Lines         []LineInput
	LineUpdates   []LineUpdateInput
	LineIDs       []string
	DiscountCodes []string
	GiftCardCodes []string
	CountryCode   string
}

// Validate checks the inputs required by the action type.
func (a CartAction) Validate() error {
	switch a.Type {
	case ActionLinesAdd:
		if len(a.Lines) == 0 {
			return ErrEmptyCartAction
		}
		for _, l := range a.Lines {
			if l.MerchandiseID == "" {
				return ErrMissingMerchandise
			}
			if l.Quantity < 0 {
				return ErrInvalidQuantity
			}
		}
	case ActionLinesUpdate:
		if len(a.LineUpdates) == 0 {
			return ErrEmptyCartAction
		}
		for _, l := range a.LineUpdates {
			if l.ID == "" {
				return ErrMissingLineID
			}
			if l.Quantity < 0 {
				return ErrInvalidQuantity
			}
		}
	case ActionLinesRemove:
		if len(a.LineIDs) == 0 {
			return ErrEmptyCartAction
		}
		for _, id := range a.LineIDs {
			if id == "" {
				return ErrMissingLineID
			}
		}
	case ActionGiftCardCodesRemove:
		if len(a.GiftCardCodes) == 0 {
			return ErrEmptyCartAction
		}
		for _, id := range a.GiftCardCodes {
			if id == "" {
				return ErrMissingGiftCardCode
			}
		}
	case ActionDiscountCodesUpdate, ActionGiftCardCodesUpdate:
		// An empty list is meaningful: it clears the codes.
	case ActionBuyerIdentityUpdate:
		if a.CountryCode == "" {
			return ErrEmptyCartAction
		}
	default:
		return ErrUnknownCartAction
	}
	return nil
}

// DiscountCodesForUpdate builds the code list for a discount update: the newly
// entered code (if any) first, followed by the codes already applied.
// Submitting the form without inputs yields an empty list, which removes all codes.
func DiscountCodesForUpdate(newCode string, existing []string) []string {
	codes := make([]string, 0, len(existing)+1)
	seen := make(map[string]bool, len(existing)+1)
	if c := strings.TrimSpace(newCode); c != "" {
		codes = append(codes, c)
		seen[c] = true
	}
	for _, c := range existing {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		codes = append(codes, c)
	}
	return codes
}

// NormalizeGiftCardCode strips all whitespace from a gift card code.
func NormalizeGiftCardCode(code string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, code)
}

// GiftCardCodesForUpdate appends the normalized new code to the previously
// applied codes unless it is already present.
func GiftCardCodesForUpdate(newCode string, applied []string) []string {
	codes := make([]string, 0, len(applied)+1)
	for _, c := range applied {
		if c = NormalizeGiftCardCode(c); c != "" && !slices.Contains(codes, c) {
			codes = append(codes, c)
		}
	}
	if c := NormalizeGiftCardCode(newCode); c != "" && !slices.Contains(codes, c) {
		codes = append(codes, c)
	}
	return codes
}

// AppliedGiftCardCodes keeps the codes whose last characters still match a
// gift card applied to the cart. The platform never returns full codes, so
// this is how a removal is reflected in the codes remembered for later updates.
func AppliedGiftCardCodes(codes []string, cart *Cart) []string {
	out := make([]string, 0, len(codes))
	if cart == nil {
		return out
	}
	for _, code := range codes {
		code = NormalizeGiftCardCode(code)
		suffix := strings.ToLower(giftCardSuffix(code))
		if suffix == "" || slices.Contains(out, code) {
			continue
		}
		if slices.ContainsFunc(cart.AppliedGiftCards, func(g AppliedGiftCard) bool {
			return strings.ToLower(g.LastCharacters) == suffix
		}) {
			out = append(out, code)
		}
	}
	return out
}
