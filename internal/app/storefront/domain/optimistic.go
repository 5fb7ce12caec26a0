package domain

import "slices"

// OptimisticLinePrefix prefixes the ids of lines that only exist in a projection.
const OptimisticLinePrefix = "optimistic:"

// Merge projects pending, not yet confirmed actions onto the last known server
// cart, in submission order. It never mutates serverCart and performs no I/O.
//
// Prices are not recomputed: lines whose quantity changed keep the cost the
// platform last reported until the platform confirms the action.
func Merge(serverCart *Cart, pending []CartAction) *Cart {
	if len(pending) == 0 {
		return serverCart
	}

	projected := serverCart.Copy()
	if projected == nil {
		projected = &Cart{}
	}

	for _, action := range pending {
		applyPending(projected, action)
	}

	projected.IsOptimistic = true
	projected.RecountQuantity()
	return projected
}

func applyPending(c *Cart, a CartAction) {
	switch a.Type {
	case ActionLinesAdd:
		for _, in := range a.Lines {
			qty := in.Quantity
			if qty <= 0 {
				qty = 1
			}
			if i, ok := c.LineByMerchandise(in.MerchandiseID); ok {
				c.Lines[i].Quantity += qty
				c.Lines[i].IsOptimistic = true
				continue
			}
			merch := CartMerchandise{ID: in.MerchandiseID}
			if in.Merchandise != nil {
				merch = *in.Merchandise
				merch.ID = in.MerchandiseID
			}
			c.Lines = append(c.Lines, CartLine{
				ID:           OptimisticLinePrefix + in.MerchandiseID,
				Quantity:     qty,
				Merchandise:  merch,
				Cost:         CartLineCost{AmountPerQuantity: merch.Price},
				IsOptimistic: true,
			})
		}

	case ActionLinesUpdate:
		for _, up := range a.LineUpdates {
			i := slices.IndexFunc(c.Lines, func(l CartLine) bool { return l.ID == up.ID })
			if i < 0 {
				continue
			}
			if up.Quantity <= 0 {
				c.Lines = slices.Delete(c.Lines, i, i+1)
				continue
			}
			c.Lines[i].Quantity = up.Quantity
			c.Lines[i].IsOptimistic = true
		}

	case ActionLinesRemove:
		c.Lines = slices.DeleteFunc(c.Lines, func(l CartLine) bool {
			return slices.Contains(a.LineIDs, l.ID)
		})

	case ActionDiscountCodesUpdate:
		// Codes show as applicable until the platform says otherwise.
		codes := make([]DiscountCode, 0, len(a.DiscountCodes))
		for _, code := range a.DiscountCodes {
			codes = append(codes, DiscountCode{Code: code, Applicable: true})
		}
		c.DiscountCodes = codes

	case ActionGiftCardCodesUpdate:
		for _, code := range a.GiftCardCodes {
			suffix := giftCardSuffix(NormalizeGiftCardCode(code))
			if suffix == "" {
				continue
			}
			known := slices.ContainsFunc(c.AppliedGiftCards, func(g AppliedGiftCard) bool {
				return g.LastCharacters == suffix
			})
			if !known {
				c.AppliedGiftCards = append(c.AppliedGiftCards, AppliedGiftCard{LastCharacters: suffix})
			}
		}

	case ActionGiftCardCodesRemove:
		c.AppliedGiftCards = slices.DeleteFunc(c.AppliedGiftCards, func(g AppliedGiftCard) bool {
			return slices.Contains(a.GiftCardCodes, g.ID)
		})

	case ActionBuyerIdentityUpdate:
		c.BuyerCountryCode = a.CountryCode
	}
}

// giftCardSuffix returns the last four characters the platform exposes.
func giftCardSuffix(code string) string {
	r := []rune(code)
	if len(r) <= 4 {
		return string(r)
	}
	return string(r[len(r)-4:])
}
