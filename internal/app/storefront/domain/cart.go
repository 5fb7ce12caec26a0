package domain

// Cart is the storefront's view of a platform cart. The platform owns its
// lifecycle; the storefront only reads it and submits actions against it.
type Cart struct {
	ID               string            `json:"id"`
	CheckoutURL      string            `json:"checkoutUrl"`
	TotalQuantity    int               `json:"totalQuantity"`
	Note             string            `json:"note,omitempty"`
	Lines            []CartLine        `json:"lines"`
	Cost             CartCost          `json:"cost"`
	DiscountCodes    []DiscountCode    `json:"discountCodes"`
	AppliedGiftCards []AppliedGiftCard `json:"appliedGiftCards"`
	BuyerCountryCode string            `json:"buyerCountryCode,omitempty"`
	IsOptimistic     bool              `json:"isOptimistic,omitempty"`
}

// CartLine is one merchandise entry in a cart.
type CartLine struct {
	ID           string          `json:"id"`
	Quantity     int             `json:"quantity"`
	Merchandise  CartMerchandise `json:"merchandise"`
	Cost         CartLineCost    `json:"cost"`
	IsOptimistic bool            `json:"isOptimistic,omitempty"`
}

// CartMerchandise is the product variant referenced by a cart line.
type CartMerchandise struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	ProductTitle     string           `json:"productTitle"`
	ProductHandle    string           `json:"productHandle"`
	Image            *Image           `json:"image,omitempty"`
	SelectedOptions  []SelectedOption `json:"selectedOptions"`
	Price            *Money           `json:"price,omitempty"`
	AvailableForSale bool             `json:"availableForSale"`
}

// CartLineCost holds the resolved prices of a line.
type CartLineCost struct {
	TotalAmount       *Money `json:"totalAmount,omitempty"`
	AmountPerQuantity *Money `json:"amountPerQuantity,omitempty"`
	CompareAtAmount   *Money `json:"compareAtAmountPerQuantity,omitempty"`
}

// CartCost is the cost summary of a cart.
type CartCost struct {
	SubtotalAmount *Money `json:"subtotalAmount,omitempty"`
	TotalAmount    *Money `json:"totalAmount,omitempty"`
	TotalTaxAmount *Money `json:"totalTaxAmount,omitempty"`
}

// DiscountCode is a code entered on the cart; the platform decides applicability.
type DiscountCode struct {
	Code       string `json:"code"`
	Applicable bool   `json:"applicable"`
}

// AppliedGiftCard is a gift card consumed by the cart.
type AppliedGiftCard struct {
	ID             string `json:"id"`
	LastCharacters string `json:"lastCharacters"`
	AmountUsed     *Money `json:"amountUsed,omitempty"`
}

// HasItems reports whether lines and the summary panel should render.
func (c *Cart) HasItems() bool {
	return c != nil && c.TotalQuantity > 0
}

// LineCount returns the number of lines, tolerating a nil cart.
func (c *Cart) LineCount() int {
	if c == nil {
		return 0
	}
	return len(c.Lines)
}

// Quantity returns the total quantity, tolerating a nil cart.
func (c *Cart) Quantity() int {
	if c == nil {
		return 0
	}
	return c.TotalQuantity
}

// ActiveDiscountCodes returns the codes flagged applicable, in cart order.
// Inapplicable codes are neither displayed nor carried in the removal form.
func (c *Cart) ActiveDiscountCodes() []string {
	if c == nil {
		return []string{}
	}
	codes := make([]string, 0, len(c.DiscountCodes))
	for _, d := range c.DiscountCodes {
		if d.Applicable {
			codes = append(codes, d.Code)
		}
	}
	return codes
}

// HasActiveDiscount reports whether at least one applicable code exists.
func (c *Cart) HasActiveDiscount() bool {
	return len(c.ActiveDiscountCodes()) > 0
}

// LineByMerchandise finds the line for a merchandise id.
func (c *Cart) LineByMerchandise(merchandiseID string) (int, bool) {
	if c == nil {
		return -1, false
	}
	for i, l := range c.Lines {
		if l.Merchandise.ID == merchandiseID {
			return i, true
		}
	}
	return -1, false
}

// Copy returns a deep copy so projections never alias the server cart.
func (c *Cart) Copy() *Cart {
	if c == nil {
		return nil
	}
	out := *c
	out.Lines = make([]CartLine, len(c.Lines))
	for i, l := range c.Lines {
		l.Merchandise.SelectedOptions = append([]SelectedOption(nil), l.Merchandise.SelectedOptions...)
		out.Lines[i] = l
	}
	out.DiscountCodes = append([]DiscountCode(nil), c.DiscountCodes...)
	out.AppliedGiftCards = append([]AppliedGiftCard(nil), c.AppliedGiftCards...)
	return &out
}

// RecountQuantity recomputes TotalQuantity from the lines.
func (c *Cart) RecountQuantity() {
	total := 0
	for _, l := range c.Lines {
		total += l.Quantity
	}
	c.TotalQuantity = total
}
