package domain

import (
	"net/url"
	"sort"
	"strings"
)

// Image is a catalog image.
type Image struct {
	ID      string `json:"id,omitempty"`
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}

// SelectedOption is a name/value pair identifying a variant.
type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PriceRange is the min/max variant price of a product.
type PriceRange struct {
	MinVariantPrice *Money
	MaxVariantPrice *Money
}

// ProductItem is the projection rendered by product cards.
type ProductItem struct {
	ID            string
	Handle        string
	Title         string
	FeaturedImage *Image
	PriceRange    PriceRange
}

// Collection is the projection rendered by collection cards and pages.
type Collection struct {
	ID          string
	Handle      string
	Title       string
	Description string
	Image       *Image
}

// Swatch is the visual hint of an option value.
type Swatch struct {
	Color    string
	ImageURL string
}

// Variant is a purchasable product variant.
type Variant struct {
	ID               string
	Title            string
	AvailableForSale bool
	ProductHandle    string
	ProductTitle     string
	SelectedOptions  []SelectedOption
	Price            *Money
	CompareAtPrice   *Money
	Image            *Image
}

// ProductOptionValue is one possible value of an option.
type ProductOptionValue struct {
	Name                   string
	Swatch                 *Swatch
	FirstSelectableVariant *Variant
}

// ProductOption is a product option such as Size or Color.
type ProductOption struct {
	Name         string
	OptionValues []ProductOptionValue
}

// Product is the full product page projection.
type Product struct {
	ID              string
	Handle          string
	Title           string
	Vendor          string
	DescriptionHTML string
	Options         []ProductOption
	SelectedVariant *Variant
	Variants        []Variant
	FeaturedImage   *Image
}

// MappedOptionValue is an option value resolved against the current selection.
type MappedOptionValue struct {
	Name               string
	Handle             string
	VariantURIQuery    string
	VariantOptions     []SelectedOption
	Selected           bool
	Available          bool
	Exists             bool
	IsDifferentProduct bool
	Swatch             *Swatch
}

// Disabled reports whether the value cannot be chosen for the current selection.
func (v MappedOptionValue) Disabled() bool {
	return !v.Exists || !v.Available
}

// Href returns the navigation target for the value.
func (v MappedOptionValue) Href() string {
	if v.IsDifferentProduct {
		return "/products/" + v.Handle + "?" + v.VariantURIQuery
	}
	return "?" + v.VariantURIQuery
}

// MappedProductOption is an option ready for the variant selector.
type MappedProductOption struct {
	Name         string
	OptionValues []MappedOptionValue
}

// Selectable reports whether the option is rendered; single-value options are collapsed.
func (o MappedProductOption) Selectable() bool {
	return len(o.OptionValues) > 1
}

// GetProductOptions resolves every option value against the selected variant.
// Availability comes from the catalog response; nothing is computed about stock.
func GetProductOptions(p *Product) []MappedProductOption {
	if p == nil {
		return nil
	}

	selected := map[string]string{}
	if p.SelectedVariant != nil {
		for _, so := range p.SelectedVariant.SelectedOptions {
			selected[so.Name] = so.Value
		}
	}

	byKey := make(map[string]*Variant, len(p.Variants)+1)
	for i := range p.Variants {
		v := &p.Variants[i]
		byKey[optionKey(v.SelectedOptions)] = v
	}
	if p.SelectedVariant != nil {
		if _, ok := byKey[optionKey(p.SelectedVariant.SelectedOptions)]; !ok {
			byKey[optionKey(p.SelectedVariant.SelectedOptions)] = p.SelectedVariant
		}
	}

	out := make([]MappedProductOption, 0, len(p.Options))
	for _, opt := range p.Options {
		values := make([]MappedOptionValue, 0, len(opt.OptionValues))
		for _, val := range opt.OptionValues {
			target := make([]SelectedOption, 0, len(p.Options))
			for _, o := range p.Options {
				value := selected[o.Name]
				if o.Name == opt.Name {
					value = val.Name
				}
				if value != "" {
					target = append(target, SelectedOption{Name: o.Name, Value: value})
				}
			}

			exact := byKey[optionKey(target)]
			variant := exact
			if variant == nil {
				variant = val.FirstSelectableVariant
			}

			m := MappedOptionValue{
				Name:     val.Name,
				Handle:   p.Handle,
				Selected: selected[opt.Name] == val.Name,
				Exists:   exact != nil,
				Swatch:   val.Swatch,
			}
			if exact != nil {
				m.Available = exact.AvailableForSale
			}
			if variant != nil {
				if variant.ProductHandle != "" {
					m.Handle = variant.ProductHandle
				}
				m.IsDifferentProduct = m.Handle != p.Handle
				m.VariantOptions = variant.SelectedOptions
			} else {
				m.VariantOptions = target
			}
			m.VariantURIQuery = VariantURIQuery(m.VariantOptions)
			values = append(values, m)
		}
		out = append(out, MappedProductOption{Name: opt.Name, OptionValues: values})
	}
	return out
}

// VariantURIQuery encodes selected options as a query string, keeping option order.
func VariantURIQuery(options []SelectedOption) string {
	parts := make([]string, 0, len(options))
	for _, o := range options {
		parts = append(parts, url.QueryEscape(o.Name)+"="+url.QueryEscape(o.Value))
	}
	return strings.Join(parts, "&")
}

// SelectedOptionsFromQuery reads the variant selection from request parameters.
// Pagination parameters are ignored. Output is sorted by name for stable queries.
func SelectedOptionsFromQuery(query url.Values) []SelectedOption {
	out := make([]SelectedOption, 0, len(query))
	for name, values := range query {
		if len(values) == 0 || values[0] == "" || paginationParams[name] {
			continue
		}
		out = append(out, SelectedOption{Name: name, Value: values[0]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

var paginationParams = map[string]bool{
	"cursor": true, "direction": true, "first": true, "last": true,
	"startCursor": true, "endCursor": true,
}

func optionKey(options []SelectedOption) string {
	pairs := make([]string, 0, len(options))
	for _, o := range options {
		pairs = append(pairs, o.Name+"\x00"+o.Value)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "\x01")
}

// AddToCartLabel is the label of the product form button.
func AddToCartLabel(v *Variant) string {
	if v != nil && v.AvailableForSale {
		return "Add to cart"
	}
	return "Sold out"
}

// CanAddToCart reports whether the add-to-cart button is enabled.
func CanAddToCart(v *Variant) bool {
	return v != nil && v.AvailableForSale
}
