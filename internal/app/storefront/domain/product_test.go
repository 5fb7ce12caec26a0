package domain

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hoodie() *Product {
	variant := func(id, color, size string, available bool) Variant {
		return Variant{
			ID:               id,
			AvailableForSale: available,
			ProductHandle:    "hoodie",
			SelectedOptions:  []SelectedOption{{Name: "Color", Value: color}, {Name: "Size", Value: size}},
		}
	}
	variants := []Variant{
		variant("v-red-s", "Red", "S", true),
		variant("v-red-m", "Red", "M", false),
		variant("v-blue-s", "Blue", "S", true),
	}
	otherProduct := &Variant{
		ID:               "v-green",
		AvailableForSale: true,
		ProductHandle:    "hoodie-green",
		SelectedOptions:  []SelectedOption{{Name: "Color", Value: "Green"}, {Name: "Size", Value: "S"}},
	}

	return &Product{
		ID:     "p1",
		Handle: "hoodie",
		Options: []ProductOption{
			{Name: "Color", OptionValues: []ProductOptionValue{
				{Name: "Red"}, {Name: "Blue"}, {Name: "Green", FirstSelectableVariant: otherProduct},
			}},
			{Name: "Size", OptionValues: []ProductOptionValue{{Name: "S"}, {Name: "M"}}},
			{Name: "Material", OptionValues: []ProductOptionValue{{Name: "Cotton"}}},
		},
		SelectedVariant: &variants[0],
		Variants:        variants,
	}
}

func findValue(t *testing.T, opts []MappedProductOption, option, value string) MappedOptionValue {
	t.Helper()
	for _, o := range opts {
		if o.Name != option {
			continue
		}
		for _, v := range o.OptionValues {
			if v.Name == value {
				return v
			}
		}
	}
	t.Fatalf("option %s=%s not found", option, value)
	return MappedOptionValue{}
}

func TestGetProductOptions(t *testing.T) {
	opts := GetProductOptions(hoodie())
	require.Len(t, opts, 3)

	t.Run("selected value", func(t *testing.T) {
		red := findValue(t, opts, "Color", "Red")
		assert.True(t, red.Selected)
		assert.True(t, red.Exists)
		assert.True(t, red.Available)
		assert.False(t, red.Disabled())
		assert.Equal(t, "Color=Red&Size=S", red.VariantURIQuery)
	})

	t.Run("existing but unavailable value is disabled", func(t *testing.T) {
		m := findValue(t, opts, "Size", "M")
		assert.False(t, m.Selected)
		assert.True(t, m.Exists)
		assert.False(t, m.Available)
		assert.True(t, m.Disabled())
	})

	t.Run("available sibling", func(t *testing.T) {
		blue := findValue(t, opts, "Color", "Blue")
		assert.False(t, blue.Disabled())
		assert.False(t, blue.IsDifferentProduct)
		assert.Equal(t, "?Color=Blue&Size=S", blue.Href())
		assert.Equal(t, []SelectedOption{{Name: "Color", Value: "Blue"}, {Name: "Size", Value: "S"}}, blue.VariantOptions)
	})

	t.Run("value resolving to another product links there", func(t *testing.T) {
		green := findValue(t, opts, "Color", "Green")
		assert.True(t, green.IsDifferentProduct)
		assert.Equal(t, "hoodie-green", green.Handle)
		assert.Equal(t, "/products/hoodie-green?Color=Green&Size=S", green.Href())
		assert.False(t, green.Exists)
		assert.True(t, green.Disabled())
	})

	t.Run("single value options collapse", func(t *testing.T) {
		assert.True(t, opts[0].Selectable())
		assert.True(t, opts[1].Selectable())
		assert.False(t, opts[2].Selectable())
	})

	assert.Nil(t, GetProductOptions(nil))
}

func TestSelectedOptionsFromQuery(t *testing.T) {
	q := url.Values{"Size": {"M"}, "Color": {"Red"}, "cursor": {"x"}, "Empty": {""}}
	assert.Equal(t, []SelectedOption{{Name: "Color", Value: "Red"}, {Name: "Size", Value: "M"}}, SelectedOptionsFromQuery(q))
}

func TestAddToCartLabel(t *testing.T) {
	assert.Equal(t, "Sold out", AddToCartLabel(nil))
	assert.Equal(t, "Sold out", AddToCartLabel(&Variant{}))
	assert.Equal(t, "Add to cart", AddToCartLabel(&Variant{AvailableForSale: true}))
	assert.False(t, CanAddToCart(nil))
	assert.True(t, CanAddToCart(&Variant{AvailableForSale: true}))
}

func TestVariantURIQuery(t *testing.T) {
	assert.Equal(t, "Color=Dark+Red&Size=XL", VariantURIQuery([]SelectedOption{{Name: "Color", Value: "Dark Red"}, {Name: "Size", Value: "XL"}}))
}
