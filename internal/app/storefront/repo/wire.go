package repo

import (
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/contracts"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
)

// Wire shapes of the Storefront API responses. They mirror the documents in
// documents.go and are mapped to domain types right after decoding.

type productItemNode struct {
	ID            string        `json:"id"`
	Handle        string        `json:"handle"`
	Title         string        `json:"title"`
	FeaturedImage *domain.Image `json:"featuredImage"`
	PriceRange    struct {
		MinVariantPrice *domain.Money `json:"minVariantPrice"`
		MaxVariantPrice *domain.Money `json:"maxVariantPrice"`
	} `json:"priceRange"`
}

func (n productItemNode) toDomain() domain.ProductItem {
	return domain.ProductItem{
		ID:            n.ID,
		Handle:        n.Handle,
		Title:         n.Title,
		FeaturedImage: n.FeaturedImage,
		PriceRange: domain.PriceRange{
			MinVariantPrice: n.PriceRange.MinVariantPrice,
			MaxVariantPrice: n.PriceRange.MaxVariantPrice,
		},
	}
}

type productConnection struct {
	Nodes    []productItemNode `json:"nodes"`
	PageInfo domain.PageInfo   `json:"pageInfo"`
}

func (c productConnection) toDomain() *domain.Connection[domain.ProductItem] {
	out := &domain.Connection[domain.ProductItem]{
		Nodes:    make([]domain.ProductItem, 0, len(c.Nodes)),
		PageInfo: c.PageInfo,
	}
	for _, n := range c.Nodes {
		out.Nodes = append(out.Nodes, n.toDomain())
	}
	return out
}

type collectionNode struct {
	ID          string        `json:"id"`
	Handle      string        `json:"handle"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Image       *domain.Image `json:"image"`
}

func (n collectionNode) toDomain() domain.Collection {
	return domain.Collection{
		ID:          n.ID,
		Handle:      n.Handle,
		Title:       n.Title,
		Description: n.Description,
		Image:       n.Image,
	}
}

type variantNode struct {
	ID               string                  `json:"id"`
	Title            string                  `json:"title"`
	AvailableForSale bool                    `json:"availableForSale"`
	Price            *domain.Money           `json:"price"`
	CompareAtPrice   *domain.Money           `json:"compareAtPrice"`
	Image            *domain.Image           `json:"image"`
	SelectedOptions  []domain.SelectedOption `json:"selectedOptions"`
	Product          struct {
		Handle string `json:"handle"`
		Title  string `json:"title"`
	} `json:"product"`
}

func (n *variantNode) toDomain() *domain.Variant {
	if n == nil {
		return nil
	}
	return &domain.Variant{
		ID:               n.ID,
		Title:            n.Title,
		AvailableForSale: n.AvailableForSale,
		ProductHandle:    n.Product.Handle,
		ProductTitle:     n.Product.Title,
		SelectedOptions:  n.SelectedOptions,
		Price:            n.Price,
		CompareAtPrice:   n.CompareAtPrice,
		Image:            n.Image,
	}
}

type productNode struct {
	ID              string        `json:"id"`
	Handle          string        `json:"handle"`
	Title           string        `json:"title"`
	Vendor          string        `json:"vendor"`
	DescriptionHTML string        `json:"descriptionHtml"`
	FeaturedImage   *domain.Image `json:"featuredImage"`
	Options         []struct {
		Name         string `json:"name"`
		OptionValues []struct {
			Name                   string       `json:"name"`
			FirstSelectableVariant *variantNode `json:"firstSelectableVariant"`
			Swatch                 *struct {
				Color string `json:"color"`
				Image *struct {
					PreviewImage *struct {
						URL string `json:"url"`
					} `json:"previewImage"`
				} `json:"image"`
			} `json:"swatch"`
		} `json:"optionValues"`
	} `json:"options"`
	SelectedOrFirstAvailableVariant *variantNode  `json:"selectedOrFirstAvailableVariant"`
	AdjacentVariants                []variantNode `json:"adjacentVariants"`
}

func (n *productNode) toDomain() *domain.Product {
	p := &domain.Product{
		ID:              n.ID,
		Handle:          n.Handle,
		Title:           n.Title,
		Vendor:          n.Vendor,
		DescriptionHTML: n.DescriptionHTML,
		FeaturedImage:   n.FeaturedImage,
		SelectedVariant: n.SelectedOrFirstAvailableVariant.toDomain(),
	}

	for _, o := range n.Options {
		opt := domain.ProductOption{Name: o.Name}
		for _, v := range o.OptionValues {
			val := domain.ProductOptionValue{
				Name:                   v.Name,
				FirstSelectableVariant: v.FirstSelectableVariant.toDomain(),
			}
			if v.Swatch != nil {
				val.Swatch = &domain.Swatch{Color: v.Swatch.Color}
				if v.Swatch.Image != nil && v.Swatch.Image.PreviewImage != nil {
					val.Swatch.ImageURL = v.Swatch.Image.PreviewImage.URL
				}
			}
			opt.OptionValues = append(opt.OptionValues, val)
		}
		p.Options = append(p.Options, opt)
	}

	if p.SelectedVariant != nil {
		p.Variants = append(p.Variants, *p.SelectedVariant)
	}
	for i := range n.AdjacentVariants {
		p.Variants = append(p.Variants, *n.AdjacentVariants[i].toDomain())
	}
	return p
}

type menuNode struct {
	Menu *domain.Menu `json:"menu"`
}

type shopNode struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	PrimaryDomain struct {
		URL string `json:"url"`
	} `json:"primaryDomain"`
	Brand *struct {
		Logo *struct {
			Image *struct {
				URL string `json:"url"`
			} `json:"image"`
		} `json:"logo"`
	} `json:"brand"`
}

func (n shopNode) toDomain() *domain.Shop {
	shop := &domain.Shop{
		ID:               n.ID,
		Name:             n.Name,
		Description:      n.Description,
		PrimaryDomainURL: n.PrimaryDomain.URL,
	}
	if n.Brand != nil && n.Brand.Logo != nil && n.Brand.Logo.Image != nil {
		shop.LogoURL = n.Brand.Logo.Image.URL
	}
	return shop
}

type cartLineNode struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
	Cost     struct {
		TotalAmount                *domain.Money `json:"totalAmount"`
		AmountPerQuantity          *domain.Money `json:"amountPerQuantity"`
		CompareAtAmountPerQuantity *domain.Money `json:"compareAtAmountPerQuantity"`
	} `json:"cost"`
	Merchandise struct {
		ID               string                  `json:"id"`
		Title            string                  `json:"title"`
		AvailableForSale bool                    `json:"availableForSale"`
		Price            *domain.Money           `json:"price"`
		Image            *domain.Image           `json:"image"`
		SelectedOptions  []domain.SelectedOption `json:"selectedOptions"`
		Product          struct {
			ID     string `json:"id"`
			Handle string `json:"handle"`
			Title  string `json:"title"`
		} `json:"product"`
	} `json:"merchandise"`
}

type cartNode struct {
	ID            string `json:"id"`
	CheckoutURL   string `json:"checkoutUrl"`
	TotalQuantity int    `json:"totalQuantity"`
	Note          string `json:"note"`
	BuyerIdentity *struct {
		CountryCode string `json:"countryCode"`
	} `json:"buyerIdentity"`
	AppliedGiftCards []domain.AppliedGiftCard `json:"appliedGiftCards"`
	Lines            struct {
		Nodes []cartLineNode `json:"nodes"`
	} `json:"lines"`
	Cost          domain.CartCost       `json:"cost"`
	DiscountCodes []domain.DiscountCode `json:"discountCodes"`
}

func (n *cartNode) toDomain() *domain.Cart {
	if n == nil {
		return nil
	}
	cart := &domain.Cart{
		ID:               n.ID,
		CheckoutURL:      n.CheckoutURL,
		TotalQuantity:    n.TotalQuantity,
		Note:             n.Note,
		Cost:             n.Cost,
		DiscountCodes:    n.DiscountCodes,
		AppliedGiftCards: n.AppliedGiftCards,
		Lines:            make([]domain.CartLine, 0, len(n.Lines.Nodes)),
	}
	if n.BuyerIdentity != nil {
		cart.BuyerCountryCode = n.BuyerIdentity.CountryCode
	}
	for _, l := range n.Lines.Nodes {
		cart.Lines = append(cart.Lines, domain.CartLine{
			ID:       l.ID,
			Quantity: l.Quantity,
			Merchandise: domain.CartMerchandise{
				ID:               l.Merchandise.ID,
				Title:            l.Merchandise.Title,
				ProductTitle:     l.Merchandise.Product.Title,
				ProductHandle:    l.Merchandise.Product.Handle,
				Image:            l.Merchandise.Image,
				SelectedOptions:  l.Merchandise.SelectedOptions,
				Price:            l.Merchandise.Price,
				AvailableForSale: l.Merchandise.AvailableForSale,
			},
			Cost: domain.CartLineCost{
				TotalAmount:       l.Cost.TotalAmount,
				AmountPerQuantity: l.Cost.AmountPerQuantity,
				CompareAtAmount:   l.Cost.CompareAtAmountPerQuantity,
			},
		})
	}
	return cart
}

type cartPayload struct {
	Cart       *cartNode             `json:"cart"`
	UserErrors []contracts.UserError `json:"userErrors"`
	Warnings   []contracts.Warning   `json:"warnings"`
}

func (p *cartPayload) toResult() *contracts.CartResult {
	if p == nil {
		return &contracts.CartResult{}
	}
	return &contracts.CartResult{
		Cart:       p.Cart.toDomain(),
		UserErrors: p.UserErrors,
		Warnings:   p.Warnings,
	}
}
