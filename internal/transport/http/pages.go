package http

import (
	"context"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/queries/get_collection"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/queries/get_product"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/queries/list_collections"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/queries/list_products"
)

// Home handles GET /.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	h.renderPage(w, r, pageHome, func(ctx context.Context) (any, string, error) {
		products, err := h.deps.ListProducts.Execute(ctx, &list_products.Request{Params: params})
		if err != nil {
			return nil, "", err
		}
		return &homeView{
			Products: products,
			Previous: previousPageLink(products.PageInfo),
			Next:     nextPageLink(products.PageInfo),
		}, "Home", nil
	})
}

// Collections handles GET /collections.
func (h *Handler) Collections(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	h.renderPage(w, r, pageCollections, func(ctx context.Context) (any, string, error) {
		collections, err := h.deps.ListCollections.Execute(ctx, &list_collections.Request{Params: params})
		if err != nil {
			return nil, "", err
		}
		return &collectionsView{
			Collections: collections,
			Previous:    previousPageLink(collections.PageInfo),
			Next:        nextPageLink(collections.PageInfo),
		}, "Collections", nil
	})
}

// Collection handles GET /collections/{handle}.
func (h *Handler) Collection(w http.ResponseWriter, r *http.Request) {
	req := &get_collection.Request{Handle: chi.URLParam(r, "handle"), Params: r.URL.Query()}
	h.renderPage(w, r, pageCollection, func(ctx context.Context) (any, string, error) {
		page, err := h.deps.GetCollection.Execute(ctx, req)
		if err != nil {
			return nil, "", err
		}
		return &collectionView{
			Collection: page.Collection,
			Products:   page.Products,
			Previous:   previousPageLink(page.Products.PageInfo),
			Next:       nextPageLink(page.Products.PageInfo),
		}, page.Collection.Title, nil
	})
}

// Product handles GET /products/{handle}. The query string selects the variant.
func (h *Handler) Product(w http.ResponseWriter, r *http.Request) {
	req := &get_product.Request{Handle: chi.URLParam(r, "handle"), Params: r.URL.Query()}
	h.renderPage(w, r, pageProduct, func(ctx context.Context) (any, string, error) {
		res, err := h.deps.GetProduct.Execute(ctx, req)
		if err != nil {
			return nil, "", err
		}
		variant := res.Product.SelectedVariant
		return &productView{
			Product: res.Product,
			Variant: variant,
			Options: res.Options,
			Label:   domain.AddToCartLabel(variant),
			CanAdd:  domain.CanAddToCart(variant),
			// Rich text authored in the platform admin.
			Description: template.HTML(res.Product.DescriptionHTML),
		}, res.Product.Title, nil
	})
}

// Universe handles GET /universe.
func (h *Handler) Universe(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, pageUniverse, func(context.Context) (any, string, error) {
		characters := make([]characterView, 0, len(domain.Characters))
		for i, c := range domain.Characters {
			characters = append(characters, characterView{Character: c, Reversed: domain.Reversed(i)})
		}
		return &universeView{Characters: characters}, "Universe", nil
	})
}

func previousPageLink(info domain.PageInfo) string {
	return queryLink(domain.PreviousPageQuery(info))
}

func nextPageLink(info domain.PageInfo) string {
	return queryLink(domain.NextPageQuery(info))
}

// queryLink turns a query string into a same-page href.
func queryLink(query string) string {
	if query == "" {
		return ""
	}
	return "?" + query
}
