package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/contracts"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/queries/get_cart"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/queries/get_collection"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/queries/get_footer"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/queries/get_header"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/queries/get_product"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/queries/list_collections"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/queries/list_events"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/queries/list_products"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/reconciler"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/usecases/apply_cart_action"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/usecases/publish_cart_viewed"
	"github.com/light-bringer/feliz-storefront/internal/models/m_outbox"
	"github.com/light-bringer/feliz-storefront/internal/pkg/clock"
)

const testCartID = "gid://shopify/Cart/c1"

type fakeCatalog struct {
	products    *domain.Connection[domain.ProductItem]
	collections *domain.Connection[domain.Collection]
	collection  *contracts.CollectionPage
	product     *domain.Product
	err         error
}

func (f *fakeCatalog) ListProducts(context.Context, domain.PaginationVariables) (*domain.Connection[domain.ProductItem], error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeCatalog) ListCollections(context.Context, domain.PaginationVariables) (*domain.Connection[domain.Collection], error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.collections, nil
}

func (f *fakeCatalog) GetCollection(context.Context, string, domain.PaginationVariables) (*contracts.CollectionPage, error) {
	if f.collection == nil {
		return nil, domain.ErrCollectionNotFound
	}
	return f.collection, nil
}

func (f *fakeCatalog) GetProduct(context.Context, string, []domain.SelectedOption) (*domain.Product, error) {
	if f.product == nil {
		return nil, domain.ErrProductNotFound
	}
	return f.product, nil
}

type fakeLayout struct {
	shop      *domain.Shop
	header    *domain.Menu
	footer    *domain.Menu
	headerErr error
	footerErr error
}

func (f *fakeLayout) GetHeader(context.Context, string) (*domain.Shop, *domain.Menu, error) {
	if f.headerErr != nil {
		return nil, nil, f.headerErr
	}
	return f.shop, f.header, nil
}

func (f *fakeLayout) GetFooter(context.Context, string) (*domain.Menu, error) {
	if f.footerErr != nil {
		return nil, f.footerErr
	}
	return f.footer, nil
}

type fakeCarts struct {
	mu        sync.Mutex
	cart      *domain.Cart
	result    *apply_cart_action.Result
	err       error
	applied   []*apply_cart_action.Request
	submitted []*apply_cart_action.Request
}

func (f *fakeCarts) Current(_ context.Context, cartID string) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cart == nil || f.cart.ID != cartID {
		return nil, domain.ErrCartNotFound
	}
	return f.cart, nil
}

func (f *fakeCarts) Apply(_ context.Context, req *apply_cart_action.Request) (*apply_cart_action.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applied = append(f.applied, req)
	return f.result, f.err
}

func (f *fakeCarts) Submit(_ context.Context, req *apply_cart_action.Request) (*domain.Cart, <-chan reconciler.Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, req)
	if f.err != nil {
		return nil, nil, f.err
	}
	done := make(chan reconciler.Outcome, 1)
	done <- reconciler.Outcome{Result: f.result}
	return domain.Merge(f.cart, []domain.CartAction{req.Action}), done, nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []domain.DomainEvent
}

func (s *recordingSink) Publish(_ context.Context, events ...domain.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
	return nil
}

func (s *recordingSink) Close() error { return nil }

type fakeEvents struct {
	rows  []*m_outbox.Data
	total int64
	err   error
	req   *list_events.Request
}

func (f *fakeEvents) ListEvents(_ context.Context, req *list_events.Request) ([]*m_outbox.Data, int64, error) {
	f.req = req
	return f.rows, f.total, f.err
}

type testEnv struct {
	catalog *fakeCatalog
	layout  *fakeLayout
	carts   *fakeCarts
	sink    *recordingSink
	events  *fakeEvents
	router  http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		catalog: &fakeCatalog{
			products: &domain.Connection[domain.ProductItem]{
				Nodes: []domain.ProductItem{
					{ID: "p1", Handle: "snow-globe", Title: "Snow Globe", PriceRange: domain.PriceRange{MinVariantPrice: mustMoney(t, "24.00")}},
				},
				PageInfo: domain.PageInfo{HasNextPage: true, EndCursor: "c2"},
			},
		},
		layout: &fakeLayout{
			shop: &domain.Shop{Name: "Feliz", PrimaryDomainURL: "https://feliz.example"},
			footer: &domain.Menu{Items: []domain.MenuItem{
				{ID: "f1", Title: "Search", URL: "/search"},
				{ID: "f2", Title: "Shipping", URL: "https://feliz.example/policies/shipping"},
				{ID: "f3", Title: "Privacy Policy", URL: "/policies/privacy-policy"},
			}},
		},
		carts:  &fakeCarts{},
		sink:   &recordingSink{},
		events: &fakeEvents{},
	}

	clk := clock.NewMockClock(time.Date(2026, 12, 24, 18, 0, 0, 0, time.UTC))
	h, err := NewHandler(Dependencies{
		ListProducts:    list_products.NewQuery(env.catalog),
		ListCollections: list_collections.NewQuery(env.catalog),
		GetCollection:   get_collection.NewQuery(env.catalog),
		GetProduct:      get_product.NewQuery(env.catalog),
		GetCart:         get_cart.NewQuery(env.carts),
		GetHeader:       get_header.NewQuery(env.layout, "feliz.myshopify.com", 0),
		GetFooter:       get_footer.NewQuery(env.layout, "feliz.myshopify.com", 0),
		ListEvents:      list_events.NewQuery(env.events),
		Cart:            env.carts,
		CartViewed:      publish_cart_viewed.NewInteractor(env.sink, clk),
		Clock:           clk,
		Logger:          zap.NewNop(),
	}, Options{DeferredTimeout: time.Second, CountryCode: "US"})
	require.NoError(t, err)

	env.router = NewRouter(h, zap.NewNop())
	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func withCart(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: cartCookieName, Value: testCartID})
	return req
}

func mustMoney(t *testing.T, amount string) *domain.Money {
	t.Helper()
	m, err := domain.NewMoney(amount, "USD")
	require.NoError(t, err)
	return m
}

func sampleCart(t *testing.T) *domain.Cart {
	return &domain.Cart{
		ID:            testCartID,
		CheckoutURL:   "https://feliz.example/checkouts/c1",
		TotalQuantity: 3,
		Lines: []domain.CartLine{{
			ID:       "line-1",
			Quantity: 3,
			Merchandise: domain.CartMerchandise{
				ID:            "variant-1",
				ProductTitle:  "Snow Globe",
				ProductHandle: "snow-globe",
			},
			Cost: domain.CartLineCost{TotalAmount: mustMoney(t, "72.00")},
		}},
		Cost: domain.CartCost{SubtotalAmount: mustMoney(t, "72.00")},
		DiscountCodes: []domain.DiscountCode{
			{Code: "XMAS", Applicable: true},
			{Code: "EXPIRED", Applicable: false},
		},
		AppliedGiftCards: []domain.AppliedGiftCard{{ID: "gift-1", LastCharacters: "X9K2", AmountUsed: mustMoney(t, "10.00")}},
	}
}

func TestHandler_Home(t *testing.T) {
	t.Run("renders products inside the layout", func(t *testing.T) {
		env := newTestEnv(t)
		env.carts.cart = sampleCart(t)

		rec := env.do(withCart(httptest.NewRequest(http.MethodGet, "/", nil)))
		require.Equal(t, http.StatusOK, rec.Code)

		body := rec.Body.String()
		assert.Contains(t, body, "Snow Globe")
		assert.Contains(t, body, "$24.00")
		assert.Contains(t, body, `href="?cursor=c2&amp;direction=next"`)
		assert.NotContains(t, body, "Load previous")
		assert.Contains(t, body, "Free Shipping Over $150")
		assert.Contains(t, body, `<span class="badge">3</span>`)
		assert.Contains(t, body, `href="/universe"`)
		assert.Contains(t, body, `href="/blogs/journal"`, "fallback header menu")
		assert.Contains(t, body, "&copy; 2026 Feliz")
	})

	t.Run("footer is filtered and normalized", func(t *testing.T) {
		env := newTestEnv(t)
		body := env.do(httptest.NewRequest(http.MethodGet, "/", nil)).Body.String()

		assert.Contains(t, body, `href="/policies/shipping"`)
		assert.NotContains(t, body, "Privacy Policy")
		assert.NotContains(t, body, ">Search<")
	})

	t.Run("badge is hidden without a cart and capped above nine", func(t *testing.T) {
		env := newTestEnv(t)
		assert.NotContains(t, env.do(httptest.NewRequest(http.MethodGet, "/", nil)).Body.String(), `class="badge"`)

		cart := sampleCart(t)
		cart.TotalQuantity = 12
		env.carts.cart = cart
		assert.Contains(t, env.do(withCart(httptest.NewRequest(http.MethodGet, "/", nil))).Body.String(), `<span class="badge">9&#43;</span>`)
	})

	t.Run("deferred footer failure still renders the page", func(t *testing.T) {
		env := newTestEnv(t)
		env.layout.footerErr = errors.New("footer unavailable")

		rec := env.do(httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "footer-columns")
	})

	t.Run("critical header failure renders 500", func(t *testing.T) {
		env := newTestEnv(t)
		env.layout.headerErr = errors.New("api down")

		rec := env.do(httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "internal server error")
	})

	t.Run("conflicting pagination renders 400", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(httptest.NewRequest(http.MethodGet, "/?first=5&last=5", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_Catalog(t *testing.T) {
	t.Run("collections list", func(t *testing.T) {
		env := newTestEnv(t)
		env.catalog.collections = &domain.Connection[domain.Collection]{
			Nodes:    []domain.Collection{{ID: "c1", Handle: "ornaments", Title: "Ornaments"}},
			PageInfo: domain.PageInfo{HasPreviousPage: true, StartCursor: "c0"},
		}

		rec := env.do(httptest.NewRequest(http.MethodGet, "/collections", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `href="/collections/ornaments"`)
		assert.Contains(t, rec.Body.String(), "Load previous")
	})

	t.Run("unknown collection renders 404", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(httptest.NewRequest(http.MethodGet, "/collections/nope", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "collection not found")
	})

	t.Run("collection page", func(t *testing.T) {
		env := newTestEnv(t)
		env.catalog.collection = &contracts.CollectionPage{
			Collection: &domain.Collection{Handle: "ornaments", Title: "Ornaments", Description: "Shiny things"},
			Products:   env.catalog.products,
		}

		rec := env.do(httptest.NewRequest(http.MethodGet, "/collections/ornaments", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Shiny things")
		assert.Contains(t, rec.Body.String(), `href="/products/snow-globe"`)
	})

	t.Run("product page with sold out variant", func(t *testing.T) {
		env := newTestEnv(t)
		small := domain.Variant{ID: "v-s", SelectedOptions: []domain.SelectedOption{{Name: "Size", Value: "S"}}, Price: mustMoney(t, "24.00")}
		large := domain.Variant{ID: "v-l", AvailableForSale: true, SelectedOptions: []domain.SelectedOption{{Name: "Size", Value: "L"}}}
		env.catalog.product = &domain.Product{
			Handle:          "snow-globe",
			Title:           "Snow Globe",
			DescriptionHTML: "<p>Hand <em>shaken</em>.</p>",
			Options: []domain.ProductOption{{Name: "Size", OptionValues: []domain.ProductOptionValue{
				{Name: "S", FirstSelectableVariant: &small},
				{Name: "L", FirstSelectableVariant: &large},
			}}},
			SelectedVariant: &small,
			Variants:        []domain.Variant{small, large},
		}

		rec := env.do(httptest.NewRequest(http.MethodGet, "/products/snow-globe?Size=S", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		body := rec.Body.String()
		assert.Contains(t, body, "Sold out")
		assert.Contains(t, body, `<button type="submit" disabled>`)
		assert.Contains(t, body, `<input type="hidden" name="Size" value="L">`)
		assert.NotContains(t, body, `href="?Size=`)
		assert.Contains(t, body, "<em>shaken</em>")
		assert.Contains(t, body, `name="merchandiseId" value="v-s"`)
	})

	t.Run("option values submit a selection or link to another product", func(t *testing.T) {
		env := newTestEnv(t)
		option := func(size, edition string) []domain.SelectedOption {
			return []domain.SelectedOption{{Name: "Size", Value: size}, {Name: "Edition", Value: edition}}
		}
		small := domain.Variant{ID: "v-s", SelectedOptions: option("S", "Classic")}
		large := domain.Variant{ID: "v-l", AvailableForSale: true, SelectedOptions: option("L", "Classic")}
		deluxe := domain.Variant{ID: "v-d", AvailableForSale: true, ProductHandle: "snow-globe-deluxe", SelectedOptions: option("S", "Deluxe")}
		env.catalog.product = &domain.Product{
			Handle: "snow-globe",
			Title:  "Snow Globe",
			Options: []domain.ProductOption{
				{Name: "Size", OptionValues: []domain.ProductOptionValue{
					{Name: "S", FirstSelectableVariant: &small},
					{Name: "M"},
					{Name: "L", FirstSelectableVariant: &large},
				}},
				{Name: "Edition", OptionValues: []domain.ProductOptionValue{
					{Name: "Classic", FirstSelectableVariant: &small},
					{Name: "Deluxe", FirstSelectableVariant: &deluxe},
				}},
			},
			SelectedVariant: &small,
			Variants:        []domain.Variant{small, large, deluxe},
		}

		rec := env.do(httptest.NewRequest(http.MethodGet, "/products/snow-globe?Size=S&Edition=Classic", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()

		assert.Contains(t, body, `<form method="get" class="product-options-form">`)
		assert.Contains(t, body, `<button type="submit" class="product-options-item selected" disabled>S</button>`)
		assert.Contains(t, body, `<input type="hidden" name="Size" value="M">`)
		assert.Contains(t, body, `<button type="submit" class="product-options-item" disabled>M</button>`)
		assert.Contains(t, body, `<button type="submit" class="product-options-item">L</button>`)
		assert.Contains(t, body, `<a class="product-options-item" href="/products/snow-globe-deluxe?Size=S&amp;Edition=Deluxe">Deluxe</a>`)
		assert.NotContains(t, body, `href="?`, "values of this product are never links")
	})

	t.Run("unknown product renders 404", func(t *testing.T) {
		env := newTestEnv(t)
		assert.Equal(t, http.StatusNotFound, env.do(httptest.NewRequest(http.MethodGet, "/products/nope", nil)).Code)
	})

	t.Run("universe alternates layouts", func(t *testing.T) {
		env := newTestEnv(t)
		body := env.do(httptest.NewRequest(http.MethodGet, "/universe", nil)).Body.String()

		for _, c := range domain.Characters {
			assert.Contains(t, body, c.Name)
		}
		assert.Contains(t, body, `character-violet" id="lefty"`)
		assert.Contains(t, body, `character-yellow reversed" id="righty"`)
	})
}

func TestHandler_CartPage(t *testing.T) {
	t.Run("empty cart prompts to continue shopping", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(httptest.NewRequest(http.MethodGet, "/cart", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Continue shopping")
		assert.NotContains(t, rec.Body.String(), "Continue to Checkout")
		assert.Empty(t, env.sink.events)
	})

	t.Run("renders lines, active codes and gift cards", func(t *testing.T) {
		env := newTestEnv(t)
		env.carts.cart = sampleCart(t)

		rec := env.do(withCart(httptest.NewRequest(http.MethodGet, "/cart", nil)))
		require.Equal(t, http.StatusOK, rec.Code)

		body := rec.Body.String()
		assert.Contains(t, body, "Snow Globe")
		assert.Contains(t, body, "$72.00")
		assert.Contains(t, body, "<code>XMAS</code>")
		assert.NotContains(t, body, "EXPIRED")
		assert.Contains(t, body, "***X9K2")
		assert.Contains(t, body, `href="https://feliz.example/checkouts/c1"`)

		require.Len(t, env.sink.events, 1)
		assert.Equal(t, "cart_viewed", env.sink.events[0].EventType())
	})

	t.Run("subtotal renders a dash when absent", func(t *testing.T) {
		env := newTestEnv(t)
		cart := sampleCart(t)
		cart.Cost = domain.CartCost{}
		env.carts.cart = cart

		body := env.do(withCart(httptest.NewRequest(http.MethodGet, "/cart", nil))).Body.String()
		assert.Contains(t, body, "<dd>-</dd>")
	})

	t.Run("lines awaiting the platform have no line forms", func(t *testing.T) {
		env := newTestEnv(t)
		env.carts.cart = domain.Merge(sampleCart(t), []domain.CartAction{{
			Type:  domain.ActionLinesAdd,
			Lines: []domain.LineInput{{MerchandiseID: "variant-9", Quantity: 1}},
		}})

		body := env.do(withCart(httptest.NewRequest(http.MethodGet, "/cart", nil))).Body.String()
		assert.Contains(t, body, `id="optimistic:variant-9"`)
		assert.NotContains(t, body, `name="lineId" value="optimistic:variant-9"`)
		assert.Contains(t, body, `name="lineId" value="line-1"`)
	})

	t.Run("drawer renders without the layout", func(t *testing.T) {
		env := newTestEnv(t)
		env.carts.cart = sampleCart(t)

		rec := env.do(withCart(httptest.NewRequest(http.MethodGet, "/cart/drawer", nil)))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "cart-aside")
		assert.NotContains(t, rec.Body.String(), "<html")
	})
}

func TestHandler_Misc(t *testing.T) {
	env := newTestEnv(t)

	t.Run("healthz", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
	})

	t.Run("request id is echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(RequestIDHeader, "req-42")
		assert.Equal(t, "req-42", env.do(req).Header().Get(RequestIDHeader))
		assert.NotEmpty(t, env.do(httptest.NewRequest(http.MethodGet, "/healthz", nil)).Header().Get(RequestIDHeader))
	})

	t.Run("unknown routes render 404", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/nowhere", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.True(t, strings.Contains(rec.Body.String(), "Oops"))
	})
}
