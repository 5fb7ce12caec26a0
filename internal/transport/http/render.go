package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names; each is parsed together with the layout and the partials.
const (
	pageHome        = "home"
	pageCollections = "collections"
	pageCollection  = "collection"
	pageProduct     = "product"
	pageUniverse    = "universe"
	pageCart        = "cart"
)

var templateFuncs = template.FuncMap{
	"money": formatMoney,
	"join":  strings.Join,
	"inc":   func(n int) int { return n + 1 },
	"dec":   func(n int) int { return n - 1 },
}

// renderer holds one template set per page plus the standalone fragments.
type renderer struct {
	pages     map[string]*template.Template
	fragments *template.Template
}

func newRenderer() (*renderer, error) {
	base, err := template.New("base").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	r := &renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{pageHome, pageCollections, pageCollection, pageProduct, pageUniverse, pageCart} {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout for %s: %w", name, err)
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		r.pages[name] = t
	}

	r.fragments, err = template.New("fragments").Funcs(templateFuncs).ParseFS(templateFS,
		"templates/partials.html", "templates/drawer.html", "templates/error.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse fragments: %w", err)
	}
	return r, nil
}

// page renders a full page wrapped in the layout.
func (r *renderer) page(w http.ResponseWriter, status int, name string, view *layoutView) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return write(w, status, t, "layout", view)
}

// fragment renders a template that is not wrapped in the layout.
func (r *renderer) fragment(w http.ResponseWriter, status int, name string, data any) error {
	return write(w, status, r.fragments, name, data)
}

// write executes into a buffer so a template failure never leaves a half-written body.
func write(w http.ResponseWriter, status int, t *template.Template, name string, data any) error {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func formatMoney(m *domain.Money) string {
	if m == nil {
		return "-"
	}
	return m.Format()
}

// layoutView is the data shared by every full page.
type layoutView struct {
	Title         string
	Shop          *domain.Shop
	HeaderMenu    *domain.ProcessedMenu
	NavItems      []domain.NavItem
	CartBadge     string
	FooterColumns []domain.ParentMenuItem
	Year          int
	Content       any
}

type homeView struct {
	Products *domain.Connection[domain.ProductItem]
	Previous string
	Next     string
}

type collectionsView struct {
	Collections *domain.Connection[domain.Collection]
	Previous    string
	Next        string
}

type collectionView struct {
	Collection *domain.Collection
	Products   *domain.Connection[domain.ProductItem]
	Previous   string
	Next       string
}

type productView struct {
	Product     *domain.Product
	Variant     *domain.Variant
	Options     []domain.MappedProductOption
	Label       string
	CanAdd      bool
	Description template.HTML
}

type characterView struct {
	domain.Character
	Reversed bool
}

type universeView struct {
	Characters []characterView
}

// Cart layouts.
const (
	cartLayoutPage  = "page"
	cartLayoutAside = "aside"
)

// cartView feeds the cart-main partial used by the cart page and the drawer.
type cartView struct {
	Layout        string
	Cart          *domain.Cart
	HasItems      bool
	Lines         []domain.CartLine
	DiscountCodes []string
	GiftCards     []domain.AppliedGiftCard
	CheckoutURL   string
	UserErrors    []userErrorView
	GiftCardValue string
}

type userErrorView struct {
	Message string
}

func newCartView(layout string, cart *domain.Cart) *cartView {
	v := &cartView{
		Layout:        layout,
		Cart:          cart,
		HasItems:      cart.HasItems(),
		DiscountCodes: cart.ActiveDiscountCodes(),
	}
	if cart != nil {
		v.Lines = cart.Lines
		v.GiftCards = cart.AppliedGiftCards
		v.CheckoutURL = cart.CheckoutURL
	}
	return v
}

type errorView struct {
	Status  int
	Title   string
	Message string
}
