package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

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
	"github.com/light-bringer/feliz-storefront/internal/pkg/clock"
	"github.com/light-bringer/feliz-storefront/internal/pkg/deferred"
)

const defaultDeferredTimeout = 2 * time.Second

// CartService applies cart actions in submission order. *reconciler.Reconciler implements it.
type CartService interface {
	Apply(ctx context.Context, req *apply_cart_action.Request) (*apply_cart_action.Result, error)
	Submit(ctx context.Context, req *apply_cart_action.Request) (*domain.Cart, <-chan reconciler.Outcome, error)
}

// Dependencies are the queries and use cases the handler serves.
type Dependencies struct {
	ListProducts    *list_products.Query
	ListCollections *list_collections.Query
	GetCollection   *get_collection.Query
	GetProduct      *get_product.Query
	GetCart         *get_cart.Query
	GetHeader       *get_header.Query
	GetFooter       *get_footer.Query
	ListEvents      *list_events.Query // nil disables /api/v1/events
	Cart            CartService
	CartViewed      *publish_cart_viewed.Interactor
	Clock           clock.Clock
	Logger          *zap.Logger
}

// Options tune page rendering and the cart cookie.
type Options struct {
	// DeferredTimeout bounds how long a page waits for deferred data.
	DeferredTimeout time.Duration
	// CookieSecure sets the Secure flag on cookies.
	CookieSecure bool
	// CountryCode is the buyer country used when a cart is created.
	CountryCode string
}

// Handler serves the storefront pages and the cart action route.
type Handler struct {
	deps   Dependencies
	opts   Options
	views  *renderer
	logger *zap.Logger
}

// NewHandler creates a new Handler and parses its templates.
func NewHandler(deps Dependencies, opts Options) (*Handler, error) {
	views, err := newRenderer()
	if err != nil {
		return nil, err
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Clock == nil {
		deps.Clock = clock.NewRealClock()
	}
	if opts.DeferredTimeout <= 0 {
		opts.DeferredTimeout = defaultDeferredTimeout
	}
	return &Handler{
		deps:   deps,
		opts:   opts,
		views:  views,
		logger: deps.Logger,
	}, nil
}

// loadFunc is the critical loader of a page. It returns the page content and title.
type loadFunc func(ctx context.Context) (content any, title string, err error)

// renderPage runs the header and the page loader as critical data in
// parallel, then waits a bounded time for the deferred cart and footer.
// A critical failure renders the error page; a deferred one only leaves its
// part of the layout empty.
func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, page string, load loadFunc) {
	ctx := r.Context()
	cartID := cartIDFromRequest(r)

	cartFuture := deferred.Resolved[*domain.Cart](nil)
	if cartID != "" {
		cartFuture = deferred.Go(ctx, h.logger, "cart", func(ctx context.Context) (*domain.Cart, error) {
			return h.deps.GetCart.Execute(ctx, &get_cart.Request{CartID: cartID})
		})
	}

	var (
		header  *get_header.Result
		content any
		title   string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := h.deps.GetHeader.Execute(gctx, &get_header.Request{})
		if err != nil {
			return fmt.Errorf("failed to load header: %w", err)
		}
		header = res
		return nil
	})
	g.Go(func() error {
		var err error
		content, title, err = load(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.renderError(w, r, err)
		return
	}

	var primaryDomainURL string
	if header.Shop != nil {
		primaryDomainURL = header.Shop.PrimaryDomainURL
	}
	footerFuture := deferred.Go(ctx, h.logger, "footer", func(ctx context.Context) ([]domain.ParentMenuItem, error) {
		return h.deps.GetFooter.Execute(ctx, &get_footer.Request{PrimaryDomainURL: primaryDomainURL})
	})

	awaitCtx, cancel := context.WithTimeout(ctx, h.opts.DeferredTimeout)
	defer cancel()
	cart, _ := cartFuture.Await(awaitCtx)
	footer, _ := footerFuture.Await(awaitCtx)

	view := &layoutView{
		Title:         title,
		Shop:          header.Shop,
		HeaderMenu:    header.Menu,
		NavItems:      domain.HeaderNavItems,
		CartBadge:     domain.CartBadgeLabel(cart.Quantity()),
		FooterColumns: footer,
		Year:          h.deps.Clock.Now().Year(),
		Content:       content,
	}
	if err := h.views.page(w, http.StatusOK, page, view); err != nil {
		h.logger.Error("Failed to render page",
			zap.String("page", page),
			zap.String("request_id", RequestID(ctx)),
			zap.Error(err),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// renderError renders the error page for a critical failure.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := mapDomainErrorToHTTP(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Critical load failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err),
		)
	}
	view := &errorView{Status: status, Title: http.StatusText(status), Message: message}
	if rerr := h.views.fragment(w, status, "error", view); rerr != nil {
		h.logger.Error("Failed to render error page", zap.Error(rerr))
		http.Error(w, message, status)
	}
}

// NotFound renders the error page for unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, domain.ErrInvalidHandle)
}

// Healthz reports liveness.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
