package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/contracts"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/queries/get_cart"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/usecases/apply_cart_action"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/usecases/publish_cart_viewed"
)

// cartResponse is the JSON answer of POST /cart.
type cartResponse struct {
	Cart       *domain.Cart          `json:"cart"`
	Action     domain.CartActionType `json:"action"`
	Errors     []contracts.UserError `json:"errors"`
	Warnings   []contracts.Warning   `json:"warnings"`
	Optimistic bool                  `json:"optimistic"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// CartPage handles GET /cart. The cart is critical data here.
func (h *Handler) CartPage(w http.ResponseWriter, r *http.Request) {
	cartID := cartIDFromRequest(r)
	pageURL := r.URL.String()
	h.renderPage(w, r, pageCart, func(ctx context.Context) (any, string, error) {
		cart, err := h.deps.GetCart.Execute(ctx, &get_cart.Request{CartID: cartID})
		if err != nil {
			return nil, "", err
		}
		h.publishCartViewed(ctx, cart, pageURL)
		return newCartView(cartLayoutPage, cart), "Cart", nil
	})
}

// CartDrawer handles GET /cart/drawer: the cart aside without the layout.
func (h *Handler) CartDrawer(w http.ResponseWriter, r *http.Request) {
	cart, err := h.deps.GetCart.Execute(r.Context(), &get_cart.Request{CartID: cartIDFromRequest(r)})
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if err := h.views.fragment(w, http.StatusOK, "drawer", newCartView(cartLayoutAside, cart)); err != nil {
		h.logger.Error("Failed to render cart drawer", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// CartAction handles POST /cart.
//
// JSON callers that ask for optimistic=1 get the projected cart with 202
// while the action is confirmed in the background. Gift card updates always
// wait, since only the platform knows which codes it accepted. Everyone else
// waits for the platform too: JSON callers get the result, form posts are
// redirected on success and shown the cart with its errors otherwise.
func (h *Handler) CartAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cartID := cartIDFromRequest(r)
	applied := giftCardCodesFromRequest(r)

	sub, err := parseCartSubmission(w, r, applied)
	if err != nil {
		h.cartError(w, r, sub, err)
		return
	}

	req := &apply_cart_action.Request{
		CartID:      cartID,
		Action:      sub.Action,
		CountryCode: h.opts.CountryCode,
	}

	if sub.JSON && sub.Optimistic && cartID != "" && sub.Action.Type != domain.ActionGiftCardCodesUpdate {
		projected, _, err := h.deps.Cart.Submit(ctx, req)
		if err != nil {
			h.cartError(w, r, sub, err)
			return
		}
		if sub.Action.Type == domain.ActionGiftCardCodesRemove {
			h.setGiftCardsCookie(w, domain.AppliedGiftCardCodes(applied, projected))
		}
		writeJSON(w, http.StatusAccepted, &cartResponse{
			Cart:       projected,
			Action:     sub.Action.Type,
			Errors:     []contracts.UserError{},
			Warnings:   []contracts.Warning{},
			Optimistic: true,
		})
		return
	}

	res, err := h.deps.Cart.Apply(ctx, req)
	if err != nil {
		h.cartError(w, r, sub, err)
		return
	}
	h.rememberCart(w, sub, res, applied)

	if sub.JSON {
		writeJSON(w, http.StatusOK, newCartResponse(res))
		return
	}
	if res.Succeeded() {
		to := sub.RedirectTo
		if to == "" {
			to = "/cart"
		}
		http.Redirect(w, r, to, http.StatusSeeOther)
		return
	}
	h.renderCartWithErrors(w, r, sub, res)
}

// rememberCart persists the cart id and the gift card codes still applied.
func (h *Handler) rememberCart(w http.ResponseWriter, sub *cartSubmission, res *apply_cart_action.Result, applied []string) {
	if res.CartID != "" {
		h.setCartCookie(w, res.CartID)
	}
	if !res.Succeeded() {
		return
	}
	switch res.Action {
	case domain.ActionGiftCardCodesUpdate:
		h.setGiftCardsCookie(w, domain.AppliedGiftCardCodes(sub.Action.GiftCardCodes, res.Cart))
	case domain.ActionGiftCardCodesRemove:
		h.setGiftCardsCookie(w, domain.AppliedGiftCardCodes(applied, res.Cart))
	}
}

// renderCartWithErrors shows the unchanged cart with the platform's user
// errors. The gift card input keeps what was typed.
func (h *Handler) renderCartWithErrors(w http.ResponseWriter, r *http.Request, sub *cartSubmission, res *apply_cart_action.Result) {
	cartID := res.CartID
	if cartID == "" {
		cartID = cartIDFromRequest(r)
	}
	h.renderPage(w, r, pageCart, func(ctx context.Context) (any, string, error) {
		cart := res.Cart
		if cart == nil {
			var err error
			if cart, err = h.deps.GetCart.Execute(ctx, &get_cart.Request{CartID: cartID}); err != nil {
				return nil, "", err
			}
		}
		view := newCartView(cartLayoutPage, cart)
		for _, ue := range res.UserErrors {
			view.UserErrors = append(view.UserErrors, userErrorView{Message: ue.Message})
		}
		view.GiftCardValue = sub.GiftCardInput
		return view, "Cart", nil
	})
}

func (h *Handler) cartError(w http.ResponseWriter, r *http.Request, sub *cartSubmission, err error) {
	if errors.Is(err, domain.ErrCartNotFound) {
		h.clearCartCookies(w)
	}
	if sub == nil || !sub.JSON {
		h.renderError(w, r, err)
		return
	}
	status, message := mapDomainErrorToHTTP(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Cart action failed",
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err),
		)
	}
	writeJSON(w, status, &errorResponse{Error: message})
}

func (h *Handler) publishCartViewed(ctx context.Context, cart *domain.Cart, pageURL string) {
	if h.deps.CartViewed == nil {
		return
	}
	if err := h.deps.CartViewed.Execute(ctx, &publish_cart_viewed.Request{Cart: cart, URL: pageURL}); err != nil {
		h.logger.Warn("Failed to publish cart viewed", zap.Error(err))
	}
}

func newCartResponse(res *apply_cart_action.Result) *cartResponse {
	out := &cartResponse{
		Cart:     res.Cart,
		Action:   res.Action,
		Errors:   res.UserErrors,
		Warnings: res.Warnings,
	}
	if out.Errors == nil {
		out.Errors = []contracts.UserError{}
	}
	if out.Warnings == nil {
		out.Warnings = []contracts.Warning{}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
