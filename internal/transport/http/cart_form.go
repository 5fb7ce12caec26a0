package http

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
)

const (
	cartCookieName      = "cart"
	giftCardsCookieName = "gift_cards"
	cookieMaxAge        = 14 * 24 * 60 * 60

	// cartFormInputField is the field the platform SDK's cart form submits.
	cartFormInputField = "cartFormInput"

	maxCartBodyBytes = 64 << 10
)

// cartFormInput is the JSON shape posted by the platform SDK's cart form.
type cartFormInput struct {
	Action string         `json:"action"`
	Inputs cartFormInputs `json:"inputs"`
}

type cartFormInputs struct {
	// Lines holds LineInput for LinesAdd and LineUpdateInput for LinesUpdate.
	Lines         json.RawMessage `json:"lines"`
	LineIDs       []string        `json:"lineIds"`
	DiscountCode  string          `json:"discountCode"`
	DiscountCodes []string        `json:"discountCodes"`
	GiftCardCode  string          `json:"giftCardCode"`
	GiftCardCodes []string        `json:"giftCardCodes"`
	BuyerIdentity *struct {
		CountryCode string `json:"countryCode"`
	} `json:"buyerIdentity"`
}

// cartSubmission is a parsed POST /cart request.
type cartSubmission struct {
	Action domain.CartAction
	// GiftCardInput is the gift card code as typed, kept for re-rendering after a failure.
	GiftCardInput string
	JSON          bool
	Optimistic    bool
	RedirectTo    string
}

// parseCartSubmission reads the action from a JSON body, from the SDK's
// cartFormInput field, or from plain form fields. applied are the gift card
// codes remembered from earlier updates.
func parseCartSubmission(w http.ResponseWriter, r *http.Request, applied []string) (*cartSubmission, error) {
	sub := &cartSubmission{JSON: wantsJSON(r)}
	r.Body = http.MaxBytesReader(w, r.Body, maxCartBodyBytes)

	var input cartFormInput
	if isJSONBody(r) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return sub, fmt.Errorf("failed to read cart action: %w", err)
		}
		if err := json.Unmarshal(body, &input); err != nil {
			return sub, fmt.Errorf("%w: %v", domain.ErrUnknownCartAction, err)
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return sub, fmt.Errorf("failed to parse cart form: %w", err)
		}
		if raw := r.PostForm.Get(cartFormInputField); raw != "" {
			if err := json.Unmarshal([]byte(raw), &input); err != nil {
				return sub, fmt.Errorf("%w: %v", domain.ErrUnknownCartAction, err)
			}
		} else {
			input = formInput(r.PostForm)
		}
		sub.RedirectTo = safeRedirect(r.PostForm.Get("redirectTo"))
	}
	sub.Optimistic = r.URL.Query().Get("optimistic") == "1" || r.PostForm.Get("optimistic") == "1"

	actionType, err := domain.ParseCartActionType(input.Action)
	if err != nil {
		return sub, err
	}
	action := domain.CartAction{Type: actionType}
	in := input.Inputs

	switch actionType {
	case domain.ActionLinesAdd:
		if err := decodeLines(in.Lines, &action.Lines); err != nil {
			return sub, err
		}
	case domain.ActionLinesUpdate:
		if err := decodeLines(in.Lines, &action.LineUpdates); err != nil {
			return sub, err
		}
	case domain.ActionLinesRemove:
		action.LineIDs = in.LineIDs
	case domain.ActionDiscountCodesUpdate:
		action.DiscountCodes = domain.DiscountCodesForUpdate(in.DiscountCode, in.DiscountCodes)
	case domain.ActionGiftCardCodesUpdate:
		sub.GiftCardInput = in.GiftCardCode
		previous := append(append([]string{}, applied...), in.GiftCardCodes...)
		action.GiftCardCodes = domain.GiftCardCodesForUpdate(in.GiftCardCode, previous)
	case domain.ActionGiftCardCodesRemove:
		action.GiftCardCodes = in.GiftCardCodes
	case domain.ActionBuyerIdentityUpdate:
		if in.BuyerIdentity != nil {
			action.CountryCode = strings.ToUpper(strings.TrimSpace(in.BuyerIdentity.CountryCode))
		}
	}

	sub.Action = action
	return sub, nil
}

// formInput maps plain form fields onto the SDK shape.
func formInput(form url.Values) cartFormInput {
	input := cartFormInput{Action: form.Get("action")}
	in := &input.Inputs

	quantity := 1
	if q, err := strconv.Atoi(form.Get("quantity")); err == nil {
		quantity = q
	}

	switch domain.CartActionType(input.Action) {
	case domain.ActionLinesAdd:
		lines := []domain.LineInput{}
		for _, id := range form["merchandiseId"] {
			lines = append(lines, domain.LineInput{MerchandiseID: id, Quantity: quantity})
		}
		in.Lines, _ = json.Marshal(lines)
	case domain.ActionLinesUpdate:
		lines := []domain.LineUpdateInput{}
		for _, id := range form["lineId"] {
			lines = append(lines, domain.LineUpdateInput{ID: id, Quantity: quantity})
		}
		in.Lines, _ = json.Marshal(lines)
	case domain.ActionGiftCardCodesRemove:
		in.GiftCardCodes = form["giftCardId"]
	default:
		in.GiftCardCodes = form["giftCardCodes"]
	}

	in.LineIDs = form["lineId"]
	in.DiscountCode = form.Get("discountCode")
	in.DiscountCodes = form["discountCodes"]
	in.GiftCardCode = form.Get("giftCardCode")
	if c := form.Get("countryCode"); c != "" {
		in.BuyerIdentity = &struct {
			CountryCode string `json:"countryCode"`
		}{CountryCode: c}
	}
	return input
}

func decodeLines[T any](raw json.RawMessage, out *[]T) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEmptyCartAction, err)
	}
	return nil
}

// wantsJSON reports whether the caller expects a JSON answer instead of a page.
func wantsJSON(r *http.Request) bool {
	return isJSONBody(r) || strings.Contains(r.Header.Get("Accept"), "application/json")
}

func isJSONBody(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// safeRedirect accepts only same-site paths.
func safeRedirect(to string) string {
	if !strings.HasPrefix(to, "/") || strings.HasPrefix(to, "//") || strings.HasPrefix(to, "/\\") {
		return ""
	}
	return to
}

func cartIDFromRequest(r *http.Request) string {
	c, err := r.Cookie(cartCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func giftCardCodesFromRequest(r *http.Request) []string {
	c, err := r.Cookie(giftCardsCookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return nil
	}
	return strings.Split(raw, ",")
}

func (h *Handler) setCartCookie(w http.ResponseWriter, cartID string) {
	http.SetCookie(w, h.cookie(cartCookieName, cartID))
}

func (h *Handler) setGiftCardsCookie(w http.ResponseWriter, codes []string) {
	http.SetCookie(w, h.cookie(giftCardsCookieName, url.QueryEscape(strings.Join(codes, ","))))
}

func (h *Handler) clearCartCookies(w http.ResponseWriter) {
	for _, name := range []string{cartCookieName, giftCardsCookieName} {
		http.SetCookie(w, h.cookie(name, ""))
	}
}

func (h *Handler) cookie(name, value string) *http.Cookie {
	maxAge := cookieMaxAge
	if value == "" {
		maxAge = -1
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
