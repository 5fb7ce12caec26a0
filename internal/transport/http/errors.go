package http

import (
	"errors"
	"net/http"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/reconciler"
)

// mapDomainErrorToHTTP converts domain errors to an HTTP status and a
// message that is safe to show to the visitor.
func mapDomainErrorToHTTP(err error) (int, string) {
	if err == nil {
		return http.StatusOK, ""
	}

	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, "product not found"

	case errors.Is(err, domain.ErrCollectionNotFound):
		return http.StatusNotFound, "collection not found"

	case errors.Is(err, domain.ErrInvalidHandle):
		return http.StatusNotFound, "page not found"

	case errors.Is(err, domain.ErrCartNotFound):
		return http.StatusNotFound, "cart not found"

	case errors.Is(err, domain.ErrInvalidPageSize),
		errors.Is(err, domain.ErrConflictingPager):
		return http.StatusBadRequest, "invalid pagination parameters"

	case errors.Is(err, domain.ErrUnknownCartAction):
		return http.StatusBadRequest, "unknown cart action"

	case errors.Is(err, domain.ErrMissingMerchandise),
		errors.Is(err, domain.ErrMissingLineID),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrEmptyCartAction),
		errors.Is(err, domain.ErrMissingGiftCardCode):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, reconciler.ErrClosed):
		return http.StatusServiceUnavailable, "storefront is shutting down"

	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
