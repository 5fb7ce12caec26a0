package apply_cart_action

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/contracts"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
	"github.com/light-bringer/feliz-storefront/internal/pkg/clock"
)

// Request contains a cart action submitted through the /cart route.
type Request struct {
	CartID      string // empty when the visitor has no cart yet
	Action      domain.CartAction
	CountryCode string // buyer country used when a cart is created
}

// Result is the platform's answer to the action.
type Result struct {
	contracts.CartResult
	Action  domain.CartActionType
	CartID  string
	Created bool
}

// Succeeded reports whether the platform accepted the action.
func (r *Result) Succeeded() bool {
	return r.Cart != nil && len(r.UserErrors) == 0
}

// Interactor handles the apply cart action use case.
type Interactor struct {
	repo   contracts.CartRepository
	sink   contracts.EventSink
	clock  clock.Clock
	logger *zap.Logger
}

// NewInteractor creates a new apply cart action interactor.
func NewInteractor(
	repo contracts.CartRepository,
	sink contracts.EventSink,
	clock clock.Clock,
	logger *zap.Logger,
) *Interactor {
	return &Interactor{
		repo:   repo,
		sink:   sink,
		clock:  clock,
		logger: logger,
	}
}

// Execute sends the action to the platform exactly once. Mutations are not
// retried: a failed attempt may still have been applied. A cart is created
// when lines are added without one. User errors are returned in the result,
// not as an error.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Result, error) {
	if err := req.Action.Validate(); err != nil {
		return nil, err
	}

	res, created, err := i.dispatch(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to apply %s: %w", req.Action.Type, err)
	}

	result := &Result{CartResult: *res, Action: req.Action.Type, CartID: req.CartID, Created: created}
	if res.Cart != nil {
		result.CartID = res.Cart.ID
	}

	if result.Succeeded() {
		i.publish(ctx, req.Action, res.Cart)
	}
	return result, nil
}

func (i *Interactor) dispatch(ctx context.Context, req *Request) (*contracts.CartResult, bool, error) {
	a := req.Action
	if req.CartID == "" {
		if a.Type != domain.ActionLinesAdd {
			return nil, false, domain.ErrCartNotFound
		}
		res, err := i.repo.Create(ctx, a.Lines, req.CountryCode)
		return res, true, err
	}

	var (
		res *contracts.CartResult
		err error
	)
	switch a.Type {
	case domain.ActionLinesAdd:
		res, err = i.repo.AddLines(ctx, req.CartID, a.Lines)
	case domain.ActionLinesUpdate:
		res, err = i.repo.UpdateLines(ctx, req.CartID, a.LineUpdates)
	case domain.ActionLinesRemove:
		res, err = i.repo.RemoveLines(ctx, req.CartID, a.LineIDs)
	case domain.ActionDiscountCodesUpdate:
		res, err = i.repo.UpdateDiscountCodes(ctx, req.CartID, a.DiscountCodes)
	case domain.ActionGiftCardCodesUpdate:
		res, err = i.repo.UpdateGiftCardCodes(ctx, req.CartID, a.GiftCardCodes)
	case domain.ActionGiftCardCodesRemove:
		res, err = i.repo.RemoveGiftCardCodes(ctx, req.CartID, a.GiftCardCodes)
	case domain.ActionBuyerIdentityUpdate:
		res, err = i.repo.UpdateBuyerIdentity(ctx, req.CartID, a.CountryCode)
	default:
		return nil, false, domain.ErrUnknownCartAction
	}
	return res, false, err
}

// publish is best effort; analytics never fail a cart action.
func (i *Interactor) publish(ctx context.Context, action domain.CartAction, cart *domain.Cart) {
	events := domain.EventsForAction(action, cart, i.clock.Now())
	if len(events) == 0 {
		return
	}
	if err := i.sink.Publish(ctx, events...); err != nil {
		i.logger.Warn("Failed to publish cart events",
			zap.String("action", string(action.Type)),
			zap.String("cart_id", cart.ID),
			zap.Error(err),
		)
	}
}
