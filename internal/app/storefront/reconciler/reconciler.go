// Package reconciler serializes cart actions per cart and serves an
// optimistic projection of the cart while actions are in flight.
//
// Each cart gets its own queue. A worker goroutine is started when the queue
// becomes non-empty and exits once it is drained, so idle carts cost nothing.
// With nothing queued a read goes to the platform. While actions are in
// flight reads return domain.Merge(lastKnown, pending) where lastKnown is the
// most recent cart the platform returned, kept in a TTL cache.
package reconciler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/usecases/apply_cart_action"
)

// ErrClosed is returned for actions submitted after Close.
var ErrClosed = errors.New("reconciler is closed")

const defaultActionTimeout = 15 * time.Second

// Applier applies one cart action on the platform.
// *apply_cart_action.Interactor implements it.
type Applier interface {
	Execute(ctx context.Context, req *apply_cart_action.Request) (*apply_cart_action.Result, error)
}

// CartReader loads a cart from the platform.
type CartReader interface {
	Get(ctx context.Context, cartID string) (*domain.Cart, error)
}

// Outcome is the confirmed result of a queued action.
type Outcome struct {
	Result *apply_cart_action.Result
	Err    error
}

type pendingAction struct {
	req  *apply_cart_action.Request
	done chan Outcome
}

type cartQueue struct {
	pending []*pendingAction
}

// Reconciler owns the per-cart queues.
type Reconciler struct {
	applier       Applier
	reader        CartReader
	cache         *ttlcache.Cache[string, *domain.Cart]
	logger        *zap.Logger
	actionTimeout time.Duration

	// mu guards queues and generations, and makes a cache write atomic with
	// the queue change or generation check that goes with it.
	mu          sync.Mutex
	queues      map[string]*cartQueue
	generations *ttlcache.Cache[string, uint64]
	seq         uint64
	closed      bool
	wg          sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithActionTimeout bounds each platform call made by a worker.
func WithActionTimeout(d time.Duration) Option {
	return func(r *Reconciler) {
		if d > 0 {
			r.actionTimeout = d
		}
	}
}

// New creates a Reconciler whose last-known carts expire after ttl.
func New(applier Applier, reader CartReader, ttl time.Duration, logger *zap.Logger, opts ...Option) *Reconciler {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Reconciler{
		applier:       applier,
		reader:        reader,
		cache:         ttlcache.New[string, *domain.Cart](ttlcache.WithTTL[string, *domain.Cart](ttl)),
		logger:        logger.Named("reconciler"),
		actionTimeout: defaultActionTimeout,
		queues:        make(map[string]*cartQueue),
		generations:   ttlcache.New[string, uint64](ttlcache.WithTTL[string, uint64](ttl)),
		ctx:           ctx,
		cancel:        cancel,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Current returns the cart as the visitor should see it. With nothing queued
// it is fetched from the platform; otherwise the last known server cart is
// returned with the pending actions applied on top.
func (r *Reconciler) Current(ctx context.Context, cartID string) (*domain.Cart, error) {
	base, pending, gen := r.snapshot(cartID)
	if len(pending) > 0 && base != nil {
		return domain.Merge(base, pending), nil
	}

	fetched, err := r.fetch(ctx, cartID, gen)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return fetched, nil
	}

	// Actions may have been confirmed while the fetch was running.
	base, pending, _ = r.snapshot(cartID)
	if base == nil {
		base = fetched
	}
	return domain.Merge(base, pending), nil
}

// Apply queues the action behind the cart's pending actions and waits for
// the platform's answer. Actions without a cart id (first add) bypass the
// queue since there is nothing to order them against.
func (r *Reconciler) Apply(ctx context.Context, req *apply_cart_action.Request) (*apply_cart_action.Result, error) {
	if req.CartID == "" {
		res, err := r.applier.Execute(ctx, req)
		if err == nil {
			r.mu.Lock()
			r.remember(res)
			r.mu.Unlock()
		}
		return res, err
	}

	done, err := r.enqueue(req)
	if err != nil {
		return nil, err
	}
	select {
	case out := <-done:
		return out.Result, out.Err
	case <-ctx.Done():
		// The worker still applies the action; only the wait is abandoned.
		return nil, ctx.Err()
	}
}

// Submit queues the action and returns the projected cart immediately.
// The returned channel yields the confirmed outcome.
func (r *Reconciler) Submit(ctx context.Context, req *apply_cart_action.Request) (*domain.Cart, <-chan Outcome, error) {
	if req.CartID == "" {
		return nil, nil, domain.ErrCartNotFound
	}
	if err := req.Action.Validate(); err != nil {
		return nil, nil, err
	}

	// Refresh the base before queueing; a missing cart fails here.
	if _, err := r.Current(ctx, req.CartID); err != nil {
		return nil, nil, err
	}

	done, err := r.enqueue(req)
	if err != nil {
		return nil, nil, err
	}
	projected, err := r.Current(ctx, req.CartID)
	if err != nil {
		return nil, nil, err
	}
	return projected, done, nil
}

// Close stops accepting actions and waits for queued ones to finish. When
// ctx expires first, in-flight platform calls are cancelled.
func (r *Reconciler) Close(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		r.cancel()
		return nil
	case <-ctx.Done():
		r.cancel()
		<-drained
		return ctx.Err()
	}
}

func (r *Reconciler) enqueue(req *apply_cart_action.Request) (<-chan Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}

	p := &pendingAction{req: req, done: make(chan Outcome, 1)}
	q, running := r.queues[req.CartID]
	if !running {
		q = &cartQueue{}
		r.queues[req.CartID] = q
	}
	q.pending = append(q.pending, p)

	if !running {
		r.wg.Add(1)
		go r.work(req.CartID, q)
	}
	return p.done, nil
}

// work applies the queue's actions in submission order. An action stays in
// the queue, and therefore in projections, until the platform answered.
func (r *Reconciler) work(cartID string, q *cartQueue) {
	defer r.wg.Done()

	for {
		r.mu.Lock()
		if len(q.pending) == 0 {
			delete(r.queues, cartID)
			r.mu.Unlock()
			return
		}
		next := q.pending[0]
		r.mu.Unlock()

		out := r.apply(next.req)

		r.mu.Lock()
		switch {
		case out.Err == nil:
			r.remember(out.Result)
		case errors.Is(out.Err, domain.ErrCartNotFound):
			r.forget(cartID)
		}
		q.pending = q.pending[1:]
		r.mu.Unlock()

		next.done <- out
	}
}

func (r *Reconciler) apply(req *apply_cart_action.Request) Outcome {
	ctx, cancel := context.WithTimeout(r.ctx, r.actionTimeout)
	defer cancel()

	res, err := r.applier.Execute(ctx, req)
	if err != nil {
		r.logger.Warn("Cart action failed",
			zap.String("cart_id", req.CartID),
			zap.String("action", string(req.Action.Type)),
			zap.Error(err),
		)
	}
	return Outcome{Result: res, Err: err}
}

// remember stores a confirmed cart. r.mu must be held.
func (r *Reconciler) remember(res *apply_cart_action.Result) {
	if res == nil || res.Cart == nil {
		return
	}
	r.bump(res.Cart.ID)
	r.cache.Set(res.Cart.ID, res.Cart, ttlcache.DefaultTTL)
}

// forget drops the last known cart. r.mu must be held.
func (r *Reconciler) forget(cartID string) {
	r.bump(cartID)
	r.cache.Delete(cartID)
}

func (r *Reconciler) bump(cartID string) {
	r.seq++
	r.generations.Set(cartID, r.seq, ttlcache.DefaultTTL)
}

func (r *Reconciler) generation(cartID string) uint64 {
	if item := r.generations.Get(cartID); item != nil {
		return item.Value()
	}
	return 0
}

// snapshot returns the cached cart, the pending actions and the cart's
// generation as one consistent view.
func (r *Reconciler) snapshot(cartID string) (*domain.Cart, []domain.CartAction, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var base *domain.Cart
	if item := r.cache.Get(cartID); item != nil {
		base = item.Value()
	}
	return base, r.pendingActions(cartID), r.generation(cartID)
}

// fetch reads the cart from the platform. The result is cached only when no
// confirmed cart was stored since gen was taken, so a slow read never
// replaces a newer cart.
func (r *Reconciler) fetch(ctx context.Context, cartID string, gen uint64) (*domain.Cart, error) {
	cart, err := r.reader.Get(ctx, cartID)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.DeleteExpired()
	r.generations.DeleteExpired()

	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			r.forget(cartID)
		}
		return nil, err
	}
	if r.generation(cartID) == gen {
		r.cache.Set(cartID, cart, ttlcache.DefaultTTL)
	}
	return cart, nil
}

// pendingActions lists the queued actions in submission order. r.mu must be held.
func (r *Reconciler) pendingActions(cartID string) []domain.CartAction {
	q, ok := r.queues[cartID]
	if !ok {
		return nil
	}
	actions := make([]domain.CartAction, 0, len(q.pending))
	for _, p := range q.pending {
		actions = append(actions, p.req.Action)
	}
	return actions
}

// pending reports how many actions are queued or in flight for the cart.
func (r *Reconciler) pending(cartID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if q, ok := r.queues[cartID]; ok {
		return len(q.pending)
	}
	return 0
}
