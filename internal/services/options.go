package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cloud.google.com/go/spanner"
	"go.uber.org/zap"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/contracts"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/queries/get_cart"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/queries/get_collection"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/queries/get_footer"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/queries/get_header"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/queries/get_product"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/queries/list_collections"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/queries/list_events"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/queries/list_products"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/reconciler"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/repo"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/usecases/apply_cart_action"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/usecases/publish_cart_viewed"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/usecases/relay_outbox"
	"github.com/light-bringer/feliz-storefront/internal/config"
	"github.com/light-bringer/feliz-storefront/internal/pkg/clock"
	"github.com/light-bringer/feliz-storefront/internal/pkg/committer"
	"github.com/light-bringer/feliz-storefront/internal/pkg/graphql"
	transporthttp "github.com/light-bringer/feliz-storefront/internal/transport/http"
)

// ServiceOptions holds all dependencies of the storefront server.
type ServiceOptions struct {
	SpannerClient *spanner.Client // nil unless the spanner sink is selected
	Sink          contracts.EventSink
	Reconciler    *reconciler.Reconciler
	Handler       *transporthttp.Handler
	Router        http.Handler
}

// NewServiceOptions creates and wires up all application dependencies.
func NewServiceOptions(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*ServiceOptions, error) {
	// 1. Create infrastructure components
	clk := clock.NewRealClock()
	client := graphql.NewClient(graphql.Config{
		StoreDomain: cfg.PublicStoreDomain,
		APIVersion:  cfg.PublicStorefrontAPIVersion,
		AccessToken: cfg.PublicStorefrontAPIToken,
		Country:     cfg.StorefrontCountry,
		Language:    cfg.StorefrontLanguage,
	}, logger.Named("graphql"))

	s := &ServiceOptions{}

	// 2. Create the analytics sink
	var eventsReadModel *repo.EventsReadModel
	switch cfg.AnalyticsSink {
	case config.SinkKafka:
		s.Sink = repo.NewKafkaSink(repo.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger), clk)
	case config.SinkSpanner:
		spannerClient, err := spanner.NewClient(ctx, cfg.SpannerDatabase)
		if err != nil {
			return nil, fmt.Errorf("failed to create Spanner client: %w", err)
		}
		s.SpannerClient = spannerClient
		s.Sink = repo.NewOutboxSink(repo.NewOutboxRepo(), committer.NewCommitter(spannerClient))
		eventsReadModel = repo.NewEventsReadModel(spannerClient)
	default:
		s.Sink = repo.NewLogSink(logger, clk)
	}

	// 3. Create repositories
	catalogRepo := repo.NewCatalogRepo(client)
	layoutRepo := repo.NewLayoutRepo(client)
	cartRepo := repo.NewCartRepo(client)

	// 4. Create command use cases (write operations)
	applyCartAction := apply_cart_action.NewInteractor(cartRepo, s.Sink, clk, logger)
	publishCartViewed := publish_cart_viewed.NewInteractor(s.Sink, clk)
	s.Reconciler = reconciler.New(applyCartAction, cartRepo, cfg.CartCacheTTL, logger)

	// 5. Create query use cases (read operations)
	deps := transporthttp.Dependencies{
		ListProducts:    list_products.NewQuery(catalogRepo),
		ListCollections: list_collections.NewQuery(catalogRepo),
		GetCollection:   get_collection.NewQuery(catalogRepo),
		GetProduct:      get_product.NewQuery(catalogRepo),
		GetCart:         get_cart.NewQuery(s.Reconciler),
		GetHeader:       get_header.NewQuery(layoutRepo, cfg.PublicStoreDomain, cfg.LayoutCacheTTL),
		GetFooter:       get_footer.NewQuery(layoutRepo, cfg.PublicStoreDomain, cfg.LayoutCacheTTL),
		Cart:            s.Reconciler,
		CartViewed:      publishCartViewed,
		Clock:           clk,
		Logger:          logger,
	}
	if eventsReadModel != nil {
		deps.ListEvents = list_events.NewQuery(eventsReadModel)
	}

	// 6. Create HTTP handler
	handler, err := transporthttp.NewHandler(deps, transporthttp.Options{
		DeferredTimeout: cfg.DeferredTimeout,
		CookieSecure:    cfg.SessionCookieSecure,
		CountryCode:     cfg.StorefrontCountry,
	})
	if err != nil {
		_ = s.Close(ctx)
		return nil, fmt.Errorf("failed to create HTTP handler: %w", err)
	}
	s.Handler = handler
	s.Router = transporthttp.NewRouter(handler, logger.Named("http"))

	return s, nil
}

// Close drains queued cart actions, then closes the sink and Spanner.
func (s *ServiceOptions) Close(ctx context.Context) error {
	var errs []error
	if s.Reconciler != nil {
		if err := s.Reconciler.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("reconciler: %w", err))
		}
	}
	if s.Sink != nil {
		if err := s.Sink.Close(); err != nil {
			errs = append(errs, fmt.Errorf("analytics sink: %w", err))
		}
	}
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
	return errors.Join(errs...)
}

// OutboxOptions holds the dependencies of the outbox maintenance commands.
type OutboxOptions struct {
	SpannerClient *spanner.Client
	ReadModel     *repo.EventsReadModel
	Relay         *relay_outbox.Interactor // nil unless built with a broker
	publisher     *repo.KafkaSink
}

// NewOutboxOptions connects to the outbox database. withRelay also connects
// the broker the relay publishes to.
func NewOutboxOptions(ctx context.Context, cfg *config.Config, logger *zap.Logger, withRelay bool) (*OutboxOptions, error) {
	spannerClient, err := spanner.NewClient(ctx, cfg.SpannerDatabase)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spanner client: %w", err)
	}

	o := &OutboxOptions{
		SpannerClient: spannerClient,
		ReadModel:     repo.NewEventsReadModel(spannerClient),
	}
	if withRelay {
		clk := clock.NewRealClock()
		o.publisher = repo.NewKafkaSink(repo.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger), clk)
		o.Relay = relay_outbox.NewInteractor(o.ReadModel, o.publisher, committer.NewCommitter(spannerClient), clk, logger)
	}
	return o, nil
}

// Close closes the broker writer and the Spanner client.
func (o *OutboxOptions) Close() error {
	var err error
	if o.publisher != nil {
		err = o.publisher.Close()
	}
	if o.SpannerClient != nil {
		o.SpannerClient.Close()
	}
	return err
}
