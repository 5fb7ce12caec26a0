package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpillora/backoff"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/queries/list_events"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/usecases/relay_outbox"
	"github.com/light-bringer/feliz-storefront/internal/config"
	"github.com/light-bringer/feliz-storefront/internal/services"
)

func newOutboxCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outbox",
		Short: "Maintain the analytics outbox stored in Spanner",
	}
	cmd.AddCommand(
		newOutboxMigrateCmd(c),
		newOutboxListCmd(c),
		newOutboxCleanupCmd(c),
		newOutboxRelayCmd(c),
	)
	return cmd
}

func outboxOnly(cfg *config.Config) error { return cfg.ValidateOutbox(false) }

func outboxWithRelay(cfg *config.Config) error { return cfg.ValidateOutbox(true) }

// withOutbox runs fn against an open outbox connection.
func (c *cli) withOutbox(ctx context.Context, relay bool, fn func(context.Context, *services.OutboxOptions, *zap.Logger) error) error {
	validate := outboxOnly
	if relay {
		validate = outboxWithRelay
	}
	cfg, logger, err := c.setup(validate)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	opts, err := services.NewOutboxOptions(ctx, cfg, logger, relay)
	if err != nil {
		return err
	}
	defer func() {
		if err := opts.Close(); err != nil {
			logger.Warn("Failed to close outbox connections", zap.Error(err))
		}
	}()
	return fn(ctx, opts, logger)
}

func newOutboxListCmd(c *cli) *cobra.Command {
	var eventType, cartID, status string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the most recent outbox events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withOutbox(cmd.Context(), false, func(ctx context.Context, o *services.OutboxOptions, _ *zap.Logger) error {
				req := &list_events.Request{Limit: limit}
				if eventType != "" {
					req.EventType = &eventType
				}
				if cartID != "" {
					req.CartID = &cartID
				}
				if status != "" {
					req.Status = &status
				}

				events, total, err := list_events.NewQuery(o.ReadModel).Execute(ctx, req)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(events) == 0 {
					fmt.Fprintln(out, "No events found!")
					return nil
				}
				for i, e := range events {
					fmt.Fprintf(out, "%d. %s - %s (cart: %s, status: %s, attempts: %d, created: %s)\n",
						i+1, e.EventType, e.EventID, orDash(e.CartID.StringVal), e.Status, e.Attempts,
						e.CreatedAt.Format(time.RFC3339))
				}
				fmt.Fprintf(out, "\nShowing %d of %d events\n", len(events), total)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&eventType, "event-type", "", "filter by event type")
	cmd.Flags().StringVar(&cartID, "cart-id", "", "filter by cart id")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (pending, published, failed)")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of events to print")
	return cmd
}

func newOutboxCleanupCmd(c *cli) *cobra.Command {
	var publishedDays, failedDays int
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete published and failed events past their retention",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if publishedDays < 1 || failedDays < 1 {
				return fmt.Errorf("retention must be at least one day")
			}
			return c.withOutbox(cmd.Context(), false, func(ctx context.Context, o *services.OutboxOptions, logger *zap.Logger) error {
				now := time.Now().UTC()
				publishedCutoff := now.AddDate(0, 0, -publishedDays)
				failedCutoff := now.AddDate(0, 0, -failedDays)

				logger.Info("Starting outbox cleanup",
					zap.Time("published_cutoff", publishedCutoff),
					zap.Time("failed_cutoff", failedCutoff),
					zap.Bool("dry_run", dryRun),
				)

				if dryRun {
					n, err := o.ReadModel.CountExpired(ctx, publishedCutoff, failedCutoff)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "DRY RUN: would delete %d events\n", n)
					return nil
				}

				n, err := o.ReadModel.DeleteExpired(ctx, publishedCutoff, failedCutoff)
				if err != nil {
					return err
				}
				logger.Info("Outbox cleanup completed", zap.Int64("deleted", n))
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d events\n", n)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&publishedDays, "published-retention", 30, "retention days for published events")
	cmd.Flags().IntVar(&failedDays, "failed-retention", 90, "retention days for failed events")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be deleted without deleting")
	return cmd
}

type relayOptions struct {
	interval    time.Duration
	maxBackoff  time.Duration
	batch       int64
	maxAttempts int64
	once        bool
}

func newOutboxRelayCmd(c *cli) *cobra.Command {
	ro := relayOptions{}

	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Forward pending outbox events to Kafka",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.withOutbox(ctx, true, func(ctx context.Context, o *services.OutboxOptions, logger *zap.Logger) error {
				return relayLoop(ctx, o.Relay, ro, logger)
			})
		},
	}
	cmd.Flags().DurationVar(&ro.interval, "interval", 5*time.Second, "pause between relay passes")
	cmd.Flags().DurationVar(&ro.maxBackoff, "max-backoff", time.Minute, "longest pause after consecutive failures")
	cmd.Flags().Int64Var(&ro.batch, "batch", 100, "events per pass")
	cmd.Flags().Int64Var(&ro.maxAttempts, "max-attempts", 5, "delivery attempts before an event is marked failed")
	cmd.Flags().BoolVar(&ro.once, "once", false, "run a single pass and exit")
	return cmd
}

// relayer is the part of the relay interactor the loop drives.
type relayer interface {
	Execute(ctx context.Context, req *relay_outbox.Request) (*relay_outbox.Result, error)
}

// relayLoop runs relay passes until ctx is cancelled. A full batch is
// followed by another pass right away; failures back off exponentially.
func relayLoop(ctx context.Context, r relayer, ro relayOptions, logger *zap.Logger) error {
	b := &backoff.Backoff{Min: ro.interval, Max: ro.maxBackoff, Factor: 2, Jitter: true}
	req := &relay_outbox.Request{BatchSize: ro.batch, MaxAttempts: ro.maxAttempts}

	for {
		res, err := r.Execute(ctx, req)
		wait := ro.interval
		switch {
		case err != nil:
			if ro.once {
				return err
			}
			wait = b.Duration()
			logger.Warn("Relay pass failed", zap.Error(err), zap.Duration("retry_in", wait))
		default:
			b.Reset()
			handled := int64(res.Published + res.Retried + res.Failed)
			if handled > 0 {
				logger.Info("Relay pass completed",
					zap.Int("published", res.Published),
					zap.Int("retried", res.Retried),
					zap.Int("failed", res.Failed),
				)
			}
			if ro.once {
				return nil
			}
			if ro.batch > 0 && handled >= ro.batch {
				wait = 0
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
