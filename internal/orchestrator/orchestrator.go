package orchestrator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/falconstore/oddswatch/internal/catalog"
	"github.com/falconstore/oddswatch/internal/detector"
	"github.com/falconstore/oddswatch/internal/domain"
	"github.com/falconstore/oddswatch/internal/guard"
	"github.com/falconstore/oddswatch/internal/normalizer"
	"github.com/falconstore/oddswatch/internal/publisher"
	"github.com/falconstore/oddswatch/internal/repository"
	"github.com/falconstore/oddswatch/internal/resolver"
	"github.com/falconstore/oddswatch/internal/source"
)

// Circuit breaker settings for source fan-out.
const (
	sourceFailThreshold = 3
	sourceResetTimeout  = 5 * time.Minute
)

// Options tunes the cycle loop.
type Options struct {
	// Interval is the sleep applied after a cycle completes, not a tick rate.
	Interval time.Duration

	// CatalogRefreshCycles bounds how long reload failures stay quiet. The
	// catalog reloads at the top of every cycle; when a reload fails with a
	// previous snapshot in place the cycle runs on the stale data with a
	// warning, but every N cycles the failure is escalated into the summary.
	CatalogRefreshCycles int

	// RunOnce runs a single cycle and returns, for CI and smoke runs.
	RunOnce bool
}

// Orchestrator drives the pipeline: collect from all sources in parallel,
// normalize, detect alerts, clean up and publish, then sleep. Every phase
// failure is recorded in the cycle summary; only context cancellation stops
// the loop.
type Orchestrator struct {
	registry   *source.Registry
	catalog    *catalog.Catalog
	resolver   *resolver.Resolver
	normalizer *normalizer.Normalizer
	detector   *detector.Detector
	publisher  *publisher.Publisher
	store      repository.Maintenance
	breaker    *guard.CircuitBreaker
	opts       Options
	logger     *slog.Logger

	mu   sync.RWMutex
	last *domain.CycleSummary
}

func New(
	registry *source.Registry,
	cat *catalog.Catalog,
	res *resolver.Resolver,
	norm *normalizer.Normalizer,
	det *detector.Detector,
	pub *publisher.Publisher,
	store repository.Maintenance,
	opts Options,
	logger *slog.Logger,
) *Orchestrator {
	if opts.CatalogRefreshCycles < 1 {
		opts.CatalogRefreshCycles = 1
	}
	return &Orchestrator{
		registry:   registry,
		catalog:    cat,
		resolver:   res,
		normalizer: norm,
		detector:   det,
		publisher:  pub,
		store:      store,
		breaker:    guard.NewCircuitBreaker(sourceFailThreshold, sourceResetTimeout),
		opts:       opts,
		logger:     logger,
	}
}

// LastSummary returns the most recent cycle summary, nil before the first
// cycle completes.
func (o *Orchestrator) LastSummary() *domain.CycleSummary {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.last == nil {
		return nil
	}
	out := *o.last
	return &out
}

// Run executes cycles until ctx is cancelled. The interval is a sleep
// after completion, so slow cycles never overlap.
func (o *Orchestrator) Run(ctx context.Context) error {
	defer o.registry.TeardownAll(context.WithoutCancel(ctx))

	for _, s := range o.registry.Sources() {
		if err := s.Setup(ctx); err != nil {
			o.logger.Error("source setup failed", "source", s.Name(), "error", err)
		}
	}

	cycles := 0
	for {
		summary := o.runCycle(ctx, cycles)
		o.mu.Lock()
		o.last = summary
		o.mu.Unlock()
		cycles++

		if o.opts.RunOnce {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(o.opts.Interval):
		}
	}
}

func (o *Orchestrator) runCycle(ctx context.Context, cycleNum int) *domain.CycleSummary {
	summary := &domain.CycleSummary{
		CycleID:   uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	logger := o.logger.With("cycle_id", summary.CycleID)
	logger.Info("cycle started", "cycle", cycleNum)

	if err := o.catalog.Reload(ctx); err != nil {
		if o.catalog.Ready() && cycleNum%o.opts.CatalogRefreshCycles != 0 {
			logger.Warn("catalog reload failed, running on previous snapshot", "error", err)
		} else {
			logger.Error("catalog reload failed", "error", err)
			summary.AddError("catalog", err)
		}
	}
	if !o.catalog.Ready() {
		// No snapshot has ever loaded; the cycle yields no work.
		summary.AddError("catalog", domain.ErrInternal("catalog never loaded, skipping cycle", nil))
		summary.Duration = time.Since(summary.StartedAt)
		logger.Info("cycle skipped", "errors", len(summary.Errors))
		return summary
	}

	o.resolver.BeginCycle()

	offers := o.collect(ctx, summary, logger)
	summary.OddsCollected = len(offers)

	if len(offers) > 0 {
		result := o.normalizer.Process(ctx, offers)
		summary.FootballInserted = result.FootballInserted
		summary.NBAInserted = result.BasketballInserted
		summary.Errors = append(summary.Errors, result.Errors...)

		if len(result.FootballOdds) > 0 {
			count, err := o.detector.Run(ctx, result.FootballOdds, result.FootballMatches)
			if err != nil {
				logger.Error("alert detection failed", "error", err)
				summary.AddError("alerts", err)
			}
			summary.AlertsCreated = count
		}
	}
	o.resolver.Wait()

	o.cleanup(ctx, summary, logger)

	published, err := o.publisher.Publish(ctx)
	if err != nil {
		logger.Error("publish failed", "error", err)
		summary.AddError("publish", err)
	} else {
		summary.JSONUploaded = true
	}

	summary.Duration = time.Since(summary.StartedAt)
	logger.Info("cycle finished",
		"duration", summary.Duration,
		"odds_collected", summary.OddsCollected,
		"football_inserted", summary.FootballInserted,
		"nba_inserted", summary.NBAInserted,
		"alerts_created", summary.AlertsCreated,
		"matches_cleaned", summary.MatchesCleaned,
		"matches_published", published,
		"errors", len(summary.Errors))
	return summary
}

// collect fans all sources out in parallel and gathers partial results.
// A failing or open-circuit source costs its own offers only.
func (o *Orchestrator) collect(ctx context.Context, summary *domain.CycleSummary, logger *slog.Logger) []domain.RawOffer {
	type result struct {
		source string
		offers []domain.RawOffer
		err    error
	}

	sources := o.registry.Sources()
	results := make(chan result, len(sources))
	var wg sync.WaitGroup
	for _, s := range sources {
		if verdict := o.breaker.Check(s.Name()); !verdict.Allowed {
			logger.Warn("source skipped", "source", s.Name(), "reason", verdict.Reason)
			continue
		}
		wg.Add(1)
		go func(s source.Source) {
			defer wg.Done()
			offers, err := s.Collect(ctx)
			results <- result{source: s.Name(), offers: offers, err: err}
		}(s)
	}
	wg.Wait()
	close(results)

	var offers []domain.RawOffer
	for r := range results {
		// A cancelled source may still return a partial batch; keep it.
		offers = append(offers, r.offers...)
		if r.err != nil {
			o.breaker.RecordFailure(r.source)
			logger.Warn("source collect failed",
				"source", r.source, "partial_offers", len(r.offers), "error", r.err)
			summary.AddError("collect/"+r.source, r.err)
			continue
		}
		o.breaker.RecordSuccess(r.source)
		logger.Debug("source collected", "source", r.source, "offers", len(r.offers))
	}
	return offers
}

func (o *Orchestrator) cleanup(ctx context.Context, summary *domain.CycleSummary, logger *slog.Logger) {
	football, err := o.store.RetireStartedFootballMatches(ctx)
	if err != nil {
		logger.Error("football cleanup failed", "error", err)
		summary.AddError("cleanup/football", err)
	}
	basketball, err := o.store.RetireStartedBasketballMatches(ctx)
	if err != nil {
		logger.Error("basketball cleanup failed", "error", err)
		summary.AddError("cleanup/basketball", err)
	}
	summary.MatchesCleaned = football + basketball
}
