package biz

import (
	"context"
	"encoding/json"
	"time"

	"moderation/internal/conf"
	"moderation/internal/pkg/metrics"

	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/sync/singleflight"
)

// DefaultStatsTTL bounds how stale the statistics rollup may get.
const DefaultStatsTTL = 5 * time.Minute

// Stats is the moderation rollup served by /stats.
type Stats struct {
	Total             int64            `json:"total_moderated"`
	Flagged           int64            `json:"flagged_count"`
	NonFlagged        int64            `json:"non_flagged_count"`
	CategoryBreakdown map[string]int64 `json:"category_breakdown"`
}

// StatsUsecase builds and caches the statistics rollup.
type StatsUsecase struct {
	ledger Ledger
	cache  VerdictCache
	ttl    time.Duration
	flight singleflight.Group
	log    *log.Helper
}

// NewStatsUsecase creates a new StatsUsecase.
func NewStatsUsecase(ledger Ledger, cache VerdictCache, c *conf.Moderation, logger log.Logger) *StatsUsecase {
	ttl := DefaultStatsTTL
	if c != nil && c.StatsTTL > 0 {
		ttl = c.StatsTTL.AsDuration()
	}
	return &StatsUsecase{
		ledger: ledger,
		cache:  cache,
		ttl:    ttl,
		log:    log.NewHelper(log.With(logger, "module", "biz/stats")),
	}
}

// GetStats returns the cached rollup, rebuilding it from the ledger on a miss.
// The result may lag the ledger by up to the stats TTL.
func (uc *StatsUsecase) GetStats(ctx context.Context) (*Stats, error) {
	if raw, ok := uc.cache.Get(ctx, StatsKey); ok {
		var s Stats
		if err := json.Unmarshal(raw, &s); err == nil {
			metrics.RequestsTotal.WithLabelValues("stats", OutcomeCacheHit.String()).Inc()
			return &s, nil
		}
		uc.log.WithContext(ctx).Warnf("discarding undecodable stats cache entry")
		uc.cache.Delete(ctx, StatsKey)
	}

	// The rebuild is shared, so it must not fail because one waiter left.
	detached := context.WithoutCancel(ctx)
	ch := uc.flight.DoChan(StatsKey, func() (any, error) {
		return uc.build(detached)
	})

	select {
	case <-ctx.Done():
		return nil, clientClosed(ctx)
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		metrics.RequestsTotal.WithLabelValues("stats", OutcomeLedger.String()).Inc()
		return res.Val.(*Stats), nil
	}
}

func (uc *StatsUsecase) build(ctx context.Context) (*Stats, error) {
	total, err := uc.ledger.Count(ctx)
	if err != nil {
		uc.log.WithContext(ctx).Errorf("count verdicts: %v", err)
		return nil, ledgerError(err)
	}
	flagged, err := uc.ledger.CountFlagged(ctx)
	if err != nil {
		return nil, ledgerError(err)
	}

	breakdown := make(map[string]int64)
	err = uc.ledger.ScanCategories(ctx, func(categories map[string]any) error {
		for name := range categories {
			breakdown[name]++
		}
		return nil
	})
	if err != nil {
		return nil, ledgerError(err)
	}

	s := &Stats{
		Total:             total,
		Flagged:           flagged,
		NonFlagged:        total - flagged,
		CategoryBreakdown: breakdown,
	}

	if raw, err := json.Marshal(s); err == nil {
		uc.cache.Set(ctx, StatsKey, raw, uc.ttl)
	}
	return s, nil
}
