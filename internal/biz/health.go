package biz

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/log"
)

const healthProbeTimeout = 2 * time.Second

// Health reports the reachability of the service's dependencies.
type Health struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// Healthy reports whether the service can serve requests. The cache is
// advisory, so only the ledger decides.
func (h *Health) Healthy() bool {
	return h.Database == "ok"
}

// HealthUsecase probes the ledger and the cache.
type HealthUsecase struct {
	ledger Ledger
	cache  VerdictCache
	log    *log.Helper
}

// NewHealthUsecase creates a new HealthUsecase.
func NewHealthUsecase(ledger Ledger, cache VerdictCache, logger log.Logger) *HealthUsecase {
	return &HealthUsecase{
		ledger: ledger,
		cache:  cache,
		log:    log.NewHelper(log.With(logger, "module", "biz/health")),
	}
}

// Check pings both stores. A down cache degrades the service but does not
// make it unhealthy.
func (uc *HealthUsecase) Check(ctx context.Context) *Health {
	ctx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()

	h := &Health{Status: "healthy", Database: "ok", Cache: "ok"}
	if err := uc.ledger.Ping(ctx); err != nil {
		uc.log.WithContext(ctx).Errorf("ledger ping failed: %v", err)
		h.Database = "unavailable"
		h.Status = "unhealthy"
	}
	if err := uc.cache.Ping(ctx); err != nil {
		uc.log.WithContext(ctx).Warnf("cache ping failed: %v", err)
		h.Cache = "unavailable"
		if h.Status == "healthy" {
			h.Status = "degraded"
		}
	}
	return h
}
