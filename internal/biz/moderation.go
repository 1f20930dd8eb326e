package biz

import (
	"context"
	"encoding/json"
	"time"

	"moderation/internal/conf"
	"moderation/internal/pkg/hash"
	"moderation/internal/pkg/metrics"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// DefaultVerdictTTL is how long a verdict stays in the cache.
const DefaultVerdictTTL = time.Hour

// ModerationUsecase is the cache-aside coordinator between clients, the
// classifier and the ledger.
//
// A lookup resolves in order: cache, classifier, ledger insert, cache fill.
// Concurrent misses for the same fingerprint share one classifier call and
// one ledger row.
type ModerationUsecase struct {
	classifier Classifier
	ledger     Ledger
	cache      VerdictCache
	policy     *Policy
	verdictTTL time.Duration
	flight     singleflight.Group
	log        *log.Helper
}

// NewModerationUsecase creates a new ModerationUsecase.
func NewModerationUsecase(
	classifier Classifier,
	ledger Ledger,
	cache VerdictCache,
	policy *Policy,
	c *conf.Moderation,
	logger log.Logger,
) *ModerationUsecase {
	ttl := DefaultVerdictTTL
	if c != nil && c.VerdictTTL > 0 {
		ttl = c.VerdictTTL.AsDuration()
	}
	return &ModerationUsecase{
		classifier: classifier,
		ledger:     ledger,
		cache:      cache,
		policy:     policy,
		verdictTTL: ttl,
		log:        log.NewHelper(log.With(logger, "module", "biz/moderation")),
	}
}

// ModerateText moderates a text submission.
func (uc *ModerationUsecase) ModerateText(ctx context.Context, text string) (*Verdict, Outcome, error) {
	if text == "" {
		return nil, "", ErrEmptyText
	}
	key := Fingerprint(KindText, text)
	return uc.moderate(ctx, KindText, key, text, Payload{Text: text})
}

// ModerateImage moderates an uploaded image. The cache key is derived from
// the image bytes, so re-uploads under another filename share a verdict.
func (uc *ModerationUsecase) ModerateImage(ctx context.Context, in *ImageInput) (*Verdict, Outcome, error) {
	if in == nil || len(in.Data) == 0 {
		return nil, "", ErrInvalidImage
	}
	subject := in.Filename
	if subject == "" {
		subject = "sha256:" + hash.HashBytesSha256(in.Data)
	}
	key := ImageFingerprint(in.Data)
	return uc.moderate(ctx, KindImage, key, subject, Payload{Image: in.Data})
}

// GetVerdict returns a persisted verdict by id.
func (uc *ModerationUsecase) GetVerdict(ctx context.Context, id int64) (*Verdict, Outcome, error) {
	if id <= 0 {
		return nil, "", ErrInvalidID
	}
	key := IDKey(id)
	if v, ok := uc.lookup(ctx, key); ok {
		metrics.RequestsTotal.WithLabelValues("id", OutcomeCacheHit.String()).Inc()
		return v, OutcomeCacheHit, nil
	}

	v, err := uc.ledger.GetByID(ctx, id)
	if err != nil {
		if ctx.Err() != nil {
			return nil, "", clientClosed(ctx)
		}
		uc.log.WithContext(ctx).Errorf("get verdict %d: %v", id, err)
		return nil, "", ledgerError(err)
	}
	if v == nil {
		return nil, "", ErrVerdictNotFound
	}

	uc.fill(ctx, key, v)
	metrics.RequestsTotal.WithLabelValues("id", OutcomeLedger.String()).Inc()
	return v, OutcomeLedger, nil
}

func (uc *ModerationUsecase) moderate(ctx context.Context, kind Kind, key, subject string, payload Payload) (*Verdict, Outcome, error) {
	if v, ok := uc.lookup(ctx, key); ok {
		metrics.RequestsTotal.WithLabelValues(kind.String(), OutcomeCacheHit.String()).Inc()
		return v, OutcomeCacheHit, nil
	}

	// The shared computation must outlive a disconnecting caller: once the
	// classifier has answered, the ledger row is written regardless.
	detached := context.WithoutCancel(ctx)
	ch := uc.flight.DoChan(key, func() (any, error) {
		return uc.compute(detached, kind, key, subject, payload)
	})

	select {
	case <-ctx.Done():
		return nil, "", clientClosed(ctx)
	case res := <-ch:
		if res.Err != nil {
			metrics.RequestsTotal.WithLabelValues(kind.String(), "error").Inc()
			return nil, "", res.Err
		}
		if res.Shared {
			uc.log.WithContext(ctx).Debugf("coalesced %s verdict for key %q", kind, key)
		}
		metrics.RequestsTotal.WithLabelValues(kind.String(), OutcomeComputed.String()).Inc()
		return res.Val.(*Verdict), OutcomeComputed, nil
	}
}

// compute classifies, derives the flag, persists and fills the cache for one fingerprint.
func (uc *ModerationUsecase) compute(ctx context.Context, kind Kind, key, subject string, payload Payload) (*Verdict, error) {
	requestID := uuid.NewString()
	logger := uc.log.WithContext(ctx)

	start := time.Now()
	categories, err := uc.classifier.Classify(ctx, kind, payload)
	metrics.ClassifierDuration.WithLabelValues(kind.String()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ClassifierCalls.WithLabelValues(kind.String(), "error").Inc()
		logger.Warnf("request %s: classify %s failed: %v", requestID, kind, err)
		return nil, upstreamError(err)
	}
	metrics.ClassifierCalls.WithLabelValues(kind.String(), "ok").Inc()

	flagged := uc.policy.Flagged(kind, categories)

	v, err := uc.ledger.Insert(ctx, subject, flagged, categories)
	if err != nil {
		logger.Errorf("request %s: persist %s verdict failed: %v", requestID, kind, err)
		return nil, ledgerError(err)
	}
	v.Kind = kind

	uc.fill(ctx, key, v)
	logger.Infof("request %s: %s verdict %d flagged=%t", requestID, kind, v.ID, v.Flagged)
	return v, nil
}

// lookup reads and decodes a cached verdict. Undecodable entries are
// dropped and read as misses.
func (uc *ModerationUsecase) lookup(ctx context.Context, key string) (*Verdict, bool) {
	raw, ok := uc.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var v Verdict
	if err := json.Unmarshal(raw, &v); err != nil {
		uc.log.WithContext(ctx).Warnf("discarding undecodable cache entry %q: %v", key, err)
		uc.cache.Delete(ctx, key)
		return nil, false
	}
	return &v, true
}

// fill writes v to the cache. Failures are already logged by the cache.
func (uc *ModerationUsecase) fill(ctx context.Context, key string, v *Verdict) {
	raw, err := json.Marshal(v)
	if err != nil {
		uc.log.WithContext(ctx).Warnf("encode verdict %d for cache: %v", v.ID, err)
		return
	}
	uc.cache.Set(ctx, key, raw, uc.verdictTTL)
}
