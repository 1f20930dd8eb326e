package service

import (
	"context"
	"errors"

	"moderation/internal/biz"
	"moderation/internal/pkg/hash"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport"
)

// CacheHeader reports whether a verdict came from the cache.
const CacheHeader = "X-Cache"

// ModerationService exposes moderation over HTTP.
type ModerationService struct {
	uc        *biz.ModerationUsecase
	stats     *biz.StatsUsecase
	health    *biz.HealthUsecase
	inspector *hash.ImageInspector
	log       *log.Helper
}

// NewModerationService creates a new ModerationService.
func NewModerationService(uc *biz.ModerationUsecase, stats *biz.StatsUsecase, health *biz.HealthUsecase, logger log.Logger) *ModerationService {
	return &ModerationService{
		uc:        uc,
		stats:     stats,
		health:    health,
		inspector: hash.NewImageInspector(),
		log:       log.NewHelper(log.With(logger, "module", "service/moderation")),
	}
}

// ModerateText classifies a piece of text.
func (s *ModerationService) ModerateText(ctx context.Context, in *ModerateTextRequest) (*VerdictReply, error) {
	v, outcome, err := s.uc.ModerateText(ctx, in.Text)
	if err != nil {
		return nil, err
	}
	setCacheHeader(ctx, outcome)
	return toVerdictReply(v), nil
}

// ModerateImage classifies an uploaded JPEG or PNG image.
func (s *ModerationService) ModerateImage(ctx context.Context, in *ModerateImageRequest) (*ImageVerdictReply, error) {
	if !allowedImageType(in.ContentType) {
		return nil, biz.ErrUnsupportedImage
	}
	info, err := s.inspector.Inspect(in.Data)
	if err != nil {
		s.log.WithContext(ctx).Infof("rejecting upload %q: %v", in.Filename, err)
		switch {
		case errors.Is(err, hash.ErrUnsupportedFormat):
			return nil, biz.ErrUnsupportedImage
		case errors.Is(err, hash.ErrImageTooLarge):
			return nil, biz.ErrImageTooLarge
		}
		return nil, biz.ErrInvalidImage
	}

	v, outcome, err := s.uc.ModerateImage(ctx, &biz.ImageInput{Filename: in.Filename, Data: in.Data})
	if err != nil {
		return nil, err
	}
	setCacheHeader(ctx, outcome)
	return &ImageVerdictReply{
		ID:          v.ID,
		Filename:    in.Filename,
		ContentHash: info.ContentHash,
		PHash:       info.PHashString(),
		Flagged:     v.Flagged,
		Categories:  nonNil(v.Categories),
	}, nil
}

// GetVerdict returns a stored verdict.
func (s *ModerationService) GetVerdict(ctx context.Context, in *GetVerdictRequest) (*VerdictReply, error) {
	v, outcome, err := s.uc.GetVerdict(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	setCacheHeader(ctx, outcome)
	return toVerdictReply(v), nil
}

// GetStats returns the moderation rollup.
func (s *ModerationService) GetStats(ctx context.Context, _ *Empty) (*biz.Stats, error) {
	return s.stats.GetStats(ctx)
}

// Root is the welcome endpoint.
func (s *ModerationService) Root(ctx context.Context, _ *Empty) (*RootReply, error) {
	return &RootReply{Message: "Welcome to ModeraAI"}, nil
}

// Health probes the ledger and the cache.
func (s *ModerationService) Health(ctx context.Context, _ *Empty) (*biz.Health, error) {
	return s.health.Check(ctx), nil
}

func allowedImageType(contentType string) bool {
	return contentType == "image/jpeg" || contentType == "image/png"
}

func setCacheHeader(ctx context.Context, outcome biz.Outcome) {
	tr, ok := transport.FromServerContext(ctx)
	if !ok {
		return
	}
	if outcome == biz.OutcomeCacheHit {
		tr.ReplyHeader().Set(CacheHeader, "HIT")
	} else {
		tr.ReplyHeader().Set(CacheHeader, "MISS")
	}
}
