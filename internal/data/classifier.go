package data

import (
	"context"
	"fmt"

	"moderation/internal/biz"
	"moderation/internal/conf"
	"moderation/internal/pkg/classifier"
)

type classifierAdapter struct {
	text  *classifier.TextClient
	image *classifier.ImageClient
}

// NewClassifier builds the upstream text and image classifiers.
func NewClassifier(c *conf.Classifier) biz.Classifier {
	timeout := c.Timeout.AsDuration()
	return &classifierAdapter{
		text: classifier.NewTextClient(classifier.Config{
			BaseURL: c.TextEndpoint,
			APIKey:  c.APIKey,
			Timeout: timeout,
		}, c.TextAttributes...),
		image: classifier.NewImageClient(classifier.Config{
			BaseURL: c.ImageEndpoint,
			APIKey:  c.APIKey,
			Timeout: timeout,
		}),
	}
}

func (a *classifierAdapter) Classify(ctx context.Context, kind biz.Kind, payload biz.Payload) (map[string]any, error) {
	switch kind {
	case biz.KindText:
		return a.text.Analyze(ctx, payload.Text)
	case biz.KindImage:
		return a.image.SafeSearch(ctx, payload.Image)
	default:
		return nil, fmt.Errorf("unsupported content kind %q", kind)
	}
}
