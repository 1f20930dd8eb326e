package biz

import (
	"context"
	"time"
)

// Kind is the type of moderated content.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

func (k Kind) String() string {
	return string(k)
}

// Outcome tells how a verdict was resolved.
type Outcome string

const (
	OutcomeCacheHit Outcome = "cache_hit"
	OutcomeComputed Outcome = "computed"
	OutcomeLedger   Outcome = "ledger"
)

func (o Outcome) String() string {
	return string(o)
}

// Verdict is the persisted moderation outcome for one submission.
//
// Flagged is derived from Categories by the Policy in force when the verdict
// was written. A later policy change does not rewrite stored verdicts, so
// Flagged may disagree with the current policy for old rows.
type Verdict struct {
	ID         int64          `json:"id"`
	Kind       Kind           `json:"kind,omitempty"`
	Subject    string         `json:"subject"`
	Flagged    bool           `json:"flagged"`
	Categories map[string]any `json:"categories"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Payload is what gets sent to the classifier.
type Payload struct {
	Text  string
	Image []byte
}

// ImageInput is an uploaded image submission.
type ImageInput struct {
	Filename string
	Data     []byte
}

// Classifier scores content against the upstream provider. Text scores are
// passed through as numbers, image scores as likelihood labels.
type Classifier interface {
	Classify(ctx context.Context, kind Kind, payload Payload) (map[string]any, error)
}

// Ledger is the durable, insert-only store of verdicts.
type Ledger interface {
	Insert(ctx context.Context, subject string, flagged bool, categories map[string]any) (*Verdict, error)
	// GetByID returns nil, nil when no verdict has the id.
	GetByID(ctx context.Context, id int64) (*Verdict, error)
	Count(ctx context.Context) (int64, error)
	CountFlagged(ctx context.Context) (int64, error)
	ScanCategories(ctx context.Context, fn func(categories map[string]any) error) error
	Ping(ctx context.Context) error
}

// VerdictCache is an advisory key/value store with expiry. Implementations
// never return errors: an unavailable cache reads as a miss and a failed
// write reports false.
type VerdictCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool
	Delete(ctx context.Context, key string)
	Ping(ctx context.Context) error
}
