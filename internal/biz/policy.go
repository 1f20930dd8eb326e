package biz

import (
	"encoding/json"
	"strings"

	"moderation/internal/conf"
)

// Category names the policy reads.
const (
	CategoryToxicityScore = "toxicity_score"
	CategoryAdult         = "adult"
	CategoryViolence      = "violence"
)

// DefaultToxicityThreshold flags text whose toxicity score exceeds it.
const DefaultToxicityThreshold = 0.5

// Likelihood is the ordered bucket scale image classifiers report.
type Likelihood int

const (
	LikelihoodUnknown Likelihood = iota
	LikelihoodVeryUnlikely
	LikelihoodUnlikely
	LikelihoodPossible
	LikelihoodLikely
	LikelihoodVeryLikely
)

var likelihoodNames = map[string]Likelihood{
	"UNKNOWN":       LikelihoodUnknown,
	"VERY_UNLIKELY": LikelihoodVeryUnlikely,
	"UNLIKELY":      LikelihoodUnlikely,
	"POSSIBLE":      LikelihoodPossible,
	"LIKELY":        LikelihoodLikely,
	"VERY_LIKELY":   LikelihoodVeryLikely,
}

// ParseLikelihood maps a label such as "VERY_LIKELY" to its bucket.
// Unrecognized labels are LikelihoodUnknown.
func ParseLikelihood(label string) Likelihood {
	return likelihoodNames[strings.ToUpper(strings.TrimSpace(label))]
}

// Policy derives the flagged bit from classifier categories.
type Policy struct {
	toxicityThreshold float64
}

// NewPolicy creates a Policy from configuration.
func NewPolicy(c *conf.Moderation) *Policy {
	threshold := DefaultToxicityThreshold
	if c != nil && c.ToxicityThreshold != nil {
		threshold = *c.ToxicityThreshold
	}
	return &Policy{toxicityThreshold: threshold}
}

// Flagged reports whether categories violate the policy for kind.
//   - text: toxicity_score strictly above the threshold.
//   - image: adult or violence at LIKELY or above.
func (p *Policy) Flagged(kind Kind, categories map[string]any) bool {
	switch kind {
	case KindText:
		score, ok := numeric(categories[CategoryToxicityScore])
		return ok && score > p.toxicityThreshold
	case KindImage:
		return likely(categories[CategoryAdult]) || likely(categories[CategoryViolence])
	default:
		return false
	}
}

func likely(v any) bool {
	label, ok := v.(string)
	if !ok {
		return false
	}
	return ParseLikelihood(label) >= LikelihoodLikely
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
