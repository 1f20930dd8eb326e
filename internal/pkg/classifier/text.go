package classifier

import (
	"context"
	"strings"
)

// AttributeToxicity is always requested and mapped to "toxicity_score".
const AttributeToxicity = "TOXICITY"

// TextClient scores text with a Perspective-style comment analyzer.
type TextClient struct {
	client
	attributes []string
}

// NewTextClient creates a new TextClient. extra names additional attributes
// (e.g. "INSULT") to request besides TOXICITY.
func NewTextClient(config Config, extra ...string) *TextClient {
	attrs := []string{AttributeToxicity}
	for _, a := range extra {
		a = strings.ToUpper(strings.TrimSpace(a))
		if a == "" || a == AttributeToxicity {
			continue
		}
		attrs = append(attrs, a)
	}
	return &TextClient{client: newClient(config), attributes: attrs}
}

type analyzeRequest struct {
	Comment struct {
		Text string `json:"text"`
	} `json:"comment"`
	RequestedAttributes map[string]struct{} `json:"requestedAttributes"`
}

type analyzeResponse struct {
	AttributeScores map[string]struct {
		SummaryScore *struct {
			Value float64 `json:"value"`
		} `json:"summaryScore"`
	} `json:"attributeScores"`
}

// Analyze returns one "<attribute>_score" entry per requested attribute the
// upstream scored. A response without a TOXICITY score is malformed.
func (c *TextClient) Analyze(ctx context.Context, text string) (map[string]any, error) {
	var req analyzeRequest
	req.Comment.Text = text
	req.RequestedAttributes = make(map[string]struct{}, len(c.attributes))
	for _, a := range c.attributes {
		req.RequestedAttributes[a] = struct{}{}
	}

	var resp analyzeResponse
	if err := c.postJSON(ctx, "/v1alpha1/comments:analyze", req, &resp); err != nil {
		return nil, err
	}

	tox, ok := resp.AttributeScores[AttributeToxicity]
	if !ok || tox.SummaryScore == nil {
		return nil, malformed("response has no %s summary score", AttributeToxicity)
	}

	scores := make(map[string]any, len(c.attributes))
	for _, a := range c.attributes {
		s, ok := resp.AttributeScores[a]
		if !ok || s.SummaryScore == nil {
			continue
		}
		scores[strings.ToLower(a)+"_score"] = s.SummaryScore.Value
	}
	return scores, nil
}
