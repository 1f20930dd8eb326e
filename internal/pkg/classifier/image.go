package classifier

import (
	"context"
	"encoding/base64"
	"errors"
)

// ImageClient labels images with a Vision-style SafeSearch annotator.
type ImageClient struct {
	client
}

// NewImageClient creates a new ImageClient.
func NewImageClient(config Config) *ImageClient {
	return &ImageClient{client: newClient(config)}
}

type annotateRequest struct {
	Requests []annotateImageRequest `json:"requests"`
}

type annotateImageRequest struct {
	Image struct {
		Content string `json:"content"`
	} `json:"image"`
	Features []feature `json:"features"`
}

type feature struct {
	Type string `json:"type"`
}

type annotateResponse struct {
	Responses []struct {
		SafeSearchAnnotation map[string]any `json:"safeSearchAnnotation"`
		Error                *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

// SafeSearch returns the safe-search likelihood labels for an image, e.g.
// {"adult": "VERY_UNLIKELY", "violence": "LIKELY", ...}.
func (c *ImageClient) SafeSearch(ctx context.Context, data []byte) (map[string]any, error) {
	item := annotateImageRequest{Features: []feature{{Type: "SAFE_SEARCH_DETECTION"}}}
	item.Image.Content = base64.StdEncoding.EncodeToString(data)

	var resp annotateResponse
	if err := c.postJSON(ctx, "/v1/images:annotate", annotateRequest{Requests: []annotateImageRequest{item}}, &resp); err != nil {
		return nil, err
	}

	if len(resp.Responses) == 0 {
		return nil, malformed("response has no annotations")
	}
	r := resp.Responses[0]
	if r.Error != nil {
		return nil, &Error{Kind: KindRejected, StatusCode: r.Error.Code, Err: errors.New(r.Error.Message)}
	}
	if len(r.SafeSearchAnnotation) == 0 {
		return nil, malformed("response has no safeSearchAnnotation")
	}

	labels := make(map[string]any, len(r.SafeSearchAnnotation))
	for k, v := range r.SafeSearchAnnotation {
		labels[k] = v
	}
	return labels, nil
}
