package service

import "moderation/internal/biz"

// ModerateTextRequest is the body of POST /moderate/text.
type ModerateTextRequest struct {
	Text string `json:"text"`
}

// ModerateImageRequest is a decoded multipart upload.
type ModerateImageRequest struct {
	Filename    string
	ContentType string
	Data        []byte
}

// GetVerdictRequest addresses a verdict by id.
type GetVerdictRequest struct {
	ID int64
}

// VerdictReply is returned for text verdicts and id lookups.
type VerdictReply struct {
	ID         int64          `json:"id"`
	Text       string         `json:"text"`
	Flagged    bool           `json:"flagged"`
	Categories map[string]any `json:"categories"`
}

// ImageVerdictReply is returned for image verdicts.
type ImageVerdictReply struct {
	ID          int64          `json:"id"`
	Filename    string         `json:"filename"`
	ContentHash string         `json:"content_hash"`
	PHash       string         `json:"phash"`
	Flagged     bool           `json:"flagged"`
	Categories  map[string]any `json:"categories"`
}

type RootReply struct {
	Message string `json:"message"`
}

type Empty struct{}

func toVerdictReply(v *biz.Verdict) *VerdictReply {
	return &VerdictReply{
		ID:         v.ID,
		Text:       v.Subject,
		Flagged:    v.Flagged,
		Categories: nonNil(v.Categories),
	}
}

func nonNil(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
