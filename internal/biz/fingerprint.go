package biz

import (
	"strconv"

	"moderation/internal/pkg/hash"
)

const (
	// KeyNamespace prefixes every cache key written by the moderation layer.
	KeyNamespace = "moderation"
	// StatsKey holds the process-wide statistics rollup.
	StatsKey = "moderation_stats"

	// maxInlineTextKey bounds how much raw text goes into a cache key before
	// it is replaced by its sha256.
	maxInlineTextKey = 200
)

// Fingerprint returns the cache key for a moderation input. For text the
// discriminator is the text itself (hashed when long); for images it must be
// the content hash of the image bytes.
func Fingerprint(kind Kind, discriminator string) string {
	if kind == KindText && len(discriminator) > maxInlineTextKey {
		discriminator = "sha256:" + hash.HashTextSha256(discriminator)
	}
	return KeyNamespace + ":" + kind.String() + ":" + discriminator
}

// ImageFingerprint returns the cache key for raw image bytes.
func ImageFingerprint(data []byte) string {
	return Fingerprint(KindImage, hash.HashBytesSha256(data))
}

// IDKey returns the cache key for a verdict looked up by id.
func IDKey(id int64) string {
	return KeyNamespace + ":" + strconv.FormatInt(id, 10)
}
