package biz

import (
	"context"
	"net/http"

	"moderation/internal/pkg/classifier"

	"github.com/go-kratos/kratos/v2/errors"
)

// Error reasons returned to clients.
const (
	ReasonValidationFailed  = "VALIDATION_FAILED"
	ReasonVerdictNotFound   = "VERDICT_NOT_FOUND"
	ReasonUpstreamFailure   = "UPSTREAM_FAILURE"
	ReasonUpstreamTimeout   = "UPSTREAM_TIMEOUT"
	ReasonLedgerUnavailable = "LEDGER_UNAVAILABLE"
	ReasonClientClosed      = "CLIENT_CLOSED"
)

var (
	// ErrEmptyText is returned when a text submission has no text.
	ErrEmptyText = errors.BadRequest(ReasonValidationFailed, "No text provided")
	// ErrUnsupportedImage is returned for uploads that are not JPEG or PNG.
	ErrUnsupportedImage = errors.BadRequest(ReasonValidationFailed, "Unsupported file format. Use JPEG or PNG.")
	// ErrInvalidImage is returned for uploads that cannot be decoded.
	ErrInvalidImage = errors.BadRequest(ReasonValidationFailed, "Invalid image file")
	// ErrImageTooLarge is returned for uploads whose dimensions are too large to decode.
	ErrImageTooLarge = errors.New(http.StatusRequestEntityTooLarge, ReasonValidationFailed, "Image dimensions too large")
	// ErrInvalidID is returned for non-positive verdict ids.
	ErrInvalidID = errors.BadRequest(ReasonValidationFailed, "Invalid moderation id")
	// ErrVerdictNotFound is returned when the ledger has no row for an id.
	ErrVerdictNotFound = errors.NotFound(ReasonVerdictNotFound, "Moderation result not found")
)

// ledgerError wraps a ledger failure. A verdict that cannot be persisted is
// never returned to the caller.
func ledgerError(err error) error {
	return errors.InternalServer(ReasonLedgerUnavailable, "moderation ledger unavailable").WithCause(err)
}

// clientClosed reports a caller that went away before its answer was ready.
func clientClosed(ctx context.Context) error {
	return errors.ClientClosed(ReasonClientClosed, "request cancelled").WithCause(ctx.Err())
}

// upstreamError maps a classifier failure onto a client-facing error.
func upstreamError(err error) error {
	var ce *classifier.Error
	if errors.As(err, &ce) {
		switch ce.Kind {
		case classifier.KindTimeout, classifier.KindNetwork:
			return errors.GatewayTimeout(ReasonUpstreamTimeout, ce.Error()).WithCause(err)
		}
	}
	return errors.New(http.StatusBadGateway, ReasonUpstreamFailure, err.Error()).WithCause(err)
}
