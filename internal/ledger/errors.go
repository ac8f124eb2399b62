package ledger

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes the failures an operation can surface to callers.
//
// Every failure is terminal for its invocation: no partial effect is
// observable and nothing is retried. The caller must correct the condition
// and reissue the call (for OWNERSHIP_MISMATCH, generally by cancelling or
// declining the stale offer and creating a fresh one).
type ErrorCode string

const (
	// CodeUnauthorized means the caller is not the required principal for
	// the action: wrong emitter on retract, wrong sender on cancel, wrong
	// recipient on accept/decline, or an empty caller identifier.
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// CodeInvalidState means a PENDING-only transition was requested on an
	// offer that is not PENDING (including an offer that does not exist).
	CodeInvalidState ErrorCode = "INVALID_STATE"

	// CodeOwnershipMismatch means settlement-time re-validation found an
	// asset not held by the party claimed to hold it.
	CodeOwnershipMismatch ErrorCode = "OWNERSHIP_MISMATCH"
)

// Error is a caller-visible, caller-actionable operation failure.
type Error struct {
	// Code identifies the failure category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// AssetID identifies the affected asset, if any.
	AssetID int64

	// OfferID identifies the affected offer, if any.
	OfferID int64

	// Principal identifies the caller or claimed holder involved, if any.
	Principal Principal
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.AssetID != 0 && e.OfferID != 0:
		return fmt.Sprintf("%s: %s (offer=%d, asset=%d)", e.Code, e.Message, e.OfferID, e.AssetID)
	case e.AssetID != 0:
		return fmt.Sprintf("%s: %s (asset=%d)", e.Code, e.Message, e.AssetID)
	case e.OfferID != 0:
		return fmt.Sprintf("%s: %s (offer=%d)", e.Code, e.Message, e.OfferID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf extracts the error code from err.
// Returns "" if err is not a ledger Error. Uses errors.As to handle wrapping.
func CodeOf(err error) ErrorCode {
	var le *Error
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}

// IsUnauthorized reports whether err is an UNAUTHORIZED failure.
func IsUnauthorized(err error) bool {
	return CodeOf(err) == CodeUnauthorized
}

// IsInvalidState reports whether err is an INVALID_STATE failure.
func IsInvalidState(err error) bool {
	return CodeOf(err) == CodeInvalidState
}

// IsOwnershipMismatch reports whether err is an OWNERSHIP_MISMATCH failure.
func IsOwnershipMismatch(err error) bool {
	return CodeOf(err) == CodeOwnershipMismatch
}

// NewUnauthorized creates an UNAUTHORIZED error.
func NewUnauthorized(message string, caller Principal) *Error {
	return &Error{Code: CodeUnauthorized, Message: message, Principal: caller}
}

// NewInvalidState creates an INVALID_STATE error for an offer transition.
func NewInvalidState(offerID int64, state OfferState) *Error {
	msg := "offer is not pending"
	if state == "" {
		msg = "offer does not exist"
	}
	return &Error{Code: CodeInvalidState, Message: msg, OfferID: offerID}
}

// NewOwnershipMismatch creates an OWNERSHIP_MISMATCH error naming the asset
// that failed re-validation and the principal claimed to hold it.
func NewOwnershipMismatch(offerID, assetID int64, claimed Principal) *Error {
	return &Error{
		Code:      CodeOwnershipMismatch,
		Message:   "asset is not held by the claimed owner",
		OfferID:   offerID,
		AssetID:   assetID,
		Principal: claimed,
	}
}
