package domain

import (
	"errors"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Remote backend errors.

	// ErrTransport indicates a network or HTTP-level failure before a
	// valid API envelope could be obtained.
	ErrTransport = errors.New("transport failure")

	// ErrMalformedResponse indicates the response body was not valid JSON.
	// The wrapping error carries the raw body text for diagnostics.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrRemoteRejected indicates the backend returned a non-zero envelope
	// code. The wrapping error carries the remote message verbatim.
	ErrRemoteRejected = errors.New("remote rejected request")

	// ErrQuotaExceeded indicates the backend account has insufficient
	// balance. Detected by message pattern; the backend exposes no stable
	// machine code for this condition.
	ErrQuotaExceeded = errors.New("account quota exceeded")

	// Ingestion errors.

	// ErrNoSupportedFiles indicates every file in a collection was filtered
	// out before upload. Raised before any remote call is made.
	ErrNoSupportedFiles = errors.New("no supported files in collection")

	// ErrNoDocumentsIngested indicates no uploaded file survived backend
	// ingestion, so parsing cannot be triggered.
	ErrNoDocumentsIngested = errors.New("no documents ingested")

	// QA errors.

	// ErrIncompleteAnswer indicates a success envelope was missing its
	// answer payload. This is a backend contract violation, not an empty
	// user-facing result.
	ErrIncompleteAnswer = errors.New("incomplete answer payload")

	// Polling errors.

	// ErrWatchInProgress indicates a status watch is already running for
	// the requested knowledge base.
	ErrWatchInProgress = errors.New("status watch already in progress")
)

// quotaPatterns are the substrings the backend has been observed to emit
// when the account balance is exhausted. There is no machine code for this,
// so detection is by message match, centralised here.
var quotaPatterns = []string{
	"insufficient balance",
	"余额不足",
}

// IsQuotaMessage reports whether a raw response body or envelope message
// signals account balance exhaustion.
func IsQuotaMessage(msg string) bool {
	lower := strings.ToLower(msg)
	for _, p := range quotaPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// unsupportedFilePattern is the backend's per-file rejection message for
// file types it cannot ingest.
const unsupportedFilePattern = "this type of file has not been supported yet"

// IsUnsupportedFileMessage reports whether a remote error message signals
// an unsupported file type. Such uploads are skipped rather than aborting
// the whole pipeline.
func IsUnsupportedFileMessage(msg string) bool {
	return strings.Contains(strings.ToLower(msg), unsupportedFilePattern)
}

// IsInvalidSessionMessage reports whether a remote rejection signals that a
// session id is no longer valid server-side. The backend has no dedicated
// code for this either, so the match is on message shape.
func IsInvalidSessionMessage(msg string) bool {
	lower := strings.ToLower(msg)
	if !strings.Contains(lower, "session") {
		return false
	}
	return strings.Contains(lower, "not found") ||
		strings.Contains(lower, "not exist") ||
		strings.Contains(lower, "invalid")
}
