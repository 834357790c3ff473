package domain

import (
	"strings"
	"time"
)

// FileDescriptor identifies one attachment to upload. Descriptors are
// constructed per push by the library source and never persisted.
type FileDescriptor struct {
	// Path is the absolute path of the file on disk.
	Path string

	// DisplayName is the name presented to the backend (and in errors).
	DisplayName string

	// MIMEType is the detected content type, used for upload and filtering.
	MIMEType string
}

// IsSupported reports whether the remote backend can ingest this file.
// HTML captures and web snapshots are rejected by the backend, so they are
// filtered out before any upload happens.
func (f FileDescriptor) IsSupported() bool {
	lowerPath := strings.ToLower(f.Path)
	if f.MIMEType == "text/html" ||
		strings.HasSuffix(lowerPath, ".html") ||
		strings.HasSuffix(lowerPath, ".htm") {
		return false
	}
	if strings.Contains(f.DisplayName, "Snapshot") || strings.Contains(f.Path, "Snapshot") {
		return false
	}
	return true
}

// KnowledgeBaseState is the local view of a remote dataset's lifecycle.
type KnowledgeBaseState string

const (
	// StateProcessing means the backend is still chunking and indexing.
	StateProcessing KnowledgeBaseState = "processing"

	// StateReady means the dataset is fully parsed and queryable.
	StateReady KnowledgeBaseState = "ready"

	// StateFailed means backend ingestion reported an error.
	StateFailed KnowledgeBaseState = "failed"
)

// String returns the string representation.
func (s KnowledgeBaseState) String() string {
	return string(s)
}

// Terminal reports whether polling can stop at this state.
func (s KnowledgeBaseState) Terminal() bool {
	return s == StateReady || s == StateFailed
}

// KnowledgeBase is the locally persisted record of a remote dataset.
// The backend owns the dataset; locally only the durable id, a
// human-readable name and the originating collection label are kept.
type KnowledgeBase struct {
	ID         string
	Name       string
	Collection string
	CreatedAt  time.Time
}

// KnowledgeBaseStatus is one poll observation of a remote dataset.
type KnowledgeBaseStatus struct {
	State         KnowledgeBaseState
	ChunkCount    int
	DocumentCount int
}
