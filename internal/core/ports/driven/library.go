package driven

import (
	"context"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
)

// LibrarySource enumerates the files of a local collection and reports
// changes to it. The filesystem adapter backs it with a directory walk
// and an inotify watch.
type LibrarySource interface {
	// Collect walks a collection and returns one descriptor per regular
	// file. Descriptors are returned unfiltered; the ingestion pipeline
	// decides what is supported.
	Collect(ctx context.Context, path string) ([]domain.FileDescriptor, error)

	// Watch reports the collection path whenever its contents change.
	// The channel closes when ctx is cancelled or the watch fails.
	Watch(ctx context.Context, path string) (<-chan string, error)
}

// FileReader loads a file's raw bytes for upload. Kept separate from
// LibrarySource so the pipeline can be tested with in-memory content.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}
