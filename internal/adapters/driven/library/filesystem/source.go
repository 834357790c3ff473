// Package filesystem backs the library source port with a local directory
// tree. A collection is a directory of exported reference files; change
// watching uses inotify via fsnotify.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
	"github.com/custodia-labs/refrag-cli/internal/core/ports/driven"
	"github.com/custodia-labs/refrag-cli/internal/logger"
)

// Ensure Source implements the interfaces.
var (
	_ driven.LibrarySource = (*Source)(nil)
	_ driven.FileReader    = (*Source)(nil)
)

// debounceWindow coalesces bursts of filesystem events into one change
// notification. Exports tend to write many files in quick succession.
const debounceWindow = 500 * time.Millisecond

// Source reads collections from the local filesystem.
type Source struct{}

// NewSource creates a new filesystem library source.
func NewSource() *Source {
	return &Source{}
}

// Collect walks a collection and returns one descriptor per regular file.
// Hidden files and directories are skipped; everything else is returned
// unfiltered, supported or not.
func (s *Source) Collect(ctx context.Context, path string) ([]domain.FileDescriptor, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}

	if !info.IsDir() {
		return []domain.FileDescriptor{describe(path)}, nil
	}

	var files []domain.FileDescriptor
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") && p != path {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		files = append(files, describe(p))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", path, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// ReadFile loads a file's raw bytes for upload.
func (s *Source) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Watch reports the collection path whenever its contents change.
// Events are debounced so one export run yields one notification.
func (s *Source) Watch(ctx context.Context, path string) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	// Watch the root and every existing subdirectory.
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && !strings.HasPrefix(d.Name(), ".") {
			return watcher.Add(p)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}

	out := make(chan string, 1)
	go func() {
		defer close(out)
		defer watcher.Close()

		var timer *time.Timer
		var fire <-chan time.Time

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				// New directories need their own watch.
				if event.Op.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						if err := watcher.Add(event.Name); err != nil {
							logger.Warn("could not watch %s: %v", event.Name, err)
						}
					}
				}
				if timer == nil {
					timer = time.NewTimer(debounceWindow)
					fire = timer.C
				} else {
					timer.Reset(debounceWindow)
				}
			case <-fire:
				timer = nil
				fire = nil
				select {
				case out <- path:
				default:
					// A pending notification already covers this change.
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watch error on %s: %v", path, err)
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// describe builds an upload descriptor for one file.
func describe(path string) domain.FileDescriptor {
	return domain.FileDescriptor{
		Path:        path,
		DisplayName: filepath.Base(path),
		MIMEType:    guessMIMEType(path),
	}
}

// guessMIMEType maps a file extension to the content type sent with the
// upload. Unknown extensions fall back to application/octet-stream and
// let the backend decide.
func guessMIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt":
		return "text/plain"
	case ".md":
		return "text/markdown"
	case ".json":
		return "application/json"
	case ".csv":
		return "text/csv"
	case ".html", ".htm":
		return "text/html"
	default:
		return "application/octet-stream"
	}
}
