package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
	"github.com/custodia-labs/refrag-cli/internal/core/ports/driven"
	"github.com/custodia-labs/refrag-cli/internal/core/ports/driving"
	"github.com/custodia-labs/refrag-cli/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestService = (*IngestionService)(nil)

// Polling defaults for Watch. Parsing medium-sized collections usually
// settles well within five minutes.
const (
	defaultWatchInterval = 5 * time.Second
	defaultWatchAttempts = 60
)

// IngestionService pushes local collections to the remote backend.
type IngestionService struct {
	client driven.RAGClient
	reader driven.FileReader
	kbs    driven.KnowledgeBaseStore

	watchInterval time.Duration
	watchAttempts int

	mu       sync.Mutex
	watching map[string]struct{}
}

// NewIngestionService creates a new ingestion service.
func NewIngestionService(client driven.RAGClient, reader driven.FileReader, kbs driven.KnowledgeBaseStore) *IngestionService {
	return &IngestionService{
		client:        client,
		reader:        reader,
		kbs:           kbs,
		watchInterval: defaultWatchInterval,
		watchAttempts: defaultWatchAttempts,
		watching:      make(map[string]struct{}),
	}
}

// SetWatchBudget overrides the polling interval and attempt cap.
// Used by tests and the --interval / --attempts flags.
func (s *IngestionService) SetWatchBudget(interval time.Duration, attempts int) {
	if interval > 0 {
		s.watchInterval = interval
	}
	if attempts > 0 {
		s.watchAttempts = attempts
	}
}

// Push uploads a collection's supported files into a fresh remote
// knowledge base, triggers parsing, and returns the new dataset id.
func (s *IngestionService) Push(ctx context.Context, files []domain.FileDescriptor, label string) (string, error) {
	// Step 1: Drop files the backend cannot chunk before spending quota.
	supported := make([]domain.FileDescriptor, 0, len(files))
	for _, f := range files {
		if f.IsSupported() {
			supported = append(supported, f)
		} else {
			logger.Debug("skipping unsupported file: %s", f.DisplayName)
		}
	}
	if len(supported) == 0 {
		return "", fmt.Errorf("%w: collection %q", domain.ErrNoSupportedFiles, label)
	}

	// Step 2: Create the remote knowledge base.
	logger.Section("Push: " + label)
	datasetID, err := s.client.CreateDataset(ctx, label)
	if err != nil {
		return "", fmt.Errorf("create knowledge base: %w", err)
	}
	logger.Info("created knowledge base %s", datasetID)

	// Step 3: Upload sequentially. Per-file "unsupported" rejections are
	// skipped; any other failure aborts the push.
	uploaded := 0
	for _, f := range supported {
		content, err := s.reader.ReadFile(f.Path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", f.DisplayName, err)
		}
		if err := s.client.UploadDocument(ctx, datasetID, f, content); err != nil {
			if domain.IsUnsupportedFileMessage(err.Error()) {
				logger.Warn("backend rejected %s as unsupported, skipping", f.DisplayName)
				continue
			}
			return "", fmt.Errorf("upload %s: %w", f.DisplayName, err)
		}
		uploaded++
		logger.Debug("uploaded %s (%d/%d)", f.DisplayName, uploaded, len(supported))
	}

	// Step 4: The backend may silently drop uploads; trust its listing,
	// not our counter.
	docIDs, err := s.client.ListDocumentIDs(ctx, datasetID)
	if err != nil {
		return "", fmt.Errorf("list documents: %w", err)
	}
	if len(docIDs) == 0 {
		return "", fmt.Errorf("%w: knowledge base %s", domain.ErrNoDocumentsIngested, datasetID)
	}

	// Step 5: Trigger chunking for everything that landed.
	if err := s.client.ParseDocuments(ctx, datasetID, docIDs); err != nil {
		return "", fmt.Errorf("trigger parsing: %w", err)
	}
	logger.Info("parsing started for %d documents", len(docIDs))

	// Step 6: Record locally and make it the default question target.
	kb := domain.KnowledgeBase{
		ID:         datasetID,
		Name:       label,
		Collection: label,
		CreatedAt:  time.Now(),
	}
	if err := s.kbs.Save(ctx, kb); err != nil {
		return "", fmt.Errorf("record knowledge base: %w", err)
	}
	if err := s.kbs.SetActive(ctx, datasetID); err != nil {
		return "", fmt.Errorf("activate knowledge base: %w", err)
	}

	return datasetID, nil
}

// Status reads a knowledge base's parse progress once.
func (s *IngestionService) Status(ctx context.Context, datasetID string) (*domain.KnowledgeBaseStatus, error) {
	if datasetID == "" {
		return nil, fmt.Errorf("%w: dataset id is required", domain.ErrInvalidInput)
	}
	return s.client.GetDatasetStatus(ctx, datasetID)
}

// Watch polls a knowledge base until it reaches a terminal state or the
// attempt budget runs out, emitting each observed status.
func (s *IngestionService) Watch(ctx context.Context, datasetID string) (<-chan domain.KnowledgeBaseStatus, error) {
	if datasetID == "" {
		return nil, fmt.Errorf("%w: dataset id is required", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	if _, ok := s.watching[datasetID]; ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: knowledge base %s", domain.ErrWatchInProgress, datasetID)
	}
	s.watching[datasetID] = struct{}{}
	s.mu.Unlock()

	out := make(chan domain.KnowledgeBaseStatus, 1)
	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.watching, datasetID)
			s.mu.Unlock()
			close(out)
		}()

		ticker := time.NewTicker(s.watchInterval)
		defer ticker.Stop()

		for attempt := 0; attempt < s.watchAttempts; attempt++ {
			status, err := s.client.GetDatasetStatus(ctx, datasetID)
			if err != nil {
				logger.Warn("status poll failed: %v", err)
			} else {
				select {
				case out <- *status:
				case <-ctx.Done():
					return
				}
				if status.State.Terminal() {
					return
				}
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
		logger.Warn("watch budget exhausted for knowledge base %s", datasetID)
	}()

	return out, nil
}

// ListRemote returns all knowledge bases known to the backend.
func (s *IngestionService) ListRemote(ctx context.Context) ([]domain.KnowledgeBase, error) {
	return s.client.ListDatasets(ctx)
}
