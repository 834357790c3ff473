package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
	"github.com/custodia-labs/refrag-cli/internal/core/ports/driven"
)

// fakeRAGClient is a configurable test double for driven.RAGClient.
// Every method succeeds unless the corresponding hook or error is set.
type fakeRAGClient struct {
	mu sync.Mutex

	createDatasetErr error
	uploadErr        func(file domain.FileDescriptor) error
	docIDs           []string
	listDocsErr      error
	parseErr         error
	statusFn         func() (*domain.KnowledgeBaseStatus, error)
	datasets         []domain.KnowledgeBase
	createAsstErr    error
	updateAsstErr    error
	assistant        *domain.ChatAssistant
	createSessionErr error
	converseFn       func(question string) (*domain.Answer, error)

	uploads              []string
	parsedIDs            []string
	createDatasetCalls   int
	createAssistantCalls int
	createSessionCalls   int
	lastAssistantParams  domain.GenerationParams
}

var _ driven.RAGClient = (*fakeRAGClient)(nil)

func (f *fakeRAGClient) SetConnection(domain.ConnectionSettings) {}

func (f *fakeRAGClient) CreateDataset(_ context.Context, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createDatasetCalls++
	if f.createDatasetErr != nil {
		return "", f.createDatasetErr
	}
	return "ds-" + name, nil
}

func (f *fakeRAGClient) UploadDocument(_ context.Context, _ string, file domain.FileDescriptor, _ []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		if err := f.uploadErr(file); err != nil {
			return err
		}
	}
	f.uploads = append(f.uploads, file.DisplayName)
	return nil
}

func (f *fakeRAGClient) ListDocumentIDs(context.Context, string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listDocsErr != nil {
		return nil, f.listDocsErr
	}
	if f.docIDs != nil {
		return f.docIDs, nil
	}
	ids := make([]string, len(f.uploads))
	for i := range f.uploads {
		ids[i] = fmt.Sprintf("doc-%d", i)
	}
	return ids, nil
}

func (f *fakeRAGClient) ParseDocuments(_ context.Context, _ string, documentIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.parseErr != nil {
		return f.parseErr
	}
	f.parsedIDs = documentIDs
	return nil
}

func (f *fakeRAGClient) GetDatasetStatus(context.Context, string) (*domain.KnowledgeBaseStatus, error) {
	if f.statusFn != nil {
		return f.statusFn()
	}
	return &domain.KnowledgeBaseStatus{State: domain.StateProcessing}, nil
}

func (f *fakeRAGClient) ListDatasets(context.Context) ([]domain.KnowledgeBase, error) {
	return f.datasets, nil
}

func (f *fakeRAGClient) CreateAssistant(_ context.Context, _, _ string, params domain.GenerationParams) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createAssistantCalls++
	f.lastAssistantParams = params
	if f.createAsstErr != nil {
		return "", f.createAsstErr
	}
	return fmt.Sprintf("asst-%d", f.createAssistantCalls), nil
}

func (f *fakeRAGClient) UpdateAssistant(_ context.Context, _, _ string, params domain.GenerationParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastAssistantParams = params
	return f.updateAsstErr
}

func (f *fakeRAGClient) GetAssistant(context.Context, string) (*domain.ChatAssistant, error) {
	if f.assistant != nil {
		return f.assistant, nil
	}
	return &domain.ChatAssistant{ID: "asst-1", Name: "refrag-test"}, nil
}

func (f *fakeRAGClient) CreateSession(context.Context, string, string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createSessionCalls++
	if f.createSessionErr != nil {
		return "", f.createSessionErr
	}
	return fmt.Sprintf("sess-%d", f.createSessionCalls), nil
}

func (f *fakeRAGClient) Converse(_ context.Context, _, _, question string) (*domain.Answer, error) {
	if f.converseFn != nil {
		return f.converseFn(question)
	}
	return &domain.Answer{Text: "answer to " + question}, nil
}

// fakeFileReader serves file contents from a map keyed by path.
type fakeFileReader struct {
	files map[string][]byte
}

func (f *fakeFileReader) ReadFile(path string) ([]byte, error) {
	content, ok := f.files[path]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", path)
	}
	return content, nil
}
