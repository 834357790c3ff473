// Package ragflow provides the remote backend adapter over the RAGFlow
// v1 REST API. Every response arrives in a {code, message, data} envelope;
// code zero is the only success signal, HTTP status alone proves nothing.
package ragflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
	"github.com/custodia-labs/refrag-cli/internal/core/ports/driven"
	"github.com/custodia-labs/refrag-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.RAGClient = (*Client)(nil)

// Default configuration values.
const (
	DefaultTimeout    = 120 * time.Second
	DefaultRatePerSec = 5

	apiPrefix = "/api/v1"
)

// Dataset creation constants. These mirror the backend defaults the
// upstream UI uses for mixed Chinese and English research libraries.
const (
	datasetLanguage   = "Chinese"
	embeddingModel    = "BAAI/bge-large-zh-v1.5"
	chunkMethod       = "naive"
	chunkTokenCount   = 256
	chunkDelimiter    = "\n!?。；！？"
	parseTaskPageSize = 12
)

// Config holds configuration for the RAGFlow client.
type Config struct {
	// Settings carries the backend URL and API key.
	Settings domain.ConnectionSettings

	// Timeout is the per-request timeout (default: 120s).
	Timeout time.Duration

	// RatePerSec throttles outgoing requests (default: 5/s).
	RatePerSec float64
}

// Client talks to a RAGFlow backend.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter

	mu      sync.RWMutex
	baseURL string
	apiKey  string
}

// NewClient creates a new RAGFlow client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RatePerSec == 0 {
		cfg.RatePerSec = DefaultRatePerSec
	}
	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSec), int(cfg.RatePerSec)),
	}
	c.SetConnection(cfg.Settings)
	return c
}

// SetConnection updates the base URL and credential at runtime.
func (c *Client) SetConnection(settings domain.ConnectionSettings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseURL = strings.TrimRight(settings.APIURL, "/")
	c.apiKey = settings.APIKey
}

// envelope is the uniform RAGFlow response wrapper.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// quotaEnvelopeCode is returned alongside the balance message on some
// backend versions.
const quotaEnvelopeCode = 402

// do sends one request and unwraps the envelope. Quota exhaustion is
// checked twice: on the raw body before JSON parsing, because some
// backend deployments emit it as plain text, and again on the envelope
// message.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}

	c.mu.RLock()
	url := c.baseURL + apiPrefix + path
	apiKey := c.apiKey
	c.mu.RUnlock()

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrTransport, err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	logger.Debug("ragflow: %s %s", method, path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrTransport, err)
	}

	if domain.IsQuotaMessage(string(raw)) {
		return nil, fmt.Errorf("%w: %s", domain.ErrQuotaExceeded, snippet(raw))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, fmt.Errorf("%w: %s %s: status %d: %s", domain.ErrTransport, method, path, resp.StatusCode, snippet(raw))
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrMalformedResponse, snippet(raw))
	}

	if env.Code != 0 {
		if env.Code == quotaEnvelopeCode || domain.IsQuotaMessage(env.Message) {
			return nil, fmt.Errorf("%w: %s", domain.ErrQuotaExceeded, env.Message)
		}
		return nil, fmt.Errorf("%w: code %d: %s", domain.ErrRemoteRejected, env.Code, env.Message)
	}

	return env.Data, nil
}

// snippet trims a response body for inclusion in error messages.
func snippet(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any) error {
	return c.sendJSON(ctx, http.MethodPost, path, payload, out)
}

func (c *Client) putJSON(ctx context.Context, path string, payload any, out any) error {
	return c.sendJSON(ctx, http.MethodPut, path, payload, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	data, err := c.do(ctx, method, path, bytes.NewReader(body), "application/json")
	if err != nil {
		return err
	}
	return decodeData(data, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	data, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	return decodeData(data, out)
}

func decodeData(data json.RawMessage, out any) error {
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: data: %s", domain.ErrMalformedResponse, snippet(data))
	}
	return nil
}

// Request and response payloads.

type parserConfig struct {
	ChunkTokenCount int            `json:"chunk_token_count"`
	LayoutRecognize bool           `json:"layout_recognize"`
	HTML4Excel      bool           `json:"html4excel"`
	Delimiter       string         `json:"delimiter"`
	TaskPageSize    int            `json:"task_page_size"`
	Raptor          map[string]any `json:"raptor"`
}

type datasetCreateRequest struct {
	Name           string       `json:"name"`
	Language       string       `json:"language"`
	EmbeddingModel string       `json:"embedding_model"`
	Permission     string       `json:"permission"`
	ChunkMethod    string       `json:"chunk_method"`
	ParserConfig   parserConfig `json:"parser_config"`
}

type datasetPayload struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ChunkCount    int    `json:"chunk_count"`
	DocumentCount int    `json:"document_count"`
	Status        string `json:"status"`
}

type documentPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type documentListPayload struct {
	Docs  []documentPayload `json:"docs"`
	Total int               `json:"total"`
}

type llmConfig struct {
	ModelName   string  `json:"model_name"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	MaxTokens   int     `json:"max_tokens"`
}

type promptConfig struct {
	SimilarityThreshold float64 `json:"similarity_threshold"`
	TopN                int     `json:"top_n"`
}

type chatCreateRequest struct {
	DatasetIDs []string     `json:"dataset_ids,omitempty"`
	Name       string       `json:"name"`
	LLM        llmConfig    `json:"llm"`
	Prompt     promptConfig `json:"prompt"`
}

type chatPayload struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	DatasetIDs []string     `json:"dataset_ids"`
	LLM        llmConfig    `json:"llm"`
	Prompt     promptConfig `json:"prompt"`
}

type sessionPayload struct {
	ID string `json:"id"`
}

type completionPayload struct {
	Answer    string `json:"answer"`
	Reference struct {
		Chunks []struct {
			Content      string `json:"content"`
			DocumentName string `json:"document_name"`
		} `json:"chunks"`
	} `json:"reference"`
}

// CreateDataset creates a remote knowledge base and returns its id.
func (c *Client) CreateDataset(ctx context.Context, name string) (string, error) {
	req := datasetCreateRequest{
		Name:           name,
		Language:       datasetLanguage,
		EmbeddingModel: embeddingModel,
		Permission:     "me",
		ChunkMethod:    chunkMethod,
		ParserConfig: parserConfig{
			ChunkTokenCount: chunkTokenCount,
			LayoutRecognize: true,
			HTML4Excel:      false,
			Delimiter:       chunkDelimiter,
			TaskPageSize:    parseTaskPageSize,
			Raptor:          map[string]any{"use_raptor": false},
		},
	}
	var ds datasetPayload
	if err := c.postJSON(ctx, "/datasets", req, &ds); err != nil {
		return "", err
	}
	if ds.ID == "" {
		return "", fmt.Errorf("%w: dataset id missing", domain.ErrMalformedResponse)
	}
	return ds.ID, nil
}

// UploadDocument submits one file's bytes to a dataset as multipart.
func (c *Client) UploadDocument(ctx context.Context, datasetID string, file domain.FileDescriptor, content []byte) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.DisplayName))
	if file.MIMEType != "" {
		header.Set("Content-Type", file.MIMEType)
	}
	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("build multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("build multipart body: %w", err)
	}

	_, err = c.do(ctx, http.MethodPost, "/datasets/"+datasetID+"/documents", &buf, writer.FormDataContentType())
	return err
}

// ListDocumentIDs returns the ids of all documents in a dataset.
func (c *Client) ListDocumentIDs(ctx context.Context, datasetID string) ([]string, error) {
	var list documentListPayload
	if err := c.getJSON(ctx, "/datasets/"+datasetID+"/documents?page=1&page_size=100", &list); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(list.Docs))
	for _, doc := range list.Docs {
		ids = append(ids, doc.ID)
	}
	return ids, nil
}

// ParseDocuments triggers backend chunking for the given documents.
func (c *Client) ParseDocuments(ctx context.Context, datasetID string, documentIDs []string) error {
	req := map[string][]string{"document_ids": documentIDs}
	return c.postJSON(ctx, "/datasets/"+datasetID+"/chunks", req, nil)
}

// GetDatasetStatus reads a dataset's parse progress. A finished dataset
// is ready, a dataset with chunks is still processing, and only an error
// status with nothing processed counts as failed.
func (c *Client) GetDatasetStatus(ctx context.Context, datasetID string) (*domain.KnowledgeBaseStatus, error) {
	var ds datasetPayload
	if err := c.getJSON(ctx, "/datasets/"+datasetID, &ds); err != nil {
		return nil, err
	}

	status := &domain.KnowledgeBaseStatus{
		ChunkCount:    ds.ChunkCount,
		DocumentCount: ds.DocumentCount,
	}
	switch {
	case ds.Status == "finished":
		status.State = domain.StateReady
	case ds.ChunkCount > 0:
		status.State = domain.StateProcessing
	case ds.Status == "error":
		status.State = domain.StateFailed
	default:
		status.State = domain.StateProcessing
	}
	return status, nil
}

// ListDatasets returns id and name of every remote knowledge base.
func (c *Client) ListDatasets(ctx context.Context) ([]domain.KnowledgeBase, error) {
	var payload []datasetPayload
	if err := c.getJSON(ctx, "/datasets?page=1&page_size=100", &payload); err != nil {
		return nil, err
	}
	bases := make([]domain.KnowledgeBase, 0, len(payload))
	for _, ds := range payload {
		bases = append(bases, domain.KnowledgeBase{ID: ds.ID, Name: ds.Name})
	}
	return bases, nil
}

// CreateAssistant creates a chat assistant bound to one dataset.
func (c *Client) CreateAssistant(ctx context.Context, datasetID, name string, params domain.GenerationParams) (string, error) {
	req := chatCreateRequest{
		DatasetIDs: []string{datasetID},
		Name:       name,
		LLM: llmConfig{
			ModelName:   params.Model,
			Temperature: params.Temperature,
			TopP:        params.TopP,
			MaxTokens:   params.MaxTokens,
		},
		Prompt: promptConfig{
			SimilarityThreshold: params.SimilarityThreshold,
			TopN:                params.TopN,
		},
	}
	var chat chatPayload
	if err := c.postJSON(ctx, "/chats", req, &chat); err != nil {
		return "", err
	}
	if chat.ID == "" {
		return "", fmt.Errorf("%w: assistant id missing", domain.ErrMalformedResponse)
	}
	return chat.ID, nil
}

// UpdateAssistant pushes changed generation parameters to an existing
// assistant.
func (c *Client) UpdateAssistant(ctx context.Context, assistantID, name string, params domain.GenerationParams) error {
	req := chatCreateRequest{
		Name: name,
		LLM: llmConfig{
			ModelName:   params.Model,
			Temperature: params.Temperature,
			TopP:        params.TopP,
			MaxTokens:   params.MaxTokens,
		},
		Prompt: promptConfig{
			SimilarityThreshold: params.SimilarityThreshold,
			TopN:                params.TopN,
		},
	}
	return c.putJSON(ctx, "/chats/"+assistantID, req, nil)
}

// GetAssistant retrieves an assistant's current configuration.
func (c *Client) GetAssistant(ctx context.Context, assistantID string) (*domain.ChatAssistant, error) {
	var payload []chatPayload
	if err := c.getJSON(ctx, "/chats?id="+assistantID, &payload); err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: assistant %s", domain.ErrNotFound, assistantID)
	}
	chat := payload[0]
	return &domain.ChatAssistant{
		ID:         chat.ID,
		Name:       chat.Name,
		DatasetIDs: chat.DatasetIDs,
		Params: domain.GenerationParams{
			Model:               chat.LLM.ModelName,
			Temperature:         chat.LLM.Temperature,
			TopP:                chat.LLM.TopP,
			MaxTokens:           chat.LLM.MaxTokens,
			SimilarityThreshold: chat.Prompt.SimilarityThreshold,
			TopN:                chat.Prompt.TopN,
		},
	}, nil
}

// CreateSession opens a conversation context under an assistant.
func (c *Client) CreateSession(ctx context.Context, assistantID, name string) (string, error) {
	var session sessionPayload
	if err := c.postJSON(ctx, "/chats/"+assistantID+"/sessions", map[string]string{"name": name}, &session); err != nil {
		return "", err
	}
	if session.ID == "" {
		return "", fmt.Errorf("%w: session id missing", domain.ErrMalformedResponse)
	}
	return session.ID, nil
}

// Converse sends one non-streaming question through a session.
func (c *Client) Converse(ctx context.Context, assistantID, sessionID, question string) (*domain.Answer, error) {
	req := map[string]any{
		"question":   question,
		"session_id": sessionID,
		"stream":     false,
	}
	var completion completionPayload
	if err := c.postJSON(ctx, "/chats/"+assistantID+"/completions", req, &completion); err != nil {
		return nil, err
	}
	if completion.Answer == "" {
		return nil, fmt.Errorf("%w: success envelope without answer", domain.ErrIncompleteAnswer)
	}

	answer := &domain.Answer{Text: completion.Answer}
	for _, chunk := range completion.Reference.Chunks {
		name := chunk.DocumentName
		if name == "" {
			name = "unknown document"
		}
		answer.Sources = append(answer.Sources, domain.SourcePassage{
			Content:      chunk.Content,
			DocumentName: name,
		})
	}
	return answer, nil
}
