package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question        string `json:"question" jsonschema:"the question to answer from the knowledge base"`
	KnowledgeBaseID string `json:"knowledge_base_id,omitempty" jsonschema:"knowledge base to query (defaults to the active one)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string         `json:"answer"`
	Sources []SourceOutput `json:"sources,omitempty"`
}

// SourceOutput is one cited passage backing an answer.
type SourceOutput struct {
	Content      string `json:"content"`
	DocumentName string `json:"document_name"`
}

// ListHistoryInput is the input schema for the list_history tool.
type ListHistoryInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of entries to return (default 10)"`
}

// ListHistoryOutput is the output schema for the list_history tool.
type ListHistoryOutput struct {
	Entries []HistoryEntryOutput `json:"entries"`
	Count   int                  `json:"count"`
}

// HistoryEntryOutput is one answered question, newest first.
type HistoryEntryOutput struct {
	Question  string         `json:"question"`
	Answer    string         `json:"answer"`
	Sources   []SourceOutput `json:"sources,omitempty"`
	Timestamp string         `json:"timestamp"`
}

// ListKnowledgeBasesOutput is the output schema for the list_knowledge_bases tool.
type ListKnowledgeBasesOutput struct {
	KnowledgeBases []KnowledgeBaseOutput `json:"knowledge_bases"`
	Count          int                   `json:"count"`
}

// KnowledgeBaseOutput is one locally recorded knowledge base.
type KnowledgeBaseOutput struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask a question against a pushed knowledge base and get a cited answer",
	}, s.handleAsk)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_history",
		Description: "List previously answered questions, newest first",
	}, s.handleListHistory)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_knowledge_bases",
		Description: "List locally recorded knowledge bases",
	}, s.handleListKnowledgeBases)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	datasetID := input.KnowledgeBaseID
	if datasetID == "" {
		kb, err := s.ports.Registry.Active(ctx)
		if err != nil {
			return nil, AskOutput{}, err
		}
		datasetID = kb.ID
	}

	// No interactive parameter prompt over MCP; stored defaults apply.
	answer, err := s.ports.QA.Ask(ctx, datasetID, input.Question, nil)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{Answer: answer.Text}
	for _, src := range answer.Sources {
		output.Sources = append(output.Sources, SourceOutput{
			Content:      src.Content,
			DocumentName: src.DocumentName,
		})
	}
	return nil, output, nil
}

// handleListHistory handles the list_history tool invocation.
func (s *Server) handleListHistory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListHistoryInput,
) (*mcp.CallToolResult, ListHistoryOutput, error) {
	if s.ports.History == nil {
		return nil, ListHistoryOutput{}, errors.New("history is not available")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	entries, err := s.ports.History.List(ctx)
	if err != nil {
		return nil, ListHistoryOutput{}, err
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}

	output := ListHistoryOutput{
		Entries: make([]HistoryEntryOutput, len(entries)),
		Count:   len(entries),
	}
	for i, entry := range entries {
		out := HistoryEntryOutput{
			Question:  entry.Question,
			Answer:    entry.Answer,
			Timestamp: entry.Timestamp.Format("2006-01-02 15:04:05"),
		}
		for _, src := range entry.Sources {
			out.Sources = append(out.Sources, SourceOutput{
				Content:      src.Content,
				DocumentName: src.DocumentName,
			})
		}
		output.Entries[i] = out
	}
	return nil, output, nil
}

// handleListKnowledgeBases handles the list_knowledge_bases tool invocation.
func (s *Server) handleListKnowledgeBases(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ListKnowledgeBasesOutput, error) {
	bases, err := s.ports.Registry.List(ctx)
	if err != nil {
		return nil, ListKnowledgeBasesOutput{}, err
	}

	activeID := ""
	if active, err := s.ports.Registry.Active(ctx); err == nil {
		activeID = active.ID
	}

	output := ListKnowledgeBasesOutput{
		KnowledgeBases: make([]KnowledgeBaseOutput, len(bases)),
		Count:          len(bases),
	}
	for i, kb := range bases {
		output.KnowledgeBases[i] = KnowledgeBaseOutput{
			ID:     kb.ID,
			Name:   kb.Name,
			Active: kb.ID == activeID,
		}
	}
	return nil, output, nil
}
