package domain

import "time"

// HistoryCap is the maximum number of Q&A exchanges retained. Appending
// beyond the cap evicts the oldest entries.
const HistoryCap = 100

// SourcePassage is one cited retrieval chunk backing an answer.
type SourcePassage struct {
	// Content is the chunk text as returned by the backend.
	Content string

	// DocumentName is the owning document's display name.
	DocumentName string
}

// Answer is the result of asking one question.
type Answer struct {
	// Text is the answer exactly as the backend produced it.
	Text string

	// Sources are the cited passages, in backend order. An empty slice is
	// valid and means no supporting passages were surfaced.
	Sources []SourcePassage
}

// HistoryEntry is one persisted question/answer exchange. Entries survive
// independently of knowledge base, assistant and session state.
type HistoryEntry struct {
	ID        string
	Question  string
	Answer    string
	Sources   []SourcePassage
	Timestamp time.Time
}
