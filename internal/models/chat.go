package models

import "time"

// AnswerFormatMarkdown marks an answer as raw markdown from the generation
// backend. The rendering layer decides how to sanitize/escape it; the core
// never emits HTML.
const AnswerFormatMarkdown = "markdown"

// ChatEntry is one (question, answer) pair in a session's history.
// Entries are immutable once created; ordering is append-only.
type ChatEntry struct {
	Question     string        `json:"question"`
	Answer       string        `json:"answer"`
	AnswerFormat string        `json:"answer_format"`
	Failed       bool          `json:"failed,omitempty"`
	Sources      []ScoredChunk `json:"sources,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// AskResult is the structured response to one question: the appended chat
// entry plus the session it belongs to.
type AskResult struct {
	SessionID string `json:"session_id"`
	ChatEntry
}
