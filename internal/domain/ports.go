package domain

import "context"

// CompletionRequest is a single-prompt text generation call.
type CompletionRequest struct {
	Model       string // empty means the adapter's default
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// LLMClient defines how the core application interacts with an LLM service.
type LLMClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ThoughtBuilder produces the next thought of a session. ordinal is the
// 1-based position the thought will occupy; prior holds the thoughts already
// in the session, oldest first.
type ThoughtBuilder func(ordinal int, prior []Thought) Thought

// SessionStore defines session's persistence
type SessionStore interface {
	GetOrCreateSession(id SessionID) (*ThinkingSession, error)
	GetSession(id SessionID) (*ThinkingSession, error)
	ListSessions() ([]SessionInfo, error)
	ClearSession(id SessionID) (*ThinkingSession, error)

	// AppendThought runs build and appends its result as one step with
	// respect to other writers on the same session.
	AppendThought(id SessionID, build ThoughtBuilder) (Thought, error)
}
