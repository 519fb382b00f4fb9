package domain

// Thought is one recorded entry in a session. It is never mutated after
// creation.
type Thought struct {
	ID            string
	Content       string
	ThoughtNumber int
	TotalThoughts int
	Stage         Stage
	Timestamp     Timestamp

	Tags                  []string
	AxiomsUsed            []string
	AssumptionsChallenged []string
	NextThoughtNeeded     bool

	// Enrichment is nil unless analysis was requested.
	Enrichment *Completion
}

// ThinkingSession is an ordered, named collection of thoughts.
type ThinkingSession struct {
	ID        SessionID
	Thoughts  []Thought
	CreatedAt Timestamp
	UpdatedAt Timestamp
}

// Clone returns a snapshot that shares no slice with s.
func (s *ThinkingSession) Clone() *ThinkingSession {
	thoughts := make([]Thought, len(s.Thoughts))
	copy(thoughts, s.Thoughts)
	return &ThinkingSession{
		ID:        s.ID,
		Thoughts:  thoughts,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// Info returns the listing row for the session.
func (s *ThinkingSession) Info() SessionInfo {
	return SessionInfo{
		SessionID:    s.ID,
		ThoughtCount: len(s.Thoughts),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

type SessionInfo struct {
	SessionID    SessionID
	ThoughtCount int
	CreatedAt    Timestamp
	UpdatedAt    Timestamp
}

type StageCount struct {
	Stage Stage
	Count int
}

type TimelineEntry struct {
	ThoughtNumber int
	Stage         Stage
	Timestamp     Timestamp
	Preview       string
}

// SessionSummary is derived on request and never stored.
type SessionSummary struct {
	SessionID     SessionID
	TotalThoughts int

	// StagesUsed is ordered by first occurrence in the session.
	StagesUsed []StageCount
	Timeline   []TimelineEntry

	Insights *Completion
}
