package thinking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PabloGalante/sequential-thinking/internal/domain"
	"github.com/PabloGalante/sequential-thinking/internal/observability"
)

const (
	previewLimit  = 100
	previewMarker = "..."

	temperature        = 0.7
	analysisMaxTokens  = 300
	insightMaxTokens   = 400
	guidanceMaxTokens  = 200
	defaultLLMTimeout  = 60 * time.Second
	emptySessionAdvice = "Start with Problem Definition stage to clearly articulate what you're trying to solve."
)

type Options struct {
	// Model is passed to the collaborator; empty lets the adapter choose.
	Model string

	// CollaboratorTimeout bounds every LLM call. Zero means 60s.
	CollaboratorTimeout time.Duration

	Now func() time.Time
}

type Service struct {
	llm     domain.LLMClient
	store   domain.SessionStore
	model   string
	timeout time.Duration
	now     func() time.Time
}

func NewService(llm domain.LLMClient, store domain.SessionStore, opts Options) *Service {
	s := &Service{
		llm:     llm,
		store:   store,
		model:   opts.Model,
		timeout: opts.CollaboratorTimeout,
		now:     opts.Now,
	}
	if s.timeout <= 0 {
		s.timeout = defaultLLMTimeout
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

type AddThoughtInput struct {
	Content       string
	ThoughtNumber int
	TotalThoughts int
	Stage         domain.Stage

	Tags                  []string
	AxiomsUsed            []string
	AssumptionsChallenged []string

	NextThoughtNeeded bool
	UseAIAnalysis     bool
}

// AddThought appends a thought to the session, creating the session on first
// use. Analysis failures are recorded on the thought and never returned.
func (s *Service) AddThought(ctx context.Context, sessionID domain.SessionID, in AddThoughtInput) (*domain.Thought, error) {
	if !in.Stage.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStage, in.Stage)
	}

	log := observability.LoggerFromContext(ctx).With(
		"session_id", sessionID,
		"stage", in.Stage,
	)

	if _, err := s.store.GetOrCreateSession(sessionID); err != nil {
		log.Error("failed to get or create session", "error", err)
		return nil, err
	}

	thought, err := s.store.AppendThought(sessionID, func(ordinal int, prior []domain.Thought) domain.Thought {
		t := domain.Thought{
			ID:                    fmt.Sprintf("%s_%d", sessionID, ordinal),
			Content:               in.Content,
			ThoughtNumber:         in.ThoughtNumber,
			TotalThoughts:         in.TotalThoughts,
			Stage:                 in.Stage,
			Timestamp:             s.now(),
			Tags:                  orEmpty(in.Tags),
			AxiomsUsed:            orEmpty(in.AxiomsUsed),
			AssumptionsChallenged: orEmpty(in.AssumptionsChallenged),
			NextThoughtNeeded:     in.NextThoughtNeeded,
		}

		if in.UseAIAnalysis {
			t.Enrichment = s.analyze(ctx, in.Content, in.Stage, prior)
		}
		return t
	})
	if err != nil {
		log.Error("failed to append thought", "error", err)
		return nil, err
	}

	log.Info("thought added",
		"thought_id", thought.ID,
		"analyzed", thought.Enrichment != nil,
		"analysis_failed", thought.Enrichment.Failed(),
	)

	return &thought, nil
}

func (s *Service) analyze(ctx context.Context, content string, stage domain.Stage, prior []domain.Thought) *domain.Completion {
	history := make([]string, 0, len(prior))
	for _, p := range prior {
		history = append(history, p.Content)
	}

	prompt, err := analysisPrompt(content, stage.String(), history)
	if err != nil {
		return domain.CompletionFailed(err)
	}
	return s.complete(ctx, "analysis", prompt, analysisMaxTokens)
}

func (s *Service) GetThoughts(ctx context.Context, sessionID domain.SessionID) ([]domain.Thought, error) {
	session, err := s.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	return session.Thoughts, nil
}

func (s *Service) ListSessions(ctx context.Context) ([]domain.SessionInfo, error) {
	sessions, err := s.store.ListSessions()
	if err != nil {
		observability.LoggerFromContext(ctx).Error("failed to list sessions", "error", err)
		return nil, err
	}
	return sessions, nil
}

// ClearSession removes every thought but keeps the session registered.
func (s *Service) ClearSession(ctx context.Context, sessionID domain.SessionID) error {
	session, err := s.store.ClearSession(sessionID)
	if err != nil {
		return err
	}

	observability.LoggerFromContext(ctx).Info("session cleared",
		"session_id", session.ID,
		"created_at", session.CreatedAt,
	)
	return nil
}

// Summarize builds the stage histogram and timeline of a session and, when
// asked and the session is not empty, an aggregate insight pass.
func (s *Service) Summarize(ctx context.Context, sessionID domain.SessionID, includeInsights bool) (*domain.SessionSummary, error) {
	session, err := s.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	summary := BuildSummary(session.ID, session.Thoughts)

	if includeInsights && len(session.Thoughts) > 0 {
		prompt, err := insightPrompt(joinThoughts(session.Thoughts, "\n\n"))
		if err != nil {
			summary.Insights = domain.CompletionFailed(err)
		} else {
			summary.Insights = s.complete(ctx, "insights", prompt, insightMaxTokens)
		}
	}

	observability.LoggerFromContext(ctx).Info("summary built",
		"session_id", sessionID,
		"total_thoughts", summary.TotalThoughts,
		"with_insights", summary.Insights != nil,
	)

	return summary, nil
}

// SuggestNextStep asks the collaborator what the session should explore
// next. Empty sessions get fixed advice without any LLM call.
func (s *Service) SuggestNextStep(ctx context.Context, sessionID domain.SessionID) (*domain.Completion, error) {
	session, err := s.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	if len(session.Thoughts) == 0 {
		return domain.CompletionOK(emptySessionAdvice), nil
	}

	latest := session.Thoughts[len(session.Thoughts)-1]
	prompt, err := guidancePrompt(joinThoughts(session.Thoughts, "\n"), latest.Stage.String())
	if err != nil {
		return domain.CompletionFailed(err), nil
	}

	return s.complete(ctx, "next_step", prompt, guidanceMaxTokens), nil
}

// BuildSummary computes the parts of a summary that need no collaborator.
func BuildSummary(sessionID domain.SessionID, thoughts []domain.Thought) *domain.SessionSummary {
	summary := &domain.SessionSummary{
		SessionID:     sessionID,
		TotalThoughts: len(thoughts),
		StagesUsed:    []domain.StageCount{},
		Timeline:      make([]domain.TimelineEntry, 0, len(thoughts)),
	}

	index := make(map[domain.Stage]int)
	for _, t := range thoughts {
		i, seen := index[t.Stage]
		if !seen {
			i = len(summary.StagesUsed)
			index[t.Stage] = i
			summary.StagesUsed = append(summary.StagesUsed, domain.StageCount{Stage: t.Stage})
		}
		summary.StagesUsed[i].Count++

		summary.Timeline = append(summary.Timeline, domain.TimelineEntry{
			ThoughtNumber: t.ThoughtNumber,
			Stage:         t.Stage,
			Timestamp:     t.Timestamp,
			Preview:       Preview(t.Content),
		})
	}

	return summary
}

// Preview returns content cut to 100 characters, marked with "..." when cut.
func Preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLimit {
		return content
	}
	return string(runes[:previewLimit]) + previewMarker
}

func (s *Service) complete(ctx context.Context, purpose, prompt string, maxTokens int) *domain.Completion {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := s.llm.Complete(callCtx, domain.CompletionRequest{
		Model:       s.model,
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	observability.LogLLMCall(ctx, purpose, s.model, time.Since(start), err)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("no response within %s", s.timeout)
		}
		return domain.CompletionFailed(err)
	}
	return domain.CompletionOK(text)
}

func joinThoughts(thoughts []domain.Thought, sep string) string {
	lines := make([]string, 0, len(thoughts))
	for _, t := range thoughts {
		lines = append(lines, fmt.Sprintf("Stage %s: %s", t.Stage, t.Content))
	}
	return strings.Join(lines, sep)
}

func orEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
