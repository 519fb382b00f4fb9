package httpadapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PabloGalante/sequential-thinking/internal/app/thinking"
	"github.com/PabloGalante/sequential-thinking/internal/domain"
	"github.com/PabloGalante/sequential-thinking/internal/observability"
)

type Server struct {
	svc *thinking.Service
}

func NewServer(svc *thinking.Service) http.Handler {
	s := &Server{svc: svc}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)

	// /sessions → list sessions (GET)
	mux.HandleFunc("/sessions", s.handleSessions)

	// /sessions/{id}                     → DELETE: clear thoughts
	// /sessions/{id}/thoughts            → POST: add, GET: list
	// /sessions/{id}/summary             → GET
	// /sessions/{id}/ai-guided-next-step → POST
	mux.HandleFunc("/sessions/", s.handleSessionWithID)

	return chainMiddlewares(mux, withLogging, withRequestID, withCORS)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

// Pointers tell "absent" apart from zero values.
type addThoughtRequest struct {
	Content               *string  `json:"content"`
	ThoughtNumber         *int     `json:"thought_number"`
	TotalThoughts         *int     `json:"total_thoughts"`
	Stage                 *string  `json:"stage"`
	Tags                  []string `json:"tags"`
	AxiomsUsed            []string `json:"axioms_used"`
	AssumptionsChallenged []string `json:"assumptions_challenged"`
	NextThoughtNeeded     *bool    `json:"next_thought_needed"`
	UseAIAnalysis         *bool    `json:"use_ai_analysis"`
}

type thoughtResponse struct {
	ID                    string    `json:"id"`
	Content               string    `json:"content"`
	ThoughtNumber         int       `json:"thought_number"`
	TotalThoughts         int       `json:"total_thoughts"`
	Stage                 string    `json:"stage"`
	Timestamp             time.Time `json:"timestamp"`
	Tags                  []string  `json:"tags"`
	AxiomsUsed            []string  `json:"axioms_used"`
	AssumptionsChallenged []string  `json:"assumptions_challenged"`
	NextThoughtNeeded     bool      `json:"next_thought_needed"`
	AIAnalysis            *string   `json:"ai_analysis,omitempty"`
}

type sessionInfoResponse struct {
	SessionID    string    `json:"session_id"`
	ThoughtCount int       `json:"thought_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type timelineEntryResponse struct {
	ThoughtNumber int       `json:"thought_number"`
	Stage         string    `json:"stage"`
	Timestamp     time.Time `json:"timestamp"`
	Preview       string    `json:"preview"`
}

type summaryResponse struct {
	SessionID     string                  `json:"session_id"`
	TotalThoughts int                     `json:"total_thoughts"`
	StagesUsed    stageHistogram          `json:"stages_used"`
	Timeline      []timelineEntryResponse `json:"timeline"`
	AIInsights    *string                 `json:"ai_insights,omitempty"`
}

type suggestionResponse struct {
	Suggestion string `json:"suggestion"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// stageHistogram encodes as a JSON object whose keys keep first-occurrence
// order, which a Go map would lose.
type stageHistogram []domain.StageCount

func (h stageHistogram) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sc := range h {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(sc.Stage))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(sc.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ─────────────────────────────────────────────
// Basic routing
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// /sessions
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListSessions(w, r)
	default:
		methodNotAllowed(w)
	}
}

// /sessions/{id} or /sessions/{id}/{action}
func (s *Server) handleSessionWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if path == "" {
		http.NotFound(w, r)
		return
	}

	parts := strings.Split(path, "/")
	id := domain.SessionID(parts[0])

	if id == "" {
		http.NotFound(w, r)
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodDelete:
			s.handleClearSession(w, r, id)
		default:
			methodNotAllowed(w)
		}
		return
	}

	if len(parts) != 2 {
		http.NotFound(w, r)
		return
	}

	switch parts[1] {
	case "thoughts":
		switch r.Method {
		case http.MethodPost:
			s.handleAddThought(w, r, id)
		case http.MethodGet:
			s.handleGetThoughts(w, r, id)
		default:
			methodNotAllowed(w)
		}
	case "summary":
		switch r.Method {
		case http.MethodGet:
			s.handleSummary(w, r, id)
		default:
			methodNotAllowed(w)
		}
	case "ai-guided-next-step":
		switch r.Method {
		case http.MethodPost:
			s.handleNextStep(w, r, id)
		default:
			methodNotAllowed(w)
		}
	default:
		http.NotFound(w, r)
	}
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleAddThought(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	var req addThoughtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			unprocessable(w, fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type))
			return
		}
		badRequest(w, "invalid JSON body")
		return
	}

	in, msg := req.toInput()
	if msg != "" {
		unprocessable(w, msg)
		return
	}

	thought, err := s.svc.AddThought(r.Context(), id, in)
	if err != nil {
		serviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toThoughtResponse(*thought))
}

func (s *Server) handleGetThoughts(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	thoughts, err := s.svc.GetThoughts(r.Context(), id)
	if err != nil {
		serviceError(w, r, err)
		return
	}

	out := make([]thoughtResponse, 0, len(thoughts))
	for _, t := range thoughts {
		out = append(out, toThoughtResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	include := true
	if raw := r.URL.Query().Get("include_ai_insights"); raw != "" {
		v, ok := parseBool(raw)
		if !ok {
			unprocessable(w, "include_ai_insights must be a boolean")
			return
		}
		include = v
	}

	summary, err := s.svc.Summarize(r.Context(), id, include)
	if err != nil {
		serviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSummaryResponse(summary))
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	if err := s.svc.ClearSession(r.Context(), id); err != nil {
		serviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Session %s cleared successfully", id),
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.svc.ListSessions(r.Context())
	if err != nil {
		serviceError(w, r, err)
		return
	}

	out := make([]sessionInfoResponse, 0, len(sessions))
	for _, info := range sessions {
		out = append(out, sessionInfoResponse{
			SessionID:    string(info.SessionID),
			ThoughtCount: info.ThoughtCount,
			CreatedAt:    info.CreatedAt,
			UpdatedAt:    info.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleNextStep(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	suggestion, err := s.svc.SuggestNextStep(r.Context(), id)
	if err != nil {
		serviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, suggestionResponse{Suggestion: suggestion.Render()})
}

// ─────────────────────────────────────────────
// Thinking Helpers
// ─────────────────────────────────────────────

// toInput validates the request; a non-empty message means rejection.
func (req addThoughtRequest) toInput() (thinking.AddThoughtInput, string) {
	switch {
	case req.Content == nil:
		return thinking.AddThoughtInput{}, "content is required"
	case req.ThoughtNumber == nil:
		return thinking.AddThoughtInput{}, "thought_number is required"
	case req.TotalThoughts == nil:
		return thinking.AddThoughtInput{}, "total_thoughts is required"
	case req.Stage == nil:
		return thinking.AddThoughtInput{}, "stage is required"
	}

	stage, err := domain.ParseStage(*req.Stage)
	if err != nil {
		labels := make([]string, 0, 5)
		for _, st := range domain.Stages() {
			labels = append(labels, string(st))
		}
		return thinking.AddThoughtInput{}, "stage must be one of: " + strings.Join(labels, ", ")
	}

	return thinking.AddThoughtInput{
		Content:               *req.Content,
		ThoughtNumber:         *req.ThoughtNumber,
		TotalThoughts:         *req.TotalThoughts,
		Stage:                 stage,
		Tags:                  req.Tags,
		AxiomsUsed:            req.AxiomsUsed,
		AssumptionsChallenged: req.AssumptionsChallenged,
		NextThoughtNeeded:     boolOr(req.NextThoughtNeeded, true),
		UseAIAnalysis:         boolOr(req.UseAIAnalysis, true),
	}, ""
}

func toThoughtResponse(t domain.Thought) thoughtResponse {
	resp := thoughtResponse{
		ID:                    t.ID,
		Content:               t.Content,
		ThoughtNumber:         t.ThoughtNumber,
		TotalThoughts:         t.TotalThoughts,
		Stage:                 string(t.Stage),
		Timestamp:             t.Timestamp,
		Tags:                  nonNil(t.Tags),
		AxiomsUsed:            nonNil(t.AxiomsUsed),
		AssumptionsChallenged: nonNil(t.AssumptionsChallenged),
		NextThoughtNeeded:     t.NextThoughtNeeded,
	}
	if t.Enrichment != nil {
		text := t.Enrichment.Render()
		resp.AIAnalysis = &text
	}
	return resp
}

func toSummaryResponse(s *domain.SessionSummary) summaryResponse {
	timeline := make([]timelineEntryResponse, 0, len(s.Timeline))
	for _, e := range s.Timeline {
		timeline = append(timeline, timelineEntryResponse{
			ThoughtNumber: e.ThoughtNumber,
			Stage:         string(e.Stage),
			Timestamp:     e.Timestamp,
			Preview:       e.Preview,
		})
	}

	resp := summaryResponse{
		SessionID:     string(s.SessionID),
		TotalThoughts: s.TotalThoughts,
		StagesUsed:    stageHistogram(s.StagesUsed),
		Timeline:      timeline,
	}
	if s.Insights != nil {
		text := s.Insights.Render()
		resp.AIInsights = &text
	}
	return resp
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "yes", "on":
		return true, true
	case "no", "off":
		return false, true
	}
	v, err := strconv.ParseBool(s)
	return v, err == nil
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func unprocessable(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
		"error": msg,
	})
}

func notFound(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error": msg,
	})
}

// serviceError maps service errors to status codes.
func serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		notFound(w, "Session not found")
	case errors.Is(err, domain.ErrInvalidStage):
		unprocessable(w, err.Error())
	default:
		observability.LoggerFromContext(r.Context()).Error("request failed", "error", err)
		internalError(w, err)
	}
}

func internalError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
