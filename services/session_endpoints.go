package services

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/samosa1610/murfAI/models"
	"github.com/samosa1610/murfAI/repository"
)

type SessionEndpoints struct {
	repo         *repository.GORMRepository
	orchestrator *InterviewOrchestrator
}

func NewSessionEndpoints(repo *repository.GORMRepository, orchestrator *InterviewOrchestrator) *SessionEndpoints {
	return &SessionEndpoints{
		repo:         repo,
		orchestrator: orchestrator,
	}
}

type CreateSessionRequest struct {
	CharacterID     string `json:"character_id" validate:"required"`
	InterviewTypeID string `json:"interview_type_id" validate:"required"`
}

type CreateSessionResponse struct {
	Session  models.InterviewSession `json:"session"`
	Greeting *models.Message         `json:"greeting,omitempty"`
	Message  string                  `json:"message"`
}

type GetSessionsResponse struct {
	Sessions []models.InterviewSession `json:"sessions"`
	Count    int                       `json:"count"`
}

type SubmitMessageRequest struct {
	Transcript string `json:"transcript" validate:"required"`
}

func (e *SessionEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", e.CreateSessionHandler)
		r.Get("/", e.GetSessionsHandler)
		r.Get("/{id}", e.GetSessionHandler)
		r.Delete("/{id}", e.DeleteSessionHandler)
		r.Post("/{id}/messages", e.SubmitMessageHandler)
		r.Post("/{id}/retry", e.RetrySessionHandler)
		r.Get("/{id}/summary", e.GetSummaryHandler)
		r.Post("/{id}/summary/retry", e.RetrySummaryHandler)
	})
}

func (e *SessionEndpoints) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	// Get user from context (set by auth middleware)
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	character, err := e.repo.GetCharacter(r.Context(), req.CharacterID)
	if err != nil {
		slog.Error("Failed to get character", "error", err, "character_id", req.CharacterID)
		http.Error(w, "Failed to validate character", http.StatusInternalServerError)
		return
	}
	if character == nil {
		http.Error(w, "Character not found", http.StatusNotFound)
		return
	}

	interviewType, err := e.repo.GetInterviewType(r.Context(), req.InterviewTypeID)
	if err != nil {
		slog.Error("Failed to get interview type", "error", err, "interview_type_id", req.InterviewTypeID)
		http.Error(w, "Failed to validate interview type", http.StatusInternalServerError)
		return
	}
	if interviewType == nil {
		http.Error(w, "Interview type not found", http.StatusNotFound)
		return
	}

	session := models.InterviewSession{
		ID:              uuid.New().String(),
		UserID:          user.ID,
		CharacterID:     req.CharacterID,
		InterviewTypeID: req.InterviewTypeID,
		Status:          models.SessionStatusReady,
		CurrentQuestion: 1,
		TotalQuestions:  models.DefaultTotalQuestions,
		StartedAt:       time.Now(),
	}

	if err := e.repo.CreateInterviewSession(r.Context(), &session); err != nil {
		slog.Error("Failed to create interview session", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	greeting, err := e.orchestrator.StartSession(r.Context(), session.ID)
	if err != nil {
		slog.Error("Failed to start interview session", "error", err, "session_id", session.ID)
		http.Error(w, "Failed to start session", http.StatusInternalServerError)
		return
	}
	session.Status = models.SessionStatusInProgress

	response := CreateSessionResponse{
		Session:  session,
		Greeting: greeting,
		Message:  "Session created successfully",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)

	slog.Info("Interview session created", "session_id", session.ID, "user_id", user.ID, "character_id", req.CharacterID)
}

func (e *SessionEndpoints) GetSessionsHandler(w http.ResponseWriter, r *http.Request) {
	// Get user from context (set by auth middleware)
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	sessions, err := e.repo.GetInterviewSessions(r.Context(), user.ID)
	if err != nil {
		slog.Error("Failed to get interview sessions", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to get sessions", http.StatusInternalServerError)
		return
	}

	response := GetSessionsResponse{
		Sessions: sessions,
		Count:    len(sessions),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (e *SessionEndpoints) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	// Get user from context (set by auth middleware)
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		http.Error(w, "Session ID is required", http.StatusBadRequest)
		return
	}

	session, err := e.repo.GetInterviewSessionWithDetails(r.Context(), sessionID, user.ID)
	if err != nil {
		slog.Error("Failed to get interview session", "error", err, "session_id", sessionID, "user_id", user.ID)
		http.Error(w, "Failed to get session", http.StatusInternalServerError)
		return
	}
	if session == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"session": session,
	})
}

// SubmitMessageHandler accepts one finalized user utterance and runs a full
// interview turn. The orchestrator's sentinel errors map onto HTTP statuses.
func (e *SessionEndpoints) SubmitMessageHandler(w http.ResponseWriter, r *http.Request) {
	// Get user from context (set by auth middleware)
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		http.Error(w, "Session ID is required", http.StatusBadRequest)
		return
	}

	var req SubmitMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Ownership check before handing the turn to the orchestrator.
	if session := e.loadOwnedSession(w, r, sessionID, user.ID); session == nil {
		return
	}

	result, err := e.orchestrator.SubmitUtterance(r.Context(), sessionID, req.Transcript)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyTranscript):
			http.Error(w, "Transcript must not be empty", http.StatusBadRequest)
		case errors.Is(err, ErrSessionNotFound):
			http.Error(w, "Session not found", http.StatusNotFound)
		case errors.Is(err, ErrSessionNotInProgress):
			http.Error(w, "Session is not in progress", http.StatusConflict)
		case errors.Is(err, ErrTurnInProgress):
			http.Error(w, "A turn is already being processed for this session", http.StatusConflict)
		default:
			slog.Error("Failed to process interview turn", "error", err, "session_id", sessionID)
			http.Error(w, "Failed to process message", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (e *SessionEndpoints) RetrySessionHandler(w http.ResponseWriter, r *http.Request) {
	// Get user from context (set by auth middleware)
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		http.Error(w, "Session ID is required", http.StatusBadRequest)
		return
	}

	if session := e.loadOwnedSession(w, r, sessionID, user.ID); session == nil {
		return
	}

	greeting, err := e.orchestrator.Retry(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, ErrTurnInProgress) {
			http.Error(w, "A turn is already being processed for this session", http.StatusConflict)
			return
		}
		slog.Error("Failed to retry interview session", "error", err, "session_id", sessionID)
		http.Error(w, "Failed to retry session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"greeting": greeting,
		"message":  "Session restarted",
	})

	slog.Info("Interview session restarted", "session_id", sessionID, "user_id", user.ID)
}

func (e *SessionEndpoints) GetSummaryHandler(w http.ResponseWriter, r *http.Request) {
	// Get user from context (set by auth middleware)
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		http.Error(w, "Session ID is required", http.StatusBadRequest)
		return
	}

	session := e.loadOwnedSession(w, r, sessionID, user.ID)
	if session == nil {
		return
	}

	summary, err := e.repo.GetSessionSummary(r.Context(), sessionID)
	if err != nil {
		slog.Error("Failed to get session summary", "error", err, "session_id", sessionID)
		http.Error(w, "Failed to get summary", http.StatusInternalServerError)
		return
	}

	status := "not_started"
	switch session.Status {
	case models.SessionStatusCompleted:
		status = "ready"
	case models.SessionStatusSummaryPending:
		status = "pending"
	case models.SessionStatusSummaryFailed:
		status = "failed"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"summary": summary,
		"status":  status,
	})
}

func (e *SessionEndpoints) RetrySummaryHandler(w http.ResponseWriter, r *http.Request) {
	// Get user from context (set by auth middleware)
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		http.Error(w, "Session ID is required", http.StatusBadRequest)
		return
	}

	session := e.loadOwnedSession(w, r, sessionID, user.ID)
	if session == nil {
		return
	}
	if session.Status != models.SessionStatusSummaryFailed {
		http.Error(w, "Session summary is not in a failed state", http.StatusConflict)
		return
	}

	result, err := e.orchestrator.RetrySummary(r.Context(), sessionID)
	if err != nil {
		slog.Error("Failed to retry summary generation", "error", err, "session_id", sessionID)
		http.Error(w, "Failed to retry summary generation", http.StatusInternalServerError)
		return
	}
	if result.Err != nil {
		slog.Error("Summary generation failed again", "error", result.Err, "session_id", sessionID)
		http.Error(w, "Summary generation failed again", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"summary": result.Summary,
		"status":  "ready",
	})

	slog.Info("Session summary regenerated", "session_id", sessionID, "user_id", user.ID)
}

func (e *SessionEndpoints) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	// Get user from context (set by auth middleware)
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		http.Error(w, "Session ID is required", http.StatusBadRequest)
		return
	}

	if session := e.loadOwnedSession(w, r, sessionID, user.ID); session == nil {
		return
	}

	if err := e.repo.DeleteInterviewSession(r.Context(), sessionID); err != nil {
		slog.Error("Failed to delete interview session", "error", err, "session_id", sessionID, "user_id", user.ID)
		http.Error(w, "Failed to delete session", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
	slog.Info("Interview session deleted", "session_id", sessionID, "user_id", user.ID)
}

// loadOwnedSession fetches a session and enforces ownership. A session owned
// by another user is indistinguishable from a missing one. Returns nil after
// writing the error response.
func (e *SessionEndpoints) loadOwnedSession(w http.ResponseWriter, r *http.Request, sessionID, userID string) *models.InterviewSession {
	session, err := e.repo.GetInterviewSession(r.Context(), sessionID)
	if err != nil {
		slog.Error("Failed to get interview session", "error", err, "session_id", sessionID, "user_id", userID)
		http.Error(w, "Failed to get session", http.StatusInternalServerError)
		return nil
	}
	if session == nil || session.UserID != userID {
		http.Error(w, "Session not found", http.StatusNotFound)
		return nil
	}
	return session
}
