package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/samosa1610/murfAI/models"
)

// Sentinel errors surfaced by the orchestrator.
var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionNotInProgress = errors.New("session is not in progress")
	ErrEmptyTranscript      = errors.New("transcript must not be empty")
	ErrTurnInProgress       = errors.New("previous turn is still being processed")
)

// Generator produces text for a prompt. It never fails: the generation client
// converts remote errors into its fallback response.
type Generator interface {
	Generate(ctx context.Context, prompt string) string
}

// Synthesizer converts text into an audio resource locator for a character's
// voice. Errors propagate so callers can degrade to text-only turns.
type Synthesizer interface {
	GenerateSpeech(ctx context.Context, text string, characterID string) (string, error)
}

// AudioDownloader fetches the audio bytes behind a locator returned by a
// Synthesizer. Providers that support it get their greeting audio persisted.
type AudioDownloader interface {
	DownloadAudio(ctx context.Context, audioURL string) ([]byte, error)
}

// InterviewStore is the persistence surface the orchestrator needs. The GORM
// repository satisfies it in production; tests use an in-memory fake.
type InterviewStore interface {
	GetInterviewSession(ctx context.Context, sessionID string) (*models.InterviewSession, error)
	UpdateInterviewSession(ctx context.Context, session *models.InterviewSession) error
	GetCharacter(ctx context.Context, characterID string) (*models.Character, error)
	GetInterviewType(ctx context.Context, typeID string) (*models.InterviewType, error)
	CreateMessage(ctx context.Context, message *models.Message) error
	GetSessionMessages(ctx context.Context, sessionID string) ([]models.Message, error)
	DeleteSessionMessages(ctx context.Context, sessionID string) error
	CreateSessionSummary(ctx context.Context, summary *models.SessionSummary) error
	DeleteSessionSummary(ctx context.Context, sessionID string) error
}

// InterviewOrchestrator owns the session state machine: greeting, turn
// sequencing, question counting, feedback generation and retry. All transcript
// mutation goes through here, serialized per session so the turn-order
// invariant holds even when callers misbehave.
type InterviewOrchestrator struct {
	store       InterviewStore
	generator   Generator
	synthesizer Synthesizer
	audioStore  *AudioStore

	mutex    sync.Mutex
	inFlight map[string]bool
}

// TurnResult carries the outcome of one accepted user utterance.
type TurnResult struct {
	UserMessage        *models.Message        `json:"user_message"`
	InterviewerMessage *models.Message        `json:"interviewer_message"`
	CurrentQuestion    int                    `json:"current_question"`
	TotalQuestions     int                    `json:"total_questions"`
	SessionStatus      string                 `json:"session_status"`
	Summary            *models.SessionSummary `json:"summary,omitempty"`
}

func NewInterviewOrchestrator(store InterviewStore, generator Generator, synthesizer Synthesizer, audioStore *AudioStore) *InterviewOrchestrator {
	return &InterviewOrchestrator{
		store:       store,
		generator:   generator,
		synthesizer: synthesizer,
		audioStore:  audioStore,
		inFlight:    make(map[string]bool),
	}
}

// acquireTurn marks a session as processing a turn. Callers must release with
// releaseTurn. The guard rejects a new utterance while generation or synthesis
// for the previous turn is still outstanding.
func (o *InterviewOrchestrator) acquireTurn(sessionID string) bool {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	if o.inFlight[sessionID] {
		return false
	}
	o.inFlight[sessionID] = true
	return true
}

func (o *InterviewOrchestrator) releaseTurn(sessionID string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	delete(o.inFlight, sessionID)
}

// StartSession transitions a session into the in-progress state and emits the
// greeting as turn 1. The greeting text always succeeds; synthesis is
// best-effort and failure degrades the turn to text-only.
func (o *InterviewOrchestrator) StartSession(ctx context.Context, sessionID string) (*models.Message, error) {
	session, err := o.store.GetInterviewSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	character, interviewType, err := o.loadCatalog(ctx, session)
	if err != nil {
		return nil, err
	}

	greeting := BuildGreeting(character, interviewType)
	message := o.newInterviewerMessage(ctx, session.ID, 1, greeting, character.ID)

	if err := o.store.CreateMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to save greeting message: %w", err)
	}

	session.Status = models.SessionStatusInProgress
	session.CurrentQuestion = 1
	if err := o.store.UpdateInterviewSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	// Greeting lines are deterministic per character and type, so persisting
	// the audio lets later sessions skip synthesis.
	if message.HasAudio && o.audioStore != nil {
		if downloader, ok := o.synthesizer.(AudioDownloader); ok && message.AudioFile != nil {
			if err := o.audioStore.SaveFromURL(ctx, downloader, greeting, character.ID, *message.AudioFile); err != nil {
				slog.Warn("Failed to store greeting audio", "error", err, "session_id", session.ID)
			}
		}
	}

	slog.Info("Interview session started", "session_id", session.ID, "character", character.Name, "interview_type", interviewType.ID)
	return message, nil
}

// StartSessionIfReady emits the greeting only when the session has not been
// started yet, so reconnecting clients do not get a duplicate turn 1.
func (o *InterviewOrchestrator) StartSessionIfReady(ctx context.Context, sessionID string) (*models.Message, error) {
	session, err := o.store.GetInterviewSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.Status != models.SessionStatusReady {
		return nil, nil
	}
	return o.StartSession(ctx, sessionID)
}

// AbandonSession marks an unfinished session as abandoned. Completed and
// failed sessions keep their terminal state.
func (o *InterviewOrchestrator) AbandonSession(ctx context.Context, sessionID string) error {
	session, err := o.store.GetInterviewSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return ErrSessionNotFound
	}
	if session.Status != models.SessionStatusReady && session.Status != models.SessionStatusInProgress {
		return nil
	}

	now := time.Now()
	session.Status = models.SessionStatusAbandoned
	session.EndedAt = &now
	if err := o.store.UpdateInterviewSession(ctx, session); err != nil {
		return fmt.Errorf("failed to abandon session: %w", err)
	}

	slog.Info("Session abandoned", "session_id", session.ID)
	return nil
}

// SubmitUtterance accepts one user transcript, appends the user turn, asks the
// generator for a follow-up question, appends the interviewer turn (with
// best-effort audio) and advances the question counter. Reaching the question
// threshold triggers exactly one feedback request.
func (o *InterviewOrchestrator) SubmitUtterance(ctx context.Context, sessionID string, transcript string) (*TurnResult, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, ErrEmptyTranscript
	}
	if !o.acquireTurn(sessionID) {
		return nil, ErrTurnInProgress
	}
	defer o.releaseTurn(sessionID)

	session, err := o.store.GetInterviewSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.Status != models.SessionStatusInProgress {
		return nil, ErrSessionNotInProgress
	}

	character, interviewType, err := o.loadCatalog(ctx, session)
	if err != nil {
		return nil, err
	}

	messages, err := o.store.GetSessionMessages(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transcript: %w", err)
	}
	nextTurn := 1
	if len(messages) > 0 {
		nextTurn = messages[len(messages)-1].TurnOrder + 1
	}

	userMessage := &models.Message{
		SessionID: session.ID,
		TurnOrder: nextTurn,
		Speaker:   models.SpeakerUser,
		Content:   transcript,
		Timestamp: time.Now(),
	}
	if err := o.store.CreateMessage(ctx, userMessage); err != nil {
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}

	prompt := BuildFollowUpPrompt(character, interviewType, session.CurrentQuestion, session.TotalQuestions, transcript)
	response := o.generator.Generate(ctx, prompt)

	interviewerMessage := o.newInterviewerMessage(ctx, session.ID, nextTurn+1, response, character.ID)
	if err := o.store.CreateMessage(ctx, interviewerMessage); err != nil {
		return nil, fmt.Errorf("failed to save interviewer message: %w", err)
	}

	session.CurrentQuestion++
	result := &TurnResult{
		UserMessage:        userMessage,
		InterviewerMessage: interviewerMessage,
		CurrentQuestion:    session.CurrentQuestion,
		TotalQuestions:     session.TotalQuestions,
	}

	if session.CurrentQuestion >= session.TotalQuestions {
		session.Status = models.SessionStatusSummaryPending
		if err := o.store.UpdateInterviewSession(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to update session: %w", err)
		}

		summaryResult := o.requestSummary(ctx, session, character)
		if summaryResult.Err == nil {
			result.Summary = summaryResult.Summary
		}
		result.SessionStatus = session.Status
		result.CurrentQuestion = session.CurrentQuestion
		return result, nil
	}

	if err := o.store.UpdateInterviewSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	result.SessionStatus = session.Status

	slog.Info("Turn completed",
		"session_id", session.ID,
		"current_question", session.CurrentQuestion,
		"has_audio", interviewerMessage.HasAudio)
	return result, nil
}

// requestSummary issues the structured feedback request and applies the tagged
// parse result to the session: a parse failure moves the session into the
// observable summary_failed state instead of silently dropping the report.
func (o *InterviewOrchestrator) requestSummary(ctx context.Context, session *models.InterviewSession, character *models.Character) SummaryResult {
	prompt := BuildFeedbackPrompt(character, session.TotalQuestions)
	response := o.generator.Generate(ctx, prompt)

	result := ParseFeedback(response)
	if result.Err != nil {
		slog.Error("Failed to parse feedback response", "error", result.Err, "session_id", session.ID, "raw", result.Raw)
		session.Status = models.SessionStatusSummaryFailed
		if err := o.store.UpdateInterviewSession(ctx, session); err != nil {
			slog.Error("Failed to record summary failure", "error", err, "session_id", session.ID)
		}
		return result
	}

	result.Summary.SessionID = session.ID
	if err := o.store.CreateSessionSummary(ctx, result.Summary); err != nil {
		slog.Error("Failed to save session summary", "error", err, "session_id", session.ID)
		session.Status = models.SessionStatusSummaryFailed
		if updateErr := o.store.UpdateInterviewSession(ctx, session); updateErr != nil {
			slog.Error("Failed to record summary failure", "error", updateErr, "session_id", session.ID)
		}
		return SummaryResult{Raw: result.Raw, Err: err}
	}

	now := time.Now()
	session.Status = models.SessionStatusCompleted
	session.EndedAt = &now
	if err := o.store.UpdateInterviewSession(ctx, session); err != nil {
		slog.Error("Failed to mark session completed", "error", err, "session_id", session.ID)
	}

	slog.Info("Session completed", "session_id", session.ID, "score", result.Summary.Score)
	return result
}

// RetrySummary re-issues the feedback request for a session stuck in the
// summary_failed state.
func (o *InterviewOrchestrator) RetrySummary(ctx context.Context, sessionID string) (SummaryResult, error) {
	session, err := o.store.GetInterviewSession(ctx, sessionID)
	if err != nil {
		return SummaryResult{}, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return SummaryResult{}, ErrSessionNotFound
	}
	if session.Status != models.SessionStatusSummaryFailed {
		return SummaryResult{}, fmt.Errorf("session %s is not awaiting a summary retry", sessionID)
	}

	character, err := o.store.GetCharacter(ctx, session.CharacterID)
	if err != nil {
		return SummaryResult{}, fmt.Errorf("failed to load character: %w", err)
	}
	if character == nil {
		return SummaryResult{}, fmt.Errorf("character %s not found", session.CharacterID)
	}

	return o.requestSummary(ctx, session, character), nil
}

// Retry clears the transcript and question counter, preserves the chosen
// character and interview type, and restarts the session with a fresh
// greeting.
func (o *InterviewOrchestrator) Retry(ctx context.Context, sessionID string) (*models.Message, error) {
	if !o.acquireTurn(sessionID) {
		return nil, ErrTurnInProgress
	}
	defer o.releaseTurn(sessionID)

	session, err := o.store.GetInterviewSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if err := o.store.DeleteSessionMessages(ctx, session.ID); err != nil {
		return nil, fmt.Errorf("failed to clear transcript: %w", err)
	}
	if err := o.store.DeleteSessionSummary(ctx, session.ID); err != nil {
		return nil, fmt.Errorf("failed to clear summary: %w", err)
	}

	session.Status = models.SessionStatusReady
	session.CurrentQuestion = 1
	session.StartedAt = time.Now()
	session.EndedAt = nil
	if err := o.store.UpdateInterviewSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to reset session: %w", err)
	}

	slog.Info("Session reset for retry", "session_id", session.ID, "character_id", session.CharacterID, "interview_type_id", session.InterviewTypeID)
	return o.StartSession(ctx, session.ID)
}

// newInterviewerMessage builds an interviewer turn with best-effort audio.
// Synthesis failure yields a text-only message; the turn still advances.
func (o *InterviewOrchestrator) newInterviewerMessage(ctx context.Context, sessionID string, turnOrder int, content string, characterID string) *models.Message {
	message := &models.Message{
		SessionID:   sessionID,
		TurnOrder:   turnOrder,
		Speaker:     models.SpeakerInterviewer,
		Content:     content,
		CharacterID: &characterID,
		Timestamp:   time.Now(),
	}

	if o.synthesizer == nil {
		return message
	}

	audioURL, err := o.synthesizer.GenerateSpeech(ctx, content, characterID)
	if err != nil {
		slog.Error("Speech synthesis failed, degrading to text-only turn", "error", err, "session_id", sessionID, "turn_order", turnOrder)
		return message
	}

	message.HasAudio = true
	message.AudioFile = &audioURL
	return message
}

func (o *InterviewOrchestrator) loadCatalog(ctx context.Context, session *models.InterviewSession) (*models.Character, *models.InterviewType, error) {
	character, err := o.store.GetCharacter(ctx, session.CharacterID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load character: %w", err)
	}
	if character == nil {
		return nil, nil, fmt.Errorf("character %s not found", session.CharacterID)
	}

	interviewType, err := o.store.GetInterviewType(ctx, session.InterviewTypeID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load interview type: %w", err)
	}
	if interviewType == nil {
		return nil, nil, fmt.Errorf("interview type %s not found", session.InterviewTypeID)
	}

	return character, interviewType, nil
}
