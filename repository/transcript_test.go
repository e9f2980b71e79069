package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/samosa1610/murfAI/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestRepository opens an in-memory sqlite database. The model tags use
// postgres defaults for uuid generation, so the schema is created directly
// with the same unique index the migrator emits for session_summaries.
func newTestRepository(t *testing.T) *GORMRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql.DB: %v", err)
	}
	// Each pooled connection to :memory: gets its own database
	sqlDB.SetMaxOpenConns(1)

	statements := []string{
		`CREATE TABLE session_summaries (
			id text PRIMARY KEY,
			session_id text NOT NULL,
			score numeric NOT NULL,
			strengths text,
			improvements text,
			duration text,
			questions_answered integer,
			created_at datetime,
			updated_at datetime,
			deleted_at datetime
		)`,
		`CREATE UNIQUE INDEX idx_session_summaries_session_id ON session_summaries(session_id)`,
		`CREATE INDEX idx_session_summaries_deleted_at ON session_summaries(deleted_at)`,
		`CREATE TABLE messages (
			id text PRIMARY KEY,
			session_id text NOT NULL,
			turn_order integer NOT NULL,
			speaker text NOT NULL,
			content text NOT NULL,
			character_id text,
			has_audio numeric,
			audio_file text,
			timestamp datetime,
			created_at datetime,
			updated_at datetime,
			deleted_at datetime
		)`,
		`CREATE INDEX idx_messages_session_id ON messages(session_id)`,
		`CREATE INDEX idx_messages_deleted_at ON messages(deleted_at)`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("failed to create test schema: %v", err)
		}
	}

	return NewGORMRepository(db)
}

func newTestSummary(sessionID string, score float64) *models.SessionSummary {
	return &models.SessionSummary{
		ID:                uuid.NewString(),
		SessionID:         sessionID,
		Score:             score,
		Strengths:         []string{"Clear communication", "Strong fundamentals"},
		Improvements:      []string{"More depth on tradeoffs"},
		Duration:          "12 minutes",
		QuestionsAnswered: 5,
	}
}

// A session retry deletes the stored summary before the interview is replayed.
// The replacement summary written once the replay reaches the feedback
// threshold must not collide with the deleted row on the session_id index.
func TestSessionSummaryCanBeRecreatedAfterDelete(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	sessionID := uuid.NewString()

	if err := repo.CreateSessionSummary(ctx, newTestSummary(sessionID, 6.5)); err != nil {
		t.Fatalf("CreateSessionSummary() error = %v", err)
	}
	if err := repo.DeleteSessionSummary(ctx, sessionID); err != nil {
		t.Fatalf("DeleteSessionSummary() error = %v", err)
	}

	got, err := repo.GetSessionSummary(ctx, sessionID)
	if err != nil {
		t.Fatalf("GetSessionSummary() error = %v", err)
	}
	if got != nil {
		t.Fatalf("summary still visible after delete: %+v", got)
	}

	replacement := newTestSummary(sessionID, 8)
	if err := repo.CreateSessionSummary(ctx, replacement); err != nil {
		t.Fatalf("CreateSessionSummary() after delete error = %v", err)
	}

	got, err = repo.GetSessionSummary(ctx, sessionID)
	if err != nil {
		t.Fatalf("GetSessionSummary() error = %v", err)
	}
	if got == nil {
		t.Fatal("replacement summary not found")
	}
	if got.ID != replacement.ID {
		t.Errorf("summary ID = %q, want %q", got.ID, replacement.ID)
	}
	if got.Score != 8 {
		t.Errorf("summary Score = %v, want 8", got.Score)
	}
}

func TestDeleteSessionMessagesClearsTranscript(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	sessionID := uuid.NewString()

	for turn := 1; turn <= 3; turn++ {
		speaker := models.SpeakerUser
		if turn%2 == 1 {
			speaker = models.SpeakerInterviewer
		}
		msg := &models.Message{
			ID:        uuid.NewString(),
			SessionID: sessionID,
			TurnOrder: turn,
			Speaker:   speaker,
			Content:   "turn content",
		}
		if err := repo.CreateMessage(ctx, msg); err != nil {
			t.Fatalf("CreateMessage() error = %v", err)
		}
	}

	messages, err := repo.GetSessionMessages(ctx, sessionID)
	if err != nil {
		t.Fatalf("GetSessionMessages() error = %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("got %d messages, want 3", len(messages))
	}

	if err := repo.DeleteSessionMessages(ctx, sessionID); err != nil {
		t.Fatalf("DeleteSessionMessages() error = %v", err)
	}
	messages, err = repo.GetSessionMessages(ctx, sessionID)
	if err != nil {
		t.Fatalf("GetSessionMessages() error = %v", err)
	}
	if len(messages) != 0 {
		t.Fatalf("got %d messages after delete, want 0", len(messages))
	}
}
