package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samosa1610/murfAI/models"
	"gorm.io/gorm"
)

// Transcript and summary operations. Messages are append-only; the only bulk
// mutation is the wholesale delete performed by a session retry.

func (r *GORMRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		slog.Error("Failed to save message", "error", err, "session_id", message.SessionID)
		return fmt.Errorf("failed to save message: %w", err)
	}
	slog.Info("Message saved", "message_id", message.ID, "session_id", message.SessionID, "speaker", message.Speaker, "turn_order", message.TurnOrder)
	return nil
}

func (r *GORMRepository) GetSessionMessages(ctx context.Context, sessionID string) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("turn_order").
		Find(&messages).Error
	if err != nil {
		slog.Error("Failed to get session messages", "error", err, "session_id", sessionID)
		return nil, fmt.Errorf("failed to get session messages: %w", err)
	}
	return messages, nil
}

// DeleteSessionMessages clears a session's transcript. Used by retry only.
func (r *GORMRepository) DeleteSessionMessages(ctx context.Context, sessionID string) error {
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&models.Message{}).Error; err != nil {
		slog.Error("Failed to delete session messages", "error", err, "session_id", sessionID)
		return fmt.Errorf("failed to delete session messages: %w", err)
	}
	slog.Info("Session messages cleared", "session_id", sessionID)
	return nil
}

func (r *GORMRepository) CreateSessionSummary(ctx context.Context, summary *models.SessionSummary) error {
	if err := r.db.WithContext(ctx).Create(summary).Error; err != nil {
		slog.Error("Failed to create session summary", "error", err, "session_id", summary.SessionID)
		return fmt.Errorf("failed to create session summary: %w", err)
	}
	slog.Info("Session summary created", "summary_id", summary.ID, "session_id", summary.SessionID, "score", summary.Score)
	return nil
}

func (r *GORMRepository) GetSessionSummary(ctx context.Context, sessionID string) (*models.SessionSummary, error) {
	var summary models.SessionSummary
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&summary).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get session summary", "error", err, "session_id", sessionID)
		return nil, err
	}
	return &summary, nil
}

// DeleteSessionSummary removes a summary so a completed session can be retried.
// The delete is unscoped: session_id carries a unique index, so a soft-deleted
// row would still block the replacement summary written after the retry.
func (r *GORMRepository) DeleteSessionSummary(ctx context.Context, sessionID string) error {
	if err := r.db.WithContext(ctx).Unscoped().Where("session_id = ?", sessionID).Delete(&models.SessionSummary{}).Error; err != nil {
		slog.Error("Failed to delete session summary", "error", err, "session_id", sessionID)
		return fmt.Errorf("failed to delete session summary: %w", err)
	}
	return nil
}
