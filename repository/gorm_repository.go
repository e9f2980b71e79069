package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/samosa1610/murfAI/models"
	"gorm.io/gorm"
)

type GORMRepository struct {
	db *gorm.DB
}

func NewGORMRepository(db *gorm.DB) *GORMRepository {
	return &GORMRepository{db: db}
}

// AutoMigrate runs database migrations
func (r *GORMRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Character{},
		&models.InterviewType{},
		&models.InterviewSession{},
		&models.Message{},
		&models.SessionSummary{},
	)
}

// User operations
func (r *GORMRepository) CreateUser(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		slog.Error("Failed to create user", "error", err)
		return err
	}
	slog.Info("User created", "user_id", user.ID, "email", user.Email)
	return nil
}

func (r *GORMRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get user by email", "error", err, "email", email)
		return nil, err
	}
	return &user, nil
}

func (r *GORMRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get user by ID", "error", err, "user_id", id)
		return nil, err
	}
	return &user, nil
}

// Token operations
func (r *GORMRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		slog.Error("Failed to create refresh token", "error", err)
		return err
	}
	return nil
}

func (r *GORMRepository) GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var refreshToken models.RefreshToken
	if err := r.db.WithContext(ctx).Where("token = ? AND expires_at > ?", token, time.Now()).First(&refreshToken).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get refresh token", "error", err)
		return nil, err
	}
	return &refreshToken, nil
}

func (r *GORMRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	if err := r.db.WithContext(ctx).Where("token = ?", token).Delete(&models.RefreshToken{}).Error; err != nil {
		slog.Error("Failed to delete refresh token", "error", err)
		return err
	}
	return nil
}

func (r *GORMRepository) DeleteAllUserTokens(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
		slog.Error("Failed to delete user refresh tokens", "error", err, "user_id", userID)
		return err
	}
	return nil
}

// Character catalog operations
func (r *GORMRepository) CreateCharacter(ctx context.Context, character *models.Character) error {
	if err := r.db.WithContext(ctx).Create(character).Error; err != nil {
		slog.Error("Failed to create character", "error", err)
		return err
	}
	slog.Info("Character created", "character_id", character.ID, "name", character.Name)
	return nil
}

func (r *GORMRepository) GetCharacters(ctx context.Context) ([]models.Character, error) {
	var characters []models.Character
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&characters).Error; err != nil {
		slog.Error("Failed to get characters", "error", err)
		return nil, err
	}
	return characters, nil
}

func (r *GORMRepository) GetCharacter(ctx context.Context, characterID string) (*models.Character, error) {
	var character models.Character
	err := r.db.WithContext(ctx).Where("id = ?", characterID).First(&character).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get character", "error", err, "character_id", characterID)
		return nil, err
	}
	return &character, nil
}

// Interview type catalog operations
func (r *GORMRepository) CreateInterviewType(ctx context.Context, interviewType *models.InterviewType) error {
	if err := r.db.WithContext(ctx).Create(interviewType).Error; err != nil {
		slog.Error("Failed to create interview type", "error", err)
		return err
	}
	slog.Info("Interview type created", "interview_type_id", interviewType.ID, "name", interviewType.Name)
	return nil
}

func (r *GORMRepository) GetInterviewTypes(ctx context.Context) ([]models.InterviewType, error) {
	var types []models.InterviewType
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&types).Error; err != nil {
		slog.Error("Failed to get interview types", "error", err)
		return nil, err
	}
	return types, nil
}

func (r *GORMRepository) GetInterviewType(ctx context.Context, typeID string) (*models.InterviewType, error) {
	var interviewType models.InterviewType
	err := r.db.WithContext(ctx).Where("id = ?", typeID).First(&interviewType).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get interview type", "error", err, "interview_type_id", typeID)
		return nil, err
	}
	return &interviewType, nil
}

// Interview session operations
func (r *GORMRepository) CreateInterviewSession(ctx context.Context, session *models.InterviewSession) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		slog.Error("Failed to create interview session", "error", err)
		return err
	}
	slog.Info("Interview session created", "session_id", session.ID, "user_id", session.UserID)
	return nil
}

func (r *GORMRepository) GetInterviewSession(ctx context.Context, sessionID string) (*models.InterviewSession, error) {
	var session models.InterviewSession
	err := r.db.WithContext(ctx).Where("id = ?", sessionID).First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get interview session", "error", err, "session_id", sessionID)
		return nil, err
	}
	return &session, nil
}

func (r *GORMRepository) GetInterviewSessions(ctx context.Context, userID string) ([]models.InterviewSession, error) {
	var sessions []models.InterviewSession
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Character").
		Preload("InterviewType").
		Order("started_at DESC").
		Find(&sessions).Error
	if err != nil {
		slog.Error("Failed to get interview sessions", "error", err, "user_id", userID)
		return nil, err
	}
	return sessions, nil
}

func (r *GORMRepository) GetInterviewSessionWithDetails(ctx context.Context, sessionID string, userID string) (*models.InterviewSession, error) {
	var session models.InterviewSession
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID, userID).
		Preload("Character").
		Preload("InterviewType").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("messages.turn_order")
		}).
		Preload("Summary").
		First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get interview session with details", "error", err, "session_id", sessionID, "user_id", userID)
		return nil, err
	}
	return &session, nil
}

func (r *GORMRepository) UpdateInterviewSession(ctx context.Context, session *models.InterviewSession) error {
	if err := r.db.WithContext(ctx).Save(session).Error; err != nil {
		slog.Error("Failed to update interview session", "error", err, "session_id", session.ID)
		return err
	}
	return nil
}

func (r *GORMRepository) DeleteInterviewSession(ctx context.Context, sessionID string) error {
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&models.Message{}).Error; err != nil {
		slog.Error("Failed to delete session messages", "error", err, "session_id", sessionID)
		return err
	}
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&models.SessionSummary{}).Error; err != nil {
		slog.Error("Failed to delete session summary", "error", err, "session_id", sessionID)
		return err
	}
	if err := r.db.WithContext(ctx).Where("id = ?", sessionID).Delete(&models.InterviewSession{}).Error; err != nil {
		slog.Error("Failed to delete interview session", "error", err, "session_id", sessionID)
		return err
	}
	slog.Info("Interview session deleted", "session_id", sessionID)
	return nil
}
