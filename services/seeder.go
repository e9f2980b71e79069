package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samosa1610/murfAI/models"
	"github.com/samosa1610/murfAI/repository"
	"golang.org/x/crypto/bcrypt"
)

// DatabaseSeeder handles database seeding operations
type DatabaseSeeder struct {
	repo *repository.GORMRepository
}

// NewDatabaseSeeder creates a new database seeder
func NewDatabaseSeeder(repo *repository.GORMRepository) *DatabaseSeeder {
	return &DatabaseSeeder{repo: repo}
}

// SeedDatabase seeds the database with initial data (idempotent)
func (s *DatabaseSeeder) SeedDatabase() error {
	ctx := context.Background()

	// Hash default password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// Create test users (no admin users for security)
	users := []models.User{
		{
			Email:    "test@example.com",
			Password: string(hashedPassword),
			FullName: "Test User",
			Role:     "user",
		},
		{
			Email:    "demo@example.com",
			Password: string(hashedPassword),
			FullName: "Demo User",
			Role:     "user",
		},
	}

	for _, user := range users {
		if err := s.seedUser(ctx, user); err != nil {
			slog.Error("Failed to seed user", "email", user.Email, "error", err)
		}
	}

	characters := []models.Character{
		{
			ID:          "jane",
			Name:        "Jane Doe",
			Role:        "Tech Lead",
			Avatar:      "/placeholder.svg?height=48&width=48",
			Description: "Experienced frontend architect with 8+ years at top tech companies",
			IsActive:    true,
		},
		{
			ID:          "mike",
			Name:        "Mike Chen",
			Role:        "HR Manager",
			Avatar:      "/placeholder.svg?height=48&width=48",
			Description: "People-focused leader specializing in behavioral interviews",
			IsActive:    true,
		},
		{
			ID:          "sarah",
			Name:        "Sarah Wilson",
			Role:        "Product Manager",
			Avatar:      "/placeholder.svg?height=48&width=48",
			Description: "Strategic thinker with expertise in case study interviews",
			IsActive:    true,
		},
	}

	for _, character := range characters {
		if err := s.seedCharacter(ctx, character); err != nil {
			slog.Error("Failed to seed character", "id", character.ID, "error", err)
		}
	}

	interviewTypes := []models.InterviewType{
		{
			ID:          "technical",
			Name:        "Technical",
			Icon:        "💻",
			Description: "Coding challenges and system design",
			IsActive:    true,
		},
		{
			ID:          "behavioral",
			Name:        "Behavioral",
			Icon:        "🤝",
			Description: "Situational and experience-based questions",
			IsActive:    true,
		},
		{
			ID:          "case-study",
			Name:        "Case Study",
			Icon:        "📊",
			Description: "Problem-solving and analytical thinking",
			IsActive:    true,
		},
	}

	for _, interviewType := range interviewTypes {
		if err := s.seedInterviewType(ctx, interviewType); err != nil {
			slog.Error("Failed to seed interview type", "id", interviewType.ID, "error", err)
		}
	}

	slog.Info("Database seeding completed successfully")
	return nil
}

// seedUser seeds a single user (idempotent)
func (s *DatabaseSeeder) seedUser(ctx context.Context, user models.User) error {
	existingUser, err := s.repo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return fmt.Errorf("error checking user %s: %w", user.Email, err)
	}

	if existingUser != nil {
		slog.Info("User already exists, skipping", "email", user.Email)
		return nil
	}

	if err := s.repo.CreateUser(ctx, &user); err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.Email, err)
	}

	slog.Info("Created user", "email", user.Email)
	return nil
}

// seedCharacter seeds a single interviewer character (idempotent)
func (s *DatabaseSeeder) seedCharacter(ctx context.Context, character models.Character) error {
	existing, err := s.repo.GetCharacter(ctx, character.ID)
	if err != nil {
		return fmt.Errorf("error checking character %s: %w", character.ID, err)
	}

	if existing != nil {
		slog.Info("Character already exists, skipping", "id", character.ID)
		return nil
	}

	if err := s.repo.CreateCharacter(ctx, &character); err != nil {
		return fmt.Errorf("failed to create character %s: %w", character.ID, err)
	}

	slog.Info("Created character", "id", character.ID, "name", character.Name)
	return nil
}

// seedInterviewType seeds a single interview type (idempotent)
func (s *DatabaseSeeder) seedInterviewType(ctx context.Context, interviewType models.InterviewType) error {
	existing, err := s.repo.GetInterviewType(ctx, interviewType.ID)
	if err != nil {
		return fmt.Errorf("error checking interview type %s: %w", interviewType.ID, err)
	}

	if existing != nil {
		slog.Info("Interview type already exists, skipping", "id", interviewType.ID)
		return nil
	}

	if err := s.repo.CreateInterviewType(ctx, &interviewType); err != nil {
		return fmt.Errorf("failed to create interview type %s: %w", interviewType.ID, err)
	}

	slog.Info("Created interview type", "id", interviewType.ID, "name", interviewType.Name)
	return nil
}
