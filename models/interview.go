package models

import (
	"time"

	"gorm.io/gorm"
)

// Session lifecycle states. A session moves in_progress -> summary_pending ->
// completed, or to summary_failed when the feedback response cannot be
// parsed. Retry returns any post-start state to in_progress with a fresh
// transcript.
const (
	SessionStatusReady          = "ready"
	SessionStatusInProgress     = "in_progress"
	SessionStatusSummaryPending = "summary_pending"
	SessionStatusSummaryFailed  = "summary_failed"
	SessionStatusCompleted      = "completed"
	SessionStatusAbandoned      = "abandoned"
)

// Speaker kinds for transcript messages.
const (
	SpeakerUser        = "user"
	SpeakerInterviewer = "interviewer"
)

// DefaultTotalQuestions is the fixed number of interviewer/user exchanges
// before feedback is requested.
const DefaultTotalQuestions = 5

// InterviewSession records one interview attempt, linking a user, a character
// and an interview type. CurrentQuestion is 1-based and never exceeds
// TotalQuestions + 1 (completion triggers summary generation, not a further turn).
type InterviewSession struct {
	ID              string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID          string         `gorm:"type:uuid;not null;index" json:"user_id"`
	CharacterID     string         `gorm:"size:50;not null;index" json:"character_id"`
	InterviewTypeID string         `gorm:"size:50;not null;index" json:"interview_type_id"`
	Status          string         `gorm:"not null;default:'ready';check:status IN ('ready', 'in_progress', 'summary_pending', 'summary_failed', 'completed', 'abandoned')" json:"status"`
	CurrentQuestion int            `gorm:"not null;default:1" json:"current_question"`
	TotalQuestions  int            `gorm:"not null;default:5" json:"total_questions"`
	StartedAt       time.Time      `gorm:"not null" json:"started_at"`
	EndedAt         *time.Time     `json:"ended_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User          User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Character     Character       `gorm:"foreignKey:CharacterID" json:"character,omitempty"`
	InterviewType InterviewType   `gorm:"foreignKey:InterviewTypeID" json:"interview_type,omitempty"`
	Messages      []Message       `gorm:"foreignKey:SessionID" json:"messages,omitempty"`
	Summary       *SessionSummary `gorm:"foreignKey:SessionID" json:"summary,omitempty"`
}

// Message is one turn of the session transcript. Messages are append-only and
// never mutated after creation; retry clears a session's messages wholesale.
// CharacterID is set if and only if Speaker is "interviewer", so each message
// keeps the persona that was active when it was created.
type Message struct {
	ID          string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SessionID   string         `gorm:"type:uuid;not null;index" json:"session_id"`
	TurnOrder   int            `gorm:"not null" json:"turn_order"`
	Speaker     string         `gorm:"not null;check:speaker IN ('user', 'interviewer')" json:"speaker"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	CharacterID *string        `gorm:"size:50;index" json:"character_id,omitempty"`
	HasAudio    bool           `gorm:"default:false" json:"has_audio"`
	AudioFile   *string        `gorm:"size:1000" json:"audio_file,omitempty"`
	Timestamp   time.Time      `gorm:"not null" json:"timestamp"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Session   InterviewSession `gorm:"foreignKey:SessionID" json:"session,omitempty"`
	Character *Character       `gorm:"foreignKey:CharacterID" json:"character,omitempty"`
}

// SessionSummary stores the final scored feedback report. Created once, after
// the feedback response parses successfully; immutable thereafter.
type SessionSummary struct {
	ID                string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SessionID         string         `gorm:"type:uuid;not null;uniqueIndex" json:"session_id"`
	Score             float64        `gorm:"type:decimal(4,2);not null" json:"score"` // 0.00 to 10.00
	Strengths         []string       `gorm:"serializer:json;type:text" json:"strengths"`
	Improvements      []string       `gorm:"serializer:json;type:text" json:"improvements"`
	Duration          string         `gorm:"size:100" json:"duration"`
	QuestionsAnswered int            `json:"questions_answered"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Session InterviewSession `gorm:"foreignKey:SessionID" json:"session,omitempty"`
}
