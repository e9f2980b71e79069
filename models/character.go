package models

import (
	"time"

	"gorm.io/gorm"
)

// Character represents an interviewer persona. Characters are seeded from
// static configuration and selected (not created) by users at session start.
type Character struct {
	ID          string         `gorm:"primaryKey;size:50" json:"id"` // stable slug, e.g. "jane"
	Name        string         `gorm:"not null" json:"name"`
	Role        string         `gorm:"size:100;not null" json:"role"`
	Avatar      string         `gorm:"size:500" json:"avatar"`
	Description string         `gorm:"type:text" json:"description"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	InterviewSessions []InterviewSession `gorm:"foreignKey:CharacterID" json:"interview_sessions,omitempty"`
}

// InterviewType represents an interview category (technical, behavioral,
// case-study). Statically defined and seeded, selected by the user.
type InterviewType struct {
	ID          string         `gorm:"primaryKey;size:50" json:"id"` // stable slug, e.g. "technical"
	Name        string         `gorm:"not null" json:"name"`
	Icon        string         `gorm:"size:50" json:"icon"`
	Description string         `gorm:"type:text" json:"description"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	InterviewSessions []InterviewSession `gorm:"foreignKey:InterviewTypeID" json:"interview_sessions,omitempty"`
}
