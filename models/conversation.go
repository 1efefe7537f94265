package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation is a messaging thread between a team and a company-side user
type Conversation struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	TeamID string `gorm:"type:uuid;not null;index:idx_conversations_team_user" json:"team_id"`
	UserID string `gorm:"type:uuid;not null;index:idx_conversations_team_user" json:"user_id"`

	// Optional link back to the opportunity that started the thread
	OpportunityID *string `gorm:"type:uuid;index" json:"opportunity_id,omitempty"`

	LastMessageAt *time.Time `json:"last_message_at,omitempty"`

	// Relations
	Team     Team      `json:"-"`
	User     User      `json:"-"`
	Messages []Message `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`
}

func (cv *Conversation) BeforeCreate(tx *gorm.DB) error {
	if cv.ID == "" {
		cv.ID = uuid.NewString()
	}
	return nil
}

// Message is a single message inside a conversation
type Message struct {
	gorm.Model
	ConversationID string `gorm:"type:uuid;not null;index" json:"conversation_id"`
	SenderID       string `gorm:"type:uuid;not null" json:"sender_id"`

	Body   string     `gorm:"type:text;not null" json:"body"`
	ReadAt *time.Time `json:"read_at,omitempty"`

	// Relations
	Conversation Conversation `json:"-"`
}

// ConsentRecord tracks NDA acceptance per (conversation, user). Rows are only
// ever inserted, never updated or deleted; the composite unique index makes the
// upsert in store.ConsentStore idempotent and preserves the original timestamp.
type ConsentRecord struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID string    `gorm:"type:uuid;not null;uniqueIndex:idx_consent_conversation_user" json:"conversation_id"`
	UserID         string    `gorm:"type:uuid;not null;uniqueIndex:idx_consent_conversation_user" json:"user_id"`
	AcceptedAt     time.Time `gorm:"not null" json:"accepted_at"`
}

// Notification is an outbound email queued for the notification worker
type Notification struct {
	gorm.Model
	UserID  string `gorm:"type:uuid;not null;index" json:"user_id"`
	Email   string `gorm:"not null" json:"email"`
	Kind    string `gorm:"not null" json:"kind"` // interest_received, new_message, company_verified
	Subject string `gorm:"not null" json:"subject"`
	Payload string `gorm:"type:jsonb;default:'{}'" json:"payload"`

	SentAt    *time.Time `gorm:"index" json:"sent_at,omitempty"`
	LastError string     `json:"last_error,omitempty"`
}
