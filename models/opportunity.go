package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Opportunity statuses
const (
	OpportunityOpen   = "open"
	OpportunityPaused = "paused"
	OpportunityClosed = "closed"
)

// Expression-of-interest statuses
const (
	InterestPending   = "pending"
	InterestAccepted  = "accepted"
	InterestDeclined  = "declined"
	InterestWithdrawn = "withdrawn"
)

// Opportunity is a company's listing looking to hire an intact team
type Opportunity struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CompanyID string `gorm:"type:uuid;not null;index" json:"company_id"`

	Title        string `gorm:"not null" json:"title"`
	Description  string `gorm:"type:text" json:"description"`
	Location     string `json:"location"`
	TeamSizeMin  int    `gorm:"default:2" json:"team_size_min"`
	TeamSizeMax  int    `gorm:"default:0" json:"team_size_max"` // 0 means no upper bound
	Compensation string `json:"compensation"`
	Status       string `gorm:"default:'open';index" json:"status"` // open, paused, closed

	CreatedBy string `gorm:"type:uuid;not null" json:"created_by"`

	// Relations
	Company   Company                `json:"company,omitempty"`
	Interests []ExpressionOfInterest `gorm:"foreignKey:OpportunityID" json:"interests,omitempty"`
}

func (o *Opportunity) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// ExpressionOfInterest records a company reaching out to a team about an opportunity
type ExpressionOfInterest struct {
	gorm.Model
	OpportunityID string `gorm:"type:uuid;not null;index" json:"opportunity_id"`
	CompanyID     string `gorm:"type:uuid;not null;index" json:"company_id"`
	TeamID        string `gorm:"type:uuid;not null;index" json:"team_id"`

	Message string `gorm:"type:text" json:"message"`
	Status  string `gorm:"default:'pending';index" json:"status"` // pending, accepted, declined, withdrawn

	SentBy string `gorm:"type:uuid;not null" json:"sent_by"`

	// Relations
	Opportunity Opportunity `json:"-"`
	Company     Company     `json:"-"`
	Team        Team        `json:"-"`
}
