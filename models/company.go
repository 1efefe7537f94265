package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company verification statuses
const (
	VerificationUnverified = "unverified"
	VerificationPending    = "pending"
	VerificationVerified   = "verified"
	VerificationFailed     = "failed"
)

// Company represents an employer entity that posts opportunities
type Company struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string `gorm:"not null" json:"name"`
	Website     string `json:"website"`
	Description string `gorm:"type:text" json:"description"`
	Industry    string `json:"industry"`
	Location    string `json:"location"`

	// Verification workflow state
	VerificationStatus string     `gorm:"default:'unverified';index" json:"verification_status"`
	VerificationEmail  string     `json:"verification_email"`
	VerificationError  string     `json:"verification_error,omitempty"`
	VerifiedAt         *time.Time `json:"verified_at,omitempty"`

	CreatedBy string `gorm:"type:uuid;not null;index" json:"created_by"`

	// Relations
	Members       []CompanyMember `gorm:"foreignKey:CompanyID" json:"members,omitempty"`
	Opportunities []Opportunity   `gorm:"foreignKey:CompanyID" json:"opportunities,omitempty"`
}

func (co *Company) BeforeCreate(tx *gorm.DB) error {
	if co.ID == "" {
		co.ID = uuid.NewString()
	}
	return nil
}

// CompanyMember links a user account to a company
type CompanyMember struct {
	gorm.Model
	CompanyID string `gorm:"type:uuid;not null;index" json:"company_id"`
	UserID    string `gorm:"type:uuid;not null;index" json:"user_id"`

	Role  string `gorm:"default:'member'" json:"role"` // owner, recruiter, member
	Title string `json:"title"`

	// Relations
	Company Company `json:"-"`
	User    User    `json:"-"`
}
