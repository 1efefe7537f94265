package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User account types
const (
	UserTypeIndividual = "individual"
	UserTypeCompany    = "company"
	UserTypeAdmin      = "admin"
)

// User represents a user account in the system
type User struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Authentication fields
	Email         string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash  string `gorm:"not null" json:"-"`
	EmailVerified bool   `gorm:"default:false" json:"email_verified"`

	// Google OAuth fields
	GoogleID       *string `gorm:"uniqueIndex" json:"google_id,omitempty"`
	GoogleImageURL *string `json:"google_image_url,omitempty"`

	// Profile information
	Name      *string `json:"name,omitempty"`
	Headline  *string `json:"headline,omitempty"`
	Location  *string `json:"location,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Timezone  string  `gorm:"default:'UTC'" json:"timezone"`

	// Account status and type
	UserType     string `gorm:"default:'individual'" json:"user_type"` // individual, company, admin
	IsActive     bool   `gorm:"default:true" json:"is_active"`
	TokenVersion int    `gorm:"default:0" json:"-"`

	// Relations
	TeamMemberships    []TeamMember    `gorm:"foreignKey:UserID" json:"team_memberships,omitempty"`
	CompanyMemberships []CompanyMember `gorm:"foreignKey:UserID" json:"company_memberships,omitempty"`
	RefreshTokens      []RefreshToken  `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// RefreshToken stores issued refresh tokens so sessions can be revoked
type RefreshToken struct {
	gorm.Model
	UserID    string     `gorm:"type:uuid;not null;index" json:"user_id"`
	Token     string     `gorm:"not null;uniqueIndex" json:"-"`
	UserAgent string     `json:"user_agent"`
	IPAddress string     `json:"ip_address"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`

	// Relations
	User User `json:"-"`
}
