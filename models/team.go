package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Team visibility modes
const (
	VisibilityPublic    = "public"
	VisibilityPrivate   = "private"
	VisibilityAnonymous = "anonymous"
)

// Team member statuses
const (
	MemberStatusActive  = "active"
	MemberStatusInvited = "invited"
	MemberStatusRemoved = "removed"
)

// Team represents a group of professionals marketing themselves as a unit
type Team struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Location    string `json:"location"`
	Industry    string `json:"industry"`

	// Visibility controls. Visibility sets default discoverability; IsAnonymous is
	// an independent opt-in under which even a public team is displayed masked.
	Visibility  string `gorm:"default:'public'" json:"visibility"` // public, private, anonymous
	IsAnonymous bool   `gorm:"default:false" json:"is_anonymous"`

	// Company ids this team has opted to hide itself from
	BlockedCompanies []string `gorm:"type:text[]" json:"blocked_companies,omitempty"`

	// Free-form visibility settings blob, parsed by visibility.ParseVisibilitySettings
	Settings string `gorm:"type:jsonb;default:'{}'" json:"settings"`

	CreatedBy string `gorm:"type:uuid;not null;index" json:"created_by"`

	// Relations
	Members []TeamMember `gorm:"foreignKey:TeamID" json:"members,omitempty"`
	Creator User         `gorm:"foreignKey:CreatedBy" json:"-"`
}

func (t *Team) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// TeamMember represents a person on a team roster
type TeamMember struct {
	gorm.Model
	TeamID string `gorm:"type:uuid;not null;index" json:"team_id"`
	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`

	Name            string `gorm:"not null" json:"name"`
	Role            string `gorm:"default:'member'" json:"role"` // owner, admin, member
	Title           string `json:"title"`
	Bio             string `gorm:"type:text" json:"bio"`
	PhotoURL        string `json:"photo_url"`
	ContactEmail    string `json:"contact_email"`
	YearsExperience int    `gorm:"default:0" json:"years_experience"`
	IsLead          bool   `gorm:"default:false" json:"is_lead"`
	IsAdmin         bool   `gorm:"default:false" json:"is_admin"`
	Status          string `gorm:"default:'active';index" json:"status"` // active, invited, removed

	// Relations
	Team Team `json:"-"`
	User User `json:"-"`
}
