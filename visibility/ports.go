// Package visibility decides whether a viewer may see a team's profile, in
// what form, and whether a conversation with an anonymous team may reveal the
// team's identity. The engine is stateless; all storage access goes through
// the ports below so route handlers and tests can supply their own backends.
package visibility

import (
	"context"

	"liftout/models"
)

// CompanyMembership is the company store's answer for a user's affiliation.
type CompanyMembership struct {
	CompanyID          string
	VerificationStatus string
}

// MembershipStore looks up team rosters.
type MembershipStore interface {
	// FindActiveMembership returns the user's active membership on the team,
	// or (nil, nil) when there is none.
	FindActiveMembership(ctx context.Context, teamID, userID string) (*models.TeamMember, error)
}

// CompanyStore looks up a user's company affiliation.
type CompanyStore interface {
	// FindCompanyMembership returns the user's company affiliation, or
	// (nil, nil) when the user belongs to no company.
	FindCompanyMembership(ctx context.Context, userID string) (*CompanyMembership, error)
}

// ConversationStore looks up messaging threads.
type ConversationStore interface {
	// FindByTeamAndUser returns the first conversation between the team and
	// the user, or (nil, nil) when none exists yet.
	FindByTeamAndUser(ctx context.Context, teamID, userID string) (*models.Conversation, error)
}

// ConsentStore tracks NDA acceptance per (conversation, user).
type ConsentStore interface {
	HasAccepted(ctx context.Context, conversationID, userID string) (bool, error)
	// Record must be an atomic, idempotent insert: calling it twice for the
	// same pair leaves exactly one record and keeps the original timestamp.
	Record(ctx context.Context, conversationID, userID string) error
}
