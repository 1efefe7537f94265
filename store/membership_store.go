// Package store provides the GORM-backed implementations of the visibility
// engine's storage ports.
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"liftout/models"
)

// MembershipStore answers team roster lookups from Postgres.
type MembershipStore struct {
	db *gorm.DB
}

func NewMembershipStore(db *gorm.DB) *MembershipStore {
	return &MembershipStore{db: db}
}

func (s *MembershipStore) FindActiveMembership(ctx context.Context, teamID, userID string) (*models.TeamMember, error) {
	var member models.TeamMember
	err := s.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ? AND status = ?", teamID, userID, models.MemberStatusActive).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}
