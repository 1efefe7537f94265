package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"liftout/models"
)

// ConversationStore answers messaging-thread lookups from Postgres.
type ConversationStore struct {
	db *gorm.DB
}

func NewConversationStore(db *gorm.DB) *ConversationStore {
	return &ConversationStore{db: db}
}

func (s *ConversationStore) FindByTeamAndUser(ctx context.Context, teamID, userID string) (*models.Conversation, error) {
	var conversation models.Conversation
	err := s.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Order("created_at").
		First(&conversation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}
