package store

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"liftout/models"
)

// ConsentStore persists NDA acceptances as first-class rows keyed by
// (conversation_id, user_id).
type ConsentStore struct {
	db *gorm.DB
}

func NewConsentStore(db *gorm.DB) *ConsentStore {
	return &ConsentStore{db: db}
}

func (s *ConsentStore) HasAccepted(ctx context.Context, conversationID, userID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.ConsentRecord{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Record inserts the acceptance if it is not already present. The conditional
// insert runs as a single statement against the composite unique index, so
// concurrent acceptances by different users on the same conversation cannot
// lose each other's rows, and a repeat call keeps the original timestamp.
func (s *ConsentStore) Record(ctx context.Context, conversationID, userID string) error {
	record := models.ConsentRecord{
		ConversationID: conversationID,
		UserID:         userID,
		AcceptedAt:     time.Now().UTC(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "conversation_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&record).Error
}
