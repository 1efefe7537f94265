package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"liftout/visibility"
)

// CompanyStore answers company affiliation lookups from Postgres.
type CompanyStore struct {
	db *gorm.DB
}

func NewCompanyStore(db *gorm.DB) *CompanyStore {
	return &CompanyStore{db: db}
}

func (s *CompanyStore) FindCompanyMembership(ctx context.Context, userID string) (*visibility.CompanyMembership, error) {
	var row struct {
		CompanyID          string
		VerificationStatus string
	}
	err := s.db.WithContext(ctx).
		Table("company_members").
		Select("company_members.company_id, companies.verification_status").
		Joins("JOIN companies ON companies.id = company_members.company_id").
		Where("company_members.user_id = ? AND company_members.deleted_at IS NULL AND companies.deleted_at IS NULL", userID).
		Order("company_members.created_at").
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &visibility.CompanyMembership{
		CompanyID:          row.CompanyID,
		VerificationStatus: row.VerificationStatus,
	}, nil
}
