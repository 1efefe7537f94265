package worker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"liftout/models"
	"liftout/utils"

	"gorm.io/gorm"
)

// VerificationWorker processes companies waiting for domain verification
type VerificationWorker struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewVerificationWorker(db *gorm.DB, logger *log.Logger) *VerificationWorker {
	return &VerificationWorker{
		DB:     db,
		Logger: logger,
	}
}

func (vw *VerificationWorker) Start(ctx context.Context) {
	// Initial delay to let the server start up
	time.Sleep(10 * time.Second)

	vw.Logger.Println("Verification worker started")

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			vw.Logger.Println("Verification worker shutting down...")
			return
		case <-ticker.C:
			vw.processPendingVerifications()
		}
	}
}

func (vw *VerificationWorker) processPendingVerifications() {
	var companies []models.Company
	if err := vw.DB.Where("verification_status = ?", models.VerificationPending).
		Limit(20).Find(&companies).Error; err != nil {
		vw.Logger.Printf("Error fetching pending verifications: %v", err)
		return
	}

	for _, company := range companies {
		if err := vw.verifyCompany(company); err != nil {
			vw.Logger.Printf("Error verifying company %s: %v", company.ID, err)
		}
	}
}

func (vw *VerificationWorker) verifyCompany(company models.Company) error {
	result, err := utils.VerifyCompanyDomain(company.VerificationEmail)
	if err != nil {
		return vw.DB.Model(&company).Updates(map[string]interface{}{
			"verification_status": models.VerificationFailed,
			"verification_error":  err.Error(),
		}).Error
	}

	if result.Status != "valid" {
		vw.Logger.Printf("Company %s failed domain verification: %s", company.ID, result.Details)
		return vw.DB.Model(&company).Updates(map[string]interface{}{
			"verification_status": models.VerificationFailed,
			"verification_error":  result.Details,
		}).Error
	}

	now := time.Now()
	if err := vw.DB.Model(&company).Updates(map[string]interface{}{
		"verification_status": models.VerificationVerified,
		"verification_error":  "",
		"verified_at":         now,
	}).Error; err != nil {
		return err
	}

	vw.Logger.Printf("Company %s verified", company.ID)
	return vw.queueVerifiedNotification(company)
}

func (vw *VerificationWorker) queueVerifiedNotification(company models.Company) error {
	var owner models.User
	if err := vw.DB.First(&owner, "id = ?", company.CreatedBy).Error; err != nil {
		return err
	}

	// keys match the template fields in utils/mailer.go
	payload, _ := json.Marshal(map[string]string{
		"CompanyName": company.Name,
	})

	return vw.DB.Create(&models.Notification{
		UserID:  owner.ID,
		Email:   owner.Email,
		Kind:    "company_verified",
		Subject: "Your company has been verified",
		Payload: string(payload),
	}).Error
}
