package controller

import (
	"log"
	"strings"

	"liftout/models"
	"liftout/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type VerificationController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewVerificationController(db *gorm.DB, logger *log.Logger) *VerificationController {
	return &VerificationController{
		DB:     db,
		Logger: logger,
	}
}

type SubmitVerificationRequest struct {
	WorkEmail string `json:"work_email" validate:"required,email"`
}

// SubmitVerification queues a company for domain verification. The
// submitted work email must share a domain with the company website;
// the verification worker performs the MX and whois checks
func (vc *VerificationController) SubmitVerification(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	companyID := c.Params("id")

	var company models.Company
	if err := vc.DB.First(&company, "id = ?", companyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Company not found",
		})
	}

	var membership int64
	vc.DB.Model(&models.CompanyMember{}).
		Where("company_id = ? AND user_id = ?", company.ID, user.ID).
		Count(&membership)
	if membership == 0 && company.CreatedBy != user.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You do not have permission to verify this company",
		})
	}

	if company.VerificationStatus == models.VerificationVerified {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Company is already verified",
		})
	}

	var input SubmitVerificationRequest
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := utils.ValidateStruct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if company.Website != "" && !emailMatchesWebsite(input.WorkEmail, company.Website) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Work email domain must match the company website",
		})
	}

	updates := map[string]interface{}{
		"verification_status": models.VerificationPending,
		"verification_email":  strings.ToLower(input.WorkEmail),
		"verification_error":  "",
	}
	if err := vc.DB.Model(&company).Updates(updates).Error; err != nil {
		LogError("verification_submit_failed", err, map[string]interface{}{
			"company_id": company.ID,
		})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to submit verification",
		})
	}

	LogEvent("verification_submitted", map[string]interface{}{
		"company_id": company.ID,
	})

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Verification submitted and pending review",
		"status":  models.VerificationPending,
	})
}

// GetVerificationStatus reports the current verification state
func (vc *VerificationController) GetVerificationStatus(c *fiber.Ctx) error {
	companyID := c.Params("id")

	var company models.Company
	if err := vc.DB.Select("id", "verification_status", "verification_error", "verified_at").
		First(&company, "id = ?", companyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Company not found",
		})
	}

	resp := fiber.Map{
		"company_id": company.ID,
		"status":     company.VerificationStatus,
	}
	if company.VerificationError != "" {
		resp["error"] = company.VerificationError
	}
	if company.VerifiedAt != nil {
		resp["verified_at"] = company.VerifiedAt
	}

	return c.JSON(resp)
}

func emailMatchesWebsite(email, website string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	emailDomain := strings.ToLower(email[at+1:])

	host := strings.ToLower(website)
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	host = strings.TrimPrefix(host, "www.")
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}

	return emailDomain == host || strings.HasSuffix(host, "."+emailDomain)
}
