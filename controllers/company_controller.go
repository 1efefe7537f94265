package controller

import (
	"errors"
	"log"

	"liftout/models"
	"liftout/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CompanyController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewCompanyController(db *gorm.DB, logger *log.Logger) *CompanyController {
	return &CompanyController{
		DB:     db,
		Logger: logger,
	}
}

type CreateCompanyRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=150"`
	Website     string `json:"website" validate:"omitempty,url"`
	Description string `json:"description" validate:"max=2000"`
	Industry    string `json:"industry" validate:"max=100"`
	Location    string `json:"location" validate:"max=200"`
}

type UpdateCompanyRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=150"`
	Website     *string `json:"website" validate:"omitempty,url"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Industry    *string `json:"industry" validate:"omitempty,max=100"`
	Location    *string `json:"location" validate:"omitempty,max=200"`
}

type AddCompanyMemberRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Role   string `json:"role" validate:"omitempty,oneof=owner recruiter member"`
	Title  string `json:"title" validate:"max=150"`
}

// CreateCompany registers a new company with the creator as its owner.
// The company starts unverified; verification happens separately
func (cc *CompanyController) CreateCompany(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input CreateCompanyRequest
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

	company := models.Company{
		Name:               input.Name,
		Website:            input.Website,
		Description:        input.Description,
		Industry:           input.Industry,
		Location:           input.Location,
		VerificationStatus: models.VerificationUnverified,
		CreatedBy:          user.ID,
	}

	tx := cc.DB.Begin()

	if err := tx.Create(&company).Error; err != nil {
		tx.Rollback()
		LogError("company_create_failed", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create company",
		})
	}

	owner := models.CompanyMember{
		CompanyID: company.ID,
		UserID:    user.ID,
		Role:      "owner",
	}

	if err := tx.Create(&owner).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create company",
		})
	}

	tx.Commit()

	LogEvent("company_created", map[string]interface{}{
		"company_id": company.ID,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Company created successfully",
		"company": company,
	})
}

// GetCompany returns a company profile
func (cc *CompanyController) GetCompany(c *fiber.Ctx) error {
	companyID := c.Params("id")

	var company models.Company
	if err := cc.DB.Preload("Members").First(&company, "id = ?", companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Company not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch company",
		})
	}

	return c.JSON(fiber.Map{
		"company": company,
	})
}

// GetMyCompanies lists companies the current user belongs to
func (cc *CompanyController) GetMyCompanies(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var companies []models.Company
	if err := cc.DB.
		Joins("JOIN company_members ON company_members.company_id = companies.id").
		Where("company_members.user_id = ? AND company_members.deleted_at IS NULL", user.ID).
		Find(&companies).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch companies",
		})
	}

	return c.JSON(fiber.Map{
		"companies": companies,
	})
}

// UpdateCompany updates company profile fields. Owner role required
func (cc *CompanyController) UpdateCompany(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	companyID := c.Params("id")

	company, ok := cc.requireOwner(c, companyID, user.ID)
	if !ok {
		return nil
	}

	var input UpdateCompanyRequest
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

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Website != nil {
		updates["website"] = *input.Website
		// website changes invalidate any prior domain verification
		if company.VerificationStatus == models.VerificationVerified {
			updates["verification_status"] = models.VerificationUnverified
			updates["verified_at"] = nil
		}
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Industry != nil {
		updates["industry"] = *input.Industry
	}
	if input.Location != nil {
		updates["location"] = *input.Location
	}

	if len(updates) == 0 {
		return c.JSON(fiber.Map{"company": company})
	}

	if err := cc.DB.Model(company).Updates(updates).Error; err != nil {
		LogError("company_update_failed", err, map[string]interface{}{
			"company_id": company.ID,
		})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update company",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Company updated successfully",
		"company": company,
	})
}

// AddMember attaches a user account to the company
func (cc *CompanyController) AddMember(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	companyID := c.Params("id")

	company, ok := cc.requireOwner(c, companyID, user.ID)
	if !ok {
		return nil
	}

	var input AddCompanyMemberRequest
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

	var existing int64
	cc.DB.Model(&models.CompanyMember{}).
		Where("company_id = ? AND user_id = ?", company.ID, input.UserID).
		Count(&existing)
	if existing > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "User is already a member of this company",
		})
	}

	role := input.Role
	if role == "" {
		role = "member"
	}

	member := models.CompanyMember{
		CompanyID: company.ID,
		UserID:    input.UserID,
		Role:      role,
		Title:     input.Title,
	}

	if err := cc.DB.Create(&member).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add company member",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Member added successfully",
		"member":  member,
	})
}

// RemoveMember detaches a user from the company
func (cc *CompanyController) RemoveMember(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	companyID := c.Params("id")
	memberID := c.Params("memberId")

	company, ok := cc.requireOwner(c, companyID, user.ID)
	if !ok {
		return nil
	}

	var member models.CompanyMember
	if err := cc.DB.First(&member, "id = ? AND company_id = ?", memberID, company.ID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Company member not found",
		})
	}

	if member.UserID == company.CreatedBy {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "The company owner cannot be removed",
		})
	}

	if err := cc.DB.Delete(&member).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to remove company member",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Member removed successfully",
	})
}

// requireOwner loads the company and checks the user is its creator or
// holds the owner role
func (cc *CompanyController) requireOwner(c *fiber.Ctx, companyID, userID string) (*models.Company, bool) {
	var company models.Company
	if err := cc.DB.First(&company, "id = ?", companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Company not found",
			})
			return nil, false
		}
		c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch company",
		})
		return nil, false
	}

	if company.CreatedBy == userID {
		return &company, true
	}

	var count int64
	cc.DB.Model(&models.CompanyMember{}).
		Where("company_id = ? AND user_id = ? AND role = ?", company.ID, userID, "owner").
		Count(&count)
	if count > 0 {
		return &company, true
	}

	c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"error": "You do not have permission to manage this company",
	})
	return nil, false
}
