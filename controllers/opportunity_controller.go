package controller

import (
	"errors"
	"log"

	"liftout/models"
	"liftout/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type OpportunityController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewOpportunityController(db *gorm.DB, logger *log.Logger) *OpportunityController {
	return &OpportunityController{
		DB:     db,
		Logger: logger,
	}
}

type CreateOpportunityRequest struct {
	CompanyID    string `json:"company_id" validate:"required,uuid"`
	Title        string `json:"title" validate:"required,min=3,max=150"`
	Description  string `json:"description" validate:"max=5000"`
	Location     string `json:"location" validate:"max=200"`
	TeamSizeMin  int    `json:"team_size_min" validate:"omitempty,min=1"`
	TeamSizeMax  int    `json:"team_size_max" validate:"omitempty,min=0"`
	Compensation string `json:"compensation" validate:"max=500"`
}

type UpdateOpportunityRequest struct {
	Title        *string `json:"title" validate:"omitempty,min=3,max=150"`
	Description  *string `json:"description" validate:"omitempty,max=5000"`
	Location     *string `json:"location" validate:"omitempty,max=200"`
	TeamSizeMin  *int    `json:"team_size_min" validate:"omitempty,min=1"`
	TeamSizeMax  *int    `json:"team_size_max" validate:"omitempty,min=0"`
	Compensation *string `json:"compensation" validate:"omitempty,max=500"`
	Status       *string `json:"status" validate:"omitempty,oneof=open paused closed"`
}

// CreateOpportunity posts a new team-hiring listing. Only members of a
// verified company can post
func (oc *OpportunityController) CreateOpportunity(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input CreateOpportunityRequest
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

	if input.TeamSizeMax > 0 && input.TeamSizeMax < input.TeamSizeMin {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "team_size_max must not be smaller than team_size_min",
		})
	}

	var company models.Company
	if err := oc.DB.First(&company, "id = ?", input.CompanyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Company not found",
		})
	}

	if !oc.isCompanyMember(company.ID, user.ID) && company.CreatedBy != user.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You do not have permission to post for this company",
		})
	}

	if company.VerificationStatus != models.VerificationVerified {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Company must be verified before posting opportunities",
		})
	}

	sizeMin := input.TeamSizeMin
	if sizeMin == 0 {
		sizeMin = 2
	}

	opportunity := models.Opportunity{
		CompanyID:    company.ID,
		Title:        input.Title,
		Description:  input.Description,
		Location:     input.Location,
		TeamSizeMin:  sizeMin,
		TeamSizeMax:  input.TeamSizeMax,
		Compensation: input.Compensation,
		Status:       models.OpportunityOpen,
		CreatedBy:    user.ID,
	}

	if err := oc.DB.Create(&opportunity).Error; err != nil {
		LogError("opportunity_create_failed", err, map[string]interface{}{
			"company_id": company.ID,
		})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create opportunity",
		})
	}

	LogEvent("opportunity_created", map[string]interface{}{
		"opportunity_id": opportunity.ID,
		"company_id":     company.ID,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Opportunity created successfully",
		"opportunity": opportunity,
	})
}

// GetOpportunities lists open opportunities with optional filters
func (oc *OpportunityController) GetOpportunities(c *fiber.Ctx) error {
	page := utils.ParseInt(c.Query("page"), 1)
	limit := utils.ParseInt(c.Query("limit"), 20)
	if limit > 100 {
		limit = 100
	}

	query := oc.DB.Preload("Company").Where("status = ?", models.OpportunityOpen)

	if location := c.Query("location"); location != "" {
		query = query.Where("location ILIKE ?", "%"+location+"%")
	}
	if companyID := c.Query("company_id"); companyID != "" {
		query = query.Where("company_id = ?", companyID)
	}
	if size := utils.ParseInt(c.Query("team_size"), 0); size > 0 {
		query = query.Where("team_size_min <= ? AND (team_size_max = 0 OR team_size_max >= ?)", size, size)
	}

	var total int64
	query.Model(&models.Opportunity{}).Count(&total)

	var opportunities []models.Opportunity
	if err := query.Offset((page - 1) * limit).Limit(limit).
		Order("created_at DESC").Find(&opportunities).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch opportunities",
		})
	}

	return c.JSON(utils.PaginatedResponse{
		Data:  opportunities,
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// GetOpportunity returns a single listing
func (oc *OpportunityController) GetOpportunity(c *fiber.Ctx) error {
	opportunityID := c.Params("id")

	var opportunity models.Opportunity
	if err := oc.DB.Preload("Company").First(&opportunity, "id = ?", opportunityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Opportunity not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch opportunity",
		})
	}

	return c.JSON(fiber.Map{
		"opportunity": opportunity,
	})
}

// UpdateOpportunity edits a listing
func (oc *OpportunityController) UpdateOpportunity(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	opportunityID := c.Params("id")

	var opportunity models.Opportunity
	if err := oc.DB.First(&opportunity, "id = ?", opportunityID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Opportunity not found",
		})
	}

	if opportunity.CreatedBy != user.ID && !oc.isCompanyMember(opportunity.CompanyID, user.ID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You do not have permission to edit this opportunity",
		})
	}

	var input UpdateOpportunityRequest
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
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Location != nil {
		updates["location"] = *input.Location
	}
	if input.TeamSizeMin != nil {
		updates["team_size_min"] = *input.TeamSizeMin
	}
	if input.TeamSizeMax != nil {
		updates["team_size_max"] = *input.TeamSizeMax
	}
	if input.Compensation != nil {
		updates["compensation"] = *input.Compensation
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}

	if len(updates) == 0 {
		return c.JSON(fiber.Map{"opportunity": opportunity})
	}

	if err := oc.DB.Model(&opportunity).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update opportunity",
		})
	}

	return c.JSON(fiber.Map{
		"message":     "Opportunity updated successfully",
		"opportunity": opportunity,
	})
}

// DeleteOpportunity closes and soft-deletes a listing
func (oc *OpportunityController) DeleteOpportunity(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	opportunityID := c.Params("id")

	var opportunity models.Opportunity
	if err := oc.DB.First(&opportunity, "id = ?", opportunityID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Opportunity not found",
		})
	}

	if opportunity.CreatedBy != user.ID && !oc.isCompanyMember(opportunity.CompanyID, user.ID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You do not have permission to delete this opportunity",
		})
	}

	if err := oc.DB.Delete(&opportunity).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete opportunity",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Opportunity deleted successfully",
	})
}

func (oc *OpportunityController) isCompanyMember(companyID, userID string) bool {
	var count int64
	oc.DB.Model(&models.CompanyMember{}).
		Where("company_id = ? AND user_id = ?", companyID, userID).
		Count(&count)
	return count > 0
}
