package controller

import (
	"encoding/json"
	"log"

	"liftout/models"
	"liftout/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type InterestController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewInterestController(db *gorm.DB, logger *log.Logger) *InterestController {
	return &InterestController{
		DB:     db,
		Logger: logger,
	}
}

type ExpressInterestRequest struct {
	OpportunityID string `json:"opportunity_id" validate:"required,uuid"`
	TeamID        string `json:"team_id" validate:"required,uuid"`
	Message       string `json:"message" validate:"max=2000"`
}

type RespondInterestRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted declined"`
}

// ExpressInterest lets a company-side user reach out to a team about an
// opportunity. Acceptance by the team opens a conversation
func (ic *InterestController) ExpressInterest(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input ExpressInterestRequest
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

	var opportunity models.Opportunity
	if err := ic.DB.First(&opportunity, "id = ?", input.OpportunityID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Opportunity not found",
		})
	}

	if opportunity.Status != models.OpportunityOpen {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Opportunity is not open",
		})
	}

	var membership int64
	ic.DB.Model(&models.CompanyMember{}).
		Where("company_id = ? AND user_id = ?", opportunity.CompanyID, user.ID).
		Count(&membership)
	if membership == 0 {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You must belong to the posting company to express interest",
		})
	}

	var team models.Team
	if err := ic.DB.First(&team, "id = ?", input.TeamID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Team not found",
		})
	}

	// a team that blocked this company never learns about the interest
	for _, blocked := range team.BlockedCompanies {
		if blocked == opportunity.CompanyID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "This team's profile is not available",
			})
		}
	}

	var existing int64
	ic.DB.Model(&models.ExpressionOfInterest{}).
		Where("opportunity_id = ? AND team_id = ? AND status IN ?",
			input.OpportunityID, input.TeamID,
			[]string{models.InterestPending, models.InterestAccepted}).
		Count(&existing)
	if existing > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Interest has already been expressed for this team",
		})
	}

	interest := models.ExpressionOfInterest{
		OpportunityID: input.OpportunityID,
		CompanyID:     opportunity.CompanyID,
		TeamID:        input.TeamID,
		Message:       input.Message,
		Status:        models.InterestPending,
		SentBy:        user.ID,
	}

	tx := ic.DB.Begin()

	if err := tx.Create(&interest).Error; err != nil {
		tx.Rollback()
		LogError("interest_create_failed", err, map[string]interface{}{
			"opportunity_id": input.OpportunityID,
			"team_id":        input.TeamID,
		})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to express interest",
		})
	}

	if err := ic.queueInterestNotifications(tx, &team, &opportunity); err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to express interest",
		})
	}

	tx.Commit()

	LogEvent("interest_expressed", map[string]interface{}{
		"interest_id":    interest.ID,
		"opportunity_id": input.OpportunityID,
		"team_id":        input.TeamID,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Interest expressed successfully",
		"interest": interest,
	})
}

// GetTeamInterests lists interests received by a team the user belongs to
func (ic *InterestController) GetTeamInterests(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	teamID := c.Params("id")

	var membership int64
	ic.DB.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ? AND status = ?", teamID, user.ID, models.MemberStatusActive).
		Count(&membership)
	if membership == 0 {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You are not a member of this team",
		})
	}

	var interests []models.ExpressionOfInterest
	if err := ic.DB.Where("team_id = ?", teamID).
		Order("created_at DESC").Find(&interests).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch interests",
		})
	}

	return c.JSON(fiber.Map{
		"interests": interests,
	})
}

// RespondToInterest lets a team member accept or decline an interest.
// Acceptance opens a conversation with the company user who sent it
func (ic *InterestController) RespondToInterest(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	interestID := c.Params("id")

	var input RespondInterestRequest
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

	var interest models.ExpressionOfInterest
	if err := ic.DB.First(&interest, "id = ?", interestID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Interest not found",
		})
	}

	var membership int64
	ic.DB.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ? AND status = ?", interest.TeamID, user.ID, models.MemberStatusActive).
		Count(&membership)
	if membership == 0 {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You are not a member of this team",
		})
	}

	if interest.Status != models.InterestPending {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Interest has already been responded to",
		})
	}

	tx := ic.DB.Begin()

	if err := tx.Model(&interest).Update("status", input.Status).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to respond to interest",
		})
	}

	var conversation *models.Conversation
	if input.Status == models.InterestAccepted {
		conversation = &models.Conversation{
			TeamID:        interest.TeamID,
			UserID:        interest.SentBy,
			OpportunityID: &interest.OpportunityID,
		}

		// reuse an existing thread between the same pair if one exists
		var existing models.Conversation
		err := tx.Where("team_id = ? AND user_id = ?", interest.TeamID, interest.SentBy).
			First(&existing).Error
		if err == nil {
			conversation = &existing
		} else if err := tx.Create(conversation).Error; err != nil {
			tx.Rollback()
			LogError("conversation_create_failed", err, map[string]interface{}{
				"interest_id": interest.ID,
			})
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to respond to interest",
			})
		}
	}

	tx.Commit()

	resp := fiber.Map{
		"message":  "Interest " + input.Status,
		"interest": interest,
	}
	if conversation != nil {
		resp["conversation"] = conversation
	}

	return c.JSON(resp)
}

// WithdrawInterest lets the company side withdraw a pending interest
func (ic *InterestController) WithdrawInterest(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	interestID := c.Params("id")

	var interest models.ExpressionOfInterest
	if err := ic.DB.First(&interest, "id = ?", interestID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Interest not found",
		})
	}

	var membership int64
	ic.DB.Model(&models.CompanyMember{}).
		Where("company_id = ? AND user_id = ?", interest.CompanyID, user.ID).
		Count(&membership)
	if membership == 0 {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You do not have permission to withdraw this interest",
		})
	}

	if interest.Status != models.InterestPending {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Only pending interests can be withdrawn",
		})
	}

	if err := ic.DB.Model(&interest).Update("status", models.InterestWithdrawn).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to withdraw interest",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Interest withdrawn successfully",
	})
}

// queueInterestNotifications queues an email for every active team member
// with a contact address or linked account
func (ic *InterestController) queueInterestNotifications(tx *gorm.DB, team *models.Team, opportunity *models.Opportunity) error {
	var members []models.TeamMember
	if err := tx.Where("team_id = ? AND status = ?", team.ID, models.MemberStatusActive).
		Find(&members).Error; err != nil {
		return err
	}

	var company models.Company
	if err := tx.First(&company, "id = ?", opportunity.CompanyID).Error; err != nil {
		return err
	}

	// keys match the template fields in utils/mailer.go
	payload, _ := json.Marshal(map[string]string{
		"CompanyName":      company.Name,
		"OpportunityTitle": opportunity.Title,
	})

	for _, member := range members {
		email := member.ContactEmail
		if email == "" && member.UserID != "" {
			var u models.User
			if err := tx.First(&u, "id = ?", member.UserID).Error; err == nil {
				email = u.Email
			}
		}
		if email == "" {
			continue
		}

		notification := models.Notification{
			UserID:  member.UserID,
			Email:   email,
			Kind:    "interest_received",
			Subject: "A company has expressed interest in your team",
			Payload: string(payload),
		}
		if err := tx.Create(&notification).Error; err != nil {
			return err
		}
	}

	return nil
}
