package controller

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"liftout/models"
	"liftout/utils"
	"liftout/visibility"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ConversationController struct {
	DB     *gorm.DB
	Engine *visibility.Engine
	Logger *log.Logger
}

func NewConversationController(db *gorm.DB, engine *visibility.Engine, logger *log.Logger) *ConversationController {
	return &ConversationController{
		DB:     db,
		Engine: engine,
		Logger: logger,
	}
}

type SendMessageRequest struct {
	Body string `json:"body" validate:"required,min=1,max=5000"`
}

// GetConversations lists the current user's threads, both the ones they
// started company-side and the ones their teams are in
func (cv *ConversationController) GetConversations(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var conversations []models.Conversation
	if err := cv.DB.
		Where("user_id = ?", user.ID).
		Or("team_id IN (?)", cv.DB.Model(&models.TeamMember{}).
			Select("team_id").
			Where("user_id = ? AND status = ?", user.ID, models.MemberStatusActive)).
		Order("last_message_at DESC NULLS LAST, created_at DESC").
		Find(&conversations).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch conversations",
		})
	}

	return c.JSON(fiber.Map{
		"conversations": conversations,
	})
}

// GetConversation returns a thread with its messages. For the
// company-side participant the team stays anonymized until the NDA gate
// has been accepted
func (cv *ConversationController) GetConversation(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	conversationID := c.Params("id")

	conversation, role, ok := cv.requireParticipant(c, conversationID, user.ID)
	if !ok {
		return nil
	}

	var team models.Team
	if err := cv.DB.Preload("Members", "status = ?", models.MemberStatusActive).
		First(&team, "id = ?", conversation.TeamID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch conversation",
		})
	}

	var messages []models.Message
	if err := cv.DB.Where("conversation_id = ?", conversation.ID).
		Order("created_at ASC").Find(&messages).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch conversation",
		})
	}

	resp := fiber.Map{
		"conversation": conversation,
		"messages":     messages,
	}

	if role == participantCompany {
		nda, err := cv.Engine.RequiresNDAAcceptance(c.Context(), &team, user.ID)
		if err != nil {
			LogError("nda_status_failed", err, map[string]interface{}{
				"conversation_id": conversation.ID,
			})
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to fetch conversation",
			})
		}

		resp["nda"] = nda
		if nda.Required && !nda.Accepted {
			resp["team"] = cv.Engine.AnonymizeTeam(&team)
		} else {
			resp["team"] = team
		}
	} else {
		resp["team"] = team
	}

	return c.JSON(resp)
}

// SendMessage appends a message to a thread the user participates in
func (cv *ConversationController) SendMessage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	conversationID := c.Params("id")

	conversation, role, ok := cv.requireParticipant(c, conversationID, user.ID)
	if !ok {
		return nil
	}

	var input SendMessageRequest
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

	message := models.Message{
		ConversationID: conversation.ID,
		SenderID:       user.ID,
		Body:           input.Body,
	}

	tx := cv.DB.Begin()

	if err := tx.Create(&message).Error; err != nil {
		tx.Rollback()
		LogError("message_send_failed", err, map[string]interface{}{
			"conversation_id": conversation.ID,
		})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to send message",
		})
	}

	now := time.Now()
	if err := tx.Model(conversation).Update("last_message_at", now).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to send message",
		})
	}

	if err := cv.queueMessageNotification(tx, conversation, role, user); err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to send message",
		})
	}

	tx.Commit()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": message,
	})
}

// AcceptNDA records the company-side participant's acceptance of the
// team's disclosure terms, unlocking the full team profile in this thread
func (cv *ConversationController) AcceptNDA(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	conversationID := c.Params("id")

	conversation, role, ok := cv.requireParticipant(c, conversationID, user.ID)
	if !ok {
		return nil
	}

	if role != participantCompany {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the company participant accepts disclosure terms",
		})
	}

	if err := cv.Engine.AcceptNDA(c.Context(), conversation.ID, user.ID); err != nil {
		LogError("nda_accept_failed", err, map[string]interface{}{
			"conversation_id": conversation.ID,
			"user_id":         user.ID,
		})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record acceptance",
		})
	}

	LogEvent("nda_accepted", map[string]interface{}{
		"conversation_id": conversation.ID,
		"user_id":         user.ID,
	})

	return c.JSON(fiber.Map{
		"message": "Disclosure terms accepted",
		"nda":     visibility.NDAStatus{Required: true, Accepted: true},
	})
}

type participantRole int

const (
	participantCompany participantRole = iota
	participantTeam
)

// requireParticipant loads the conversation and determines which side of
// it the user is on, writing the error response itself on denial
func (cv *ConversationController) requireParticipant(c *fiber.Ctx, conversationID, userID string) (*models.Conversation, participantRole, bool) {
	var conversation models.Conversation
	if err := cv.DB.First(&conversation, "id = ?", conversationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Conversation not found",
			})
			return nil, 0, false
		}
		c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch conversation",
		})
		return nil, 0, false
	}

	if conversation.UserID == userID {
		return &conversation, participantCompany, true
	}

	var membership int64
	cv.DB.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ? AND status = ?",
			conversation.TeamID, userID, models.MemberStatusActive).
		Count(&membership)
	if membership > 0 {
		return &conversation, participantTeam, true
	}

	c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"error": "You are not a participant in this conversation",
	})
	return nil, 0, false
}

// queueMessageNotification notifies the other side of the thread
func (cv *ConversationController) queueMessageNotification(tx *gorm.DB, conversation *models.Conversation, senderRole participantRole, sender *models.User) error {
	if senderRole == participantTeam {
		// team member wrote: notify the company-side user. The sender is
		// named as the team, anonymized when the team hides its identity
		var team models.Team
		if err := tx.First(&team, "id = ?", conversation.TeamID).Error; err != nil {
			return err
		}
		senderName := team.Name
		if team.Visibility == models.VisibilityAnonymous || team.IsAnonymous {
			senderName = cv.Engine.AnonymizeTeam(&team).Name
		}

		// keys match the template fields in utils/mailer.go
		payload, _ := json.Marshal(map[string]string{
			"SenderName": senderName,
		})

		var recipient models.User
		if err := tx.First(&recipient, "id = ?", conversation.UserID).Error; err != nil {
			return err
		}
		return tx.Create(&models.Notification{
			UserID:  recipient.ID,
			Email:   recipient.Email,
			Kind:    "new_message",
			Subject: "You have a new message",
			Payload: string(payload),
		}).Error
	}

	// company side wrote: notify active team members except the sender
	senderName := "A company representative"
	if sender.Name != nil && *sender.Name != "" {
		senderName = *sender.Name
	}
	payload, _ := json.Marshal(map[string]string{
		"SenderName": senderName,
	})

	var members []models.TeamMember
	if err := tx.Where("team_id = ? AND status = ? AND user_id <> ?",
		conversation.TeamID, models.MemberStatusActive, sender.ID).
		Find(&members).Error; err != nil {
		return err
	}

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

		if err := tx.Create(&models.Notification{
			UserID:  member.UserID,
			Email:   email,
			Kind:    "new_message",
			Subject: "You have a new message",
			Payload: string(payload),
		}).Error; err != nil {
			return err
		}
	}

	return nil
}
