package controller

import (
	"context"
	"errors"
	"log"

	"liftout/middleware"
	"liftout/models"
	"liftout/utils"
	"liftout/visibility"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type TeamController struct {
	DB     *gorm.DB
	Engine *visibility.Engine
	Logger *log.Logger
}

func NewTeamController(db *gorm.DB, engine *visibility.Engine, logger *log.Logger) *TeamController {
	return &TeamController{
		DB:     db,
		Engine: engine,
		Logger: logger,
	}
}

type CreateTeamRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=2000"`
	Location    string `json:"location" validate:"max=200"`
	Industry    string `json:"industry" validate:"max=100"`
	Visibility  string `json:"visibility" validate:"omitempty,oneof=public private anonymous"`
}

type UpdateTeamRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Location    *string `json:"location" validate:"omitempty,max=200"`
	Industry    *string `json:"industry" validate:"omitempty,max=100"`
	Visibility  *string `json:"visibility" validate:"omitempty,oneof=public private anonymous"`
	IsAnonymous *bool   `json:"is_anonymous"`
}

type AddMemberRequest struct {
	UserID          string `json:"user_id" validate:"omitempty,uuid"`
	Name            string `json:"name" validate:"required,min=2,max=100"`
	Role            string `json:"role" validate:"max=100"`
	Title           string `json:"title" validate:"max=150"`
	Bio             string `json:"bio" validate:"max=2000"`
	ContactEmail    string `json:"contact_email" validate:"omitempty,email"`
	PhotoURL        string `json:"photo_url" validate:"omitempty,url"`
	YearsExperience int    `json:"years_experience" validate:"min=0,max=60"`
	IsLead          bool   `json:"is_lead"`
}

type UpdateSettingsRequest struct {
	HideCurrentEmployer *bool `json:"hide_current_employer"`
	HideEducation       *bool `json:"hide_education"`
	AllowDiscovery      *bool `json:"allow_discovery"`
}

type BlockCompanyRequest struct {
	CompanyID string `json:"company_id" validate:"required,uuid"`
}

// CreateTeam creates a new team owned by the current user, with the
// creator added as the first active lead member
func (tc *TeamController) CreateTeam(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input CreateTeamRequest
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

	vis := input.Visibility
	if vis == "" {
		vis = models.VisibilityPublic
	}

	team := models.Team{
		Name:        input.Name,
		Description: input.Description,
		Location:    input.Location,
		Industry:    input.Industry,
		Visibility:  vis,
		IsAnonymous: vis == models.VisibilityAnonymous,
		CreatedBy:   user.ID,
	}

	tx := tc.DB.Begin()

	if err := tx.Create(&team).Error; err != nil {
		tx.Rollback()
		LogError("team_create_failed", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create team",
		})
	}

	creatorName := user.Email
	if user.Name != nil && *user.Name != "" {
		creatorName = *user.Name
	}

	creator := models.TeamMember{
		TeamID: team.ID,
		UserID: user.ID,
		Name:   creatorName,
		IsLead: true,
		Status: models.MemberStatusActive,
	}

	if err := tx.Create(&creator).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create team",
		})
	}

	tx.Commit()

	LogEvent("team_created", map[string]interface{}{
		"team_id":    team.ID,
		"visibility": team.Visibility,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Team created successfully",
		"team":    team,
	})
}

// GetTeams lists discoverable teams. Public teams are returned as-is,
// anonymous teams are returned as anonymized projections, private teams
// never appear here
func (tc *TeamController) GetTeams(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	viewerType := middleware.ViewerTypeOf(user)

	page := utils.ParseInt(c.Query("page"), 1)
	perPage := utils.ParseInt(c.Query("per_page"), 20)
	if perPage > 100 {
		perPage = 100
	}

	query := tc.DB.Preload("Members", "status = ?", models.MemberStatusActive).
		Where("visibility IN ?", []string{models.VisibilityPublic, models.VisibilityAnonymous})

	if industry := c.Query("industry"); industry != "" {
		query = query.Where("industry = ?", industry)
	}
	if location := c.Query("location"); location != "" {
		query = query.Where("location ILIKE ?", "%"+location+"%")
	}

	var total int64
	query.Model(&models.Team{}).Count(&total)

	var teams []models.Team
	if err := query.Offset((page - 1) * perPage).Limit(perPage).
		Order("created_at DESC").Find(&teams).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch teams",
		})
	}

	results, err := browseTeamResults(c.Context(), tc.Engine, teams, user.ID, viewerType)
	if err != nil {
		LogError("team_browse_decision_failed", err, map[string]interface{}{
			"viewer_id": user.ID,
		})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch teams",
		})
	}

	return c.JSON(utils.PaginatedResponse{
		Data:  results,
		Page:  page,
		Limit: perPage,
		Total: total,
	})
}

// browseTeamResults filters a page of teams through the visibility engine:
// undiscoverable and denied teams are omitted, anonymous-display teams become
// projections. A storage error during any decision fails the whole listing
func browseTeamResults(ctx context.Context, engine *visibility.Engine, teams []models.Team, viewerID string, viewerType visibility.ViewerType) ([]interface{}, error) {
	results := make([]interface{}, 0, len(teams))
	for i := range teams {
		settings := visibility.ParseVisibilitySettings([]byte(teams[i].Settings))
		if !settings.AllowDiscovery {
			continue
		}

		decision, err := engine.CanViewTeam(ctx, &teams[i], viewerID, viewerType)
		if err != nil {
			return nil, err
		}
		if !decision.CanView {
			continue
		}

		if decision.ShowAnonymous {
			results = append(results, engine.AnonymizeTeam(&teams[i]))
		} else {
			results = append(results, teams[i])
		}
	}
	return results, nil
}

// GetTeam returns a single team profile, anonymized when the viewer is
// only entitled to the anonymous projection
func (tc *TeamController) GetTeam(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	viewerType := middleware.ViewerTypeOf(user)
	teamID := c.Params("id")

	var team models.Team
	if err := tc.DB.Preload("Members", "status = ?", models.MemberStatusActive).
		First(&team, "id = ?", teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Team not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch team",
		})
	}

	decision, err := tc.Engine.CanViewTeam(c.Context(), &team, user.ID, viewerType)
	if err != nil {
		LogError("team_view_decision_failed", err, map[string]interface{}{
			"team_id":   team.ID,
			"viewer_id": user.ID,
		})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch team",
		})
	}

	if !decision.CanView {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": decision.Reason,
		})
	}

	if decision.ShowAnonymous {
		return c.JSON(fiber.Map{
			"team": tc.Engine.AnonymizeTeam(&team),
		})
	}

	return c.JSON(fiber.Map{
		"team": team,
	})
}

// UpdateTeam updates team profile fields. Only the creator or a team
// admin may update
func (tc *TeamController) UpdateTeam(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	teamID := c.Params("id")

	team, ok := tc.requireManageAccess(c, teamID, user.ID)
	if !ok {
		return nil
	}

	var input UpdateTeamRequest
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
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Location != nil {
		updates["location"] = *input.Location
	}
	if input.Industry != nil {
		updates["industry"] = *input.Industry
	}
	if input.Visibility != nil {
		updates["visibility"] = *input.Visibility
		// anonymous mode always anonymizes; the flag can also be set
		// independently for public teams
		if *input.Visibility == models.VisibilityAnonymous {
			updates["is_anonymous"] = true
		}
	}
	if input.IsAnonymous != nil {
		updates["is_anonymous"] = *input.IsAnonymous
	}

	if len(updates) == 0 {
		return c.JSON(fiber.Map{"team": team})
	}

	if err := tc.DB.Model(team).Updates(updates).Error; err != nil {
		LogError("team_update_failed", err, map[string]interface{}{
			"team_id": team.ID,
		})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update team",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Team updated successfully",
		"team":    team,
	})
}

// DeleteTeam soft-deletes a team. Creator only
func (tc *TeamController) DeleteTeam(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	teamID := c.Params("id")

	var team models.Team
	if err := tc.DB.First(&team, "id = ?", teamID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Team not found",
		})
	}

	if team.CreatedBy != user.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the team creator can delete the team",
		})
	}

	if err := tc.DB.Delete(&team).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete team",
		})
	}

	LogEvent("team_deleted", map[string]interface{}{
		"team_id": team.ID,
	})

	return c.JSON(fiber.Map{
		"message": "Team deleted successfully",
	})
}

// AddMember adds a member to the team roster
func (tc *TeamController) AddMember(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	teamID := c.Params("id")

	team, ok := tc.requireManageAccess(c, teamID, user.ID)
	if !ok {
		return nil
	}

	var input AddMemberRequest
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

	status := models.MemberStatusActive
	if input.UserID != "" && input.UserID != user.ID {
		// members with their own account confirm before going active
		status = models.MemberStatusInvited
	}

	member := models.TeamMember{
		TeamID:          team.ID,
		UserID:          input.UserID,
		Name:            input.Name,
		Role:            input.Role,
		Title:           input.Title,
		Bio:             input.Bio,
		ContactEmail:    input.ContactEmail,
		PhotoURL:        input.PhotoURL,
		YearsExperience: input.YearsExperience,
		IsLead:          input.IsLead,
		Status:          status,
	}

	if err := tc.DB.Create(&member).Error; err != nil {
		LogError("team_member_add_failed", err, map[string]interface{}{
			"team_id": team.ID,
		})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add team member",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Member added successfully",
		"member":  member,
	})
}

// RemoveMember marks a roster member as removed
func (tc *TeamController) RemoveMember(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	teamID := c.Params("id")
	memberID := c.Params("memberId")

	team, ok := tc.requireManageAccess(c, teamID, user.ID)
	if !ok {
		return nil
	}

	var member models.TeamMember
	if err := tc.DB.First(&member, "id = ? AND team_id = ?", memberID, team.ID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Team member not found",
		})
	}

	if err := tc.DB.Model(&member).Update("status", models.MemberStatusRemoved).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to remove team member",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Member removed successfully",
	})
}

// UpdateVisibilitySettings merges the submitted settings into the
// team's settings blob
func (tc *TeamController) UpdateVisibilitySettings(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	teamID := c.Params("id")

	team, ok := tc.requireManageAccess(c, teamID, user.ID)
	if !ok {
		return nil
	}

	var input UpdateSettingsRequest
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	settings := visibility.ParseVisibilitySettings([]byte(team.Settings))
	if input.HideCurrentEmployer != nil {
		settings.HideCurrentEmployer = *input.HideCurrentEmployer
	}
	if input.HideEducation != nil {
		settings.HideEducation = *input.HideEducation
	}
	if input.AllowDiscovery != nil {
		settings.AllowDiscovery = *input.AllowDiscovery
	}

	raw, err := visibility.EncodeVisibilitySettings(settings)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update settings",
		})
	}

	if err := tc.DB.Model(team).Update("settings", string(raw)).Error; err != nil {
		LogError("team_settings_update_failed", err, map[string]interface{}{
			"team_id": team.ID,
		})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update settings",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Settings updated successfully",
		"settings": settings,
	})
}

// BlockCompany adds a company to the team's blocked list so its users
// never see the team's profile, anonymized or not
func (tc *TeamController) BlockCompany(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	teamID := c.Params("id")

	team, ok := tc.requireManageAccess(c, teamID, user.ID)
	if !ok {
		return nil
	}

	var input BlockCompanyRequest
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

	for _, id := range team.BlockedCompanies {
		if id == input.CompanyID {
			return c.JSON(fiber.Map{
				"message":           "Company blocked successfully",
				"blocked_companies": team.BlockedCompanies,
			})
		}
	}

	team.BlockedCompanies = append(team.BlockedCompanies, input.CompanyID)
	if err := tc.DB.Model(team).Update("blocked_companies", team.BlockedCompanies).Error; err != nil {
		LogError("team_block_company_failed", err, map[string]interface{}{
			"team_id":    team.ID,
			"company_id": input.CompanyID,
		})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to block company",
		})
	}

	LogEvent("company_blocked", map[string]interface{}{
		"team_id":    team.ID,
		"company_id": input.CompanyID,
	})

	return c.JSON(fiber.Map{
		"message":           "Company blocked successfully",
		"blocked_companies": team.BlockedCompanies,
	})
}

// UnblockCompany removes a company from the team's blocked list
func (tc *TeamController) UnblockCompany(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	teamID := c.Params("id")
	companyID := c.Params("companyId")

	team, ok := tc.requireManageAccess(c, teamID, user.ID)
	if !ok {
		return nil
	}

	filtered := make([]string, 0, len(team.BlockedCompanies))
	for _, id := range team.BlockedCompanies {
		if id != companyID {
			filtered = append(filtered, id)
		}
	}

	team.BlockedCompanies = filtered
	if err := tc.DB.Model(team).Update("blocked_companies", team.BlockedCompanies).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to unblock company",
		})
	}

	return c.JSON(fiber.Map{
		"message":           "Company unblocked successfully",
		"blocked_companies": team.BlockedCompanies,
	})
}

// requireManageAccess loads the team and verifies the user is its
// creator or an active admin member, writing the error response itself
// when access is denied
func (tc *TeamController) requireManageAccess(c *fiber.Ctx, teamID, userID string) (*models.Team, bool) {
	var team models.Team
	if err := tc.DB.First(&team, "id = ?", teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Team not found",
			})
			return nil, false
		}
		c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch team",
		})
		return nil, false
	}

	if team.CreatedBy == userID {
		return &team, true
	}

	var count int64
	tc.DB.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ? AND status = ? AND is_admin = ?",
			team.ID, userID, models.MemberStatusActive, true).
		Count(&count)
	if count > 0 {
		return &team, true
	}

	c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"error": "You do not have permission to manage this team",
	})
	return nil, false
}
