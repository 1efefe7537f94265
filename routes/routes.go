package routes

import (
	"log"
	"os"

	controller "liftout/controllers"
	"liftout/middleware"
	"liftout/store"
	"liftout/visibility"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	// Initialize logger
	authLogger := log.New(os.Stdout, "AUTH: ", log.Ldate|log.Ltime|log.Lshortfile)

	// Auth routes group with logging middleware
	auth := app.Group("/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Public auth endpoints (no authentication required)
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)
	auth.Post("/refresh", controller.RefreshToken)

	// Google OAuth routes
	auth.Get("/google", controller.GoogleOAuth)
	auth.Get("/google/callback", controller.GoogleOAuthCallback)

	// Protected auth endpoints (require valid JWT)
	protectedAuth := auth.Group("", middleware.Protected())
	protectedAuth.Post("/logout", controller.Logout)
	protectedAuth.Post("/change-password", controller.ChangePassword)
	protectedAuth.Get("/me", controller.GetCurrentUser)

	authLogger.Println("Authentication routes initialized successfully")
}

func SetupAPIRoutes(app *fiber.App, db *gorm.DB, engine *visibility.Engine) {
	// Initialize controllers with their respective loggers
	teamController := controller.NewTeamController(db, engine, log.New(os.Stdout, "TEAM: ", log.LstdFlags))
	companyController := controller.NewCompanyController(db, log.New(os.Stdout, "COMPANY: ", log.LstdFlags))
	verificationController := controller.NewVerificationController(db, log.New(os.Stdout, "VERIFY: ", log.LstdFlags))
	opportunityController := controller.NewOpportunityController(db, log.New(os.Stdout, "OPPORTUNITY: ", log.LstdFlags))
	interestController := controller.NewInterestController(db, log.New(os.Stdout, "INTEREST: ", log.LstdFlags))
	conversationController := controller.NewConversationController(db, engine, log.New(os.Stdout, "CONVERSATION: ", log.LstdFlags))

	// API group with versioning and protection
	api := app.Group("/api/v1", middleware.Protected(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Team routes; browse endpoints carry the rate limiter
	team := api.Group("/teams")
	team.Post("/", teamController.CreateTeam)
	team.Get("/", middleware.BrowseRateLimiter(), teamController.GetTeams)
	team.Get("/:id", middleware.BrowseRateLimiter(), teamController.GetTeam)
	team.Put("/:id", teamController.UpdateTeam)
	team.Delete("/:id", teamController.DeleteTeam)
	team.Post("/:id/members", teamController.AddMember)
	team.Delete("/:id/members/:memberId", teamController.RemoveMember)
	team.Put("/:id/settings", teamController.UpdateVisibilitySettings)
	team.Post("/:id/blocked-companies", teamController.BlockCompany)
	team.Delete("/:id/blocked-companies/:companyId", teamController.UnblockCompany)
	team.Get("/:id/interests", interestController.GetTeamInterests)

	// Company routes
	company := api.Group("/companies")
	company.Post("/", companyController.CreateCompany)
	company.Get("/mine", companyController.GetMyCompanies)
	company.Get("/:id", companyController.GetCompany)
	company.Put("/:id", companyController.UpdateCompany)
	company.Post("/:id/members", companyController.AddMember)
	company.Delete("/:id/members/:memberId", companyController.RemoveMember)
	company.Post("/:id/verification", verificationController.SubmitVerification)
	company.Get("/:id/verification", verificationController.GetVerificationStatus)

	// Opportunity routes
	opportunity := api.Group("/opportunities")
	opportunity.Post("/", opportunityController.CreateOpportunity)
	opportunity.Get("/", middleware.BrowseRateLimiter(), opportunityController.GetOpportunities)
	opportunity.Get("/:id", opportunityController.GetOpportunity)
	opportunity.Put("/:id", opportunityController.UpdateOpportunity)
	opportunity.Delete("/:id", opportunityController.DeleteOpportunity)

	// Interest routes
	interest := api.Group("/interests")
	interest.Post("/", interestController.ExpressInterest)
	interest.Post("/:id/respond", interestController.RespondToInterest)
	interest.Post("/:id/withdraw", interestController.WithdrawInterest)

	// Conversation routes
	conversation := api.Group("/conversations")
	conversation.Get("/", conversationController.GetConversations)
	conversation.Get("/:id", conversationController.GetConversation)
	conversation.Post("/:id/messages", conversationController.SendMessage)
	conversation.Post("/:id/accept-nda", conversationController.AcceptNDA)

	log.Println("API routes initialized successfully")
}

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Initialize Google OAuth config
	controller.InitGoogleOAuth()

	// The visibility engine shared by team and conversation controllers
	engine := visibility.NewEngine(
		store.NewMembershipStore(db),
		store.NewCompanyStore(db),
		store.NewConversationStore(db),
		store.NewConsentStore(db),
		nil,
		log.New(os.Stdout, "VISIBILITY: ", log.LstdFlags),
	)

	// Setup health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Setup auth routes
	SetupAuthRoutes(app, db)

	// Setup API routes
	SetupAPIRoutes(app, db, engine)

	// Setup 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}
