package routes

import (
	"prestaclick/internal/adapters/http/handlers"
	"prestaclick/internal/adapters/http/middleware"
	"prestaclick/internal/adapters/persistence/repositories"
	"prestaclick/internal/config"
	"prestaclick/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Repositories
	staffRepo := repositories.NewStaffRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	appRepo := repositories.NewApplicationRepository(db)
	historyRepo := repositories.NewHistoryRepository(db)
	personRepo := repositories.NewPersonRepository(db)
	companyRepo := repositories.NewCompanyRepository(db)
	docRepo := repositories.NewDocumentRepository(db)
	workflowStore := repositories.NewWorkflowStore(db)

	// Services
	notifyService := services.NewNotificationService()
	authService := services.NewAuthService(staffRepo, refreshTokenRepo, cfg)
	workflowService := services.NewWorkflowService(workflowStore, notifyService)
	appService := services.NewApplicationService(appRepo, historyRepo, personRepo, companyRepo, workflowService, notifyService)
	applicantService := services.NewApplicantService(personRepo, companyRepo, docRepo)
	dashboardService := services.NewDashboardService(appRepo)

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	appHandler := handlers.NewApplicationHandler(appService)
	workflowHandler := handlers.NewWorkflowHandler(workflowService)
	applicantHandler := handlers.NewApplicantHandler(applicantService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public + protected)
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Applicant routes
	personRoutes := apiV1.Group("/persons")
	personRoutes.Use(middleware.AuthMiddleware(cfg))
	setupPersonRoutes(personRoutes, applicantHandler)

	companyRoutes := apiV1.Group("/companies")
	companyRoutes.Use(middleware.AuthMiddleware(cfg))
	setupCompanyRoutes(companyRoutes, applicantHandler)

	documentRoutes := apiV1.Group("/documents")
	documentRoutes.Use(middleware.AuthMiddleware(cfg))
	setupDocumentRoutes(documentRoutes, applicantHandler)

	// Application + workflow routes
	appRoutes := apiV1.Group("/applications")
	appRoutes.Use(middleware.AuthMiddleware(cfg))
	setupApplicationRoutes(appRoutes, appHandler, workflowHandler)

	// Dashboard routes
	dashboardRoutes := apiV1.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	dashboardRoutes.Get("/pipeline", dashboardHandler.Pipeline)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes with stricter rate limiting
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Post("/register", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), handler.Register)
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupPersonRoutes configures person routes
func setupPersonRoutes(router fiber.Router, handler *handlers.ApplicantHandler) {
	router.Post("/", handler.CreatePerson)
	router.Get("/", handler.ListPersons)
	router.Get("/:id", handler.GetPerson)
	router.Post("/:id/references", handler.AddReference)
	router.Post("/:id/bank-accounts", handler.AddBankAccount)
	router.Put("/:id/employment", handler.SetEmployment)
	router.Put("/:id/address", handler.SetAddress)
}

// setupCompanyRoutes configures company routes
func setupCompanyRoutes(router fiber.Router, handler *handlers.ApplicantHandler) {
	router.Post("/", handler.CreateCompany)
	router.Get("/", handler.ListCompanies)
	router.Get("/:id", handler.GetCompany)
}

// setupDocumentRoutes configures document routes
func setupDocumentRoutes(router fiber.Router, handler *handlers.ApplicantHandler) {
	router.Post("/", handler.AttachDocument)
	router.Post("/:id/replace", handler.ReplaceDocument)
}

// setupApplicationRoutes configures application lifecycle and workflow routes
func setupApplicationRoutes(router fiber.Router, appHandler *handlers.ApplicationHandler, workflowHandler *handlers.WorkflowHandler) {
	// Lifecycle
	router.Post("/", appHandler.Create)
	router.Get("/", appHandler.List)
	router.Get("/:id", appHandler.Get)
	router.Patch("/:id/terms", appHandler.UpdateTerms)
	router.Post("/:id/submit", appHandler.Submit)
	router.Post("/:id/cancel", appHandler.Cancel)
	router.Get("/:id/history", appHandler.History)

	// Workflow engine
	router.Post("/:id/status", workflowHandler.ChangeStatus)
	router.Post("/:id/check-advance", workflowHandler.CheckAdvance)
	router.Post("/:id/notes", workflowHandler.AddNote)

	// Decisions require manager or admin role
	router.Post("/:id/approve", middleware.ManagerOrAdmin(), workflowHandler.Approve)
	router.Post("/:id/reject", middleware.ManagerOrAdmin(), workflowHandler.Reject)

	// Verification checklist
	router.Post("/:id/verify/:field", workflowHandler.VerifyData)

	// Document review
	router.Post("/:id/documents/:docId/approve", workflowHandler.ApproveDocument)
	router.Post("/:id/documents/:docId/reject", workflowHandler.RejectDocument)
	router.Post("/:id/documents/:docId/unapprove", workflowHandler.UnapproveDocument)

	// Reference and bank account verification
	router.Post("/:id/references/:refId/verify", workflowHandler.VerifyReference)
	router.Post("/:id/bank-accounts/:accountId/verify", workflowHandler.VerifyBankAccount)
	router.Post("/:id/bank-accounts/:accountId/unverify", workflowHandler.UnverifyBankAccount)
}
