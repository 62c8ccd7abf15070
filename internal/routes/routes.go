package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/smart-spa/internal/audit"
	"github.com/BruksfildServices01/smart-spa/internal/auth"
	"github.com/BruksfildServices01/smart-spa/internal/config"
	"github.com/BruksfildServices01/smart-spa/internal/events"
	"github.com/BruksfildServices01/smart-spa/internal/handlers"
	infraRepo "github.com/BruksfildServices01/smart-spa/internal/infra/repository"
	"github.com/BruksfildServices01/smart-spa/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/smart-spa/internal/usecase/appointment"
	ucCatalog "github.com/BruksfildServices01/smart-spa/internal/usecase/catalog"
)

// Infra carries the optional outbound adapters built in main. A nil Cache
// or Publisher disables that side effect.
type Infra struct {
	Audit     *audit.Dispatcher
	Publisher events.Publisher
	Cache     ucAppointment.AvailabilityCache
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, infra Infra) error {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestID())
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo, err := infraRepo.NewAppointmentGormRepository(db)
	if err != nil {
		return err
	}
	catalogRepo := infraRepo.NewCatalogGormRepository(db)
	auditLogger := audit.New(db)

	effects := ucAppointment.Effects{
		Audit:     infra.Audit,
		Publisher: infra.Publisher,
		Cache:     infra.Cache,
	}

	// ======================================================
	// USE CASES
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(appointmentRepo, effects)
	cancelAppointmentUC := ucAppointment.NewCancelAppointment(appointmentRepo, effects)
	completeAppointmentUC := ucAppointment.NewCompleteAppointment(appointmentRepo, effects)
	cleanupClientUC := ucAppointment.NewCleanupClientBookings(appointmentRepo, effects)
	deleteClientUC := ucAppointment.NewDeleteClient(appointmentRepo, effects)
	listClientAppointmentsUC := ucAppointment.NewListClientAppointments(appointmentRepo)
	getAvailabilityUC := ucAppointment.NewGetAvailability(appointmentRepo, effects, cfg.AvailabilityLimit)
	createSlotUC := ucAppointment.NewCreateSlot(appointmentRepo, effects)

	listOffersUC := ucCatalog.NewListOffers(catalogRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg, auth.PasswordVerifier{})
	meHandler := handlers.NewMeHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		cancelAppointmentUC,
		completeAppointmentUC,
		listClientAppointmentsUC,
		cleanupClientUC,
	)
	availabilityHandler := handlers.NewAvailabilityHandler(getAvailabilityUC, createSlotUC)
	catalogHandler := handlers.NewCatalogHandler(listOffersUC)
	userHandler := handlers.NewUserHandler(deleteClientUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(auditLogger)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/catalog", catalogHandler.List)
		api.GET("/salons/:id/availability", availabilityHandler.List)

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// SECURED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.GET("/me/appointments", appointmentHandler.ListMine)

			secured.POST("/appointments", appointmentHandler.Create)
			secured.POST("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.POST("/appointments/:id/complete", appointmentHandler.Complete)

			secured.POST("/salons/:id/slots", availabilityHandler.CreateSlot)

			secured.GET("/clients/:id/appointments", appointmentHandler.ListForClient)
			secured.POST("/clients/:id/cleanup", appointmentHandler.CleanupClient)
			secured.DELETE("/users/:id", userHandler.Delete)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}

	return nil
}
