package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/planbyte/event-planner-backend/config"
	"github.com/planbyte/event-planner-backend/database"
	"github.com/planbyte/event-planner-backend/internal/auditlog"
	"github.com/planbyte/event-planner-backend/internal/auth"
	"github.com/planbyte/event-planner-backend/internal/dashboard"
	"github.com/planbyte/event-planner-backend/internal/event"
	"github.com/planbyte/event-planner-backend/internal/invitation"
	"github.com/planbyte/event-planner-backend/internal/notification"
	"github.com/planbyte/event-planner-backend/internal/reports"
	"github.com/planbyte/event-planner-backend/internal/rsvp"
	"github.com/planbyte/event-planner-backend/middleware"

	_ "github.com/planbyte/event-planner-backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func Setup(r *gin.Engine, cfg *config.Config) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL, "http://localhost:5173", "http://127.0.0.1:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Content-Length", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimiter())     // Global rate limit per IP
	api.Use(middleware.AuditMiddleware()) // Capture client IP for audit entries

	// ========== Audit Log Module ==========
	auditRepo := auditlog.NewRepository(database.DB)
	auditSvc := auditlog.NewService(auditRepo)
	auditHandler := auditlog.NewHandler(auditSvc)

	// ========== Auth ==========
	authRepo := auth.NewRepository(database.DB)
	authSvc := auth.NewService(authRepo, cfg)
	authHandler := auth.NewHandler(authSvc)

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRateLimiter())
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/forgot-password", authHandler.ForgotPassword)
		authGroup.POST("/reset-password", authHandler.ResetPassword)

		// Logout requires Auth Middleware
		authGroup.POST("/logout", middleware.AuthMiddleware(cfg, authSvc), authHandler.Logout)
	}

	// ========== Events ==========
	eventRepo := event.NewRepository(database.DB)
	eventService := event.NewService(eventRepo, auditSvc)
	eventHandler := event.NewHandler(eventService)

	// ========== Invitations ==========
	invitationRepo := invitation.NewRepository(database.DB)
	invitationService := invitation.NewService(invitationRepo, eventRepo, auditSvc)
	invitationHandler := invitation.NewHandler(invitationService)

	// ========== RSVPs ==========
	rsvpRepo := rsvp.NewRepository(database.DB)
	rsvpService := rsvp.NewService(rsvpRepo, eventRepo, auditSvc)
	rsvpHandler := rsvp.NewHandler(rsvpService)

	// A response to an invitation is also an RSVP; wire the two after
	// construction so neither package imports the other.
	invitationService.RSVPSvc = rsvpService

	// Claim pending invitations and RSVPs for the email on first sign-in
	authSvc.SetClaimers(invitationService, rsvpService)
	authSvc.SetAuditService(auditSvc)

	// ========== Notifications ==========
	notificationRepo := notification.NewRepository(database.DB)
	notifSvc := notification.NewService(notificationRepo, cfg, auditSvc)
	notificationHandler := notification.NewHandler(notifSvc)

	eventService.NotifSvc = notifSvc

	// ========== Dashboard ==========
	dashboardService := dashboard.NewService(eventRepo, invitationRepo)
	dashboardHandler := dashboard.NewHandler(dashboardService)

	// ========== Reports ==========
	reportsRepo := reports.NewRepository(database.DB)
	reportsService := reports.NewService(reportsRepo, eventRepo)
	reportsService.AuditSvc = auditSvc
	reportsHandler := reports.NewHandler(reportsService)

	// Public landing page behind the email link; responding requires sign-in
	api.GET("/invitations/token/:token", invitationHandler.GetByToken)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg, authSvc))

	// ========== Event Routes ==========
	eventRoutes := protected.Group("/events")
	{
		eventRoutes.POST("", eventHandler.CreateEvent)
		eventRoutes.POST("/", eventHandler.CreateEvent)
		eventRoutes.GET("/mine", eventHandler.ListMyEvents)
		eventRoutes.GET("/invited", eventHandler.ListInvitedEvents)
		eventRoutes.GET("/:id", eventHandler.GetEventByID)
		eventRoutes.PUT("/:id", eventHandler.UpdateEvent)
		eventRoutes.DELETE("/:id", eventHandler.DeleteEvent)

		// Calendar helpers
		eventRoutes.GET("/:id/calendar.ics", eventHandler.DownloadICS)
		eventRoutes.GET("/:id/google-calendar", eventHandler.GoogleCalendarLink)

		// Per-event guest views (owner only)
		eventRoutes.GET("/:id/invitations", invitationHandler.ListForEvent)
		eventRoutes.GET("/:id/rsvps", rsvpHandler.ListByEvent)
		eventRoutes.GET("/:id/reports/guest-list", reportsHandler.DownloadGuestList)
	}

	// ========== Invitation Routes ==========
	invitationRoutes := protected.Group("/invitations")
	{
		invitationRoutes.POST("", invitationHandler.Create)
		invitationRoutes.POST("/", invitationHandler.Create)
		invitationRoutes.GET("/mine", invitationHandler.ListMine)
		invitationRoutes.POST("/token/:token/respond", invitationHandler.RespondByToken)
		invitationRoutes.POST("/:id/respond", invitationHandler.RespondByID)
		invitationRoutes.POST("/:id/resend", invitationHandler.Resend)
		invitationRoutes.DELETE("/:id", invitationHandler.Cancel)
	}

	// ========== RSVP Routes ==========
	rsvpRoutes := protected.Group("/rsvps")
	{
		rsvpRoutes.POST("", rsvpHandler.Upsert)
		rsvpRoutes.POST("/", rsvpHandler.Upsert)
		rsvpRoutes.GET("/mine", rsvpHandler.ListMine)
	}

	// ========== Dashboard ==========
	protected.GET("/dashboard", dashboardHandler.GetSummary)

	// ========== Notifications ==========
	notificationRoutes := protected.Group("/notifications")
	{
		notificationRoutes.GET("", notificationHandler.ListInApp)
		notificationRoutes.GET("/unread-count", notificationHandler.UnreadCount)
		notificationRoutes.PUT("/:id/read", notificationHandler.MarkAsRead)
		notificationRoutes.PUT("/read-all", notificationHandler.MarkAllAsRead)
		notificationRoutes.POST("/device-token", notificationHandler.RegisterDeviceToken)
		notificationRoutes.DELETE("/device-token", notificationHandler.RemoveDeviceToken)
	}

	// ========== Audit Logs (own activity) ==========
	auditRoutes := protected.Group("/auditlogs")
	{
		auditRoutes.GET("", auditHandler.GetMyAuditLogs)
		auditRoutes.GET("/:id", auditHandler.GetAuditLogByID)
	}
}
