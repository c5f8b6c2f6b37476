package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/planbyte/event-planner-backend/config"
	"github.com/planbyte/event-planner-backend/database"
	"github.com/planbyte/event-planner-backend/internal/auditlog"
	"github.com/planbyte/event-planner-backend/internal/auth"
	"github.com/planbyte/event-planner-backend/internal/event"
	"github.com/planbyte/event-planner-backend/internal/invitation"
	"github.com/planbyte/event-planner-backend/internal/notification"
	"github.com/planbyte/event-planner-backend/internal/rsvp"
	"github.com/planbyte/event-planner-backend/routes"
	"github.com/planbyte/event-planner-backend/utils"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	// Init Redis
	if err := utils.InitRedis(); err != nil {
		log.Fatalf("❌ Redis init failed: %v", err)
	}

	// Init Kafka
	utils.InitializeKafka()

	// Init Firebase
	log.Println("🔄 Initializing Firebase...")
	if err := utils.InitFirebase(); err != nil {
		log.Printf("⚠️ Firebase initialization failed: %v", err)
		log.Println("ℹ️ Continuing without Firebase (push notifications will be disabled)")
	} else if utils.IsFCMEnabled() {
		log.Println("✅ Firebase and FCM initialized successfully")
	} else {
		log.Println("⚠️ Firebase initialized but FCM client unavailable")
	}

	// Auto-migrate models
	log.Println("🔄 Running database migrations...")
	if err := db.AutoMigrate(
		&auth.User{},
		&auditlog.AuditLog{},
		&event.Event{},
		&invitation.Invitation{},
		&rsvp.RSVP{},
		&notification.NotificationLog{},
		&notification.InAppNotification{},
		&notification.FCMDeviceToken{},
	); err != nil {
		panic(fmt.Sprintf("❌ DB AutoMigrate failed: %v", err))
	}
	log.Println("✅ Database migrations completed")

	// Kafka consumer: turns invitation events into emails and in-app alerts
	notificationRepo := notification.NewRepository(db)
	notifSvc := notification.NewService(notificationRepo, cfg, auditlog.NewService(auditlog.NewRepository(db)))
	consumer := notification.NewConsumer(notifSvc, auth.NewRepository(db))
	go consumer.Start(context.Background())

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	routes.Setup(router, cfg)

	fmt.Printf("🚀 Server starting on port %s\n", cfg.Port)
	if utils.IsFCMEnabled() {
		fmt.Println("✅ Firebase Cloud Messaging enabled")
	} else {
		fmt.Println("ℹ️ Firebase Cloud Messaging disabled")
		if err := utils.GetInitError(); err != nil {
			fmt.Printf("   Reason: %v\n", err)
		}
	}

	if err := router.Run(":" + cfg.Port); err != nil {
		panic(fmt.Sprintf("Failed to start server: %v", err))
	}
}
