package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"github.com/heartlink-app/backend/internal/growth"
	"github.com/heartlink-app/backend/internal/handlers"
	"github.com/heartlink-app/backend/internal/middleware"
	"github.com/heartlink-app/backend/internal/models"
	"github.com/heartlink-app/backend/internal/notify"
	"github.com/heartlink-app/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies.
// The growth service and notification dispatcher are constructed once here
// and handed to the handlers that need them.
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client, messagingClient *messaging.Client) (*notify.Dispatcher, error) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Device{},
		&models.FriendRequest{},
	)
	if err != nil {
		return nil, err
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	mongoDB := mgClient.Database("heartlink")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	deviceRepo := repositories.NewPostgresDeviceRepository(pgdb)
	friendshipRepo := repositories.NewPostgresFriendshipRepository(pgdb)
	feedRepo := repositories.NewMongoFeedRepository(mongoDB)
	commentRepo := repositories.NewMongoCommentRepository(mongoDB)
	groupRepo := repositories.NewMongoGroupRepository(mongoDB)
	companionRepo := repositories.NewMongoCompanionRepository(mongoDB)
	notificationRepo := repositories.NewMongoNotificationRepository(mongoDB)

	// --- Core services ---
	dispatcher := notify.NewDispatcher(notificationRepo, deviceRepo, notify.NewFCMPusher(messagingClient))
	growthService := growth.NewService(companionRepo, dispatcher)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterProfileRoutes(api)
	log.Println("User profile routes configured.")

	// Feed, comment and reaction routes
	feedHandler := handlers.NewFeedHandler(feedRepo, commentRepo, userRepo, groupRepo, growthService, dispatcher)
	feedHandler.RegisterFeedRoutes(api)
	log.Println("Feed routes configured.")

	// Companion routes
	companionHandler := handlers.NewCompanionHandler(companionRepo)
	companionHandler.RegisterCompanionRoutes(api)
	log.Println("Companion routes configured.")

	// Friendship routes
	friendshipHandler := handlers.NewFriendshipHandler(friendshipRepo, userRepo, dispatcher)
	friendshipHandler.RegisterFriendshipRoutes(api)
	log.Println("Friendship routes configured.")

	// Group routes
	groupHandler := handlers.NewGroupHandler(groupRepo, userRepo)
	groupHandler.RegisterGroupRoutes(api)
	log.Println("Group routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, deviceRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	log.Println("All routes configured.")
	return dispatcher, nil
}
