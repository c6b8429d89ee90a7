package main

import (
	"context"
	"log"

	"github.com/heartlink-app/backend/internal/router"
	"github.com/heartlink-app/backend/pkg/config"
	"github.com/heartlink-app/backend/pkg/firebase"
	"github.com/heartlink-app/backend/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	dispatcher, err := router.SetupRoutes(e, db.Postgres, db.Mongo, firebaseApp.AuthClient, firebaseApp.MessagingClient)
	if err != nil {
		log.Fatalf("Failed to setup routes: %v", err)
	}
	defer dispatcher.Wait() // Drain in-flight push deliveries on shutdown

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
