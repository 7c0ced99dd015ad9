package main

import (
	"log"

	api "mailbridge-backend/cmd/api"
	authdomain "mailbridge-backend/internal/auth/domain"
	authRepo "mailbridge-backend/internal/auth/repository"
	"mailbridge-backend/internal/auth/token"
	authUsecase "mailbridge-backend/internal/auth/usecase"
	emailUsecase "mailbridge-backend/internal/email/usecase"
	"mailbridge-backend/internal/provider"
	"mailbridge-backend/pkg/config"
	"mailbridge-backend/pkg/database"
	"mailbridge-backend/pkg/gmail"
	"mailbridge-backend/pkg/graph"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&authdomain.User{}, &authdomain.LoginState{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	stateRepo := authRepo.NewLoginStateRepository(db)

	// Initialize provider API clients
	graphClient := graph.NewClient(cfg.ProviderTimeout)
	gmailService := gmail.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret)

	// Initialize identity provider adapters
	providers := []provider.Provider{
		provider.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI, cfg.GoogleScopes),
		provider.NewMicrosoft(cfg.MicrosoftClientID, cfg.MicrosoftClientSecret, cfg.MicrosoftRedirectURI, cfg.MicrosoftScopes, cfg.MicrosoftTenant, graphClient),
	}

	// Initialize session token issuer
	issuer := token.NewIssuer(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, stateRepo, issuer, providers, cfg.LoginStateTTL)
	emailUsecaseInstance := emailUsecase.NewEmailUsecase(userRepo, gmailService, graphClient)

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, emailUsecaseInstance, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
