package api

import (
	"net/http"

	"mailbridge-backend/internal/auth/delivery"
	authUsecase "mailbridge-backend/internal/auth/usecase"
	emailDelivery "mailbridge-backend/internal/email/delivery"
	emailUsecase "mailbridge-backend/internal/email/usecase"
	"mailbridge-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, emailUc emailUsecase.EmailUsecase, cfg *config.Config) {
	authHandler := delivery.NewAuthHandler(authUc, cfg)
	emailHandler := emailDelivery.NewEmailHandler(emailUc)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.GET("/:provider/login", authHandler.Login)
			auth.GET("/:provider/callback", authHandler.Callback)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", delivery.AuthMiddleware(authUc), authHandler.Me)
		}

		// Outbound routes (protected)
		emails := api.Group("/emails")
		emails.Use(delivery.AuthMiddleware(authUc))
		{
			emails.POST("/send", emailHandler.SendEmail)
		}

		events := api.Group("/events")
		events.Use(delivery.AuthMiddleware(authUc))
		{
			events.POST("", emailHandler.CreateEvent)
		}
	}
}
