package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/authd/internal/config"
	"github.com/example/authd/internal/handlers"
	"github.com/example/authd/internal/middleware"
	"github.com/example/authd/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, mailer services.Mailer, voice services.VoiceCaller) {
	authHandler := handlers.NewAuthHandler(db, cfg, mailer, voice)
	resetHandler := handlers.NewPasswordResetHandler(db, cfg, mailer)

	user := app.Group("/api/v1/user")

	user.Post("/register", authHandler.Register)
	user.Post("/otp-verification", authHandler.VerifyOTP)
	user.Post("/login", authHandler.Login)
	user.Post("/password/forgot", resetHandler.ForgotPassword)
	user.Put("/password/reset/:token", resetHandler.ResetPassword)

	protected := user.Group("", middleware.AuthMiddleware(db, cfg))
	protected.Get("/logout", authHandler.Logout)
	protected.Get("/me", authHandler.Me)
}
