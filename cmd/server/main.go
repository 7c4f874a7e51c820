package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/authd/internal/config"
	"github.com/example/authd/internal/database"
	"github.com/example/authd/internal/middleware"
	"github.com/example/authd/internal/routes"
	"github.com/example/authd/internal/services"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	app := fiber.New(fiber.Config{
		AppName:      "Authd Backend",
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	mailer := services.NewSMTPMailer(cfg)
	voice := services.NewTwilioService(cfg)

	routes.Register(app, db, cfg, mailer, voice)

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
