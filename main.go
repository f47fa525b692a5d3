package main

import (
	"log"

	"coursedesk/config"
	bookingController "coursedesk/controllers/booking"
	courseController "coursedesk/controllers/course"
	"coursedesk/database"
	"coursedesk/middleware"
	"coursedesk/payment"
	"coursedesk/routers/bookingRoutes"
	"coursedesk/routers/courseRoutes"
	"coursedesk/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	var provider payment.Provider
	if cfg.MidtransServerKey != "" {
		provider = payment.NewMidtransProvider(cfg.MidtransServerKey, cfg.MidtransProduction)
	}
	mailer := utils.NewMailer(cfg)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	app.Use(middleware.Authenticate(cfg))

	// Serve uploaded course images
	app.Static("/uploads", "./"+cfg.UploadDir)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	courseRoutes.SetupCourseRoutes(app, courseController.New(db, cfg))
	bookingRoutes.SetupBookingRoutes(app, bookingController.New(db, cfg, provider, mailer))

	app.Use("/", func(c *fiber.Ctx) error {
		return c.SendString("API Working")
	})

	utils.InitializeBookingSweeper(db)

	log.Printf("Server is running on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
