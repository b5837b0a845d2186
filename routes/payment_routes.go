package routes

import (
	"github.com/davinmk/music_lessons/handlers"
	"github.com/davinmk/music_lessons/middleware"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	payments := api.Group("/payments")
	payments.Post("/initiate", middleware.Protected(), handlers.InitiatePayment)
	payments.Get("/me", middleware.Protected(), handlers.GetMyPayments)
	payments.Post("/webhook", handlers.HandlePaymentWebhook)
}
