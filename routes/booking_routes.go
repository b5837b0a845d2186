package routes

import (
	"github.com/davinmk/music_lessons/handlers"
	"github.com/davinmk/music_lessons/middleware"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	bookings := api.Group("/bookings", middleware.Protected())
	bookings.Get("/me", handlers.GetMyBookings)
	bookings.Post("", handlers.CreateBooking)
	bookings.Post("/:enrollmentId/cancel", handlers.CancelBooking)

	api.Get("/slots/:slotId/waitlist-position", middleware.Protected(), handlers.GetWaitlistPosition)

	cart := api.Group("/cart", middleware.Protected())
	cart.Get("", handlers.GetCart)
	cart.Post("", handlers.AddToCart)
	cart.Delete("/:itemId", handlers.RemoveFromCart)
	cart.Delete("", handlers.ClearCart)
	cart.Post("/checkout", handlers.CheckoutCart)

	notifs := api.Group("/notifications", middleware.Protected())
	notifs.Get("", handlers.GetMyNotifications)
	notifs.Post("/:notificationId/read", handlers.MarkNotificationRead)
}
