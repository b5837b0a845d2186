package routes

import (
	"github.com/davinmk/music_lessons/handlers"
	"github.com/davinmk/music_lessons/middleware"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.RegisterUser)
	auth.Post("/login", handlers.LoginUser)
	auth.Get("/me", middleware.Protected(), handlers.GetMe)
}
