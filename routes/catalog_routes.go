package routes

import (
	"github.com/davinmk/music_lessons/handlers"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func CatalogRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	courses := api.Group("/courses")
	courses.Get("", handlers.ListCourses)
	courses.Get("/:courseId", handlers.GetCourse)
	courses.Get("/:courseId/slots", handlers.GetCourseSlots)

	api.Get("/buildings", handlers.ListBuildings)

	api.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/ws", websocket.New(handlers.ServeWs))
}
