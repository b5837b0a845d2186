package routes

import (
	"github.com/davinmk/music_lessons/handlers"
	"github.com/davinmk/music_lessons/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	buildings := admin.Group("/buildings")
	buildings.Post("", handlers.CreateBuilding)
	buildings.Put("/:buildingId", handlers.UpdateBuilding)
	buildings.Delete("/:buildingId", handlers.DeactivateBuilding)

	rooms := admin.Group("/rooms")
	rooms.Post("", handlers.CreateRoom)
	rooms.Delete("/:roomId", handlers.DeactivateRoom)

	courses := admin.Group("/courses")
	courses.Post("", handlers.CreateCourse)
	courses.Put("/:courseId", handlers.UpdateCourse)
	courses.Delete("/:courseId", handlers.DeactivateCourse)
	courses.Post("/:courseId/generate-slots", handlers.GenerateCourseSlots)

	admin.Post("/slots/:slotId/cancel", handlers.CancelSlot)

	admin.Get("/upload-signature", handlers.GenerateUploadSignature)
}
