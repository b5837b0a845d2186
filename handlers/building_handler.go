package handlers

import (
	"github.com/davinmk/music_lessons/database"
	"github.com/davinmk/music_lessons/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type BuildingRequest struct {
	Name    string  `json:"name" validate:"required,min=2"`
	Address string  `json:"address"`
	City    *string `json:"city,omitempty"`
}

func CreateBuilding(c *fiber.Ctx) error {
	var req BuildingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	building := models.Building{
		Name:     req.Name,
		Address:  req.Address,
		City:     req.City,
		IsActive: true,
	}
	if err := database.DB.Create(&building).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create building"})
	}
	return c.Status(fiber.StatusCreated).JSON(building)
}

func ListBuildings(c *fiber.Ctx) error {
	var buildings []models.Building
	if err := database.DB.Preload("Rooms").Where("is_active = ?", true).Find(&buildings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load buildings"})
	}
	return c.JSON(buildings)
}

func UpdateBuilding(c *fiber.Ctx) error {
	buildingID := c.Params("buildingId")

	var building models.Building
	if err := database.DB.First(&building, "id = ?", buildingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Building not found"})
	}

	var req BuildingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	building.Name = req.Name
	building.Address = req.Address
	building.City = req.City
	if err := database.DB.Save(&building).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update building"})
	}
	return c.JSON(building)
}

func DeactivateBuilding(c *fiber.Ctx) error {
	buildingID := c.Params("buildingId")

	var building models.Building
	if err := database.DB.First(&building, "id = ?", buildingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Building not found"})
	}

	building.IsActive = false
	if err := database.DB.Save(&building).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate building"})
	}
	return c.JSON(fiber.Map{"message": "Building deactivated"})
}

type RoomRequest struct {
	BuildingID string `json:"building_id" validate:"required,uuid"`
	Name       string `json:"name" validate:"required"`
	Capacity   int    `json:"capacity" validate:"gte=1"`
}

func CreateRoom(c *fiber.Ctx) error {
	var req RoomRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	buildingID, _ := uuid.Parse(req.BuildingID)
	var building models.Building
	if err := database.DB.First(&building, "id = ? AND is_active = ?", buildingID, true).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Building not found"})
	}

	room := models.Room{
		BuildingID: buildingID,
		Name:       req.Name,
		Capacity:   req.Capacity,
		IsActive:   true,
	}
	if err := database.DB.Create(&room).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create room"})
	}
	return c.Status(fiber.StatusCreated).JSON(room)
}

func DeactivateRoom(c *fiber.Ctx) error {
	roomID := c.Params("roomId")

	var room models.Room
	if err := database.DB.First(&room, "id = ?", roomID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Room not found"})
	}

	room.IsActive = false
	if err := database.DB.Save(&room).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate room"})
	}
	return c.JSON(fiber.Map{"message": "Room deactivated"})
}
