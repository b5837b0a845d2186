package handlers

import (
	"github.com/davinmk/music_lessons/database"
	"github.com/davinmk/music_lessons/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AddToCartRequest struct {
	SlotID string `json:"slot_id" validate:"required,uuid"`
}

func AddToCart(c *fiber.Ctx) error {
	studentID := currentUserID(c)

	var req AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	slotID, _ := uuid.Parse(req.SlotID)

	item, err := services.AddToCart(database.DB, studentID, slotID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func GetCart(c *fiber.Ctx) error {
	studentID := currentUserID(c)

	items, err := services.GetCart(database.DB, studentID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

func RemoveFromCart(c *fiber.Ctx) error {
	studentID := currentUserID(c)
	itemID, err := uuid.Parse(c.Params("itemId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid cart item id"})
	}

	if err := services.RemoveFromCart(database.DB, studentID, itemID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Removed from cart"})
}

func ClearCart(c *fiber.Ctx) error {
	studentID := currentUserID(c)

	if err := services.ClearCart(database.DB, studentID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Cart cleared"})
}

func CheckoutCart(c *fiber.Ctx) error {
	studentID := currentUserID(c)

	results, err := services.CheckoutCart(database.DB, studentID, nil)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"results": results})
}
