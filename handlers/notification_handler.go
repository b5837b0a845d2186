package handlers

import (
	"time"

	"github.com/davinmk/music_lessons/database"
	"github.com/davinmk/music_lessons/models"
	"github.com/gofiber/fiber/v2"
)

func GetMyNotifications(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var userNotifications []models.Notification
	err := database.DB.
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(100).
		Find(&userNotifications).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load notifications"})
	}
	return c.JSON(userNotifications)
}

func MarkNotificationRead(c *fiber.Ctx) error {
	userID := currentUserID(c)
	notificationID := c.Params("notificationId")

	var notification models.Notification
	if err := database.DB.First(&notification, "id = ? AND user_id = ?", notificationID, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Notification not found"})
	}

	now := time.Now()
	notification.ReadAt = &now
	if err := database.DB.Save(&notification).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to mark notification as read"})
	}
	return c.JSON(notification)
}
