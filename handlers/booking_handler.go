package handlers

import (
	"github.com/davinmk/music_lessons/database"
	"github.com/davinmk/music_lessons/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	SlotID    string  `json:"slot_id" validate:"required,uuid"`
	PaymentID *string `json:"payment_id,omitempty" validate:"omitempty,uuid"`
}

func CreateBooking(c *fiber.Ctx) error {
	studentID := currentUserID(c)

	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	slotID, _ := uuid.Parse(req.SlotID)

	var paymentID *uuid.UUID
	if req.PaymentID != nil {
		id, err := uuid.Parse(*req.PaymentID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment id"})
		}
		paymentID = &id
	}

	enrollment, err := services.BookSlot(database.DB, studentID, slotID, paymentID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(enrollment)
}

func GetMyBookings(c *fiber.Ctx) error {
	studentID := currentUserID(c)

	enrollments, err := services.GetStudentBookings(database.DB, studentID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(enrollments)
}

type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

func CancelBooking(c *fiber.Ctx) error {
	studentID := currentUserID(c)
	enrollmentID, err := uuid.Parse(c.Params("enrollmentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid enrollment id"})
	}

	var req CancelBookingRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
		}
	}

	enrollment, err := services.CancelBooking(database.DB, studentID, enrollmentID, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(enrollment)
}

func GetWaitlistPosition(c *fiber.Ctx) error {
	studentID := currentUserID(c)
	slotID, err := uuid.Parse(c.Params("slotId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid slot id"})
	}

	status, err := services.GetWaitlistPosition(database.DB, studentID, slotID)
	if err != nil {
		return respondError(c, err)
	}
	if status == nil {
		return c.JSON(fiber.Map{"enrollment": nil})
	}
	return c.JSON(status)
}
