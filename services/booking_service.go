package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/davinmk/music_lessons/models"
	"github.com/davinmk/music_lessons/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockSlot loads the slot row under FOR UPDATE so that capacity checks,
// counter updates and waitlist renumbering are serialized per slot.
func lockSlot(tx *gorm.DB, slotID uuid.UUID) (*models.TimeSlot, error) {
	var slot models.TimeSlot
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&slot, "id = ?", slotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("time slot not found")
		}
		return nil, err
	}
	return &slot, nil
}

func activeEnrollmentExists(tx *gorm.DB, slotID, studentID uuid.UUID) (bool, error) {
	var count int64
	err := tx.Model(&models.SlotEnrollment{}).
		Where("slot_id = ? AND student_id = ? AND status <> ?", slotID, studentID, models.EnrollmentStatusCancelled).
		Count(&count).Error
	return count > 0, err
}

// BookSlot books a slot for a student. Below capacity the enrollment is
// CONFIRMED and the slot counter incremented; at capacity the student is
// appended to the tail of the slot's waitlist and the counter untouched.
func BookSlot(db *gorm.DB, studentID, slotID uuid.UUID, paymentID *uuid.UUID) (*models.SlotEnrollment, error) {
	var enrollment models.SlotEnrollment

	err := db.Transaction(func(tx *gorm.DB) error {
		slot, err := lockSlot(tx, slotID)
		if err != nil {
			return err
		}
		if !slot.IsActive || slot.Status != models.SlotStatusScheduled {
			return utils.InvalidState("this slot is no longer open for booking")
		}

		exists, err := activeEnrollmentExists(tx, slotID, studentID)
		if err != nil {
			return err
		}
		if exists {
			return utils.Conflict("you already have an active booking for this slot")
		}

		if slot.CurrentEnrollment >= slot.MaxCapacity {
			var waiting int64
			if err := tx.Model(&models.SlotEnrollment{}).
				Where("slot_id = ? AND status = ?", slotID, models.EnrollmentStatusWaitlist).
				Count(&waiting).Error; err != nil {
				return err
			}
			position := int(waiting) + 1
			enrollment = models.SlotEnrollment{
				SlotID:           slotID,
				StudentID:        studentID,
				Status:           models.EnrollmentStatusWaitlist,
				WaitlistPosition: &position,
				PaymentID:        paymentID,
			}
			return tx.Create(&enrollment).Error
		}

		enrollment = models.SlotEnrollment{
			SlotID:    slotID,
			StudentID: studentID,
			Status:    models.EnrollmentStatusConfirmed,
			PaymentID: paymentID,
		}
		if err := tx.Create(&enrollment).Error; err != nil {
			return err
		}

		slot.CurrentEnrollment++
		return tx.Save(slot).Error
	})
	if err != nil {
		return nil, err
	}

	if enrollment.Status == models.EnrollmentStatusConfirmed {
		notifyUser(db, studentID, models.NotificationBookingConfirmed,
			"Your Booking is Confirmed!",
			"<h1>Booking Confirmed</h1><p>Your lesson slot has been booked. See you in class!</p>")
	} else {
		notifyUser(db, studentID, models.NotificationWaitlisted,
			"You're on the Waitlist",
			fmt.Sprintf("<h1>Waitlisted</h1><p>The slot is full. You are number %d on the waitlist and will be promoted automatically when a seat frees up.</p>", *enrollment.WaitlistPosition))
	}
	broadcastSlot(db, slotID)

	return &enrollment, nil
}

// CancelBooking moves an enrollment to CANCELLED. Cancelling a CONFIRMED
// enrollment frees a seat and promotes the head of the slot's waitlist in
// the same transaction; cancelling a WAITLIST enrollment held no seat, so
// nothing is promoted.
func CancelBooking(db *gorm.DB, studentID, enrollmentID uuid.UUID, reason *string) (*models.SlotEnrollment, error) {
	var enrollment models.SlotEnrollment
	var promoted *models.SlotEnrollment

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&enrollment, "id = ? AND student_id = ?", enrollmentID, studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("booking not found")
			}
			return err
		}
		if enrollment.IsTerminal() {
			return utils.InvalidState("this booking is already " + enrollment.Status)
		}

		slot, err := lockSlot(tx, enrollment.SlotID)
		if err != nil {
			return err
		}

		// Re-read now that the slot lock serializes us against other
		// cancellations and promotions touching this enrollment.
		if err := tx.First(&enrollment, "id = ?", enrollment.ID).Error; err != nil {
			return err
		}
		if enrollment.IsTerminal() {
			return utils.InvalidState("this booking is already " + enrollment.Status)
		}

		wasConfirmed := enrollment.Status == models.EnrollmentStatusConfirmed
		wasPosition := enrollment.WaitlistPosition

		now := time.Now()
		enrollment.Status = models.EnrollmentStatusCancelled
		enrollment.WaitlistPosition = nil
		enrollment.CancelledAt = &now
		enrollment.CancelledBy = &studentID
		enrollment.CancelReason = reason
		if err := tx.Save(&enrollment).Error; err != nil {
			return err
		}

		if wasConfirmed {
			if slot.CurrentEnrollment > 0 {
				slot.CurrentEnrollment--
			}
			if err := tx.Save(slot).Error; err != nil {
				return err
			}
			promoted, err = promoteFromWaitlist(tx, slot)
			return err
		}

		// A cancelled waitlist entry leaves a gap behind it; close it.
		if wasPosition != nil {
			return renumberWaitlistAfter(tx, slot.ID, *wasPosition)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	notifyUser(db, studentID, models.NotificationBookingCancelled,
		"Booking Cancelled",
		"<h1>Booking Cancelled</h1><p>Your booking has been cancelled.</p>")
	if promoted != nil {
		notifyUser(db, promoted.StudentID, models.NotificationWaitlistPromoted,
			"A Seat Opened Up - You're In!",
			"<h1>Promoted from the Waitlist</h1><p>A seat freed up and your booking is now confirmed.</p>")
	}
	broadcastSlot(db, enrollment.SlotID)

	return &enrollment, nil
}

// promoteFromWaitlist confirms the waitlisted enrollment with the smallest
// position for the slot, if any. Must run inside the transaction that
// already holds the slot row lock. One cancellation frees one seat and
// promotes at most one student.
func promoteFromWaitlist(tx *gorm.DB, slot *models.TimeSlot) (*models.SlotEnrollment, error) {
	var head models.SlotEnrollment
	err := tx.Where("slot_id = ? AND status = ?", slot.ID, models.EnrollmentStatusWaitlist).
		Order("waitlist_position asc").
		First(&head).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	oldPosition := 0
	if head.WaitlistPosition != nil {
		oldPosition = *head.WaitlistPosition
	}

	now := time.Now()
	head.Status = models.EnrollmentStatusConfirmed
	head.WaitlistPosition = nil
	head.PromotedAt = &now
	head.PromotedFromWaitlist = true
	if err := tx.Save(&head).Error; err != nil {
		return nil, err
	}

	slot.CurrentEnrollment++
	if err := tx.Save(slot).Error; err != nil {
		return nil, err
	}

	if err := renumberWaitlistAfter(tx, slot.ID, oldPosition); err != nil {
		return nil, err
	}
	return &head, nil
}

// renumberWaitlistAfter shifts every waitlist entry behind the vacated
// position up by one, keeping positions a dense 1..N sequence.
func renumberWaitlistAfter(tx *gorm.DB, slotID uuid.UUID, vacatedPosition int) error {
	return tx.Model(&models.SlotEnrollment{}).
		Where("slot_id = ? AND status = ? AND waitlist_position > ?", slotID, models.EnrollmentStatusWaitlist, vacatedPosition).
		UpdateColumn("waitlist_position", gorm.Expr("waitlist_position - 1")).Error
}

type WaitlistStatus struct {
	Status   string `json:"status"`
	Position *int   `json:"position"`
}

// GetWaitlistPosition reports the student's standing on a slot, or nil if
// the student has no enrollment there.
func GetWaitlistPosition(db *gorm.DB, studentID, slotID uuid.UUID) (*WaitlistStatus, error) {
	var enrollment models.SlotEnrollment
	err := db.Where("slot_id = ? AND student_id = ?", slotID, studentID).
		Order("created_at desc").
		First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	status := WaitlistStatus{Status: enrollment.Status}
	if enrollment.Status == models.EnrollmentStatusWaitlist {
		status.Position = enrollment.WaitlistPosition
	}
	return &status, nil
}

// GetStudentBookings lists a student's enrollments, newest lesson first.
func GetStudentBookings(db *gorm.DB, studentID uuid.UUID) ([]models.SlotEnrollment, error) {
	var enrollments []models.SlotEnrollment
	err := db.
		Preload("Slot.Course").
		Joins("JOIN time_slots ON time_slots.id = slot_enrollments.slot_id").
		Where("slot_enrollments.student_id = ?", studentID).
		Order("time_slots.start_time desc").
		Find(&enrollments).Error
	return enrollments, err
}
