package jobs

import (
	"log"
	"time"

	"github.com/davinmk/music_lessons/database"
	"github.com/davinmk/music_lessons/models"
	"gorm.io/gorm"
)

// CompleteFinishedSlots sweeps slots whose end time has passed into
// COMPLETED, along with their confirmed enrollments. Waitlisted
// enrollments on a finished slot never got a seat and are cancelled.
func CompleteFinishedSlots() {
	log.Println("Running job: CompleteFinishedSlots...")

	now := time.Now()

	var finishedSlots []models.TimeSlot
	err := database.DB.
		Where("status = ? AND end_time < ?", models.SlotStatusScheduled, now).
		Find(&finishedSlots).Error
	if err != nil {
		log.Printf("Error finding finished slots: %v", err)
		return
	}

	if len(finishedSlots) == 0 {
		return
	}

	for _, slot := range finishedSlots {
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.SlotEnrollment{}).
				Where("slot_id = ? AND status = ?", slot.ID, models.EnrollmentStatusConfirmed).
				Update("status", models.EnrollmentStatusCompleted).Error; err != nil {
				return err
			}

			if err := tx.Model(&models.SlotEnrollment{}).
				Where("slot_id = ? AND status = ?", slot.ID, models.EnrollmentStatusWaitlist).
				Updates(map[string]interface{}{
					"status":            models.EnrollmentStatusCancelled,
					"waitlist_position": nil,
					"cancelled_at":      now,
				}).Error; err != nil {
				return err
			}

			slot.Status = models.SlotStatusCompleted
			return tx.Save(&slot).Error
		})
		if err != nil {
			log.Printf("Error completing slot %s: %v", slot.ID, err)
		}
	}

	log.Printf("Marked %d slot(s) as completed.", len(finishedSlots))
}
