package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/davinmk/music_lessons/database"
	"github.com/davinmk/music_lessons/models"
	"github.com/davinmk/music_lessons/notifications"
)

// SendLessonReminders emails confirmed students whose lesson starts in
// about an hour. The 5-minute window matches the cron cadence so each
// enrollment is caught once.
func SendLessonReminders() {
	log.Println("Running job: SendLessonReminders...")

	now := time.Now()
	lowerBound := now.Add(60 * time.Minute)
	upperBound := now.Add(65 * time.Minute)

	var upcoming []models.SlotEnrollment

	err := database.DB.
		Preload("Student").
		Preload("Slot.Course").
		Joins("JOIN time_slots ON time_slots.id = slot_enrollments.slot_id").
		Where("slot_enrollments.status = ? AND time_slots.start_time BETWEEN ? AND ?",
			models.EnrollmentStatusConfirmed, lowerBound, upperBound).
		Find(&upcoming).Error
	if err != nil {
		log.Printf("Error checking for upcoming lessons: %v", err)
		return
	}

	if len(upcoming) == 0 {
		return
	}

	for _, enrollment := range upcoming {
		log.Printf("Sending reminder for enrollment ID: %s", enrollment.ID)

		emailSubject := "Reminder: Your Lesson Starts in 1 Hour!"
		emailBody := fmt.Sprintf(
			"<h1>Lesson Reminder</h1><p>Hi there,</p><p>Your %s lesson is scheduled to start at %s.</p>",
			enrollment.Slot.Course.Title,
			enrollment.Slot.StartTime.Format(time.Kitchen),
		)

		go notifications.SendEmail(enrollment.Student.FullName, enrollment.Student.Email, emailSubject, emailBody)
	}
}
