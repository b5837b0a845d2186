package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/davinmk/music_lessons/models"
	"github.com/davinmk/music_lessons/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ParseDaysOfWeek parses a comma-separated list of weekday numbers
// (0=Sunday .. 6=Saturday) as stored on Course.DaysOfWeek.
func ParseDaysOfWeek(csv string) (map[time.Weekday]bool, error) {
	days := make(map[time.Weekday]bool)
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("invalid weekday %q", part)
		}
		days[time.Weekday(n)] = true
	}
	if len(days) == 0 {
		return nil, errors.New("no weekdays given")
	}
	return days, nil
}

// ParseClock parses an "HH:MM" string.
func ParseClock(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, minute, nil
}

func atClock(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

// ExpandCourseSchedule walks every calendar day from the course's start
// date to its end date inclusive and builds a TimeSlot for each day whose
// weekday is part of the course's weekly pattern.
func ExpandCourseSchedule(course *models.Course) ([]models.TimeSlot, error) {
	if course.StartDate == nil || course.EndDate == nil || course.DaysOfWeek == nil ||
		course.DefaultStartTime == nil || course.DefaultEndTime == nil {
		return nil, utils.Validation("course schedule is incomplete: start date, end date, days of week and default times are required")
	}

	days, err := ParseDaysOfWeek(*course.DaysOfWeek)
	if err != nil {
		return nil, utils.Validation("invalid days_of_week: " + err.Error())
	}
	startHour, startMinute, err := ParseClock(*course.DefaultStartTime)
	if err != nil {
		return nil, utils.Validation("invalid default_start_time: " + err.Error())
	}
	endHour, endMinute, err := ParseClock(*course.DefaultEndTime)
	if err != nil {
		return nil, utils.Validation("invalid default_end_time: " + err.Error())
	}

	maxCapacity := course.MaxStudentsPerSlot
	if maxCapacity < 1 {
		maxCapacity = 1
	}

	var slots []models.TimeSlot
	for day := *course.StartDate; !day.After(*course.EndDate); day = day.AddDate(0, 0, 1) {
		if !days[day.Weekday()] {
			continue
		}
		slots = append(slots, models.TimeSlot{
			CourseID:          course.ID,
			RoomID:            course.RoomID,
			SlotDate:          atClock(day, 0, 0),
			StartTime:         atClock(day, startHour, startMinute),
			EndTime:           atClock(day, endHour, endMinute),
			MaxCapacity:       maxCapacity,
			CurrentEnrollment: 0,
			Status:            models.SlotStatusScheduled,
			IsActive:          true,
		})
	}
	return slots, nil
}

// GenerateSlotsForCourse expands the course's weekly schedule into dated
// slots and bulk-inserts them, silently skipping slots that already exist
// for the same course and start time. The returned count is the number of
// slots considered, not necessarily the number inserted.
func GenerateSlotsForCourse(db *gorm.DB, courseID uuid.UUID) (int, error) {
	var course models.Course
	if err := db.First(&course, "id = ?", courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, utils.Validation("course not found")
		}
		return 0, err
	}
	if !course.IsActive {
		return 0, utils.Validation("course is not active")
	}

	slots, err := ExpandCourseSchedule(&course)
	if err != nil {
		return 0, err
	}
	if len(slots) == 0 {
		return 0, nil
	}

	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "course_id"}, {Name: "start_time"}},
		DoNothing: true,
	}).CreateInBatches(&slots, 200).Error
	if err != nil {
		return 0, err
	}

	return len(slots), nil
}

// CancelSlot marks a slot CANCELLED and cancels every active enrollment on
// it, notifying the affected students. Used by admins to call off a lesson.
func CancelSlot(db *gorm.DB, slotID uuid.UUID, cancelledBy uuid.UUID, reason string) error {
	var affected []models.SlotEnrollment
	err := db.Transaction(func(tx *gorm.DB) error {
		var slot models.TimeSlot
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&slot, "id = ?", slotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("time slot not found")
			}
			return err
		}
		if slot.Status != models.SlotStatusScheduled {
			return utils.InvalidState("only scheduled slots can be cancelled")
		}

		if err := tx.Where("slot_id = ? AND status IN ?", slotID,
			[]string{models.EnrollmentStatusConfirmed, models.EnrollmentStatusWaitlist}).
			Find(&affected).Error; err != nil {
			return err
		}

		now := time.Now()
		for i := range affected {
			affected[i].Status = models.EnrollmentStatusCancelled
			affected[i].WaitlistPosition = nil
			affected[i].CancelledAt = &now
			affected[i].CancelledBy = &cancelledBy
			affected[i].CancelReason = &reason
			if err := tx.Save(&affected[i]).Error; err != nil {
				return err
			}
		}

		slot.Status = models.SlotStatusCancelled
		slot.CurrentEnrollment = 0
		return tx.Save(&slot).Error
	})
	if err != nil {
		return err
	}

	for _, enrollment := range affected {
		notifyUser(db, enrollment.StudentID, models.NotificationSlotCancelled,
			"Lesson Cancelled",
			"<h1>Lesson Cancelled</h1><p>A lesson you were booked on has been cancelled. "+reason+"</p>")
	}
	broadcastSlot(db, slotID)
	return nil
}
