package services

import (
	"os"
	"testing"
	"time"

	"github.com/davinmk/music_lessons/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database-backed tests run against a throwaway Postgres pointed to by
// TEST_DATABASE_URL and are skipped when it is not set.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database-backed test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.TimeSlot{},
		&models.CartItem{},
		&models.SlotEnrollment{},
		&models.Notification{},
	))

	for _, table := range []string{"slot_enrollments", "cart_items", "time_slots", "courses", "notifications", "users"} {
		require.NoError(t, db.Exec("TRUNCATE TABLE "+table+" CASCADE").Error)
	}

	return db
}

func createStudent(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	student := models.User{
		FullName: "Test Student",
		Email:    email,
		Password: "not-a-real-hash",
		Role:     "student",
		IsActive: true,
	}
	require.NoError(t, db.Create(&student).Error)
	return student
}

func createCourseWithSlot(t *testing.T, db *gorm.DB, capacity int) (models.Course, models.TimeSlot) {
	t.Helper()
	course := models.Course{
		Title:              "Beginner Piano",
		Instrument:         "piano",
		Price:              25,
		Currency:           "USD",
		MaxStudentsPerSlot: capacity,
		IsActive:           true,
	}
	require.NoError(t, db.Create(&course).Error)

	start := time.Now().Add(48 * time.Hour).Truncate(time.Minute)
	slot := models.TimeSlot{
		CourseID:    course.ID,
		SlotDate:    start.Truncate(24 * time.Hour),
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		MaxCapacity: capacity,
		Status:      models.SlotStatusScheduled,
		IsActive:    true,
	}
	require.NoError(t, db.Create(&slot).Error)
	return course, slot
}

func reloadSlot(t *testing.T, db *gorm.DB, slotID uuid.UUID) models.TimeSlot {
	t.Helper()
	var slot models.TimeSlot
	require.NoError(t, db.First(&slot, "id = ?", slotID).Error)
	return slot
}

func waitlistPositions(t *testing.T, db *gorm.DB, slotID uuid.UUID) []int {
	t.Helper()
	var positions []int
	require.NoError(t, db.Model(&models.SlotEnrollment{}).
		Where("slot_id = ? AND status = ?", slotID, models.EnrollmentStatusWaitlist).
		Order("waitlist_position asc").
		Pluck("waitlist_position", &positions).Error)
	return positions
}
