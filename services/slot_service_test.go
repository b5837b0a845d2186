package services

import (
	"testing"
	"time"

	"github.com/davinmk/music_lessons/models"
	"github.com/davinmk/music_lessons/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestParseDaysOfWeek(t *testing.T) {
	days, err := ParseDaysOfWeek("1,3,5")
	require.NoError(t, err)
	assert.Equal(t, map[time.Weekday]bool{
		time.Monday:    true,
		time.Wednesday: true,
		time.Friday:    true,
	}, days)

	days, err = ParseDaysOfWeek(" 0, 6 ")
	require.NoError(t, err)
	assert.True(t, days[time.Sunday])
	assert.True(t, days[time.Saturday])

	_, err = ParseDaysOfWeek("7")
	assert.Error(t, err)

	_, err = ParseDaysOfWeek("mon")
	assert.Error(t, err)

	_, err = ParseDaysOfWeek("")
	assert.Error(t, err)
}

func TestParseClock(t *testing.T) {
	hour, minute, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9, hour)
	assert.Equal(t, 30, minute)

	_, _, err = ParseClock("24:00")
	assert.Error(t, err)

	_, _, err = ParseClock("10:60")
	assert.Error(t, err)

	_, _, err = ParseClock("1030")
	assert.Error(t, err)
}

func weekdayCourse() *models.Course {
	// Mon Jun 2 2025 through Sun Jun 8 2025: exactly one calendar week.
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	return &models.Course{
		ID:                 uuid.New(),
		StartDate:          timePtr(start),
		EndDate:            timePtr(end),
		DaysOfWeek:         strPtr("1,3,5"),
		DefaultStartTime:   strPtr("10:00"),
		DefaultEndTime:     strPtr("11:30"),
		MaxStudentsPerSlot: 4,
	}
}

func TestExpandCourseSchedule(t *testing.T) {
	course := weekdayCourse()

	slots, err := ExpandCourseSchedule(course)
	require.NoError(t, err)
	require.Len(t, slots, 3)

	wantDays := []time.Weekday{time.Monday, time.Wednesday, time.Friday}
	for i, slot := range slots {
		assert.Equal(t, wantDays[i], slot.StartTime.Weekday())
		assert.Equal(t, 10, slot.StartTime.Hour())
		assert.Equal(t, 0, slot.StartTime.Minute())
		assert.Equal(t, 11, slot.EndTime.Hour())
		assert.Equal(t, 30, slot.EndTime.Minute())
		assert.Equal(t, slot.StartTime.Truncate(24*time.Hour), slot.SlotDate)
		assert.Equal(t, 4, slot.MaxCapacity)
		assert.Equal(t, 0, slot.CurrentEnrollment)
		assert.Equal(t, models.SlotStatusScheduled, slot.Status)
		assert.True(t, slot.IsActive)
		assert.Equal(t, course.ID, slot.CourseID)
	}
}

func TestExpandCourseScheduleEndBeforeStart(t *testing.T) {
	course := weekdayCourse()
	*course.EndDate = course.StartDate.AddDate(0, 0, -1)

	slots, err := ExpandCourseSchedule(course)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestExpandCourseScheduleMissingFields(t *testing.T) {
	cases := map[string]func(*models.Course){
		"no start date": func(c *models.Course) { c.StartDate = nil },
		"no end date":   func(c *models.Course) { c.EndDate = nil },
		"no days":       func(c *models.Course) { c.DaysOfWeek = nil },
		"no start time": func(c *models.Course) { c.DefaultStartTime = nil },
		"no end time":   func(c *models.Course) { c.DefaultEndTime = nil },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			course := weekdayCourse()
			mutate(course)
			_, err := ExpandCourseSchedule(course)
			require.Error(t, err)
			assert.True(t, utils.IsKind(err, utils.KindValidation))
		})
	}
}

func TestExpandCourseScheduleDefaultCapacity(t *testing.T) {
	course := weekdayCourse()
	course.MaxStudentsPerSlot = 0

	slots, err := ExpandCourseSchedule(course)
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.Equal(t, 1, slots[0].MaxCapacity)
}
