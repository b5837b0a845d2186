package services

import (
	"sync"
	"testing"

	"github.com/davinmk/music_lessons/models"
	"github.com/davinmk/music_lessons/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookSlotConfirmsBelowCapacity(t *testing.T) {
	db := testDB(t)
	student := createStudent(t, db, "a@example.com")
	_, slot := createCourseWithSlot(t, db, 2)

	enrollment, err := BookSlot(db, student.ID, slot.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusConfirmed, enrollment.Status)
	assert.Nil(t, enrollment.WaitlistPosition)

	assert.Equal(t, 1, reloadSlot(t, db, slot.ID).CurrentEnrollment)
}

func TestBookSlotWaitlistsAtCapacity(t *testing.T) {
	db := testDB(t)
	a := createStudent(t, db, "a@example.com")
	b := createStudent(t, db, "b@example.com")
	c := createStudent(t, db, "c@example.com")
	_, slot := createCourseWithSlot(t, db, 1)

	first, err := BookSlot(db, a.ID, slot.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusConfirmed, first.Status)

	second, err := BookSlot(db, b.ID, slot.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusWaitlist, second.Status)
	require.NotNil(t, second.WaitlistPosition)
	assert.Equal(t, 1, *second.WaitlistPosition)

	third, err := BookSlot(db, c.ID, slot.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, third.WaitlistPosition)
	assert.Equal(t, 2, *third.WaitlistPosition)

	// Waitlisted bookings hold no seat.
	assert.Equal(t, 1, reloadSlot(t, db, slot.ID).CurrentEnrollment)
}

func TestBookSlotRejectsDuplicates(t *testing.T) {
	db := testDB(t)
	student := createStudent(t, db, "a@example.com")
	_, slot := createCourseWithSlot(t, db, 2)

	_, err := BookSlot(db, student.ID, slot.ID, nil)
	require.NoError(t, err)

	_, err = BookSlot(db, student.ID, slot.ID, nil)
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindConflict))
}

func TestBookSlotErrors(t *testing.T) {
	db := testDB(t)
	student := createStudent(t, db, "a@example.com")

	_, err := BookSlot(db, student.ID, uuid.New(), nil)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))

	_, slot := createCourseWithSlot(t, db, 1)
	require.NoError(t, db.Model(&slot).Update("is_active", false).Error)
	_, err = BookSlot(db, student.ID, slot.ID, nil)
	assert.True(t, utils.IsKind(err, utils.KindInvalidState))

	_, cancelled := createCourseWithSlot(t, db, 1)
	require.NoError(t, db.Model(&cancelled).Update("status", models.SlotStatusCancelled).Error)
	_, err = BookSlot(db, student.ID, cancelled.ID, nil)
	assert.True(t, utils.IsKind(err, utils.KindInvalidState))
}

// Full waitlist lifecycle: A holds the only seat, B and C queue behind it.
// A's cancellation frees the seat, promotes B and shifts C to the head.
func TestCancelConfirmedPromotesWaitlistHead(t *testing.T) {
	db := testDB(t)
	a := createStudent(t, db, "a@example.com")
	b := createStudent(t, db, "b@example.com")
	c := createStudent(t, db, "c@example.com")
	_, slot := createCourseWithSlot(t, db, 1)

	aEnrollment, err := BookSlot(db, a.ID, slot.ID, nil)
	require.NoError(t, err)
	_, err = BookSlot(db, b.ID, slot.ID, nil)
	require.NoError(t, err)
	_, err = BookSlot(db, c.ID, slot.ID, nil)
	require.NoError(t, err)

	reason := "schedule conflict"
	cancelled, err := CancelBooking(db, a.ID, aEnrollment.ID, &reason)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
	require.NotNil(t, cancelled.CancelReason)
	assert.Equal(t, reason, *cancelled.CancelReason)

	// B was promoted into the freed seat.
	var bEnrollment models.SlotEnrollment
	require.NoError(t, db.First(&bEnrollment, "slot_id = ? AND student_id = ?", slot.ID, b.ID).Error)
	assert.Equal(t, models.EnrollmentStatusConfirmed, bEnrollment.Status)
	assert.Nil(t, bEnrollment.WaitlistPosition)
	assert.True(t, bEnrollment.PromotedFromWaitlist)
	assert.NotNil(t, bEnrollment.PromotedAt)

	// C moved up to the head of the queue.
	var cEnrollment models.SlotEnrollment
	require.NoError(t, db.First(&cEnrollment, "slot_id = ? AND student_id = ?", slot.ID, c.ID).Error)
	assert.Equal(t, models.EnrollmentStatusWaitlist, cEnrollment.Status)
	require.NotNil(t, cEnrollment.WaitlistPosition)
	assert.Equal(t, 1, *cEnrollment.WaitlistPosition)

	// Seat count went 1 -> 0 -> 1 across the cancel+promote.
	assert.Equal(t, 1, reloadSlot(t, db, slot.ID).CurrentEnrollment)
}

func TestCancelWaitlistedDoesNotPromote(t *testing.T) {
	db := testDB(t)
	a := createStudent(t, db, "a@example.com")
	b := createStudent(t, db, "b@example.com")
	c := createStudent(t, db, "c@example.com")
	_, slot := createCourseWithSlot(t, db, 1)

	_, err := BookSlot(db, a.ID, slot.ID, nil)
	require.NoError(t, err)
	bEnrollment, err := BookSlot(db, b.ID, slot.ID, nil)
	require.NoError(t, err)
	_, err = BookSlot(db, c.ID, slot.ID, nil)
	require.NoError(t, err)

	_, err = CancelBooking(db, b.ID, bEnrollment.ID, nil)
	require.NoError(t, err)

	// Counter untouched, nobody promoted, C's position closed the gap.
	assert.Equal(t, 1, reloadSlot(t, db, slot.ID).CurrentEnrollment)
	assert.Equal(t, []int{1}, waitlistPositions(t, db, slot.ID))

	var cEnrollment models.SlotEnrollment
	require.NoError(t, db.First(&cEnrollment, "slot_id = ? AND student_id = ?", slot.ID, c.ID).Error)
	assert.Equal(t, models.EnrollmentStatusWaitlist, cEnrollment.Status)
	assert.False(t, cEnrollment.PromotedFromWaitlist)
}

func TestCancelIsNotRepeatable(t *testing.T) {
	db := testDB(t)
	student := createStudent(t, db, "a@example.com")
	_, slot := createCourseWithSlot(t, db, 1)

	enrollment, err := BookSlot(db, student.ID, slot.ID, nil)
	require.NoError(t, err)

	_, err = CancelBooking(db, student.ID, enrollment.ID, nil)
	require.NoError(t, err)

	_, err = CancelBooking(db, student.ID, enrollment.ID, nil)
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindInvalidState))

	// No double decrement.
	assert.Equal(t, 0, reloadSlot(t, db, slot.ID).CurrentEnrollment)
}

func TestCancelRequiresOwnership(t *testing.T) {
	db := testDB(t)
	owner := createStudent(t, db, "a@example.com")
	other := createStudent(t, db, "b@example.com")
	_, slot := createCourseWithSlot(t, db, 1)

	enrollment, err := BookSlot(db, owner.ID, slot.ID, nil)
	require.NoError(t, err)

	_, err = CancelBooking(db, other.ID, enrollment.ID, nil)
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}

func TestGetWaitlistPosition(t *testing.T) {
	db := testDB(t)
	a := createStudent(t, db, "a@example.com")
	b := createStudent(t, db, "b@example.com")
	nobody := createStudent(t, db, "c@example.com")
	_, slot := createCourseWithSlot(t, db, 1)

	_, err := BookSlot(db, a.ID, slot.ID, nil)
	require.NoError(t, err)
	_, err = BookSlot(db, b.ID, slot.ID, nil)
	require.NoError(t, err)

	status, err := GetWaitlistPosition(db, nobody.ID, slot.ID)
	require.NoError(t, err)
	assert.Nil(t, status)

	status, err = GetWaitlistPosition(db, a.ID, slot.ID)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, models.EnrollmentStatusConfirmed, status.Status)
	assert.Nil(t, status.Position)

	status, err = GetWaitlistPosition(db, b.ID, slot.ID)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, models.EnrollmentStatusWaitlist, status.Status)
	require.NotNil(t, status.Position)
	assert.Equal(t, 1, *status.Position)
}

// Hammer one slot from many goroutines: the row lock must keep the
// confirmed count at capacity and the waitlist densely numbered.
func TestConcurrentBookingNeverOverbooks(t *testing.T) {
	db := testDB(t)
	_, slot := createCourseWithSlot(t, db, 2)

	const studentCount = 10
	students := make([]uuid.UUID, studentCount)
	for i := range students {
		students[i] = createStudent(t, db, string(rune('a'+i))+"@example.com").ID
	}

	var wg sync.WaitGroup
	for _, studentID := range students {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := BookSlot(db, id, slot.ID, nil)
			assert.NoError(t, err)
		}(studentID)
	}
	wg.Wait()

	reloaded := reloadSlot(t, db, slot.ID)
	assert.Equal(t, 2, reloaded.CurrentEnrollment)

	var confirmed int64
	require.NoError(t, db.Model(&models.SlotEnrollment{}).
		Where("slot_id = ? AND status = ?", slot.ID, models.EnrollmentStatusConfirmed).
		Count(&confirmed).Error)
	assert.EqualValues(t, 2, confirmed)

	positions := waitlistPositions(t, db, slot.ID)
	require.Len(t, positions, studentCount-2)
	for i, position := range positions {
		assert.Equal(t, i+1, position)
	}
}

func TestGenerateSlotsForCourseSkipsDuplicates(t *testing.T) {
	db := testDB(t)

	course := *weekdayCourse()
	course.ID = uuid.Nil
	course.Title = "Violin Basics"
	course.Instrument = "violin"
	course.IsActive = true
	require.NoError(t, db.Create(&course).Error)

	considered, err := GenerateSlotsForCourse(db, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, considered)

	var count int64
	require.NoError(t, db.Model(&models.TimeSlot{}).Where("course_id = ?", course.ID).Count(&count).Error)
	assert.EqualValues(t, 3, count)

	// Rerunning considers the same slots but inserts nothing new.
	considered, err = GenerateSlotsForCourse(db, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, considered)

	require.NoError(t, db.Model(&models.TimeSlot{}).Where("course_id = ?", course.ID).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestGenerateSlotsForCourseValidation(t *testing.T) {
	db := testDB(t)

	_, err := GenerateSlotsForCourse(db, uuid.New())
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	course := models.Course{Title: "No Schedule", Instrument: "drums", IsActive: true}
	require.NoError(t, db.Create(&course).Error)

	_, err = GenerateSlotsForCourse(db, course.ID)
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindValidation))
}
