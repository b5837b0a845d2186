package services

import (
	"testing"

	"github.com/davinmk/music_lessons/models"
	"github.com/davinmk/music_lessons/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddToCartSnapshotsPrice(t *testing.T) {
	db := testDB(t)
	student := createStudent(t, db, "a@example.com")
	course, slot := createCourseWithSlot(t, db, 2)

	item, err := AddToCart(db, student.ID, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, course.Price, item.PriceAtAdd)
	assert.Equal(t, course.Currency, item.Currency)

	// The cart is a wishlist: nothing enrolled, no seat taken.
	assert.Equal(t, 0, reloadSlot(t, db, slot.ID).CurrentEnrollment)
	var enrollments int64
	require.NoError(t, db.Model(&models.SlotEnrollment{}).Where("slot_id = ?", slot.ID).Count(&enrollments).Error)
	assert.EqualValues(t, 0, enrollments)
}

func TestAddToCartConflicts(t *testing.T) {
	db := testDB(t)
	student := createStudent(t, db, "a@example.com")
	_, slot := createCourseWithSlot(t, db, 2)

	_, err := AddToCart(db, student.ID, slot.ID)
	require.NoError(t, err)

	_, err = AddToCart(db, student.ID, slot.ID)
	assert.True(t, utils.IsKind(err, utils.KindConflict))

	// A live enrollment also blocks adding the slot.
	other := createStudent(t, db, "b@example.com")
	_, err = BookSlot(db, other.ID, slot.ID, nil)
	require.NoError(t, err)
	_, err = AddToCart(db, other.ID, slot.ID)
	assert.True(t, utils.IsKind(err, utils.KindConflict))
}

func TestAddToCartRejectsClosedSlots(t *testing.T) {
	db := testDB(t)
	student := createStudent(t, db, "a@example.com")

	_, err := AddToCart(db, student.ID, uuid.New())
	assert.True(t, utils.IsKind(err, utils.KindNotFound))

	_, slot := createCourseWithSlot(t, db, 2)
	require.NoError(t, db.Model(&slot).Update("status", models.SlotStatusCancelled).Error)
	_, err = AddToCart(db, student.ID, slot.ID)
	assert.True(t, utils.IsKind(err, utils.KindInvalidState))
}

func TestRemoveFromCartOwnership(t *testing.T) {
	db := testDB(t)
	owner := createStudent(t, db, "a@example.com")
	other := createStudent(t, db, "b@example.com")
	_, slot := createCourseWithSlot(t, db, 2)

	item, err := AddToCart(db, owner.ID, slot.ID)
	require.NoError(t, err)

	err = RemoveFromCart(db, other.ID, item.ID)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))

	require.NoError(t, RemoveFromCart(db, owner.ID, item.ID))

	items, err := GetCart(db, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestClearCart(t *testing.T) {
	db := testDB(t)
	student := createStudent(t, db, "a@example.com")
	_, slotA := createCourseWithSlot(t, db, 2)
	_, slotB := createCourseWithSlot(t, db, 2)

	_, err := AddToCart(db, student.ID, slotA.ID)
	require.NoError(t, err)
	_, err = AddToCart(db, student.ID, slotB.ID)
	require.NoError(t, err)

	require.NoError(t, ClearCart(db, student.ID))

	items, err := GetCart(db, student.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCheckoutCartBooksAndDrains(t *testing.T) {
	db := testDB(t)
	student := createStudent(t, db, "a@example.com")
	_, slotA := createCourseWithSlot(t, db, 2)
	_, slotB := createCourseWithSlot(t, db, 2)

	_, err := AddToCart(db, student.ID, slotA.ID)
	require.NoError(t, err)
	_, err = AddToCart(db, student.ID, slotB.ID)
	require.NoError(t, err)

	results, err := CheckoutCart(db, student.ID, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, result := range results {
		assert.Empty(t, result.Error)
		require.NotNil(t, result.Enrollment)
		assert.Equal(t, models.EnrollmentStatusConfirmed, result.Enrollment.Status)
	}

	items, err := GetCart(db, student.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCheckoutCartKeepsFailedItems(t *testing.T) {
	db := testDB(t)
	student := createStudent(t, db, "a@example.com")
	_, good := createCourseWithSlot(t, db, 2)
	_, stale := createCourseWithSlot(t, db, 2)

	_, err := AddToCart(db, student.ID, good.ID)
	require.NoError(t, err)
	_, err = AddToCart(db, student.ID, stale.ID)
	require.NoError(t, err)

	// The slot goes away between add and checkout.
	require.NoError(t, db.Model(&stale).Update("is_active", false).Error)

	results, err := CheckoutCart(db, student.ID, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	items, err := GetCart(db, student.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, stale.ID, items[0].SlotID)
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := testDB(t)
	student := createStudent(t, db, "a@example.com")

	_, err := CheckoutCart(db, student.ID, nil)
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindInvalidState))
}
