package services

import (
	"errors"

	"github.com/davinmk/music_lessons/models"
	"github.com/davinmk/music_lessons/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AddToCart puts a slot in the student's cart, snapshotting the course
// price. The cart is a wishlist: no slot or enrollment state changes.
func AddToCart(db *gorm.DB, studentID, slotID uuid.UUID) (*models.CartItem, error) {
	var slot models.TimeSlot
	if err := db.Preload("Course").First(&slot, "id = ?", slotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("time slot not found")
		}
		return nil, err
	}
	if !slot.IsActive || slot.Status != models.SlotStatusScheduled {
		return nil, utils.InvalidState("this slot is no longer open for booking")
	}

	var count int64
	if err := db.Model(&models.CartItem{}).
		Where("student_id = ? AND slot_id = ?", studentID, slotID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.Conflict("this slot is already in your cart")
	}

	exists, err := activeEnrollmentExists(db, slotID, studentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, utils.Conflict("you already have an active booking for this slot")
	}

	item := models.CartItem{
		StudentID:  studentID,
		SlotID:     slotID,
		PriceAtAdd: slot.Course.Price,
		Currency:   slot.Course.Currency,
	}
	if err := db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func GetCart(db *gorm.DB, studentID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	err := db.Preload("Slot.Course").
		Where("student_id = ?", studentID).
		Order("created_at asc").
		Find(&items).Error
	return items, err
}

func RemoveFromCart(db *gorm.DB, studentID, itemID uuid.UUID) error {
	var item models.CartItem
	if err := db.First(&item, "id = ? AND student_id = ?", itemID, studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound("cart item not found")
		}
		return err
	}
	return db.Delete(&item).Error
}

func ClearCart(db *gorm.DB, studentID uuid.UUID) error {
	return db.Where("student_id = ?", studentID).Delete(&models.CartItem{}).Error
}

type CheckoutResult struct {
	SlotID     uuid.UUID              `json:"slot_id"`
	Enrollment *models.SlotEnrollment `json:"enrollment,omitempty"`
	Error      string                 `json:"error,omitempty"`
}

// CheckoutCart books every slot in the cart. Each booking runs in its own
// transaction; items that book successfully leave the cart, items that
// fail stay in it with the failure reported per item.
func CheckoutCart(db *gorm.DB, studentID uuid.UUID, paymentID *uuid.UUID) ([]CheckoutResult, error) {
	items, err := GetCart(db, studentID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, utils.InvalidState("your cart is empty")
	}

	results := make([]CheckoutResult, 0, len(items))
	for _, item := range items {
		enrollment, err := BookSlot(db, studentID, item.SlotID, paymentID)
		if err != nil {
			results = append(results, CheckoutResult{SlotID: item.SlotID, Error: err.Error()})
			continue
		}
		if err := db.Delete(&models.CartItem{}, "id = ?", item.ID).Error; err != nil {
			return nil, err
		}
		results = append(results, CheckoutResult{SlotID: item.SlotID, Enrollment: enrollment})
	}
	return results, nil
}
