package models

import (
	"time"

	"github.com/google/uuid"
)

type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StudentID uuid.UUID `gorm:"not null;uniqueIndex:idx_student_slot" json:"student_id"`
	SlotID    uuid.UUID `gorm:"not null;uniqueIndex:idx_student_slot" json:"slot_id"`

	PriceAtAdd float64 `gorm:"type:numeric(10,2);not null" json:"price_at_add"`
	Currency   string  `gorm:"size:3;not null;default:'USD'" json:"currency"`

	Slot TimeSlot `gorm:"foreignkey:SlotID" json:"slot,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
