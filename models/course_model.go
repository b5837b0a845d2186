package models

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	Instrument  string    `gorm:"size:100;not null" json:"instrument"`
	Level       *string   `gorm:"size:50" json:"level"`

	Price    float64 `gorm:"type:numeric(10,2);not null;default:0.00" json:"price"`
	Currency string  `gorm:"size:3;not null;default:'USD'" json:"currency"`

	RoomID *uuid.UUID `json:"room_id"`

	// Weekly recurrence, expanded into TimeSlots by the slot generator.
	StartDate        *time.Time `json:"start_date"`
	EndDate          *time.Time `json:"end_date"`
	DaysOfWeek       *string    `gorm:"size:20" json:"days_of_week"` // comma-separated weekday ints, e.g. "1,3,5"
	DefaultStartTime *string    `gorm:"size:5" json:"default_start_time"` // "HH:MM"
	DefaultEndTime   *string    `gorm:"size:5" json:"default_end_time"`   // "HH:MM"

	MaxStudentsPerSlot int `gorm:"not null;default:1" json:"max_students_per_slot"`

	CoverImageURL *string `gorm:"size:255" json:"cover_image_url"`
	IsActive      bool    `gorm:"default:true" json:"is_active"`

	Room Room `gorm:"foreignkey:RoomID" json:"room,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
