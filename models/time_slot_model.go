package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SlotStatusScheduled = "SCHEDULED"
	SlotStatusCancelled = "CANCELLED"
	SlotStatusCompleted = "COMPLETED"
)

type TimeSlot struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CourseID uuid.UUID `gorm:"not null;uniqueIndex:idx_course_start" json:"course_id"`
	RoomID   *uuid.UUID `json:"room_id"`

	SlotDate  time.Time `gorm:"not null" json:"slot_date"`
	StartTime time.Time `gorm:"not null;uniqueIndex:idx_course_start" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	MaxCapacity       int `gorm:"not null;default:1" json:"max_capacity"`
	CurrentEnrollment int `gorm:"not null;default:0" json:"current_enrollment"`

	Status   string `gorm:"size:20;not null;default:'SCHEDULED'" json:"status"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	Course Course `gorm:"foreignkey:CourseID" json:"course,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *TimeSlot) SeatsLeft() int {
	left := s.MaxCapacity - s.CurrentEnrollment
	if left < 0 {
		return 0
	}
	return left
}
