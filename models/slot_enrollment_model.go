package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	EnrollmentStatusConfirmed = "CONFIRMED"
	EnrollmentStatusWaitlist  = "WAITLIST"
	EnrollmentStatusCancelled = "CANCELLED"
	EnrollmentStatusCompleted = "COMPLETED"
)

// SlotEnrollment is a student's claim on a slot, confirmed or waitlisted.
// At most one non-cancelled row exists per (slot, student); the booking
// service enforces this inside its transaction.
type SlotEnrollment struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SlotID    uuid.UUID `gorm:"not null;index" json:"slot_id"`
	StudentID uuid.UUID `gorm:"not null;index" json:"student_id"`

	Status string `gorm:"size:20;not null;default:'CONFIRMED'" json:"status"`

	// Dense 1..N rank among WAITLIST rows of the slot; nil otherwise.
	WaitlistPosition *int `json:"waitlist_position"`

	CancelledAt  *time.Time `json:"cancelled_at"`
	CancelledBy  *uuid.UUID `json:"cancelled_by"`
	CancelReason *string    `gorm:"type:text" json:"cancel_reason"`

	PromotedAt           *time.Time `json:"promoted_at"`
	PromotedFromWaitlist bool       `gorm:"default:false" json:"promoted_from_waitlist"`

	PaymentID *uuid.UUID `json:"payment_id"`

	Slot    TimeSlot `gorm:"foreignkey:SlotID" json:"slot,omitempty"`
	Student User     `gorm:"foreignkey:StudentID" json:"student,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *SlotEnrollment) IsTerminal() bool {
	return e.Status == EnrollmentStatusCancelled || e.Status == EnrollmentStatusCompleted
}
