package models

import (
	"time"

	"github.com/google/uuid"
)

type Payment struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	EnrollmentID *uuid.UUID `gorm:"unique" json:"enrollment_id"`

	Amount   float64 `gorm:"type:numeric(10,2);not null" json:"amount"`
	Currency string  `gorm:"size:3" json:"currency"`
	Provider string  `gorm:"size:50;not null" json:"provider"`
	Status   string  `gorm:"size:20;not null" json:"status"`

	MerchantRequestID *string `gorm:"size:255;unique" json:"merchant_request_id"`
	ProviderTxnID     *string `gorm:"size:255;unique" json:"provider_txn_id"`

	RefundStatus *string `gorm:"size:20" json:"refund_status"`
	RefundReason *string `gorm:"type:text" json:"refund_reason"`

	Enrollment SlotEnrollment `gorm:"foreignkey:EnrollmentID" json:"enrollment,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
