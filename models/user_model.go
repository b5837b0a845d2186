package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FullName string    `gorm:"size:255;not null" json:"full_name"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'student'" json:"role"`

	PhoneNumber   *string `gorm:"size:20" json:"phone_number"`
	CreditBalance float64 `gorm:"type:numeric(10,2);default:0.00" json:"credit_balance"`

	ProfilePictureURL *string `gorm:"size:255" json:"profile_picture_url"`
	TimeZone          *string `gorm:"size:100" json:"time_zone"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
