package models

import (
	"time"

	"github.com/google/uuid"
)

type Building struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name     string    `gorm:"size:255;not null" json:"name"`
	Address  string    `gorm:"size:255" json:"address"`
	City     *string   `gorm:"size:100" json:"city"`
	IsActive bool      `gorm:"default:true" json:"is_active"`

	Rooms []Room `gorm:"foreignkey:BuildingID" json:"rooms,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Room struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BuildingID uuid.UUID `gorm:"not null" json:"building_id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Capacity   int       `gorm:"not null;default:1" json:"capacity"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`

	Building Building `gorm:"foreignkey:BuildingID" json:"building,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
