package services

import (
	"log"

	"github.com/davinmk/music_lessons/models"
	"github.com/davinmk/music_lessons/notifications"
	"github.com/davinmk/music_lessons/websocket"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// notifyUser and broadcastSlot run after the owning transaction commits;
// neither can fail a booking.

func notifyUser(db *gorm.DB, userID uuid.UUID, notifType, title, htmlBody string) {
	notifications.NotifyUser(db, userID, notifType, title, htmlBody)
}

func broadcastSlot(db *gorm.DB, slotID uuid.UUID) {
	var slot models.TimeSlot
	if err := db.First(&slot, "id = ?", slotID).Error; err != nil {
		log.Printf("🔥 Failed to load slot %s for availability broadcast: %v", slotID, err)
		return
	}
	websocket.BroadcastAvailability(websocket.SlotUpdate{
		SlotID:            slot.ID,
		Status:            slot.Status,
		MaxCapacity:       slot.MaxCapacity,
		CurrentEnrollment: slot.CurrentEnrollment,
		SeatsLeft:         slot.SeatsLeft(),
	})
}
