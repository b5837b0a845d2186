package notifications

import (
	"log"

	"github.com/davinmk/music_lessons/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotifyUser records an in-app notification and dispatches the matching
// email in the background. Failures are logged, never propagated: a lost
// notification must not roll back the booking that triggered it.
func NotifyUser(db *gorm.DB, userID uuid.UUID, notifType, title, htmlBody string) {
	notification := models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   htmlBody,
	}
	if err := db.Create(&notification).Error; err != nil {
		log.Printf("🔥 Failed to store notification for user %s: %v", userID, err)
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		log.Printf("🔥 Failed to load user %s for notification email: %v", userID, err)
		return
	}

	go SendEmail(user.FullName, user.Email, title, htmlBody)
}
