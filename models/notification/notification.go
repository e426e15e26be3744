package notification

import (
	"dogwalking/models/user"
	"time"
)

// Notification is an in-app message for one user. Delivery is best-effort;
// the mission pipeline never fails because a notification could not be
// written.
type Notification struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Foreign key for user relationship
	UserID uint      `gorm:"not null;index" json:"user_id"`
	User   user.User `gorm:"foreignKey:UserID" json:"user"`

	Title   string  `gorm:"type:varchar(255);not null" json:"title"`
	Message string  `gorm:"type:text;not null" json:"message"`
	Type    string  `gorm:"type:varchar(30);not null" json:"type"`
	Link    *string `gorm:"type:varchar(2048)" json:"link,omitempty"`

	Read      bool      `gorm:"type:bool;default:false" json:"read"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
