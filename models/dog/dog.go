package dog

import (
	"dogwalking/models/user"
	"time"
)

// Dog belongs to an owner and is referenced by every booking.
type Dog struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Foreign key for owner relationship
	OwnerID uint      `gorm:"not null;index" json:"owner_id"`
	Owner   user.User `gorm:"foreignKey:OwnerID" json:"owner"`

	Name  string  `gorm:"type:varchar(255);not null" json:"name"`
	Breed *string `gorm:"type:varchar(255)" json:"breed,omitempty"`
	Size  *string `gorm:"type:varchar(20)" json:"size,omitempty"`
	Notes *string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}
