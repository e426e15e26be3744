package booking

import (
	"dogwalking/models/dog"
	"dogwalking/models/user"
	"time"
)

// Booking represents one scheduled service engagement between an owner and a
// walker. WalkerID stays nil until a walker accepts the booking.
type Booking struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Uuid string `gorm:"type:varchar(36);not null;unique" json:"uuid"`

	// Foreign key for owner relationship
	OwnerID uint      `gorm:"not null;index" json:"owner_id"`
	Owner   user.User `gorm:"foreignKey:OwnerID" json:"owner"`

	// Foreign key for walker relationship, assigned on acceptance
	WalkerID *uint      `gorm:"index" json:"walker_id,omitempty"`
	Walker   *user.User `gorm:"foreignKey:WalkerID" json:"walker,omitempty"`

	// Foreign key for dog relationship
	DogID uint    `gorm:"not null" json:"dog_id"`
	Dog   dog.Dog `gorm:"foreignKey:DogID" json:"dog"`

	ServiceType ServiceType   `gorm:"type:varchar(30);not null" json:"service_type"`
	Status      BookingStatus `gorm:"type:varchar(20);not null" json:"status"`

	ScheduledDate   time.Time `gorm:"type:date;not null" json:"scheduled_date"`
	ScheduledTime   string    `gorm:"type:varchar(5);not null" json:"scheduled_time"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`

	// Price is fixed at creation and never updated afterwards.
	Price float64 `gorm:"type:numeric(10,2);not null" json:"price"`

	Address string `gorm:"type:text;not null" json:"address"`
	City    string `gorm:"type:varchar(255);not null" json:"city"`

	CreatedBy string     `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedBy string     `gorm:"type:varchar(255)" json:"updated_by,omitempty"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}
