package proof

import (
	"dogwalking/models/booking"
	"dogwalking/models/user"
	"time"
)

// WalkProof is a piece of photographic or video evidence tied to a booking at
// a lifecycle checkpoint. Created by the walker, decided exactly once by the
// owner, never deleted through normal flow.
type WalkProof struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Uuid string `gorm:"type:varchar(36);not null;unique" json:"uuid"`

	// Foreign key for booking relationship
	BookingID uint            `gorm:"not null;index" json:"booking_id"`
	Booking   booking.Booking `gorm:"foreignKey:BookingID" json:"booking"`

	// Foreign key for walker relationship
	WalkerID uint      `gorm:"not null" json:"walker_id"`
	Walker   user.User `gorm:"foreignKey:WalkerID" json:"walker"`

	PhotoURL  string      `gorm:"type:varchar(2048);not null" json:"photo_url"`
	PhotoType ProofType   `gorm:"size:10;not null" json:"photo_type"`
	Caption   *string     `gorm:"type:varchar(200)" json:"caption,omitempty"`
	Status    ProofStatus `gorm:"size:20;not null;default:pending" json:"status"`

	// Both coordinates are set together or not at all.
	LocationLat *float64 `gorm:"type:numeric(9,6)" json:"location_lat,omitempty"`
	LocationLng *float64 `gorm:"type:numeric(9,6)" json:"location_lng,omitempty"`

	// DogDetected is an advisory flag written by the async photo screening.
	// Nil while screening has not run or was skipped.
	DogDetected *bool `json:"dog_detected,omitempty"`

	UploadedAt  time.Time  `gorm:"autoCreateTime" json:"uploaded_at"`
	ValidatedAt *time.Time `json:"validated_at,omitempty"`
	ValidatedBy *uint      `json:"validated_by,omitempty"`
}

// TableName sets the table name for the WalkProof model
func (WalkProof) TableName() string {
	return "walk_proofs"
}
