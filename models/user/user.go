package user

import (
	"time"
)

// User represents an account on the platform. A user acts either as a pet
// owner who books services or as a walker who executes them.
type User struct {
	ID            uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Uuid          string  `gorm:"type:varchar(36);not null;unique" json:"uuid"`
	Username      string  `gorm:"type:varchar(255);not null;unique" json:"username"`
	LegalName     string  `gorm:"type:varchar(255);not null" json:"legal_name"`
	Phone         string  `gorm:"type:varchar(20);not null;unique" json:"phone"`
	PhoneVerified bool    `gorm:"type:bool;default:false" json:"phone_verified"`
	Email         *string `gorm:"type:varchar(255);unique" json:"email,omitempty"`
	Avatar        string  `gorm:"type:varchar(2048)" json:"avatar"`

	Role Role     `gorm:"type:varchar(20);not null" json:"role"`
	City *string  `gorm:"type:varchar(255)" json:"city,omitempty"`
	Bio  *string  `gorm:"type:text" json:"bio,omitempty"`

	// Rating is the averaged review score for walkers. Nil until the first
	// review lands.
	Rating *float64 `gorm:"type:numeric(3,2)" json:"rating,omitempty"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// Role distinguishes the two sides of the marketplace.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleWalker Role = "walker"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleWalker:
		return true
	default:
		return false
	}
}

// DisplayRating returns the rating shown in listings. Unrated walkers get a
// neutral 5.0 so they are not buried below rated ones.
func (u *User) DisplayRating() float64 {
	if u.Rating == nil {
		return 5.0
	}
	return *u.Rating
}
