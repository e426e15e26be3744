package booking

import (
	"fmt"
	"time"
)

type BookingCreateRequest struct {
	DogID           uint    `json:"dog_id" validate:"required"`
	ServiceType     string  `json:"service_type" validate:"required,oneof=walk boarding visit veterinary"`
	ScheduledDate   string  `json:"scheduled_date" validate:"required"`
	ScheduledTime   string  `json:"scheduled_time" validate:"required"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,min=15,max=1440"`
	Price           float64 `json:"price" validate:"required,min=0"`
	Address         string  `json:"address" validate:"required,min=1"`
	City            string  `json:"city" validate:"required,min=1,max=255"`
}

func (b BookingCreateRequest) Validate() error {
	if b.DogID == 0 {
		return fmt.Errorf("dog_id is required")
	}
	if b.ServiceType == "" {
		return fmt.Errorf("service_type is required")
	}
	if _, err := time.Parse("2006-01-02", b.ScheduledDate); err != nil {
		return fmt.Errorf("scheduled_date must be formatted as YYYY-MM-DD")
	}
	if _, err := time.Parse("15:04", b.ScheduledTime); err != nil {
		return fmt.Errorf("scheduled_time must be formatted as HH:MM")
	}
	if b.DurationMinutes <= 0 {
		return fmt.Errorf("duration_minutes must be positive")
	}
	if b.Price < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	if b.Address == "" {
		return fmt.Errorf("address is required")
	}
	if b.City == "" {
		return fmt.Errorf("city is required")
	}
	return nil
}
