package booking_event

import (
	"fmt"

	booking_model "dogwalking/models/booking"

	"gorm.io/gorm"
)

// RecordTransition appends an audit row for a booking status change.
// It must run inside the same transaction as the status update so the
// event log never disagrees with the booking row.
func RecordTransition(tx *gorm.DB, bookingID uint, from, to booking_model.BookingStatus, updatedBy string) error {
	event := booking_model.BookingStatusEvent{
		BookingID:  bookingID,
		FromStatus: from,
		ToStatus:   to,
		CreatedBy:  updatedBy,
	}

	if err := tx.Create(&event).Error; err != nil {
		return fmt.Errorf("failed to record status event for booking %d: %w", bookingID, err)
	}

	return nil
}
