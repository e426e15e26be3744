package repository

import (
	"context"
	"errors"
	"time"

	booking_model "dogwalking/models/booking"
	"dogwalking/services/booking_event"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a conditional update matched no rows,
	// meaning another request changed the row first.
	ErrConflict = errors.New("conditional update matched no rows")
)

// BookingRepository persists bookings and their status transitions.
type BookingRepository struct {
	DB *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{DB: db}
}

func (r *BookingRepository) GetByID(ctx context.Context, id uint) (*booking_model.Booking, error) {
	var b booking_model.Booking
	err := r.DB.WithContext(ctx).
		Preload("Dog").
		Preload("Owner").
		First(&b, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) Create(ctx context.Context, b *booking_model.Booking) error {
	return r.DB.WithContext(ctx).Create(b).Error
}

// UpdateStatusIf moves the booking from one status to another only when the
// booking is still in the expected status. The update and its audit event
// commit in the same transaction; a zero-row update means another request
// won the race and ErrConflict is returned.
func (r *BookingRepository) UpdateStatusIf(ctx context.Context, id uint, from, to booking_model.BookingStatus, updatedBy string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&booking_model.Booking{}).
			Where("id = ? AND status = ?", id, from).
			Updates(map[string]interface{}{
				"status":     to,
				"updated_by": updatedBy,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrConflict
		}

		return booking_event.RecordTransition(tx, id, from, to, updatedBy)
	})
}

// AssignWalkerIf claims a pending booking for a walker. The walker_id guard
// keeps two walkers from accepting the same booking.
func (r *BookingRepository) AssignWalkerIf(ctx context.Context, id, walkerID uint, updatedBy string) error {
	from := booking_model.BookingStatusPending
	to := booking_model.BookingStatusConfirmed

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&booking_model.Booking{}).
			Where("id = ? AND status = ? AND walker_id IS NULL", id, from).
			Updates(map[string]interface{}{
				"status":     to,
				"walker_id":  walkerID,
				"updated_by": updatedBy,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrConflict
		}

		return booking_event.RecordTransition(tx, id, from, to, updatedBy)
	})
}

// CancelIf cancels a booking that has not started yet.
func (r *BookingRepository) CancelIf(ctx context.Context, id uint, updatedBy string) error {
	to := booking_model.BookingStatusCancelled

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current booking_model.Booking
		if err := tx.Select("id", "status").First(&current, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		result := tx.Model(&booking_model.Booking{}).
			Where("id = ? AND status IN ?", id, []booking_model.BookingStatus{
				booking_model.BookingStatusPending,
				booking_model.BookingStatusConfirmed,
			}).
			Updates(map[string]interface{}{
				"status":     to,
				"updated_by": updatedBy,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrConflict
		}

		return booking_event.RecordTransition(tx, id, current.Status, to, updatedBy)
	})
}

// ListForWalker returns bookings assigned to the walker, newest schedule first.
func (r *BookingRepository) ListForWalker(ctx context.Context, walkerID uint, statuses []booking_model.BookingStatus) ([]booking_model.Booking, error) {
	var bookings []booking_model.Booking
	query := r.DB.WithContext(ctx).
		Preload("Dog").
		Preload("Owner").
		Where("walker_id = ?", walkerID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	err := query.Order("scheduled_date DESC, scheduled_time DESC").Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListForWalkerOnDate returns the walker's active bookings scheduled on the
// given day, earliest first. Used for the walker's daily mission list.
func (r *BookingRepository) ListForWalkerOnDate(ctx context.Context, walkerID uint, date time.Time) ([]booking_model.Booking, error) {
	var bookings []booking_model.Booking
	err := r.DB.WithContext(ctx).
		Preload("Dog").
		Preload("Owner").
		Where("walker_id = ? AND scheduled_date = ? AND status IN ?", walkerID, date.Format("2006-01-02"), []booking_model.BookingStatus{
			booking_model.BookingStatusConfirmed,
			booking_model.BookingStatusInProgress,
		}).
		Order("scheduled_time ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListForOwner returns bookings created by the owner, newest schedule first.
func (r *BookingRepository) ListForOwner(ctx context.Context, ownerID uint, statuses []booking_model.BookingStatus) ([]booking_model.Booking, error) {
	var bookings []booking_model.Booking
	query := r.DB.WithContext(ctx).
		Preload("Dog").
		Preload("Walker").
		Where("owner_id = ?", ownerID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	err := query.Order("scheduled_date DESC, scheduled_time DESC").Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListAvailable returns unclaimed pending bookings in a city for walkers to browse.
func (r *BookingRepository) ListAvailable(ctx context.Context, city string) ([]booking_model.Booking, error) {
	var bookings []booking_model.Booking
	query := r.DB.WithContext(ctx).
		Preload("Dog").
		Preload("Owner").
		Where("status = ? AND walker_id IS NULL", booking_model.BookingStatusPending)
	if city != "" {
		query = query.Where("city = ?", city)
	}
	err := query.Order("scheduled_date ASC, scheduled_time ASC").Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
