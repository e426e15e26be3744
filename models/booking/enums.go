package booking

// BookingStatus is the lifecycle state of a booking. Transitions move only
// forward: pending -> confirmed -> in_progress -> completed. Cancellation is
// reachable from pending/confirmed, disputed from completed.
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusDisputed   BookingStatus = "disputed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

func (bs BookingStatus) String() string {
	return string(bs)
}

func (bs BookingStatus) IsValid() bool {
	switch bs {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusInProgress,
		BookingStatusCompleted, BookingStatusDisputed, BookingStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if no further transition is allowed.
func (bs BookingStatus) IsTerminal() bool {
	return bs == BookingStatusDisputed || bs == BookingStatusCancelled
}

// CanBeCancelled returns true while the mission has not started yet.
func (bs BookingStatus) CanBeCancelled() bool {
	return bs == BookingStatusPending || bs == BookingStatusConfirmed
}

// GetAllBookingStatuses returns all valid booking statuses
func GetAllBookingStatuses() []BookingStatus {
	return []BookingStatus{
		BookingStatusPending,
		BookingStatusConfirmed,
		BookingStatusInProgress,
		BookingStatusCompleted,
		BookingStatusDisputed,
		BookingStatusCancelled,
	}
}

// ServiceType enumerates the services an owner can book.
type ServiceType string

const (
	ServiceTypeWalk       ServiceType = "walk"
	ServiceTypeBoarding   ServiceType = "boarding"
	ServiceTypeVisit      ServiceType = "visit"
	ServiceTypeVeterinary ServiceType = "veterinary"
)

func (st ServiceType) String() string {
	return string(st)
}

func (st ServiceType) IsValid() bool {
	switch st {
	case ServiceTypeWalk, ServiceTypeBoarding, ServiceTypeVisit, ServiceTypeVeterinary:
		return true
	default:
		return false
	}
}
