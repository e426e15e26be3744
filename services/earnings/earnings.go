package earnings

import (
	"context"
	"math"
	"strings"
	"time"

	booking_model "dogwalking/models/booking"
	earnings_types "dogwalking/types/earnings"

	"github.com/jinzhu/now"
)

// CommissionRate is the platform's fixed cut of every booking.
const CommissionRate = 0.13

// BookingRepository is the booking persistence the earnings derivation needs.
type BookingRepository interface {
	ListForWalker(ctx context.Context, walkerID uint, statuses []booking_model.BookingStatus) ([]booking_model.Booking, error)
}

// Service derives walker invoices and summaries from bookings. Nothing here
// is stored; earnings are recomputed from booking rows on every request.
type Service struct {
	bookings BookingRepository
}

func NewService(bookings BookingRepository) *Service {
	return &Service{bookings: bookings}
}

// invoiceStatuses are the booking statuses that produce an invoice line.
var invoiceStatuses = []booking_model.BookingStatus{
	booking_model.BookingStatusConfirmed,
	booking_model.BookingStatusInProgress,
	booking_model.BookingStatusCompleted,
	booking_model.BookingStatusDisputed,
}

// Invoices returns the walker's invoice lines and their summary.
func (s *Service) Invoices(ctx context.Context, walkerID uint) ([]earnings_types.Invoice, earnings_types.Summary, error) {
	bookings, err := s.bookings.ListForWalker(ctx, walkerID, invoiceStatuses)
	if err != nil {
		return nil, earnings_types.Summary{}, err
	}

	invoices := make([]earnings_types.Invoice, 0, len(bookings))
	for _, b := range bookings {
		invoices = append(invoices, BuildInvoice(b))
	}

	return invoices, Summarize(bookings, time.Now()), nil
}

// roundCents converts an amount to integer cents, rounding half-up away
// from zero.
func roundCents(v float64) int64 {
	if v < 0 {
		return -int64(math.Floor(-v*100 + 0.5))
	}
	return int64(math.Floor(v*100 + 0.5))
}

// Breakdown splits a booking price into gross, commission and net, all in
// integer cents. The identity gross == commission + net holds exactly.
func Breakdown(price float64) (grossCents, commissionCents, netCents int64) {
	grossCents = roundCents(price)
	commissionCents = roundCents(price * CommissionRate)
	netCents = grossCents - commissionCents
	return grossCents, commissionCents, netCents
}

// BuildInvoice derives one invoice line from a booking.
func BuildInvoice(b booking_model.Booking) earnings_types.Invoice {
	grossCents, commissionCents, netCents := Breakdown(b.Price)

	return earnings_types.Invoice{
		ID:              invoiceNumber(b.Uuid),
		Date:            b.ScheduledDate,
		DogName:         b.Dog.Name,
		ServiceType:     b.ServiceType.String(),
		DurationMinutes: b.DurationMinutes,
		GrossAmount:     centsToAmount(grossCents),
		Commission:      centsToAmount(commissionCents),
		NetAmount:       centsToAmount(netCents),
		Status:          invoiceStatus(b.Status),
	}
}

// Summarize aggregates the walker's bookings. ref anchors the calendar month
// used for the this-month figure.
func Summarize(bookings []booking_model.Booking, ref time.Time) earnings_types.Summary {
	monthStart := now.With(ref).BeginningOfMonth()
	monthEnd := now.With(ref).EndOfMonth()

	var totalGross, totalCommission, totalNet, thisMonthNet int64
	for _, b := range bookings {
		grossCents, commissionCents, netCents := Breakdown(b.Price)
		totalGross += grossCents
		totalCommission += commissionCents
		totalNet += netCents

		if !b.ScheduledDate.Before(monthStart) && !b.ScheduledDate.After(monthEnd) {
			thisMonthNet += netCents
		}
	}

	return earnings_types.Summary{
		TotalGross:      centsToAmount(totalGross),
		TotalCommission: centsToAmount(totalCommission),
		TotalNet:        centsToAmount(totalNet),
		ThisMonthNet:    centsToAmount(thisMonthNet),
		ServicesCount:   len(bookings),
	}
}

func invoiceStatus(bs booking_model.BookingStatus) earnings_types.InvoiceStatus {
	switch bs {
	case booking_model.BookingStatusCompleted:
		return earnings_types.InvoiceStatusPaid
	case booking_model.BookingStatusDisputed:
		return earnings_types.InvoiceStatusBlocked
	default:
		return earnings_types.InvoiceStatusPending
	}
}

// invoiceNumber derives a stable display id from the booking uuid.
func invoiceNumber(bookingUuid string) string {
	compact := strings.ReplaceAll(bookingUuid, "-", "")
	if len(compact) > 8 {
		compact = compact[:8]
	}
	return "FAC-" + strings.ToUpper(compact)
}

func centsToAmount(cents int64) float64 {
	return float64(cents) / 100
}
