package earnings_test

import (
	"context"
	"testing"
	"time"

	booking_model "dogwalking/models/booking"
	dog_model "dogwalking/models/dog"
	"dogwalking/services/earnings"
	earnings_types "dogwalking/types/earnings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) ListForWalker(ctx context.Context, walkerID uint, statuses []booking_model.BookingStatus) ([]booking_model.Booking, error) {
	args := m.Called(ctx, walkerID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]booking_model.Booking), args.Error(1)
}

func testBooking(price float64, status booking_model.BookingStatus, date time.Time) booking_model.Booking {
	return booking_model.Booking{
		Uuid:            "a1b2c3d4-0000-4000-8000-000000000000",
		Price:           price,
		Status:          status,
		ScheduledDate:   date,
		ServiceType:     booking_model.ServiceTypeWalk,
		DurationMinutes: 60,
		Dog:             dog_model.Dog{Name: "Rex"},
	}
}

func TestBreakdown_Identity(t *testing.T) {
	for _, price := range []float64{0, 0.01, 9.99, 25.50, 100.00, 10.005, 33.33, 1234.56} {
		gross, commission, net := earnings.Breakdown(price)
		assert.Equal(t, gross, commission+net, "identity must hold for price %v", price)
	}
}

func TestBreakdown_StandardPrice(t *testing.T) {
	gross, commission, net := earnings.Breakdown(100.00)

	assert.Equal(t, int64(10000), gross)
	assert.Equal(t, int64(1300), commission)
	assert.Equal(t, int64(8700), net)
}

func TestBreakdown_HalfUpRounding(t *testing.T) {
	// 10.005 * 0.13 = 1.30065, rounds to 1.30
	_, commission, _ := earnings.Breakdown(10.005)
	assert.Equal(t, int64(130), commission)

	// 25.50 * 0.13 = 3.315, rounds half-up to 3.32
	_, commission, net := earnings.Breakdown(25.50)
	assert.Equal(t, int64(332), commission)
	assert.Equal(t, int64(2218), net)
}

func TestBreakdown_ZeroPrice(t *testing.T) {
	gross, commission, net := earnings.Breakdown(0)

	assert.Equal(t, int64(0), gross)
	assert.Equal(t, int64(0), commission)
	assert.Equal(t, int64(0), net)
}

func TestBuildInvoice(t *testing.T) {
	date := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	inv := earnings.BuildInvoice(testBooking(100.00, booking_model.BookingStatusCompleted, date))

	assert.Equal(t, "FAC-A1B2C3D4", inv.ID)
	assert.Equal(t, "Rex", inv.DogName)
	assert.Equal(t, "walk", inv.ServiceType)
	assert.Equal(t, 60, inv.DurationMinutes)
	assert.Equal(t, 100.00, inv.GrossAmount)
	assert.Equal(t, 13.00, inv.Commission)
	assert.Equal(t, 87.00, inv.NetAmount)
	assert.Equal(t, earnings_types.InvoiceStatusPaid, inv.Status)
}

func TestBuildInvoice_StatusMapping(t *testing.T) {
	date := time.Now()

	cases := []struct {
		booking booking_model.BookingStatus
		invoice earnings_types.InvoiceStatus
	}{
		{booking_model.BookingStatusCompleted, earnings_types.InvoiceStatusPaid},
		{booking_model.BookingStatusDisputed, earnings_types.InvoiceStatusBlocked},
		{booking_model.BookingStatusConfirmed, earnings_types.InvoiceStatusPending},
		{booking_model.BookingStatusInProgress, earnings_types.InvoiceStatusPending},
	}

	for _, tc := range cases {
		inv := earnings.BuildInvoice(testBooking(50, tc.booking, date))
		assert.Equal(t, tc.invoice, inv.Status, "booking status %s", tc.booking)
	}
}

func TestSummarize_MonthBoundary(t *testing.T) {
	ref := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	bookings := []booking_model.Booking{
		testBooking(100.00, booking_model.BookingStatusCompleted, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
		testBooking(100.00, booking_model.BookingStatusCompleted, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)),
		testBooking(100.00, booking_model.BookingStatusCompleted, time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)),
		testBooking(100.00, booking_model.BookingStatusCompleted, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)),
	}

	summary := earnings.Summarize(bookings, ref)

	assert.Equal(t, 400.00, summary.TotalGross)
	assert.Equal(t, 52.00, summary.TotalCommission)
	assert.Equal(t, 348.00, summary.TotalNet)
	assert.Equal(t, 174.00, summary.ThisMonthNet)
	assert.Equal(t, 4, summary.ServicesCount)
}

func TestSummarize_Empty(t *testing.T) {
	summary := earnings.Summarize(nil, time.Now())

	assert.Equal(t, 0.0, summary.TotalGross)
	assert.Equal(t, 0.0, summary.ThisMonthNet)
	assert.Equal(t, 0, summary.ServicesCount)
}

func TestInvoices_DerivesFromBookings(t *testing.T) {
	bookings := new(mockBookingRepo)
	service := earnings.NewService(bookings)

	rows := []booking_model.Booking{
		testBooking(100.00, booking_model.BookingStatusCompleted, time.Now()),
		testBooking(50.00, booking_model.BookingStatusDisputed, time.Now()),
	}
	bookings.On("ListForWalker", mock.Anything, uint(7), mock.Anything).Return(rows, nil)

	invoices, summary, err := service.Invoices(context.Background(), 7)

	assert.NoError(t, err)
	assert.Len(t, invoices, 2)
	assert.Equal(t, earnings_types.InvoiceStatusBlocked, invoices[1].Status)
	assert.Equal(t, 150.00, summary.TotalGross)
	assert.Equal(t, 2, summary.ServicesCount)
}
