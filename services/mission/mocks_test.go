package mission_test

import (
	"context"

	booking_model "dogwalking/models/booking"
	proof_model "dogwalking/models/proof"

	"github.com/stretchr/testify/mock"
)

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id uint) (*booking_model.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking_model.Booking), args.Error(1)
}

func (m *mockBookingRepo) UpdateStatusIf(ctx context.Context, id uint, from, to booking_model.BookingStatus, updatedBy string) error {
	args := m.Called(ctx, id, from, to, updatedBy)
	return args.Error(0)
}

type mockProofRepo struct {
	mock.Mock
}

func (m *mockProofRepo) Create(ctx context.Context, p *proof_model.WalkProof) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProofRepo) ListByBooking(ctx context.Context, bookingID uint) ([]proof_model.WalkProof, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]proof_model.WalkProof), args.Error(1)
}

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) Upload(path string, data []byte, contentType string) (string, error) {
	args := m.Called(path, data, contentType)
	return args.String(0), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, userID uint, title, message, ntype string, link *string) error {
	args := m.Called(ctx, userID, title, message, ntype, link)
	return args.Error(0)
}

type mockLocator struct {
	mock.Mock
}

func (m *mockLocator) CurrentPosition(ctx context.Context, walkerID uint) (float64, float64, error) {
	args := m.Called(ctx, walkerID)
	return args.Get(0).(float64), args.Get(1).(float64), args.Error(2)
}
