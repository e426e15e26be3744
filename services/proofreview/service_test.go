package proofreview_test

import (
	"context"
	"testing"
	"time"

	booking_model "dogwalking/models/booking"
	dog_model "dogwalking/models/dog"
	proof_model "dogwalking/models/proof"
	"dogwalking/repository"
	"dogwalking/services/proofreview"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const (
	testBookingID = uint(42)
	testWalkerID  = uint(7)
	testOwnerID   = uint(3)
	testProofID   = uint(11)
)

type mockProofRepo struct {
	mock.Mock
}

func (m *mockProofRepo) GetByID(ctx context.Context, id uint) (*proof_model.WalkProof, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*proof_model.WalkProof), args.Error(1)
}

func (m *mockProofRepo) ListByBooking(ctx context.Context, bookingID uint) ([]proof_model.WalkProof, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]proof_model.WalkProof), args.Error(1)
}

func (m *mockProofRepo) DecideIf(ctx context.Context, id uint, status proof_model.ProofStatus, decidedAt time.Time, decidedBy uint) error {
	args := m.Called(ctx, id, status, decidedAt, decidedBy)
	return args.Error(0)
}

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

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, userID uint, title, message, ntype string, link *string) error {
	args := m.Called(ctx, userID, title, message, ntype, link)
	return args.Error(0)
}

func pendingProof(pt proof_model.ProofType) *proof_model.WalkProof {
	return &proof_model.WalkProof{
		ID:        testProofID,
		BookingID: testBookingID,
		WalkerID:  testWalkerID,
		PhotoType: pt,
		Status:    proof_model.ProofStatusPending,
	}
}

func completedBooking() *booking_model.Booking {
	walkerID := testWalkerID
	return &booking_model.Booking{
		ID:       testBookingID,
		OwnerID:  testOwnerID,
		WalkerID: &walkerID,
		Status:   booking_model.BookingStatusCompleted,
		Dog:      dog_model.Dog{Name: "Rex"},
	}
}

func TestDecide_Approve(t *testing.T) {
	proofs := new(mockProofRepo)
	bookings := new(mockBookingRepo)

	service := proofreview.NewService(proofs, bookings, nil)

	proofs.On("GetByID", mock.Anything, testProofID).Return(pendingProof(proof_model.ProofTypeEnd), nil)
	bookings.On("GetByID", mock.Anything, testBookingID).Return(completedBooking(), nil)
	proofs.On("DecideIf", mock.Anything, testProofID, proof_model.ProofStatusValidated,
		mock.AnythingOfType("time.Time"), testOwnerID).Return(nil)

	p, err := service.Decide(context.Background(), testProofID, true, testOwnerID)

	assert.NoError(t, err)
	if assert.NotNil(t, p) {
		assert.Equal(t, proof_model.ProofStatusValidated, p.Status)
		assert.NotNil(t, p.ValidatedAt)
		if assert.NotNil(t, p.ValidatedBy) {
			assert.Equal(t, testOwnerID, *p.ValidatedBy)
		}
	}

	bookings.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDecide_RejectEndProofDisputesBooking(t *testing.T) {
	proofs := new(mockProofRepo)
	bookings := new(mockBookingRepo)
	notifier := new(mockNotifier)

	service := proofreview.NewService(proofs, bookings, notifier)

	proofs.On("GetByID", mock.Anything, testProofID).Return(pendingProof(proof_model.ProofTypeEnd), nil)
	bookings.On("GetByID", mock.Anything, testBookingID).Return(completedBooking(), nil)
	proofs.On("DecideIf", mock.Anything, testProofID, proof_model.ProofStatusRejected,
		mock.AnythingOfType("time.Time"), testOwnerID).Return(nil)
	bookings.On("UpdateStatusIf", mock.Anything, testBookingID,
		booking_model.BookingStatusCompleted, booking_model.BookingStatusDisputed, "3").Return(nil)
	notifier.On("Notify", mock.Anything, testWalkerID, "Booking disputed", mock.AnythingOfType("string"),
		"dispute", mock.Anything).Return(nil)

	p, err := service.Decide(context.Background(), testProofID, false, testOwnerID)

	assert.NoError(t, err)
	if assert.NotNil(t, p) {
		assert.Equal(t, proof_model.ProofStatusRejected, p.Status)
	}

	bookings.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestDecide_RejectDuringProofHasNoBookingSideEffect(t *testing.T) {
	proofs := new(mockProofRepo)
	bookings := new(mockBookingRepo)

	service := proofreview.NewService(proofs, bookings, nil)

	proofs.On("GetByID", mock.Anything, testProofID).Return(pendingProof(proof_model.ProofTypeDuring), nil)
	bookings.On("GetByID", mock.Anything, testBookingID).Return(completedBooking(), nil)
	proofs.On("DecideIf", mock.Anything, testProofID, proof_model.ProofStatusRejected,
		mock.AnythingOfType("time.Time"), testOwnerID).Return(nil)

	_, err := service.Decide(context.Background(), testProofID, false, testOwnerID)

	assert.NoError(t, err)
	bookings.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDecide_AlreadyDecided(t *testing.T) {
	proofs := new(mockProofRepo)
	bookings := new(mockBookingRepo)

	service := proofreview.NewService(proofs, bookings, nil)

	decided := pendingProof(proof_model.ProofTypeEnd)
	decided.Status = proof_model.ProofStatusValidated
	proofs.On("GetByID", mock.Anything, testProofID).Return(decided, nil)
	bookings.On("GetByID", mock.Anything, testBookingID).Return(completedBooking(), nil)

	_, err := service.Decide(context.Background(), testProofID, false, testOwnerID)

	assert.ErrorIs(t, err, proofreview.ErrAlreadyDecided)
	proofs.AssertNotCalled(t, "DecideIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDecide_RaceOnDecisionReturnsAlreadyDecided(t *testing.T) {
	proofs := new(mockProofRepo)
	bookings := new(mockBookingRepo)

	service := proofreview.NewService(proofs, bookings, nil)

	proofs.On("GetByID", mock.Anything, testProofID).Return(pendingProof(proof_model.ProofTypeEnd), nil)
	bookings.On("GetByID", mock.Anything, testBookingID).Return(completedBooking(), nil)
	proofs.On("DecideIf", mock.Anything, testProofID, proof_model.ProofStatusValidated,
		mock.AnythingOfType("time.Time"), testOwnerID).Return(repository.ErrConflict)

	_, err := service.Decide(context.Background(), testProofID, true, testOwnerID)

	assert.ErrorIs(t, err, proofreview.ErrAlreadyDecided)
}

func TestDecide_NotBookingOwner(t *testing.T) {
	proofs := new(mockProofRepo)
	bookings := new(mockBookingRepo)

	service := proofreview.NewService(proofs, bookings, nil)

	proofs.On("GetByID", mock.Anything, testProofID).Return(pendingProof(proof_model.ProofTypeEnd), nil)
	bookings.On("GetByID", mock.Anything, testBookingID).Return(completedBooking(), nil)

	_, err := service.Decide(context.Background(), testProofID, true, uint(99))

	assert.ErrorIs(t, err, proofreview.ErrNotBookingOwner)
	proofs.AssertNotCalled(t, "DecideIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDecide_ProofNotFound(t *testing.T) {
	proofs := new(mockProofRepo)
	bookings := new(mockBookingRepo)

	service := proofreview.NewService(proofs, bookings, nil)

	proofs.On("GetByID", mock.Anything, testProofID).Return(nil, repository.ErrNotFound)

	_, err := service.Decide(context.Background(), testProofID, true, testOwnerID)

	assert.ErrorIs(t, err, proofreview.ErrProofNotFound)
}

func TestListProofs_EmptyBookingTolerated(t *testing.T) {
	proofs := new(mockProofRepo)

	service := proofreview.NewService(proofs, new(mockBookingRepo), nil)

	proofs.On("ListByBooking", mock.Anything, testBookingID).Return([]proof_model.WalkProof{}, nil)

	result, err := service.ListProofs(context.Background(), testBookingID)

	assert.NoError(t, err)
	assert.Empty(t, result)
}

func TestDecide_DisputeConflictDoesNotFailDecision(t *testing.T) {
	proofs := new(mockProofRepo)
	bookings := new(mockBookingRepo)
	notifier := new(mockNotifier)

	service := proofreview.NewService(proofs, bookings, notifier)

	proofs.On("GetByID", mock.Anything, testProofID).Return(pendingProof(proof_model.ProofTypeEnd), nil)
	bookings.On("GetByID", mock.Anything, testBookingID).Return(completedBooking(), nil)
	proofs.On("DecideIf", mock.Anything, testProofID, proof_model.ProofStatusRejected,
		mock.AnythingOfType("time.Time"), testOwnerID).Return(nil)
	bookings.On("UpdateStatusIf", mock.Anything, testBookingID,
		booking_model.BookingStatusCompleted, booking_model.BookingStatusDisputed, "3").
		Return(repository.ErrConflict)

	p, err := service.Decide(context.Background(), testProofID, false, testOwnerID)

	assert.NoError(t, err)
	assert.NotNil(t, p)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
