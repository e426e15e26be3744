package proofreview

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"dogwalking/logger"
	booking_model "dogwalking/models/booking"
	proof_model "dogwalking/models/proof"
	"dogwalking/repository"
)

var (
	// ErrProofNotFound means the proof does not exist.
	ErrProofNotFound = errors.New("proof not found")

	// ErrAlreadyDecided means the proof has already been validated or
	// rejected; decisions are recorded exactly once.
	ErrAlreadyDecided = errors.New("proof has already been decided")

	// ErrNotBookingOwner means the caller does not own the booking.
	ErrNotBookingOwner = errors.New("only the booking owner can decide proofs")
)

// ProofRepository is the proof persistence the review flow needs.
type ProofRepository interface {
	GetByID(ctx context.Context, id uint) (*proof_model.WalkProof, error)
	ListByBooking(ctx context.Context, bookingID uint) ([]proof_model.WalkProof, error)
	DecideIf(ctx context.Context, id uint, status proof_model.ProofStatus, decidedAt time.Time, decidedBy uint) error
}

// BookingRepository is the booking persistence the review flow needs.
type BookingRepository interface {
	GetByID(ctx context.Context, id uint) (*booking_model.Booking, error)
	UpdateStatusIf(ctx context.Context, id uint, from, to booking_model.BookingStatus, updatedBy string) error
}

// Notifier delivers in-app notifications. Failures are logged, never fatal.
type Notifier interface {
	Notify(ctx context.Context, userID uint, title, message, ntype string, link *string) error
}

// Service handles owner review of submitted proofs.
type Service struct {
	proofs   ProofRepository
	bookings BookingRepository
	notifier Notifier
}

func NewService(proofs ProofRepository, bookings BookingRepository, notifier Notifier) *Service {
	return &Service{
		proofs:   proofs,
		bookings: bookings,
		notifier: notifier,
	}
}

// ListProofs returns the proofs for a booking in upload order.
func (s *Service) ListProofs(ctx context.Context, bookingID uint) ([]proof_model.WalkProof, error) {
	return s.proofs.ListByBooking(ctx, bookingID)
}

// Decide records the owner's verdict on a proof. Rejecting the end proof of a
// completed booking moves the booking to disputed and flags its payout.
func (s *Service) Decide(ctx context.Context, proofID uint, approved bool, deciderID uint) (*proof_model.WalkProof, error) {
	p, err := s.proofs.GetByID(ctx, proofID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProofNotFound
		}
		return nil, err
	}

	b, err := s.bookings.GetByID(ctx, p.BookingID)
	if err != nil {
		return nil, err
	}
	if b.OwnerID != deciderID {
		return nil, ErrNotBookingOwner
	}
	if p.Status.IsDecided() {
		return nil, ErrAlreadyDecided
	}

	status := proof_model.ProofStatusValidated
	if !approved {
		status = proof_model.ProofStatusRejected
	}

	now := time.Now()
	if err := s.proofs.DecideIf(ctx, proofID, status, now, deciderID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyDecided
		}
		return nil, err
	}

	p.Status = status
	p.ValidatedAt = &now
	p.ValidatedBy = &deciderID

	if !approved && p.PhotoType == proof_model.ProofTypeEnd {
		s.disputeBooking(ctx, b, deciderID)
	}

	return p, nil
}

// disputeBooking moves a completed booking to disputed after its end proof
// was rejected. A conflict here means the booking already left completed,
// which is fine; the decision itself stands.
func (s *Service) disputeBooking(ctx context.Context, b *booking_model.Booking, deciderID uint) {
	updatedBy := strconv.FormatUint(uint64(deciderID), 10)
	err := s.bookings.UpdateStatusIf(ctx, b.ID, booking_model.BookingStatusCompleted, booking_model.BookingStatusDisputed, updatedBy)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			logger.Warning(fmt.Sprintf("Booking %d left completed before dispute could be recorded", b.ID))
			return
		}
		logger.Error(fmt.Sprintf("Failed to dispute booking %d", b.ID), err)
		return
	}

	if s.notifier == nil || b.WalkerID == nil {
		return
	}
	link := fmt.Sprintf("/bookings/%d/proofs", b.ID)
	message := fmt.Sprintf("The owner rejected the completion proof for %s. The booking is under dispute and the payout is on hold.", b.Dog.Name)
	if err := s.notifier.Notify(ctx, *b.WalkerID, "Booking disputed", message, "dispute", &link); err != nil {
		logger.Warning(fmt.Sprintf("Failed to notify walker %d for booking %d: %v", *b.WalkerID, b.ID, err))
	}
}
