package mission

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"dogwalking/logger"
	booking_model "dogwalking/models/booking"
	proof_model "dogwalking/models/proof"
	"dogwalking/repository"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	maxMediaBytes   = 50 << 20
	captionMaxLen   = 200
	lockTTL         = 30 * time.Second
	locationTimeout = 5 * time.Second
)

// BookingRepository is the booking persistence the mission pipeline needs.
type BookingRepository interface {
	GetByID(ctx context.Context, id uint) (*booking_model.Booking, error)
	UpdateStatusIf(ctx context.Context, id uint, from, to booking_model.BookingStatus, updatedBy string) error
}

// ProofRepository persists walk proofs.
type ProofRepository interface {
	Create(ctx context.Context, p *proof_model.WalkProof) error
	ListByBooking(ctx context.Context, bookingID uint) ([]proof_model.WalkProof, error)
}

// Storage uploads proof media and returns a public URL.
type Storage interface {
	Upload(path string, data []byte, contentType string) (string, error)
}

// Notifier delivers in-app notifications. Failures are logged, never fatal.
type Notifier interface {
	Notify(ctx context.Context, userID uint, title, message, ntype string, link *string) error
}

// LocationProvider resolves the walker's current position. Implementations
// may be slow or unavailable; the pipeline treats position as best effort.
type LocationProvider interface {
	CurrentPosition(ctx context.Context, walkerID uint) (lat, lng float64, err error)
}

// Service runs the proof submission pipeline: validate the media, take the
// per-booking lock, check the lifecycle precondition, upload, persist and
// advance the booking status.
type Service struct {
	bookings BookingRepository
	proofs   ProofRepository
	storage  Storage
	notifier Notifier
	locator  LocationProvider
	redis    *redis.Client
}

func NewService(bookings BookingRepository, proofs ProofRepository, storage Storage, notifier Notifier, locator LocationProvider, redisClient *redis.Client) *Service {
	return &Service{
		bookings: bookings,
		proofs:   proofs,
		storage:  storage,
		notifier: notifier,
		locator:  locator,
		redis:    redisClient,
	}
}

// SubmitProofInput carries one proof submission from the walker's device.
// Lat/Lng are the device's own fix and take precedence over the location
// provider when both coordinates are present.
type SubmitProofInput struct {
	BookingID uint
	WalkerID  uint
	PhotoType proof_model.ProofType
	Caption   *string
	Media     []byte
	Lat       *float64
	Lng       *float64
}

// SubmitProof validates and stores one piece of proof evidence, advancing the
// booking status when the checkpoint requires it. The media upload happens
// before the status update so a failed upload never leaves a half-advanced
// booking.
func (s *Service) SubmitProof(ctx context.Context, input SubmitProofInput) (*proof_model.WalkProof, error) {
	mediaType, ext, err := validateMedia(input.Media)
	if err != nil {
		return nil, err
	}
	if err := validateCaption(input.Caption); err != nil {
		return nil, err
	}
	if !input.PhotoType.IsValid() {
		return nil, fmt.Errorf("%w: unknown proof type %q", ErrInvalidMedia, input.PhotoType)
	}

	unlock, err := s.acquireLock(ctx, input.BookingID, input.WalkerID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	b, err := s.bookings.GetByID(ctx, input.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if b.WalkerID == nil || *b.WalkerID != input.WalkerID {
		return nil, ErrNotAssignedWalker
	}

	from, to, advance, err := transitionFor(input.PhotoType, b.Status)
	if err != nil {
		return nil, err
	}

	lat, lng := s.capturePosition(ctx, input)

	path := fmt.Sprintf("%d/%d/%s_%d%s", input.WalkerID, input.BookingID, input.PhotoType, time.Now().UnixNano(), ext)
	url, err := s.storage.Upload(path, input.Media, mediaType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	p := &proof_model.WalkProof{
		Uuid:        uuid.New().String(),
		BookingID:   input.BookingID,
		WalkerID:    input.WalkerID,
		PhotoURL:    url,
		PhotoType:   input.PhotoType,
		Caption:     input.Caption,
		Status:      proof_model.ProofStatusPending,
		LocationLat: lat,
		LocationLng: lng,
	}
	if err := s.proofs.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	if advance {
		updatedBy := strconv.FormatUint(uint64(input.WalkerID), 10)
		if err := s.bookings.UpdateStatusIf(ctx, input.BookingID, from, to, updatedBy); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return nil, ErrConcurrentModification
			}
			return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
		}
		s.notifyOwner(ctx, b, to)
	}

	return p, nil
}

// ReconcileStatus re-derives the booking status from its recorded proofs and
// repairs the booking row when a crash left it behind. Terminal bookings are
// never touched.
func (s *Service) ReconcileStatus(ctx context.Context, bookingID uint) error {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBookingNotFound
		}
		return err
	}
	if b.Status.IsTerminal() || b.Status == booking_model.BookingStatusCompleted {
		return nil
	}

	proofs, err := s.proofs.ListByBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	hasStart, hasEnd := false, false
	for _, p := range proofs {
		switch p.PhotoType {
		case proof_model.ProofTypeStart:
			hasStart = true
		case proof_model.ProofTypeEnd:
			hasEnd = true
		}
	}

	switch {
	case hasEnd && b.Status == booking_model.BookingStatusInProgress:
		return s.bookings.UpdateStatusIf(ctx, bookingID, b.Status, booking_model.BookingStatusCompleted, "reconcile")
	case hasStart && b.Status == booking_model.BookingStatusConfirmed:
		return s.bookings.UpdateStatusIf(ctx, bookingID, b.Status, booking_model.BookingStatusInProgress, "reconcile")
	default:
		return nil
	}
}

// transitionFor maps a proof checkpoint to its required booking status and
// the status the booking moves to.
func transitionFor(pt proof_model.ProofType, current booking_model.BookingStatus) (from, to booking_model.BookingStatus, advance bool, err error) {
	switch pt {
	case proof_model.ProofTypeStart:
		if current != booking_model.BookingStatusConfirmed {
			return "", "", false, fmt.Errorf("%w: start proof requires a confirmed booking, got %s", ErrInvalidTransition, current)
		}
		return booking_model.BookingStatusConfirmed, booking_model.BookingStatusInProgress, true, nil
	case proof_model.ProofTypeDuring:
		if current != booking_model.BookingStatusInProgress {
			return "", "", false, fmt.Errorf("%w: during proof requires a booking in progress, got %s", ErrInvalidTransition, current)
		}
		return current, current, false, nil
	case proof_model.ProofTypeEnd:
		if current != booking_model.BookingStatusInProgress {
			return "", "", false, fmt.Errorf("%w: end proof requires a booking in progress, got %s", ErrInvalidTransition, current)
		}
		return booking_model.BookingStatusInProgress, booking_model.BookingStatusCompleted, true, nil
	default:
		return "", "", false, fmt.Errorf("%w: unknown proof type %q", ErrInvalidTransition, pt)
	}
}

// acquireLock takes the per-booking transition lock in Redis. The returned
// function releases it and is safe to call even after the request context is
// cancelled.
func (s *Service) acquireLock(ctx context.Context, bookingID, walkerID uint) (func(), error) {
	key := fmt.Sprintf("mission:lock:%d", bookingID)
	value := strconv.FormatUint(uint64(walkerID), 10)

	ok, err := s.redis.SetNX(ctx, key, value, lockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire transition lock: %w", err)
	}
	if !ok {
		return nil, ErrConcurrentModification
	}

	return func() {
		if err := s.redis.Del(context.WithoutCancel(ctx), key).Err(); err != nil {
			logger.Warning(fmt.Sprintf("Failed to release transition lock %s: %v", key, err))
		}
	}, nil
}

// capturePosition resolves the proof coordinates. Device coordinates win;
// otherwise the location provider gets a bounded window. A missing position
// never blocks the submission.
func (s *Service) capturePosition(ctx context.Context, input SubmitProofInput) (*float64, *float64) {
	if input.Lat != nil && input.Lng != nil {
		return input.Lat, input.Lng
	}
	if s.locator == nil {
		return nil, nil
	}

	locCtx, cancel := context.WithTimeout(ctx, locationTimeout)
	defer cancel()

	lat, lng, err := s.locator.CurrentPosition(locCtx, input.WalkerID)
	if err != nil {
		logger.Warning(fmt.Sprintf("Could not resolve position for walker %d: %v", input.WalkerID, err))
		return nil, nil
	}
	return &lat, &lng
}

func (s *Service) notifyOwner(ctx context.Context, b *booking_model.Booking, to booking_model.BookingStatus) {
	if s.notifier == nil {
		return
	}

	var title, message string
	switch to {
	case booking_model.BookingStatusInProgress:
		title = "Walk started"
		message = fmt.Sprintf("Your walker has started the service for %s.", b.Dog.Name)
	case booking_model.BookingStatusCompleted:
		title = "Walk completed"
		message = fmt.Sprintf("The service for %s is complete. Review the proof photos.", b.Dog.Name)
	default:
		return
	}

	link := fmt.Sprintf("/bookings/%d/proofs", b.ID)
	if err := s.notifier.Notify(ctx, b.OwnerID, title, message, "mission_update", &link); err != nil {
		logger.Warning(fmt.Sprintf("Failed to notify owner %d for booking %d: %v", b.OwnerID, b.ID, err))
	}
}

// validateMedia sniffs the real content type and enforces the size limit.
// The declared filename and headers are ignored on purpose.
func validateMedia(data []byte) (contentType, extension string, err error) {
	if len(data) == 0 {
		return "", "", fmt.Errorf("%w: empty upload", ErrInvalidMedia)
	}
	if len(data) > maxMediaBytes {
		return "", "", fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidMedia, maxMediaBytes)
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") && !strings.HasPrefix(mtype.String(), "video/") {
		return "", "", fmt.Errorf("%w: detected content type %s", ErrInvalidMedia, mtype.String())
	}

	return mtype.String(), mtype.Extension(), nil
}

func validateCaption(caption *string) error {
	if caption == nil {
		return nil
	}
	if utf8.RuneCountInString(*caption) > captionMaxLen {
		return fmt.Errorf("%w: caption is %d characters, maximum is %d", ErrInvalidCaption, utf8.RuneCountInString(*caption), captionMaxLen)
	}
	return nil
}
