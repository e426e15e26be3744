package mission_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	booking_model "dogwalking/models/booking"
	dog_model "dogwalking/models/dog"
	proof_model "dogwalking/models/proof"
	"dogwalking/repository"
	"dogwalking/services/mission"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const (
	testBookingID = uint(42)
	testWalkerID  = uint(7)
	testOwnerID   = uint(3)
)

// pngBytes returns a payload the content sniffer recognizes as image/png.
func pngBytes() []byte {
	return append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 64)...)
}

func confirmedBooking() *booking_model.Booking {
	walkerID := testWalkerID
	return &booking_model.Booking{
		ID:       testBookingID,
		OwnerID:  testOwnerID,
		WalkerID: &walkerID,
		Status:   booking_model.BookingStatusConfirmed,
		Dog:      dog_model.Dog{Name: "Rex"},
	}
}

func inProgressBooking() *booking_model.Booking {
	b := confirmedBooking()
	b.Status = booking_model.BookingStatusInProgress
	return b
}

func expectLock(mockRedis redismock.ClientMock) {
	mockRedis.ExpectSetNX("mission:lock:42", "7", 30*time.Second).SetVal(true)
	mockRedis.ExpectDel("mission:lock:42").SetVal(1)
}

func TestSubmitProof_StartAdvancesBooking(t *testing.T) {
	bookings := new(mockBookingRepo)
	proofs := new(mockProofRepo)
	storage := new(mockStorage)
	notifier := new(mockNotifier)
	redisClient, mockRedis := redismock.NewClientMock()

	service := mission.NewService(bookings, proofs, storage, notifier, nil, redisClient)

	expectLock(mockRedis)
	bookings.On("GetByID", mock.Anything, testBookingID).Return(confirmedBooking(), nil)
	// Media is namespaced by walker first, then booking.
	storage.On("Upload", mock.MatchedBy(func(path string) bool {
		return strings.HasPrefix(path, "7/42/start_") && strings.HasSuffix(path, ".png")
	}), pngBytes(), "image/png").
		Return("https://storage.example.com/proofs/7/42/start.png", nil)
	proofs.On("Create", mock.Anything, mock.AnythingOfType("*proof.WalkProof")).Return(nil)
	bookings.On("UpdateStatusIf", mock.Anything, testBookingID,
		booking_model.BookingStatusConfirmed, booking_model.BookingStatusInProgress, "7").Return(nil)
	notifier.On("Notify", mock.Anything, testOwnerID, "Walk started", mock.AnythingOfType("string"),
		"mission_update", mock.Anything).Return(nil)

	lat, lng := 41.39, 2.17
	caption := "Rex pulling on the leash already"
	p, err := service.SubmitProof(context.Background(), mission.SubmitProofInput{
		BookingID: testBookingID,
		WalkerID:  testWalkerID,
		PhotoType: proof_model.ProofTypeStart,
		Caption:   &caption,
		Media:     pngBytes(),
		Lat:       &lat,
		Lng:       &lng,
	})

	assert.NoError(t, err)
	if assert.NotNil(t, p) {
		assert.Equal(t, "https://storage.example.com/proofs/7/42/start.png", p.PhotoURL)
		assert.Equal(t, proof_model.ProofStatusPending, p.Status)
		assert.Equal(t, proof_model.ProofTypeStart, p.PhotoType)
		assert.NotEmpty(t, p.Uuid)
		if assert.NotNil(t, p.Caption) {
			assert.Equal(t, "Rex pulling on the leash already", *p.Caption)
		}
		if assert.NotNil(t, p.LocationLat) {
			assert.Equal(t, 41.39, *p.LocationLat)
		}
	}

	bookings.AssertExpectations(t)
	proofs.AssertExpectations(t)
	storage.AssertExpectations(t)
	notifier.AssertExpectations(t)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestSubmitProof_DuringKeepsStatus(t *testing.T) {
	bookings := new(mockBookingRepo)
	proofs := new(mockProofRepo)
	storage := new(mockStorage)
	notifier := new(mockNotifier)
	redisClient, mockRedis := redismock.NewClientMock()

	service := mission.NewService(bookings, proofs, storage, notifier, nil, redisClient)

	expectLock(mockRedis)
	bookings.On("GetByID", mock.Anything, testBookingID).Return(inProgressBooking(), nil)
	storage.On("Upload", mock.AnythingOfType("string"), pngBytes(), "image/png").
		Return("https://storage.example.com/proofs/7/42/during.png", nil)
	proofs.On("Create", mock.Anything, mock.AnythingOfType("*proof.WalkProof")).Return(nil)

	p, err := service.SubmitProof(context.Background(), mission.SubmitProofInput{
		BookingID: testBookingID,
		WalkerID:  testWalkerID,
		PhotoType: proof_model.ProofTypeDuring,
		Media:     pngBytes(),
	})

	assert.NoError(t, err)
	assert.NotNil(t, p)

	bookings.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestSubmitProof_EndRequiresInProgress(t *testing.T) {
	bookings := new(mockBookingRepo)
	proofs := new(mockProofRepo)
	storage := new(mockStorage)
	redisClient, mockRedis := redismock.NewClientMock()

	service := mission.NewService(bookings, proofs, storage, nil, nil, redisClient)

	expectLock(mockRedis)
	bookings.On("GetByID", mock.Anything, testBookingID).Return(confirmedBooking(), nil)

	p, err := service.SubmitProof(context.Background(), mission.SubmitProofInput{
		BookingID: testBookingID,
		WalkerID:  testWalkerID,
		PhotoType: proof_model.ProofTypeEnd,
		Media:     pngBytes(),
	})

	assert.ErrorIs(t, err, mission.ErrInvalidTransition)
	assert.Nil(t, p)

	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
	proofs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestSubmitProof_LockBusy(t *testing.T) {
	bookings := new(mockBookingRepo)
	proofs := new(mockProofRepo)
	redisClient, mockRedis := redismock.NewClientMock()

	service := mission.NewService(bookings, proofs, new(mockStorage), nil, nil, redisClient)

	mockRedis.ExpectSetNX("mission:lock:42", "7", 30*time.Second).SetVal(false)

	p, err := service.SubmitProof(context.Background(), mission.SubmitProofInput{
		BookingID: testBookingID,
		WalkerID:  testWalkerID,
		PhotoType: proof_model.ProofTypeStart,
		Media:     pngBytes(),
	})

	assert.ErrorIs(t, err, mission.ErrConcurrentModification)
	assert.Nil(t, p)

	bookings.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestSubmitProof_StatusConflictAfterUpload(t *testing.T) {
	bookings := new(mockBookingRepo)
	proofs := new(mockProofRepo)
	storage := new(mockStorage)
	redisClient, mockRedis := redismock.NewClientMock()

	service := mission.NewService(bookings, proofs, storage, nil, nil, redisClient)

	expectLock(mockRedis)
	bookings.On("GetByID", mock.Anything, testBookingID).Return(confirmedBooking(), nil)
	storage.On("Upload", mock.AnythingOfType("string"), pngBytes(), "image/png").
		Return("https://storage.example.com/proofs/7/42/start.png", nil)
	proofs.On("Create", mock.Anything, mock.AnythingOfType("*proof.WalkProof")).Return(nil)
	bookings.On("UpdateStatusIf", mock.Anything, testBookingID,
		booking_model.BookingStatusConfirmed, booking_model.BookingStatusInProgress, "7").
		Return(repository.ErrConflict)

	p, err := service.SubmitProof(context.Background(), mission.SubmitProofInput{
		BookingID: testBookingID,
		WalkerID:  testWalkerID,
		PhotoType: proof_model.ProofTypeStart,
		Media:     pngBytes(),
	})

	assert.ErrorIs(t, err, mission.ErrConcurrentModification)
	assert.Nil(t, p)
	proofs.AssertExpectations(t)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestSubmitProof_StatusUpdateFailureIsPersistenceError(t *testing.T) {
	bookings := new(mockBookingRepo)
	proofs := new(mockProofRepo)
	storage := new(mockStorage)
	redisClient, mockRedis := redismock.NewClientMock()

	service := mission.NewService(bookings, proofs, storage, nil, nil, redisClient)

	expectLock(mockRedis)
	bookings.On("GetByID", mock.Anything, testBookingID).Return(confirmedBooking(), nil)
	storage.On("Upload", mock.AnythingOfType("string"), pngBytes(), "image/png").
		Return("https://storage.example.com/proofs/7/42/start.png", nil)
	proofs.On("Create", mock.Anything, mock.AnythingOfType("*proof.WalkProof")).Return(nil)
	bookings.On("UpdateStatusIf", mock.Anything, testBookingID,
		booking_model.BookingStatusConfirmed, booking_model.BookingStatusInProgress, "7").
		Return(errors.New("connection reset"))

	p, err := service.SubmitProof(context.Background(), mission.SubmitProofInput{
		BookingID: testBookingID,
		WalkerID:  testWalkerID,
		PhotoType: proof_model.ProofTypeStart,
		Media:     pngBytes(),
	})

	assert.ErrorIs(t, err, mission.ErrPersistenceFailed)
	assert.Nil(t, p)
	proofs.AssertExpectations(t)
}

func TestSubmitProof_NotAssignedWalker(t *testing.T) {
	bookings := new(mockBookingRepo)
	redisClient, mockRedis := redismock.NewClientMock()

	service := mission.NewService(bookings, new(mockProofRepo), new(mockStorage), nil, nil, redisClient)

	expectLock(mockRedis)
	unassigned := confirmedBooking()
	unassigned.WalkerID = nil
	bookings.On("GetByID", mock.Anything, testBookingID).Return(unassigned, nil)

	_, err := service.SubmitProof(context.Background(), mission.SubmitProofInput{
		BookingID: testBookingID,
		WalkerID:  testWalkerID,
		PhotoType: proof_model.ProofTypeStart,
		Media:     pngBytes(),
	})

	assert.ErrorIs(t, err, mission.ErrNotAssignedWalker)
}

func TestSubmitProof_BookingNotFound(t *testing.T) {
	bookings := new(mockBookingRepo)
	redisClient, mockRedis := redismock.NewClientMock()

	service := mission.NewService(bookings, new(mockProofRepo), new(mockStorage), nil, nil, redisClient)

	expectLock(mockRedis)
	bookings.On("GetByID", mock.Anything, testBookingID).Return(nil, repository.ErrNotFound)

	_, err := service.SubmitProof(context.Background(), mission.SubmitProofInput{
		BookingID: testBookingID,
		WalkerID:  testWalkerID,
		PhotoType: proof_model.ProofTypeStart,
		Media:     pngBytes(),
	})

	assert.ErrorIs(t, err, mission.ErrBookingNotFound)
}

func TestSubmitProof_RejectsNonMediaContent(t *testing.T) {
	redisClient, _ := redismock.NewClientMock()
	service := mission.NewService(new(mockBookingRepo), new(mockProofRepo), new(mockStorage), nil, nil, redisClient)

	_, err := service.SubmitProof(context.Background(), mission.SubmitProofInput{
		BookingID: testBookingID,
		WalkerID:  testWalkerID,
		PhotoType: proof_model.ProofTypeStart,
		Media:     []byte("{\"definitely\": \"not an image\"}"),
	})

	assert.ErrorIs(t, err, mission.ErrInvalidMedia)
}

func TestSubmitProof_RejectsEmptyUpload(t *testing.T) {
	redisClient, _ := redismock.NewClientMock()
	service := mission.NewService(new(mockBookingRepo), new(mockProofRepo), new(mockStorage), nil, nil, redisClient)

	_, err := service.SubmitProof(context.Background(), mission.SubmitProofInput{
		BookingID: testBookingID,
		WalkerID:  testWalkerID,
		PhotoType: proof_model.ProofTypeStart,
		Media:     nil,
	})

	assert.ErrorIs(t, err, mission.ErrInvalidMedia)
}

func TestSubmitProof_RejectsLongCaption(t *testing.T) {
	redisClient, _ := redismock.NewClientMock()
	service := mission.NewService(new(mockBookingRepo), new(mockProofRepo), new(mockStorage), nil, nil, redisClient)

	caption := strings.Repeat("a", 201)
	_, err := service.SubmitProof(context.Background(), mission.SubmitProofInput{
		BookingID: testBookingID,
		WalkerID:  testWalkerID,
		PhotoType: proof_model.ProofTypeStart,
		Caption:   &caption,
		Media:     pngBytes(),
	})

	assert.ErrorIs(t, err, mission.ErrInvalidCaption)
}

func TestSubmitProof_UploadFailureMutatesNothing(t *testing.T) {
	bookings := new(mockBookingRepo)
	proofs := new(mockProofRepo)
	storage := new(mockStorage)
	redisClient, mockRedis := redismock.NewClientMock()

	service := mission.NewService(bookings, proofs, storage, nil, nil, redisClient)

	expectLock(mockRedis)
	bookings.On("GetByID", mock.Anything, testBookingID).Return(confirmedBooking(), nil)
	storage.On("Upload", mock.AnythingOfType("string"), pngBytes(), "image/png").
		Return("", errors.New("gateway timeout"))

	_, err := service.SubmitProof(context.Background(), mission.SubmitProofInput{
		BookingID: testBookingID,
		WalkerID:  testWalkerID,
		PhotoType: proof_model.ProofTypeStart,
		Media:     pngBytes(),
	})

	assert.ErrorIs(t, err, mission.ErrUploadFailed)
	proofs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	bookings.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitProof_LocatorFailureIsNotFatal(t *testing.T) {
	bookings := new(mockBookingRepo)
	proofs := new(mockProofRepo)
	storage := new(mockStorage)
	locator := new(mockLocator)
	redisClient, mockRedis := redismock.NewClientMock()

	service := mission.NewService(bookings, proofs, storage, nil, locator, redisClient)

	expectLock(mockRedis)
	bookings.On("GetByID", mock.Anything, testBookingID).Return(inProgressBooking(), nil)
	locator.On("CurrentPosition", mock.Anything, testWalkerID).
		Return(0.0, 0.0, errors.New("tracking service unavailable"))
	storage.On("Upload", mock.AnythingOfType("string"), pngBytes(), "image/png").
		Return("https://storage.example.com/proofs/7/42/during.png", nil)
	proofs.On("Create", mock.Anything, mock.AnythingOfType("*proof.WalkProof")).Return(nil)

	p, err := service.SubmitProof(context.Background(), mission.SubmitProofInput{
		BookingID: testBookingID,
		WalkerID:  testWalkerID,
		PhotoType: proof_model.ProofTypeDuring,
		Media:     pngBytes(),
	})

	assert.NoError(t, err)
	if assert.NotNil(t, p) {
		assert.Nil(t, p.LocationLat)
		assert.Nil(t, p.LocationLng)
	}
}

func TestSubmitProof_LocatorProvidesPosition(t *testing.T) {
	bookings := new(mockBookingRepo)
	proofs := new(mockProofRepo)
	storage := new(mockStorage)
	locator := new(mockLocator)
	redisClient, mockRedis := redismock.NewClientMock()

	service := mission.NewService(bookings, proofs, storage, nil, locator, redisClient)

	expectLock(mockRedis)
	bookings.On("GetByID", mock.Anything, testBookingID).Return(inProgressBooking(), nil)
	locator.On("CurrentPosition", mock.Anything, testWalkerID).Return(41.39, 2.17, nil)
	storage.On("Upload", mock.AnythingOfType("string"), pngBytes(), "image/png").
		Return("https://storage.example.com/proofs/7/42/during.png", nil)
	proofs.On("Create", mock.Anything, mock.AnythingOfType("*proof.WalkProof")).Return(nil)

	p, err := service.SubmitProof(context.Background(), mission.SubmitProofInput{
		BookingID: testBookingID,
		WalkerID:  testWalkerID,
		PhotoType: proof_model.ProofTypeDuring,
		Media:     pngBytes(),
	})

	assert.NoError(t, err)
	if assert.NotNil(t, p) && assert.NotNil(t, p.LocationLat) {
		assert.Equal(t, 41.39, *p.LocationLat)
		assert.Equal(t, 2.17, *p.LocationLng)
	}
}

func TestReconcileStatus_RepairsStaleBooking(t *testing.T) {
	bookings := new(mockBookingRepo)
	proofs := new(mockProofRepo)
	redisClient, _ := redismock.NewClientMock()

	service := mission.NewService(bookings, proofs, new(mockStorage), nil, nil, redisClient)

	bookings.On("GetByID", mock.Anything, testBookingID).Return(inProgressBooking(), nil)
	proofs.On("ListByBooking", mock.Anything, testBookingID).Return([]proof_model.WalkProof{
		{BookingID: testBookingID, PhotoType: proof_model.ProofTypeStart},
		{BookingID: testBookingID, PhotoType: proof_model.ProofTypeEnd},
	}, nil)
	bookings.On("UpdateStatusIf", mock.Anything, testBookingID,
		booking_model.BookingStatusInProgress, booking_model.BookingStatusCompleted, "reconcile").Return(nil)

	err := service.ReconcileStatus(context.Background(), testBookingID)

	assert.NoError(t, err)
	bookings.AssertExpectations(t)
}

func TestReconcileStatus_NoProofsNoChange(t *testing.T) {
	bookings := new(mockBookingRepo)
	proofs := new(mockProofRepo)
	redisClient, _ := redismock.NewClientMock()

	service := mission.NewService(bookings, proofs, new(mockStorage), nil, nil, redisClient)

	bookings.On("GetByID", mock.Anything, testBookingID).Return(confirmedBooking(), nil)
	proofs.On("ListByBooking", mock.Anything, testBookingID).Return([]proof_model.WalkProof{}, nil)

	err := service.ReconcileStatus(context.Background(), testBookingID)

	assert.NoError(t, err)
	bookings.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
