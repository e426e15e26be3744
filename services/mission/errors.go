package mission

import "errors"

var (
	// ErrInvalidTransition means the booking is not in a status that allows
	// the requested checkpoint.
	ErrInvalidTransition = errors.New("booking status does not allow this proof type")

	// ErrInvalidMedia covers empty uploads, oversized files and content that
	// is not an image or a video.
	ErrInvalidMedia = errors.New("media must be an image or video within the size limit")

	// ErrInvalidCaption means the caption exceeds the allowed length.
	ErrInvalidCaption = errors.New("caption exceeds maximum length")

	// ErrUploadFailed wraps storage gateway failures.
	ErrUploadFailed = errors.New("failed to upload proof media")

	// ErrPersistenceFailed wraps database failures after a successful upload.
	ErrPersistenceFailed = errors.New("failed to persist proof record")

	// ErrConcurrentModification means another request holds the transition
	// lock or changed the booking status first.
	ErrConcurrentModification = errors.New("booking is being modified by another request")

	// ErrNotAssignedWalker means the caller is not the walker on the booking.
	ErrNotAssignedWalker = errors.New("walker is not assigned to this booking")

	// ErrBookingNotFound means the booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")
)
