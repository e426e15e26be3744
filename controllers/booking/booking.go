package booking

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"dogwalking/constants"
	"dogwalking/logger"
	bookingModel "dogwalking/models/booking"
	dogModel "dogwalking/models/dog"
	"dogwalking/repository"
	"dogwalking/services/booking_event"
	notificationService "dogwalking/services/notification"
	"dogwalking/types"
	bookingTypes "dogwalking/types/booking"
	"dogwalking/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingController handles booking-related HTTP requests
type BookingController struct {
	DB       *gorm.DB
	Logger   *logger.AsyncLogger
	Bookings *repository.BookingRepository
	Notifier *notificationService.Service
}

// NewBookingController creates a new booking controller
func NewBookingController(db *gorm.DB, asyncLogger *logger.AsyncLogger, bookings *repository.BookingRepository, notifier *notificationService.Service) *BookingController {
	return &BookingController{
		DB:       db,
		Logger:   asyncLogger,
		Bookings: bookings,
		Notifier: notifier,
	}
}

// Helper function to log API requests and responses
func (bc *BookingController) logAPIRequest(c *fiber.Ctx, start time.Time) {
	logEntry := utils.CreateSanitizedLogEntry(c, time.Since(start).Milliseconds())
	bc.Logger.Log(logEntry)
}

// Helper function to send response and log in one call
func (bc *BookingController) sendResponseWithLog(c *fiber.Ctx, start time.Time, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	bc.logAPIRequest(c, start)
	return result
}

// Store creates a new booking in pending status
func (bc *BookingController) Store(c *fiber.Ctx) error {
	start := time.Now()

	var req bookingTypes.BookingCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return bc.sendResponseWithLog(c, start, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return bc.sendResponseWithLog(c, start, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	serviceType := bookingModel.ServiceType(req.ServiceType)
	if !serviceType.IsValid() {
		return bc.sendResponseWithLog(c, start, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: fmt.Sprintf("Unknown service type: %s", req.ServiceType),
			Data:    nil,
		})
	}

	userInfo, err := utils.CurrentUser(c)
	if err != nil {
		return bc.sendResponseWithLog(c, start, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	// The dog must belong to the requesting owner
	var dog dogModel.Dog
	if err := bc.DB.Where("id = ? AND owner_id = ?", req.DogID, userInfo.ID).First(&dog).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bc.sendResponseWithLog(c, start, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Dog not found",
				Data:    nil,
			})
		}
		logger.Error("Database error while loading dog", err)
		return bc.sendResponseWithLog(c, start, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	scheduledDate, _ := time.Parse("2006-01-02", req.ScheduledDate)
	createdBy := strconv.FormatUint(uint64(userInfo.ID), 10)

	var booking bookingModel.Booking
	err = bc.DB.Transaction(func(tx *gorm.DB) error {
		booking = bookingModel.Booking{
			Uuid:            uuid.New().String(),
			OwnerID:         userInfo.ID,
			DogID:           dog.ID,
			ServiceType:     serviceType,
			Status:          bookingModel.BookingStatusPending,
			ScheduledDate:   scheduledDate,
			ScheduledTime:   req.ScheduledTime,
			DurationMinutes: req.DurationMinutes,
			Price:           req.Price,
			Address:         req.Address,
			City:            req.City,
			CreatedBy:       createdBy,
		}

		if err := tx.Create(&booking).Error; err != nil {
			logger.Error("Failed to create booking", err)
			return err
		}

		return booking_event.RecordTransition(tx, booking.ID, "", bookingModel.BookingStatusPending, createdBy)
	})
	if err != nil {
		return bc.sendResponseWithLog(c, start, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create booking",
			Data:    nil,
		})
	}

	booking.Dog = dog
	logger.Success(fmt.Sprintf("Booking %d created by owner %d", booking.ID, userInfo.ID))

	return bc.sendResponseWithLog(c, start, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Booking created successfully",
		Data:    booking,
	})
}

// Accept lets a walker claim a pending booking
func (bc *BookingController) Accept(c *fiber.Ctx) error {
	start := time.Now()

	bookingID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return bc.sendResponseWithLog(c, start, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid booking id",
			Data:    nil,
		})
	}

	userInfo, err := utils.CurrentUser(c)
	if err != nil {
		return bc.sendResponseWithLog(c, start, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	updatedBy := strconv.FormatUint(uint64(userInfo.ID), 10)
	err = bc.Bookings.AssignWalkerIf(c.Context(), uint(bookingID), userInfo.ID, updatedBy)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return bc.sendResponseWithLog(c, start, fiber.StatusConflict, types.ApiResponse{
				Status:  fiber.StatusConflict,
				Message: "Booking is no longer available",
				Data:    nil,
			})
		}
		logger.Error(fmt.Sprintf("Failed to accept booking %d", bookingID), err)
		return bc.sendResponseWithLog(c, start, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to accept booking",
			Data:    nil,
		})
	}

	booking, err := bc.Bookings.GetByID(c.Context(), uint(bookingID))
	if err == nil {
		message := fmt.Sprintf("%s accepted the %s booking for %s.", userInfo.LegalName, booking.ServiceType, booking.Dog.Name)
		link := fmt.Sprintf("/bookings/%d", booking.ID)
		if nerr := bc.Notifier.Notify(c.Context(), booking.OwnerID, "Booking confirmed", message, "booking_update", &link); nerr != nil {
			logger.Warning(fmt.Sprintf("Failed to notify owner %d: %v", booking.OwnerID, nerr))
		}
	}

	logger.Success(fmt.Sprintf("Booking %d accepted by walker %d", bookingID, userInfo.ID))

	return bc.sendResponseWithLog(c, start, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking accepted successfully",
		Data:    booking,
	})
}

// Cancel cancels a booking that has not started yet
func (bc *BookingController) Cancel(c *fiber.Ctx) error {
	start := time.Now()

	bookingID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return bc.sendResponseWithLog(c, start, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid booking id",
			Data:    nil,
		})
	}

	userInfo, err := utils.CurrentUser(c)
	if err != nil {
		return bc.sendResponseWithLog(c, start, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	booking, err := bc.Bookings.GetByID(c.Context(), uint(bookingID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return bc.sendResponseWithLog(c, start, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Booking not found",
				Data:    nil,
			})
		}
		return bc.sendResponseWithLog(c, start, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	isOwner := booking.OwnerID == userInfo.ID
	isAssignedWalker := booking.WalkerID != nil && *booking.WalkerID == userInfo.ID
	if !isOwner && !isAssignedWalker {
		return bc.sendResponseWithLog(c, start, fiber.StatusForbidden, types.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "Only the owner or the assigned walker can cancel this booking",
			Data:    nil,
		})
	}

	updatedBy := strconv.FormatUint(uint64(userInfo.ID), 10)
	if err := bc.Bookings.CancelIf(c.Context(), uint(bookingID), updatedBy); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return bc.sendResponseWithLog(c, start, fiber.StatusConflict, types.ApiResponse{
				Status:  fiber.StatusConflict,
				Message: fmt.Sprintf("Booking can no longer be cancelled from status %s", booking.Status),
				Data:    nil,
			})
		}
		logger.Error(fmt.Sprintf("Failed to cancel booking %d", bookingID), err)
		return bc.sendResponseWithLog(c, start, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to cancel booking",
			Data:    nil,
		})
	}

	bc.notifyCancellation(c, booking, userInfo.ID, isOwner)
	logger.Success(fmt.Sprintf("Booking %d cancelled by user %d", bookingID, userInfo.ID))

	return bc.sendResponseWithLog(c, start, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking cancelled successfully",
		Data:    nil,
	})
}

// notifyCancellation tells the counterpart about the cancellation
func (bc *BookingController) notifyCancellation(c *fiber.Ctx, booking *bookingModel.Booking, cancelledBy uint, byOwner bool) {
	var recipient uint
	if byOwner {
		if booking.WalkerID == nil {
			return
		}
		recipient = *booking.WalkerID
	} else {
		recipient = booking.OwnerID
	}

	message := fmt.Sprintf("The %s booking for %s on %s was cancelled.",
		booking.ServiceType, booking.Dog.Name, booking.ScheduledDate.Format("2006-01-02"))
	link := fmt.Sprintf("/bookings/%d", booking.ID)
	if err := bc.Notifier.Notify(c.Context(), recipient, "Booking cancelled", message, "booking_update", &link); err != nil {
		logger.Warning(fmt.Sprintf("Failed to notify user %d about cancellation of booking %d: %v", recipient, booking.ID, err))
	}
}

// Index lists bookings for the caller based on their role
func (bc *BookingController) Index(c *fiber.Ctx) error {
	start := time.Now()

	userInfo, err := utils.CurrentUser(c)
	if err != nil {
		return bc.sendResponseWithLog(c, start, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	var statuses []bookingModel.BookingStatus
	if raw := c.Query("status"); raw != "" {
		status := bookingModel.BookingStatus(raw)
		if !status.IsValid() {
			return bc.sendResponseWithLog(c, start, fiber.StatusBadRequest, types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: fmt.Sprintf("Unknown status: %s", raw),
				Data:    nil,
			})
		}
		statuses = append(statuses, status)
	}

	var bookings []bookingModel.Booking
	switch userInfo.Role {
	case constants.RoleWalker:
		bookings, err = bc.Bookings.ListForWalker(c.Context(), userInfo.ID, statuses)
	default:
		bookings, err = bc.Bookings.ListForOwner(c.Context(), userInfo.ID, statuses)
	}
	if err != nil {
		logger.Error("Failed to list bookings", err)
		return bc.sendResponseWithLog(c, start, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to list bookings",
			Data:    nil,
		})
	}

	return bc.sendResponseWithLog(c, start, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Bookings retrieved successfully",
		Data:    bookings,
	})
}

// Today lists the walker's confirmed and running missions for the current day
func (bc *BookingController) Today(c *fiber.Ctx) error {
	start := time.Now()

	userInfo, err := utils.CurrentUser(c)
	if err != nil {
		return bc.sendResponseWithLog(c, start, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	bookings, err := bc.Bookings.ListForWalkerOnDate(c.Context(), userInfo.ID, time.Now())
	if err != nil {
		logger.Error("Failed to list today's missions", err)
		return bc.sendResponseWithLog(c, start, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to list today's missions",
			Data:    nil,
		})
	}

	return bc.sendResponseWithLog(c, start, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Today's missions retrieved successfully",
		Data:    bookings,
	})
}

// Available lists unclaimed pending bookings for walkers to browse
func (bc *BookingController) Available(c *fiber.Ctx) error {
	start := time.Now()

	bookings, err := bc.Bookings.ListAvailable(c.Context(), c.Query("city"))
	if err != nil {
		logger.Error("Failed to list available bookings", err)
		return bc.sendResponseWithLog(c, start, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to list available bookings",
			Data:    nil,
		})
	}

	return bc.sendResponseWithLog(c, start, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Available bookings retrieved successfully",
		Data:    bookings,
	})
}
