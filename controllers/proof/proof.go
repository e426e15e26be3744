package proof

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"dogwalking/logger"
	"dogwalking/repository"
	proofreviewService "dogwalking/services/proofreview"
	"dogwalking/types"
	proofTypes "dogwalking/types/proof"
	"dogwalking/utils"

	"github.com/gofiber/fiber/v2"
)

// ProofController handles proof listing and owner review decisions
type ProofController struct {
	Logger   *logger.AsyncLogger
	Bookings *repository.BookingRepository
	Service  *proofreviewService.Service
}

// NewProofController creates a new proof controller
func NewProofController(asyncLogger *logger.AsyncLogger, bookings *repository.BookingRepository, service *proofreviewService.Service) *ProofController {
	return &ProofController{
		Logger:   asyncLogger,
		Bookings: bookings,
		Service:  service,
	}
}

func (pc *ProofController) logAPIRequest(c *fiber.Ctx, start time.Time) {
	logEntry := utils.CreateSanitizedLogEntry(c, time.Since(start).Milliseconds())
	pc.Logger.Log(logEntry)
}

func (pc *ProofController) sendResponseWithLog(c *fiber.Ctx, start time.Time, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	pc.logAPIRequest(c, start)
	return result
}

// ListProofs returns all proofs for a booking in upload order. Only the
// owner or the assigned walker may see them.
func (pc *ProofController) ListProofs(c *fiber.Ctx) error {
	start := time.Now()

	bookingID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return pc.sendResponseWithLog(c, start, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid booking id",
			Data:    nil,
		})
	}

	userInfo, err := utils.CurrentUser(c)
	if err != nil {
		return pc.sendResponseWithLog(c, start, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	booking, err := pc.Bookings.GetByID(c.Context(), uint(bookingID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return pc.sendResponseWithLog(c, start, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Booking not found",
				Data:    nil,
			})
		}
		return pc.sendResponseWithLog(c, start, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	isOwner := booking.OwnerID == userInfo.ID
	isAssignedWalker := booking.WalkerID != nil && *booking.WalkerID == userInfo.ID
	if !isOwner && !isAssignedWalker {
		return pc.sendResponseWithLog(c, start, fiber.StatusForbidden, types.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "You do not have access to this booking",
			Data:    nil,
		})
	}

	proofs, err := pc.Service.ListProofs(c.Context(), uint(bookingID))
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to list proofs for booking %d", bookingID), err)
		return pc.sendResponseWithLog(c, start, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to list proofs",
			Data:    nil,
		})
	}

	return pc.sendResponseWithLog(c, start, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Proofs retrieved successfully",
		Data:    proofs,
	})
}

// Decide records the owner's verdict on a single proof
func (pc *ProofController) Decide(c *fiber.Ctx) error {
	start := time.Now()

	proofID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return pc.sendResponseWithLog(c, start, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid proof id",
			Data:    nil,
		})
	}

	var req proofTypes.DecideProofRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return pc.sendResponseWithLog(c, start, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}
	if err := req.Validate(); err != nil {
		return pc.sendResponseWithLog(c, start, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	userInfo, err := utils.CurrentUser(c)
	if err != nil {
		return pc.sendResponseWithLog(c, start, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	p, err := pc.Service.Decide(c.Context(), uint(proofID), *req.Approved, userInfo.ID)
	if err != nil {
		switch {
		case errors.Is(err, proofreviewService.ErrProofNotFound):
			return pc.sendResponseWithLog(c, start, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Proof not found",
				Data:    nil,
			})
		case errors.Is(err, proofreviewService.ErrNotBookingOwner):
			return pc.sendResponseWithLog(c, start, fiber.StatusForbidden, types.ApiResponse{
				Status:  fiber.StatusForbidden,
				Message: "Only the booking owner can decide proofs",
				Data:    nil,
			})
		case errors.Is(err, proofreviewService.ErrAlreadyDecided):
			return pc.sendResponseWithLog(c, start, fiber.StatusConflict, types.ApiResponse{
				Status:  fiber.StatusConflict,
				Message: "Proof has already been decided",
				Data:    nil,
			})
		default:
			logger.Error(fmt.Sprintf("Failed to decide proof %d", proofID), err)
			return pc.sendResponseWithLog(c, start, fiber.StatusInternalServerError, types.ApiResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Failed to record decision",
				Data:    nil,
			})
		}
	}

	logger.Success(fmt.Sprintf("Proof %d decided as %s by owner %d", proofID, p.Status, userInfo.ID))

	return pc.sendResponseWithLog(c, start, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Decision recorded successfully",
		Data:    p,
	})
}
