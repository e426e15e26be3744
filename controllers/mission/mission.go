package mission

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"dogwalking/logger"
	proofModel "dogwalking/models/proof"
	missionService "dogwalking/services/mission"
	analyzerService "dogwalking/services/proof_analyzer"
	"dogwalking/types"
	proofTypes "dogwalking/types/proof"
	"dogwalking/utils"

	"github.com/gofiber/fiber/v2"
)

// MissionController handles walker proof submissions
type MissionController struct {
	Logger   *logger.AsyncLogger
	Service  *missionService.Service
	Analyzer *analyzerService.AnalyzerService
}

// NewMissionController creates a new mission controller
func NewMissionController(asyncLogger *logger.AsyncLogger, service *missionService.Service, analyzer *analyzerService.AnalyzerService) *MissionController {
	return &MissionController{
		Logger:   asyncLogger,
		Service:  service,
		Analyzer: analyzer,
	}
}

func (mc *MissionController) logAPIRequest(c *fiber.Ctx, start time.Time) {
	logEntry := utils.CreateSanitizedLogEntry(c, time.Since(start).Milliseconds())
	mc.Logger.Log(logEntry)
}

func (mc *MissionController) sendResponseWithLog(c *fiber.Ctx, start time.Time, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	mc.logAPIRequest(c, start)
	return result
}

// SubmitProof receives one proof checkpoint from the walker as multipart form
// data and runs it through the submission pipeline.
func (mc *MissionController) SubmitProof(c *fiber.Ctx) error {
	start := time.Now()

	bookingID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return mc.sendResponseWithLog(c, start, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid booking id",
			Data:    nil,
		})
	}

	userInfo, err := utils.CurrentUser(c)
	if err != nil {
		return mc.sendResponseWithLog(c, start, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	var form proofTypes.SubmitProofForm
	if err := c.BodyParser(&form); err != nil {
		logger.Error("Failed to parse proof form", err)
		return mc.sendResponseWithLog(c, start, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return mc.sendResponseWithLog(c, start, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "No photo file provided",
			Data:    nil,
		})
	}

	src, err := file.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", err)
		return mc.sendResponseWithLog(c, start, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to process uploaded file",
			Data:    nil,
		})
	}
	defer src.Close()

	fileBytes, err := io.ReadAll(src)
	if err != nil {
		logger.Error("Failed to read file content", err)
		return mc.sendResponseWithLog(c, start, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to read file content",
			Data:    nil,
		})
	}

	input := missionService.SubmitProofInput{
		BookingID: uint(bookingID),
		WalkerID:  userInfo.ID,
		PhotoType: proofModel.ProofType(form.PhotoType),
		Media:     fileBytes,
	}
	if form.Caption != "" {
		input.Caption = &form.Caption
	}
	if lat, lng, ok := parseCoordinates(form.LocationLat, form.LocationLng); ok {
		input.Lat = &lat
		input.Lng = &lng
	}

	p, err := mc.Service.SubmitProof(c.Context(), input)
	if err != nil {
		status, message := mapSubmitError(err)
		if status >= fiber.StatusInternalServerError {
			logger.Error(fmt.Sprintf("Proof submission failed for booking %d", bookingID), err)
		}
		return mc.sendResponseWithLog(c, start, status, types.ApiResponse{
			Status:  status,
			Message: message,
			Data:    nil,
		})
	}

	mc.Analyzer.ScreenProofAsync(p, fileBytes, file.Header.Get("Content-Type"))

	logger.Success(fmt.Sprintf("Proof %d submitted for booking %d by walker %d", p.ID, bookingID, userInfo.ID))

	return mc.sendResponseWithLog(c, start, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Proof submitted successfully",
		Data:    p,
	})
}

// Reconcile re-derives the booking status from its proofs after a crash or
// partial failure.
func (mc *MissionController) Reconcile(c *fiber.Ctx) error {
	start := time.Now()

	bookingID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return mc.sendResponseWithLog(c, start, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid booking id",
			Data:    nil,
		})
	}

	if err := mc.Service.ReconcileStatus(c.Context(), uint(bookingID)); err != nil {
		if errors.Is(err, missionService.ErrBookingNotFound) {
			return mc.sendResponseWithLog(c, start, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Booking not found",
				Data:    nil,
			})
		}
		logger.Error(fmt.Sprintf("Failed to reconcile booking %d", bookingID), err)
		return mc.sendResponseWithLog(c, start, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to reconcile booking status",
			Data:    nil,
		})
	}

	return mc.sendResponseWithLog(c, start, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking status reconciled",
		Data:    nil,
	})
}

// mapSubmitError translates pipeline errors to HTTP statuses
func mapSubmitError(err error) (int, string) {
	switch {
	case errors.Is(err, missionService.ErrInvalidMedia),
		errors.Is(err, missionService.ErrInvalidCaption):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, missionService.ErrNotAssignedWalker):
		return fiber.StatusForbidden, "You are not the assigned walker for this booking"
	case errors.Is(err, missionService.ErrBookingNotFound):
		return fiber.StatusNotFound, "Booking not found"
	case errors.Is(err, missionService.ErrInvalidTransition),
		errors.Is(err, missionService.ErrConcurrentModification):
		return fiber.StatusConflict, err.Error()
	case errors.Is(err, missionService.ErrUploadFailed):
		return fiber.StatusBadGateway, "Failed to upload proof media"
	case errors.Is(err, missionService.ErrPersistenceFailed):
		return fiber.StatusInternalServerError, "Failed to save proof"
	default:
		return fiber.StatusInternalServerError, "Failed to submit proof"
	}
}

func parseCoordinates(latRaw, lngRaw string) (float64, float64, bool) {
	if latRaw == "" || lngRaw == "" {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return 0, 0, false
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lng, true
}
