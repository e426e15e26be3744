package earnings

import (
	"time"

	"dogwalking/logger"
	earningsService "dogwalking/services/earnings"
	"dogwalking/types"
	"dogwalking/utils"

	"github.com/gofiber/fiber/v2"
)

// EarningsController serves walker invoices and earnings summaries
type EarningsController struct {
	Logger  *logger.AsyncLogger
	Service *earningsService.Service
}

// NewEarningsController creates a new earnings controller
func NewEarningsController(asyncLogger *logger.AsyncLogger, service *earningsService.Service) *EarningsController {
	return &EarningsController{
		Logger:  asyncLogger,
		Service: service,
	}
}

func (ec *EarningsController) logAPIRequest(c *fiber.Ctx, start time.Time) {
	logEntry := utils.CreateSanitizedLogEntry(c, time.Since(start).Milliseconds())
	ec.Logger.Log(logEntry)
}

func (ec *EarningsController) sendResponseWithLog(c *fiber.Ctx, start time.Time, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	ec.logAPIRequest(c, start)
	return result
}

// Index returns the walker's derived invoices and their summary
func (ec *EarningsController) Index(c *fiber.Ctx) error {
	start := time.Now()

	userInfo, err := utils.CurrentUser(c)
	if err != nil {
		return ec.sendResponseWithLog(c, start, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	invoices, summary, err := ec.Service.Invoices(c.Context(), userInfo.ID)
	if err != nil {
		logger.Error("Failed to derive earnings", err)
		return ec.sendResponseWithLog(c, start, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to derive earnings",
			Data:    nil,
		})
	}

	return ec.sendResponseWithLog(c, start, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Earnings retrieved successfully",
		Data: fiber.Map{
			"invoices": invoices,
			"summary":  summary,
		},
	})
}
