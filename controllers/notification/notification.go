package notification

import (
	"errors"
	"strconv"
	"time"

	"dogwalking/logger"
	"dogwalking/repository"
	notificationService "dogwalking/services/notification"
	"dogwalking/types"
	"dogwalking/utils"

	"github.com/gofiber/fiber/v2"
)

// NotificationController serves in-app notifications
type NotificationController struct {
	Logger  *logger.AsyncLogger
	Service *notificationService.Service
}

// NewNotificationController creates a new notification controller
func NewNotificationController(asyncLogger *logger.AsyncLogger, service *notificationService.Service) *NotificationController {
	return &NotificationController{
		Logger:  asyncLogger,
		Service: service,
	}
}

func (nc *NotificationController) logAPIRequest(c *fiber.Ctx, start time.Time) {
	logEntry := utils.CreateSanitizedLogEntry(c, time.Since(start).Milliseconds())
	nc.Logger.Log(logEntry)
}

func (nc *NotificationController) sendResponseWithLog(c *fiber.Ctx, start time.Time, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	nc.logAPIRequest(c, start)
	return result
}

// Index lists the caller's notifications, newest first
func (nc *NotificationController) Index(c *fiber.Ctx) error {
	start := time.Now()

	userInfo, err := utils.CurrentUser(c)
	if err != nil {
		return nc.sendResponseWithLog(c, start, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	notifications, err := nc.Service.ListForUser(c.Context(), userInfo.ID)
	if err != nil {
		logger.Error("Failed to list notifications", err)
		return nc.sendResponseWithLog(c, start, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to list notifications",
			Data:    nil,
		})
	}

	return nc.sendResponseWithLog(c, start, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Notifications retrieved successfully",
		Data:    notifications,
	})
}

// MarkRead flags one of the caller's notifications as read
func (nc *NotificationController) MarkRead(c *fiber.Ctx) error {
	start := time.Now()

	notificationID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return nc.sendResponseWithLog(c, start, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid notification id",
			Data:    nil,
		})
	}

	userInfo, err := utils.CurrentUser(c)
	if err != nil {
		return nc.sendResponseWithLog(c, start, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User not found",
			Data:    nil,
		})
	}

	if err := nc.Service.MarkRead(c.Context(), uint(notificationID), userInfo.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nc.sendResponseWithLog(c, start, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Notification not found",
				Data:    nil,
			})
		}
		logger.Error("Failed to mark notification as read", err)
		return nc.sendResponseWithLog(c, start, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to mark notification as read",
			Data:    nil,
		})
	}

	return nc.sendResponseWithLog(c, start, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Notification marked as read",
		Data:    nil,
	})
}
