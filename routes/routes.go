package routes

import (
	"context"
	"os"

	bookingController "dogwalking/controllers/booking"
	earningsController "dogwalking/controllers/earnings"
	missionController "dogwalking/controllers/mission"
	notificationController "dogwalking/controllers/notification"
	proofController "dogwalking/controllers/proof"
	"dogwalking/database"
	locationService "dogwalking/httpServices/location"
	storageService "dogwalking/httpServices/storage"
	"dogwalking/logger"
	"dogwalking/middleware"
	"dogwalking/repository"
	earningsSvc "dogwalking/services/earnings"
	missionSvc "dogwalking/services/mission"
	notificationSvc "dogwalking/services/notification"
	analyzerSvc "dogwalking/services/proof_analyzer"
	proofreviewSvc "dogwalking/services/proofreview"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	redisClient, err := database.InitRedis(context.Background())
	if err != nil {
		logger.Fatal("Failed to connect to Redis: " + err.Error())
	}

	storageClient := storageService.NewClient(os.Getenv("STORAGE_BASE_URL"), os.Getenv("STORAGE_BUCKET"))
	asyncLogger := logger.NewAsyncLogger(db)

	// Position lookup is optional; without a tracking service proofs carry
	// only device-supplied coordinates.
	var locator missionSvc.LocationProvider
	if trackingURL := os.Getenv("TRACKING_BASE_URL"); trackingURL != "" {
		locator = locationService.NewClient(trackingURL)
	}

	bookingRepo := repository.NewBookingRepository(db)
	proofRepo := repository.NewProofRepository(db)

	notifier := notificationSvc.NewService(db)
	missionService := missionSvc.NewService(bookingRepo, proofRepo, storageClient, notifier, locator, redisClient)
	proofreviewService := proofreviewSvc.NewService(proofRepo, bookingRepo, notifier)
	earningsService := earningsSvc.NewService(bookingRepo)
	analyzer := analyzerSvc.NewAnalyzerService(proofRepo)

	bookings := bookingController.NewBookingController(db, asyncLogger, bookingRepo, notifier)
	missions := missionController.NewMissionController(asyncLogger, missionService, analyzer)
	proofs := proofController.NewProofController(asyncLogger, bookingRepo, proofreviewService)
	earnings := earningsController.NewEarningsController(asyncLogger, earningsService)
	notifications := notificationController.NewNotificationController(asyncLogger, notifier)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	// Index route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "dogwalking",
			"status":  "ok",
		})
	})

	api := app.Group("/api")

	/*=============================================================================
	| Booking Routes
	===============================================================================*/
	bookingGroup := api.Group("/bookings")
	bookingGroup.Post("/", middleware.RequireOwner(), bookings.Store)
	bookingGroup.Get("/", middleware.RequireAuthentication(), bookings.Index)
	bookingGroup.Get("/available", middleware.RequireWalker(), bookings.Available)
	bookingGroup.Get("/today", middleware.RequireWalker(), bookings.Today)
	bookingGroup.Post("/:id/accept", middleware.RequireWalker(), bookings.Accept)
	bookingGroup.Post("/:id/cancel", middleware.RequireAuthentication(), bookings.Cancel)
	bookingGroup.Get("/:id/proofs", middleware.RequireAuthentication(), proofs.ListProofs)

	/*=============================================================================
	| Mission Routes
	===============================================================================*/
	missionGroup := api.Group("/missions")
	missionGroup.Post("/:id/proofs", middleware.RequireWalker(), missions.SubmitProof)
	missionGroup.Post("/:id/reconcile", middleware.RequireWalker(), missions.Reconcile)

	/*=============================================================================
	| Proof Review Routes
	===============================================================================*/
	proofGroup := api.Group("/proofs")
	proofGroup.Post("/:id/decide", middleware.RequireOwner(), proofs.Decide)

	/*=============================================================================
	| Earnings Routes
	===============================================================================*/
	api.Get("/earnings", middleware.RequireWalker(), earnings.Index)

	/*=============================================================================
	| Notification Routes
	===============================================================================*/
	notificationGroup := api.Group("/notifications")
	notificationGroup.Get("/", middleware.RequireAuthentication(), notifications.Index)
	notificationGroup.Post("/:id/read", middleware.RequireAuthentication(), notifications.MarkRead)
}
