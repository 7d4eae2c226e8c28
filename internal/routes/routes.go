// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"drover/internal/config"
	"drover/internal/handlers"
	"drover/internal/middleware"
	"drover/internal/models"
	"drover/internal/repositories"
	"drover/internal/repositories/cache"
	"drover/internal/services/auth"
	"drover/internal/services/booking"
	"drover/internal/services/capacity"
	"drover/internal/services/contract"
	"drover/internal/services/dispute"
	"drover/internal/services/escrow"
	"drover/internal/services/load"
	"drover/internal/services/notification"
	"drover/internal/services/offer"
	"drover/internal/services/trip"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Services exposes the service instances background loops need after
// route setup: the escrow sweep and offer expiry tickers run outside the
// request path.
type Services struct {
	Escrow *escrow.Service
	Offer  *offer.Service
}

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, db *gorm.DB, cacheSvc *cache.CacheService) *Services {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	loadRepo := repositories.NewLoadRepository(db)
	offerRepo := repositories.NewOfferRepository(db)
	bookingRepo := repositories.NewBookingRepository(db)
	listingRepo := repositories.NewTruckAvailabilityRepository(db)
	tripRepo := repositories.NewTripRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	disputeRepo := repositories.NewDisputeRepository(db)

	// Auth
	authService := auth.NewService(userRepo)
	authHandler := handlers.NewAuthHandler(authService)

	// Outbound notifications ride the cache's pub/sub connection.
	var notifier *notification.Service
	if cacheSvc != nil {
		notifier = notification.NewService(cacheSvc)
	}

	binder := contract.NewBinder(loadRepo, offerRepo, tripRepo, paymentRepo)
	releaseWindow := config.GetDurationEnv("AUTO_RELEASE_WINDOW", trip.DefaultReleaseWindow)

	// Domain services
	loadService := load.NewService(loadRepo)
	capacityService := capacity.NewService(listingRepo, bookingRepo, tripRepo, cacheSvc)
	offerService := offer.NewService(offerRepo, loadRepo, userRepo, binder, notifier, db)
	bookingService := booking.NewService(bookingRepo, loadRepo, offerRepo, listingRepo,
		tripRepo, capacityService, binder, notifier, db)
	tripService := trip.NewService(tripRepo, loadRepo, paymentRepo, notifier, db, releaseWindow)

	intents := escrow.NewStripeClient(config.GetEnv("STRIPE_SECRET_KEY", ""))
	escrowService := escrow.NewService(paymentRepo, tripRepo, loadRepo, disputeRepo,
		intents, notifier, db)
	disputeService := dispute.NewService(disputeRepo, tripRepo, loadRepo, paymentRepo,
		escrowService, notifier, db, releaseWindow)

	// Handlers
	loadHandler := handlers.NewLoadHandler(loadService)
	offerHandler := handlers.NewOfferHandler(offerService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	truckHandler := handlers.NewTruckHandler(capacityService)
	tripHandler := handlers.NewTripHandler(tripService)
	paymentHandler := handlers.NewPaymentHandler(escrowService)
	disputeHandler := handlers.NewDisputeHandler(disputeService)
	healthHandler := handlers.NewHealthHandler(db, cacheSvc)

	// Public routes
	api := app.Group("/api")

	api.Post("/register", authHandler.RegisterUser)
	api.Post("/login", authHandler.LoginUser)
	api.Post("/refresh", authHandler.RefreshToken)
	api.Get("/health", healthHandler.HealthCheck)

	// Provider webhooks are unauthenticated by nature.
	api.Post("/webhooks/payments", paymentHandler.ProviderWebhook)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to Drover API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})

	authMiddleware := middleware.NewAuthMiddleware(authService)

	// Protected routes with auth middleware
	protected := api.Use(authMiddleware.Handler)

	protected.Post("/change-password", authHandler.ChangePassword)
	protected.Post("/logout", authHandler.LogoutUser)

	setupLoadRoutes(protected, loadHandler, offerHandler, bookingHandler)
	setupOfferRoutes(protected, offerHandler)
	setupBookingRoutes(protected, bookingHandler)
	setupTruckRoutes(protected, truckHandler)
	setupTripRoutes(protected, tripHandler, paymentHandler)
	setupDisputeRoutes(protected, disputeHandler)
	setupAdminRoutes(app, authMiddleware, paymentHandler, disputeHandler, truckHandler)

	return &Services{Escrow: escrowService, Offer: offerService}
}

func setupLoadRoutes(router fiber.Router, h *handlers.LoadHandler, offerHandler *handlers.OfferHandler, bookingHandler *handlers.BookingHandler) {
	loads := router.Group("/loads")

	loads.Get("/open", h.GetOpenLoads)
	loads.Post("/", middleware.RequireRole(models.RoleShipper), h.CreateLoad)
	loads.Get("/mine", h.GetMyLoads)
	loads.Get("/:id", h.GetLoad)
	loads.Put("/:id", h.UpdateLoad)
	loads.Post("/:id/publish", h.PublishLoad)
	loads.Post("/:id/cancel", h.CancelLoad)

	loads.Get("/:loadId/offers", offerHandler.GetLoadOffers)
	loads.Get("/:loadId/bookings", bookingHandler.GetLoadBookings)
}

func setupOfferRoutes(router fiber.Router, h *handlers.OfferHandler) {
	offers := router.Group("/offers")

	offers.Post("/", middleware.RequireRole(models.RoleHauler), h.CreateOffer)
	offers.Get("/mine", h.GetMyOffers)
	offers.Put("/:id", h.UpdateOffer)
	offers.Post("/:id/withdraw", h.WithdrawOffer)
	offers.Post("/:id/reject", h.RejectOffer)
	offers.Post("/:id/accept", h.AcceptOffer)
	offers.Post("/:id/messages", h.SendMessage)
	offers.Get("/:id/messages", h.GetMessages)
}

func setupBookingRoutes(router fiber.Router, h *handlers.BookingHandler) {
	bookings := router.Group("/bookings")

	bookings.Post("/", middleware.RequireRole(models.RoleShipper), h.CreateBooking)
	bookings.Get("/mine", h.GetMyBookings)
	bookings.Post("/:id/respond", h.RespondBooking)
	bookings.Post("/:id/cancel", h.CancelBooking)
}

func setupTruckRoutes(router fiber.Router, h *handlers.TruckHandler) {
	trucks := router.Group("/trucks")

	trucks.Get("/search", h.SearchListings)
	trucks.Post("/", middleware.RequireRole(models.RoleHauler), h.CreateListing)
	trucks.Get("/mine", middleware.RequireRole(models.RoleHauler), h.GetMyListings)
	trucks.Get("/:id", h.GetListing)
	trucks.Post("/:id/deactivate", h.DeactivateListing)
}

func setupTripRoutes(router fiber.Router, h *handlers.TripHandler, paymentHandler *handlers.PaymentHandler) {
	trips := router.Group("/trips")

	trips.Get("/mine", h.GetMyTrips)
	trips.Get("/:id", h.GetTrip)
	trips.Post("/:id/assign-driver", h.AssignDriver)
	trips.Post("/:id/start", h.StartTrip)
	trips.Post("/:id/deliver", h.MarkDelivered)
	trips.Post("/:id/confirm", h.ConfirmDelivery)

	trips.Post("/:id/payment/intent", paymentHandler.AttachIntent)
	trips.Get("/:id/payment", paymentHandler.GetPayment)
	trips.Get("/:id/receipt", paymentHandler.GetReceipt)
	trips.Patch("/:id/payment-mode", paymentHandler.ChangePaymentMode)
}

func setupDisputeRoutes(router fiber.Router, h *handlers.DisputeHandler) {
	disputes := router.Group("/disputes")

	disputes.Post("/", h.OpenDispute)
	disputes.Get("/:id", h.GetDispute)
	disputes.Post("/:id/cancel", h.CancelDispute)
	disputes.Post("/:id/messages", h.AddMessage)
	disputes.Get("/:id/messages", h.GetMessages)

	router.Get("/trips/:tripId/disputes", h.GetTripDisputes)
}

func setupAdminRoutes(app *fiber.App, authMiddleware *middleware.AuthMiddleware, paymentHandler *handlers.PaymentHandler, disputeHandler *handlers.DisputeHandler, truckHandler *handlers.TruckHandler) {
	admin := app.Group("/api/admin", authMiddleware.Handler, middleware.AdminAuthMiddleware)

	admin.Post("/trips/:id/schedule-release", paymentHandler.ScheduleRelease)
	admin.Post("/trips/:id/clear-release", paymentHandler.ClearRelease)
	admin.Post("/trips/:id/release", paymentHandler.ReleaseNow)
	admin.Post("/payments/sweep", paymentHandler.RunSweep)

	admin.Post("/disputes/:id/review", disputeHandler.StartReview)
	admin.Post("/disputes/:id/resolve", disputeHandler.ResolveDispute)

	admin.Post("/trucks/:id/recompute", truckHandler.RecomputeListing)
}
