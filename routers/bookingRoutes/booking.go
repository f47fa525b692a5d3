package bookingRoutes

import (
	bookingController "coursedesk/controllers/booking"
	bookingValidator "coursedesk/validators/booking"

	"github.com/gofiber/fiber/v2"
)

// SetupBookingRoutes wires the booking lifecycle endpoints.
func SetupBookingRoutes(app *fiber.App, ctrl *bookingController.Controller) {
	group := app.Group("/api/v1/bookings")

	group.Get("/", bookingValidator.ListBookings(), ctrl.GetBookings)
	group.Get("/stats", ctrl.GetStats)
	group.Post("/create", bookingValidator.CreateBooking(), ctrl.CreateBooking)
	group.Get("/confirm", ctrl.ConfirmPayment)
	group.Get("/my", ctrl.GetUserBookings)
	group.Get("/check", ctrl.CheckBooking)
}
