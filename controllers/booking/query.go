package bookingController

import (
	"log"
	"strings"
	"time"

	"coursedesk/middleware"
	"coursedesk/models"
	bookingValidator "coursedesk/validators/booking"

	"github.com/gofiber/fiber/v2"
)

// GetBookings is the admin listing: paginated, optionally filtered by order
// status and a case-insensitive search over the denormalized fields.
func (ctrl *Controller) GetBookings(c *fiber.Ctx) error {
	query, ok := c.Locals("validatedBookingList").(*bookingValidator.ListBookingsQuery)
	if !ok {
		query = &bookingValidator.ListBookingsQuery{Limit: 50, Page: 1}
	}

	db := ctrl.DB.Model(&models.Booking{})
	if query.Status != "" {
		db = db.Where("order_status = ?", query.Status)
	}
	if query.Search != "" {
		like := "%" + strings.ToLower(query.Search) + "%"
		db = db.Where(
			"LOWER(booking_id) LIKE ? OR LOWER(course_name) LIKE ? OR LOWER(teacher_name) LIKE ? OR LOWER(user_id) LIKE ? OR LOWER(student_name) LIKE ?",
			like, like, like, like, like,
		)
	}

	offset := (query.Page - 1) * query.Limit

	var bookings []models.Booking
	if err := db.Order("created_at DESC").Offset(offset).Limit(query.Limit).Find(&bookings).Error; err != nil {
		log.Printf("[BOOKING] Error fetching bookings: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Internal Server Error",
		})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"bookings": bookings,
		"meta": fiber.Map{
			"page":  query.Page,
			"limit": query.Limit,
			"count": len(bookings),
		},
	})
}

// GetUserBookings lists the caller's own bookings, newest first.
func (ctrl *Controller) GetUserBookings(c *fiber.Ctx) error {
	userID := middleware.AuthUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Unauthorized Access",
		})
	}

	var bookings []models.Booking
	if err := ctrl.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&bookings).Error; err != nil {
		log.Printf("[BOOKING] Error fetching user bookings: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Internal Server Error",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"items":   bookings,
	})
}

// CheckBooking reports whether the caller is enrolled in a course, based on
// their most recent booking for it.
func (ctrl *Controller) CheckBooking(c *fiber.Ctx) error {
	userID := middleware.AuthUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success":  false,
			"error":    "Unauthorized Access",
			"enrolled": false,
			"booking":  nil,
		})
	}

	courseID := c.Query("courseId")
	if courseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success":  false,
			"error":    "courseId is required",
			"enrolled": false,
			"booking":  nil,
		})
	}

	var booking models.Booking
	err := ctrl.DB.Where("user_id = ? AND course_ref = ?", userID, courseID).
		Order("created_at DESC").First(&booking).Error
	if err != nil {
		return c.JSON(fiber.Map{
			"success":  true,
			"message":  "You are not enrolled in this course",
			"enrolled": false,
			"booking":  nil,
		})
	}

	// A confirmed order counts as enrollment even when paymentStatus never
	// flipped, so manually fixed rows still pass.
	orderStatus := strings.ToLower(booking.OrderStatus)
	enrolled := booking.PaymentStatus == models.PaymentPaid ||
		orderStatus == "paid" ||
		orderStatus == "confirmed" ||
		booking.PaidAt != nil

	message := "You are not enrolled in this course"
	if enrolled {
		message = "You are enrolled in this course"
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  message,
		"enrolled": enrolled,
		"booking":  booking,
	})
}

// topCourse is one row of the booking-count leaderboard.
type topCourse struct {
	CourseName string  `json:"courseName"`
	Count      int64   `json:"count"`
	Revenue    float64 `json:"revenue"`
}

// GetStats returns aggregate booking statistics for the admin dashboard.
func (ctrl *Controller) GetStats(c *fiber.Ctx) error {
	var totalBookings int64
	if err := ctrl.DB.Model(&models.Booking{}).Count(&totalBookings).Error; err != nil {
		log.Printf("[BOOKING] Error counting bookings: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Internal Server Error",
		})
	}

	var totalRevenue float64
	ctrl.DB.Model(&models.Booking{}).
		Where("payment_status = ?", models.PaymentPaid).
		Select("COALESCE(SUM(price), 0)").
		Scan(&totalRevenue)

	sevenDaysAgo := time.Now().AddDate(0, 0, -7)
	var bookingsLastSevenDays int64
	ctrl.DB.Model(&models.Booking{}).
		Where("created_at >= ?", sevenDaysAgo).
		Count(&bookingsLastSevenDays)

	topCourses := []topCourse{}
	ctrl.DB.Model(&models.Booking{}).
		Select("course_name, COUNT(*) AS count, COALESCE(SUM(price), 0) AS revenue").
		Group("course_name").
		Order("count DESC").
		Limit(6).
		Scan(&topCourses)

	return c.JSON(fiber.Map{
		"success": true,
		"stats": fiber.Map{
			"totalBookings":         totalBookings,
			"totalRevenue":          totalRevenue,
			"bookingsLastSevenDays": bookingsLastSevenDays,
			"topCourses":            topCourses,
		},
	})
}
