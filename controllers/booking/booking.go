package bookingController

import (
	"fmt"
	"log"
	"strings"
	"time"

	"coursedesk/config"
	"coursedesk/middleware"
	"coursedesk/models"
	"coursedesk/payment"
	"coursedesk/utils"
	bookingValidator "coursedesk/validators/booking"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Controller orchestrates the booking lifecycle: creation, checkout-session
// handoff and payment confirmation.
type Controller struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Provider payment.Provider // nil when checkout is not configured
	Mailer   *utils.Mailer    // nil when mail is not configured
}

func New(db *gorm.DB, cfg *config.Config, provider payment.Provider, mailer *utils.Mailer) *Controller {
	return &Controller{DB: db, Cfg: cfg, Provider: provider, Mailer: mailer}
}

// CreateBooking creates a booking for the authenticated caller. Free
// courses are confirmed immediately; paid courses get a checkout session at
// the payment provider and stay Pending until confirmed.
func (ctrl *Controller) CreateBooking(c *fiber.Ctx) error {
	userID := middleware.AuthUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Authentication required",
		})
	}

	reqData, ok := c.Locals("validatedBooking").(*bookingValidator.CreateBookingRequest)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request data",
		})
	}

	bookingID := "BK-" + uuid.NewString()

	booking := models.Booking{
		BookingID:     bookingID,
		UserID:        userID,
		StudentName:   resolveStudentName(reqData.StudentName, reqData.Email, userID),
		CourseRef:     reqData.CourseID,
		CourseName:    reqData.CourseName,
		TeacherName:   reqData.TeacherName,
		Email:         strings.TrimSpace(reqData.Email),
		Price:         reqData.Price,
		PaymentMethod: "Online",
		PaymentStatus: models.PaymentUnpaid,
		OrderStatus:   models.OrderPending,
		Notes:         reqData.Notes,
	}

	// Free courses skip the provider entirely.
	if reqData.Price == 0 {
		now := time.Now()
		booking.PaymentStatus = models.PaymentPaid
		booking.OrderStatus = models.OrderConfirmed
		booking.PaidAt = &now

		if err := ctrl.DB.Create(&booking).Error; err != nil {
			log.Printf("[BOOKING] Error saving free booking: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to create booking record",
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success":     true,
			"booking":     booking,
			"checkoutUrl": nil,
		})
	}

	if ctrl.Provider == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Payment checkout not configured on server",
		})
	}

	base := frontendBase(c, ctrl.Cfg)
	if base == "" {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Frontend URL not determined. Set FRONTEND_URL or send an Origin header.",
		})
	}

	sessionID := fmt.Sprintf("%s.%d", bookingID, time.Now().UnixNano())

	session, err := ctrl.Provider.CreateSession(payment.CreateSessionParams{
		SessionID:   sessionID,
		BookingID:   bookingID,
		CourseID:    reqData.CourseID,
		UserID:      userID,
		StudentName: booking.StudentName,
		CourseName:  reqData.CourseName,
		Email:       booking.Email,
		Amount:      reqData.Price,
		SuccessURL:  base + "/booking/success?session_id=" + sessionID,
		CancelURL:   base + "/booking/cancel",
	})
	if err != nil {
		log.Printf("[BOOKING] Provider create session error: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success": false,
			"message": "Payment provider error: " + err.Error(),
		})
	}

	booking.SessionID = &session.ID
	if session.PaymentRef != "" {
		booking.PaymentIntentID = &session.PaymentRef
	}

	// The remote session already exists at this point; a failed write
	// leaves it orphaned, which is accepted - no compensating cancellation.
	if err := ctrl.DB.Create(&booking).Error; err != nil {
		log.Printf("[BOOKING] Error saving booking after session %s: %v", session.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create booking record",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":     true,
		"booking":     booking,
		"checkoutUrl": session.URL,
	})
}

// ConfirmPayment finalizes a booking once the provider reports its session
// paid. Confirming the same session twice applies the same update, so the
// operation is idempotent.
func (ctrl *Controller) ConfirmPayment(c *fiber.Ctx) error {
	userID := middleware.AuthUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Authentication required",
		})
	}

	sessionID := c.Query("session_id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "session_id is required",
		})
	}

	if ctrl.Provider == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Payment checkout not configured on server",
		})
	}

	session, err := ctrl.Provider.RetrieveSession(sessionID)
	if err != nil {
		log.Printf("[BOOKING] Provider retrieve session error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}
	if session == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid session",
		})
	}

	if session.PaymentStatus != payment.StatusPaid {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Payment not completed",
		})
	}

	// Look up by session id first; fall back to the booking id carried in
	// the session metadata in case confirmation raced the creation write.
	var booking models.Booking
	findErr := ctrl.DB.Where("session_id = ?", sessionID).First(&booking).Error
	if findErr != nil {
		bookingID := session.Metadata["bookingId"]
		if bookingID == "" {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Booking not found",
			})
		}
		if err := ctrl.DB.Where("booking_id = ?", bookingID).First(&booking).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Booking not found",
			})
		}
	}

	wasPaid := booking.PaymentStatus == models.PaymentPaid

	now := time.Now()
	updates := map[string]interface{}{
		"payment_status": models.PaymentPaid,
		"order_status":   models.OrderConfirmed,
		"paid_at":        now,
	}
	if session.PaymentRef != "" {
		updates["payment_intent_id"] = session.PaymentRef
	}

	if err := ctrl.DB.Model(&booking).Updates(updates).Error; err != nil {
		log.Printf("[BOOKING] Error confirming booking %s: %v", booking.BookingID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error",
		})
	}

	ctrl.DB.First(&booking, booking.ID)

	if !wasPaid && ctrl.Mailer != nil {
		go ctrl.Mailer.SendBookingReceipt(booking)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"booking": booking,
	})
}

// resolveStudentName picks the display name by precedence: explicit name,
// then email, then a synthesized identifier.
func resolveStudentName(studentName, email, userID string) string {
	if name := strings.TrimSpace(studentName); name != "" {
		return name
	}
	if mail := strings.TrimSpace(email); mail != "" {
		return mail
	}
	short := userID
	if len(short) > 8 {
		short = short[:8]
	}
	return "User-" + short
}

// frontendBase resolves where the provider should send the client back to:
// explicit configuration, then the request Origin, then the request Host.
func frontendBase(c *fiber.Ctx, cfg *config.Config) string {
	if cfg.FrontendURL != "" {
		return strings.TrimRight(cfg.FrontendURL, "/")
	}
	if origin := c.Get(fiber.HeaderOrigin); origin != "" {
		return strings.TrimRight(origin, "/")
	}
	if host := c.Hostname(); host != "" {
		return strings.TrimRight(c.Protocol()+"://"+host, "/")
	}
	return ""
}
