package utils

import (
	"log"
	"time"

	"coursedesk/models"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Checkout sessions expire provider-side; after this long a booking still
// waiting on one is treated as abandoned.
const pendingBookingTTL = 48 * time.Hour

// InitializeBookingSweeper starts the hourly job that cancels abandoned
// pending bookings. A cancelled booking is still flipped to Confirmed if the
// provider later reports the session paid.
func InitializeBookingSweeper(db *gorm.DB) {
	c := cron.New()

	c.AddFunc("0 * * * *", func() {
		SweepAbandonedBookings(db)
	})

	c.Start()
	log.Println("[BOOKING-SWEEPER] Booking sweeper started - runs hourly")
}

// SweepAbandonedBookings marks bookings that have waited on a checkout
// session past the TTL as Cancelled.
func SweepAbandonedBookings(db *gorm.DB) {
	cutoff := now.New(time.Now()).BeginningOfHour().Add(-pendingBookingTTL)

	res := db.Model(&models.Booking{}).
		Where("order_status = ? AND payment_status = ? AND session_id IS NOT NULL AND created_at < ?",
			models.OrderPending, models.PaymentUnpaid, cutoff).
		Update("order_status", models.OrderCancelled)
	if res.Error != nil {
		log.Printf("[BOOKING-SWEEPER] Error cancelling abandoned bookings: %v", res.Error)
		return
	}

	if res.RowsAffected > 0 {
		log.Printf("[BOOKING-SWEEPER] Cancelled %d abandoned bookings", res.RowsAffected)
	}
}
