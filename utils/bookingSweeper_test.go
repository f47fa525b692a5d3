package utils

import (
	"fmt"
	"testing"
	"time"

	"coursedesk/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newSweeperDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Booking{}))
	return db
}

func createBookingAgedBy(t *testing.T, db *gorm.DB, age time.Duration, booking models.Booking) models.Booking {
	t.Helper()
	require.NoError(t, db.Create(&booking).Error)
	backdated := time.Now().Add(-age)
	require.NoError(t, db.Model(&models.Booking{}).Where("id = ?", booking.ID).
		Update("created_at", backdated).Error)
	return booking
}

func TestSweepAbandonedBookings(t *testing.T) {
	db := newSweeperDB(t)
	sessionStale := "BK-stale.1"
	sessionFresh := "BK-fresh.1"

	stale := createBookingAgedBy(t, db, 72*time.Hour, models.Booking{
		BookingID: "BK-stale", UserID: "u1", CourseRef: "C1", CourseName: "Intro",
		Price: 25, PaymentStatus: models.PaymentUnpaid, OrderStatus: models.OrderPending,
		SessionID: &sessionStale,
	})
	fresh := createBookingAgedBy(t, db, time.Hour, models.Booking{
		BookingID: "BK-fresh", UserID: "u2", CourseRef: "C1", CourseName: "Intro",
		Price: 25, PaymentStatus: models.PaymentUnpaid, OrderStatus: models.OrderPending,
		SessionID: &sessionFresh,
	})
	// Paid long ago; must never be touched.
	paidAt := time.Now().Add(-72 * time.Hour)
	paid := createBookingAgedBy(t, db, 72*time.Hour, models.Booking{
		BookingID: "BK-paid", UserID: "u3", CourseRef: "C1", CourseName: "Intro",
		Price: 25, PaymentStatus: models.PaymentPaid, OrderStatus: models.OrderConfirmed,
		PaidAt: &paidAt,
	})
	// Old free-course booking has no session id, so it is out of scope.
	free := createBookingAgedBy(t, db, 72*time.Hour, models.Booking{
		BookingID: "BK-free", UserID: "u4", CourseRef: "C2", CourseName: "Basics",
		Price: 0, PaymentStatus: models.PaymentPaid, OrderStatus: models.OrderConfirmed,
	})

	SweepAbandonedBookings(db)

	statuses := map[string]string{}
	var all []models.Booking
	require.NoError(t, db.Find(&all).Error)
	for _, b := range all {
		statuses[b.BookingID] = b.OrderStatus
	}

	assert.Equal(t, models.OrderCancelled, statuses[stale.BookingID])
	assert.Equal(t, models.OrderPending, statuses[fresh.BookingID])
	assert.Equal(t, models.OrderConfirmed, statuses[paid.BookingID])
	assert.Equal(t, models.OrderConfirmed, statuses[free.BookingID])
}
