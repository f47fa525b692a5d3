package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment status values
const (
	PaymentUnpaid = "Unpaid"
	PaymentPaid   = "Paid"
)

// Order status values
const (
	OrderPending   = "Pending"
	OrderConfirmed = "Confirmed"
	OrderCancelled = "Cancelled"
	OrderCompleted = "Completed"
	OrderFailed    = "Failed"
)

// Booking records a user's attempt to enroll in a course and tracks its
// payment through the checkout provider. Bookings are never deleted.
type Booking struct {
	gorm.Model
	BookingID       string     `json:"bookingId" gorm:"uniqueIndex;not null"`
	UserID          string     `json:"userId" gorm:"index;not null"`
	StudentName     string     `json:"studentName" gorm:"default:'Unknown'"`
	CourseRef       string     `json:"course" gorm:"not null"`
	CourseName      string     `json:"courseName" gorm:"not null"`
	TeacherName     string     `json:"teacherName" gorm:"default:''"`
	Email           string     `json:"email" gorm:"default:''"`
	Price           float64    `json:"price" gorm:"not null"`
	PaymentMethod   string     `json:"paymentMethod" gorm:"default:'Online'"`
	PaymentStatus   string     `json:"paymentStatus" gorm:"default:'Unpaid'"` // Unpaid, Paid
	PaymentIntentID *string    `json:"paymentIntentId"`
	SessionID       *string    `json:"sessionId" gorm:"index"`
	OrderStatus     string     `json:"orderStatus" gorm:"default:'Pending'"` // Pending, Confirmed, Cancelled, Completed, Failed
	Notes           string     `json:"notes" gorm:"default:''"`
	PaidAt          *time.Time `json:"paidAt"`
}
