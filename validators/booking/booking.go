package bookingValidator

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// CreateBookingRequest is the typed form of a booking-creation body after
// the parse-and-validate boundary.
type CreateBookingRequest struct {
	CourseID    string  `json:"courseId" validate:"required"`
	CourseName  string  `json:"courseName" validate:"required"`
	TeacherName string  `json:"teacherName"`
	Price       float64 `json:"price" validate:"gte=0"`
	Notes       string  `json:"notes"`
	Email       string  `json:"email"`
	StudentName string  `json:"studentName"`
}

// ListBookingsQuery carries sanitized admin-listing parameters.
type ListBookingsQuery struct {
	Search string
	Status string
	Limit  int
	Page   int
}

// CreateBooking validates the booking-creation body. Prices arrive from the
// client either as a number or a numeric string; anything else is rejected
// here rather than defaulted.
func CreateBooking() fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := new(struct {
			CourseID    string          `json:"courseId"`
			CourseName  string          `json:"courseName"`
			TeacherName string          `json:"teacherName"`
			Price       json.RawMessage `json:"price"`
			Notes       string          `json:"notes"`
			Email       string          `json:"email"`
			StudentName string          `json:"studentName"`
		})

		if err := c.BodyParser(body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid request body",
			})
		}

		if body.CourseID == "" || body.CourseName == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "courseId and courseName required",
			})
		}

		price, ok := decodeNumber(body.Price)
		if !ok || price < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "price must be a valid number",
			})
		}

		reqData := &CreateBookingRequest{
			CourseID:    body.CourseID,
			CourseName:  body.CourseName,
			TeacherName: body.TeacherName,
			Price:       price,
			Notes:       body.Notes,
			Email:       body.Email,
			StudentName: body.StudentName,
		}

		if err := validate.Struct(reqData); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "courseId and courseName required",
			})
		}

		c.Locals("validatedBooking", reqData)
		return c.Next()
	}
}

// ListBookings sanitizes admin-listing query parameters: page >= 1, limit
// clamped into [1,200] with a default of 50.
func ListBookings() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := parseIntDefault(c.Query("limit"), 50)
		if limit < 1 {
			limit = 1
		}
		if limit > 200 {
			limit = 200
		}

		page := parseIntDefault(c.Query("page"), 1)
		if page < 1 {
			page = 1
		}

		c.Locals("validatedBookingList", &ListBookingsQuery{
			Search: strings.TrimSpace(c.Query("search")),
			Status: c.Query("status"),
			Limit:  limit,
			Page:   page,
		})
		return c.Next()
	}
}

// decodeNumber accepts a JSON number or a numeric string, rejecting
// anything non-finite.
func decodeNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	}

	return 0, false
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
