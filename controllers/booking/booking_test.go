package bookingController_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coursedesk/config"
	bookingController "coursedesk/controllers/booking"
	"coursedesk/middleware"
	"coursedesk/models"
	"coursedesk/payment"
	"coursedesk/routers/bookingRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubProvider struct {
	sessions   map[string]*payment.Session
	failCreate bool
}

func newStubProvider() *stubProvider {
	return &stubProvider{sessions: map[string]*payment.Session{}}
}

func (s *stubProvider) CreateSession(params payment.CreateSessionParams) (*payment.Session, error) {
	if s.failCreate {
		return nil, errors.New("card network unavailable")
	}
	sess := &payment.Session{
		ID:            params.SessionID,
		URL:           "https://checkout.test/" + params.SessionID,
		PaymentStatus: payment.StatusUnpaid,
		Metadata:      map[string]string{"bookingId": params.BookingID},
	}
	s.sessions[sess.ID] = sess
	return sess, nil
}

func (s *stubProvider) RetrieveSession(sessionID string) (*payment.Session, error) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return sess, nil
}

func (s *stubProvider) markPaid(sessionID string) {
	s.sessions[sessionID].PaymentStatus = payment.StatusPaid
	s.sessions[sessionID].PaymentRef = "txn_" + sessionID
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Course{}, &models.CourseRating{}, &models.Booking{}))
	return db
}

func newTestApp(t *testing.T, db *gorm.DB, provider payment.Provider) (*fiber.App, *config.Config) {
	t.Helper()
	cfg := &config.Config{
		JWTKey:      "test-secret",
		FrontendURL: "https://courses.example.com",
	}
	app := fiber.New()
	app.Use(middleware.Authenticate(cfg))
	bookingRoutes.SetupBookingRoutes(app, bookingController.New(db, cfg, provider, nil))
	return app, cfg
}

func authToken(t *testing.T, cfg *config.Config, subject string) string {
	t.Helper()
	token, err := middleware.GenerateJWT(cfg, subject)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, app *fiber.App, method, target, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var parsed map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp, parsed
}

func TestCreateBookingRequiresAuth(t *testing.T) {
	app, _ := newTestApp(t, newTestDB(t), newStubProvider())

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/bookings/create", "", fiber.Map{
		"courseId": "1", "courseName": "Intro", "price": 0,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestCreateBookingMissingFields(t *testing.T) {
	db := newTestDB(t)
	app, cfg := newTestApp(t, db, newStubProvider())
	token := authToken(t, cfg, "user_abc12345")

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/bookings/create", token, fiber.Map{
		"price": 10,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "courseId and courseName required", body["message"])
}

func TestCreateBookingInvalidPrice(t *testing.T) {
	db := newTestDB(t)
	app, cfg := newTestApp(t, db, newStubProvider())
	token := authToken(t, cfg, "user_abc12345")

	for _, price := range []any{"abc", "", -5} {
		resp, body := doJSON(t, app, http.MethodPost, "/api/v1/bookings/create", token, fiber.Map{
			"courseId": "C1", "courseName": "Intro", "price": price,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "price must be a valid number", body["message"])
	}
}

func TestCreateFreeBooking(t *testing.T) {
	db := newTestDB(t)
	app, cfg := newTestApp(t, db, newStubProvider())
	token := authToken(t, cfg, "user_abc12345")

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/bookings/create", token, fiber.Map{
		"courseId": "C1", "courseName": "Intro", "price": 0,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Nil(t, body["checkoutUrl"])

	booking := body["booking"].(map[string]any)
	assert.Equal(t, models.OrderConfirmed, booking["orderStatus"])
	assert.Equal(t, models.PaymentPaid, booking["paymentStatus"])
	assert.NotEmpty(t, booking["paidAt"])
	// synthesized from the identity when no name or email was sent
	assert.Equal(t, "User-user_abc", booking["studentName"])

	var stored models.Booking
	require.NoError(t, db.Where("user_id = ?", "user_abc12345").First(&stored).Error)
	assert.Equal(t, models.OrderConfirmed, stored.OrderStatus)
	assert.Nil(t, stored.SessionID)
}

func TestCreatePaidBooking(t *testing.T) {
	db := newTestDB(t)
	provider := newStubProvider()
	app, cfg := newTestApp(t, db, provider)
	token := authToken(t, cfg, "user_abc12345")

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/bookings/create", token, fiber.Map{
		"courseId": "C1", "courseName": "Intro", "price": 25, "email": "jo@example.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body["checkoutUrl"])

	booking := body["booking"].(map[string]any)
	assert.Equal(t, models.OrderPending, booking["orderStatus"])
	assert.Equal(t, models.PaymentUnpaid, booking["paymentStatus"])
	assert.Equal(t, "jo@example.com", booking["studentName"])

	var stored models.Booking
	require.NoError(t, db.Where("user_id = ?", "user_abc12345").First(&stored).Error)
	require.NotNil(t, stored.SessionID)
	assert.Contains(t, provider.sessions, *stored.SessionID)
	assert.Nil(t, stored.PaidAt)
}

func TestCreatePaidBookingProviderError(t *testing.T) {
	db := newTestDB(t)
	provider := newStubProvider()
	provider.failCreate = true
	app, cfg := newTestApp(t, db, provider)
	token := authToken(t, cfg, "user_abc12345")

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/bookings/create", token, fiber.Map{
		"courseId": "C1", "courseName": "Intro", "price": 25,
	})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body["message"], "Payment provider error")

	var count int64
	db.Model(&models.Booking{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreatePaidBookingWithoutProvider(t *testing.T) {
	db := newTestDB(t)
	app, cfg := newTestApp(t, db, nil)
	token := authToken(t, cfg, "user_abc12345")

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/bookings/create", token, fiber.Map{
		"courseId": "C1", "courseName": "Intro", "price": 25,
	})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func createPaidBooking(t *testing.T, app *fiber.App, token string) models.Booking {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/bookings/create", token, fiber.Map{
		"courseId": "C1", "courseName": "Intro", "price": 25,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	raw, err := json.Marshal(body["booking"])
	require.NoError(t, err)
	var booking models.Booking
	require.NoError(t, json.Unmarshal(raw, &booking))
	return booking
}

func TestConfirmPaymentIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	provider := newStubProvider()
	app, cfg := newTestApp(t, db, provider)
	token := authToken(t, cfg, "user_abc12345")

	booking := createPaidBooking(t, app, token)
	require.NotNil(t, booking.SessionID)
	provider.markPaid(*booking.SessionID)

	confirmURL := "/api/v1/bookings/confirm?session_id=" + *booking.SessionID

	resp, body := doJSON(t, app, http.MethodGet, confirmURL, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	confirmed := body["booking"].(map[string]any)
	assert.Equal(t, models.OrderConfirmed, confirmed["orderStatus"])
	assert.Equal(t, models.PaymentPaid, confirmed["paymentStatus"])
	assert.NotEmpty(t, confirmed["paymentIntentId"])

	var afterFirst models.Booking
	require.NoError(t, db.Where("booking_id = ?", booking.BookingID).First(&afterFirst).Error)

	// Confirming again applies the same update.
	resp, _ = doJSON(t, app, http.MethodGet, confirmURL, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var afterSecond models.Booking
	require.NoError(t, db.Where("booking_id = ?", booking.BookingID).First(&afterSecond).Error)
	assert.Equal(t, afterFirst.OrderStatus, afterSecond.OrderStatus)
	assert.Equal(t, afterFirst.PaymentStatus, afterSecond.PaymentStatus)
	assert.Equal(t, afterFirst.PaymentIntentID, afterSecond.PaymentIntentID)
}

func TestConfirmPaymentNotCompleted(t *testing.T) {
	db := newTestDB(t)
	provider := newStubProvider()
	app, cfg := newTestApp(t, db, provider)
	token := authToken(t, cfg, "user_abc12345")

	booking := createPaidBooking(t, app, token)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/bookings/confirm?session_id="+*booking.SessionID, token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Payment not completed", body["message"])

	var stored models.Booking
	require.NoError(t, db.Where("booking_id = ?", booking.BookingID).First(&stored).Error)
	assert.Equal(t, models.OrderPending, stored.OrderStatus)
	assert.Equal(t, models.PaymentUnpaid, stored.PaymentStatus)
}

func TestConfirmPaymentInvalidSession(t *testing.T) {
	db := newTestDB(t)
	app, cfg := newTestApp(t, db, newStubProvider())
	token := authToken(t, cfg, "user_abc12345")

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/bookings/confirm?session_id=nope", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid session", body["message"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/bookings/confirm", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "session_id is required", body["message"])
}

func TestConfirmPaymentFallsBackToMetadataBookingID(t *testing.T) {
	db := newTestDB(t)
	provider := newStubProvider()
	app, cfg := newTestApp(t, db, provider)
	token := authToken(t, cfg, "user_abc12345")

	// Booking row written without a session id, as when confirmation
	// races the creation write.
	booking := models.Booking{
		BookingID:     "BK-race",
		UserID:        "user_abc12345",
		CourseRef:     "C1",
		CourseName:    "Intro",
		Price:         25,
		PaymentStatus: models.PaymentUnpaid,
		OrderStatus:   models.OrderPending,
	}
	require.NoError(t, db.Create(&booking).Error)

	provider.sessions["BK-race.123"] = &payment.Session{
		ID:            "BK-race.123",
		PaymentStatus: payment.StatusPaid,
		PaymentRef:    "txn_race",
		Metadata:      map[string]string{"bookingId": "BK-race"},
	}

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/bookings/confirm?session_id=BK-race.123", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	confirmed := body["booking"].(map[string]any)
	assert.Equal(t, models.OrderConfirmed, confirmed["orderStatus"])
}

func TestConfirmPaymentBookingNotFound(t *testing.T) {
	db := newTestDB(t)
	provider := newStubProvider()
	app, cfg := newTestApp(t, db, provider)
	token := authToken(t, cfg, "user_abc12345")

	provider.sessions["BK-ghost.1"] = &payment.Session{
		ID:            "BK-ghost.1",
		PaymentStatus: payment.StatusPaid,
		Metadata:      map[string]string{"bookingId": "BK-ghost"},
	}

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/bookings/confirm?session_id=BK-ghost.1", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Booking not found", body["message"])
}

func seedBookings(t *testing.T, db *gorm.DB) {
	t.Helper()
	paidAt := time.Now()
	bookings := []models.Booking{
		{BookingID: "BK-1", UserID: "user_1", StudentName: "Amina", CourseRef: "C1", CourseName: "Intro to Go", Price: 20, PaymentStatus: models.PaymentPaid, OrderStatus: models.OrderConfirmed, PaidAt: &paidAt},
		{BookingID: "BK-2", UserID: "user_2", StudentName: "Bilal", CourseRef: "C1", CourseName: "Intro to Go", Price: 20, PaymentStatus: models.PaymentUnpaid, OrderStatus: models.OrderPending},
		{BookingID: "BK-3", UserID: "user_1", StudentName: "Amina", CourseRef: "C2", CourseName: "Advanced SQL", Price: 50, PaymentStatus: models.PaymentPaid, OrderStatus: models.OrderConfirmed, PaidAt: &paidAt},
	}
	for i := range bookings {
		require.NoError(t, db.Create(&bookings[i]).Error)
	}
}

func TestGetBookingsClampsLimit(t *testing.T) {
	db := newTestDB(t)
	app, _ := newTestApp(t, db, nil)
	seedBookings(t, db)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/bookings/?limit=9999&page=0", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(200), meta["limit"])
	assert.Equal(t, float64(1), meta["page"])
	assert.Equal(t, float64(3), meta["count"])
}

func TestGetBookingsFilterAndSearch(t *testing.T) {
	db := newTestDB(t)
	app, _ := newTestApp(t, db, nil)
	seedBookings(t, db)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/bookings/?status=Pending", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["bookings"], 1)

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/bookings/?search=amina", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["bookings"], 2)

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/bookings/?search=advanced", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["bookings"], 1)
}

func TestGetUserBookings(t *testing.T) {
	db := newTestDB(t)
	app, cfg := newTestApp(t, db, nil)
	seedBookings(t, db)
	token := authToken(t, cfg, "user_1")

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/bookings/my", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["items"], 2)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/bookings/my", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCheckBooking(t *testing.T) {
	db := newTestDB(t)
	app, cfg := newTestApp(t, db, nil)
	seedBookings(t, db)

	token := authToken(t, cfg, "user_1")
	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/bookings/check?courseId=C1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["enrolled"])

	token2 := authToken(t, cfg, "user_2")
	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/bookings/check?courseId=C1", token2, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["enrolled"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/bookings/check?courseId=C9", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["enrolled"])
	assert.Equal(t, "You are not enrolled in this course", body["message"])

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/bookings/check", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetStats(t *testing.T) {
	db := newTestDB(t)
	app, _ := newTestApp(t, db, nil)
	seedBookings(t, db)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/bookings/stats", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(3), stats["totalBookings"])
	assert.Equal(t, float64(70), stats["totalRevenue"])
	assert.Equal(t, float64(3), stats["bookingsLastSevenDays"])

	topCourses := stats["topCourses"].([]any)
	require.NotEmpty(t, topCourses)
	first := topCourses[0].(map[string]any)
	assert.Equal(t, "Intro to Go", first["courseName"])
	assert.Equal(t, float64(2), first["count"])
}
