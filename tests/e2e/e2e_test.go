package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"carbnb/internal/database"
	"carbnb/internal/middleware"
	"carbnb/internal/modules/auth"
	"carbnb/internal/modules/booking"
	"carbnb/internal/modules/fleet"
	"carbnb/internal/modules/location"
	"carbnb/internal/modules/review"
	jwtsvc "carbnb/internal/pkg/jwt"
	"carbnb/internal/repository"
)

type TestSuite struct {
	router *gin.Engine
	db     *gorm.DB
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func setupTestSuite(t *testing.T) *TestSuite {
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, database.Migrate(db))

	userRepo := repository.NewUserRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	carRepo := repository.NewCarRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	j := jwtsvc.New("test-secret", time.Hour)

	authHandler := auth.NewHandler(auth.NewService(userRepo, j))
	fleetHandler := fleet.NewHandler(fleet.NewService(carRepo, locationRepo, reviewRepo))
	locationHandler := location.NewHandler(location.NewService(locationRepo, carRepo))
	bookingHandler := booking.NewHandler(booking.NewService(bookingRepo, availabilityRepo, carRepo))
	reviewHandler := review.NewHandler(review.NewService(reviewRepo, bookingRepo))

	r := gin.New()
	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)
		fleetHandler.RegisterPublicRoutes(v1)
		locationHandler.RegisterPublicRoutes(v1)
		bookingHandler.RegisterPublicRoutes(v1)
		reviewHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			fleetHandler.RegisterProtectedRoutes(protected)
			locationHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			reviewHandler.RegisterProtectedRoutes(protected)
		}
	}

	return &TestSuite{router: r, db: db}
}

func (s *TestSuite) request(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, *TestResponse) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var parsed TestResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed), "body: %s", w.Body.String())
	}
	return w, &parsed
}

func (s *TestSuite) registerAndLogin(t *testing.T, email string) string {
	w, _ := s.request(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":      email,
		"password":   "password123",
		"first_name": "Test",
		"last_name":  "User",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp := s.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token, ok := resp.Data["token"].(string)
	require.True(t, ok, "login response missing token")
	return token
}

func (s *TestSuite) createLocation(t *testing.T, token string) int64 {
	w, resp := s.request(t, http.MethodPost, "/api/v1/locations", token, gin.H{
		"name":    "Downtown",
		"city":    "Almaty",
		"address": "Abay Ave 44",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	loc := resp.Data["location"].(map[string]interface{})
	return int64(loc["id"].(float64))
}

func (s *TestSuite) createCar(t *testing.T, token string, locationID int64, dailyRate float64) int64 {
	w, resp := s.request(t, http.MethodPost, "/api/v1/cars", token, gin.H{
		"location_id": locationID,
		"make":        "Toyota",
		"model":       "Camry",
		"year":        2022,
		"daily_rate":  dailyRate,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	car := resp.Data["car"].(map[string]interface{})
	return int64(car["id"].(float64))
}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func TestRegisterLoginAndProfile(t *testing.T) {
	s := setupTestSuite(t)

	token := s.registerAndLogin(t, "jane@example.com")

	w, resp := s.request(t, http.MethodGet, "/api/v1/users/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	user := resp.Data["user"].(map[string]interface{})
	assert.Equal(t, "jane@example.com", user["email"])

	// duplicate registration is rejected
	w, resp = s.request(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":      "jane@example.com",
		"password":   "password123",
		"first_name": "Jane",
		"last_name":  "Doe",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "EMAIL_TAKEN", resp.Error.Code)
}

func TestBookingLifecycle(t *testing.T) {
	s := setupTestSuite(t)

	ownerToken := s.registerAndLogin(t, "owner@example.com")
	renterToken := s.registerAndLogin(t, "renter@example.com")

	locID := s.createLocation(t, ownerToken)
	carID := s.createCar(t, ownerToken, locID, 50)

	// three rental days at 50/day
	w, resp := s.request(t, http.MethodPost, "/api/v1/bookings", renterToken, gin.H{
		"car_id":     carID,
		"start_date": futureDate(10),
		"end_date":   futureDate(13),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	b := resp.Data["booking"].(map[string]interface{})
	bookingID := int64(b["id"].(float64))
	assert.Equal(t, "pending", b["status"])
	assert.Equal(t, 150.0, b["total_price"])

	// owner confirms
	w, resp = s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/bookings/%d/confirm", bookingID), ownerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "confirmed", resp.Data["booking"].(map[string]interface{})["status"])

	// renter cannot confirm or complete
	w, _ = s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/bookings/%d/complete", bookingID), renterToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// owner completes
	w, _ = s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/bookings/%d/complete", bookingID), ownerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// completed is terminal
	w, resp = s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/bookings/%d/cancel", bookingID), renterToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_TRANSITION", resp.Error.Code)
}

func TestBookingConflicts(t *testing.T) {
	s := setupTestSuite(t)

	ownerToken := s.registerAndLogin(t, "owner@example.com")
	renter1 := s.registerAndLogin(t, "renter1@example.com")
	renter2 := s.registerAndLogin(t, "renter2@example.com")

	locID := s.createLocation(t, ownerToken)
	carID := s.createCar(t, ownerToken, locID, 50)

	w, _ := s.request(t, http.MethodPost, "/api/v1/bookings", renter1, gin.H{
		"car_id":     carID,
		"start_date": futureDate(10),
		"end_date":   futureDate(14),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// overlapping in the middle
	w, resp := s.request(t, http.MethodPost, "/api/v1/bookings", renter2, gin.H{
		"car_id":     carID,
		"start_date": futureDate(12),
		"end_date":   futureDate(16),
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "BOOKING_CONFLICT", resp.Error.Code)

	// touching the last day: still a conflict, bounds are inclusive
	w, resp = s.request(t, http.MethodPost, "/api/v1/bookings", renter2, gin.H{
		"car_id":     carID,
		"start_date": futureDate(14),
		"end_date":   futureDate(15),
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "BOOKING_CONFLICT", resp.Error.Code)

	// the day after is free
	w, _ = s.request(t, http.MethodPost, "/api/v1/bookings", renter2, gin.H{
		"car_id":     carID,
		"start_date": futureDate(15),
		"end_date":   futureDate(16),
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// availability endpoint agrees
	w, resp = s.request(t, http.MethodGet,
		fmt.Sprintf("/api/v1/cars/%d/availability?start=%s&end=%s", carID, futureDate(13), futureDate(13)), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, resp.Data["available"])
}

func TestCancelFreesTheRange(t *testing.T) {
	s := setupTestSuite(t)

	ownerToken := s.registerAndLogin(t, "owner@example.com")
	renter1 := s.registerAndLogin(t, "renter1@example.com")
	renter2 := s.registerAndLogin(t, "renter2@example.com")

	locID := s.createLocation(t, ownerToken)
	carID := s.createCar(t, ownerToken, locID, 50)

	w, resp := s.request(t, http.MethodPost, "/api/v1/bookings", renter1, gin.H{
		"car_id":     carID,
		"start_date": futureDate(10),
		"end_date":   futureDate(12),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	bookingID := int64(resp.Data["booking"].(map[string]interface{})["id"].(float64))

	// a stranger cannot cancel someone else's booking
	w, _ = s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/bookings/%d/cancel", bookingID), renter2, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/bookings/%d/cancel", bookingID), renter1, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// the same range can be booked again
	w, _ = s.request(t, http.MethodPost, "/api/v1/bookings", renter2, gin.H{
		"car_id":     carID,
		"start_date": futureDate(10),
		"end_date":   futureDate(12),
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCompletedBookingFreesTheRange(t *testing.T) {
	s := setupTestSuite(t)

	ownerToken := s.registerAndLogin(t, "owner@example.com")
	renter1 := s.registerAndLogin(t, "renter1@example.com")
	renter2 := s.registerAndLogin(t, "renter2@example.com")

	locID := s.createLocation(t, ownerToken)
	carID := s.createCar(t, ownerToken, locID, 50)

	w, resp := s.request(t, http.MethodPost, "/api/v1/bookings", renter1, gin.H{
		"car_id":     carID,
		"start_date": futureDate(5),
		"end_date":   futureDate(7),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	bookingID := int64(resp.Data["booking"].(map[string]interface{})["id"].(float64))

	// while pending the range is held
	w, _ = s.request(t, http.MethodPost, "/api/v1/bookings", renter2, gin.H{
		"car_id":     carID,
		"start_date": futureDate(5),
		"end_date":   futureDate(7),
	})
	require.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/bookings/%d/confirm", bookingID), ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/bookings/%d/complete", bookingID), ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// completed bookings never conflict, whatever their dates: the exact
	// same range can be booked again
	w, _ = s.request(t, http.MethodPost, "/api/v1/bookings", renter2, gin.H{
		"car_id":     carID,
		"start_date": futureDate(5),
		"end_date":   futureDate(7),
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// the completed booking itself stays terminal
	w, resp = s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/bookings/%d/cancel", bookingID), renter1, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_TRANSITION", resp.Error.Code)
}

func TestAvailabilityBlocks(t *testing.T) {
	s := setupTestSuite(t)

	ownerToken := s.registerAndLogin(t, "owner@example.com")
	renterToken := s.registerAndLogin(t, "renter@example.com")

	locID := s.createLocation(t, ownerToken)
	carID := s.createCar(t, ownerToken, locID, 50)

	// only the owner can block the calendar
	w, _ := s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/cars/%d/blocks", carID), renterToken, gin.H{
		"start_date": futureDate(20),
		"end_date":   futureDate(25),
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/cars/%d/blocks", carID), ownerToken, gin.H{
		"start_date": futureDate(20),
		"end_date":   futureDate(25),
		"reason":     "maintenance",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// blocked window cannot be booked
	w, resp := s.request(t, http.MethodPost, "/api/v1/bookings", renterToken, gin.H{
		"car_id":     carID,
		"start_date": futureDate(22),
		"end_date":   futureDate(23),
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "BOOKING_CONFLICT", resp.Error.Code)
}

func TestReviewFlow(t *testing.T) {
	s := setupTestSuite(t)

	ownerToken := s.registerAndLogin(t, "owner@example.com")
	renterToken := s.registerAndLogin(t, "renter@example.com")

	locID := s.createLocation(t, ownerToken)
	carID := s.createCar(t, ownerToken, locID, 50)

	w, resp := s.request(t, http.MethodPost, "/api/v1/bookings", renterToken, gin.H{
		"car_id":     carID,
		"start_date": futureDate(1),
		"end_date":   futureDate(2),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	bookingID := int64(resp.Data["booking"].(map[string]interface{})["id"].(float64))

	// pending booking cannot be reviewed
	w, _ = s.request(t, http.MethodPost, "/api/v1/reviews", renterToken, gin.H{
		"booking_id": bookingID,
		"rating":     5,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/bookings/%d/confirm", bookingID), ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/bookings/%d/complete", bookingID), ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.request(t, http.MethodPost, "/api/v1/reviews", renterToken, gin.H{
		"booking_id": bookingID,
		"rating":     5,
		"comment":    "great car",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// one review per booking
	w, resp = s.request(t, http.MethodPost, "/api/v1/reviews", renterToken, gin.H{
		"booking_id": bookingID,
		"rating":     1,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ALREADY_REVIEWED", resp.Error.Code)

	// reviews show up on the car, and the rating feeds the details page
	w, resp = s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/cars/%d/reviews", carID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Data["reviews"], 1)

	w, resp = s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/cars/%d", carID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	car := resp.Data["car"].(map[string]interface{})
	assert.Equal(t, 5.0, car["rating"])
}

func TestFleetBrowsing(t *testing.T) {
	s := setupTestSuite(t)

	ownerToken := s.registerAndLogin(t, "owner@example.com")
	locID := s.createLocation(t, ownerToken)
	s.createCar(t, ownerToken, locID, 50)
	s.createCar(t, ownerToken, locID, 120)

	// public, no token
	w, resp := s.request(t, http.MethodGet, "/api/v1/cars?price_max=100", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, resp.Data["total"])

	w, resp = s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/locations/%d/cars", locID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2.0, resp.Data["total"])

	// location with cars cannot be deleted
	w, resp = s.request(t, http.MethodDelete, fmt.Sprintf("/api/v1/locations/%d", locID), ownerToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "LOCATION_IN_USE", resp.Error.Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	s := setupTestSuite(t)

	w, _ := s.request(t, http.MethodPost, "/api/v1/bookings", "", gin.H{"car_id": 1})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.request(t, http.MethodGet, "/api/v1/users/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
