package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"carbnb/internal/domain"
	"carbnb/internal/middleware"
	"carbnb/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes exposes the read-only availability check.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/cars/:id/availability", h.CheckAvailability)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings", h.ListMyBookings)
	rg.GET("/bookings/owner", h.ListOwnerBookings)
	rg.GET("/bookings/:id", h.GetBooking)

	rg.PATCH("/bookings/:id/confirm", h.transition(domain.BookingConfirmed))
	rg.PATCH("/bookings/:id/complete", h.transition(domain.BookingCompleted))
	rg.PATCH("/bookings/:id/cancel", h.transition(domain.BookingCancelled))

	rg.POST("/cars/:id/blocks", h.CreateBlock)
	rg.GET("/cars/:id/blocks", h.ListBlocks)
	rg.DELETE("/cars/:id/blocks/:blockID", h.DeleteBlock)
}

func (h *Handler) CheckAvailability(c *gin.Context) {
	carID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid car ID")
		return
	}

	start, err1 := parseDate(c.Query("start"))
	end, err2 := parseDate(c.Query("end"))
	if err1 != nil || err2 != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "start and end must be YYYY-MM-DD dates")
		return
	}

	res, err := h.service.CheckAvailability(c.Request.Context(), carID, start, end)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), middleware.PrincipalID(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) GetBooking(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking ID")
		return
	}

	b, err := h.service.GetBooking(c.Request.Context(), middleware.PrincipalID(c), bookingID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) ListMyBookings(c *gin.Context) {
	limit, offset := pagination(c)

	bookings, err := h.service.ListMyBookings(c.Request.Context(), middleware.PrincipalID(c), limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) ListOwnerBookings(c *gin.Context) {
	limit, offset := pagination(c)

	bookings, err := h.service.ListOwnerBookings(c.Request.Context(), middleware.PrincipalID(c), limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) transition(next domain.BookingStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking ID")
			return
		}

		b, err := h.service.Transition(c.Request.Context(), middleware.PrincipalID(c), bookingID, next)
		if err != nil {
			h.respondError(c, err)
			return
		}

		response.Success(c, http.StatusOK, gin.H{"booking": b})
	}
}

func (h *Handler) CreateBlock(c *gin.Context) {
	carID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid car ID")
		return
	}

	var req CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	block, err := h.service.CreateBlock(c.Request.Context(), middleware.PrincipalID(c), carID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"block": block})
}

func (h *Handler) ListBlocks(c *gin.Context) {
	carID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid car ID")
		return
	}

	blocks, err := h.service.ListBlocks(c.Request.Context(), middleware.PrincipalID(c), carID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"blocks": blocks})
}

func (h *Handler) DeleteBlock(c *gin.Context) {
	carID, err1 := strconv.ParseInt(c.Param("id"), 10, 64)
	blockID, err2 := strconv.ParseInt(c.Param("blockID"), 10, 64)
	if err1 != nil || err2 != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid ID")
		return
	}

	if err := h.service.DeleteBlock(c.Request.Context(), middleware.PrincipalID(c), carID, blockID); err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	var conflict *ConflictError
	switch {
	case errors.As(err, &conflict):
		response.ErrorWithDetails(c, http.StatusConflict, "BOOKING_CONFLICT",
			"Car is not available for the selected dates", conflict.Conflict)
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking date range")
	case errors.Is(err, ErrCarNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Car not found")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You are not allowed to do that")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Booking status does not allow this change")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}
