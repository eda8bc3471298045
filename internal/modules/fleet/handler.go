package fleet

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"carbnb/internal/middleware"
	"carbnb/internal/pkg/response"
	"carbnb/internal/repository"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/cars", h.ListCars)
	rg.GET("/cars/:id", h.GetCar)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/cars", h.CreateCar)
	rg.PUT("/cars/:id", h.UpdateCar)
	rg.DELETE("/cars/:id", h.DeleteCar)
	rg.PATCH("/cars/:id/availability", h.SetAvailability)
	rg.GET("/users/me/cars", h.MyCars)
}

func (h *Handler) ListCars(c *gin.Context) {
	f := repository.CarFilters{
		Make:         c.Query("make"),
		Model:        c.Query("model"),
		City:         c.Query("city"),
		Category:     c.Query("category"),
		Transmission: c.Query("transmission"),
		FuelType:     c.Query("fuel_type"),
	}
	f.Seats, _ = strconv.Atoi(c.Query("seats"))
	f.LocationID, _ = strconv.ParseInt(c.Query("location_id"), 10, 64)
	f.MinPrice, _ = strconv.ParseFloat(c.Query("price_min"), 64)
	f.MaxPrice, _ = strconv.ParseFloat(c.Query("price_max"), 64)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	f.Limit = limit
	f.Offset = (page - 1) * limit

	res, err := h.service.ListCars(c.Request.Context(), f)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res)
}

func (h *Handler) GetCar(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid car ID")
		return
	}

	car, err := h.service.GetCar(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"car": car})
}

func (h *Handler) CreateCar(c *gin.Context) {
	var req CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	car, err := h.service.CreateCar(c.Request.Context(), middleware.PrincipalID(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"car": car})
}

func (h *Handler) UpdateCar(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid car ID")
		return
	}

	var req UpdateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	car, err := h.service.UpdateCar(c.Request.Context(), middleware.PrincipalID(c), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"car": car})
}

func (h *Handler) DeleteCar(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid car ID")
		return
	}

	if err := h.service.DeleteCar(c.Request.Context(), middleware.PrincipalID(c), id); err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) MyCars(c *gin.Context) {
	cars, err := h.service.MyCars(c.Request.Context(), middleware.PrincipalID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"cars": cars})
}

func (h *Handler) SetAvailability(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid car ID")
		return
	}

	var req struct {
		IsAvailable *bool `json:"is_available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "is_available is required")
		return
	}

	if err := h.service.SetAvailability(c.Request.Context(), middleware.PrincipalID(c), id, *req.IsAvailable); err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"is_available": *req.IsAvailable})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid car data")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Car not found")
	case errors.Is(err, ErrLocationNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Location not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You don't own this car")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
