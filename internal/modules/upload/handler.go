package upload

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"carbnb/internal/middleware"
	"carbnb/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/cars/:id/images", h.ListImages)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/cars/:id/images", h.AddImage)
	rg.PATCH("/cars/:id/images/:imageID/primary", h.SetPrimary)
	rg.DELETE("/cars/:id/images/:imageID", h.DeleteImage)
}

func (h *Handler) AddImage(c *gin.Context) {
	carID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid car ID")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "image file is required")
		return
	}

	img, err := h.service.AddCarImage(c.Request.Context(), middleware.PrincipalID(c), carID, fileHeader)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"image": img})
}

func (h *Handler) ListImages(c *gin.Context) {
	carID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid car ID")
		return
	}

	images, err := h.service.ListCarImages(c.Request.Context(), carID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"images": images})
}

func (h *Handler) SetPrimary(c *gin.Context) {
	carID, err1 := strconv.ParseInt(c.Param("id"), 10, 64)
	imageID, err2 := strconv.ParseInt(c.Param("imageID"), 10, 64)
	if err1 != nil || err2 != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid ID")
		return
	}

	if err := h.service.SetPrimary(c.Request.Context(), middleware.PrincipalID(c), carID, imageID); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"is_primary": true})
}

func (h *Handler) DeleteImage(c *gin.Context) {
	carID, err1 := strconv.ParseInt(c.Param("id"), 10, 64)
	imageID, err2 := strconv.ParseInt(c.Param("imageID"), 10, 64)
	if err1 != nil || err2 != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid ID")
		return
	}

	if err := h.service.DeleteImage(c.Request.Context(), middleware.PrincipalID(c), carID, imageID); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEmptyFile):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "File is empty")
	case errors.Is(err, ErrFileTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "File exceeds the 10 MB limit")
	case errors.Is(err, ErrInvalidMimeType):
		response.Error(c, http.StatusUnsupportedMediaType, "UNSUPPORTED_TYPE", "Only JPEG, PNG and WebP images are accepted")
	case errors.Is(err, ErrCarNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Car not found")
	case errors.Is(err, ErrImageNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Image not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You don't own this car")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
