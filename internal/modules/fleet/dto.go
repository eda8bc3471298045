package fleet

import "carbnb/internal/domain"

type CreateCarRequest struct {
	LocationID   int64    `json:"location_id" binding:"required"`
	Make         string   `json:"make" binding:"required"`
	Model        string   `json:"model" binding:"required"`
	Year         int      `json:"year" binding:"required"`
	Category     string   `json:"category"`
	Transmission string   `json:"transmission"`
	FuelType     string   `json:"fuel_type"`
	Seats        int      `json:"seats"`
	DailyRate    float64  `json:"daily_rate" binding:"required,gt=0"`
	Description  string   `json:"description"`
	Features     []string `json:"features"`
}

type UpdateCarRequest struct {
	LocationID   *int64    `json:"location_id"`
	Make         *string   `json:"make"`
	Model        *string   `json:"model"`
	Year         *int      `json:"year"`
	Category     *string   `json:"category"`
	Transmission *string   `json:"transmission"`
	FuelType     *string   `json:"fuel_type"`
	Seats        *int      `json:"seats"`
	DailyRate    *float64  `json:"daily_rate"`
	Description  *string   `json:"description"`
	Features     *[]string `json:"features"`
}

type CarListResponse struct {
	Cars        []domain.Car `json:"cars"`
	Total       int64        `json:"total"`
	TotalPages  int          `json:"total_pages"`
	CurrentPage int          `json:"current_page"`
}

type CarDetails struct {
	*domain.Car
	Rating      float64 `json:"rating"`
	ReviewCount int64   `json:"review_count"`
}
