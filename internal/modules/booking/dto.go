package booking

import "carbnb/internal/domain"

type CreateBookingRequest struct {
	CarID            int64  `json:"car_id" binding:"required"`
	StartDate        string `json:"start_date" binding:"required"`
	EndDate          string `json:"end_date" binding:"required"`
	PickupLocationID int64  `json:"pickup_location_id"`
	ReturnLocationID int64  `json:"return_location_id"`
	Notes            string `json:"notes"`
}

type CreateBlockRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason"`
}

// AvailabilityResult is what the conflict checker answers with: free, or
// not free plus the window it collided with.
type AvailabilityResult struct {
	Available bool              `json:"available"`
	Conflict  *domain.DateRange `json:"conflict,omitempty"`
}
