package location

import "encoding/json"

type CreateLocationRequest struct {
	Name         string          `json:"name" binding:"required"`
	City         string          `json:"city" binding:"required"`
	Address      string          `json:"address" binding:"required"`
	Phone        string          `json:"phone"`
	OpeningHours json.RawMessage `json:"opening_hours"`
}

type UpdateLocationRequest struct {
	Name         *string         `json:"name"`
	City         *string         `json:"city"`
	Address      *string         `json:"address"`
	Phone        *string         `json:"phone"`
	OpeningHours json.RawMessage `json:"opening_hours"`
}
