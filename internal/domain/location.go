package domain

import (
	"encoding/json"
	"time"
)

type Location struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name" validate:"required"`
	Address      string          `json:"address"`
	City         string          `json:"city" validate:"required"`
	Phone        string          `json:"phone,omitempty"`
	OpeningHours json.RawMessage `json:"opening_hours,omitempty" gorm:"type:json"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
