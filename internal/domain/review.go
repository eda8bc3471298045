package domain

import "time"

type Review struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"booking_id" gorm:"uniqueIndex"`
	CarID     int64     `json:"car_id" gorm:"index"`
	RenterID  int64     `json:"renter_id"`
	Rating    int       `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string    `json:"comment,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Renter *User `json:"renter,omitempty" gorm:"foreignKey:RenterID"`
}
