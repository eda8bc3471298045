package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// DateRange is an inclusive calendar-date interval. Both bounds are stored
// at UTC midnight.
type DateRange struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

// Overlaps reports whether two inclusive ranges intersect. A booking ending
// on day N conflicts with one starting on day N: same-day turnover is not
// allowed in this marketplace.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !r.End.Before(other.Start)
}

type Booking struct {
	ID               int64         `json:"id"`
	CarID            int64         `json:"car_id" validate:"required"`
	RenterID         int64         `json:"renter_id" validate:"required"`
	PickupLocationID int64         `json:"pickup_location_id,omitempty"`
	ReturnLocationID int64         `json:"return_location_id,omitempty"`
	StartDate        time.Time     `json:"start_date" validate:"required" gorm:"type:date"`
	EndDate          time.Time     `json:"end_date" validate:"required" gorm:"type:date"`
	TotalPrice       float64       `json:"total_price" validate:"gte=0"`
	Status           BookingStatus `json:"status"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
	Notes            string        `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	CancelledAt      *time.Time    `json:"cancelled_at,omitempty"`

	Renter *User `json:"renter,omitempty" gorm:"foreignKey:RenterID"`
	Car    *Car  `json:"car,omitempty" gorm:"foreignKey:CarID"`
}

func (b *Booking) Range() DateRange {
	return DateRange{Start: b.StartDate, End: b.EndDate}
}

// IsTerminal reports whether no further status transition is permitted.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCancelled || s == BookingCompleted
}

// CanTransitionTo encodes the booking state machine:
// pending -> confirmed -> completed, pending/confirmed -> cancelled.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch next {
	case BookingConfirmed:
		return s == BookingPending
	case BookingCompleted:
		return s == BookingConfirmed
	case BookingCancelled:
		return s == BookingPending || s == BookingConfirmed
	}
	return false
}

// AvailabilityBlock is an owner-defined window during which a car cannot be
// booked regardless of booking records (maintenance, personal use).
// Unlike bookings it has no status machine.
type AvailabilityBlock struct {
	ID        int64     `json:"id"`
	CarID     int64     `json:"car_id" gorm:"not null;index"`
	StartDate time.Time `json:"start_date" gorm:"type:date"`
	EndDate   time.Time `json:"end_date" gorm:"type:date"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (AvailabilityBlock) TableName() string { return "availability_blocks" }

func (b *AvailabilityBlock) Range() DateRange {
	return DateRange{Start: b.StartDate, End: b.EndDate}
}
