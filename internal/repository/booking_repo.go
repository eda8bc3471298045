package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"carbnb/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID               int64      `gorm:"column:id;primaryKey"`
	CarID            int64      `gorm:"column:car_id;index"`
	RenterID         int64      `gorm:"column:renter_id;index"`
	PickupLocationID *int64     `gorm:"column:pickup_location_id"`
	ReturnLocationID *int64     `gorm:"column:return_location_id"`
	StartDate        time.Time  `gorm:"column:start_date"`
	EndDate          time.Time  `gorm:"column:end_date"`
	TotalPrice       float64    `gorm:"column:total_price"`
	Status           string     `gorm:"column:status"`
	PaymentStatus    string     `gorm:"column:payment_status"`
	Notes            *string    `gorm:"column:notes"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
	CancelledAt      *time.Time `gorm:"column:cancelled_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	var notes string
	if m.Notes != nil {
		notes = *m.Notes
	}
	var pickup, ret int64
	if m.PickupLocationID != nil {
		pickup = *m.PickupLocationID
	}
	if m.ReturnLocationID != nil {
		ret = *m.ReturnLocationID
	}

	return &domain.Booking{
		ID:               m.ID,
		CarID:            m.CarID,
		RenterID:         m.RenterID,
		PickupLocationID: pickup,
		ReturnLocationID: ret,
		StartDate:        m.StartDate,
		EndDate:          m.EndDate,
		TotalPrice:       m.TotalPrice,
		Status:           domain.BookingStatus(m.Status),
		PaymentStatus:    domain.PaymentStatus(m.PaymentStatus),
		Notes:            notes,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
		CancelledAt:      m.CancelledAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	var notes *string
	if b.Notes != "" {
		v := b.Notes
		notes = &v
	}
	var pickup, ret *int64
	if b.PickupLocationID != 0 {
		v := b.PickupLocationID
		pickup = &v
	}
	if b.ReturnLocationID != 0 {
		v := b.ReturnLocationID
		ret = &v
	}

	return bookingModel{
		ID:               b.ID,
		CarID:            b.CarID,
		RenterID:         b.RenterID,
		PickupLocationID: pickup,
		ReturnLocationID: ret,
		StartDate:        b.StartDate,
		EndDate:          b.EndDate,
		TotalPrice:       b.TotalPrice,
		Status:           string(b.Status),
		PaymentStatus:    string(b.PaymentStatus),
		Notes:            notes,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
		CancelledAt:      b.CancelledAt,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

// FindConflict returns the range of the first non-cancelled booking on the
// car that intersects [start, end]. Both bounds are inclusive: a booking
// ending on start (or starting on end) conflicts. Only pending and
// confirmed bookings can hold a range: cancelled and completed never
// conflict, whatever their dates.
func (r *BookingRepository) FindConflict(ctx context.Context, carID int64, start, end time.Time) (*domain.DateRange, error) {
	var m bookingModel
	err := r.db.WithContext(ctx).
		Where("car_id = ?", carID).
		Where("status IN ?", []string{string(domain.BookingPending), string(domain.BookingConfirmed)}).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Order("start_date").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &domain.DateRange{Start: m.StartDate, End: m.EndDate}, nil
}

func (r *BookingRepository) ListByRenter(ctx context.Context, renterID int64, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var models []bookingModel
	err := r.db.WithContext(ctx).
		Where("renter_id = ?", renterID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Booking, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// ListByCarOwner returns bookings against any car owned by ownerID.
func (r *BookingRepository) ListByCarOwner(ctx context.Context, ownerID int64, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var models []bookingModel
	err := r.db.WithContext(ctx).
		Joins("JOIN cars ON cars.id = bookings.car_id").
		Where("cars.owner_id = ?", ownerID).
		Order("bookings.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Booking, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// GetCarOwnerForBooking resolves who may confirm/complete the booking.
func (r *BookingRepository) GetCarOwnerForBooking(ctx context.Context, bookingID int64) (int64, error) {
	var ownerID int64
	err := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Select("cars.owner_id").
		Joins("JOIN cars ON cars.id = bookings.car_id").
		Where("bookings.id = ?", bookingID).
		Scan(&ownerID).Error
	return ownerID, err
}

// UpdateStatus advances the booking only while it is still in the status
// the caller read. A concurrent transition that committed first leaves zero
// rows matching, reported as ErrRecordNotFound, so a lost race can never
// overwrite a terminal state.
func (r *BookingRepository) UpdateStatus(ctx context.Context, bookingID int64, from, to domain.BookingStatus) error {
	updates := map[string]interface{}{
		"status":     string(to),
		"updated_at": time.Now().UTC(),
	}
	if to == domain.BookingCancelled {
		updates["cancelled_at"] = time.Now().UTC()
	}

	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND status = ?", bookingID, string(from)).
		Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
