package booking

import (
	"context"
	"time"

	"carbnb/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	FindConflict(ctx context.Context, carID int64, start, end time.Time) (*domain.DateRange, error)
	ListByRenter(ctx context.Context, renterID int64, limit, offset int) ([]domain.Booking, error)
	ListByCarOwner(ctx context.Context, ownerID int64, limit, offset int) ([]domain.Booking, error)
	GetCarOwnerForBooking(ctx context.Context, bookingID int64) (int64, error)
	UpdateStatus(ctx context.Context, bookingID int64, from, to domain.BookingStatus) error
}

type AvailabilityRepository interface {
	Create(ctx context.Context, b *domain.AvailabilityBlock) error
	GetByID(ctx context.Context, id int64) (*domain.AvailabilityBlock, error)
	GetByCarID(ctx context.Context, carID int64) ([]domain.AvailabilityBlock, error)
	Delete(ctx context.Context, id int64) error
	FindConflict(ctx context.Context, carID int64, start, end time.Time) (*domain.DateRange, error)
}

type CarRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Car, error)
}
