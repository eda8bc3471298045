package review

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"carbnb/internal/domain"
	"carbnb/internal/repository"
)

type Service struct {
	reviews  *repository.ReviewRepository
	bookings *repository.BookingRepository
}

func NewService(reviews *repository.ReviewRepository, bookings *repository.BookingRepository) *Service {
	return &Service{reviews: reviews, bookings: bookings}
}

// Create lets a renter review a booking they completed. One review per
// booking; the unique index on booking_id backs the check under
// concurrency.
func (s *Service) Create(ctx context.Context, renterID int64, req CreateReviewRequest) (*domain.Review, error) {
	booking, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if booking.RenterID != renterID {
		return nil, ErrForbidden
	}
	if booking.Status != domain.BookingCompleted {
		return nil, ErrNotCompleted
	}

	if _, err := s.reviews.GetByBookingID(ctx, req.BookingID); err == nil {
		return nil, ErrAlreadyReviewed
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rv := &domain.Review{
		BookingID: req.BookingID,
		CarID:     booking.CarID,
		RenterID:  renterID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		if isDuplicate(err) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}
	return rv, nil
}

func (s *Service) ListForCar(ctx context.Context, carID int64, limit, offset int) ([]domain.Review, error) {
	return s.reviews.GetByCarID(ctx, carID, limit, offset)
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
