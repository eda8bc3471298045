package booking

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"carbnb/internal/domain"
)

type Service struct {
	bookings BookingRepository
	blocks   AvailabilityRepository
	cars     CarRepository

	// now is swapped out in tests
	now func() time.Time
}

func NewService(bookings BookingRepository, blocks AvailabilityRepository, cars CarRepository) *Service {
	return &Service{
		bookings: bookings,
		blocks:   blocks,
		cars:     cars,
		now:      time.Now,
	}
}

// CheckAvailability decides whether [start, end] is free to book on the car.
// Two families of ranges are checked: non-cancelled bookings (pending or
// confirmed) and owner availability blocks. The predicate is inclusive on
// both boundaries, so back-to-back same-day turnover is a conflict.
// Pure read, no side effects.
func (s *Service) CheckAvailability(ctx context.Context, carID int64, start, end time.Time) (*AvailabilityResult, error) {
	start, end = dateOnly(start), dateOnly(end)
	if end.Before(start) {
		return nil, ErrValidation
	}

	if _, err := s.cars.GetByID(ctx, carID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}

	if conflict, err := s.bookings.FindConflict(ctx, carID, start, end); err != nil {
		return nil, err
	} else if conflict != nil {
		return &AvailabilityResult{Available: false, Conflict: conflict}, nil
	}

	if conflict, err := s.blocks.FindConflict(ctx, carID, start, end); err != nil {
		return nil, err
	} else if conflict != nil {
		return &AvailabilityResult{Available: false, Conflict: conflict}, nil
	}

	return &AvailabilityResult{Available: true}, nil
}

// CreateBooking re-runs the conflict check and inserts. The pre-check gives
// the common case a friendly answer; the actual guarantee against two
// overlapping inserts racing each other is the Postgres exclusion
// constraint, whose violation is mapped to the same ConflictError.
func (s *Service) CreateBooking(ctx context.Context, renterID int64, req CreateBookingRequest) (*domain.Booking, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, ErrValidation
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, ErrValidation
	}
	if end.Before(start) {
		return nil, ErrValidation
	}
	if start.Before(dateOnly(s.now())) {
		return nil, ErrValidation
	}

	car, err := s.cars.GetByID(ctx, req.CarID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	if !car.IsAvailable {
		return nil, &ConflictError{Conflict: domain.DateRange{Start: start, End: end}}
	}

	res, err := s.CheckAvailability(ctx, req.CarID, start, end)
	if err != nil {
		return nil, err
	}
	if !res.Available {
		return nil, &ConflictError{Conflict: *res.Conflict}
	}

	b := &domain.Booking{
		CarID:            req.CarID,
		RenterID:         renterID,
		PickupLocationID: req.PickupLocationID,
		ReturnLocationID: req.ReturnLocationID,
		StartDate:        start,
		EndDate:          end,
		TotalPrice:       PriceFor(car.DailyRate, start, end),
		Status:           domain.BookingPending,
		PaymentStatus:    domain.PaymentUnpaid,
		Notes:            req.Notes,
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		if isRangeViolation(err) {
			// a concurrent insert won the race; fetch its range for the message
			conflict, ferr := s.bookings.FindConflict(ctx, req.CarID, start, end)
			if ferr != nil || conflict == nil {
				conflict = &domain.DateRange{Start: start, End: end}
			}
			return nil, &ConflictError{Conflict: *conflict}
		}
		return nil, err
	}

	return b, nil
}

// PriceFor bills daily_rate per started calendar day between pickup and
// return, with a floor of one day for same-day rentals.
func PriceFor(dailyRate float64, start, end time.Time) float64 {
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		days = 1
	}
	total := dailyRate * float64(days)
	return math.Round(total*100) / 100
}

func (s *Service) GetBooking(ctx context.Context, principalID, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if b.RenterID == principalID {
		return b, nil
	}
	ownerID, err := s.bookings.GetCarOwnerForBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if ownerID != principalID {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *Service) ListMyBookings(ctx context.Context, renterID int64, limit, offset int) ([]domain.Booking, error) {
	return s.bookings.ListByRenter(ctx, renterID, limit, offset)
}

func (s *Service) ListOwnerBookings(ctx context.Context, ownerID int64, limit, offset int) ([]domain.Booking, error) {
	return s.bookings.ListByCarOwner(ctx, ownerID, limit, offset)
}

// Transition advances the booking state machine on behalf of principalID.
// Cancel belongs to the renter; confirm and complete belong to the car's
// owner. The transition itself must be legal regardless of who asks.
func (s *Service) Transition(ctx context.Context, principalID, bookingID int64, next domain.BookingStatus) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	switch next {
	case domain.BookingCancelled:
		if b.RenterID != principalID {
			return nil, ErrForbidden
		}
	case domain.BookingConfirmed, domain.BookingCompleted:
		ownerID, err := s.bookings.GetCarOwnerForBooking(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if ownerID != principalID {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrInvalidTransition
	}

	if !b.Status.CanTransitionTo(next) {
		return nil, ErrInvalidTransition
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, b.Status, next); err != nil {
		// zero rows means a concurrent transition moved the booking first
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}
	return s.bookings.GetByID(ctx, bookingID)
}

/* ---------- owner availability blocks ---------- */

func (s *Service) CreateBlock(ctx context.Context, ownerID, carID int64, req CreateBlockRequest) (*domain.AvailabilityBlock, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, ErrValidation
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, ErrValidation
	}
	if end.Before(start) {
		return nil, ErrValidation
	}

	if err := s.requireCarOwner(ctx, ownerID, carID); err != nil {
		return nil, err
	}

	block := &domain.AvailabilityBlock{
		CarID:     carID,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
	}
	if err := s.blocks.Create(ctx, block); err != nil {
		return nil, err
	}
	return block, nil
}

func (s *Service) ListBlocks(ctx context.Context, ownerID, carID int64) ([]domain.AvailabilityBlock, error) {
	if err := s.requireCarOwner(ctx, ownerID, carID); err != nil {
		return nil, err
	}
	return s.blocks.GetByCarID(ctx, carID)
}

func (s *Service) DeleteBlock(ctx context.Context, ownerID, carID, blockID int64) error {
	if err := s.requireCarOwner(ctx, ownerID, carID); err != nil {
		return err
	}

	block, err := s.blocks.GetByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if block.CarID != carID {
		return ErrNotFound
	}
	return s.blocks.Delete(ctx, blockID)
}

func (s *Service) requireCarOwner(ctx context.Context, ownerID, carID int64) error {
	car, err := s.cars.GetByID(ctx, carID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCarNotFound
		}
		return err
	}
	if car.OwnerID != ownerID {
		return ErrForbidden
	}
	return nil
}

/* ---------- helpers ---------- */

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// isRangeViolation recognizes the storage-level overlap guards:
// 23P01 is the exclusion constraint (bookings_no_overlap), 23505 a unique
// violation from older schemas.
func isRangeViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23P01" || pgErr.Code == "23505"
	}
	return false
}
