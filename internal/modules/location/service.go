package location

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"carbnb/internal/domain"
	"carbnb/internal/repository"
)

type Service struct {
	locations *repository.LocationRepository
	cars      *repository.CarRepository
}

func NewService(locations *repository.LocationRepository, cars *repository.CarRepository) *Service {
	return &Service{locations: locations, cars: cars}
}

func (s *Service) List(ctx context.Context) ([]domain.Location, error) {
	return s.locations.GetAll(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Location, error) {
	loc, err := s.locations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return loc, nil
}

// CarsAt lists the bookable fleet at a pickup point.
func (s *Service) CarsAt(ctx context.Context, id int64, limit, offset int) ([]domain.Car, int64, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, 0, err
	}
	return s.cars.GetAll(ctx, repository.CarFilters{
		LocationID: id,
		Limit:      limit,
		Offset:     offset,
	})
}

func (s *Service) Create(ctx context.Context, req CreateLocationRequest) (*domain.Location, error) {
	loc := &domain.Location{
		Name:         req.Name,
		City:         req.City,
		Address:      req.Address,
		Phone:        req.Phone,
		OpeningHours: req.OpeningHours,
	}
	if err := s.locations.Create(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateLocationRequest) (*domain.Location, error) {
	loc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		loc.Name = *req.Name
	}
	if req.City != nil {
		loc.City = *req.City
	}
	if req.Address != nil {
		loc.Address = *req.Address
	}
	if req.Phone != nil {
		loc.Phone = *req.Phone
	}
	if req.OpeningHours != nil {
		loc.OpeningHours = req.OpeningHours
	}

	if err := s.locations.Update(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

// Delete refuses to remove a pickup point that still has cars assigned.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	cnt, err := s.locations.CountCars(ctx, id)
	if err != nil {
		return err
	}
	if cnt > 0 {
		return ErrHasCars
	}

	return s.locations.Delete(ctx, id)
}
