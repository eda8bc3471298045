package fleet

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"carbnb/internal/domain"
	"carbnb/internal/pkg/validator"
	"carbnb/internal/repository"
)

type Service struct {
	cars      *repository.CarRepository
	locations *repository.LocationRepository
	reviews   *repository.ReviewRepository
}

func NewService(
	cars *repository.CarRepository,
	locations *repository.LocationRepository,
	reviews *repository.ReviewRepository,
) *Service {
	return &Service{cars: cars, locations: locations, reviews: reviews}
}

func (s *Service) ListCars(ctx context.Context, f repository.CarFilters) (*CarListResponse, error) {
	// renters only ever see bookable listings; owner dashboards use MyCars
	f.IncludeUnavailable = false

	cars, total, err := s.cars.GetAll(ctx, f)
	if err != nil {
		return nil, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	page := f.Offset/limit + 1

	return &CarListResponse{
		Cars:        cars,
		Total:       total,
		TotalPages:  pages,
		CurrentPage: page,
	}, nil
}

func (s *Service) GetCar(ctx context.Context, id int64) (*CarDetails, error) {
	car, err := s.cars.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rating, count, err := s.reviews.RatingForCar(ctx, id)
	if err != nil {
		return nil, err
	}

	return &CarDetails{Car: car, Rating: rating, ReviewCount: count}, nil
}

func (s *Service) CreateCar(ctx context.Context, ownerID int64, req CreateCarRequest) (*domain.Car, error) {
	if _, err := s.locations.GetByID(ctx, req.LocationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}

	car := &domain.Car{
		OwnerID:      ownerID,
		LocationID:   req.LocationID,
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		Seats:        req.Seats,
		DailyRate:    req.DailyRate,
		Description:  req.Description,
		Features:     req.Features,
		IsAvailable:  true,
		Category:     domain.CategoryEconomy,
		Transmission: domain.TransmissionAutomatic,
		FuelType:     domain.FuelPetrol,
	}
	if car.Seats == 0 {
		car.Seats = 5
	}

	if req.Category != "" {
		cat, ok := domain.ParseCarCategory(req.Category)
		if !ok {
			return nil, ErrValidation
		}
		car.Category = cat
	}
	if req.Transmission != "" {
		tr, ok := domain.ParseTransmission(req.Transmission)
		if !ok {
			return nil, ErrValidation
		}
		car.Transmission = tr
	}
	if req.FuelType != "" {
		ft, ok := domain.ParseFuelType(req.FuelType)
		if !ok {
			return nil, ErrValidation
		}
		car.FuelType = ft
	}

	if fields := validator.Validate(car); fields != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, fields)
	}

	if err := s.cars.Create(ctx, car); err != nil {
		return nil, err
	}
	return car, nil
}

func (s *Service) UpdateCar(ctx context.Context, ownerID, carID int64, req UpdateCarRequest) (*domain.Car, error) {
	car, err := s.getOwned(ctx, ownerID, carID)
	if err != nil {
		return nil, err
	}

	if req.LocationID != nil {
		if _, err := s.locations.GetByID(ctx, *req.LocationID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrLocationNotFound
			}
			return nil, err
		}
		car.LocationID = *req.LocationID
	}
	if req.Make != nil {
		car.Make = *req.Make
	}
	if req.Model != nil {
		car.Model = *req.Model
	}
	if req.Year != nil {
		car.Year = *req.Year
	}
	if req.Category != nil {
		cat, ok := domain.ParseCarCategory(*req.Category)
		if !ok {
			return nil, ErrValidation
		}
		car.Category = cat
	}
	if req.Transmission != nil {
		tr, ok := domain.ParseTransmission(*req.Transmission)
		if !ok {
			return nil, ErrValidation
		}
		car.Transmission = tr
	}
	if req.FuelType != nil {
		ft, ok := domain.ParseFuelType(*req.FuelType)
		if !ok {
			return nil, ErrValidation
		}
		car.FuelType = ft
	}
	if req.Seats != nil && *req.Seats > 0 {
		car.Seats = *req.Seats
	}
	if req.DailyRate != nil && *req.DailyRate > 0 {
		car.DailyRate = *req.DailyRate
	}
	if req.Description != nil {
		car.Description = *req.Description
	}
	if req.Features != nil {
		car.Features = *req.Features
	}

	if fields := validator.Validate(car); fields != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, fields)
	}

	// Save would write the preloaded associations back; strip them first
	car.Location = nil
	car.Images = nil

	if err := s.cars.Update(ctx, car); err != nil {
		return nil, err
	}
	return car, nil
}

func (s *Service) DeleteCar(ctx context.Context, ownerID, carID int64) error {
	if _, err := s.getOwned(ctx, ownerID, carID); err != nil {
		return err
	}
	return s.cars.Delete(ctx, carID)
}

func (s *Service) MyCars(ctx context.Context, ownerID int64) ([]domain.Car, error) {
	return s.cars.GetByOwnerID(ctx, ownerID)
}

func (s *Service) SetAvailability(ctx context.Context, ownerID, carID int64, available bool) error {
	if _, err := s.getOwned(ctx, ownerID, carID); err != nil {
		return err
	}
	return s.cars.SetAvailable(ctx, carID, available)
}

func (s *Service) getOwned(ctx context.Context, ownerID, carID int64) (*domain.Car, error) {
	car, err := s.cars.GetByID(ctx, carID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if car.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return car, nil
}
