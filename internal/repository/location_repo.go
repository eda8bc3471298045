package repository

import (
	"context"

	"gorm.io/gorm"

	"carbnb/internal/domain"
)

type LocationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) GetAll(ctx context.Context) ([]domain.Location, error) {
	var locations []domain.Location
	err := r.db.WithContext(ctx).Order("city, name").Find(&locations).Error
	return locations, err
}

func (r *LocationRepository) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	var loc domain.Location
	if err := r.db.WithContext(ctx).First(&loc, id).Error; err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *LocationRepository) Create(ctx context.Context, loc *domain.Location) error {
	return r.db.WithContext(ctx).Create(loc).Error
}

func (r *LocationRepository) Update(ctx context.Context, loc *domain.Location) error {
	return r.db.WithContext(ctx).Save(loc).Error
}

func (r *LocationRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Location{}, id).Error
}

// CountCars returns how many non-deleted cars reference the location, used
// to refuse deleting a location that still has a fleet.
func (r *LocationRepository) CountCars(ctx context.Context, id int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&domain.Car{}).
		Where("location_id = ? AND deleted_at IS NULL", id).
		Count(&cnt).Error
	return cnt, err
}
