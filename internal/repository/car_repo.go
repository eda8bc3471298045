package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"carbnb/internal/domain"
)

type CarFilters struct {
	Make         string
	Model        string
	City         string
	Category     string
	Transmission string
	FuelType     string
	Seats        int
	LocationID   int64
	MinPrice     float64
	MaxPrice     float64
	// IncludeUnavailable lifts the default is_available = true filter
	// (owner dashboards need to see paused listings).
	IncludeUnavailable bool
	Limit              int
	Offset             int
}

type CarRepository struct {
	db *gorm.DB
}

func NewCarRepository(db *gorm.DB) *CarRepository {
	return &CarRepository{db: db}
}

func (r *CarRepository) GetAll(ctx context.Context, f CarFilters) ([]domain.Car, int64, error) {
	var cars []domain.Car
	var total int64

	q := r.db.WithContext(ctx).
		Model(&domain.Car{}).
		Where("cars.deleted_at IS NULL")

	if f.Make != "" {
		q = q.Where("LOWER(cars.make) LIKE ?", "%"+strings.ToLower(f.Make)+"%")
	}
	if f.Model != "" {
		q = q.Where("LOWER(cars.model) LIKE ?", "%"+strings.ToLower(f.Model)+"%")
	}
	if f.Category != "" {
		q = q.Where("cars.category = ?", f.Category)
	}
	if f.Transmission != "" {
		q = q.Where("cars.transmission = ?", f.Transmission)
	}
	if f.FuelType != "" {
		q = q.Where("cars.fuel_type = ?", f.FuelType)
	}
	if f.Seats > 0 {
		q = q.Where("cars.seats = ?", f.Seats)
	}
	if f.LocationID > 0 {
		q = q.Where("cars.location_id = ?", f.LocationID)
	}
	if f.City != "" {
		q = q.Joins("JOIN locations ON locations.id = cars.location_id").
			Where("locations.city = ?", f.City)
	}
	if f.MinPrice > 0 {
		q = q.Where("cars.daily_rate >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("cars.daily_rate <= ?", f.MaxPrice)
	}
	if !f.IncludeUnavailable {
		q = q.Where("cars.is_available = ?", true)
	}

	q.Count(&total)

	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}

	err := q.
		Preload("Location").
		Preload("Images").
		Order("cars.created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&cars).Error

	return cars, total, err
}

func (r *CarRepository) GetByID(ctx context.Context, id int64) (*domain.Car, error) {
	var car domain.Car
	err := r.db.WithContext(ctx).
		Where("cars.id = ? AND deleted_at IS NULL", id).
		Preload("Location").
		Preload("Images").
		First(&car).Error
	if err != nil {
		return nil, err
	}
	return &car, nil
}

func (r *CarRepository) GetByOwnerID(ctx context.Context, ownerID int64) ([]domain.Car, error) {
	var cars []domain.Car
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND deleted_at IS NULL", ownerID).
		Preload("Location").
		Preload("Images").
		Order("created_at DESC").
		Find(&cars).Error
	return cars, err
}

func (r *CarRepository) Create(ctx context.Context, car *domain.Car) error {
	return r.db.WithContext(ctx).Create(car).Error
}

func (r *CarRepository) Update(ctx context.Context, car *domain.Car) error {
	return r.db.WithContext(ctx).Save(car).Error
}

// Delete soft-deletes the listing; booking history keeps pointing at it.
func (r *CarRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&domain.Car{}).
		Where("id = ?", id).
		Update("deleted_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

func (r *CarRepository) SetAvailable(ctx context.Context, id int64, available bool) error {
	return r.db.WithContext(ctx).
		Model(&domain.Car{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("is_available", available).Error
}

func (r *CarRepository) AddImage(ctx context.Context, img *domain.CarImage) error {
	return r.db.WithContext(ctx).Create(img).Error
}

func (r *CarRepository) GetImages(ctx context.Context, carID int64) ([]domain.CarImage, error) {
	var images []domain.CarImage
	err := r.db.WithContext(ctx).
		Where("car_id = ?", carID).
		Order("is_primary DESC, id").
		Find(&images).Error
	return images, err
}

func (r *CarRepository) SetMainImage(ctx context.Context, carID int64, url string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Car{}).
		Where("id = ?", carID).
		Update("main_image_url", url).Error
}

func (r *CarRepository) GetImage(ctx context.Context, imageID int64) (*domain.CarImage, error) {
	var img domain.CarImage
	if err := r.db.WithContext(ctx).First(&img, imageID).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *CarRepository) DeleteImage(ctx context.Context, imageID int64) error {
	return r.db.WithContext(ctx).Delete(&domain.CarImage{}, imageID).Error
}

// SetPrimaryImage flips the primary flag to the given image and mirrors
// its URL onto the car for cheap listing queries.
func (r *CarRepository) SetPrimaryImage(ctx context.Context, carID, imageID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var img domain.CarImage
		if err := tx.Where("id = ? AND car_id = ?", imageID, carID).First(&img).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.CarImage{}).
			Where("car_id = ?", carID).
			Update("is_primary", false).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.CarImage{}).
			Where("id = ?", imageID).
			Update("is_primary", true).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Car{}).
			Where("id = ?", carID).
			Update("main_image_url", img.ImageURL).Error
	})
}
