package repository

import (
	"context"

	"gorm.io/gorm"

	"carbnb/internal/domain"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	return r.db.WithContext(ctx).Create(rv).Error
}

func (r *ReviewRepository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Review, error) {
	var rv domain.Review
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&rv).Error; err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *ReviewRepository) GetByCarID(ctx context.Context, carID int64, limit, offset int) ([]domain.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var reviews []domain.Review
	err := r.db.WithContext(ctx).
		Where("car_id = ?", carID).
		Preload("Renter").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	return reviews, err
}

// RatingForCar returns the average rating and review count for a car.
func (r *ReviewRepository) RatingForCar(ctx context.Context, carID int64) (float64, int64, error) {
	type agg struct {
		Avg   float64
		Count int64
	}
	var out agg
	err := r.db.WithContext(ctx).
		Model(&domain.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("car_id = ?", carID).
		Scan(&out).Error
	return out.Avg, out.Count, err
}
