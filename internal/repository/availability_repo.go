package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"carbnb/internal/domain"
)

type AvailabilityRepository struct {
	db *gorm.DB
}

func NewAvailabilityRepository(db *gorm.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

func (r *AvailabilityRepository) Create(ctx context.Context, b *domain.AvailabilityBlock) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *AvailabilityRepository) GetByID(ctx context.Context, id int64) (*domain.AvailabilityBlock, error) {
	var block domain.AvailabilityBlock
	if err := r.db.WithContext(ctx).First(&block, id).Error; err != nil {
		return nil, err
	}
	return &block, nil
}

func (r *AvailabilityRepository) GetByCarID(ctx context.Context, carID int64) ([]domain.AvailabilityBlock, error) {
	var blocks []domain.AvailabilityBlock
	err := r.db.WithContext(ctx).
		Where("car_id = ?", carID).
		Order("start_date").
		Find(&blocks).Error
	return blocks, err
}

func (r *AvailabilityRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&domain.AvailabilityBlock{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindConflict returns the first owner block intersecting [start, end],
// inclusive on both ends. Blocks always conflict; they have no status.
func (r *AvailabilityRepository) FindConflict(ctx context.Context, carID int64, start, end time.Time) (*domain.DateRange, error) {
	var block domain.AvailabilityBlock
	err := r.db.WithContext(ctx).
		Where("car_id = ?", carID).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Order("start_date").
		First(&block).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	rng := block.Range()
	return &rng, nil
}
