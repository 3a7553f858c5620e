package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"readmore/referral/internal/model"
)

type pgUnlockRepository struct {
	db *gorm.DB
}

func NewPGUnlockRepository(db *gorm.DB) UnlockRepository {
	return &pgUnlockRepository{db: db}
}

func (r *pgUnlockRepository) Create(ctx context.Context, unlock *model.Unlock) error {
	return r.db.WithContext(ctx).Create(unlock).Error
}

func (r *pgUnlockRepository) GetByUserAndBook(ctx context.Context, userID, bookID uuid.UUID) (*model.Unlock, error) {
	var unlock model.Unlock
	err := r.db.WithContext(ctx).
		First(&unlock, "user_id = ? AND book_id = ?", userID, bookID).Error
	if err != nil {
		return nil, err
	}
	return &unlock, nil
}
