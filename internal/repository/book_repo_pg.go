package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"readmore/referral/internal/model"
)

type pgBookRepository struct {
	db *gorm.DB
}

func NewPGBookRepository(db *gorm.DB) BookRepository {
	return &pgBookRepository{db: db}
}

func (r *pgBookRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	var book model.Book
	err := r.db.WithContext(ctx).
		Select("id", "name", "author", "img_url", "created_at").
		First(&book, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}
