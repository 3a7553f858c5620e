package repository

import (
	"context"

	"github.com/google/uuid"

	"readmore/referral/internal/model"
)

type BookRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
}
