package repository

import (
	"context"

	"github.com/google/uuid"

	"readmore/referral/internal/model"
)

type UnlockRepository interface {
	// Create fails with gorm.ErrDuplicatedKey when an unlock already exists
	// for the same (user, book). The unique index is the idempotency guard:
	// a retried completion can call Create twice and only one row lands.
	Create(ctx context.Context, unlock *model.Unlock) error
	GetByUserAndBook(ctx context.Context, userID, bookID uuid.UUID) (*model.Unlock, error)
}
