package repository

import (
	"context"

	"github.com/google/uuid"

	"readmore/referral/internal/model"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}
