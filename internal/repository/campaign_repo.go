package repository

import (
	"context"

	"github.com/google/uuid"

	"readmore/referral/internal/model"
)

type CampaignRepository interface {
	// Create persists the campaign and assigns it the next dense rank
	// (current campaign count + 1). Implementations must serialize rank
	// assignment so concurrent creates never produce a duplicate rank.
	Create(ctx context.Context, campaign *model.Campaign) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Campaign, error)
	GetByBookID(ctx context.Context, bookID uuid.UUID) (*model.Campaign, error)
	Count(ctx context.Context) (int64, error)
	// List returns one page ordered by (rank asc, created_at desc). The
	// created_at tie-break keeps the order deterministic if a failed rank
	// shift left duplicate ranks behind.
	List(ctx context.Context, offset, limit int) ([]model.Campaign, error)
	ListRankGreater(ctx context.Context, rank int) ([]model.Campaign, error)
	ListRankLess(ctx context.Context, rank int) ([]model.Campaign, error)
	ListAllOrdered(ctx context.Context) ([]model.Campaign, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	SetRank(ctx context.Context, id uuid.UUID, rank int) error
	Delete(ctx context.Context, id uuid.UUID) error
}
