package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"readmore/referral/internal/model"
)

type pgCampaignRepository struct {
	db *gorm.DB
}

func NewPGCampaignRepository(db *gorm.DB) CampaignRepository {
	return &pgCampaignRepository{db: db}
}

// rankLockKey serializes rank assignment across concurrent creates via a
// transaction-scoped advisory lock. Rank has no unique index: parallel rank
// shifts move several rows through the same values transiently, which a
// unique index would reject.
const rankLockKey = "friend_help_campaigns_rank"

func (r *pgCampaignRepository) Create(ctx context.Context, campaign *model.Campaign) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", rankLockKey).Error; err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&model.Campaign{}).Count(&count).Error; err != nil {
			return err
		}
		campaign.Rank = int(count) + 1
		return tx.Create(campaign).Error
	})
}

func (r *pgCampaignRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Campaign, error) {
	var campaign model.Campaign
	if err := r.db.WithContext(ctx).First(&campaign, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *pgCampaignRepository) GetByBookID(ctx context.Context, bookID uuid.UUID) (*model.Campaign, error) {
	var campaign model.Campaign
	if err := r.db.WithContext(ctx).First(&campaign, "book_id = ?", bookID).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *pgCampaignRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Campaign{}).Count(&count).Error
	return count, err
}

func (r *pgCampaignRepository) List(ctx context.Context, offset, limit int) ([]model.Campaign, error) {
	var campaigns []model.Campaign
	err := r.db.WithContext(ctx).
		Order("rank ASC, created_at DESC").
		Offset(offset).Limit(limit).
		Find(&campaigns).Error
	return campaigns, err
}

func (r *pgCampaignRepository) ListRankGreater(ctx context.Context, rank int) ([]model.Campaign, error) {
	var campaigns []model.Campaign
	err := r.db.WithContext(ctx).Where("rank > ?", rank).Find(&campaigns).Error
	return campaigns, err
}

func (r *pgCampaignRepository) ListRankLess(ctx context.Context, rank int) ([]model.Campaign, error) {
	var campaigns []model.Campaign
	err := r.db.WithContext(ctx).Where("rank < ?", rank).Find(&campaigns).Error
	return campaigns, err
}

func (r *pgCampaignRepository) ListAllOrdered(ctx context.Context) ([]model.Campaign, error) {
	var campaigns []model.Campaign
	err := r.db.WithContext(ctx).Order("rank ASC, created_at DESC").Find(&campaigns).Error
	return campaigns, err
}

func (r *pgCampaignRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Campaign{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *pgCampaignRepository) SetRank(ctx context.Context, id uuid.UUID, rank int) error {
	return r.db.WithContext(ctx).
		Model(&model.Campaign{}).
		Where("id = ?", id).
		UpdateColumn("rank", rank).Error
}

func (r *pgCampaignRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Campaign{}, "id = ?", id).Error
}
