package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"readmore/referral/internal/model"
)

type pgTicketRepository struct {
	db *gorm.DB
}

func NewPGTicketRepository(db *gorm.DB) TicketRepository {
	return &pgTicketRepository{db: db}
}

func (r *pgTicketRepository) Create(ctx context.Context, ticket *model.Ticket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

func (r *pgTicketRepository) GetByShareCode(ctx context.Context, shareCode string) (*model.Ticket, error) {
	var ticket model.Ticket
	if err := r.db.WithContext(ctx).First(&ticket, "share_code = ?", shareCode).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *pgTicketRepository) GetByOwnerAndCampaign(ctx context.Context, ownerID, campaignID uuid.UUID) (*model.Ticket, error) {
	var ticket model.Ticket
	err := r.db.WithContext(ctx).
		First(&ticket, "owner_id = ? AND campaign_id = ?", ownerID, campaignID).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *pgTicketRepository) AppendRecord(ctx context.Context, shareCode string, expectedLen int, rec model.AcceptRecord, completed bool) (bool, error) {
	recJSON, err := json.Marshal(model.AcceptRecords{rec})
	if err != nil {
		return false, fmt.Errorf("marshal accept record: %w", err)
	}
	// Containment match on uid only: the record is a duplicate whatever
	// name or avatar the acceptor carried at the time.
	matcher, err := json.Marshal([]map[string]string{{"uid": rec.UID.String()}})
	if err != nil {
		return false, fmt.Errorf("marshal acceptor matcher: %w", err)
	}

	res := r.db.WithContext(ctx).
		Model(&model.Ticket{}).
		Where("share_code = ? AND completed = FALSE AND jsonb_array_length(records) = ? AND NOT records @> ?::jsonb",
			shareCode, expectedLen, string(matcher)).
		Updates(map[string]interface{}{
			"records":   gorm.Expr("records || ?::jsonb", string(recJSON)),
			"completed": completed,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
