package repository

import (
	"context"

	"github.com/google/uuid"

	"readmore/referral/internal/model"
)

type TicketRepository interface {
	// Create fails with gorm.ErrDuplicatedKey when a ticket already exists
	// for the same (owner, campaign); the caller re-reads the winner.
	Create(ctx context.Context, ticket *model.Ticket) error
	GetByShareCode(ctx context.Context, shareCode string) (*model.Ticket, error)
	GetByOwnerAndCampaign(ctx context.Context, ownerID, campaignID uuid.UUID) (*model.Ticket, error)
	// AppendRecord is a compare-and-swap: it appends rec and sets the
	// completed flag only if the ticket is still incomplete, still has
	// exactly expectedLen records, and rec's acceptor is not yet present.
	// Returns false when the ticket no longer matches (a concurrent accept
	// won the race).
	AppendRecord(ctx context.Context, shareCode string, expectedLen int, rec model.AcceptRecord, completed bool) (bool, error)
}
