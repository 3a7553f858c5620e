package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"readmore/referral/internal/metrics"
	"readmore/referral/internal/model"
	"readmore/referral/internal/repository"
	"readmore/referral/pkg/sharecode"
)

// TicketService issues referral tickets and processes friend accepts.
// A ticket moves pending -> accumulating -> completed; completed is
// terminal and triggers the unlock grant exactly once.
type TicketService interface {
	// Issue returns the share code for (owner, campaign), creating the
	// ticket on first call and returning the existing code afterwards.
	Issue(ctx context.Context, campaignID, ownerID uuid.UUID, source model.ShareSource) (string, error)
	// Accept records one friend's acceptance of a share code.
	Accept(ctx context.Context, shareCode string, acceptorID uuid.UUID) error
}

type ticketService struct {
	tickets   repository.TicketRepository
	campaigns repository.CampaignRepository
	users     repository.UserRepository
	unlocks   UnlockService
	logger    *zap.Logger
}

func NewTicketService(
	tickets repository.TicketRepository,
	campaigns repository.CampaignRepository,
	users repository.UserRepository,
	unlocks UnlockService,
	logger *zap.Logger,
) TicketService {
	return &ticketService{
		tickets:   tickets,
		campaigns: campaigns,
		users:     users,
		unlocks:   unlocks,
		logger:    logger,
	}
}

func (s *ticketService) Issue(ctx context.Context, campaignID, ownerID uuid.UUID, source model.ShareSource) (string, error) {
	if !source.Valid() {
		return "", ErrInvalidSource
	}

	if _, err := s.campaigns.GetByID(ctx, campaignID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrCampaignNotFound
		}
		return "", fmt.Errorf("get campaign: %w", err)
	}

	existing, err := s.tickets.GetByOwnerAndCampaign(ctx, ownerID, campaignID)
	if err == nil {
		return existing.ShareCode, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("get ticket: %w", err)
	}

	code, err := sharecode.Generate()
	if err != nil {
		return "", fmt.Errorf("generate share code: %w", err)
	}
	ticket := &model.Ticket{
		CampaignID: campaignID,
		OwnerID:    ownerID,
		ShareCode:  code,
		Source:     source,
		Records:    model.AcceptRecords{},
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the create race; the winner's ticket holds the code.
			winner, rerr := s.tickets.GetByOwnerAndCampaign(ctx, ownerID, campaignID)
			if rerr != nil {
				return "", fmt.Errorf("reread ticket after create race: %w", rerr)
			}
			return winner.ShareCode, nil
		}
		return "", fmt.Errorf("create ticket: %w", err)
	}
	return ticket.ShareCode, nil
}

func (s *ticketService) Accept(ctx context.Context, shareCode string, acceptorID uuid.UUID) error {
	err := s.accept(ctx, shareCode, acceptorID)
	metrics.AcceptTotal.WithLabelValues(acceptOutcome(err)).Inc()
	return err
}

func (s *ticketService) accept(ctx context.Context, shareCode string, acceptorID uuid.UUID) error {
	ticket, err := s.tickets.GetByShareCode(ctx, shareCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTicketNotFound
		}
		return fmt.Errorf("get ticket: %w", err)
	}

	campaign, err := s.campaigns.GetByID(ctx, ticket.CampaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCampaignNotFound
		}
		return fmt.Errorf("get campaign: %w", err)
	}

	// One clock read per attempt keeps the expiry check consistent across
	// the validation and its post-race rerun.
	now := time.Now()
	if err := validateAccept(ticket, campaign, acceptorID, now); err != nil {
		return err
	}

	acceptor, err := s.users.GetByID(ctx, acceptorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("get acceptor: %w", err)
	}
	rec := model.AcceptRecord{
		UID:        acceptor.ID,
		Name:       acceptor.Username,
		Avatar:     acceptor.Avatar,
		AcceptedAt: now,
	}

	// The conditional append either succeeds against the state we read or
	// matches zero rows because a concurrent accept got there first. One
	// retry against fresh state, then Conflict.
	for attempt := 0; attempt < 2; attempt++ {
		willComplete := campaign.NeedNum != nil && len(ticket.Records)+1 == *campaign.NeedNum

		ok, err := s.tickets.AppendRecord(ctx, shareCode, len(ticket.Records), rec, willComplete)
		if err != nil {
			return fmt.Errorf("append accept record: %w", err)
		}
		if ok {
			if willComplete {
				s.logger.Info("referral ticket completed",
					zap.String("share_code", shareCode),
					zap.String("owner_id", ticket.OwnerID.String()))
				if err := s.unlocks.Grant(ctx, ticket.OwnerID, campaign.BookID); err != nil {
					return fmt.Errorf("grant unlock: %w", err)
				}
			}
			return nil
		}

		ticket, err = s.tickets.GetByShareCode(ctx, shareCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTicketNotFound
			}
			return fmt.Errorf("reread ticket: %w", err)
		}
		if err := validateAccept(ticket, campaign, acceptorID, now); err != nil {
			return err
		}
	}
	return ErrConflict
}

func validateAccept(ticket *model.Ticket, campaign *model.Campaign, acceptorID uuid.UUID, now time.Time) error {
	if ticket.Completed {
		return ErrAlreadyCompleted
	}
	if ticket.Records.Contains(acceptorID) {
		return ErrDuplicateAccept
	}
	if campaign.LimitDays != nil {
		limit := time.Duration(*campaign.LimitDays) * 24 * time.Hour
		if now.Sub(ticket.CreatedAt) > limit {
			return ErrExpired
		}
	}
	if campaign.NeedNum != nil && len(ticket.Records) >= *campaign.NeedNum {
		return ErrAlreadyFull
	}
	return nil
}

func acceptOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeAccepted
	case errors.Is(err, ErrConflict):
		return metrics.OutcomeConflict
	case errors.Is(err, ErrTicketNotFound),
		errors.Is(err, ErrAlreadyCompleted),
		errors.Is(err, ErrDuplicateAccept),
		errors.Is(err, ErrExpired),
		errors.Is(err, ErrAlreadyFull),
		errors.Is(err, ErrUserNotFound):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}
