package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"readmore/referral/internal/metrics"
	"readmore/referral/internal/model"
	"readmore/referral/internal/repository"
)

// CampaignView is one campaign in a listing page, joined with the book
// summary and, for an authenticated caller, their ticket completion status.
type CampaignView struct {
	model.Campaign
	Book    *model.Book `json:"book,omitempty"`
	Success bool        `json:"success"`
}

// CampaignService manages referral campaigns and their dense display ranks.
type CampaignService interface {
	Create(ctx context.Context, bookID uuid.UUID, needNum int, limitDays *int) (*model.Campaign, error)
	Update(ctx context.Context, id uuid.UUID, needNum, limitDays *int) (*model.Campaign, error)
	// Delete removes the campaign and closes the rank gap by decrementing
	// every higher rank. Returns ErrPartialShift if the shift fan-out could
	// not be completed or reconciled; the shift is idempotent and safe to
	// retry.
	Delete(ctx context.Context, id uuid.UUID) error
	// PromoteToTop moves the campaign to rank 1, shifting every campaign
	// above it back by one position.
	PromoteToTop(ctx context.Context, id uuid.UUID) error
	// List returns the total campaign count and one page of views. Per-item
	// lookup failures degrade that item (no book summary, success=false)
	// and never fail the page.
	List(ctx context.Context, page, limit int, userID *uuid.UUID) (int64, []CampaignView, error)
}

type campaignService struct {
	campaigns repository.CampaignRepository
	tickets   repository.TicketRepository
	books     repository.BookRepository
	logger    *zap.Logger
}

func NewCampaignService(
	campaigns repository.CampaignRepository,
	tickets repository.TicketRepository,
	books repository.BookRepository,
	logger *zap.Logger,
) CampaignService {
	return &campaignService{
		campaigns: campaigns,
		tickets:   tickets,
		books:     books,
		logger:    logger,
	}
}

func (s *campaignService) Create(ctx context.Context, bookID uuid.UUID, needNum int, limitDays *int) (*model.Campaign, error) {
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	if _, err := s.campaigns.GetByBookID(ctx, bookID); err == nil {
		return nil, ErrCampaignExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get campaign by book: %w", err)
	}

	campaign := &model.Campaign{
		BookID:    bookID,
		NeedNum:   &needNum,
		LimitDays: limitDays,
	}
	if err := s.campaigns.Create(ctx, campaign); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Concurrent create for the same book won.
			return nil, ErrCampaignExists
		}
		return nil, fmt.Errorf("create campaign: %w", err)
	}
	return campaign, nil
}

func (s *campaignService) Update(ctx context.Context, id uuid.UUID, needNum, limitDays *int) (*model.Campaign, error) {
	if needNum == nil && limitDays == nil {
		return nil, ErrEmptyUpdate
	}

	if _, err := s.campaigns.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("get campaign: %w", err)
	}

	fields := map[string]interface{}{}
	if needNum != nil {
		fields["need_num"] = *needNum
	}
	if limitDays != nil {
		fields["limit_days"] = *limitDays
	}
	if err := s.campaigns.UpdateFields(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("update campaign: %w", err)
	}
	return s.campaigns.GetByID(ctx, id)
}

func (s *campaignService) Delete(ctx context.Context, id uuid.UUID) error {
	campaign, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCampaignNotFound
		}
		return fmt.Errorf("get campaign: %w", err)
	}

	// Snapshot the rows to shift before deleting so the shift targets are
	// computed from the pre-deletion state.
	toShift, err := s.campaigns.ListRankGreater(ctx, campaign.Rank)
	if err != nil {
		return fmt.Errorf("list campaigns to shift: %w", err)
	}

	if err := s.campaigns.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range toShift {
		g.Go(func() error {
			return s.campaigns.SetRank(gctx, c.ID, c.Rank-1)
		})
	}
	if err := g.Wait(); err != nil {
		metrics.RankShiftFailures.Inc()
		s.logger.Warn("rank shift after delete incomplete, reconciling",
			zap.String("campaign_id", id.String()), zap.Error(err))
		if rerr := s.resequence(ctx); rerr != nil {
			return fmt.Errorf("%w: %v", ErrPartialShift, err)
		}
	}
	return nil
}

func (s *campaignService) PromoteToTop(ctx context.Context, id uuid.UUID) error {
	campaign, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCampaignNotFound
		}
		return fmt.Errorf("get campaign: %w", err)
	}
	if campaign.Rank == 1 {
		return nil
	}

	toShift, err := s.campaigns.ListRankLess(ctx, campaign.Rank)
	if err != nil {
		return fmt.Errorf("list campaigns to shift: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range toShift {
		g.Go(func() error {
			return s.campaigns.SetRank(gctx, c.ID, c.Rank+1)
		})
	}
	g.Go(func() error {
		return s.campaigns.SetRank(gctx, campaign.ID, 1)
	})
	if err := g.Wait(); err != nil {
		metrics.RankShiftFailures.Inc()
		s.logger.Warn("promote-to-top shift incomplete",
			zap.String("campaign_id", id.String()), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrPartialShift, err)
	}
	return nil
}

// resequence renumbers all campaigns 1..N from a fresh ordered read. The
// (rank, created_at) sort keeps the relative order stable even when a failed
// shift left duplicate ranks behind.
func (s *campaignService) resequence(ctx context.Context) error {
	campaigns, err := s.campaigns.ListAllOrdered(ctx)
	if err != nil {
		return fmt.Errorf("list campaigns: %w", err)
	}
	for i, c := range campaigns {
		if c.Rank == i+1 {
			continue
		}
		if err := s.campaigns.SetRank(ctx, c.ID, i+1); err != nil {
			return fmt.Errorf("set rank: %w", err)
		}
	}
	return nil
}

func (s *campaignService) List(ctx context.Context, page, limit int, userID *uuid.UUID) (int64, []CampaignView, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	total, err := s.campaigns.Count(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("count campaigns: %w", err)
	}
	campaigns, err := s.campaigns.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return 0, nil, fmt.Errorf("list campaigns: %w", err)
	}

	// Per-item fan-out, bounded by the page size. Each item degrades on its
	// own lookup failures; the page itself never fails here.
	views := make([]CampaignView, len(campaigns))
	var wg sync.WaitGroup
	for i, c := range campaigns {
		views[i] = CampaignView{Campaign: c}
		wg.Add(1)
		go func() {
			defer wg.Done()

			book, err := s.books.GetByID(ctx, c.BookID)
			if err != nil {
				s.logger.Warn("book summary lookup failed",
					zap.String("book_id", c.BookID.String()), zap.Error(err))
			} else {
				views[i].Book = book
			}

			if userID == nil {
				return
			}
			ticket, err := s.tickets.GetByOwnerAndCampaign(ctx, *userID, c.ID)
			switch {
			case err == nil:
				views[i].Success = ticket.Completed
			case errors.Is(err, gorm.ErrRecordNotFound):
				// No ticket yet; status stays false.
			default:
				s.logger.Warn("ticket status lookup failed",
					zap.String("campaign_id", c.ID.String()), zap.Error(err))
			}
		}()
	}
	wg.Wait()

	return total, views, nil
}
