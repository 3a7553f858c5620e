package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"readmore/referral/internal/metrics"
	"readmore/referral/internal/model"
	"readmore/referral/internal/repository"
)

// UnlockService issues the reward for a completed ticket: free access to
// the campaign's book for the ticket owner.
type UnlockService interface {
	// Grant creates the unlock unless one already exists for (user, book).
	// Safe against concurrent double-invocation: the unique index on the
	// pair decides the winner, not a read-then-write check.
	Grant(ctx context.Context, userID, bookID uuid.UUID) error
}

type unlockService struct {
	unlocks repository.UnlockRepository
	logger  *zap.Logger
}

func NewUnlockService(unlocks repository.UnlockRepository, logger *zap.Logger) UnlockService {
	return &unlockService{unlocks: unlocks, logger: logger}
}

func (s *unlockService) Grant(ctx context.Context, userID, bookID uuid.UUID) error {
	unlock := &model.Unlock{
		UserID: userID,
		BookID: bookID,
		Active: true,
	}
	if err := s.unlocks.Create(ctx, unlock); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.logger.Debug("unlock already granted",
				zap.String("user_id", userID.String()),
				zap.String("book_id", bookID.String()))
			return nil
		}
		return fmt.Errorf("create unlock: %w", err)
	}

	metrics.UnlocksGranted.Inc()
	s.logger.Info("book unlocked for completed referral",
		zap.String("user_id", userID.String()),
		zap.String("book_id", bookID.String()))
	return nil
}
