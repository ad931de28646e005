package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"ecochampions/config"
	"ecochampions/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type recyclingService struct {
	uowFactory UnitOfWorkFactory
	rewards    config.Rewards
	now        func() time.Time
}

// NewRecyclingService creates a new recycling service
func NewRecyclingService(uowFactory UnitOfWorkFactory, rewards config.Rewards) RecyclingService {
	return &recyclingService{
		uowFactory: uowFactory,
		rewards:    rewards,
		now:        time.Now,
	}
}

// RecordRecyclingLog stores the log, pays the base reward and, when the
// user's lifetime log count reaches a multiple of the streak length, the
// streak bonus. Everything commits together.
func (s *recyclingService) RecordRecyclingLog(ctx context.Context, userID uuid.UUID, material string, weight float64, photoURL string) (*RecyclingResult, error) {
	material = strings.ToLower(strings.TrimSpace(material))
	if material == "" {
		return nil, fmt.Errorf("material type is required: %w", ErrInvalidInput)
	}
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return nil, fmt.Errorf("weight must be a non-negative number: %w", ErrInvalidInput)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// Lock the user first so concurrent logs count one at a time
	user, err := uow.UserRepository().GetByIDForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	entry := &models.RecyclingLog{
		UserID:       userID,
		MaterialType: material,
		Weight:       weight,
		PhotoURL:     photoURL,
	}
	if err := uow.RecyclingLogRepository().Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create recycling log: %w", err)
	}

	award, err := AwardCoins(ctx, uow, userID, s.rewards.LogRecycling, models.ReasonLogRecycling)
	if err != nil {
		return nil, fmt.Errorf("failed to award recycling coins: %w", err)
	}

	// Counted after the insert, so the first log is 1 and the third qualifies
	count, err := uow.RecyclingLogRepository().CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count recycling logs: %w", err)
	}

	streak := s.rewards.StreakEvery > 0 && count%s.rewards.StreakEvery == 0
	if streak {
		award, err = AwardCoins(ctx, uow, userID, s.rewards.StreakBonus, models.ReasonThirdLogBonus)
		if err != nil {
			return nil, fmt.Errorf("failed to award streak bonus: %w", err)
		}
	}

	monthStart := GetCurrentMonthStart(s.now())
	monthLogs, err := uow.RecyclingLogRepository().GetByUserSince(ctx, userID, monthStart)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly recycling logs: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"user_id":      userID,
		"material":     material,
		"weight":       weight,
		"log_count":    count,
		"streak_bonus": streak,
		"balance":      award.Balance,
	}).Info("Recorded recycling log")

	return &RecyclingResult{
		Log:         entry,
		Balance:     award.Balance,
		Tier:        award.Tier,
		LogCount:    count,
		StreakBonus: streak,
		Monthly:     models.AggregateMonth(monthStart, monthLogs),
	}, nil
}

// ClaimGuideBonus pays the guide checklist bonus once per user. The flag
// flip and the award share a unit of work.
func (s *recyclingService) ClaimGuideBonus(ctx context.Context, userID uuid.UUID) (*AwardResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByIDForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	if user.GuideBonusClaimed {
		return nil, fmt.Errorf("guide bonus for user %s: %w", userID, ErrAlreadyClaimed)
	}

	claimed, err := uow.UserRepository().MarkGuideBonusClaimed(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark guide bonus claimed: %w", err)
	}
	if !claimed {
		return nil, fmt.Errorf("guide bonus for user %s: %w", userID, ErrAlreadyClaimed)
	}

	result, err := AwardCoins(ctx, uow, userID, s.rewards.GuideChecklist, models.ReasonGuideChecklist)
	if err != nil {
		return nil, fmt.Errorf("failed to award guide bonus: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"balance": result.Balance,
	}).Info("Guide bonus claimed")

	return result, nil
}
