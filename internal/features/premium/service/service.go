package service

import (
	"context"
	"errors"
	"time"

	"nerox-support-bot/internal/common/logger"
	"nerox-support-bot/internal/features/premium/models"
	"nerox-support-bot/internal/features/premium/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const dayMillis = int64(24 * time.Hour / time.Millisecond)

// UserGrant pairs a user id with their premium grant for listing.
type UserGrant struct {
	UserID string
	Grant  *models.Grant
}

type PremiumService interface {
	// Grant gives the user premium for the given number of days. A still
	// active grant is extended by that amount instead of being replaced;
	// the boolean reports whether an extension happened.
	Grant(ctx context.Context, userID string, days int, addedBy string) (*models.Grant, bool, error)
	// Remove deletes the user's grant, active or not.
	Remove(ctx context.Context, userID string) error
	// Status returns the user's grant (nil when absent) and whether it is
	// currently active.
	Status(ctx context.Context, userID string) (*models.Grant, bool, error)
	List(ctx context.Context) ([]UserGrant, error)
}

type premiumService struct {
	repo   repository.PremiumRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewPremiumService(repo repository.PremiumRepository) PremiumService {
	return &premiumService{
		repo:   repo,
		logger: logger.Component("premium"),
		now:    time.Now,
	}
}

func (s *premiumService) Grant(ctx context.Context, userID string, days int, addedBy string) (*models.Grant, bool, error) {
	if days < models.MinGrantDays || days > models.MaxGrantDays {
		return nil, false, models.ErrInvalidDays
	}

	now := s.now()

	current, err := s.repo.Get(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrGrantNotFound) {
		return nil, false, err
	}

	if current != nil && current.Active(now) {
		current.ExpiresAt += int64(days) * dayMillis
		if err := s.repo.Set(ctx, userID, current); err != nil {
			return nil, false, err
		}
		s.logger.Info().
			Str("user_id", userID).
			Int("days", days).
			Int64("expires_at", current.ExpiresAt).
			Msg("Extended premium grant")
		return current, true, nil
	}

	grant := &models.Grant{
		GrantID:    uuid.NewString(),
		ExpiresAt:  now.UnixMilli() + int64(days)*dayMillis,
		RedeemedAt: now.UnixMilli(),
		AddedBy:    addedBy,
	}
	if err := s.repo.Set(ctx, userID, grant); err != nil {
		return nil, false, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("grant_id", grant.GrantID).
		Int("days", days).
		Str("added_by", addedBy).
		Msg("Created premium grant")

	return grant, false, nil
}

func (s *premiumService) Remove(ctx context.Context, userID string) error {
	if _, err := s.repo.Get(ctx, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", userID).Msg("Removed premium grant")
	return nil
}

func (s *premiumService) Status(ctx context.Context, userID string) (*models.Grant, bool, error) {
	grant, err := s.repo.Get(ctx, userID)
	if errors.Is(err, repository.ErrGrantNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return grant, grant.Active(s.now()), nil
}

func (s *premiumService) List(ctx context.Context) ([]UserGrant, error) {
	userIDs, err := s.repo.ListUserIDs(ctx)
	if err != nil {
		return nil, err
	}

	grants := make([]UserGrant, 0, len(userIDs))
	for _, userID := range userIDs {
		grant, err := s.repo.Get(ctx, userID)
		if errors.Is(err, repository.ErrGrantNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		grants = append(grants, UserGrant{UserID: userID, Grant: grant})
	}

	return grants, nil
}
