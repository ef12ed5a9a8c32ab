package service

import (
	"context"
	"fmt"
	"time"

	"nerox-support-bot/internal/common/logger"
	"nerox-support-bot/internal/features/giveaway/models"
	"nerox-support-bot/internal/features/giveaway/repository"
	"nerox-support-bot/internal/platform/discord"
	"nerox-support-bot/internal/utils/duration"
	"nerox-support-bot/internal/utils/random"

	"github.com/rs/zerolog"
)

type Service struct {
	repo      repository.GiveawayRepository
	transport discord.Transport
	catalog   PrizeCatalog
	trigger   ExpiryTrigger
	logger    zerolog.Logger
	now       func() time.Time
}

func NewGiveawayService(repo repository.GiveawayRepository, transport discord.Transport, catalog PrizeCatalog) *Service {
	return &Service{
		repo:      repo,
		transport: transport,
		catalog:   catalog,
		logger:    logger.Component("giveaway"),
		now:       time.Now,
	}
}

// SetTrigger wires the expiry scheduler in after construction; the scheduler
// itself needs the service to close records.
func (s *Service) SetTrigger(trigger ExpiryTrigger) {
	s.trigger = trigger
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Giveaway, error) {
	dur, ok := duration.Parse(input.DurationToken)
	if !ok || dur < models.MinDuration {
		return nil, models.ErrInvalidDuration
	}
	if !s.catalog.Known(input.Prize) {
		return nil, models.ErrInvalidPrize
	}
	if input.WinnersCount < models.MinWinners || input.WinnersCount > models.MaxWinners {
		return nil, models.ErrInvalidWinners
	}

	id, err := random.Token(4)
	if err != nil {
		return nil, fmt.Errorf("failed to generate giveaway id: %w", err)
	}

	now := s.now()
	giveaway := &models.Giveaway{
		ID:           id,
		ChannelID:    input.ChannelID,
		GuildID:      input.GuildID,
		HostID:       input.HostID,
		Prize:        input.Prize,
		WinnersCount: input.WinnersCount,
		CreatedAt:    now.UnixMilli(),
		EndsAt:       now.Add(dur).UnixMilli(),
		Participants: []string{},
		WinnerIDs:    []string{},
	}

	// The announcement goes out before anything is persisted, so a failed
	// post never leaves an orphaned record behind.
	msg, err := s.transport.ChannelMessageSendEmbed(input.ChannelID, announcementEmbed(giveaway, s.catalog.Describe(input.Prize)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrAnnounceFailed, err)
	}
	giveaway.MessageID = msg.ID

	if err := s.transport.MessageReactionAdd(input.ChannelID, msg.ID, models.EntryEmoji); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrAnnounceFailed, err)
	}

	if err := s.repo.Set(ctx, giveaway); err != nil {
		return nil, fmt.Errorf("failed to persist giveaway: %w", err)
	}

	if s.trigger != nil {
		s.trigger.Arm(giveaway.ID, dur)
	}

	s.logger.Info().
		Str("giveaway_id", giveaway.ID).
		Str("prize", giveaway.Prize).
		Int("winners_count", giveaway.WinnersCount).
		Int64("ends_at", giveaway.EndsAt).
		Msg("Created giveaway")

	return giveaway, nil
}

func (s *Service) Close(ctx context.Context, id string) (*models.Giveaway, error) {
	giveaway, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	// Idempotency guard: the one-shot timer and the periodic sweep can both
	// reach an expired record; whoever loses the race is a no-op.
	if giveaway.Ended {
		return giveaway, nil
	}

	msg, err := s.transport.ChannelMessage(giveaway.ChannelID, giveaway.MessageID)
	if err != nil {
		// The channel or message is gone; close the record anyway so the
		// sweep does not retry it forever.
		s.logger.Warn().
			Str("giveaway_id", id).
			Err(err).
			Msg("Announcement unavailable, closing without participants")
		return s.finish(ctx, giveaway, nil, nil)
	}

	participants, err := discord.ReactionUsers(s.transport, giveaway.ChannelID, msg.ID, models.EntryEmoji)
	if err != nil {
		s.logger.Warn().
			Str("giveaway_id", id).
			Err(err).
			Msg("Failed to fetch reactions, closing with empty entries")
		participants = nil
	}

	winners := append([]string(nil), participants...)
	if err := random.Shuffle(winners); err != nil {
		s.logger.Error().Str("giveaway_id", id).Err(err).Msg("Shuffle failed")
	}
	if len(winners) > giveaway.WinnersCount {
		winners = winners[:giveaway.WinnersCount]
	}

	return s.finish(ctx, giveaway, participants, winners)
}

// finish persists the terminal state before any side effect, then applies
// prizes and announces. Transport failures past the store write are logged,
// never returned.
func (s *Service) finish(ctx context.Context, giveaway *models.Giveaway, participants, winners []string) (*models.Giveaway, error) {
	if participants == nil {
		participants = []string{}
	}
	if winners == nil {
		winners = []string{}
	}

	giveaway.Ended = true
	giveaway.EndedAt = s.now().UnixMilli()
	giveaway.Participants = participants
	giveaway.WinnerIDs = winners

	if err := s.repo.Set(ctx, giveaway); err != nil {
		return nil, fmt.Errorf("failed to persist ended giveaway: %w", err)
	}

	info := s.catalog.Describe(giveaway.Prize)
	for _, winnerID := range winners {
		if err := s.catalog.Apply(ctx, giveaway.Prize, winnerID, "Giveaway"); err != nil {
			// One winner's storage failure must not cost the others their
			// prize.
			s.logger.Error().
				Str("giveaway_id", giveaway.ID).
				Str("user_id", winnerID).
				Err(err).
				Msg("Failed to apply prize")
		}
	}

	if giveaway.MessageID != "" {
		if _, err := s.transport.ChannelMessageEditEmbed(giveaway.ChannelID, giveaway.MessageID, endedEmbed(giveaway, info)); err != nil {
			s.logger.Warn().Str("giveaway_id", giveaway.ID).Err(err).Msg("Failed to edit announcement")
		}
	}
	if len(winners) > 0 {
		if _, err := s.transport.ChannelMessageSend(giveaway.ChannelID, congratulationsMessage(winners, info)); err != nil {
			s.logger.Warn().Str("giveaway_id", giveaway.ID).Err(err).Msg("Failed to announce winners")
		}
	}

	s.logger.Info().
		Str("giveaway_id", giveaway.ID).
		Int("entries", len(participants)).
		Int("winners", len(winners)).
		Msg("Giveaway ended")

	return giveaway, nil
}

func (s *Service) Reroll(ctx context.Context, id string) (string, error) {
	giveaway, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if !giveaway.Ended {
		return "", models.ErrNotEnded
	}

	won := make(map[string]bool, len(giveaway.WinnerIDs))
	for _, winnerID := range giveaway.WinnerIDs {
		won[winnerID] = true
	}
	var eligible []string
	for _, userID := range giveaway.Participants {
		if !won[userID] {
			eligible = append(eligible, userID)
		}
	}
	if len(eligible) == 0 {
		return "", models.ErrNoEligible
	}

	winnerID, err := random.Pick(eligible)
	if err != nil {
		return "", err
	}

	if err := s.catalog.Apply(ctx, giveaway.Prize, winnerID, "Giveaway Reroll"); err != nil {
		return "", err
	}

	giveaway.WinnerIDs = append(giveaway.WinnerIDs, winnerID)
	if err := s.repo.Set(ctx, giveaway); err != nil {
		return "", fmt.Errorf("failed to persist reroll: %w", err)
	}

	info := s.catalog.Describe(giveaway.Prize)
	if _, err := s.transport.ChannelMessageSend(giveaway.ChannelID, rerollMessage(winnerID, info)); err != nil {
		s.logger.Warn().Str("giveaway_id", id).Err(err).Msg("Failed to announce reroll")
	}

	s.logger.Info().
		Str("giveaway_id", id).
		Str("user_id", winnerID).
		Msg("Rerolled winner")

	return winnerID, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	giveaway, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	// The posted message may already be gone; that is fine.
	if giveaway.MessageID != "" {
		if err := s.transport.ChannelMessageDelete(giveaway.ChannelID, giveaway.MessageID); err != nil {
			s.logger.Debug().Str("giveaway_id", id).Err(err).Msg("Announcement already deleted")
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("giveaway_id", id).Msg("Deleted giveaway")
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Giveaway, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListOpen(ctx context.Context) ([]*models.Giveaway, error) {
	ids, err := s.repo.ListIDs(ctx)
	if err != nil {
		return nil, err
	}

	var open []*models.Giveaway
	for _, id := range ids {
		giveaway, err := s.repo.Get(ctx, id)
		if err != nil {
			if err == repository.ErrGiveawayNotFound {
				continue
			}
			return nil, err
		}
		if !giveaway.Ended {
			open = append(open, giveaway)
		}
	}

	return open, nil
}
