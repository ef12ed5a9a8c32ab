package service

import (
	"context"
	"time"

	"nerox-support-bot/internal/features/giveaway/models"
	"nerox-support-bot/internal/features/prize"
)

// CreateInput carries everything needed to start a giveaway.
type CreateInput struct {
	HostID        string
	GuildID       string
	ChannelID     string
	DurationToken string
	Prize         string
	WinnersCount  int
}

type GiveawayService interface {
	// Create validates the input, posts the announcement, persists the
	// record and arms an expiry trigger. Nothing is persisted when the
	// announcement cannot be posted.
	Create(ctx context.Context, input CreateInput) (*models.Giveaway, error)
	// Close ends the giveaway: reads reaction participants, selects
	// winners, persists the ended record before any side effect, then
	// applies prizes and announces. A missing record returns
	// repository.ErrGiveawayNotFound; an already ended record is returned
	// unchanged, so concurrent triggers are safe.
	Close(ctx context.Context, id string) (*models.Giveaway, error)
	// Reroll picks one new winner from participants who have not won yet,
	// applies the prize and appends them to the winner list.
	Reroll(ctx context.Context, id string) (string, error)
	// Delete removes the record and best-effort deletes the announcement.
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.Giveaway, error)
	ListOpen(ctx context.Context) ([]*models.Giveaway, error)
}

// PrizeCatalog is the slice of prize.Catalog the lifecycle uses.
type PrizeCatalog interface {
	Known(kind string) bool
	Describe(kind string) prize.Info
	Apply(ctx context.Context, kind, userID, actor string) error
}

// ExpiryTrigger arms a one-shot close trigger for a newly created record.
type ExpiryTrigger interface {
	Arm(id string, remaining time.Duration)
}
