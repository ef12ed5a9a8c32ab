package repository

import (
	"context"
	"errors"

	"nerox-support-bot/internal/features/giveaway/models"
)

var ErrGiveawayNotFound = errors.New("giveaway not found")

// GiveawayRepository persists giveaway records keyed by id. Lifecycle
// invariants (idempotent close and so on) are enforced by the service, not
// here.
type GiveawayRepository interface {
	Get(ctx context.Context, id string) (*models.Giveaway, error)
	Set(ctx context.Context, giveaway *models.Giveaway) error
	Delete(ctx context.Context, id string) error
	ListIDs(ctx context.Context) ([]string, error)
}
