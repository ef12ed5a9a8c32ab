package repository

import (
	"context"
	"errors"

	"nerox-support-bot/internal/features/premium/models"
)

var ErrGrantNotFound = errors.New("premium grant not found")

// PremiumRepository persists premium grants keyed by user id.
type PremiumRepository interface {
	Get(ctx context.Context, userID string) (*models.Grant, error)
	Set(ctx context.Context, userID string, grant *models.Grant) error
	Delete(ctx context.Context, userID string) error
	ListUserIDs(ctx context.Context) ([]string, error)
}

// NoPrefixRepository persists the per-user no-prefix flag.
type NoPrefixRepository interface {
	Enable(ctx context.Context, userID string) error
	Enabled(ctx context.Context, userID string) (bool, error)
	Disable(ctx context.Context, userID string) error
	ListUserIDs(ctx context.Context) ([]string, error)
}
