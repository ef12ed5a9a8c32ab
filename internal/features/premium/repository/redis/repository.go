package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"nerox-support-bot/internal/features/premium/models"
	"nerox-support-bot/internal/features/premium/repository"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefixPremium  = "botstaff:"
	keyPremiumIDs     = "botstaff:ids"
	keyPrefixNoPrefix = "noprefix:"
	keyNoPrefixIDs    = "noprefix:ids"
)

type premiumRepository struct {
	client *redis.Client
}

func NewPremiumRepository(client *redis.Client) repository.PremiumRepository {
	return &premiumRepository{client: client}
}

func makePremiumKey(userID string) string {
	return keyPrefixPremium + userID
}

func (r *premiumRepository) Get(ctx context.Context, userID string) (*models.Grant, error) {
	data, err := r.client.Get(ctx, makePremiumKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, repository.ErrGrantNotFound
	}
	if err != nil {
		return nil, err
	}

	var grant models.Grant
	if err := json.Unmarshal(data, &grant); err != nil {
		return nil, fmt.Errorf("failed to unmarshal grant for %s: %w", userID, err)
	}

	return &grant, nil
}

func (r *premiumRepository) Set(ctx context.Context, userID string, grant *models.Grant) error {
	data, err := json.Marshal(grant)
	if err != nil {
		return fmt.Errorf("failed to marshal grant: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, makePremiumKey(userID), data, 0)
	pipe.SAdd(ctx, keyPremiumIDs, userID)

	_, err = pipe.Exec(ctx)
	return err
}

func (r *premiumRepository) Delete(ctx context.Context, userID string) error {
	pipe := r.client.Pipeline()
	pipe.Del(ctx, makePremiumKey(userID))
	pipe.SRem(ctx, keyPremiumIDs, userID)

	_, err := pipe.Exec(ctx)
	return err
}

func (r *premiumRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	return r.client.SMembers(ctx, keyPremiumIDs).Result()
}

type noPrefixRepository struct {
	client *redis.Client
}

func NewNoPrefixRepository(client *redis.Client) repository.NoPrefixRepository {
	return &noPrefixRepository{client: client}
}

func makeNoPrefixKey(userID string) string {
	return keyPrefixNoPrefix + userID
}

func (r *noPrefixRepository) Enable(ctx context.Context, userID string) error {
	pipe := r.client.Pipeline()
	pipe.Set(ctx, makeNoPrefixKey(userID), "1", 0)
	pipe.SAdd(ctx, keyNoPrefixIDs, userID)

	_, err := pipe.Exec(ctx)
	return err
}

func (r *noPrefixRepository) Enabled(ctx context.Context, userID string) (bool, error) {
	n, err := r.client.Exists(ctx, makeNoPrefixKey(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *noPrefixRepository) Disable(ctx context.Context, userID string) error {
	pipe := r.client.Pipeline()
	pipe.Del(ctx, makeNoPrefixKey(userID))
	pipe.SRem(ctx, keyNoPrefixIDs, userID)

	_, err := pipe.Exec(ctx)
	return err
}

func (r *noPrefixRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	return r.client.SMembers(ctx, keyNoPrefixIDs).Result()
}
