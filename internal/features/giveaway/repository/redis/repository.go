package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"nerox-support-bot/internal/features/giveaway/models"
	"nerox-support-bot/internal/features/giveaway/repository"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefixGiveaway = "giveaway:"
	keyGiveawayIDs    = "giveaways:ids"
)

type redisRepository struct {
	client *redis.Client
}

func NewGiveawayRepository(client *redis.Client) repository.GiveawayRepository {
	return &redisRepository{client: client}
}

func makeGiveawayKey(id string) string {
	return keyPrefixGiveaway + id
}

func (r *redisRepository) Get(ctx context.Context, id string) (*models.Giveaway, error) {
	data, err := r.client.Get(ctx, makeGiveawayKey(id)).Bytes()
	if err == redis.Nil {
		return nil, repository.ErrGiveawayNotFound
	}
	if err != nil {
		return nil, err
	}

	var giveaway models.Giveaway
	if err := json.Unmarshal(data, &giveaway); err != nil {
		return nil, fmt.Errorf("failed to unmarshal giveaway %s: %w", id, err)
	}

	return &giveaway, nil
}

func (r *redisRepository) Set(ctx context.Context, giveaway *models.Giveaway) error {
	data, err := json.Marshal(giveaway)
	if err != nil {
		return fmt.Errorf("failed to marshal giveaway: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, makeGiveawayKey(giveaway.ID), data, 0)
	pipe.SAdd(ctx, keyGiveawayIDs, giveaway.ID)

	_, err = pipe.Exec(ctx)
	return err
}

func (r *redisRepository) Delete(ctx context.Context, id string) error {
	pipe := r.client.Pipeline()
	pipe.Del(ctx, makeGiveawayKey(id))
	pipe.SRem(ctx, keyGiveawayIDs, id)

	_, err := pipe.Exec(ctx)
	return err
}

func (r *redisRepository) ListIDs(ctx context.Context) ([]string, error) {
	return r.client.SMembers(ctx, keyGiveawayIDs).Result()
}
