package profile

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/redis/go-redis/v9"
)

const heroesKey = "heroes"

type redisRepo struct {
	client redis.UniversalClient
}

// NewRedis returns a repository storing each profile under hero:<id> and
// the set of known ids under "heroes".
func NewRedis(client redis.UniversalClient) Repository {
	if client == nil {
		panic("redis client cannot be nil")
	}
	return &redisRepo{client: client}
}

func (r *redisRepo) key(heroID string) string {
	return fmt.Sprintf("hero:%s", heroID)
}

func (r *redisRepo) Save(ctx context.Context, doc *Document) error {
	if doc == nil {
		return errors.New("document cannot be nil")
	}
	data, err := doc.Encode()
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(doc.HeroID), string(data), 0)
	pipe.SAdd(ctx, heroesKey, doc.HeroID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save profile %s to Redis: %w", doc.HeroID, err)
	}
	return nil
}

func (r *redisRepo) Load(ctx context.Context, heroID string) (*Document, error) {
	data, err := r.client.Get(ctx, r.key(heroID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile %s from Redis: %w", heroID, err)
	}
	return Decode(data)
}

func (r *redisRepo) List(ctx context.Context) ([]string, error) {
	ids, err := r.client.SMembers(ctx, heroesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles from Redis: %w", err)
	}
	slices.Sort(ids)
	return ids, nil
}

func (r *redisRepo) Delete(ctx context.Context, heroID string) error {
	pipe := r.client.Pipeline()
	del := pipe.Del(ctx, r.key(heroID))
	pipe.SRem(ctx, heroesKey, heroID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete profile %s from Redis: %w", heroID, err)
	}
	if del.Val() == 0 {
		return ErrNotFound
	}
	return nil
}
