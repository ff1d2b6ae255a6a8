package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const scoresCacheKey = "scoreboard:scores"

// ScoreCache keeps the last scores listing in redis so polling clients do not
// hit the database on every refresh. A nil client disables it.
type ScoreCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewScoreCache(client *redis.Client, ttl time.Duration) *ScoreCache {
	return &ScoreCache{redis: client, ttl: ttl}
}

func (c *ScoreCache) enabled() bool {
	return c != nil && c.redis != nil
}

func (c *ScoreCache) Store(ctx context.Context, rows []ScoreRow) error {
	if !c.enabled() {
		return nil
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal scores: %v", err)
	}

	if err := c.redis.Set(ctx, scoresCacheKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store in Redis: %v", err)
	}
	return nil
}

// Load returns the cached listing, or nil on a miss or any redis problem.
func (c *ScoreCache) Load(ctx context.Context) []ScoreRow {
	if !c.enabled() {
		return nil
	}

	data, err := c.redis.Get(ctx, scoresCacheKey).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Redis error getting scores: %v", err)
		}
		return nil
	}

	var rows []ScoreRow
	if err := json.Unmarshal([]byte(data), &rows); err != nil {
		log.Printf("Failed to unmarshal cached scores: %v", err)
		return nil
	}
	return rows
}

// Invalidate drops the cached listing. Called after every committed action.
func (c *ScoreCache) Invalidate(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if err := c.redis.Del(ctx, scoresCacheKey).Err(); err != nil {
		log.Printf("Failed to invalidate scores cache: %v", err)
	}
}
