package database

import (
	"context"
	"strconv"
	"time"

	"creditProject/config"
	"github.com/redis/go-redis/v9"
)

// ScoreCache кэширует рассчитанный кредитный рейтинг клиента
type ScoreCache struct {
	client *redis.Client
	ctx    context.Context
	ttl    time.Duration
}

// NewScoreCache создает новый кэш рейтингов поверх Redis
func NewScoreCache(cfg *config.Config) *ScoreCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	return &ScoreCache{
		client: rdb,
		ctx:    context.Background(),
		ttl:    time.Duration(cfg.Redis.ScoreTTL) * time.Minute,
	}
}

func scoreKey(customerID uint) string {
	return "credit_score:" + strconv.FormatUint(uint64(customerID), 10)
}

// Get возвращает закэшированный рейтинг, если он есть
func (c *ScoreCache) Get(customerID uint) (int, bool) {
	val, err := c.client.Get(c.ctx, scoreKey(customerID)).Result()
	if err != nil {
		return 0, false
	}
	score, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return score, true
}

// Set сохраняет рейтинг клиента
func (c *ScoreCache) Set(customerID uint, score int) error {
	return c.client.Set(c.ctx, scoreKey(customerID), strconv.Itoa(score), c.ttl).Err()
}

// Invalidate сбрасывает рейтинг клиента после изменения его кредитов
func (c *ScoreCache) Invalidate(customerID uint) error {
	return c.client.Del(c.ctx, scoreKey(customerID)).Err()
}
