package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xiebiao/gamesup/internal/domain/game"
	"github.com/xiebiao/gamesup/internal/infrastructure/config"
	"github.com/xiebiao/gamesup/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/gamesup/pkg/errors"
	"github.com/xiebiao/gamesup/pkg/logger"
	"github.com/xiebiao/gamesup/pkg/metrics"
)

const gameBreakerName = "redis_game_cache"

// GameCatalog 游戏目录的cache-aside缓存，实现game.Finder和game.Invalidator
//
// 读：Redis命中直接返回；未命中查MySQL后回填
// Redis故障由熔断器隔离，熔断期间所有读请求直接走MySQL
type GameCatalog struct {
	client  *redis.Client
	repo    game.Finder
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
}

// gameCacheEntry 缓存中的JSON结构，价格以字符串保存
type gameCacheEntry struct {
	ID          uint            `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Currency    string          `json:"currency"`
	PublisherID uint            `json:"publisher_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func NewGameCatalog(client *redis.Client, repo game.Finder, cfg *config.Config) *GameCatalog {
	failures := cfg.Cache.BreakerFailures
	if failures == 0 {
		failures = 5
	}

	breaker := circuitbreaker.New(gameBreakerName, circuitbreaker.Config{
		MaxRequests: cfg.Cache.BreakerHalfOpens,
		Interval:    cfg.Cache.BreakerInterval,
		Timeout:     cfg.Cache.BreakerTimeout,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			logger.L().Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
			metrics.SetCircuitBreakerState(name, int(to))
		},
	})

	return &GameCatalog{
		client:  client,
		repo:    repo,
		ttl:     cfg.Cache.GameTTL,
		breaker: breaker,
	}
}

func gameKey(id uint) string {
	return fmt.Sprintf("game:%d", id)
}

// FindByID 缓存优先，任何缓存故障都不影响查询结果
func (c *GameCatalog) FindByID(ctx context.Context, id uint) (*game.Game, error) {
	if g, ok := c.get(ctx, id); ok {
		return g, nil
	}

	g, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, g)
	return g, nil
}

// Invalidate 删除缓存，改价后调用
func (c *GameCatalog) Invalidate(ctx context.Context, id uint) error {
	if err := c.client.Del(ctx, gameKey(id)).Err(); err != nil {
		return apperrors.Wrapf(err, "failed to invalidate game cache: %d", id)
	}
	return nil
}

// Breaker 暴露熔断器状态（健康检查、测试）
func (c *GameCatalog) Breaker() *circuitbreaker.CircuitBreaker {
	return c.breaker
}

func (c *GameCatalog) get(ctx context.Context, id uint) (*game.Game, bool) {
	var data []byte
	err := c.execute(func() error {
		var err error
		data, err = c.client.Get(ctx, gameKey(id)).Bytes()
		return err
	})

	switch {
	case err == nil:
	case errors.Is(err, redis.Nil):
		metrics.RecordCatalogCache("miss")
		return nil, false
	case errors.Is(err, circuitbreaker.ErrOpenState):
		metrics.RecordCatalogCache("bypass")
		return nil, false
	default:
		metrics.RecordCatalogCache("error")
		logger.FromCtx(ctx).Warn("game cache read failed", zap.Uint("game_id", id), zap.Error(err))
		return nil, false
	}

	var entry gameCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		metrics.RecordCatalogCache("error")
		logger.FromCtx(ctx).Warn("game cache entry corrupted", zap.Uint("game_id", id), zap.Error(err))
		_ = c.client.Del(ctx, gameKey(id)).Err()
		return nil, false
	}

	metrics.RecordCatalogCache("hit")
	return entry.toGame(), true
}

func (c *GameCatalog) set(ctx context.Context, g *game.Game) {
	data, err := json.Marshal(newGameCacheEntry(g))
	if err != nil {
		return
	}
	err = c.execute(func() error {
		return c.client.Set(ctx, gameKey(g.ID), data, c.ttl).Err()
	})
	if err != nil && !errors.Is(err, circuitbreaker.ErrOpenState) {
		logger.FromCtx(ctx).Warn("game cache write failed", zap.Uint("game_id", g.ID), zap.Error(err))
	}
}

// execute 经过熔断器执行Redis命令并记录结果
func (c *GameCatalog) execute(req func() error) error {
	err := c.breaker.Execute(req)
	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState):
		metrics.RecordCircuitBreaker(gameBreakerName, "rejected")
	case err == nil || errors.Is(err, redis.Nil):
		metrics.RecordCircuitBreaker(gameBreakerName, "success")
	default:
		metrics.RecordCircuitBreaker(gameBreakerName, "failure")
	}
	return err
}

func newGameCacheEntry(g *game.Game) gameCacheEntry {
	return gameCacheEntry{
		ID:          g.ID,
		Title:       g.Title,
		Slug:        g.Slug,
		Description: g.Description,
		BasePrice:   g.BasePrice,
		Currency:    g.Currency,
		PublisherID: g.PublisherID,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func (e gameCacheEntry) toGame() *game.Game {
	return &game.Game{
		ID:          e.ID,
		Title:       e.Title,
		Slug:        e.Slug,
		Description: e.Description,
		BasePrice:   e.BasePrice,
		Currency:    e.Currency,
		PublisherID: e.PublisherID,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
