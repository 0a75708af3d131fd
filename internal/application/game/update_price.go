package game

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xiebiao/gamesup/internal/domain/game"
	"github.com/xiebiao/gamesup/pkg/logger"
	"github.com/xiebiao/gamesup/pkg/money"
)

// UpdatePriceUseCase 修改目录价格（管理员）
// 已加入订单的明细保存的是快照价，不受影响
//
// 缓存采用延迟双删：写库前删一次，写库后再删一次。
// 写库期间未命中的读请求可能把旧价回填到Redis，第二次删除会清掉它
type UpdatePriceUseCase struct {
	gameService game.Service
	cache       game.Invalidator
}

func NewUpdatePriceUseCase(gameService game.Service, cache game.Invalidator) *UpdatePriceUseCase {
	return &UpdatePriceUseCase{gameService: gameService, cache: cache}
}

func (uc *UpdatePriceUseCase) Execute(ctx context.Context, id uint, price decimal.Decimal) (*GameResponse, error) {
	if !money.IsValidAmount(price) {
		return nil, game.ErrInvalidPrice
	}

	invalidate(ctx, uc.cache, id)
	g, err := uc.gameService.UpdatePrice(ctx, id, price)
	if err != nil {
		return nil, err
	}
	invalidate(ctx, uc.cache, id)

	logger.FromCtx(ctx).Info("game price updated",
		zap.Uint("game_id", g.ID),
		zap.String("price", g.BasePrice.StringFixed(2)),
	)
	return NewGameResponse(g), nil
}

// invalidate 删除缓存失败只记录日志，最坏情况是TTL内读到旧值
func invalidate(ctx context.Context, cache game.Invalidator, id uint) {
	if err := cache.Invalidate(ctx, id); err != nil {
		logger.FromCtx(ctx).Warn("failed to invalidate game cache", zap.Uint("game_id", id), zap.Error(err))
	}
}
