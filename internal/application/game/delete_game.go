package game

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/gamesup/internal/domain/game"
	"github.com/xiebiao/gamesup/pkg/logger"
)

// DeleteGameUseCase 下架游戏（管理员，软删除）
// 已有订单明细只保存游戏ID和快照价，不受影响；缓存与改价一样双删
type DeleteGameUseCase struct {
	gameService game.Service
	cache       game.Invalidator
}

func NewDeleteGameUseCase(gameService game.Service, cache game.Invalidator) *DeleteGameUseCase {
	return &DeleteGameUseCase{gameService: gameService, cache: cache}
}

func (uc *DeleteGameUseCase) Execute(ctx context.Context, id uint) error {
	invalidate(ctx, uc.cache, id)
	if err := uc.gameService.DeleteGame(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, uc.cache, id)

	logger.FromCtx(ctx).Info("game deleted", zap.Uint("game_id", id))
	return nil
}
