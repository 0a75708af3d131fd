package game

import (
	"context"
)

// Repository 游戏仓储接口
type Repository interface {
	Create(ctx context.Context, game *Game) error

	// FindByID 不存在返回NotFound（game not found with id: N）
	FindByID(ctx context.Context, id uint) (*Game, error)

	FindBySlug(ctx context.Context, slug string) (*Game, error)

	Update(ctx context.Context, game *Game) error

	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, params ListParams) ([]*Game, int64, error)
}

// Finder 只读查询（订单加明细时用于快照价格），可由缓存实现
type Finder interface {
	FindByID(ctx context.Context, id uint) (*Game, error)
}

// Invalidator 缓存失效（改价、删除后调用）
type Invalidator interface {
	Invalidate(ctx context.Context, id uint) error
}

// ListParams 查询参数
type ListParams struct {
	Page     int
	PageSize int
	Keyword  string // 搜索标题
	SortBy   string // price_asc, price_desc, created_at_desc
}
