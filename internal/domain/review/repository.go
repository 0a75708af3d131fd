package review

import (
	"context"
)

// ListParams 分页参数
type ListParams struct {
	Page     int
	PageSize int
}

// Normalize 页码从1开始，每页1~100条，默认20
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	return p
}

// Repository 评价仓储接口
type Repository interface {
	Create(ctx context.Context, r *Review) error

	// FindByID 不存在返回NotFound（review not found with id: N）
	FindByID(ctx context.Context, id uint) (*Review, error)

	// Update 只更新评分和评论
	Update(ctx context.Context, r *Review) error

	// Delete 不存在返回NotFound
	Delete(ctx context.Context, id uint) error

	// ListByGame 游戏的评价，按创建时间倒序
	ListByGame(ctx context.Context, gameID uint, params ListParams) ([]*Review, int64, error)

	// ListByUser 用户写的评价，按创建时间倒序
	ListByUser(ctx context.Context, userID uint, params ListParams) ([]*Review, int64, error)

	// Stats 评价数和平均分（SQL聚合）
	Stats(ctx context.Context, gameID uint) (Stats, error)
}
