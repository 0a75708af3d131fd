package wishlist

import (
	"context"
)

// Repository 愿望单仓储接口
type Repository interface {
	// Ensure 不存在则创建空愿望单（并发安全，唯一索引冲突时忽略）
	Ensure(ctx context.Context, userID uint) error

	// FindByUserID 不存在时返回(nil, nil)
	FindByUserID(ctx context.Context, userID uint) (*Wishlist, error)

	// LockByUserID SELECT ... FOR UPDATE，必须在事务中调用
	LockByUserID(ctx context.Context, userID uint) (*Wishlist, error)

	// Save 按Items同步明细（新增/删除）
	Save(ctx context.Context, w *Wishlist) error
}
