package purchase

import (
	"context"
)

// ListParams 分页参数
type ListParams struct {
	Page     int
	PageSize int
}

// Offset 偏移量
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
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

// Repository 订单仓储接口
// 事务通过context传递（见mysql.TxManager），同一事务内的调用共享连接
type Repository interface {
	// Create 创建订单（含明细），回填ID
	Create(ctx context.Context, p *Purchase) error

	// FindByID 查询订单及明细，不存在返回NotFound
	FindByID(ctx context.Context, id uint) (*Purchase, error)

	// LockByID 同FindByID，但对订单行加排他锁（SELECT ... FOR UPDATE），必须在事务中调用
	LockByID(ctx context.Context, id uint) (*Purchase, error)

	// Save 持久化聚合：更新订单字段，插入新明细（ID为0），删除已移除的明细
	Save(ctx context.Context, p *Purchase) error

	// Delete 删除订单及其全部明细，不存在返回NotFound
	Delete(ctx context.Context, id uint) error

	// List 全部订单，按创建时间倒序
	List(ctx context.Context, params ListParams) ([]*Purchase, int64, error)

	// ListByUserID 用户的订单，按创建时间倒序
	ListByUserID(ctx context.Context, userID uint, params ListParams) ([]*Purchase, int64, error)

	// ListByStatus 指定状态的订单，按创建时间倒序
	ListByStatus(ctx context.Context, status Status, params ListParams) ([]*Purchase, int64, error)
}
