package user

import (
	"context"
)

// Repository 用户仓储接口
type Repository interface {
	// Create 邮箱重复返回ErrEmailDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 不存在返回NotFound（user not found with id: N）
	FindByID(ctx context.Context, id uint) (*User, error)

	FindByEmail(ctx context.Context, email string) (*User, error)

	Update(ctx context.Context, user *User) error
}

// Finder 用户目录（创建订单时校验用户存在）
type Finder interface {
	FindByID(ctx context.Context, id uint) (*User, error)
}
