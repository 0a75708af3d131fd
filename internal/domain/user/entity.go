package user

import (
	"time"
)

// Role 用户角色
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN" // 可发布游戏、发货、签收、删除订单
)

// User 用户实体
type User struct {
	ID        uint
	Email     string
	Password  string // bcrypt哈希值
	Nickname  string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建用户（密码必须已哈希）
func NewUser(email, hashedPassword, nickname string, role Role) *User {
	now := time.Now()
	return &User{
		Email:     email,
		Password:  hashedPassword,
		Nickname:  nickname,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
