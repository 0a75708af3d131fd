package user

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/gamesup/internal/domain/user"
	"github.com/xiebiao/gamesup/pkg/logger"
)

// RegisterUseCase 用户注册
type RegisterUseCase struct {
	userService user.Service
}

func NewRegisterUseCase(userService user.Service) *RegisterUseCase {
	return &RegisterUseCase{userService: userService}
}

func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*UserInfo, error) {
	u, err := uc.userService.Register(ctx, req.Email, req.Password, req.Nickname)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("user registered", zap.Uint("user_id", u.ID), zap.String("role", string(u.Role)))
	return newUserInfo(u), nil
}

type RegisterRequest struct {
	Email    string
	Password string
	Nickname string
}

// UserInfo 用户信息，不包含密码
type UserInfo struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Role     string `json:"role" example:"USER"`
}

func newUserInfo(u *user.User) *UserInfo {
	return &UserInfo{
		ID:       u.ID,
		Email:    u.Email,
		Nickname: u.Nickname,
		Role:     string(u.Role),
	}
}
