package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/gamesup/internal/domain/user"
	apperrors "github.com/xiebiao/gamesup/pkg/errors"
	"github.com/xiebiao/gamesup/pkg/jwt"
	"github.com/xiebiao/gamesup/pkg/response"
)

// Context中的键
const (
	ctxUserID   = "user_id"
	ctxEmail    = "email"
	ctxRole     = "role"
	ctxToken    = "access_token"
	ctxTokenExp = "token_expires_at"
)

// TokenBlacklist 已登出Token查询，redis.SessionStore实现
type TokenBlacklist interface {
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware JWT认证和角色校验
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  TokenBlacklist
}

func NewAuthMiddleware(jwtManager *jwt.Manager, blacklist TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager, blacklist: blacklist}
}

// RequireAuth 要求登录，Authorization: Bearer <token>
//
//	authorized := v1.Group("")
//	authorized.Use(authMiddleware.RequireAuth())
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, apperrors.ErrUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			response.Error(c, apperrors.ErrInvalidToken)
			return
		}
		token := parts[1]

		revoked, err := m.blacklist.IsInBlacklist(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			return
		}
		if revoked {
			response.Error(c, apperrors.ErrInvalidToken)
			return
		}

		claims, err := m.jwtManager.ParseToken(token)
		if err != nil {
			response.Error(c, err)
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxEmail, claims.Email)
		c.Set(ctxRole, claims.Role)
		c.Set(ctxToken, token)
		if claims.ExpiresAt != nil {
			c.Set(ctxTokenExp, claims.ExpiresAt.Time)
		}
		c.Next()
	}
}

// RequireRole 必须在RequireAuth之后使用
func (m *AuthMiddleware) RequireRole(role user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != role {
			response.Error(c, apperrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

// GetUserID 未登录返回0
func GetUserID(c *gin.Context) uint {
	if v, ok := c.Get(ctxUserID); ok {
		if uid, ok := v.(uint); ok {
			return uid
		}
	}
	return 0
}

// MustGetUserID 用于已经通过RequireAuth的Handler
func MustGetUserID(c *gin.Context) uint {
	userID := GetUserID(c)
	if userID == 0 {
		panic("user_id not found in context")
	}
	return userID
}

func GetRole(c *gin.Context) user.Role {
	return user.Role(c.GetString(ctxRole))
}

func IsAdmin(c *gin.Context) bool {
	return GetRole(c) == user.RoleAdmin
}

// GetToken 当前请求的Access Token及其过期时间（登出时使用）
func GetToken(c *gin.Context) (string, time.Time) {
	return c.GetString(ctxToken), c.GetTime(ctxTokenExp)
}
