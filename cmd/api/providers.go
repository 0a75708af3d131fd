package main

import (
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	appuser "github.com/xiebiao/gamesup/internal/application/user"
	"github.com/xiebiao/gamesup/internal/domain/game"
	"github.com/xiebiao/gamesup/internal/domain/user"
	"github.com/xiebiao/gamesup/internal/infrastructure/config"
	"github.com/xiebiao/gamesup/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/gamesup/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/gamesup/internal/interface/http/handler"
	"github.com/xiebiao/gamesup/internal/interface/http/middleware"
	"github.com/xiebiao/gamesup/internal/interface/http/router"
	"github.com/xiebiao/gamesup/pkg/jwt"
)

// 构造函数参数需要从Config中提取时，单独写Provider

// provideDB 创建MySQL连接，cleanup关闭连接池
func provideDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { mysql.Close(db) }, nil
}

// provideRedis 创建Redis连接，cleanup关闭客户端
func provideRedis(cfg *config.Config) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// provideGameCatalog 游戏目录缓存，未命中时回源MySQL
func provideGameCatalog(client *goredis.Client, repo game.Repository, cfg *config.Config) *redis.GameCatalog {
	return redis.NewGameCatalog(client, repo, cfg)
}

func provideUserOptions(cfg *config.Config) user.Options {
	return user.Options{
		BcryptCost:  cfg.Auth.BcryptCost,
		AdminEmails: cfg.Auth.AdminEmails,
	}
}

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideLoginUseCase Session有效期与Refresh Token一致
func provideLoginUseCase(userService user.Service, jwtManager *jwt.Manager, sessions appuser.SessionStore, cfg *config.Config) *appuser.LoginUseCase {
	return appuser.NewLoginUseCase(userService, jwtManager, sessions, cfg.JWT.RefreshTokenExpire)
}

func provideRateLimiter(cfg *config.Config) *middleware.RateLimiter {
	return middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst)
}

// provideRouter 注册全部路由，release模式关闭Swagger
func provideRouter(
	cfg *config.Config,
	userHandler *handler.UserHandler,
	gameHandler *handler.GameHandler,
	purchaseHandler *handler.PurchaseHandler,
	reviewHandler *handler.ReviewHandler,
	wishlistHandler *handler.WishlistHandler,
	authMiddleware *middleware.AuthMiddleware,
	limiter *middleware.RateLimiter,
) *gin.Engine {
	return router.New(
		router.Options{
			Mode:          cfg.Server.Mode,
			EnableSwagger: cfg.Server.Mode != gin.ReleaseMode,
		},
		router.Handlers{
			User:     userHandler,
			Game:     gameHandler,
			Purchase: purchaseHandler,
			Review:   reviewHandler,
			Wishlist: wishlistHandler,
		},
		authMiddleware,
		limiter,
	)
}
