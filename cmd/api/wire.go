//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go
//
// 依赖链：
// *gin.Engine → Handler → UseCase / 订单管理器 → 领域服务 → Repository → *gorm.DB / *redis.Client → *config.Config

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	appgame "github.com/xiebiao/gamesup/internal/application/game"
	apppurchase "github.com/xiebiao/gamesup/internal/application/purchase"
	appreview "github.com/xiebiao/gamesup/internal/application/review"
	appuser "github.com/xiebiao/gamesup/internal/application/user"
	appwishlist "github.com/xiebiao/gamesup/internal/application/wishlist"
	"github.com/xiebiao/gamesup/internal/domain/game"
	"github.com/xiebiao/gamesup/internal/domain/review"
	"github.com/xiebiao/gamesup/internal/domain/user"
	"github.com/xiebiao/gamesup/internal/infrastructure/config"
	"github.com/xiebiao/gamesup/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/gamesup/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/gamesup/internal/interface/http/handler"
	"github.com/xiebiao/gamesup/internal/interface/http/middleware"
	"github.com/xiebiao/gamesup/pkg/clock"
)

// ========================================
// Wire Provider Sets (依赖分组)
// ========================================

// infrastructureSet 基础设施层依赖：数据库、Redis、时钟
var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedis,
	clock.NewSystem,
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewGameRepository,
	mysql.NewPurchaseRepository,
	mysql.NewReviewRepository,
	mysql.NewWishlistRepository,
	mysql.NewTxManager,
	redis.NewSessionStore,
	provideGameCatalog,

	// 订单、评价、愿望单只依赖只读接口
	wire.Bind(new(user.Finder), new(user.Repository)),
	wire.Bind(new(game.Finder), new(*redis.GameCatalog)),
	wire.Bind(new(game.Invalidator), new(*redis.GameCatalog)),
	wire.Bind(new(apppurchase.TxManager), new(*mysql.TxManager)),
	wire.Bind(new(appwishlist.TxManager), new(*mysql.TxManager)),
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	provideUserOptions,
	user.NewService,
	game.NewService,
	review.NewService,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	provideLoginUseCase,
	appuser.NewLogoutUseCase,
	appgame.NewPublishGameUseCase,
	appgame.NewListGamesUseCase,
	appgame.NewGetGameUseCase,
	appgame.NewUpdatePriceUseCase,
	appgame.NewDeleteGameUseCase,
	apppurchase.NewManager,
	appreview.NewReviewUseCase,
	appwishlist.NewService,

	wire.Bind(new(appuser.SessionStore), new(*redis.SessionStore)),
)

// middlewareSet 中间件依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,
	provideRateLimiter,
	middleware.NewAuthMiddleware,

	wire.Bind(new(middleware.TokenBlacklist), new(*redis.SessionStore)),
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewUserHandler,
	handler.NewGameHandler,
	handler.NewPurchaseHandler,
	handler.NewReviewHandler,
	handler.NewWishlistHandler,
	provideRouter,

	wire.Bind(new(handler.PurchaseManager), new(*apppurchase.Manager)),
	wire.Bind(new(handler.ReviewUseCase), new(*appreview.ReviewUseCase)),
	wire.Bind(new(handler.WishlistService), new(*appwishlist.Service)),
)

// ========================================
// Wire Injector (依赖注入器)
// ========================================

// InitializeApp 初始化整个应用
// 配置由main加载（日志需要先于依赖注入初始化），cleanup在服务关闭后调用
func InitializeApp(cfg *config.Config) (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
	)
	return nil, nil, nil
}
