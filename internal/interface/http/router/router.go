package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/gamesup/internal/domain/user"
	"github.com/xiebiao/gamesup/internal/interface/http/handler"
	"github.com/xiebiao/gamesup/internal/interface/http/middleware"
	"github.com/xiebiao/gamesup/pkg/response"
)

// Handlers 路由需要的全部处理器
type Handlers struct {
	User     *handler.UserHandler
	Game     *handler.GameHandler
	Purchase *handler.PurchaseHandler
	Review   *handler.ReviewHandler
	Wishlist *handler.WishlistHandler
}

// Options 路由开关
type Options struct {
	Mode          string // debug | release | test
	EnableSwagger bool
}

// New 创建Gin引擎并注册全部路由
//
//	/ping /metrics /swagger/*any
//	/api/v1/users /api/v1/games /api/v1/purchases /api/v1/reviews /api/v1/wishlist
func New(opts Options, h Handlers, auth *middleware.AuthMiddleware, limiter *middleware.RateLimiter) *gin.Engine {
	switch opts.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(opts.Mode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestLogger(),
		middleware.Recovery(),
		middleware.Metrics(),
	)

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong", "status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if opts.EnableSwagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	if limiter != nil {
		v1.Use(limiter.Handler())
	}

	requireAuth := auth.RequireAuth()
	requireAdmin := auth.RequireRole(user.RoleAdmin)

	users := v1.Group("/users")
	{
		users.POST("/register", h.User.Register)
		users.POST("/login", h.User.Login)
		users.POST("/logout", requireAuth, h.User.Logout)
		users.GET("/:id/reviews", h.Review.ListByUser)
	}

	games := v1.Group("/games")
	{
		games.GET("", h.Game.ListGames)
		games.GET("/:id", h.Game.GetGame)
		games.POST("", requireAuth, requireAdmin, h.Game.PublishGame)
		games.PUT("/:id/price", requireAuth, requireAdmin, h.Game.UpdatePrice)
		games.DELETE("/:id", requireAuth, requireAdmin, h.Game.DeleteGame)
		games.GET("/:id/reviews", h.Review.ListByGame)
		games.GET("/:id/rating", h.Review.Rating)
		games.POST("/:id/reviews", requireAuth, h.Review.Write)
	}

	reviews := v1.Group("/reviews")
	{
		reviews.GET("/:id", h.Review.Get)
		reviews.PUT("/:id", requireAuth, h.Review.Update)
		reviews.DELETE("/:id", requireAuth, h.Review.Delete)
	}

	wishlist := v1.Group("/wishlist", requireAuth)
	{
		wishlist.GET("", h.Wishlist.Get)
		wishlist.DELETE("", h.Wishlist.Clear)
		wishlist.POST("/games", h.Wishlist.AddGame)
		wishlist.GET("/games/:gameId", h.Wishlist.Contains)
		wishlist.DELETE("/games/:gameId", h.Wishlist.RemoveGame)
	}

	purchases := v1.Group("/purchases", requireAuth)
	{
		purchases.POST("", h.Purchase.Create)
		purchases.GET("", h.Purchase.List)
		purchases.GET("/:id", h.Purchase.Get)
		purchases.POST("/:id/lines", h.Purchase.AddLine)
		purchases.DELETE("/:id/lines/:lineId", h.Purchase.RemoveLine)
		purchases.POST("/:id/pay", h.Purchase.Pay)
		purchases.POST("/:id/cancel", h.Purchase.Cancel)
		purchases.POST("/:id/ship", requireAdmin, h.Purchase.Ship)
		purchases.POST("/:id/deliver", requireAdmin, h.Purchase.Deliver)
		purchases.DELETE("/:id", requireAdmin, h.Purchase.Delete)
	}

	return r
}
