package wishlist

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/gamesup/internal/domain/game"
	"github.com/xiebiao/gamesup/internal/domain/user"
	"github.com/xiebiao/gamesup/internal/domain/wishlist"
	"github.com/xiebiao/gamesup/pkg/clock"
	apperrors "github.com/xiebiao/gamesup/pkg/errors"
	"github.com/xiebiao/gamesup/pkg/logger"
)

// TxManager 事务边界，mysql.TxManager实现
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service 愿望单服务，愿望单在首次访问时创建
//
// 写操作：Ensure → 开启事务 → LockByUserID → 修改 → Save
type Service struct {
	tx        TxManager
	wishlists wishlist.Repository
	users     user.Finder
	games     game.Finder
	clock     clock.Clock
}

func NewService(
	tx TxManager,
	wishlists wishlist.Repository,
	users user.Finder,
	games game.Finder,
	clk clock.Clock,
) *Service {
	return &Service{
		tx:        tx,
		wishlists: wishlists,
		users:     users,
		games:     games,
		clock:     clk,
	}
}

type ItemResponse struct {
	GameID  uint   `json:"game_id"`
	Title   string `json:"title"` // 游戏已下架时为空
	AddedAt string `json:"added_at"`
}

type WishlistResponse struct {
	UserID    uint            `json:"user_id"`
	Items     []*ItemResponse `json:"items"`
	Count     int             `json:"count"`
	UpdatedAt string          `json:"updated_at"`
}

// Get 查询用户愿望单，不存在则创建空愿望单
func (s *Service) Get(ctx context.Context, userID uint) (*WishlistResponse, error) {
	if err := s.ensure(ctx, userID); err != nil {
		return nil, err
	}
	w, err := s.wishlists.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, w)
}

// AddGame 加入游戏，游戏必须存在
func (s *Service) AddGame(ctx context.Context, userID, gameID uint) (*WishlistResponse, error) {
	if gameID == 0 {
		return nil, wishlist.ErrInvalidGameID
	}
	w, err := s.mutate(ctx, userID, func(ctx context.Context, w *wishlist.Wishlist) error {
		if _, err := s.games.FindByID(ctx, gameID); err != nil {
			return err
		}
		return w.Add(gameID, s.clock.Now())
	})
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("game added to wishlist", zap.Uint("user_id", userID), zap.Uint("game_id", gameID))
	return s.toResponse(ctx, w)
}

// RemoveGame 移除游戏，不检查目录（已下架的游戏也能移除）
func (s *Service) RemoveGame(ctx context.Context, userID, gameID uint) (*WishlistResponse, error) {
	if gameID == 0 {
		return nil, wishlist.ErrInvalidGameID
	}
	w, err := s.mutate(ctx, userID, func(_ context.Context, w *wishlist.Wishlist) error {
		return w.Remove(gameID, s.clock.Now())
	})
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("game removed from wishlist", zap.Uint("user_id", userID), zap.Uint("game_id", gameID))
	return s.toResponse(ctx, w)
}

// Contains 用户和游戏都必须存在；没有愿望单视为不包含
func (s *Service) Contains(ctx context.Context, userID, gameID uint) (bool, error) {
	if userID == 0 {
		return false, wishlist.ErrInvalidUserID
	}
	if gameID == 0 {
		return false, wishlist.ErrInvalidGameID
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return false, err
	}
	if _, err := s.games.FindByID(ctx, gameID); err != nil {
		return false, err
	}
	w, err := s.wishlists.FindByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	return w != nil && w.Contains(gameID), nil
}

// Clear 清空愿望单
func (s *Service) Clear(ctx context.Context, userID uint) (*WishlistResponse, error) {
	w, err := s.mutate(ctx, userID, func(_ context.Context, w *wishlist.Wishlist) error {
		w.Clear(s.clock.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("wishlist cleared", zap.Uint("user_id", userID))
	return s.toResponse(ctx, w)
}

func (s *Service) ensure(ctx context.Context, userID uint) error {
	if userID == 0 {
		return wishlist.ErrInvalidUserID
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	return s.wishlists.Ensure(ctx, userID)
}

// mutate 在事务中锁定愿望单、执行修改并保存
func (s *Service) mutate(ctx context.Context, userID uint, fn func(ctx context.Context, w *wishlist.Wishlist) error) (*wishlist.Wishlist, error) {
	if err := s.ensure(ctx, userID); err != nil {
		return nil, err
	}

	var result *wishlist.Wishlist
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		w, err := s.wishlists.LockByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if w == nil {
			return apperrors.Newf(apperrors.ErrCodeInternal, "wishlist of user %d disappeared", userID)
		}
		if err := fn(ctx, w); err != nil {
			return err
		}
		if err := s.wishlists.Save(ctx, w); err != nil {
			return err
		}
		result = w
		return nil
	})
	return result, err
}

func (s *Service) toResponse(ctx context.Context, w *wishlist.Wishlist) (*WishlistResponse, error) {
	items := make([]*ItemResponse, len(w.Items))
	for i, item := range w.Items {
		resp := &ItemResponse{GameID: item.GameID, AddedAt: item.AddedAt.UTC().Format(time.RFC3339)}
		g, err := s.games.FindByID(ctx, item.GameID)
		switch {
		case err == nil:
			resp.Title = g.Title
		case apperrors.GetAppError(err).Kind() != apperrors.KindNotFound:
			return nil, err
		}
		items[i] = resp
	}
	return &WishlistResponse{
		UserID:    w.UserID,
		Items:     items,
		Count:     len(items),
		UpdatedAt: w.UpdatedAt.UTC().Format(time.RFC3339),
	}, nil
}
