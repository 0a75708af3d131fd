package review

import (
	"context"

	"github.com/xiebiao/gamesup/internal/domain/game"
	"github.com/xiebiao/gamesup/internal/domain/user"
	"github.com/xiebiao/gamesup/pkg/clock"
)

// Service 评价领域服务
// 所有按游戏/用户的操作都先确认游戏/用户存在，不存在返回NotFound
type Service interface {
	Create(ctx context.Context, userID, gameID uint, rating int, comment string) (*Review, error)

	Get(ctx context.Context, id uint) (*Review, error)

	ListByGame(ctx context.Context, gameID uint, params ListParams) ([]*Review, int64, error)

	ListByUser(ctx context.Context, userID uint, params ListParams) ([]*Review, int64, error)

	// RatingStats 平均分保留两位小数
	RatingStats(ctx context.Context, gameID uint) (Stats, error)

	Update(ctx context.Context, id uint, rating int, comment string) (*Review, error)

	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo  Repository
	games game.Finder
	users user.Finder
	clock clock.Clock
}

// NewService 创建评价服务
func NewService(repo Repository, games game.Finder, users user.Finder, clk clock.Clock) Service {
	return &service{repo: repo, games: games, users: users, clock: clk}
}

func (s *service) Create(ctx context.Context, userID, gameID uint, rating int, comment string) (*Review, error) {
	if userID == 0 {
		return nil, ErrInvalidUserID
	}
	if gameID == 0 {
		return nil, ErrInvalidGameID
	}
	r, err := New(userID, gameID, rating, comment, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.games.FindByID(ctx, gameID); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) Get(ctx context.Context, id uint) (*Review, error) {
	if id == 0 {
		return nil, ErrInvalidReviewID
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListByGame(ctx context.Context, gameID uint, params ListParams) ([]*Review, int64, error) {
	if err := s.ensureGame(ctx, gameID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListByGame(ctx, gameID, params.Normalize())
}

func (s *service) ListByUser(ctx context.Context, userID uint, params ListParams) ([]*Review, int64, error) {
	if userID == 0 {
		return nil, 0, ErrInvalidUserID
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListByUser(ctx, userID, params.Normalize())
}

func (s *service) RatingStats(ctx context.Context, gameID uint) (Stats, error) {
	if err := s.ensureGame(ctx, gameID); err != nil {
		return Stats{}, err
	}
	stats, err := s.repo.Stats(ctx, gameID)
	if err != nil {
		return Stats{}, err
	}
	stats.GameID = gameID
	stats.Average = stats.Average.Round(2)
	return stats, nil
}

func (s *service) Update(ctx context.Context, id uint, rating int, comment string) (*Review, error) {
	if id == 0 {
		return nil, ErrInvalidReviewID
	}
	if rating < MinRating || rating > MaxRating {
		return nil, ErrInvalidRating
	}

	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.Edit(rating, comment, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return ErrInvalidReviewID
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) ensureGame(ctx context.Context, gameID uint) error {
	if gameID == 0 {
		return ErrInvalidGameID
	}
	_, err := s.games.FindByID(ctx, gameID)
	return err
}
