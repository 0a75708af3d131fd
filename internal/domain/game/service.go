package game

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/gamesup/pkg/money"
)

// Service 游戏目录领域服务
type Service interface {
	// PublishGame 发布游戏（标题生成的slug不能重复）
	PublishGame(ctx context.Context, title, description string, basePrice decimal.Decimal, currency string, publisherID uint) (*Game, error)

	GetGame(ctx context.Context, id uint) (*Game, error)

	// UpdatePrice 修改目录价格，已加入订单的明细保持快照价不变
	UpdatePrice(ctx context.Context, id uint, newPrice decimal.Decimal) (*Game, error)

	DeleteGame(ctx context.Context, id uint) error

	ListGames(ctx context.Context, params ListParams) ([]*Game, int64, error)
}

type service struct {
	repo Repository
}

// NewService 创建游戏服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) PublishGame(ctx context.Context, title, description string, basePrice decimal.Decimal, currency string, publisherID uint) (*Game, error) {
	title = strings.TrimSpace(title)
	if title == "" || utf8.RuneCountInString(title) > 200 || Slugify(title) == "" {
		return nil, ErrInvalidTitle
	}
	if !isValidPrice(basePrice) {
		return nil, ErrInvalidPrice
	}
	code := money.NormalizeCurrency(currency)
	if code == "" {
		return nil, ErrInvalidCurrency
	}

	existing, err := s.repo.FindBySlug(ctx, Slugify(title))
	if err == nil && existing != nil {
		return nil, ErrSlugDuplicate
	}
	if err != nil && !errors.Is(err, ErrGameNotFound) {
		return nil, err
	}

	g := NewGame(title, description, basePrice, code, publisherID)
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *service) GetGame(ctx context.Context, id uint) (*Game, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) UpdatePrice(ctx context.Context, id uint, newPrice decimal.Decimal) (*Game, error) {
	if !isValidPrice(newPrice) {
		return nil, ErrInvalidPrice
	}

	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := g.UpdatePrice(newPrice); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *service) DeleteGame(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) ListGames(ctx context.Context, params ListParams) ([]*Game, int64, error) {
	return s.repo.List(ctx, params)
}

func isValidPrice(price decimal.Decimal) bool {
	return money.IsValidAmount(price)
}
