package game

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/gamesup/internal/domain/game"
	"github.com/xiebiao/gamesup/pkg/money"
)

// PublishGameUseCase 发布游戏（管理员）
type PublishGameUseCase struct {
	gameService game.Service
}

func NewPublishGameUseCase(gameService game.Service) *PublishGameUseCase {
	return &PublishGameUseCase{gameService: gameService}
}

type PublishGameRequest struct {
	Title       string
	Description string
	BasePrice   decimal.Decimal
	Currency    string
	PublisherID uint // 从认证中间件获取
}

// GameResponse 游戏信息，价格为两位小数字符串
type GameResponse struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	BasePrice   string `json:"base_price" example:"29.99"`
	Currency    string `json:"currency" example:"EUR"`
	PublisherID uint   `json:"publisher_id"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func (uc *PublishGameUseCase) Execute(ctx context.Context, req PublishGameRequest) (*GameResponse, error) {
	g, err := uc.gameService.PublishGame(ctx, req.Title, req.Description, req.BasePrice, req.Currency, req.PublisherID)
	if err != nil {
		return nil, err
	}
	return NewGameResponse(g), nil
}

func NewGameResponse(g *game.Game) *GameResponse {
	return &GameResponse{
		ID:          g.ID,
		Title:       g.Title,
		Slug:        g.Slug,
		Description: g.Description,
		BasePrice:   money.Format(g.BasePrice),
		Currency:    g.Currency,
		PublisherID: g.PublisherID,
		CreatedAt:   g.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   g.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
