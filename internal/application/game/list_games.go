package game

import (
	"context"

	"github.com/xiebiao/gamesup/internal/domain/game"
)

// ListGamesUseCase 游戏列表（公开）
type ListGamesUseCase struct {
	gameService game.Service
}

func NewListGamesUseCase(gameService game.Service) *ListGamesUseCase {
	return &ListGamesUseCase{gameService: gameService}
}

type ListGamesRequest struct {
	Page     int
	PageSize int
	Keyword  string // 搜索标题
	SortBy   string // price_asc, price_desc, created_at_desc
}

type ListGamesResponse struct {
	List       []*GameResponse `json:"list"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

func (uc *ListGamesUseCase) Execute(ctx context.Context, req ListGamesRequest) (*ListGamesResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	games, total, err := uc.gameService.ListGames(ctx, game.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		SortBy:   req.SortBy,
	})
	if err != nil {
		return nil, err
	}

	list := make([]*GameResponse, len(games))
	for i, g := range games {
		list[i] = NewGameResponse(g)
	}

	totalPages := int(total) / req.PageSize
	if int(total)%req.PageSize != 0 {
		totalPages++
	}

	return &ListGamesResponse{
		List:       list,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}, nil
}

// GetGameUseCase 游戏详情，经由缓存读取
type GetGameUseCase struct {
	catalog game.Finder
}

func NewGetGameUseCase(catalog game.Finder) *GetGameUseCase {
	return &GetGameUseCase{catalog: catalog}
}

func (uc *GetGameUseCase) Execute(ctx context.Context, id uint) (*GameResponse, error) {
	g, err := uc.catalog.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewGameResponse(g), nil
}
