package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	appgame "github.com/xiebiao/gamesup/internal/application/game"
	"github.com/xiebiao/gamesup/internal/domain/game"
	"github.com/xiebiao/gamesup/internal/interface/http/dto"
	"github.com/xiebiao/gamesup/internal/interface/http/middleware"
	"github.com/xiebiao/gamesup/pkg/response"
)

// GameHandler 游戏目录HTTP处理器
type GameHandler struct {
	publishUseCase     *appgame.PublishGameUseCase
	listUseCase        *appgame.ListGamesUseCase
	getUseCase         *appgame.GetGameUseCase
	updatePriceUseCase *appgame.UpdatePriceUseCase
	deleteUseCase      *appgame.DeleteGameUseCase
}

func NewGameHandler(
	publishUseCase *appgame.PublishGameUseCase,
	listUseCase *appgame.ListGamesUseCase,
	getUseCase *appgame.GetGameUseCase,
	updatePriceUseCase *appgame.UpdatePriceUseCase,
	deleteUseCase *appgame.DeleteGameUseCase,
) *GameHandler {
	return &GameHandler{
		publishUseCase:     publishUseCase,
		listUseCase:        listUseCase,
		getUseCase:         getUseCase,
		updatePriceUseCase: updatePriceUseCase,
		deleteUseCase:      deleteUseCase,
	}
}

// PublishGame 发布游戏
// @Summary      发布游戏
// @Description  管理员发布游戏，标题生成的slug必须唯一
// @Tags         游戏
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.PublishGameRequest true "游戏信息"
// @Success      201 {object} response.Response{data=appgame.GameResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      403 {object} response.Response "非管理员"
// @Failure      409 {object} response.Response "同名游戏已存在"
// @Router       /api/v1/games [post]
func (h *GameHandler) PublishGame(c *gin.Context) {
	var req dto.PublishGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	price, err := decimal.NewFromString(req.BasePrice)
	if err != nil {
		response.Error(c, game.ErrInvalidPrice)
		return
	}

	result, err := h.publishUseCase.Execute(c.Request.Context(), appgame.PublishGameRequest{
		Title:       req.Title,
		Description: req.Description,
		BasePrice:   price,
		Currency:    req.Currency,
		PublisherID: middleware.MustGetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ListGames 游戏列表
// @Summary      游戏列表
// @Tags         游戏
// @Produce      json
// @Param        page      query int    false "页码"
// @Param        page_size query int    false "每页数量"
// @Param        keyword   query string false "标题关键词"
// @Param        sort_by   query string false "排序" Enums(price_asc, price_desc, created_at_desc)
// @Success      200 {object} response.Response{data=appgame.ListGamesResponse}
// @Router       /api/v1/games [get]
func (h *GameHandler) ListGames(c *gin.Context) {
	var req dto.ListGamesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), appgame.ListGamesRequest{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		SortBy:   req.SortBy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetGame 游戏详情
// @Summary      游戏详情
// @Tags         游戏
// @Produce      json
// @Param        id path int true "游戏ID"
// @Success      200 {object} response.Response{data=appgame.GameResponse}
// @Failure      404 {object} response.Response "游戏不存在"
// @Router       /api/v1/games/{id} [get]
func (h *GameHandler) GetGame(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.getUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdatePrice 修改价格
// @Summary      修改游戏价格
// @Description  只影响之后加入订单的明细，已有明细保留快照价
// @Tags         游戏
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                    true "游戏ID"
// @Param        request body dto.UpdatePriceRequest true "新价格"
// @Success      200 {object} response.Response{data=appgame.GameResponse}
// @Failure      400 {object} response.Response "价格不合法"
// @Failure      404 {object} response.Response "游戏不存在"
// @Router       /api/v1/games/{id}/price [put]
func (h *GameHandler) UpdatePrice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		response.Error(c, game.ErrInvalidPrice)
		return
	}

	result, err := h.updatePriceUseCase.Execute(c.Request.Context(), id, price)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteGame 下架游戏
// @Summary      下架游戏
// @Description  软删除；已有订单明细保留快照价
// @Tags         游戏
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "游戏ID"
// @Success      200 {object} response.Response
// @Failure      403 {object} response.Response "非管理员"
// @Failure      404 {object} response.Response "游戏不存在"
// @Router       /api/v1/games/{id} [delete]
func (h *GameHandler) DeleteGame(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.deleteUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
