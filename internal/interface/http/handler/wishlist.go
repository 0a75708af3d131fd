package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	appwishlist "github.com/xiebiao/gamesup/internal/application/wishlist"
	"github.com/xiebiao/gamesup/internal/interface/http/dto"
	"github.com/xiebiao/gamesup/internal/interface/http/middleware"
	"github.com/xiebiao/gamesup/pkg/response"
)

// WishlistService appwishlist.Service实现
type WishlistService interface {
	Get(ctx context.Context, userID uint) (*appwishlist.WishlistResponse, error)
	AddGame(ctx context.Context, userID, gameID uint) (*appwishlist.WishlistResponse, error)
	RemoveGame(ctx context.Context, userID, gameID uint) (*appwishlist.WishlistResponse, error)
	Contains(ctx context.Context, userID, gameID uint) (bool, error)
	Clear(ctx context.Context, userID uint) (*appwishlist.WishlistResponse, error)
}

// WishlistHandler 愿望单HTTP处理器，只能操作当前用户的愿望单
type WishlistHandler struct {
	service WishlistService
}

func NewWishlistHandler(service WishlistService) *WishlistHandler {
	return &WishlistHandler{service: service}
}

// Get 我的愿望单
// @Summary      我的愿望单
// @Description  首次访问时创建空愿望单
// @Tags         愿望单
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appwishlist.WishlistResponse}
// @Router       /api/v1/wishlist [get]
func (h *WishlistHandler) Get(c *gin.Context) {
	result, err := h.service.Get(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// AddGame 加入愿望单
// @Summary      加入愿望单
// @Tags         愿望单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AddWishlistGameRequest true "游戏"
// @Success      201 {object} response.Response{data=appwishlist.WishlistResponse}
// @Failure      404 {object} response.Response "游戏不存在"
// @Failure      409 {object} response.Response "已在愿望单中"
// @Router       /api/v1/wishlist/games [post]
func (h *WishlistHandler) AddGame(c *gin.Context) {
	var req dto.AddWishlistGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.service.AddGame(c.Request.Context(), middleware.MustGetUserID(c), req.GameID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// RemoveGame 移出愿望单
// @Summary      移出愿望单
// @Tags         愿望单
// @Produce      json
// @Security     BearerAuth
// @Param        gameId path int true "游戏ID"
// @Success      200 {object} response.Response{data=appwishlist.WishlistResponse}
// @Failure      404 {object} response.Response "不在愿望单中"
// @Router       /api/v1/wishlist/games/{gameId} [delete]
func (h *WishlistHandler) RemoveGame(c *gin.Context) {
	gameID, ok := pathID(c, "gameId")
	if !ok {
		return
	}
	result, err := h.service.RemoveGame(c.Request.Context(), middleware.MustGetUserID(c), gameID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Contains 是否在愿望单中
// @Summary      是否在愿望单中
// @Tags         愿望单
// @Produce      json
// @Security     BearerAuth
// @Param        gameId path int true "游戏ID"
// @Success      200 {object} response.Response{data=dto.WishlistContainsResponse}
// @Failure      404 {object} response.Response "游戏不存在"
// @Router       /api/v1/wishlist/games/{gameId} [get]
func (h *WishlistHandler) Contains(c *gin.Context) {
	gameID, ok := pathID(c, "gameId")
	if !ok {
		return
	}
	contains, err := h.service.Contains(c.Request.Context(), middleware.MustGetUserID(c), gameID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.WishlistContainsResponse{GameID: gameID, Contains: contains})
}

// Clear 清空愿望单
// @Summary      清空愿望单
// @Tags         愿望单
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appwishlist.WishlistResponse}
// @Router       /api/v1/wishlist [delete]
func (h *WishlistHandler) Clear(c *gin.Context) {
	result, err := h.service.Clear(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
