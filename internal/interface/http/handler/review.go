package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	appreview "github.com/xiebiao/gamesup/internal/application/review"
	"github.com/xiebiao/gamesup/internal/domain/review"
	"github.com/xiebiao/gamesup/internal/interface/http/dto"
	"github.com/xiebiao/gamesup/internal/interface/http/middleware"
	"github.com/xiebiao/gamesup/pkg/response"
)

// ReviewUseCase appreview.ReviewUseCase实现
type ReviewUseCase interface {
	Write(ctx context.Context, actor appreview.Actor, req appreview.WriteReviewRequest) (*appreview.ReviewResponse, error)
	Get(ctx context.Context, id uint) (*appreview.ReviewResponse, error)
	ListByGame(ctx context.Context, gameID uint, params review.ListParams) (*appreview.ListReviewsResponse, error)
	ListByUser(ctx context.Context, userID uint, params review.ListParams) (*appreview.ListReviewsResponse, error)
	Rating(ctx context.Context, gameID uint) (*appreview.RatingResponse, error)
	Update(ctx context.Context, actor appreview.Actor, id uint, rating int, comment string) (*appreview.ReviewResponse, error)
	Delete(ctx context.Context, actor appreview.Actor, id uint) error
}

// ReviewHandler 评价HTTP处理器
type ReviewHandler struct {
	useCase ReviewUseCase
}

func NewReviewHandler(useCase ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{useCase: useCase}
}

func currentActor(c *gin.Context) appreview.Actor {
	return appreview.Actor{UserID: middleware.MustGetUserID(c), IsAdmin: middleware.IsAdmin(c)}
}

// Write 发表评价
// @Summary      发表评价
// @Tags         评价
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                    true "游戏ID"
// @Param        request body dto.WriteReviewRequest true "评价"
// @Success      201 {object} response.Response{data=appreview.ReviewResponse}
// @Failure      400 {object} response.Response "评分不在1~5之间"
// @Failure      404 {object} response.Response "游戏不存在"
// @Router       /api/v1/games/{id}/reviews [post]
func (h *ReviewHandler) Write(c *gin.Context) {
	gameID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.WriteReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.useCase.Write(c.Request.Context(), currentActor(c), appreview.WriteReviewRequest{
		GameID:  gameID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ListByGame 游戏的评价
// @Summary      游戏评价列表
// @Description  最新的在前
// @Tags         评价
// @Produce      json
// @Param        id        path  int true  "游戏ID"
// @Param        page      query int false "页码"
// @Param        page_size query int false "每页数量"
// @Success      200 {object} response.Response{data=response.PageData{list=[]appreview.ReviewResponse}}
// @Failure      404 {object} response.Response "游戏不存在"
// @Router       /api/v1/games/{id}/reviews [get]
func (h *ReviewHandler) ListByGame(c *gin.Context) {
	gameID, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.list(c, func(ctx context.Context, params review.ListParams) (*appreview.ListReviewsResponse, error) {
		return h.useCase.ListByGame(ctx, gameID, params)
	})
}

// ListByUser 用户写的评价
// @Summary      用户评价列表
// @Tags         评价
// @Produce      json
// @Param        id        path  int true  "用户ID"
// @Param        page      query int false "页码"
// @Param        page_size query int false "每页数量"
// @Success      200 {object} response.Response{data=response.PageData{list=[]appreview.ReviewResponse}}
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /api/v1/users/{id}/reviews [get]
func (h *ReviewHandler) ListByUser(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.list(c, func(ctx context.Context, params review.ListParams) (*appreview.ListReviewsResponse, error) {
		return h.useCase.ListByUser(ctx, userID, params)
	})
}

func (h *ReviewHandler) list(c *gin.Context, fetch func(ctx context.Context, params review.ListParams) (*appreview.ListReviewsResponse, error)) {
	var req dto.ListReviewsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	page, err := fetch(c.Request.Context(), review.ListParams{Page: req.Page, PageSize: req.PageSize})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, page.List, page.Total, page.Page, page.PageSize)
}

// Rating 评分统计
// @Summary      游戏评分
// @Description  评价数和平均分（两位小数），没有评价时平均分为0
// @Tags         评价
// @Produce      json
// @Param        id path int true "游戏ID"
// @Success      200 {object} response.Response{data=appreview.RatingResponse}
// @Failure      404 {object} response.Response "游戏不存在"
// @Router       /api/v1/games/{id}/rating [get]
func (h *ReviewHandler) Rating(c *gin.Context) {
	gameID, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.useCase.Rating(c.Request.Context(), gameID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Get 评价详情
// @Summary      评价详情
// @Tags         评价
// @Produce      json
// @Param        id path int true "评价ID"
// @Success      200 {object} response.Response{data=appreview.ReviewResponse}
// @Failure      404 {object} response.Response "评价不存在"
// @Router       /api/v1/reviews/{id} [get]
func (h *ReviewHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.useCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Update 修改评价
// @Summary      修改评价
// @Description  只有作者本人或管理员可以修改
// @Tags         评价
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                     true "评价ID"
// @Param        request body dto.UpdateReviewRequest true "评价"
// @Success      200 {object} response.Response{data=appreview.ReviewResponse}
// @Failure      403 {object} response.Response "不是作者"
// @Failure      404 {object} response.Response "评价不存在"
// @Router       /api/v1/reviews/{id} [put]
func (h *ReviewHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.useCase.Update(c.Request.Context(), currentActor(c), id, req.Rating, req.Comment)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Delete 删除评价
// @Summary      删除评价
// @Description  只有作者本人或管理员可以删除
// @Tags         评价
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "评价ID"
// @Success      200 {object} response.Response
// @Failure      403 {object} response.Response "不是作者"
// @Failure      404 {object} response.Response "评价不存在"
// @Router       /api/v1/reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.useCase.Delete(c.Request.Context(), currentActor(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
