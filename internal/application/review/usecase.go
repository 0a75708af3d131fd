package review

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/gamesup/internal/domain/review"
	apperrors "github.com/xiebiao/gamesup/pkg/errors"
	"github.com/xiebiao/gamesup/pkg/logger"
)

// Actor 当前登录用户
type Actor struct {
	UserID  uint
	IsAdmin bool
}

// ReviewUseCase 评价用例；修改和删除只允许作者本人或管理员
type ReviewUseCase struct {
	reviews review.Service
}

func NewReviewUseCase(reviews review.Service) *ReviewUseCase {
	return &ReviewUseCase{reviews: reviews}
}

type WriteReviewRequest struct {
	GameID  uint
	Rating  int
	Comment string
}

type ReviewResponse struct {
	ID        uint   `json:"id"`
	UserID    uint   `json:"user_id"`
	GameID    uint   `json:"game_id"`
	Rating    int    `json:"rating" example:"5"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type ListReviewsResponse struct {
	List       []*ReviewResponse `json:"list"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// RatingResponse 平均分为JSON数字（两位小数）
type RatingResponse struct {
	GameID  uint    `json:"game_id"`
	Count   int64   `json:"count"`
	Average float64 `json:"average" example:"4.33"`
}

func (uc *ReviewUseCase) Write(ctx context.Context, actor Actor, req WriteReviewRequest) (*ReviewResponse, error) {
	r, err := uc.reviews.Create(ctx, actor.UserID, req.GameID, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}
	logger.FromCtx(ctx).Info("review created",
		zap.Uint("review_id", r.ID),
		zap.Uint("game_id", r.GameID),
		zap.Int("rating", r.Rating),
	)
	return NewReviewResponse(r), nil
}

func (uc *ReviewUseCase) Get(ctx context.Context, id uint) (*ReviewResponse, error) {
	r, err := uc.reviews.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewReviewResponse(r), nil
}

func (uc *ReviewUseCase) ListByGame(ctx context.Context, gameID uint, params review.ListParams) (*ListReviewsResponse, error) {
	params = params.Normalize()
	list, total, err := uc.reviews.ListByGame(ctx, gameID, params)
	if err != nil {
		return nil, err
	}
	return newListResponse(list, total, params), nil
}

func (uc *ReviewUseCase) ListByUser(ctx context.Context, userID uint, params review.ListParams) (*ListReviewsResponse, error) {
	params = params.Normalize()
	list, total, err := uc.reviews.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, err
	}
	return newListResponse(list, total, params), nil
}

func (uc *ReviewUseCase) Rating(ctx context.Context, gameID uint) (*RatingResponse, error) {
	stats, err := uc.reviews.RatingStats(ctx, gameID)
	if err != nil {
		return nil, err
	}
	avg, _ := stats.Average.Float64()
	return &RatingResponse{GameID: stats.GameID, Count: stats.Count, Average: avg}, nil
}

func (uc *ReviewUseCase) Update(ctx context.Context, actor Actor, id uint, rating int, comment string) (*ReviewResponse, error) {
	if err := uc.authorize(ctx, actor, id); err != nil {
		return nil, err
	}
	r, err := uc.reviews.Update(ctx, id, rating, comment)
	if err != nil {
		return nil, err
	}
	logger.FromCtx(ctx).Info("review updated", zap.Uint("review_id", r.ID), zap.Int("rating", r.Rating))
	return NewReviewResponse(r), nil
}

func (uc *ReviewUseCase) Delete(ctx context.Context, actor Actor, id uint) error {
	if err := uc.authorize(ctx, actor, id); err != nil {
		return err
	}
	if err := uc.reviews.Delete(ctx, id); err != nil {
		return err
	}
	logger.FromCtx(ctx).Info("review deleted", zap.Uint("review_id", id), zap.Uint("actor_id", actor.UserID))
	return nil
}

// authorize 评价不存在时返回NotFound而不是Forbidden
func (uc *ReviewUseCase) authorize(ctx context.Context, actor Actor, id uint) error {
	r, err := uc.reviews.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin && !r.IsWrittenBy(actor.UserID) {
		return apperrors.ErrForbidden
	}
	return nil
}

func NewReviewResponse(r *review.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		GameID:    r.GameID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func newListResponse(list []*review.Review, total int64, params review.ListParams) *ListReviewsResponse {
	items := make([]*ReviewResponse, len(list))
	for i, r := range list {
		items[i] = NewReviewResponse(r)
	}
	totalPages := int(total) / params.PageSize
	if int(total)%params.PageSize != 0 {
		totalPages++
	}
	return &ListReviewsResponse{
		List:       items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}
}
