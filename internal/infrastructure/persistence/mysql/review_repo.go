package mysql

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/xiebiao/gamesup/internal/domain/review"
	apperrors "github.com/xiebiao/gamesup/pkg/errors"
)

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓储
func NewReviewRepository(db *gorm.DB) review.Repository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, rv *review.Review) error {
	model := toReviewModel(rv)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "failed to create review")
	}
	rv.ID = model.ID
	rv.CreatedAt = model.CreatedAt
	rv.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uint) (*review.Review, error) {
	var model ReviewModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, review.NewReviewNotFound(id)
		}
		return nil, apperrors.Wrap(err, "failed to query review")
	}
	return toReviewEntity(&model), nil
}

func (r *reviewRepository) Update(ctx context.Context, rv *review.Review) error {
	result := getDB(ctx, r.db).Model(&ReviewModel{ID: rv.ID}).Updates(map[string]interface{}{
		"rating":     rv.Rating,
		"comment":    rv.Comment,
		"updated_at": rv.UpdatedAt,
	})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "failed to update review")
	}
	if result.RowsAffected == 0 {
		return review.NewReviewNotFound(rv.ID)
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&ReviewModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "failed to delete review")
	}
	if result.RowsAffected == 0 {
		return review.NewReviewNotFound(id)
	}
	return nil
}

func (r *reviewRepository) ListByGame(ctx context.Context, gameID uint, params review.ListParams) ([]*review.Review, int64, error) {
	return r.list(getDB(ctx, r.db).Model(&ReviewModel{}).Where("game_id = ?", gameID), params)
}

func (r *reviewRepository) ListByUser(ctx context.Context, userID uint, params review.ListParams) ([]*review.Review, int64, error) {
	return r.list(getDB(ctx, r.db).Model(&ReviewModel{}).Where("user_id = ?", userID), params)
}

func (r *reviewRepository) list(query *gorm.DB, params review.ListParams) ([]*review.Review, int64, error) {
	params = params.Normalize()
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to count reviews")
	}
	if total == 0 {
		return []*review.Review{}, 0, nil
	}

	var models []ReviewModel
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Scopes(paginate(params.Page, params.PageSize)).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to list reviews")
	}

	reviews := make([]*review.Review, len(models))
	for i := range models {
		reviews[i] = toReviewEntity(&models[i])
	}
	return reviews, total, nil
}

// Stats AVG在没有评价时为NULL，用COALESCE转为0
func (r *reviewRepository) Stats(ctx context.Context, gameID uint) (review.Stats, error) {
	var row struct {
		Count   int64
		Average decimal.Decimal
	}
	err := getDB(ctx, r.db).Model(&ReviewModel{}).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average").
		Where("game_id = ?", gameID).
		Scan(&row).Error
	if err != nil {
		return review.Stats{}, apperrors.Wrap(err, "failed to aggregate reviews")
	}
	return review.Stats{GameID: gameID, Count: row.Count, Average: row.Average}, nil
}

func toReviewModel(rv *review.Review) *ReviewModel {
	return &ReviewModel{
		ID:        rv.ID,
		UserID:    rv.UserID,
		GameID:    rv.GameID,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		CreatedAt: rv.CreatedAt,
		UpdatedAt: rv.UpdatedAt,
	}
}

func toReviewEntity(model *ReviewModel) *review.Review {
	return &review.Review{
		ID:        model.ID,
		UserID:    model.UserID,
		GameID:    model.GameID,
		Rating:    model.Rating,
		Comment:   model.Comment,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
