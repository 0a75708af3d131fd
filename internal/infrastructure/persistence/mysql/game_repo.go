package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/gamesup/internal/domain/game"
	apperrors "github.com/xiebiao/gamesup/pkg/errors"
)

type gameRepository struct {
	db *gorm.DB
}

// NewGameRepository 创建游戏仓储
func NewGameRepository(db *gorm.DB) game.Repository {
	return &gameRepository{db: db}
}

func (r *gameRepository) Create(ctx context.Context, g *game.Game) error {
	model := toGameModel(g)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return game.ErrSlugDuplicate
		}
		return apperrors.Wrap(err, "failed to create game")
	}

	g.ID = model.ID
	g.CreatedAt = model.CreatedAt
	g.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *gameRepository) FindByID(ctx context.Context, id uint) (*game.Game, error) {
	var model GameModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, game.NewGameNotFound(id)
		}
		return nil, apperrors.Wrap(err, "failed to query game")
	}
	return toGameEntity(&model), nil
}

func (r *gameRepository) FindBySlug(ctx context.Context, slug string) (*game.Game, error) {
	var model GameModel
	if err := getDB(ctx, r.db).Where("slug = ?", slug).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, game.ErrGameNotFound
		}
		return nil, apperrors.Wrap(err, "failed to query game")
	}
	return toGameEntity(&model), nil
}

func (r *gameRepository) Update(ctx context.Context, g *game.Game) error {
	result := getDB(ctx, r.db).Model(&GameModel{ID: g.ID}).Updates(map[string]interface{}{
		"title":       g.Title,
		"description": g.Description,
		"base_price":  g.BasePrice,
		"currency":    g.Currency,
	})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "failed to update game")
	}
	if result.RowsAffected == 0 {
		return game.NewGameNotFound(g.ID)
	}
	return nil
}

func (r *gameRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&GameModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "failed to delete game")
	}
	if result.RowsAffected == 0 {
		return game.NewGameNotFound(id)
	}
	return nil
}

func (r *gameRepository) List(ctx context.Context, params game.ListParams) ([]*game.Game, int64, error) {
	var (
		models []GameModel
		total  int64
	)

	query := getDB(ctx, r.db).Model(&GameModel{})
	if params.Keyword != "" {
		query = query.Where("title LIKE ?", "%"+params.Keyword+"%")
	}
	query = query.Session(&gorm.Session{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to count games")
	}

	switch params.SortBy {
	case "price_asc":
		query = query.Order("base_price ASC")
	case "price_desc":
		query = query.Order("base_price DESC")
	default:
		query = query.Order("created_at DESC")
	}

	if err := query.Scopes(paginate(params.Page, params.PageSize)).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to list games")
	}

	games := make([]*game.Game, len(models))
	for i := range models {
		games[i] = toGameEntity(&models[i])
	}
	return games, total, nil
}

func toGameModel(g *game.Game) *GameModel {
	return &GameModel{
		ID:          g.ID,
		Title:       g.Title,
		Slug:        g.Slug,
		Description: g.Description,
		BasePrice:   g.BasePrice,
		Currency:    g.Currency,
		PublisherID: g.PublisherID,
	}
}

func toGameEntity(model *GameModel) *game.Game {
	return &game.Game{
		ID:          model.ID,
		Title:       model.Title,
		Slug:        model.Slug,
		Description: model.Description,
		BasePrice:   model.BasePrice,
		Currency:    model.Currency,
		PublisherID: model.PublisherID,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
