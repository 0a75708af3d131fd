package game

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, g *Game) error {
	args := m.Called(ctx, g)
	if args.Error(0) == nil {
		g.ID = 1
	}
	return args.Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id uint) (*Game, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Game), args.Error(1)
}

func (m *MockRepository) FindBySlug(ctx context.Context, slug string) (*Game, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Game), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, g *Game) error {
	return m.Called(ctx, g).Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) List(ctx context.Context, params ListParams) ([]*Game, int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]*Game), args.Get(1).(int64), args.Error(2)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "the-witcher-3-wild-hunt", Slugify("The Witcher 3: Wild Hunt"))
	assert.Equal(t, "celeste", Slugify("  Celeste!! "))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestService_PublishGame(t *testing.T) {
	ctx := context.Background()
	price := decimal.RequireFromString("29.99")

	t.Run("发布成功", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		repo.On("FindBySlug", ctx, "hades").Return(nil, ErrGameNotFound)
		repo.On("Create", ctx, mock.AnythingOfType("*game.Game")).Return(nil)

		g, err := svc.PublishGame(ctx, " Hades ", "roguelike", price, "eur", 9)
		require.NoError(t, err)
		assert.Equal(t, uint(1), g.ID)
		assert.Equal(t, "Hades", g.Title)
		assert.Equal(t, "hades", g.Slug)
		assert.Equal(t, "EUR", g.Currency)
		assert.True(t, g.BasePrice.Equal(price))
		assert.Equal(t, uint(9), g.PublisherID)
		repo.AssertExpectations(t)
	})

	t.Run("标题重复", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		repo.On("FindBySlug", ctx, "hades").Return(&Game{ID: 3}, nil)

		_, err := svc.PublishGame(ctx, "Hades", "", price, "EUR", 9)
		assert.ErrorIs(t, err, ErrSlugDuplicate)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("参数校验", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		_, err := svc.PublishGame(ctx, "  ", "", price, "EUR", 9)
		assert.ErrorIs(t, err, ErrInvalidTitle)

		_, err = svc.PublishGame(ctx, "Hades", "", decimal.RequireFromString("-1"), "EUR", 9)
		assert.ErrorIs(t, err, ErrInvalidPrice)

		_, err = svc.PublishGame(ctx, "Hades", "", decimal.RequireFromString("1.999"), "EUR", 9)
		assert.ErrorIs(t, err, ErrInvalidPrice)

		_, err = svc.PublishGame(ctx, "Hades", "", price, "EURO", 9)
		assert.ErrorIs(t, err, ErrInvalidCurrency)

		repo.AssertNotCalled(t, "FindBySlug", mock.Anything, mock.Anything)
	})

	t.Run("仓储错误透传", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		dbErr := errors.New("db error")
		repo.On("FindBySlug", ctx, "hades").Return(nil, dbErr)

		_, err := svc.PublishGame(ctx, "Hades", "", price, "EUR", 9)
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestService_UpdatePrice(t *testing.T) {
	ctx := context.Background()

	t.Run("改价成功", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		g := &Game{ID: 5, BasePrice: decimal.RequireFromString("29.99"), Currency: "EUR"}
		repo.On("FindByID", ctx, uint(5)).Return(g, nil)
		repo.On("Update", ctx, g).Return(nil)

		updated, err := svc.UpdatePrice(ctx, 5, decimal.RequireFromString("19.99"))
		require.NoError(t, err)
		assert.Equal(t, "19.99", updated.BasePrice.StringFixed(2))
		repo.AssertExpectations(t)
	})

	t.Run("游戏不存在", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		repo.On("FindByID", ctx, uint(5)).Return(nil, NewGameNotFound(5))

		_, err := svc.UpdatePrice(ctx, 5, decimal.RequireFromString("19.99"))
		assert.ErrorIs(t, err, ErrGameNotFound)
	})
}

func TestService_DeleteGame(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo)
	repo.On("FindByID", ctx, uint(5)).Return(&Game{ID: 5}, nil)
	repo.On("Delete", ctx, uint(5)).Return(nil)

	require.NoError(t, svc.DeleteGame(ctx, 5))
	repo.AssertExpectations(t)
}
