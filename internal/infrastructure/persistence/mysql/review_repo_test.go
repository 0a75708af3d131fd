package mysql

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/gamesup/internal/domain/review"
)

var reviewColumns = []string{"id", "user_id", "game_id", "rating", "comment", "created_at", "updated_at"}

func TestReviewRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `reviews`")).
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectCommit()

	rv := &review.Review{UserID: 1, GameID: 10, Rating: 5, Comment: "great", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(context.Background(), rv))
	assert.Equal(t, uint(4), rv.ID)
	assert.Equal(t, now, rv.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_FindByID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `reviews` WHERE `reviews`.`id` = ?")).
			WillReturnRows(sqlmock.NewRows(reviewColumns).AddRow(4, 1, 10, 5, "great", now, now))

		rv, err := NewReviewRepository(db).FindByID(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, 5, rv.Rating)
		assert.Equal(t, "great", rv.Comment)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `reviews`")).
			WillReturnRows(sqlmock.NewRows(reviewColumns))

		_, err := NewReviewRepository(db).FindByID(ctx, 9)
		assert.ErrorIs(t, err, review.ErrReviewNotFound)
		assert.Contains(t, err.Error(), "review not found with id: 9")
	})
}

func TestReviewRepository_UpdateAndDeleteMissing(t *testing.T) {
	ctx := context.Background()

	t.Run("update missing", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE `reviews` SET")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := NewReviewRepository(db).Update(ctx, &review.Review{ID: 9, Rating: 3})
		assert.ErrorIs(t, err, review.ErrReviewNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `reviews` WHERE `reviews`.`id` = ?")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, NewReviewRepository(db).Delete(ctx, 4))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReviewRepository_ListByGame(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `reviews` WHERE game_id = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `reviews` WHERE game_id = ? ORDER BY created_at DESC,id DESC")).
		WillReturnRows(sqlmock.NewRows(reviewColumns).
			AddRow(7, 2, 10, 4, "", now, now))

	list, total, err := NewReviewRepository(db).ListByGame(context.Background(), 10, review.ListParams{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 1)
	assert.Equal(t, uint(7), list[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Stats(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates in sql", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average FROM `reviews` WHERE game_id = ?")).
			WillReturnRows(sqlmock.NewRows([]string{"count", "average"}).AddRow(3, "4.3333"))

		stats, err := NewReviewRepository(db).Stats(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(3), stats.Count)
		assert.Equal(t, "4.3333", stats.Average.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no reviews", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) AS count")).
			WillReturnRows(sqlmock.NewRows([]string{"count", "average"}).AddRow(0, "0"))

		stats, err := NewReviewRepository(db).Stats(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(0), stats.Count)
		assert.True(t, stats.Average.IsZero())
	})
}
