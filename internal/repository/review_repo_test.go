package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"restaurant_reviews/internal/model"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reviewCols = []string{"id", "rating", "review", "name", "restaurant_id", "created_at", "updated_at"}

func TestReviewRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewReviewRepository(mock)
	now := time.Now()

	review := &model.Review{Rating: "5", Review: "great", Name: "alice", RestaurantID: 2}
	mock.ExpectQuery("INSERT INTO reviews").
		WithArgs("5", "great", "alice", int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))

	require.NoError(t, repo.Create(context.Background(), review))
	assert.Equal(t, int64(11), review.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_FindByRestaurant(t *testing.T) {
	mock := newMock(t)
	repo := NewReviewRepository(mock)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM reviews WHERE restaurant_id = $1 ORDER BY id")).
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows(reviewCols).
			AddRow(int64(1), "4", "nice", "bob", int64(2), now, now).
			AddRow(int64(3), "2", "meh", "eve", int64(2), now, now))

	reviews, err := repo.FindByRestaurant(context.Background(), 2)

	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "eve", reviews[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_FindAll_Empty(t *testing.T) {
	mock := newMock(t)
	repo := NewReviewRepository(mock)

	mock.ExpectQuery("FROM reviews ORDER BY id").WillReturnRows(pgxmock.NewRows(reviewCols))

	reviews, err := repo.FindAll(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, reviews)
	assert.Empty(t, reviews)
}

func TestReviewRepository_FindAll_Error(t *testing.T) {
	mock := newMock(t)
	repo := NewReviewRepository(mock)

	mock.ExpectQuery("FROM reviews").WillReturnError(errors.New("connection reset"))

	_, err := repo.FindAll(context.Background())
	assert.ErrorContains(t, err, "failed to list reviews")
}

func TestReviewRepository_Update(t *testing.T) {
	mock := newMock(t)
	repo := NewReviewRepository(mock)
	now := time.Now()
	rating := "1"

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE reviews SET updated_at = NOW(), rating = $1 WHERE id = $2")).
		WithArgs(rating, int64(8)).
		WillReturnRows(pgxmock.NewRows(reviewCols).AddRow(int64(8), rating, "body", "bob", int64(2), now, now))

	review, err := repo.Update(context.Background(), 8, model.ReviewPatch{Rating: &rating})

	require.NoError(t, err)
	assert.Equal(t, "1", review.Rating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_DeleteByRestaurant(t *testing.T) {
	mock := newMock(t)
	repo := NewReviewRepository(mock)

	mock.ExpectExec("DELETE FROM reviews WHERE restaurant_id").
		WithArgs(int64(2)).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := repo.DeleteByRestaurant(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
