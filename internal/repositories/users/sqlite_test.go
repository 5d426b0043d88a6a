package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/cardiq/internal/common"
	"github.com/dmitrijs2005/cardiq/internal/models"
	"github.com/dmitrijs2005/cardiq/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_ThenGetByIDAndEmail(t *testing.T) {
	db := storagetest.NewDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	u := &models.User{Username: "Ana", Email: "ana@example.com", PasswordHash: "hash"}
	id, err := r.Create(ctx, u)
	require.NoError(t, err)
	require.Positive(t, id)
	require.Equal(t, id, u.ID)

	got, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ana", got.Username)
	assert.Equal(t, 0, got.LongestStreak)

	byEmail, err := r.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, id, byEmail.ID)
}

func TestCreate_DuplicateEmail_ConstraintViolation(t *testing.T) {
	db := storagetest.NewDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := r.Create(ctx, &models.User{Username: "A", Email: "dup@example.com", PasswordHash: "h"})
	require.NoError(t, err)

	_, err = r.Create(ctx, &models.User{Username: "B", Email: "dup@example.com", PasswordHash: "h"})
	require.ErrorIs(t, err, common.ErrConstraintViolation)
}

func TestGet_Missing_ReturnsNilNil(t *testing.T) {
	db := storagetest.NewDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	u, err := r.GetByID(ctx, 404)
	require.NoError(t, err)
	require.Nil(t, u)

	u, err = r.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	require.Nil(t, u)
}

func TestRaiseLongestStreak_IsMonotonic(t *testing.T) {
	db := storagetest.NewDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	id := storagetest.SeedUser(t, db, "s@example.com")

	longest, err := r.RaiseLongestStreak(ctx, id, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, longest)

	longest, err = r.RaiseLongestStreak(ctx, id, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, longest, "a shorter streak must not lower the record")

	_, err = r.RaiseLongestStreak(ctx, 999, 1)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetByID_DriverFailure_IOFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, username, email, password, long_streak FROM user WHERE id = \?`).
		WithArgs(int64(1)).
		WillReturnError(errors.New("database disk image is malformed"))

	u, err := NewSQLiteRepository(db).GetByID(context.Background(), 1)
	require.Nil(t, u)
	require.ErrorIs(t, err, common.ErrIOFailure)
	require.NotErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
