package topics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/cardiq/internal/common"
	"github.com/dmitrijs2005/cardiq/internal/models"
	"github.com/dmitrijs2005/cardiq/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	r   *SQLiteRepository
	uid int64
	cat int64
}

func newFixture(t *testing.T) (*fixture, func(added, activity string) int64) {
	t.Helper()
	db := storagetest.NewDB(t)
	uid := storagetest.SeedUser(t, db, "u@example.com")
	cat := storagetest.SeedCategory(t, db, uid, "Science")
	seed := func(added, activity string) int64 {
		return storagetest.SeedTopic(t, db, uid, cat, added, activity, models.Card{Question: "q", Answer: "a"})
	}
	return &fixture{r: NewSQLiteRepository(db), uid: uid, cat: cat}, seed
}

func TestCreate_DefaultAndExplicitAddedAt(t *testing.T) {
	f, _ := newFixture(t)
	ctx := context.Background()

	id, err := f.r.Create(ctx, &models.Topic{Title: "Solar", Description: "Planets", CardCount: 5, CategoryID: f.cat, UserID: f.uid})
	require.NoError(t, err)

	got, err := f.r.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Solar", got.Title)
	assert.Equal(t, 5, got.CardCount)
	assert.False(t, got.AddedAt.IsZero(), "store default must fill the creation time")
	assert.Nil(t, got.ActivityAt)

	at := time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC)
	id2, err := f.r.Create(ctx, &models.Topic{Title: "Old", Description: "d", CardCount: 1, AddedAt: at, CategoryID: f.cat, UserID: f.uid})
	require.NoError(t, err)
	got, err = f.r.GetByID(ctx, id2)
	require.NoError(t, err)
	assert.True(t, at.Equal(got.AddedAt))
}

func TestCreate_UnknownCategory_ConstraintViolation(t *testing.T) {
	f, _ := newFixture(t)
	_, err := f.r.Create(context.Background(), &models.Topic{Title: "x", Description: "y", CategoryID: 999, UserID: f.uid})
	require.ErrorIs(t, err, common.ErrConstraintViolation)
}

func TestGetByID_Missing(t *testing.T) {
	f, _ := newFixture(t)
	got, err := f.r.GetByID(context.Background(), 12345)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestTouch_SetsActivity(t *testing.T) {
	f, seed := newFixture(t)
	ctx := context.Background()
	id := seed("2025-01-01 08:00:00", "")

	at := time.Date(2025, 1, 2, 9, 30, 0, 0, time.UTC)
	require.NoError(t, f.r.Touch(ctx, id, at))

	got, err := f.r.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got.ActivityAt)
	assert.True(t, at.Equal(*got.ActivityAt))

	require.ErrorIs(t, f.r.Touch(ctx, 999, at), common.ErrNotFound)
}

func TestRecentActivity_SkipsUnstudied_RespectsLimit(t *testing.T) {
	f, seed := newFixture(t)
	ctx := context.Background()

	seed("2025-01-01 08:00:00", "")
	var studied []int64
	for _, act := range []string{
		"2025-02-01 10:00:00", "2025-02-03 10:00:00", "2025-02-02 10:00:00",
		"2025-02-05 10:00:00", "2025-02-04 10:00:00", "2025-02-06 10:00:00",
	} {
		studied = append(studied, seed("2025-01-01 09:00:00", act))
	}

	list, err := f.r.RecentActivity(ctx, f.uid, 0)
	require.NoError(t, err)
	require.Len(t, list, common.DefaultRecentActivityLimit)
	for i, s := range list {
		require.NotNil(t, s.ActivityAt, "never-studied topics must not appear")
		assert.Equal(t, "Science", s.CategoryName)
		assert.Equal(t, "#808080", s.CategoryColor)
		if i > 0 {
			assert.False(t, s.ActivityAt.After(*list[i-1].ActivityAt), "newest first")
		}
	}
	assert.Equal(t, studied[5], list[0].ID)

	list, err = f.r.RecentActivity(ctx, f.uid, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestRecentlyAdded_NewestFirst(t *testing.T) {
	f, seed := newFixture(t)
	ctx := context.Background()

	a := seed("2025-01-01 08:00:00", "")
	b := seed("2025-01-03 08:00:00", "")
	c := seed("2025-01-02 08:00:00", "2025-01-05 08:00:00")

	list, err := f.r.RecentlyAdded(ctx, f.uid, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int64{b, c, a}, []int64{list[0].ID, list[1].ID, list[2].ID})

	all, err := f.r.ListByUser(ctx, f.uid)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestAddedDates_AndCounts(t *testing.T) {
	f, seed := newFixture(t)
	ctx := context.Background()

	seed("2025-03-01 08:00:00", "2025-03-10 12:00:00")
	seed("2025-03-03 08:00:00", "2025-03-11 12:00:00")
	seed("2025-03-02 08:00:00", "2025-03-02 12:00:00")

	dates, err := f.r.AddedDates(ctx, f.uid)
	require.NoError(t, err)
	require.Len(t, dates, 3)
	assert.Equal(t, 3, dates[0].Day())
	assert.Equal(t, 1, dates[2].Day())

	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	n, err := f.r.CountActiveBetween(ctx, f.uid, from, to)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	total, err := f.r.CountByUser(ctx, f.uid)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestListByCategory_AndDeleteCascadesCards(t *testing.T) {
	f, seed := newFixture(t)
	ctx := context.Background()

	id := seed("2025-01-01 08:00:00", "")
	seed("2025-01-02 08:00:00", "")

	list, err := f.r.ListByCategory(ctx, f.cat)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, f.r.Delete(ctx, id))
	list, err = f.r.ListByCategory(ctx, f.cat)
	require.NoError(t, err)
	require.Len(t, list, 1)

	var cards int
	require.NoError(t, f.r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM card WHERE topic_id = ?`, id).Scan(&cards))
	assert.Zero(t, cards)

	require.ErrorIs(t, f.r.Delete(ctx, id), common.ErrNotFound)
}

func TestRecentActivity_DriverFailure_Surfaces(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM topic t JOIN category c`).
		WillReturnError(errors.New("unable to open database file"))

	list, err := NewSQLiteRepository(db).RecentActivity(context.Background(), 1, 5)
	require.ErrorIs(t, err, common.ErrIOFailure)
	require.Nil(t, list, "failures must not look like an empty result")
}
