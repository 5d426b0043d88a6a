package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/cardiq/internal/common"
	"github.com/dmitrijs2005/cardiq/internal/config"
	"github.com/dmitrijs2005/cardiq/internal/logging"
	"github.com/dmitrijs2005/cardiq/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestStreak(t *testing.T) {
	now := day("2024-06-10 12:00")

	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{"no topics", nil, 0},
		{"today only", []string{"2024-06-10 08:00"}, 1},
		{"yesterday only", []string{"2024-06-09 23:59"}, 1},
		{"two days ago breaks", []string{"2024-06-08 10:00"}, 0},
		{"run ending today", []string{"2024-06-10 01:00", "2024-06-09 10:00", "2024-06-08 10:00"}, 3},
		{"run ending yesterday", []string{"2024-06-09 10:00", "2024-06-08 10:00", "2024-06-07 10:00", "2024-06-05 10:00"}, 3},
		{"duplicates on one day", []string{"2024-06-10 01:00", "2024-06-10 02:00", "2024-06-09 03:00"}, 2},
		{"gap stops count", []string{"2024-06-10 01:00", "2024-06-08 10:00", "2024-06-07 10:00"}, 1},
		{"future dates ignored", []string{"2024-06-11 01:00"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dates []time.Time
			for _, s := range tt.dates {
				dates = append(dates, day(s))
			}
			assert.Equal(t, tt.want, Streak(dates, now, time.UTC))
		})
	}
}

func TestStreak_UsesOffsetCalendar(t *testing.T) {
	plus3 := time.FixedZone("UTC+3", 3*3600)
	now := day("2024-06-10 22:00") // 01:00 on the 11th at UTC+3

	// 21:30 UTC on the 10th is already the 11th at UTC+3
	dates := []time.Time{day("2024-06-10 21:30"), day("2024-06-10 10:00")}
	assert.Equal(t, 2, Streak(dates, now, plus3))
	assert.Equal(t, 1, Streak(dates, now, time.UTC))
}

func TestWeekBounds(t *testing.T) {
	// 2024-06-12 is a Wednesday
	now := day("2024-06-12 15:00")

	from, to := WeekBounds(now, time.UTC, time.Monday)
	assert.Equal(t, day("2024-06-10 00:00"), from)
	assert.Equal(t, day("2024-06-17 00:00"), to)

	from, _ = WeekBounds(now, time.UTC, time.Sunday)
	assert.Equal(t, day("2024-06-09 00:00"), from)

	from, _ = WeekBounds(now, time.UTC, time.Wednesday)
	assert.Equal(t, day("2024-06-12 00:00"), from)

	from, _ = WeekBounds(now, time.UTC, time.Thursday)
	assert.Equal(t, day("2024-06-06 00:00"), from)
}

func TestNewStatsService_BadWeekStart(t *testing.T) {
	e := newEnv(t)
	_, err := NewStatsService(e.db, e.repos, config.StatsConfig{WeekStart: "someday"}, logging.Discard())
	require.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestStats_OverviewRaisesLongestStreak(t *testing.T) {
	e := newEnv(t)
	svc, err := NewStatsService(e.db, e.repos, config.StatsConfig{WeekStart: "monday"}, logging.Discard())
	require.NoError(t, err)
	svc.now = func() time.Time { return day("2024-06-12 15:00") }
	ctx := context.Background()

	sess := e.seedSession(t, "a@example.com")
	c1 := storagetest.SeedCategory(t, e.db, sess.UserID, "One")
	storagetest.SeedCategory(t, e.db, sess.UserID, "Two")

	storagetest.SeedTopic(t, e.db, sess.UserID, c1, "2024-06-12 08:00:00", "2024-06-12 09:00:00")
	storagetest.SeedTopic(t, e.db, sess.UserID, c1, "2024-06-11 08:00:00", "2024-06-09 09:00:00")
	storagetest.SeedTopic(t, e.db, sess.UserID, c1, "2024-06-10 08:00:00", "2024-06-10 00:00:00")
	storagetest.SeedTopic(t, e.db, sess.UserID, c1, "2024-06-01 08:00:00", "")

	// чужие данные не должны попадать в статистику
	other := e.seedSession(t, "b@example.com")
	oc := storagetest.SeedCategory(t, e.db, other.UserID, "Other")
	storagetest.SeedTopic(t, e.db, other.UserID, oc, "2024-06-12 08:00:00", "2024-06-12 09:00:00")

	ov, err := svc.Overview(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, "Test User", ov.Username)
	assert.Equal(t, 3, ov.CurrentStreak)
	assert.Equal(t, 3, ov.LongestStreak)
	assert.Equal(t, 4, ov.TotalTopics)
	assert.Equal(t, 2, ov.TotalCategories)
	assert.Equal(t, 2, ov.ReviewedThisWeek)
	assert.Len(t, ov.RecentActivity, 3)
	assert.Len(t, ov.RecentlyAdded, 4)

	u, err := e.repos.Users(e.db).GetByID(ctx, sess.UserID)
	require.NoError(t, err)
	assert.Equal(t, 3, u.LongestStreak)

	// a shorter streak later never lowers the record
	svc.now = func() time.Time { return day("2024-06-20 15:00") }
	ov, err = svc.Overview(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, 0, ov.CurrentStreak)
	assert.Equal(t, 3, ov.LongestStreak)
	assert.Equal(t, 0, ov.ReviewedThisWeek)
}

func TestStats_OverviewRequiresSession(t *testing.T) {
	e := newEnv(t)
	svc, err := NewStatsService(e.db, e.repos, config.StatsConfig{WeekStart: "monday"}, logging.Discard())
	require.NoError(t, err)

	_, err = svc.Overview(context.Background(), nil)
	require.ErrorIs(t, err, common.ErrUnauthorized)
}
