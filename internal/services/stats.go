package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cardiq/internal/auth"
	"github.com/dmitrijs2005/cardiq/internal/common"
	"github.com/dmitrijs2005/cardiq/internal/config"
	"github.com/dmitrijs2005/cardiq/internal/logging"
	"github.com/dmitrijs2005/cardiq/internal/models"
	"github.com/dmitrijs2005/cardiq/internal/repositories/repomanager"
	"golang.org/x/sync/errgroup"
)

// Overview is the profile dashboard of a user.
type Overview struct {
	Username         string
	Email            string
	CurrentStreak    int
	LongestStreak    int
	TotalTopics      int
	TotalCategories  int
	ReviewedThisWeek int
	RecentActivity   []models.TopicSummary
	RecentlyAdded    []models.TopicSummary
}

// StatsService computes the derived statistics of a user. Calendar days are
// taken in a fixed UTC offset and weeks start on a configurable weekday.
type StatsService struct {
	db        *sql.DB
	repos     repomanager.RepositoryManager
	loc       *time.Location
	weekStart time.Weekday
	log       logging.Logger
	now       func() time.Time
}

func NewStatsService(db *sql.DB, repos repomanager.RepositoryManager, cfg config.StatsConfig, log logging.Logger) (*StatsService, error) {
	weekStart, err := cfg.FirstWeekday()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidInput, err)
	}
	return &StatsService{
		db:        db,
		repos:     repos,
		loc:       cfg.Location(),
		weekStart: weekStart,
		log:       log,
		now:       time.Now,
	}, nil
}

// CurrentStreak counts consecutive calendar days with at least one topic
// created, ending today, or yesterday when nothing was created today yet.
func (s *StatsService) CurrentStreak(ctx context.Context, userID int64) (int, error) {
	dates, err := s.repos.Topics(s.db).AddedDates(ctx, userID)
	if err != nil {
		return 0, err
	}
	return Streak(dates, s.now(), s.loc), nil
}

// ReviewedThisWeek counts distinct topics studied since the start of the
// current week.
func (s *StatsService) ReviewedThisWeek(ctx context.Context, userID int64) (int, error) {
	from, to := WeekBounds(s.now(), s.loc, s.weekStart)
	return s.repos.Topics(s.db).CountActiveBetween(ctx, userID, from, to)
}

func (s *StatsService) TotalTopics(ctx context.Context, userID int64) (int, error) {
	return s.repos.Topics(s.db).CountByUser(ctx, userID)
}

func (s *StatsService) TotalCategories(ctx context.Context, userID int64) (int, error) {
	return s.repos.Categories(s.db).CountByUser(ctx, userID)
}

// Overview loads the profile dashboard. A current streak longer than the
// stored longest streak is written back as the new longest streak.
func (s *StatsService) Overview(ctx context.Context, sess *auth.Session) (*Overview, error) {
	if err := auth.Require(sess); err != nil {
		return nil, err
	}
	uid := sess.UserID

	var (
		ov   = &Overview{Username: sess.Username, Email: sess.Email}
		user *models.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		user, err = s.repos.Users(s.db).GetByID(gctx, uid)
		return err
	})
	g.Go(func() (err error) {
		ov.CurrentStreak, err = s.CurrentStreak(gctx, uid)
		return err
	})
	g.Go(func() (err error) {
		ov.TotalTopics, err = s.TotalTopics(gctx, uid)
		return err
	})
	g.Go(func() (err error) {
		ov.TotalCategories, err = s.TotalCategories(gctx, uid)
		return err
	})
	g.Go(func() (err error) {
		ov.ReviewedThisWeek, err = s.ReviewedThisWeek(gctx, uid)
		return err
	})
	g.Go(func() (err error) {
		ov.RecentActivity, err = s.repos.Topics(s.db).RecentActivity(gctx, uid, 0)
		return err
	})
	g.Go(func() (err error) {
		ov.RecentlyAdded, err = s.repos.Topics(s.db).RecentlyAdded(gctx, uid, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if user == nil {
		return nil, fmt.Errorf("user[%d]: %w", uid, common.ErrNotFound)
	}
	ov.Username = user.Username
	ov.Email = user.Email
	ov.LongestStreak = user.LongestStreak

	if ov.CurrentStreak > ov.LongestStreak {
		longest, err := s.repos.Users(s.db).RaiseLongestStreak(ctx, uid, ov.CurrentStreak)
		if err != nil {
			return nil, err
		}
		s.log.Info(ctx, "new longest streak", "user_id", uid, "streak", longest)
		ov.LongestStreak = longest
	}

	return ov, nil
}

// Streak returns the number of consecutive days, counted back from today or
// yesterday in loc, on which at least one of dates falls.
func Streak(dates []time.Time, now time.Time, loc *time.Location) int {
	days := make(map[time.Time]struct{}, len(dates))
	for _, d := range dates {
		days[dayOf(d, loc)] = struct{}{}
	}

	ref := dayOf(now, loc)
	if _, ok := days[ref]; !ok {
		ref = ref.AddDate(0, 0, -1)
		if _, ok := days[ref]; !ok {
			return 0
		}
	}

	n := 0
	for d := ref; ; d = d.AddDate(0, 0, -1) {
		if _, ok := days[d]; !ok {
			return n
		}
		n++
	}
}

// WeekBounds returns [from, to) of the calendar week containing now.
func WeekBounds(now time.Time, loc *time.Location, first time.Weekday) (time.Time, time.Time) {
	today := dayOf(now, loc)
	back := (int(today.Weekday()) - int(first) + 7) % 7
	from := today.AddDate(0, 0, -back)
	return from, from.AddDate(0, 0, 7)
}

// dayOf truncates t to midnight of its calendar day in loc.
func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
