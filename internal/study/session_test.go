package study

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/cardiq/internal/auth"
	"github.com/dmitrijs2005/cardiq/internal/common"
	"github.com/dmitrijs2005/cardiq/internal/logging"
	"github.com/dmitrijs2005/cardiq/internal/models"
	"github.com/dmitrijs2005/cardiq/internal/repositories/repomanager"
	"github.com/dmitrijs2005/cardiq/internal/repositories/sessioncache"
	"github.com/dmitrijs2005/cardiq/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

type fixture struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
	svc   *Service
	sess  *auth.Session
	topic int64
}

var fixedNow = time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)

func newFixture(t *testing.T, cards ...models.Card) fixture {
	t.Helper()
	db := storagetest.NewDB(t)
	uid := storagetest.SeedUser(t, db, "a@example.com")
	cat := storagetest.SeedCategory(t, db, uid, "Geo")
	tid := storagetest.SeedTopic(t, db, uid, cat, "2024-06-01 10:00:00", "", cards...)

	repos := repomanager.NewSQLiteRepositoryManager()
	svc := NewService(db, repos, logging.Discard())
	svc.now = func() time.Time { return fixedNow }
	svc.pick = func(int) int { return 0 }

	return fixture{db: db, repos: repos, svc: svc, sess: &auth.Session{UserID: uid}, topic: tid}
}

func capitals() []models.Card {
	return []models.Card{
		{Question: "Capital of France?", Answer: "Paris"},
		{Question: "Capital of Japan?", Answer: "Tokyo"},
		{Question: "Capital of Peru?", Answer: "Lima"},
	}
}

func (f fixture) cached(t *testing.T) map[sessioncache.Field][]byte {
	t.Helper()
	m, err := f.repos.SessionCache(f.db).ListTopic(context.Background(), f.topic)
	require.NoError(t, err)
	return m
}

// ---- tests ----

func TestStart_TouchesTopicAndShowsFirstCard(t *testing.T) {
	f := newFixture(t, capitals()...)
	ctx := context.Background()

	s, err := f.svc.Start(ctx, f.sess, f.topic)
	require.NoError(t, err)

	v := s.View()
	assert.Equal(t, PhaseShowing, v.Phase)
	assert.Equal(t, 0, v.Index)
	assert.Equal(t, 3, v.Total)
	assert.Equal(t, "Capital of France?", v.Card.Question)
	assert.False(t, v.Flipped)
	assert.False(t, v.Revealed)
	assert.Nil(t, v.Feedback)
	assert.InDelta(t, 1.0/3, v.Progress, 1e-9)
	assert.Equal(t, 2, v.EstimatedMinutes)

	topic, err := f.repos.Topics(f.db).GetByID(ctx, f.topic)
	require.NoError(t, err)
	require.NotNil(t, topic.ActivityAt)
	assert.True(t, topic.ActivityAt.Equal(fixedNow))

	// nothing is cached until the first reveal
	assert.Empty(t, f.cached(t))
}

func TestStart_Errors(t *testing.T) {
	f := newFixture(t) // no cards
	ctx := context.Background()

	_, err := f.svc.Start(ctx, f.sess, f.topic)
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = f.svc.Start(ctx, f.sess, 12345)
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = f.svc.Start(ctx, &auth.Session{UserID: f.sess.UserID + 100}, f.topic)
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = f.svc.Start(ctx, nil, f.topic)
	require.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestSession_FullRun(t *testing.T) {
	f := newFixture(t, capitals()...)
	ctx := context.Background()

	s, err := f.svc.Start(ctx, f.sess, f.topic)
	require.NoError(t, err)

	// advance before reveal is rejected
	_, err = s.Advance(ctx)
	require.ErrorIs(t, err, ErrNotRevealed)

	s.SetAnswer(" paris ")
	require.NoError(t, s.Reveal(ctx))
	v := s.View()
	assert.True(t, v.Flipped)
	assert.True(t, v.Revealed)
	require.NotNil(t, v.Feedback)
	assert.Equal(t, Correct, v.Feedback.Correct)
	assert.Equal(t, " paris ", v.Feedback.UserAnswer)
	assert.True(t, v.Feedback.Timestamp.Equal(fixedNow))

	sum, err := s.Advance(ctx)
	require.NoError(t, err)
	assert.Nil(t, sum)
	assert.Equal(t, 1, s.View().Index)
	assert.Empty(t, s.View().Answer)
	assert.False(t, s.View().Flipped)

	s.SetAnswer("Kyoto")
	require.NoError(t, s.Reveal(ctx))
	assert.Equal(t, Incorrect, s.View().Feedback.Correct)
	_, err = s.Advance(ctx)
	require.NoError(t, err)

	// третью карточку открываем без ответа
	require.NoError(t, s.Reveal(ctx))
	assert.Equal(t, Unknown, s.View().Feedback.Correct)
	assert.Equal(t, NoAnswerMessage, s.View().Feedback.Message)
	assert.NotEmpty(t, f.cached(t))

	sum, err = s.Advance(ctx)
	require.NoError(t, err)
	require.NotNil(t, sum)
	assert.Equal(t, 1, sum.Score)
	assert.Equal(t, 3, sum.Total)
	assert.Len(t, sum.Correct, 1)
	assert.Len(t, sum.Incorrect, 1)
	assert.Len(t, sum.Skipped, 1)
	assert.Equal(t, "Tokyo", sum.Incorrect[0].Answer)
	assert.Equal(t, []int{0, 1, 2}, sum.Revealed)
	assert.Equal(t, []int{0, 1, 2}, sum.Completed)

	assert.Equal(t, PhaseComplete, s.View().Phase)
	assert.Empty(t, f.cached(t))

	require.ErrorIs(t, s.Reveal(ctx), ErrSessionOver)
	_, err = s.Advance(ctx)
	require.ErrorIs(t, err, ErrSessionOver)
	require.ErrorIs(t, s.Retreat(ctx), ErrSessionOver)
}

func TestSession_RevealIsIdempotentForFeedback(t *testing.T) {
	f := newFixture(t, capitals()...)
	ctx := context.Background()

	s, err := f.svc.Start(ctx, f.sess, f.topic)
	require.NoError(t, err)

	s.SetAnswer("Lyon")
	require.NoError(t, s.Reveal(ctx))
	firstFb := *s.View().Feedback

	// переворот назад и снова вперёд не пересчитывает оценку
	require.NoError(t, s.Reveal(ctx))
	assert.False(t, s.View().Flipped)
	s.SetAnswer("Paris")
	require.NoError(t, s.Reveal(ctx))
	assert.True(t, s.View().Flipped)
	assert.Equal(t, firstFb, *s.View().Feedback)
	assert.Equal(t, Incorrect, s.View().Feedback.Correct)

	p := s.Progress()
	assert.Len(t, p.Revealed, 1)
	assert.Len(t, p.Completed, 1)
	assert.Len(t, p.Feedback, 1)
}

func TestSession_Retreat(t *testing.T) {
	f := newFixture(t, capitals()...)
	ctx := context.Background()

	s, err := f.svc.Start(ctx, f.sess, f.topic)
	require.NoError(t, err)

	require.NoError(t, s.Retreat(ctx))
	assert.Equal(t, 0, s.View().Index)

	s.SetAnswer("Paris")
	require.NoError(t, s.Reveal(ctx))
	_, err = s.Advance(ctx)
	require.NoError(t, err)

	s.SetAnswer("draft")
	require.NoError(t, s.Retreat(ctx))
	v := s.View()
	assert.Equal(t, 0, v.Index)
	assert.True(t, v.Flipped, "revealed card comes back flipped")
	assert.Empty(t, v.Answer)
	require.NotNil(t, v.Feedback)
	assert.Equal(t, Correct, v.Feedback.Correct)

	// the unrevealed second card is shown question side up
	_, err = s.Advance(ctx)
	require.NoError(t, err)
	assert.False(t, s.View().Flipped)
	assert.Equal(t, "1", string(f.cached(t)[sessioncache.FieldCurrentIndex]))
}

func TestSession_ResumeFromCache(t *testing.T) {
	f := newFixture(t, capitals()...)
	ctx := context.Background()

	s, err := f.svc.Start(ctx, f.sess, f.topic)
	require.NoError(t, err)
	s.SetAnswer("Paris")
	require.NoError(t, s.Reveal(ctx))
	_, err = s.Advance(ctx)
	require.NoError(t, err)

	// новый процесс: та же тема продолжается со второй карточки
	resumed, err := f.svc.Start(ctx, f.sess, f.topic)
	require.NoError(t, err)
	v := resumed.View()
	assert.Equal(t, 1, v.Index)
	assert.False(t, v.Revealed)

	p := resumed.Progress()
	assert.True(t, p.IsRevealed(0))
	assert.Equal(t, Correct, p.Feedback[0].Correct)
}

func TestSession_ResumeClampsIndexAndDropsGarbage(t *testing.T) {
	f := newFixture(t, capitals()...)
	ctx := context.Background()
	cache := f.repos.SessionCache(f.db)

	require.NoError(t, cache.Set(ctx, sessioncache.Key{TopicID: f.topic, Field: sessioncache.FieldCurrentIndex}, []byte("42")))
	s, err := f.svc.Start(ctx, f.sess, f.topic)
	require.NoError(t, err)
	assert.Equal(t, 2, s.View().Index)

	require.NoError(t, cache.Set(ctx, sessioncache.Key{TopicID: f.topic, Field: sessioncache.FieldFeedbackData}, []byte("not json")))
	s, err = f.svc.Start(ctx, f.sess, f.topic)
	require.NoError(t, err)
	assert.Equal(t, 0, s.View().Index)
	assert.Empty(t, f.cached(t))
}

func TestSession_AbandonClearsCache(t *testing.T) {
	f := newFixture(t, capitals()...)
	ctx := context.Background()

	s, err := f.svc.Start(ctx, f.sess, f.topic)
	require.NoError(t, err)
	require.NoError(t, s.Reveal(ctx))
	require.NotEmpty(t, f.cached(t))

	require.NoError(t, s.Abandon(ctx))
	assert.Equal(t, PhaseAbandoned, s.View().Phase)
	assert.Empty(t, f.cached(t))
	require.ErrorIs(t, s.Reveal(ctx), ErrSessionOver)

	s, err = f.svc.Start(ctx, f.sess, f.topic)
	require.NoError(t, err)
	assert.Equal(t, 0, s.View().Index)
	assert.False(t, s.View().Revealed)
}

func TestPlayAgain_StartsOver(t *testing.T) {
	f := newFixture(t, capitals()...)
	ctx := context.Background()

	s, err := f.svc.Start(ctx, f.sess, f.topic)
	require.NoError(t, err)
	require.NoError(t, s.Reveal(ctx))
	_, err = s.Advance(ctx)
	require.NoError(t, err)

	again, err := f.svc.PlayAgain(ctx, f.sess, f.topic)
	require.NoError(t, err)
	v := again.View()
	assert.Equal(t, PhaseShowing, v.Phase)
	assert.Equal(t, 0, v.Index)
	assert.False(t, v.Flipped)
	assert.Empty(t, again.Progress().Feedback)
	assert.Empty(t, f.cached(t))

	_, err = f.svc.PlayAgain(ctx, &auth.Session{UserID: 999}, f.topic)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestSession_SingleCardCompletesImmediately(t *testing.T) {
	f := newFixture(t, models.Card{Question: "2+2?", Answer: "4"})
	ctx := context.Background()

	s, err := f.svc.Start(ctx, f.sess, f.topic)
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.View().Progress)
	assert.Equal(t, 1, s.View().EstimatedMinutes)

	s.SetAnswer("4")
	require.NoError(t, s.Reveal(ctx))
	sum, err := s.Advance(ctx)
	require.NoError(t, err)
	require.NotNil(t, sum)
	assert.Equal(t, 100, sum.Percent())
}
