package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizdeck-dev/quizdeck/internal/apperr"
	"github.com/quizdeck-dev/quizdeck/internal/models"
)

type sweepFixture struct {
	svc           *NotificationService
	notifications *fakeNotificationStore
	results       *fakeResultStore
	members       *fakeMembershipStore

	companyID string
	memberID  string
	quiz      *models.Quiz
}

// newSweepFixture seeds one company with one member and one weekly quiz,
// frozen at a fixed clock.
func newSweepFixture(t *testing.T, now time.Time) *sweepFixture {
	t.Helper()

	members := newFakeMembershipStore()
	companies := newFakeCompanyStore(members)
	quizzes := newFakeQuizStore()
	results := newFakeResultStore()
	notifications := newFakeNotificationStore()

	company := companies.seed(models.Company{Name: "Acme", Visible: true})
	members.seedMember(company.ID, "member-1", models.RoleMember)
	quiz := quizzes.seed(models.Quiz{Title: "Weekly check", FrequencyDays: 7, CompanyID: company.ID}, nil)

	svc := NewNotificationService(notifications, companies, members, quizzes, results)
	svc.now = func() time.Time { return now }

	return &sweepFixture{
		svc:           svc,
		notifications: notifications,
		results:       results,
		members:       members,
		companyID:     company.ID,
		memberID:      "member-1",
		quiz:          quiz,
	}
}

func TestSweepRemindsMemberWhoNeverTookQuiz(t *testing.T) {
	now := timeAt(t, "2026-09-01")
	f := newSweepFixture(t, now)
	ctx := context.Background()

	require.NoError(t, f.svc.SweepOverdueQuizzes(ctx))

	list, err := f.notifications.ListByUser(ctx, f.memberID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.NotificationUnread, list[0].Status)
	assert.Equal(t, f.quiz.ID, list[0].QuizID)
	assert.Contains(t, list[0].Text, "Weekly check")
	assert.Contains(t, list[0].Text, "7 days")
}

func TestSweepIsIdempotentWhileReminderUnread(t *testing.T) {
	now := timeAt(t, "2026-09-01")
	f := newSweepFixture(t, now)
	ctx := context.Background()

	require.NoError(t, f.svc.SweepOverdueQuizzes(ctx))
	require.NoError(t, f.svc.SweepOverdueQuizzes(ctx))

	list, err := f.notifications.ListByUser(ctx, f.memberID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSweepRemindsAgainAfterReminderIsRead(t *testing.T) {
	now := timeAt(t, "2026-09-01")
	f := newSweepFixture(t, now)
	ctx := context.Background()

	require.NoError(t, f.svc.SweepOverdueQuizzes(ctx))

	list, err := f.notifications.ListByUser(ctx, f.memberID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NoError(t, f.svc.MarkRead(ctx, list[0].ID, f.memberID))

	require.NoError(t, f.svc.SweepOverdueQuizzes(ctx))

	list, err = f.notifications.ListByUser(ctx, f.memberID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestSweepCadence(t *testing.T) {
	now := timeAt(t, "2026-09-01")
	ctx := context.Background()

	t.Run("recent result suppresses the reminder", func(t *testing.T) {
		f := newSweepFixture(t, now)
		f.results.seed(f.quiz.ID, f.memberID, 1.0, now.Add(-3*24*time.Hour))

		require.NoError(t, f.svc.SweepOverdueQuizzes(ctx))

		list, err := f.notifications.ListByUser(ctx, f.memberID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("stale result triggers the reminder", func(t *testing.T) {
		f := newSweepFixture(t, now)
		f.results.seed(f.quiz.ID, f.memberID, 1.0, now.Add(-8*24*time.Hour))

		require.NoError(t, f.svc.SweepOverdueQuizzes(ctx))

		list, err := f.notifications.ListByUser(ctx, f.memberID)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("result exactly at the cadence boundary is not overdue", func(t *testing.T) {
		f := newSweepFixture(t, now)
		f.results.seed(f.quiz.ID, f.memberID, 1.0, now.Add(-7*24*time.Hour))

		require.NoError(t, f.svc.SweepOverdueQuizzes(ctx))

		list, err := f.notifications.ListByUser(ctx, f.memberID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestMarkReadIsScopedToOwner(t *testing.T) {
	now := timeAt(t, "2026-09-01")
	f := newSweepFixture(t, now)
	ctx := context.Background()

	require.NoError(t, f.svc.SweepOverdueQuizzes(ctx))

	list, err := f.notifications.ListByUser(ctx, f.memberID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	err = f.svc.MarkRead(ctx, list[0].ID, "someone-else")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	require.NoError(t, f.svc.MarkRead(ctx, list[0].ID, f.memberID))

	list, err = f.svc.List(ctx, f.memberID)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationRead, list[0].Status)
}
