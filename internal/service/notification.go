package service

import (
	"context"
	"fmt"
	"time"

	"github.com/quizdeck-dev/quizdeck/internal/logging"
	"github.com/quizdeck-dev/quizdeck/internal/models"
)

type NotificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
	UnreadReminderExists(ctx context.Context, userID, quizID string) (bool, error)
}

type CompanyLister interface {
	ListAll(ctx context.Context) ([]models.Company, error)
}

type LatestResultStore interface {
	LatestForQuiz(ctx context.Context, quizID, userID string) (*models.Result, error)
}

type NotificationService struct {
	notifications NotificationStore
	companies     CompanyLister
	members       MembershipStore
	quizzes       QuizStore
	results       LatestResultStore
	now           func() time.Time
}

func NewNotificationService(notifications NotificationStore, companies CompanyLister, members MembershipStore, quizzes QuizStore, results LatestResultStore) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		companies:     companies,
		members:       members,
		quizzes:       quizzes,
		results:       results,
		now:           time.Now,
	}
}

func (s *NotificationService) List(ctx context.Context, callerID string) ([]models.Notification, error) {
	return s.notifications.ListByUser(ctx, callerID)
}

func (s *NotificationService) MarkRead(ctx context.Context, notificationID, callerID string) error {
	return s.notifications.MarkRead(ctx, notificationID, callerID)
}

// SweepOverdueQuizzes flags every member overdue on a quiz cadence: no
// result at all, or a latest result older than the quiz's frequency_days.
// A pair with an UNREAD reminder outstanding is skipped, so re-running the
// sweep within a window does not duplicate reminders.
func (s *NotificationService) SweepOverdueQuizzes(ctx context.Context) error {
	companies, err := s.companies.ListAll(ctx)
	if err != nil {
		return err
	}

	var emitted int
	for _, company := range companies {
		quizzes, err := s.quizzes.ListAllByCompany(ctx, company.ID)
		if err != nil {
			return err
		}
		if len(quizzes) == 0 {
			continue
		}

		members, err := s.members.Members(ctx, company.ID)
		if err != nil {
			return err
		}

		for _, member := range members {
			for _, quiz := range quizzes {
				due, err := s.overdue(ctx, quiz, member.UserID)
				if err != nil {
					return err
				}
				if !due {
					continue
				}

				pending, err := s.notifications.UnreadReminderExists(ctx, member.UserID, quiz.ID)
				if err != nil {
					return err
				}
				if pending {
					continue
				}

				notification := models.Notification{
					Text: fmt.Sprintf("You have not taken the quiz %q in the last %d days. Please take the quiz.",
						quiz.Title, quiz.FrequencyDays),
					Status: models.NotificationUnread,
					UserID: member.UserID,
					QuizID: quiz.ID,
				}
				if err := s.notifications.Create(ctx, &notification); err != nil {
					return err
				}
				emitted++
			}
		}
	}

	logging.L.WithField("count", emitted).Info("reminder sweep finished")
	return nil
}

func (s *NotificationService) overdue(ctx context.Context, quiz models.Quiz, userID string) (bool, error) {
	latest, err := s.results.LatestForQuiz(ctx, quiz.ID, userID)
	if err != nil {
		return false, err
	}
	if latest == nil {
		return true, nil
	}
	cadence := time.Duration(quiz.FrequencyDays) * 24 * time.Hour
	return s.now().Sub(latest.CreatedAt) > cadence, nil
}
