package service

import (
	"context"

	"github.com/quizdeck-dev/quizdeck/internal/access"
	"github.com/quizdeck-dev/quizdeck/internal/apperr"
	"github.com/quizdeck-dev/quizdeck/internal/cache"
	"github.com/quizdeck-dev/quizdeck/internal/logging"
	"github.com/quizdeck-dev/quizdeck/internal/models"
)

type ResultStore interface {
	Exists(ctx context.Context, quizID, userID string) (bool, error)
	CreateWithAnswers(ctx context.Context, result *models.Result, userAnswers []models.UserAnswer) error
	ByQuizAndUser(ctx context.Context, quizID, userID string) (*models.Result, error)
	ByUser(ctx context.Context, userID string) ([]models.Result, error)
	ByUserInCompany(ctx context.Context, userID, companyID string) ([]models.Result, error)
	ByCompany(ctx context.Context, companyID string) ([]models.Result, error)
}

// Projection is the fast-lookup cache for submitted answers. Best effort:
// a failed write never fails the submission.
type Projection interface {
	StoreSubmission(ctx context.Context, answers []cache.SubmittedAnswer) error
	Get(ctx context.Context, key string) (*cache.SubmittedAnswer, error)
	ScanSubmissions(ctx context.Context, pattern string) ([]cache.SubmittedAnswer, error)
}

type QuestionAnswers struct {
	QuestionID string   `json:"question_id" binding:"required"`
	AnswerIDs  []string `json:"answer_ids" binding:"required"`
}

type AnswerSheet struct {
	Answers []QuestionAnswers `json:"answers" binding:"required"`
}

// AverageMark summarises a user's scores. An empty result set yields a
// zero-valued summary rather than an error.
type AverageMark struct {
	UserID  string  `json:"user_id"`
	Average float64 `json:"average_mark"`
	Taken   int     `json:"quizzes_taken"`
}

type SubmissionService struct {
	results    ResultStore
	quizzes    QuizStore
	members    MembershipStore
	projection Projection
}

func NewSubmissionService(results ResultStore, quizzes QuizStore, members MembershipStore, projection Projection) *SubmissionService {
	return &SubmissionService{results: results, quizzes: quizzes, members: members, projection: projection}
}

// Submit scores the caller's answer sheet and persists one Result plus the
// raw answer records atomically, then projects the submission into the
// cache. Scoring is per-question pass/fail: a question counts when any
// selected answer id is a correct answer of that question.
func (s *SubmissionService) Submit(ctx context.Context, companyID, quizID, callerID string, sheet AnswerSheet) (*models.Result, error) {
	member, err := s.members.Member(ctx, companyID, callerID)
	if err != nil {
		return nil, err
	}
	if err := access.RequireMember(member); err != nil {
		return nil, err
	}

	quiz, err := s.quizzes.ByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.CompanyID != companyID {
		return nil, apperr.NotFound("quiz not found in this company")
	}

	// Advisory pre-check; the unique (quiz_id, user_id) index is the
	// authoritative guard under concurrency.
	exists, err := s.results.Exists(ctx, quizID, callerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("you have already submitted this quiz")
	}

	questions, err := s.quizzes.QuestionsWithAnswers(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, apperr.Invalid("quiz has no questions")
	}

	answerOwner := make(map[string]string, len(questions))
	correct := make(map[string]bool)
	for _, question := range questions {
		for _, answer := range question.Answers {
			answerOwner[answer.ID] = question.ID
			if answer.IsCorrect {
				correct[answer.ID] = true
			}
		}
	}

	// Submitted ids flatten into a set: listing an answer twice records it
	// once.
	selected := make(map[string]bool)
	var userAnswers []models.UserAnswer
	for _, qa := range sheet.Answers {
		for _, answerID := range qa.AnswerIDs {
			owner, ok := answerOwner[answerID]
			if !ok || owner != qa.QuestionID {
				return nil, apperr.Invalid("answer %s does not belong to question %s", answerID, qa.QuestionID)
			}
			if selected[answerID] {
				continue
			}
			selected[answerID] = true
			userAnswers = append(userAnswers, models.UserAnswer{
				QuestionID: qa.QuestionID,
				AnswerID:   answerID,
			})
		}
	}

	passed := 0
	for _, question := range questions {
		for _, answer := range question.Answers {
			if answer.IsCorrect && selected[answer.ID] {
				passed++
				break
			}
		}
	}

	result := models.Result{
		QuizID: quizID,
		UserID: callerID,
		Score:  float64(passed) / float64(len(questions)),
	}

	if err := s.results.CreateWithAnswers(ctx, &result, userAnswers); err != nil {
		return nil, err
	}

	s.project(ctx, companyID, quizID, callerID, userAnswers, correct)

	logging.L.WithFields(map[string]interface{}{
		"quiz_id": quizID,
		"user_id": callerID,
		"score":   result.Score,
	}).Info("quiz submitted")

	return &result, nil
}

// project writes the denormalized lookup records after the relational
// commit. Eventually consistent by design: a failure is logged and the
// authoritative rows stand.
func (s *SubmissionService) project(ctx context.Context, companyID, quizID, userID string, userAnswers []models.UserAnswer, correct map[string]bool) {
	records := make([]cache.SubmittedAnswer, len(userAnswers))
	for i, ua := range userAnswers {
		records[i] = cache.SubmittedAnswer{
			QuestionID: ua.QuestionID,
			AnswerID:   ua.AnswerID,
			UserID:     userID,
			QuizID:     quizID,
			CompanyID:  companyID,
			IsCorrect:  correct[ua.AnswerID],
		}
	}
	if err := s.projection.StoreSubmission(ctx, records); err != nil {
		logging.L.WithError(err).Error("failed to project submission into cache")
	}
}

// QuizResult returns the caller's own result for a quiz.
func (s *SubmissionService) QuizResult(ctx context.Context, companyID, quizID, callerID string) (*models.Result, error) {
	member, err := s.members.Member(ctx, companyID, callerID)
	if err != nil {
		return nil, err
	}
	if err := access.RequireMember(member); err != nil {
		return nil, err
	}
	return s.results.ByQuizAndUser(ctx, quizID, callerID)
}

// UserAverageMark folds over every result the user has, across companies.
func (s *SubmissionService) UserAverageMark(ctx context.Context, userID string) (*AverageMark, error) {
	results, err := s.results.ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return averageOf(userID, results), nil
}

// UserAverageMarkInCompany is self-service or admin/owner gated.
func (s *SubmissionService) UserAverageMarkInCompany(ctx context.Context, companyID, userID, callerID string) (*AverageMark, error) {
	if err := s.requireSelfOrAdmin(ctx, companyID, userID, callerID); err != nil {
		return nil, err
	}
	results, err := s.results.ByUserInCompany(ctx, userID, companyID)
	if err != nil {
		return nil, err
	}
	return averageOf(userID, results), nil
}

// MySubmittedQuizzes resolves every quiz the caller has a result for. A
// result whose quiz has since been deleted is skipped.
func (s *SubmissionService) MySubmittedQuizzes(ctx context.Context, callerID string) ([]models.Quiz, error) {
	results, err := s.results.ByUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	quizzes := make([]models.Quiz, 0, len(results))
	for _, result := range results {
		quiz, err := s.quizzes.ByID(ctx, result.QuizID)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				continue
			}
			return nil, err
		}
		quizzes = append(quizzes, *quiz)
	}
	return quizzes, nil
}

func (s *SubmissionService) ResultsOfUserInCompany(ctx context.Context, companyID, userID, callerID string) ([]models.Result, error) {
	if err := s.requireSelfOrAdmin(ctx, companyID, userID, callerID); err != nil {
		return nil, err
	}
	return s.results.ByUserInCompany(ctx, userID, companyID)
}

func (s *SubmissionService) ResultsOfAllUsersInCompany(ctx context.Context, companyID, callerID string) ([]models.Result, error) {
	member, err := s.members.Member(ctx, companyID, callerID)
	if err != nil {
		return nil, err
	}
	if err := access.RequireAdminOrOwner(member); err != nil {
		return nil, err
	}
	return s.results.ByCompany(ctx, companyID)
}

// CachedSubmission reads one projected record back by its cache key.
func (s *SubmissionService) CachedSubmission(ctx context.Context, key string) (*cache.SubmittedAnswer, error) {
	record, err := s.projection.Get(ctx, key)
	if err != nil {
		return nil, apperr.Wrap(err, "read cached submission")
	}
	if record == nil {
		return nil, apperr.NotFound("no cached submission under this key")
	}
	return record, nil
}

// CachedUserQuizAnswers scans the projection for one submission. Callers
// must tolerate this lagging the relational store.
func (s *SubmissionService) CachedUserQuizAnswers(ctx context.Context, userID, quizID string) ([]cache.SubmittedAnswer, error) {
	records, err := s.projection.ScanSubmissions(ctx, cache.UserQuizPattern(userID, quizID))
	if err != nil {
		return nil, apperr.Wrap(err, "scan cached submissions")
	}
	return records, nil
}

func (s *SubmissionService) requireSelfOrAdmin(ctx context.Context, companyID, userID, callerID string) error {
	if callerID == userID {
		member, err := s.members.Member(ctx, companyID, callerID)
		if err != nil {
			return err
		}
		return access.RequireMember(member)
	}
	member, err := s.members.Member(ctx, companyID, callerID)
	if err != nil {
		return err
	}
	return access.RequireAdminOrOwner(member)
}

func averageOf(userID string, results []models.Result) *AverageMark {
	summary := AverageMark{UserID: userID, Taken: len(results)}
	if len(results) == 0 {
		return &summary
	}
	var total float64
	for _, result := range results {
		total += result.Score
	}
	summary.Average = total / float64(len(results))
	return &summary
}
