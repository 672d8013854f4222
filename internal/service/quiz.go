package service

import (
	"context"

	"github.com/quizdeck-dev/quizdeck/internal/access"
	"github.com/quizdeck-dev/quizdeck/internal/apperr"
	"github.com/quizdeck-dev/quizdeck/internal/logging"
	"github.com/quizdeck-dev/quizdeck/internal/models"
)

type QuizStore interface {
	Create(ctx context.Context, quiz *models.Quiz, questions []models.Question, answers map[int][]models.Answer) error
	ByID(ctx context.Context, id string) (*models.Quiz, error)
	QuestionByID(ctx context.Context, id string) (*models.Question, error)
	QuestionsWithAnswers(ctx context.Context, quizID string) ([]models.Question, error)
	AnswersByQuestion(ctx context.Context, questionID string) ([]models.Answer, error)
	Update(ctx context.Context, quiz *models.Quiz, patch models.QuizPatch) error
	Delete(ctx context.Context, id string) error
	ListByCompany(ctx context.Context, companyID string, page, limit int) ([]models.Quiz, error)
	ListAllByCompany(ctx context.Context, companyID string) ([]models.Quiz, error)
}

type AnswerInput struct {
	AnswerText string `json:"answer_text" binding:"required"`
	IsCorrect  bool   `json:"is_correct"`
}

type QuestionInput struct {
	QuestionText string        `json:"question_text" binding:"required"`
	Answers      []AnswerInput `json:"answers" binding:"required"`
}

type QuizInput struct {
	Title         string          `json:"title" binding:"required"`
	Description   string          `json:"description"`
	FrequencyDays int             `json:"frequency_days" binding:"required,min=1"`
	Questions     []QuestionInput `json:"questions" binding:"required"`
}

// QuizFull is the quiz with its full question/answer tree.
type QuizFull struct {
	QuizInfo  models.Quiz       `json:"quiz_info"`
	Questions []models.Question `json:"questions"`
}

type QuizService struct {
	quizzes QuizStore
	members MembershipStore
}

func NewQuizService(quizzes QuizStore, members MembershipStore) *QuizService {
	return &QuizService{quizzes: quizzes, members: members}
}

// Create validates the quiz shape (at least two questions, each with a
// correct answer) and persists the whole tree in one transaction.
func (s *QuizService) Create(ctx context.Context, companyID, callerID string, input QuizInput) (*QuizFull, error) {
	if err := s.requireAdminOrOwner(ctx, companyID, callerID); err != nil {
		return nil, err
	}
	if err := validateQuizInput(input); err != nil {
		return nil, err
	}

	quiz := models.Quiz{
		Title:         input.Title,
		Description:   input.Description,
		FrequencyDays: input.FrequencyDays,
		CompanyID:     companyID,
	}

	questions := make([]models.Question, len(input.Questions))
	answers := make(map[int][]models.Answer, len(input.Questions))
	for i, q := range input.Questions {
		questions[i] = models.Question{QuestionText: q.QuestionText}
		qa := make([]models.Answer, len(q.Answers))
		for j, a := range q.Answers {
			qa[j] = models.Answer{AnswerText: a.AnswerText, IsCorrect: a.IsCorrect}
		}
		answers[i] = qa
	}

	if err := s.quizzes.Create(ctx, &quiz, questions, answers); err != nil {
		return nil, err
	}

	logging.L.WithFields(map[string]interface{}{"quiz_id": quiz.ID, "company_id": companyID}).Info("quiz created")
	return s.full(ctx, &quiz)
}

func (s *QuizService) Get(ctx context.Context, quizID, callerID string) (*models.Quiz, error) {
	quiz, err := s.quizzes.ByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if err := s.requireAdminOrOwner(ctx, quiz.CompanyID, callerID); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) GetFull(ctx context.Context, quizID, callerID string) (*QuizFull, error) {
	quiz, err := s.Get(ctx, quizID, callerID)
	if err != nil {
		return nil, err
	}
	return s.full(ctx, quiz)
}

func (s *QuizService) Questions(ctx context.Context, quizID, callerID string) ([]models.Question, error) {
	quiz, err := s.Get(ctx, quizID, callerID)
	if err != nil {
		return nil, err
	}
	return s.quizzes.QuestionsWithAnswers(ctx, quiz.ID)
}

func (s *QuizService) QuestionAnswers(ctx context.Context, questionID, callerID string) ([]models.Answer, error) {
	question, err := s.quizzes.QuestionByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	quiz, err := s.quizzes.ByID(ctx, question.QuizID)
	if err != nil {
		return nil, err
	}
	if err := s.requireAdminOrOwner(ctx, quiz.CompanyID, callerID); err != nil {
		return nil, err
	}
	return s.quizzes.AnswersByQuestion(ctx, questionID)
}

// Update applies the typed patch: ids update in place, missing ids create
// new entries, omitted entries are retained.
func (s *QuizService) Update(ctx context.Context, quizID, callerID string, patch models.QuizPatch) (*QuizFull, error) {
	quiz, err := s.quizzes.ByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if err := s.requireAdminOrOwner(ctx, quiz.CompanyID, callerID); err != nil {
		return nil, err
	}
	if err := validateQuizPatch(patch); err != nil {
		return nil, err
	}

	if err := s.quizzes.Update(ctx, quiz, patch); err != nil {
		return nil, err
	}

	logging.L.WithField("quiz_id", quiz.ID).Info("quiz updated")
	return s.full(ctx, quiz)
}

func (s *QuizService) Delete(ctx context.Context, quizID, callerID string) error {
	quiz, err := s.quizzes.ByID(ctx, quizID)
	if err != nil {
		return err
	}
	if err := s.requireAdminOrOwner(ctx, quiz.CompanyID, callerID); err != nil {
		return err
	}
	if err := s.quizzes.Delete(ctx, quizID); err != nil {
		return err
	}
	logging.L.WithField("quiz_id", quizID).Info("quiz deleted")
	return nil
}

func (s *QuizService) List(ctx context.Context, companyID, callerID string, page, limit int) ([]models.Quiz, error) {
	if err := s.requireAdminOrOwner(ctx, companyID, callerID); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 5
	}
	return s.quizzes.ListByCompany(ctx, companyID, page, limit)
}

func (s *QuizService) full(ctx context.Context, quiz *models.Quiz) (*QuizFull, error) {
	questions, err := s.quizzes.QuestionsWithAnswers(ctx, quiz.ID)
	if err != nil {
		return nil, err
	}
	return &QuizFull{QuizInfo: *quiz, Questions: questions}, nil
}

func (s *QuizService) requireAdminOrOwner(ctx context.Context, companyID, callerID string) error {
	member, err := s.members.Member(ctx, companyID, callerID)
	if err != nil {
		return err
	}
	return access.RequireAdminOrOwner(member)
}

func validateQuizInput(input QuizInput) error {
	if len(input.Questions) < 2 {
		return apperr.Invalid("quiz must have at least 2 questions")
	}
	if input.FrequencyDays < 1 {
		return apperr.Invalid("frequency_days must be at least 1")
	}
	for _, question := range input.Questions {
		if !hasCorrectAnswer(question.Answers) {
			return apperr.Invalid("question %q must have at least one correct answer", question.QuestionText)
		}
	}
	return nil
}

// validateQuizPatch checks every question whose answer set is being
// replaced or created; questions whose answers are omitted keep their
// already-validated set.
func validateQuizPatch(patch models.QuizPatch) error {
	if patch.FrequencyDays < 1 {
		return apperr.Invalid("frequency_days must be at least 1")
	}
	for _, question := range patch.Questions {
		if question.ID == "" && len(question.Answers) == 0 {
			return apperr.Invalid("new question %q must have answers", question.QuestionText)
		}
		if question.ID == "" {
			correct := false
			for _, answer := range question.Answers {
				if answer.IsCorrect {
					correct = true
					break
				}
			}
			if !correct {
				return apperr.Invalid("question %q must have at least one correct answer", question.QuestionText)
			}
		}
	}
	return nil
}

func hasCorrectAnswer(answers []AnswerInput) bool {
	for _, answer := range answers {
		if answer.IsCorrect {
			return true
		}
	}
	return false
}
