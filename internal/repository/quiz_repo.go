package repository

import (
	"context"
	"errors"

	"github.com/quizdeck-dev/quizdeck/internal/apperr"
	"github.com/quizdeck-dev/quizdeck/internal/models"
	"gorm.io/gorm"
)

type QuizRepo struct{ db *gorm.DB }

func NewQuizRepo(db *gorm.DB) *QuizRepo {
	return &QuizRepo{db: db}
}

// Create persists the quiz with its questions and answers in one
// transaction; a quiz is never observable half-built.
func (r *QuizRepo) Create(ctx context.Context, quiz *models.Quiz, questions []models.Question, answers map[int][]models.Answer) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(quiz).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].QuizID = quiz.ID
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
			qa := answers[i]
			for j := range qa {
				qa[j].QuestionID = questions[i].ID
				if err := tx.Create(&qa[j]).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return apperr.Wrap(err, "create quiz")
	}
	return nil
}

func (r *QuizRepo) ByID(ctx context.Context, id string) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := r.db.WithContext(ctx).First(&quiz, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("quiz not found")
		}
		return nil, apperr.Wrap(err, "get quiz")
	}
	return &quiz, nil
}

func (r *QuizRepo) QuestionByID(ctx context.Context, id string) (*models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).First(&question, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("question not found")
		}
		return nil, apperr.Wrap(err, "get question")
	}
	return &question, nil
}

// QuestionsWithAnswers loads the quiz's questions with their answers
// preloaded, in creation order.
func (r *QuizRepo) QuestionsWithAnswers(ctx context.Context, quizID string) ([]models.Question, error) {
	var questions []models.Question
	err := r.db.WithContext(ctx).
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("answers.created_at ASC") }).
		Where("quiz_id = ?", quizID).
		Order("created_at ASC").
		Find(&questions).Error
	if err != nil {
		return nil, apperr.Wrap(err, "load quiz questions")
	}
	return questions, nil
}

func (r *QuizRepo) AnswersByQuestion(ctx context.Context, questionID string) ([]models.Answer, error) {
	var answers []models.Answer
	err := r.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("created_at ASC").
		Find(&answers).Error
	if err != nil {
		return nil, apperr.Wrap(err, "load question answers")
	}
	return answers, nil
}

// Update applies the quiz patch in one transaction. Questions and answers
// with an id are updated in place, ones without an id are created; entries
// omitted from the patch are retained.
func (r *QuizRepo) Update(ctx context.Context, quiz *models.Quiz, patch models.QuizPatch) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quiz.Title = patch.Title
		quiz.Description = patch.Description
		quiz.FrequencyDays = patch.FrequencyDays
		if err := tx.Save(quiz).Error; err != nil {
			return err
		}

		for _, qp := range patch.Questions {
			var question models.Question
			if qp.ID != "" {
				if err := tx.First(&question, "id = ? AND quiz_id = ?", qp.ID, quiz.ID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return apperr.NotFound("question %s not found", qp.ID)
					}
					return err
				}
				question.QuestionText = qp.QuestionText
				if err := tx.Save(&question).Error; err != nil {
					return err
				}
			} else {
				question = models.Question{QuestionText: qp.QuestionText, QuizID: quiz.ID}
				if err := tx.Create(&question).Error; err != nil {
					return err
				}
			}

			for _, ap := range qp.Answers {
				if ap.ID != "" {
					var answer models.Answer
					if err := tx.First(&answer, "id = ? AND question_id = ?", ap.ID, question.ID).Error; err != nil {
						if errors.Is(err, gorm.ErrRecordNotFound) {
							return apperr.NotFound("answer %s not found", ap.ID)
						}
						return err
					}
					answer.AnswerText = ap.AnswerText
					answer.IsCorrect = ap.IsCorrect
					if err := tx.Save(&answer).Error; err != nil {
						return err
					}
				} else {
					answer := models.Answer{AnswerText: ap.AnswerText, IsCorrect: ap.IsCorrect, QuestionID: question.ID}
					if err := tx.Create(&answer).Error; err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return err
		}
		return apperr.Wrap(err, "update quiz")
	}
	return nil
}

func (r *QuizRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Quiz{}, "id = ?", id)
	if res.Error != nil {
		return apperr.Wrap(res.Error, "delete quiz")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("quiz not found")
	}
	return nil
}

func (r *QuizRepo) ListByCompany(ctx context.Context, companyID string, page, limit int) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&quizzes).Error
	if err != nil {
		return nil, apperr.Wrap(err, "list quizzes")
	}
	return quizzes, nil
}

func (r *QuizRepo) ListAllByCompany(ctx context.Context, companyID string) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := r.db.WithContext(ctx).Where("company_id = ?", companyID).Find(&quizzes).Error
	if err != nil {
		return nil, apperr.Wrap(err, "list quizzes")
	}
	return quizzes, nil
}
