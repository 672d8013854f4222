package repository

import (
	"context"
	"errors"

	"github.com/quizdeck-dev/quizdeck/internal/apperr"
	"github.com/quizdeck-dev/quizdeck/internal/models"
	"gorm.io/gorm"
)

type ResultRepo struct{ db *gorm.DB }

func NewResultRepo(db *gorm.DB) *ResultRepo {
	return &ResultRepo{db: db}
}

func (r *ResultRepo) Exists(ctx context.Context, quizID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Result{}).
		Where("quiz_id = ? AND user_id = ?", quizID, userID).
		Count(&count).Error
	if err != nil {
		return false, apperr.Wrap(err, "check existing result")
	}
	return count > 0, nil
}

// CreateWithAnswers persists the result and its raw answer records in one
// transaction. The unique (quiz_id, user_id) index is the authoritative
// duplicate-submission guard: a constraint hit surfaces as Conflict.
func (r *ResultRepo) CreateWithAnswers(ctx context.Context, result *models.Result, userAnswers []models.UserAnswer) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(result).Error; err != nil {
			return err
		}
		for i := range userAnswers {
			userAnswers[i].ResultID = result.ID
			if err := tx.Create(&userAnswers[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("you have already submitted this quiz")
		}
		return apperr.Wrap(err, "store result")
	}
	return nil
}

func (r *ResultRepo) ByQuizAndUser(ctx context.Context, quizID, userID string) (*models.Result, error) {
	var result models.Result
	err := r.db.WithContext(ctx).
		Where("quiz_id = ? AND user_id = ?", quizID, userID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no result for this quiz")
		}
		return nil, apperr.Wrap(err, "get result")
	}
	return &result, nil
}

func (r *ResultRepo) ByUser(ctx context.Context, userID string) ([]models.Result, error) {
	var results []models.Result
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&results).Error
	if err != nil {
		return nil, apperr.Wrap(err, "list user results")
	}
	return results, nil
}

func (r *ResultRepo) ByUserInCompany(ctx context.Context, userID, companyID string) ([]models.Result, error) {
	var results []models.Result
	err := r.db.WithContext(ctx).
		Joins("JOIN quizzes ON quizzes.id = results.quiz_id").
		Where("results.user_id = ? AND quizzes.company_id = ?", userID, companyID).
		Order("results.created_at ASC").
		Find(&results).Error
	if err != nil {
		return nil, apperr.Wrap(err, "list user results in company")
	}
	return results, nil
}

func (r *ResultRepo) ByCompany(ctx context.Context, companyID string) ([]models.Result, error) {
	var results []models.Result
	err := r.db.WithContext(ctx).
		Joins("JOIN quizzes ON quizzes.id = results.quiz_id").
		Where("quizzes.company_id = ?", companyID).
		Order("results.created_at ASC").
		Find(&results).Error
	if err != nil {
		return nil, apperr.Wrap(err, "list company results")
	}
	return results, nil
}

// LatestForQuiz returns the most recent result a user has for a quiz, or
// nil when they never took it. Used by the reminder sweep.
func (r *ResultRepo) LatestForQuiz(ctx context.Context, quizID, userID string) (*models.Result, error) {
	var result models.Result
	err := r.db.WithContext(ctx).
		Where("quiz_id = ? AND user_id = ?", quizID, userID).
		Order("created_at DESC").
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Wrap(err, "get latest result")
	}
	return &result, nil
}
