package repository

import (
	"context"
	"errors"

	"github.com/quizdeck-dev/quizdeck/internal/apperr"
	"github.com/quizdeck-dev/quizdeck/internal/models"
	"gorm.io/gorm"
)

type CompanyRepo struct{ db *gorm.DB }

func NewCompanyRepo(db *gorm.DB) *CompanyRepo {
	return &CompanyRepo{db: db}
}

// Create persists the company together with its OWNER membership row so a
// company is never observable without an owner.
func (r *CompanyRepo) Create(ctx context.Context, company *models.Company, ownerID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(company).Error; err != nil {
			return err
		}
		member := models.CompanyMember{
			CompanyID: company.ID,
			UserID:    ownerID,
			Role:      models.RoleOwner,
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("company with this name already exists")
		}
		return apperr.Wrap(err, "create company")
	}
	return nil
}

func (r *CompanyRepo) ByID(ctx context.Context, id string) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("company not found")
		}
		return nil, apperr.Wrap(err, "get company")
	}
	return &company, nil
}

func (r *CompanyRepo) NameTaken(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Company{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, apperr.Wrap(err, "check company name")
	}
	return count > 0, nil
}

func (r *CompanyRepo) ListVisible(ctx context.Context, page, limit int) ([]models.Company, error) {
	var companies []models.Company
	err := r.db.WithContext(ctx).
		Where("visible = ?", true).
		Order("created_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&companies).Error
	if err != nil {
		return nil, apperr.Wrap(err, "list companies")
	}
	return companies, nil
}

// ListAll feeds the reminder sweep; visibility does not matter there.
func (r *CompanyRepo) ListAll(ctx context.Context) ([]models.Company, error) {
	var companies []models.Company
	if err := r.db.WithContext(ctx).Find(&companies).Error; err != nil {
		return nil, apperr.Wrap(err, "list all companies")
	}
	return companies, nil
}

func (r *CompanyRepo) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	err := r.db.WithContext(ctx).Model(&models.Company{}).Where("id = ?", id).Updates(fields).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("company with this name already exists")
		}
		return apperr.Wrap(err, "update company")
	}
	return nil
}

// Delete removes the company row; members, actions, quizzes, questions,
// answers and results fall with it through the ON DELETE CASCADE chain.
func (r *CompanyRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Company{}, "id = ?", id)
	if res.Error != nil {
		return apperr.Wrap(res.Error, "delete company")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("company not found")
	}
	return nil
}
