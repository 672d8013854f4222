package repository

import (
	"context"
	"errors"

	"github.com/quizdeck-dev/quizdeck/internal/apperr"
	"github.com/quizdeck-dev/quizdeck/internal/models"
	"gorm.io/gorm"
)

type MembershipRepo struct{ db *gorm.DB }

func NewMembershipRepo(db *gorm.DB) *MembershipRepo {
	return &MembershipRepo{db: db}
}

// Member returns the membership row for (company, user), or nil when the
// user is not a member. Absence is an answer here, not an error.
func (r *MembershipRepo) Member(ctx context.Context, companyID, userID string) (*models.CompanyMember, error) {
	var member models.CompanyMember
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND user_id = ?", companyID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Wrap(err, "get membership")
	}
	return &member, nil
}

func (r *MembershipRepo) PendingAction(ctx context.Context, companyID, userID string, status models.ActionStatus) (*models.Action, error) {
	var action models.Action
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND user_id = ? AND status = ?", companyID, userID, status).
		First(&action).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Wrap(err, "get action")
	}
	return &action, nil
}

func (r *MembershipRepo) CreateAction(ctx context.Context, action *models.Action) error {
	if err := r.db.WithContext(ctx).Create(action).Error; err != nil {
		return apperr.Wrap(err, "create action")
	}
	return nil
}

// TransitionAction moves a non-terminal action to its next status.
func (r *MembershipRepo) TransitionAction(ctx context.Context, actionID string, to models.ActionStatus) error {
	err := r.db.WithContext(ctx).
		Model(&models.Action{}).
		Where("id = ?", actionID).
		Update("status", to).Error
	if err != nil {
		return apperr.Wrap(err, "transition action")
	}
	return nil
}

// AcceptAction atomically flips the action to ACCEPTED and creates the
// MEMBER row for the pair.
func (r *MembershipRepo) AcceptAction(ctx context.Context, action *models.Action) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Action{}).
			Where("id = ? AND status = ?", action.ID, action.Status).
			Update("status", models.ActionAccepted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("action is no longer pending")
		}
		member := models.CompanyMember{
			CompanyID: action.CompanyID,
			UserID:    action.UserID,
			Role:      models.RoleMember,
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("user is already a member of this company")
		}
		return err
	}
	return nil
}

// RemoveMember deletes the membership row and cancels any ACCEPTED action
// for the pair, so the pair can go through a fresh invite or request later.
func (r *MembershipRepo) RemoveMember(ctx context.Context, companyID, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("company_id = ? AND user_id = ?", companyID, userID).
			Delete(&models.CompanyMember{})
		if res.Error != nil {
			return apperr.Wrap(res.Error, "remove member")
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("user is not a member of this company")
		}
		err := tx.Model(&models.Action{}).
			Where("company_id = ? AND user_id = ? AND status = ?", companyID, userID, models.ActionAccepted).
			Update("status", models.ActionCancelled).Error
		if err != nil {
			return apperr.Wrap(err, "cancel accepted action")
		}
		return nil
	})
}

func (r *MembershipRepo) UpdateRole(ctx context.Context, memberID string, role models.Role) error {
	err := r.db.WithContext(ctx).
		Model(&models.CompanyMember{}).
		Where("id = ?", memberID).
		Update("role", role).Error
	if err != nil {
		return apperr.Wrap(err, "update role")
	}
	return nil
}

// UsersByActionStatus lists users whose action for the company currently
// has the given status (INVITED and REQUESTED listings).
func (r *MembershipRepo) UsersByActionStatus(ctx context.Context, companyID string, status models.ActionStatus) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN actions ON actions.user_id = users.id").
		Where("actions.company_id = ? AND actions.status = ?", companyID, status).
		Find(&users).Error
	if err != nil {
		return nil, apperr.Wrap(err, "list users by action status")
	}
	return users, nil
}

// CompaniesByUserAction lists companies where the user's action currently
// has the given status (the caller's own invitations and join requests).
func (r *MembershipRepo) CompaniesByUserAction(ctx context.Context, userID string, status models.ActionStatus) ([]models.Company, error) {
	var companies []models.Company
	err := r.db.WithContext(ctx).
		Joins("JOIN actions ON actions.company_id = companies.id").
		Where("actions.user_id = ? AND actions.status = ?", userID, status).
		Find(&companies).Error
	if err != nil {
		return nil, apperr.Wrap(err, "list companies by action status")
	}
	return companies, nil
}

func (r *MembershipRepo) Members(ctx context.Context, companyID string) ([]models.CompanyMember, error) {
	var members []models.CompanyMember
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, apperr.Wrap(err, "list members")
	}
	return members, nil
}

func (r *MembershipRepo) MembersByRole(ctx context.Context, companyID string, role models.Role) ([]models.CompanyMember, error) {
	var members []models.CompanyMember
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND role = ?", companyID, role).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, apperr.Wrap(err, "list members by role")
	}
	return members, nil
}
