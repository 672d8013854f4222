package service

import (
	"context"
	"strings"

	"github.com/quizdeck-dev/quizdeck/internal/access"
	"github.com/quizdeck-dev/quizdeck/internal/apperr"
	"github.com/quizdeck-dev/quizdeck/internal/logging"
	"github.com/quizdeck-dev/quizdeck/internal/models"
)

type CompanyStore interface {
	Create(ctx context.Context, company *models.Company, ownerID string) error
	ByID(ctx context.Context, id string) (*models.Company, error)
	NameTaken(ctx context.Context, name string) (bool, error)
	ListVisible(ctx context.Context, page, limit int) ([]models.Company, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type CompanyInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Visible     *bool  `json:"visible"`
}

type CompanyService struct {
	companies CompanyStore
	members   MembershipStore
}

func NewCompanyService(companies CompanyStore, members MembershipStore) *CompanyService {
	return &CompanyService{companies: companies, members: members}
}

// Create persists the company with the caller as sole OWNER. The name
// uniqueness pre-check is advisory; the unique index settles races.
func (s *CompanyService) Create(ctx context.Context, callerID string, input CompanyInput) (*models.Company, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, apperr.Invalid("company name is required")
	}

	if taken, err := s.companies.NameTaken(ctx, input.Name); err != nil {
		return nil, err
	} else if taken {
		return nil, apperr.Conflict("company with this name already exists")
	}

	company := models.Company{
		Name:        input.Name,
		Description: input.Description,
		Visible:     true,
	}
	if input.Visible != nil {
		company.Visible = *input.Visible
	}

	if err := s.companies.Create(ctx, &company, callerID); err != nil {
		return nil, err
	}

	logging.L.WithField("company_id", company.ID).Info("company created")
	return &company, nil
}

// GetVisible returns the company only when its visibility flag is set.
func (s *CompanyService) GetVisible(ctx context.Context, id string) (*models.Company, error) {
	company, err := s.companies.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !company.Visible {
		return nil, apperr.NotFound("company not visible")
	}
	return company, nil
}

func (s *CompanyService) ListVisible(ctx context.Context, page, limit int) ([]models.Company, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 5
	}
	companies, err := s.companies.ListVisible(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	if len(companies) == 0 {
		return nil, apperr.NotFound("no companies found or invisible")
	}
	return companies, nil
}

func (s *CompanyService) Update(ctx context.Context, companyID, callerID string, input CompanyInput) (*models.Company, error) {
	if err := s.requireOwner(ctx, companyID, callerID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"name":        strings.TrimSpace(input.Name),
		"description": input.Description,
	}
	if input.Visible != nil {
		fields["visible"] = *input.Visible
	}

	if err := s.companies.Update(ctx, companyID, fields); err != nil {
		return nil, err
	}
	return s.companies.ByID(ctx, companyID)
}

func (s *CompanyService) Delete(ctx context.Context, companyID, callerID string) error {
	if err := s.requireOwner(ctx, companyID, callerID); err != nil {
		return err
	}
	if err := s.companies.Delete(ctx, companyID); err != nil {
		return err
	}
	logging.L.WithField("company_id", companyID).Info("company deleted")
	return nil
}

func (s *CompanyService) requireOwner(ctx context.Context, companyID, callerID string) error {
	if _, err := s.companies.ByID(ctx, companyID); err != nil {
		return err
	}
	member, err := s.members.Member(ctx, companyID, callerID)
	if err != nil {
		return err
	}
	return access.RequireOwner(member)
}
