package service

import (
	"context"

	"github.com/quizdeck-dev/quizdeck/internal/access"
	"github.com/quizdeck-dev/quizdeck/internal/apperr"
	"github.com/quizdeck-dev/quizdeck/internal/logging"
	"github.com/quizdeck-dev/quizdeck/internal/models"
)

type MembershipStore interface {
	Member(ctx context.Context, companyID, userID string) (*models.CompanyMember, error)
	PendingAction(ctx context.Context, companyID, userID string, status models.ActionStatus) (*models.Action, error)
	CreateAction(ctx context.Context, action *models.Action) error
	TransitionAction(ctx context.Context, actionID string, to models.ActionStatus) error
	AcceptAction(ctx context.Context, action *models.Action) error
	RemoveMember(ctx context.Context, companyID, userID string) error
	UpdateRole(ctx context.Context, memberID string, role models.Role) error
	UsersByActionStatus(ctx context.Context, companyID string, status models.ActionStatus) ([]models.User, error)
	CompaniesByUserAction(ctx context.Context, userID string, status models.ActionStatus) ([]models.Company, error)
	Members(ctx context.Context, companyID string) ([]models.CompanyMember, error)
	MembersByRole(ctx context.Context, companyID string, role models.Role) ([]models.CompanyMember, error)
}

// MembershipService drives the invite/request state machine. Every
// transition validates its guards first and persists atomically; a guard
// violation aborts before any mutation.
type MembershipService struct {
	members   MembershipStore
	companies CompanyStore
	users     UserStore
}

func NewMembershipService(members MembershipStore, companies CompanyStore, users UserStore) *MembershipService {
	return &MembershipService{members: members, companies: companies, users: users}
}

// InviteUser: owner-only, not-self, not-already-member, not-already-invited.
func (s *MembershipService) InviteUser(ctx context.Context, companyID, targetID, callerID string) error {
	if err := s.requireOwner(ctx, companyID, callerID); err != nil {
		return err
	}
	if err := access.RequireNotSelf(targetID, callerID); err != nil {
		return err
	}
	if _, err := s.users.ByID(ctx, targetID); err != nil {
		return err
	}

	member, err := s.members.Member(ctx, companyID, targetID)
	if err != nil {
		return err
	}
	if member != nil {
		return apperr.Conflict("user is already a member of this company")
	}

	pending, err := s.members.PendingAction(ctx, companyID, targetID, models.ActionInvited)
	if err != nil {
		return err
	}
	if pending != nil {
		return apperr.Conflict("user is already invited to this company")
	}

	action := models.Action{
		Status:    models.ActionInvited,
		CompanyID: companyID,
		UserID:    targetID,
	}
	if err := s.members.CreateAction(ctx, &action); err != nil {
		return err
	}

	logging.L.WithFields(map[string]interface{}{"company_id": companyID, "user_id": targetID}).Info("user invited")
	return nil
}

// AcceptInvitation flips the caller's INVITED action to ACCEPTED and
// creates the MEMBER row, atomically.
func (s *MembershipService) AcceptInvitation(ctx context.Context, companyID, callerID string) error {
	action, err := s.pendingOrConflict(ctx, companyID, callerID, models.ActionInvited, "no pending invitation")
	if err != nil {
		return err
	}
	return s.members.AcceptAction(ctx, action)
}

func (s *MembershipService) RejectInvitation(ctx context.Context, companyID, callerID string) error {
	action, err := s.pendingOrConflict(ctx, companyID, callerID, models.ActionInvited, "no pending invitation")
	if err != nil {
		return err
	}
	return s.members.TransitionAction(ctx, action.ID, models.ActionRejected)
}

func (s *MembershipService) CancelInvitation(ctx context.Context, companyID, targetID, callerID string) error {
	if err := s.requireOwner(ctx, companyID, callerID); err != nil {
		return err
	}
	action, err := s.pendingOrConflict(ctx, companyID, targetID, models.ActionInvited, "no pending invitation for this user")
	if err != nil {
		return err
	}
	return s.members.TransitionAction(ctx, action.ID, models.ActionCancelled)
}

// SendJoinRequest: company must exist, caller must not be a member (which
// also covers the owner), and no REQUESTED action may be outstanding.
func (s *MembershipService) SendJoinRequest(ctx context.Context, companyID, callerID string) error {
	if _, err := s.companies.ByID(ctx, companyID); err != nil {
		return err
	}

	member, err := s.members.Member(ctx, companyID, callerID)
	if err != nil {
		return err
	}
	if member != nil {
		return apperr.Conflict("you are already a member of this company")
	}

	pending, err := s.members.PendingAction(ctx, companyID, callerID, models.ActionRequested)
	if err != nil {
		return err
	}
	if pending != nil {
		return apperr.Conflict("you have already requested to join this company")
	}

	action := models.Action{
		Status:    models.ActionRequested,
		CompanyID: companyID,
		UserID:    callerID,
	}
	if err := s.members.CreateAction(ctx, &action); err != nil {
		return err
	}

	logging.L.WithFields(map[string]interface{}{"company_id": companyID, "user_id": callerID}).Info("join request sent")
	return nil
}

func (s *MembershipService) CancelJoinRequest(ctx context.Context, companyID, callerID string) error {
	action, err := s.pendingOrConflict(ctx, companyID, callerID, models.ActionRequested, "no pending join request")
	if err != nil {
		return err
	}
	return s.members.TransitionAction(ctx, action.ID, models.ActionCancelled)
}

func (s *MembershipService) AcceptJoinRequest(ctx context.Context, companyID, targetID, callerID string) error {
	if err := s.requireOwner(ctx, companyID, callerID); err != nil {
		return err
	}
	action, err := s.pendingOrConflict(ctx, companyID, targetID, models.ActionRequested, "no pending join request for this user")
	if err != nil {
		return err
	}
	return s.members.AcceptAction(ctx, action)
}

func (s *MembershipService) RejectJoinRequest(ctx context.Context, companyID, targetID, callerID string) error {
	if err := s.requireOwner(ctx, companyID, callerID); err != nil {
		return err
	}
	action, err := s.pendingOrConflict(ctx, companyID, targetID, models.ActionRequested, "no pending join request for this user")
	if err != nil {
		return err
	}
	return s.members.TransitionAction(ctx, action.ID, models.ActionRejected)
}

// PromoteToAdmin requires the target's current role to be MEMBER. OWNER is
// unreachable from the role paths.
func (s *MembershipService) PromoteToAdmin(ctx context.Context, companyID, targetID, callerID string) error {
	member, err := s.roleTarget(ctx, companyID, targetID, callerID)
	if err != nil {
		return err
	}
	if member.Role != models.RoleMember {
		return apperr.Conflict("user is not a plain member")
	}
	return s.members.UpdateRole(ctx, member.ID, models.RoleAdmin)
}

// DemoteToMember requires the target's current role to be ADMIN.
func (s *MembershipService) DemoteToMember(ctx context.Context, companyID, targetID, callerID string) error {
	member, err := s.roleTarget(ctx, companyID, targetID, callerID)
	if err != nil {
		return err
	}
	if member.Role != models.RoleAdmin {
		return apperr.Conflict("user is not an admin")
	}
	return s.members.UpdateRole(ctx, member.ID, models.RoleMember)
}

// RemoveMember deletes the membership and cancels the pair's ACCEPTED
// action so a later re-invite starts from a clean slate.
func (s *MembershipService) RemoveMember(ctx context.Context, companyID, targetID, callerID string) error {
	if err := s.requireOwner(ctx, companyID, callerID); err != nil {
		return err
	}
	if err := access.RequireNotSelf(targetID, callerID); err != nil {
		return err
	}
	if err := s.members.RemoveMember(ctx, companyID, targetID); err != nil {
		return err
	}
	logging.L.WithFields(map[string]interface{}{"company_id": companyID, "user_id": targetID}).Info("member removed")
	return nil
}

// ExitCompany is self-service and skips the owner gate, but the owner
// cannot leave their own company: delete it or transfer ownership first.
func (s *MembershipService) ExitCompany(ctx context.Context, companyID, callerID string) error {
	member, err := s.members.Member(ctx, companyID, callerID)
	if err != nil {
		return err
	}
	if member == nil {
		return apperr.NotFound("you are not a member of this company")
	}
	if member.Role == models.RoleOwner {
		return apperr.Conflict("the owner cannot exit their own company")
	}
	return s.members.RemoveMember(ctx, companyID, callerID)
}

func (s *MembershipService) InvitedUsers(ctx context.Context, companyID, callerID string) ([]models.User, error) {
	if err := s.requireOwner(ctx, companyID, callerID); err != nil {
		return nil, err
	}
	return s.members.UsersByActionStatus(ctx, companyID, models.ActionInvited)
}

func (s *MembershipService) RequestedUsers(ctx context.Context, companyID, callerID string) ([]models.User, error) {
	if err := s.requireOwner(ctx, companyID, callerID); err != nil {
		return nil, err
	}
	return s.members.UsersByActionStatus(ctx, companyID, models.ActionRequested)
}

// MyInvitations lists the companies that currently hold a pending invite
// for the caller. Self-scoped, no company gate.
func (s *MembershipService) MyInvitations(ctx context.Context, callerID string) ([]models.Company, error) {
	return s.members.CompaniesByUserAction(ctx, callerID, models.ActionInvited)
}

// MyRequests lists the companies the caller has asked to join and is still
// waiting on.
func (s *MembershipService) MyRequests(ctx context.Context, callerID string) ([]models.Company, error) {
	return s.members.CompaniesByUserAction(ctx, callerID, models.ActionRequested)
}

func (s *MembershipService) ListMembers(ctx context.Context, companyID, callerID string) ([]models.CompanyMember, error) {
	if err := s.requireMember(ctx, companyID, callerID); err != nil {
		return nil, err
	}
	return s.members.Members(ctx, companyID)
}

func (s *MembershipService) ListAdmins(ctx context.Context, companyID, callerID string) ([]models.CompanyMember, error) {
	if err := s.requireMember(ctx, companyID, callerID); err != nil {
		return nil, err
	}
	return s.members.MembersByRole(ctx, companyID, models.RoleAdmin)
}

func (s *MembershipService) requireOwner(ctx context.Context, companyID, callerID string) error {
	if _, err := s.companies.ByID(ctx, companyID); err != nil {
		return err
	}
	member, err := s.members.Member(ctx, companyID, callerID)
	if err != nil {
		return err
	}
	return access.RequireOwner(member)
}

func (s *MembershipService) requireMember(ctx context.Context, companyID, callerID string) error {
	if _, err := s.companies.ByID(ctx, companyID); err != nil {
		return err
	}
	member, err := s.members.Member(ctx, companyID, callerID)
	if err != nil {
		return err
	}
	return access.RequireMember(member)
}

// roleTarget runs the shared promote/demote guards and loads the target's
// membership row.
func (s *MembershipService) roleTarget(ctx context.Context, companyID, targetID, callerID string) (*models.CompanyMember, error) {
	if err := s.requireOwner(ctx, companyID, callerID); err != nil {
		return nil, err
	}
	if err := access.RequireNotSelf(targetID, callerID); err != nil {
		return nil, err
	}
	member, err := s.members.Member(ctx, companyID, targetID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, apperr.NotFound("user is not a member of this company")
	}
	return member, nil
}

// pendingOrConflict loads the pair's action in the required state; its
// absence is a state-machine conflict, not a missing entity.
func (s *MembershipService) pendingOrConflict(ctx context.Context, companyID, userID string, status models.ActionStatus, detail string) (*models.Action, error) {
	if _, err := s.companies.ByID(ctx, companyID); err != nil {
		return nil, err
	}
	action, err := s.members.PendingAction(ctx, companyID, userID, status)
	if err != nil {
		return nil, err
	}
	if action == nil {
		return nil, apperr.Conflict(detail)
	}
	return action, nil
}
