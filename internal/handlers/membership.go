package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizdeck-dev/quizdeck/internal/middleware"
	"github.com/quizdeck-dev/quizdeck/internal/service"
	"github.com/quizdeck-dev/quizdeck/internal/utils"
)

type MembershipHandler struct {
	memberships *service.MembershipService
}

func NewMembershipHandler(memberships *service.MembershipService) *MembershipHandler {
	return &MembershipHandler{memberships: memberships}
}

// companyAction runs one caller-scoped state transition and replies with
// the given success message.
func (h *MembershipHandler) companyAction(ctx *gin.Context, message string,
	op func(currentUser middleware.AuthenticatedUser) error) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	if err := op(currentUser); err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": message})
}

func (h *MembershipHandler) Invite(ctx *gin.Context) {
	h.companyAction(ctx, "User invited successfully", func(u middleware.AuthenticatedUser) error {
		return h.memberships.InviteUser(ctx.Request.Context(), ctx.Param("company_id"), ctx.Param("user_id"), u.ID)
	})
}

func (h *MembershipHandler) AcceptInvitation(ctx *gin.Context) {
	h.companyAction(ctx, "Invitation accepted successfully", func(u middleware.AuthenticatedUser) error {
		return h.memberships.AcceptInvitation(ctx.Request.Context(), ctx.Param("company_id"), u.ID)
	})
}

func (h *MembershipHandler) RejectInvitation(ctx *gin.Context) {
	h.companyAction(ctx, "Invitation rejected successfully", func(u middleware.AuthenticatedUser) error {
		return h.memberships.RejectInvitation(ctx.Request.Context(), ctx.Param("company_id"), u.ID)
	})
}

func (h *MembershipHandler) CancelInvitation(ctx *gin.Context) {
	h.companyAction(ctx, "Invitation cancelled successfully", func(u middleware.AuthenticatedUser) error {
		return h.memberships.CancelInvitation(ctx.Request.Context(), ctx.Param("company_id"), ctx.Param("user_id"), u.ID)
	})
}

func (h *MembershipHandler) SendJoinRequest(ctx *gin.Context) {
	h.companyAction(ctx, "Join request sent successfully", func(u middleware.AuthenticatedUser) error {
		return h.memberships.SendJoinRequest(ctx.Request.Context(), ctx.Param("company_id"), u.ID)
	})
}

func (h *MembershipHandler) CancelJoinRequest(ctx *gin.Context) {
	h.companyAction(ctx, "Join request cancelled successfully", func(u middleware.AuthenticatedUser) error {
		return h.memberships.CancelJoinRequest(ctx.Request.Context(), ctx.Param("company_id"), u.ID)
	})
}

func (h *MembershipHandler) AcceptJoinRequest(ctx *gin.Context) {
	h.companyAction(ctx, "Join request accepted successfully", func(u middleware.AuthenticatedUser) error {
		return h.memberships.AcceptJoinRequest(ctx.Request.Context(), ctx.Param("company_id"), ctx.Param("user_id"), u.ID)
	})
}

func (h *MembershipHandler) RejectJoinRequest(ctx *gin.Context) {
	h.companyAction(ctx, "Join request rejected successfully", func(u middleware.AuthenticatedUser) error {
		return h.memberships.RejectJoinRequest(ctx.Request.Context(), ctx.Param("company_id"), ctx.Param("user_id"), u.ID)
	})
}

func (h *MembershipHandler) Promote(ctx *gin.Context) {
	h.companyAction(ctx, "User promoted to admin successfully", func(u middleware.AuthenticatedUser) error {
		return h.memberships.PromoteToAdmin(ctx.Request.Context(), ctx.Param("company_id"), ctx.Param("user_id"), u.ID)
	})
}

func (h *MembershipHandler) Demote(ctx *gin.Context) {
	h.companyAction(ctx, "Admin demoted to member successfully", func(u middleware.AuthenticatedUser) error {
		return h.memberships.DemoteToMember(ctx.Request.Context(), ctx.Param("company_id"), ctx.Param("user_id"), u.ID)
	})
}

func (h *MembershipHandler) RemoveMember(ctx *gin.Context) {
	h.companyAction(ctx, "User deleted from company successfully", func(u middleware.AuthenticatedUser) error {
		return h.memberships.RemoveMember(ctx.Request.Context(), ctx.Param("company_id"), ctx.Param("user_id"), u.ID)
	})
}

func (h *MembershipHandler) Exit(ctx *gin.Context) {
	h.companyAction(ctx, "User exited from company successfully", func(u middleware.AuthenticatedUser) error {
		return h.memberships.ExitCompany(ctx.Request.Context(), ctx.Param("company_id"), u.ID)
	})
}

func (h *MembershipHandler) InvitedUsers(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	users, err := h.memberships.InvitedUsers(ctx.Request.Context(), ctx.Param("company_id"), currentUser.ID)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *MembershipHandler) RequestedUsers(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	users, err := h.memberships.RequestedUsers(ctx.Request.Context(), ctx.Param("company_id"), currentUser.ID)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *MembershipHandler) MyInvitations(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	companies, err := h.memberships.MyInvitations(ctx.Request.Context(), currentUser.ID)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"companies": companies})
}

func (h *MembershipHandler) MyRequests(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	companies, err := h.memberships.MyRequests(ctx.Request.Context(), currentUser.ID)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"companies": companies})
}

func (h *MembershipHandler) Members(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	members, err := h.memberships.ListMembers(ctx.Request.Context(), ctx.Param("company_id"), currentUser.ID)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"members": members})
}

func (h *MembershipHandler) Admins(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	admins, err := h.memberships.ListAdmins(ctx.Request.Context(), ctx.Param("company_id"), currentUser.ID)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"admins": admins})
}
