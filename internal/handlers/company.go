package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizdeck-dev/quizdeck/internal/service"
	"github.com/quizdeck-dev/quizdeck/internal/utils"
)

type CompanyHandler struct {
	companies *service.CompanyService
}

func NewCompanyHandler(companies *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companies: companies}
}

func (h *CompanyHandler) Create(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	var input service.CompanyInput

	if err := ctx.BindJSON(&input); err != nil {
		badRequest(ctx)
		return
	}

	company, err := h.companies.Create(ctx.Request.Context(), currentUser.ID, input)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"company": company})
}

func (h *CompanyHandler) Get(ctx *gin.Context) {
	company, err := h.companies.GetVisible(ctx.Request.Context(), ctx.Param("company_id"))

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"company": company})
}

func (h *CompanyHandler) List(ctx *gin.Context) {
	page, limit := pagination(ctx)

	companies, err := h.companies.ListVisible(ctx.Request.Context(), page, limit)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"companies": companies})
}

func (h *CompanyHandler) Update(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	var input service.CompanyInput

	if err := ctx.BindJSON(&input); err != nil {
		badRequest(ctx)
		return
	}

	company, err := h.companies.Update(ctx.Request.Context(), ctx.Param("company_id"), currentUser.ID, input)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"company": company})
}

func (h *CompanyHandler) Delete(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	if err := h.companies.Delete(ctx.Request.Context(), ctx.Param("company_id"), currentUser.ID); err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Company deleted successfully"})
}
