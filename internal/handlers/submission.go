package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizdeck-dev/quizdeck/internal/service"
	"github.com/quizdeck-dev/quizdeck/internal/utils"
)

type SubmissionHandler struct {
	submissions *service.SubmissionService
}

func NewSubmissionHandler(submissions *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

func (h *SubmissionHandler) Submit(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	var sheet service.AnswerSheet

	if err := ctx.BindJSON(&sheet); err != nil {
		badRequest(ctx)
		return
	}

	result, err := h.submissions.Submit(ctx.Request.Context(), ctx.Param("company_id"), ctx.Param("quiz_id"), currentUser.ID, sheet)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"result": result})
}

func (h *SubmissionHandler) QuizResult(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	result, err := h.submissions.QuizResult(ctx.Request.Context(), ctx.Param("company_id"), ctx.Param("quiz_id"), currentUser.ID)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"result": result})
}

func (h *SubmissionHandler) UserAverageMark(ctx *gin.Context) {
	summary, err := h.submissions.UserAverageMark(ctx.Request.Context(), ctx.Param("user_id"))

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, summary)
}

// MyRating is the self-scoped variant of UserAverageMark.
func (h *SubmissionHandler) MyRating(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	summary, err := h.submissions.UserAverageMark(ctx.Request.Context(), currentUser.ID)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, summary)
}

func (h *SubmissionHandler) MySubmittedQuizzes(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	quizzes, err := h.submissions.MySubmittedQuizzes(ctx.Request.Context(), currentUser.ID)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"quizzes": quizzes})
}

// MyQuizAnswers reads the caller's own projected answers for one quiz.
func (h *SubmissionHandler) MyQuizAnswers(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	records, err := h.submissions.CachedUserQuizAnswers(ctx.Request.Context(), currentUser.ID, ctx.Param("quiz_id"))

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"submissions": records})
}

func (h *SubmissionHandler) UserAverageMarkInCompany(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	summary, err := h.submissions.UserAverageMarkInCompany(ctx.Request.Context(), ctx.Param("company_id"), ctx.Param("user_id"), currentUser.ID)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, summary)
}

func (h *SubmissionHandler) ResultsOfUserInCompany(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	results, err := h.submissions.ResultsOfUserInCompany(ctx.Request.Context(), ctx.Param("company_id"), ctx.Param("user_id"), currentUser.ID)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *SubmissionHandler) ResultsOfAllUsersInCompany(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	results, err := h.submissions.ResultsOfAllUsersInCompany(ctx.Request.Context(), ctx.Param("company_id"), currentUser.ID)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *SubmissionHandler) CachedSubmission(ctx *gin.Context) {
	record, err := h.submissions.CachedSubmission(ctx.Request.Context(), ctx.Param("key"))

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"submission": record})
}

func (h *SubmissionHandler) CachedUserQuizAnswers(ctx *gin.Context) {
	records, err := h.submissions.CachedUserQuizAnswers(ctx.Request.Context(), ctx.Param("user_id"), ctx.Param("quiz_id"))

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"submissions": records})
}
