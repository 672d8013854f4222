package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizdeck-dev/quizdeck/internal/models"
	"github.com/quizdeck-dev/quizdeck/internal/service"
	"github.com/quizdeck-dev/quizdeck/internal/utils"
)

type QuizHandler struct {
	quizzes *service.QuizService
}

func NewQuizHandler(quizzes *service.QuizService) *QuizHandler {
	return &QuizHandler{quizzes: quizzes}
}

func (h *QuizHandler) Create(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	var input service.QuizInput

	if err := ctx.BindJSON(&input); err != nil {
		badRequest(ctx)
		return
	}

	quiz, err := h.quizzes.Create(ctx.Request.Context(), ctx.Param("company_id"), currentUser.ID, input)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, quiz)
}

func (h *QuizHandler) Get(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	quiz, err := h.quizzes.Get(ctx.Request.Context(), ctx.Param("quiz_id"), currentUser.ID)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"quiz": quiz})
}

func (h *QuizHandler) GetFull(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	quiz, err := h.quizzes.GetFull(ctx.Request.Context(), ctx.Param("quiz_id"), currentUser.ID)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) Questions(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	questions, err := h.quizzes.Questions(ctx.Request.Context(), ctx.Param("quiz_id"), currentUser.ID)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (h *QuizHandler) QuestionAnswers(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	answers, err := h.quizzes.QuestionAnswers(ctx.Request.Context(), ctx.Param("question_id"), currentUser.ID)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"answers": answers})
}

func (h *QuizHandler) Update(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	var patch models.QuizPatch

	if err := ctx.BindJSON(&patch); err != nil {
		badRequest(ctx)
		return
	}

	quiz, err := h.quizzes.Update(ctx.Request.Context(), ctx.Param("quiz_id"), currentUser.ID, patch)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) Delete(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	if err := h.quizzes.Delete(ctx.Request.Context(), ctx.Param("quiz_id"), currentUser.ID); err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Quiz deleted"})
}

func (h *QuizHandler) List(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	page, limit := pagination(ctx)

	quizzes, err := h.quizzes.List(ctx.Request.Context(), ctx.Param("company_id"), currentUser.ID, page, limit)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"quizzes": quizzes})
}
