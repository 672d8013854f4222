package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizdeck-dev/quizdeck/internal/service"
	"github.com/quizdeck-dev/quizdeck/internal/utils"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthHandler struct {
	users *service.UserService
}

func NewAuthHandler(users *service.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var input service.SignUpInput

	if err := ctx.BindJSON(&input); err != nil {
		badRequest(ctx)
		return
	}

	user, err := h.users.SignUp(ctx.Request.Context(), input)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"user": user})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var body LoginRequest

	if err := ctx.BindJSON(&body); err != nil {
		badRequest(ctx)
		return
	}

	token, user, err := h.users.Login(ctx.Request.Context(), body.Email, body.Password)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": currentUser})
}
