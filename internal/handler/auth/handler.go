package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medisched/appointment-api/internal/handler"
	"github.com/medisched/appointment-api/internal/model"
	"github.com/medisched/appointment-api/internal/service/auth"
)

const forgotPasswordMessage = "If an account with this email exists, a password reset link has been sent."

type Handler struct {
	svc *auth.Service

	// onRegister is called after a successful registration, used to drop
	// the doctor directory cache.
	onRegister func(*model.User)
}

func NewHandler(svc *auth.Service, onRegister func(*model.User)) *Handler {
	return &Handler{svc: svc, onRegister: onRegister}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/forgot-password", h.ForgotPassword)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	user, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if h.onRegister != nil {
		h.onRegister(user)
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(user))
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	tokens, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("incorrect email or password"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}

// ForgotPassword responds identically whether or not the account exists.
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if _, err := h.svc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		c.JSON(http.StatusOK, handler.NewSuccessResponse(forgotPasswordMessage))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(forgotPasswordMessage))
}
