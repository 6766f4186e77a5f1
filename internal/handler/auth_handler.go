package handler

import (
	"errors"
	"net/http"

	"course_insights/internal/middleware"
	"course_insights/internal/model"
	"course_insights/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const passwordTooLongMessage = "Password must be at most 72 bytes"

// AuthHandler handles account requests under /user
type AuthHandler struct {
	service service.AuthService
	log     *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{service: s, log: log}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid user data")
		return
	}

	user, token, err := h.service.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserAlreadyExists):
			respondMessage(c, http.StatusBadRequest, "User already exists")
		case errors.Is(err, service.ErrPasswordTooLong):
			respondMessage(c, http.StatusBadRequest, passwordTooLongMessage)
		default:
			respondInternalError(c, h.log, "Failed to register user", err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"_id":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"token":    token,
		"schedule": []string{},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request")
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondMessage(c, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		respondInternalError(c, h.log, "Failed to login", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"_id":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"token":    token,
	})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		respondMessage(c, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request")
		return
	}

	err := h.service.ChangePassword(c.Request.Context(), caller.ID, req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOldPassword):
			respondMessage(c, http.StatusBadRequest, "Invalid old password")
		case errors.Is(err, service.ErrPasswordTooLong):
			respondMessage(c, http.StatusBadRequest, passwordTooLongMessage)
		default:
			respondInternalError(c, h.log, "Failed to update password", err)
		}
		return
	}

	respondMessage(c, http.StatusOK, "Password updated successfully")
}

func (h *AuthHandler) CreateAdmin(c *gin.Context) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		respondMessage(c, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req model.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid user data")
		return
	}

	admin, err := h.service.CreateAdmin(c.Request.Context(), caller, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			respondMessage(c, http.StatusForbidden, "Not authorized to create admin")
		case errors.Is(err, service.ErrUserAlreadyExists):
			respondMessage(c, http.StatusBadRequest, "User already exists")
		case errors.Is(err, service.ErrPasswordTooLong):
			respondMessage(c, http.StatusBadRequest, passwordTooLongMessage)
		default:
			respondInternalError(c, h.log, "Failed to create admin", err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"_id":      admin.ID,
		"username": admin.Username,
		"role":     admin.Role,
	})
}

// RegisterAuthRoutes registers account routes on rg. authMW must resolve the
// caller; adminMW gates admin-only routes.
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, adminMW gin.HandlerFunc) {
	userGroup := rg.Group("/user")
	{
		userGroup.POST("/register", h.Register)
		userGroup.POST("/login", h.Login)
		userGroup.POST("/changePassword", authMW, h.ChangePassword)
		userGroup.POST("/createAdmin", authMW, adminMW, h.CreateAdmin)
	}
}
