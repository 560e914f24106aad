package handler

import (
	"fmt"
	"net/http"

	"agribid/internal/auctionerrors"
	model "agribid/internal/models"
	"agribid/services/market/helpers"
	"agribid/utils"

	"github.com/gin-gonic/gin"
)

type SessionServiceInterface interface {
	Login(email, password string, role model.UserType) (*model.User, error)
	Register(name, email, password string, role model.UserType) (*model.User, error)
	Logout() error
	Current() *model.User
}

type SessionHandler struct {
	service SessionServiceInterface
}

func NewSessionHandler(service SessionServiceInterface) *SessionHandler {
	return &SessionHandler{service: service}
}

// RegisterHandler handles POST /auth/register
func (h *SessionHandler) RegisterHandler(c *gin.Context) {
	var req helpers.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RegisterHandler", err)
		return
	}

	user, err := h.service.Register(req.Name, req.Email, req.Password, model.UserType(req.UserType))
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("RegisterHandler: registration failed", map[string]any{"email": req.Email, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToUserResponse(user), "registration successful")
	helpers.LogSuccess("RegisterHandler", "registration successful", map[string]any{
		"user_id":   user.UserID,
		"user_type": string(user.UserType),
	})
}

// LoginHandler handles POST /auth/login
func (h *SessionHandler) LoginHandler(c *gin.Context) {
	var req helpers.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "LoginHandler", err)
		return
	}

	user, err := h.service.Login(req.Email, req.Password, model.UserType(req.UserType))
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("LoginHandler: login failed", map[string]any{"email": req.Email, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToUserResponse(user), "login successful")
	helpers.LogSuccess("LoginHandler", "login successful", map[string]any{
		"user_id":   user.UserID,
		"user_type": string(user.UserType),
	})
}

// LogoutHandler handles POST /auth/logout
func (h *SessionHandler) LogoutHandler(c *gin.Context) {
	if err := h.service.Logout(); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("LogoutHandler: logout failed", map[string]any{"error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "logout successful")
	helpers.LogSuccess("LogoutHandler", "logout successful", nil)
}

// CurrentUserHandler handles GET /auth/me
func (h *SessionHandler) CurrentUserHandler(c *gin.Context) {
	user := h.service.Current()
	if user == nil {
		utils.JSONError(c, http.StatusUnauthorized, auctionerrors.ErrNotAuthenticated, "authentication required")
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToUserResponse(user), "session user retrieved successfully")
}
