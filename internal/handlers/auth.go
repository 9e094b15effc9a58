package handlers

import (
	"net/http"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/audit"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/auth"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService  *auth.Service
	auditService *audit.Service
}

func NewAuthHandler(authService *auth.Service, auditService *audit.Service) *AuthHandler {
	return &AuthHandler{authService: authService, auditService: auditService}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	OrganizationName string `json:"organization_name" binding:"required"`
	Name             string `json:"name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// Login issues a bearer token for valid credentials.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	user, err := h.authService.Authenticate(req.Email, req.Password)
	if err != nil {
		fail(c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to issue token", err)
		return
	}

	ok(c, http.StatusOK, "", gin.H{"token": token, "user": user})
}

// Register creates an organization and its first super-admin.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	user, err := h.authService.Register(req.OrganizationName, req.Name, req.Email, req.Password)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to issue token", err)
		return
	}

	h.auditService.Record(user.OrganizationID, user.ID, "create", "organization", user.OrganizationID)
	ok(c, http.StatusCreated, "organization registered", gin.H{"token": token, "user": user})
}

// GetProfile returns the authenticated user.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := h.authService.GetUser(c.GetString("user_id"))
	if err != nil {
		fail(c, http.StatusNotFound, "user not found", err)
		return
	}
	ok(c, http.StatusOK, "", user)
}

// ChangePassword rotates the authenticated user's password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.authService.ChangePassword(c.GetString("user_id"), req.OldPassword, req.NewPassword); err != nil {
		fail(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	ok(c, http.StatusOK, "password updated", nil)
}
