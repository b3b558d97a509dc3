package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jamdate/jamdate-backend/internal/usecase/auth"
)

type AuthHandler struct {
	authUseCase *auth.AuthUseCase
}

func NewAuthHandler(authUseCase *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

// Register creates an account
// @Summary Register
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.RegisterRequest true "Account data"
// @Success 201 {object} domain.User
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authUseCase.Register(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login exchanges credentials for an access token
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.LoginRequest true "Credentials"
// @Success 200 {object} auth.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authUseCase.Login(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout revokes the current access token
// @Summary Logout
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString(AccessTokenKey)
	if token == "" {
		token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	}

	if err := h.authUseCase.Logout(c.Request.Context(), token); err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}

// Me returns the authenticated user
// @Summary Current user
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.User
// @Failure 401 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authUseCase.Me(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
