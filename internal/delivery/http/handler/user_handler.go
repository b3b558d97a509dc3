package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jamdate/jamdate-backend/internal/usecase/user"
)

type UserHandler struct {
	userUseCase *user.UserUseCase
}

func NewUserHandler(userUseCase *user.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

// List returns every user
// @Summary List users
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.User
// @Failure 403 {object} ErrorResponse
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userUseCase.List(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Get returns one user
// @Summary Get user
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} domain.User
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	u, err := h.userUseCase.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// DeleteMe deletes the caller's account with its profiles and favourites
// @Summary Delete account
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /auth/me [delete]
func (h *UserHandler) DeleteMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.userUseCase.Delete(c.Request.Context(), userID); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "account deleted"})
}

// UploadPhoto sets the caller's account photo
// @Summary Upload account photo
// @Tags auth
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param photo formData file true "png, jpg, jpeg or gif"
// @Success 200 {object} domain.User
// @Failure 400 {object} ErrorResponse
// @Router /auth/me/photo [post]
func (h *UserHandler) UploadPhoto(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	file, src, ok := formPhoto(c)
	if !ok {
		return
	}
	defer src.Close()

	u, err := h.userUseCase.UploadPhoto(c.Request.Context(), userID, file.Filename, src)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
