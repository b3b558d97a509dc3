package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jamdate/jamdate-backend/internal/usecase/assist"
)

type AssistHandler struct {
	assistUseCase *assist.AssistUseCase
}

func NewAssistHandler(assistUseCase *assist.AssistUseCase) *AssistHandler {
	return &AssistHandler{
		assistUseCase: assistUseCase,
	}
}

// SuggestBiography drafts biographies from profile details
// @Summary Suggest biography
// @Tags assist
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body assist.BiographyRequest true "Profile details"
// @Success 200 {object} assist.BiographyResponse
// @Failure 400 {object} ErrorResponse
// @Router /assist/biography [post]
func (h *AssistHandler) SuggestBiography(c *gin.Context) {
	var req assist.BiographyRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.assistUseCase.SuggestBiography(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
