package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jamdate/jamdate-backend/internal/domain"
	"github.com/jamdate/jamdate-backend/internal/usecase/search"
)

type SearchHandler struct {
	searchUseCase *search.SearchUseCase
}

func NewSearchHandler(searchUseCase *search.SearchUseCase) *SearchHandler {
	return &SearchHandler{
		searchUseCase: searchUseCase,
	}
}

// Search filters other users' profiles
// @Summary Search profiles
// @Tags search
// @Security BearerAuth
// @Produce json
// @Param name query string false "Part of the owner's name"
// @Param birth_year query int false "Birth year"
// @Param sex query string false "Sex"
// @Param race query string false "Race"
// @Success 200 {array} domain.ProfileWithName
// @Failure 400 {object} ErrorResponse
// @Router /search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req search.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		RespondError(c, domain.ErrInvalidParameter.Withf("invalid query parameters"))
		return
	}

	profiles, err := h.searchUseCase.Search(c.Request.Context(), userID, &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}
