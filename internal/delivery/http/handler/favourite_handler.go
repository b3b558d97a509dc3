package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jamdate/jamdate-backend/internal/domain"
	"github.com/jamdate/jamdate-backend/internal/usecase/favourite"
)

type FavouriteHandler struct {
	favouriteUseCase *favourite.FavouriteUseCase
}

func NewFavouriteHandler(favouriteUseCase *favourite.FavouriteUseCase) *FavouriteHandler {
	return &FavouriteHandler{
		favouriteUseCase: favouriteUseCase,
	}
}

type AddFavouriteResponse struct {
	Message   string            `json:"message"`
	Favourite *domain.Favourite `json:"favourite"`
}

// Add favourites a user
// @Summary Add favourite
// @Tags favourites
// @Security BearerAuth
// @Produce json
// @Param id path int true "Target user ID"
// @Success 201 {object} AddFavouriteResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /users/{id}/favourite [post]
func (h *FavouriteHandler) Add(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}

	fav, err := h.favouriteUseCase.Add(c.Request.Context(), userID, targetID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, AddFavouriteResponse{Message: "user added to favourites", Favourite: fav})
}

// Remove unfavourites a user
// @Summary Remove favourite
// @Tags favourites
// @Security BearerAuth
// @Produce json
// @Param id path int true "Target user ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{id}/favourite [delete]
func (h *FavouriteHandler) Remove(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.favouriteUseCase.Remove(c.Request.Context(), userID, targetID); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "user removed from favourites"})
}

// Mine lists the caller's favourites
// @Summary My favourites
// @Tags favourites
// @Security BearerAuth
// @Produce json
// @Param sort_by query string false "name, parish, birth_year or favorite_count"
// @Param order query string false "asc or desc"
// @Success 200 {array} favourite.FavouriteUser
// @Router /favourites [get]
func (h *FavouriteHandler) Mine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	h.favouritesOf(c, userID)
}

// OfUser lists another user's favourites
// @Summary User favourites
// @Tags favourites
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Param sort_by query string false "name, parish, birth_year or favorite_count"
// @Param order query string false "asc or desc"
// @Success 200 {array} favourite.FavouriteUser
// @Router /users/{id}/favourites [get]
func (h *FavouriteHandler) OfUser(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.favouritesOf(c, userID)
}

func (h *FavouriteHandler) favouritesOf(c *gin.Context, userID int) {
	users, err := h.favouriteUseCase.FavouritesOf(c.Request.Context(), userID, c.Query("sort_by"), c.Query("order"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Top returns the n most favourited users
// @Summary Top favourited
// @Tags favourites
// @Security BearerAuth
// @Produce json
// @Param n path int true "Number of users"
// @Param sort_by query string false "name, parish, birth_year or favorite_count"
// @Param order query string false "asc or desc"
// @Success 200 {array} domain.RankedUser
// @Failure 400 {object} ErrorResponse
// @Router /favourites/top/{n} [get]
func (h *FavouriteHandler) Top(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		RespondError(c, domain.ErrInvalidN)
		return
	}

	users, err := h.favouriteUseCase.TopFavourited(c.Request.Context(), n, c.Query("sort_by"), c.Query("order"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// MostFavourited returns the leaderboard with the default size
// @Summary Most favourited
// @Tags favourites
// @Security BearerAuth
// @Produce json
// @Param sort_by query string false "name, parish, birth_year or favorite_count"
// @Param order query string false "asc or desc"
// @Success 200 {array} domain.RankedUser
// @Router /favourites/most-favourited [get]
func (h *FavouriteHandler) MostFavourited(c *gin.Context) {
	users, err := h.favouriteUseCase.MostFavourited(c.Request.Context(), c.Query("sort_by"), c.Query("order"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
