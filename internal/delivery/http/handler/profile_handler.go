package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jamdate/jamdate-backend/internal/domain"
	"github.com/jamdate/jamdate-backend/internal/usecase/match"
	"github.com/jamdate/jamdate-backend/internal/usecase/profile"
)

type ProfileHandler struct {
	profileUseCase *profile.ProfileUseCase
	matchUseCase   *match.MatchUseCase
}

func NewProfileHandler(profileUseCase *profile.ProfileUseCase, matchUseCase *match.MatchUseCase) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: profileUseCase,
		matchUseCase:   matchUseCase,
	}
}

// List returns the newest profiles
// @Summary List profiles
// @Tags profiles
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Maximum number of profiles"
// @Success 200 {array} domain.ProfileWithName
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /profiles [get]
func (h *ProfileHandler) List(c *gin.Context) {
	var limit *int
	if raw, ok := c.GetQuery("limit"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			RespondError(c, domain.ErrInvalidLimit)
			return
		}
		limit = &n
	}

	profiles, err := h.profileUseCase.List(c.Request.Context(), limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// Create adds a profile for the caller
// @Summary Create profile
// @Tags profiles
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body profile.ProfileFields true "Profile data"
// @Success 201 {object} domain.ProfileWithName
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /profiles [post]
func (h *ProfileHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req profile.ProfileFields
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.profileUseCase.Create(c.Request.Context(), userID, &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Get returns one profile
// @Summary Get profile
// @Tags profiles
// @Produce json
// @Param id path int true "Profile ID"
// @Success 200 {object} domain.ProfileWithName
// @Failure 404 {object} ErrorResponse
// @Router /profiles/{id} [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	p, err := h.profileUseCase.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Update changes a profile owned by the caller. Keys set to null are cleared.
// @Summary Update profile
// @Tags profiles
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Profile ID"
// @Param request body profile.ProfileFields true "Fields to change"
// @Success 200 {object} domain.ProfileWithName
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /profiles/{id} [put]
func (h *ProfileHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req profile.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.profileUseCase.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UploadPhoto attaches a photo to a profile owned by the caller
// @Summary Upload profile photo
// @Tags profiles
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Profile ID"
// @Param photo formData file true "png, jpg, jpeg or gif"
// @Success 200 {object} domain.ProfileWithName
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /profiles/{id}/photo [post]
func (h *ProfileHandler) UploadPhoto(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	file, src, ok := formPhoto(c)
	if !ok {
		return
	}
	defer src.Close()

	p, err := h.profileUseCase.UploadPhoto(c.Request.Context(), userID, id, file.Filename, src)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Matches returns profiles compatible with one of the caller's profiles
// @Summary Profile matches
// @Tags profiles
// @Security BearerAuth
// @Produce json
// @Param id path int true "Profile ID"
// @Success 200 {array} domain.ProfileWithName
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /profiles/{id}/matches [get]
func (h *ProfileHandler) Matches(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	matches, err := h.matchUseCase.FindMatches(c.Request.Context(), userID, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, matches)
}
