package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jamdate/jamdate-backend/internal/domain"
	"github.com/jamdate/jamdate-backend/internal/validation"
)

// Context keys set by the authentication middleware.
const (
	UserIDKey      = "user_id"
	AccessTokenKey = "access_token"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

var statusByKind = map[domain.Kind]int{
	domain.KindValidation:       http.StatusBadRequest,
	domain.KindInvalidParameter: http.StatusBadRequest,
	domain.KindUnauthorized:     http.StatusUnauthorized,
	domain.KindForbidden:        http.StatusForbidden,
	domain.KindNotFound:         http.StatusNotFound,
	domain.KindConflict:         http.StatusConflict,
}

// RespondError aborts the request with the status and body matching err.
// Errors outside the domain taxonomy are recorded on the context for the
// request logger and rendered as a generic internal error.
func RespondError(c *gin.Context, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		if status, ok := statusByKind[de.Kind]; ok {
			c.AbortWithStatusJSON(status, ErrorResponse{
				Error:  de.Message,
				Code:   de.Code,
				Fields: de.Fields,
			})
			return
		}
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error: domain.ErrInternal.Message,
		Code:  domain.ErrInternal.Code,
	})
}

// bindJSON decodes the body into req, converting binding failures into
// validation errors.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if fields := validation.FieldErrors(err); fields != nil {
			RespondError(c, domain.ErrValidation.WithFields(fields))
		} else {
			RespondError(c, domain.ErrValidation.Withf("invalid request body"))
		}
		return false
	}
	return true
}

// currentUserID returns the authenticated principal.
func currentUserID(c *gin.Context) (int, bool) {
	userID := c.GetInt(UserIDKey)
	if userID == 0 {
		RespondError(c, domain.ErrUnauthorized)
		return 0, false
	}
	return userID, true
}

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		RespondError(c, domain.ErrInvalidParameter.Withf("%s must be a positive integer", name))
		return 0, false
	}
	return id, true
}

// formPhoto opens the "photo" form file. The caller closes it.
func formPhoto(c *gin.Context) (*multipart.FileHeader, multipart.File, bool) {
	file, err := c.FormFile("photo")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondError(c, domain.ErrPhotoTooLarge)
		} else {
			RespondError(c, domain.ErrValidation.WithFields(map[string]string{"photo": "is required"}))
		}
		return nil, nil, false
	}
	src, err := file.Open()
	if err != nil {
		RespondError(c, err)
		return nil, nil, false
	}
	return file, src, true
}
