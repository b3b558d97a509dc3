package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jamdate/jamdate-backend/internal/delivery/http/handler"
	"github.com/jamdate/jamdate-backend/internal/domain"
)

// TokenVerifier resolves an access token to the user it was issued to.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (int, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireAuth rejects requests without a valid bearer token and stores the
// principal under handler.UserIDKey.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			handler.RespondError(c, domain.ErrUnauthorized.Withf("missing bearer token"))
			return
		}
		token = strings.TrimSpace(token)

		userID, err := m.verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			handler.RespondError(c, err)
			return
		}

		c.Set(handler.UserIDKey, userID)
		c.Set(handler.AccessTokenKey, token)
		c.Next()
	}
}
