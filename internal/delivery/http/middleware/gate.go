package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jamdate/jamdate-backend/internal/delivery/http/handler"
	"github.com/jamdate/jamdate-backend/internal/domain"
)

// ProfileGate decides whether a user may use profile-gated features.
type ProfileGate interface {
	Check(ctx context.Context, userID int) error
}

type GateMiddleware struct {
	gate ProfileGate
}

func NewGateMiddleware(gate ProfileGate) *GateMiddleware {
	return &GateMiddleware{gate: gate}
}

// RequireCompleteProfile must run after RequireAuth. The check hits storage
// on every request.
func (m *GateMiddleware) RequireCompleteProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt(handler.UserIDKey)
		if userID == 0 {
			handler.RespondError(c, domain.ErrUnauthorized)
			return
		}

		if err := m.gate.Check(c.Request.Context(), userID); err != nil {
			handler.RespondError(c, err)
			return
		}
		c.Next()
	}
}
